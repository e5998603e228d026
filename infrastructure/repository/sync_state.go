package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-health-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

const (
	syncStatesTable = "sync_states ss"
)

// SyncStateRepository guarda a proveniência da sincronização por conta, usada
// pelo relatório para informar lastSyncAt e a frequência configurada.
type SyncStateRepository interface {
	GetByAccountID(accountID string) (*domain.SyncState, error)
	Upsert(state *domain.SyncState) error
}

type syncStateRepository struct {
	conn *postgres.Connection
}

func NewSyncStateRepository(conn *postgres.Connection) SyncStateRepository {
	return &syncStateRepository{
		conn: conn,
	}
}

func (r *syncStateRepository) GetByAccountID(accountID string) (*domain.SyncState, error) {
	query, args, err := squirrel.
		Select("ss.account_id, ss.last_sync_at, ss.frequency, ss.updated_at").
		From(syncStatesTable).
		Where(squirrel.Eq{"ss.account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	state := &domain.SyncState{}
	row := r.conn.QueryRow(query, args...)

	err = row.Scan(
		&state.AccountID,
		&state.LastSyncAt,
		&state.Frequency,
		&state.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear estado de sincronização: %w", err)
	}

	return state, nil
}

func (r *syncStateRepository) Upsert(state *domain.SyncState) error {
	query := squirrel.StatementBuilder.
		Insert("sync_states").
		Columns("account_id", "last_sync_at", "frequency").
		Values(
			state.AccountID,
			state.LastSyncAt,
			state.Frequency,
		).
		Suffix(`
			ON CONFLICT (account_id) DO UPDATE SET
				last_sync_at = EXCLUDED.last_sync_at,
				frequency = EXCLUDED.frequency,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}
