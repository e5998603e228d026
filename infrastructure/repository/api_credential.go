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
	apiCredentialsTable = "api_credentials ac"
)

// APICredentialRepository persiste tokens de provedores externos, para que a
// renovação automática não se perca em um reinício do processo.
type APICredentialRepository interface {
	GetByProvider(provider string) (*domain.APICredential, error)
	Upsert(credential *domain.APICredential) error
}

type apiCredentialRepository struct {
	conn *postgres.Connection
}

func NewAPICredentialRepository(conn *postgres.Connection) APICredentialRepository {
	return &apiCredentialRepository{
		conn: conn,
	}
}

func (r *apiCredentialRepository) GetByProvider(provider string) (*domain.APICredential, error) {
	query, args, err := squirrel.
		Select("ac.provider, ac.token, ac.expires_at, ac.updated_at").
		From(apiCredentialsTable).
		Where(squirrel.Eq{"ac.provider": provider}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	credential := &domain.APICredential{}
	row := r.conn.QueryRow(query, args...)

	err = row.Scan(
		&credential.Provider,
		&credential.Token,
		&credential.ExpiresAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear credencial: %w", err)
	}

	return credential, nil
}

func (r *apiCredentialRepository) Upsert(credential *domain.APICredential) error {
	query := squirrel.StatementBuilder.
		Insert("api_credentials").
		Columns("provider", "token", "expires_at").
		Values(
			credential.Provider,
			credential.Token,
			credential.ExpiresAt,
		).
		Suffix(`
			ON CONFLICT (provider) DO UPDATE SET
				token = EXCLUDED.token,
				expires_at = EXCLUDED.expires_at,
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
