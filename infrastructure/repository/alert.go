package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/campaign-health-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

const (
	alertsTable = "alerts al"
)

// AlertRepository lê os alertas produzidos pelo linter estrutural. O serviço
// apenas repassa os registros; a escrita pertence ao processo do linter.
type AlertRepository interface {
	ListByAccountID(accountID string) ([]*domain.Alert, error)
}

type alertRepository struct {
	conn *postgres.Connection
}

func NewAlertRepository(conn *postgres.Connection) AlertRepository {
	return &alertRepository{
		conn: conn,
	}
}

func (r *alertRepository) ListByAccountID(accountID string) ([]*domain.Alert, error) {
	query, args, err := squirrel.
		Select("al.id, al.account_id, al.campaign_id, al.kind, al.severity, al.message, al.created_at").
		From(alertsTable).
		Where(squirrel.Eq{"al.account_id": accountID}).
		OrderBy("al.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		alert := &domain.Alert{}
		err := rows.Scan(
			&alert.ID,
			&alert.AccountID,
			&alert.CampaignID,
			&alert.Kind,
			&alert.Severity,
			&alert.Message,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear alerta: %w", err)
		}
		alerts = append(alerts, alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return alerts, nil
}
