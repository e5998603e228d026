package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-health-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

const (
	campaignSnapshotsTable = "campaign_snapshots cs"
)

// CampaignSnapshotRepository é o cache de métricas brutas de campanha por
// janela de período, preenchido pela sincronização e lido pela avaliação.
type CampaignSnapshotRepository interface {
	GetByAccountAndPeriod(accountID string, periodStart, periodEnd time.Time) ([]*domain.CampaignSnapshotEntry, error)
	SaveOrUpdate(entry *domain.CampaignSnapshotEntry) error
	DeleteOlderThan(days int) (int64, error)
}

type campaignSnapshotRepository struct {
	conn *postgres.Connection
}

func NewCampaignSnapshotRepository(conn *postgres.Connection) CampaignSnapshotRepository {
	return &campaignSnapshotRepository{
		conn: conn,
	}
}

func (r *campaignSnapshotRepository) GetByAccountAndPeriod(accountID string, periodStart, periodEnd time.Time) ([]*domain.CampaignSnapshotEntry, error) {
	query, args, err := squirrel.
		Select("cs.id, cs.account_id, cs.campaign_id, cs.campaign_name, cs.status, cs.daily_budget, cs.period_start, cs.period_end, cs.metrics, cs.created_at, cs.updated_at").
		From(campaignSnapshotsTable).
		Where(squirrel.Eq{
			"cs.account_id":   accountID,
			"cs.period_start": periodStart.Format("2006-01-02"),
			"cs.period_end":   periodEnd.Format("2006-01-02"),
		}).
		OrderBy("cs.campaign_id ASC").
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

	entries := make([]*domain.CampaignSnapshotEntry, 0)
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot de campanha: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

func (r *campaignSnapshotRepository) SaveOrUpdate(entry *domain.CampaignSnapshotEntry) error {
	var metricsJSON []byte
	var err error

	if entry.Metrics != nil {
		metricsJSON, err = json.Marshal(entry.Metrics)
		if err != nil {
			return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("campaign_snapshots").
		Columns("account_id", "campaign_id", "campaign_name", "status", "daily_budget", "period_start", "period_end", "metrics").
		Values(
			entry.AccountID,
			entry.CampaignID,
			entry.CampaignName,
			entry.Status,
			entry.DailyBudget,
			entry.PeriodStart.Format("2006-01-02"),
			entry.PeriodEnd.Format("2006-01-02"),
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (account_id, campaign_id, period_start, period_end) DO UPDATE SET
				campaign_name = EXCLUDED.campaign_name,
				status = EXCLUDED.status,
				daily_budget = EXCLUDED.daily_budget,
				metrics = EXCLUDED.metrics,
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

func (r *campaignSnapshotRepository) DeleteOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("campaign_snapshots").
		Where(squirrel.Lt{"period_end": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *campaignSnapshotRepository) scanEntry(rows *sql.Rows) (*domain.CampaignSnapshotEntry, error) {
	entry := &domain.CampaignSnapshotEntry{}
	var metricsJSON []byte

	err := rows.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.CampaignID,
		&entry.CampaignName,
		&entry.Status,
		&entry.DailyBudget,
		&entry.PeriodStart,
		&entry.PeriodEnd,
		&metricsJSON,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if metricsJSON != nil {
		metrics := &domain.RawMetrics{}
		if err := json.Unmarshal(metricsJSON, metrics); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de metrics: %w", err)
		}
		entry.Metrics = metrics
	}

	return entry, nil
}
