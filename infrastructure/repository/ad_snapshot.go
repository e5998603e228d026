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
	adSnapshotsTable = "ad_snapshots ads"
)

// AdSnapshotRepository é o cache de métricas brutas por anúncio e janela de
// período, irmão do cache de campanhas.
type AdSnapshotRepository interface {
	GetByAccountAndPeriod(accountID string, periodStart, periodEnd time.Time) ([]*domain.AdSnapshotEntry, error)
	SaveOrUpdate(entry *domain.AdSnapshotEntry) error
	DeleteOlderThan(days int) (int64, error)
}

type adSnapshotRepository struct {
	conn *postgres.Connection
}

func NewAdSnapshotRepository(conn *postgres.Connection) AdSnapshotRepository {
	return &adSnapshotRepository{
		conn: conn,
	}
}

func (r *adSnapshotRepository) GetByAccountAndPeriod(accountID string, periodStart, periodEnd time.Time) ([]*domain.AdSnapshotEntry, error) {
	query, args, err := squirrel.
		Select("ads.id, ads.account_id, ads.campaign_id, ads.ad_id, ads.ad_name, ads.status, ads.started_at, ads.period_start, ads.period_end, ads.metrics, ads.created_at, ads.updated_at").
		From(adSnapshotsTable).
		Where(squirrel.Eq{
			"ads.account_id":   accountID,
			"ads.period_start": periodStart.Format("2006-01-02"),
			"ads.period_end":   periodEnd.Format("2006-01-02"),
		}).
		OrderBy("ads.campaign_id ASC, ads.ad_id ASC").
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

	entries := make([]*domain.AdSnapshotEntry, 0)
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshot de anúncio: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

func (r *adSnapshotRepository) SaveOrUpdate(entry *domain.AdSnapshotEntry) error {
	var metricsJSON []byte
	var err error

	if entry.Metrics != nil {
		metricsJSON, err = json.Marshal(entry.Metrics)
		if err != nil {
			return fmt.Errorf("erro ao serializar métricas para JSON: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("ad_snapshots").
		Columns("account_id", "campaign_id", "ad_id", "ad_name", "status", "started_at", "period_start", "period_end", "metrics").
		Values(
			entry.AccountID,
			entry.CampaignID,
			entry.AdID,
			entry.AdName,
			entry.Status,
			entry.StartedAt,
			entry.PeriodStart.Format("2006-01-02"),
			entry.PeriodEnd.Format("2006-01-02"),
			metricsJSON,
		).
		Suffix(`
			ON CONFLICT (account_id, ad_id, period_start, period_end) DO UPDATE SET
				campaign_id = EXCLUDED.campaign_id,
				ad_name = EXCLUDED.ad_name,
				status = EXCLUDED.status,
				started_at = EXCLUDED.started_at,
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

func (r *adSnapshotRepository) DeleteOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("ad_snapshots").
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

func (r *adSnapshotRepository) scanEntry(rows *sql.Rows) (*domain.AdSnapshotEntry, error) {
	entry := &domain.AdSnapshotEntry{}
	var metricsJSON []byte

	err := rows.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.CampaignID,
		&entry.AdID,
		&entry.AdName,
		&entry.Status,
		&entry.StartedAt,
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
