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
	scoreRecordsTable = "score_records sr"
)

// ScoreRecordRepository guarda o histórico de avaliações de campanha. O
// registro completo é serializado como JSON; as colunas soltas existem para
// consulta e ordenação.
type ScoreRecordRepository interface {
	Save(accountID string, record *domain.CampaignScoreRecord) error
	GetLatestByAccount(accountID string, limit int) ([]*domain.CampaignScoreRecord, error)
	GetByCampaign(accountID, campaignID string, limit int) ([]*domain.CampaignScoreRecord, error)
	DeleteOlderThan(days int) (int64, error)
}

type scoreRecordRepository struct {
	conn *postgres.Connection
}

func NewScoreRecordRepository(conn *postgres.Connection) ScoreRecordRepository {
	return &scoreRecordRepository{
		conn: conn,
	}
}

func (r *scoreRecordRepository) Save(accountID string, record *domain.CampaignScoreRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("erro ao serializar avaliação para JSON: %w", err)
	}

	query := squirrel.StatementBuilder.
		Insert("score_records").
		Columns("evaluation_id", "account_id", "campaign_id", "total_score", "status", "evaluated_at", "record").
		Values(
			record.EvaluationID,
			accountID,
			record.CampaignID,
			record.TotalScore,
			record.Status,
			record.EvaluatedAt,
			recordJSON,
		).
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

func (r *scoreRecordRepository) GetLatestByAccount(accountID string, limit int) ([]*domain.CampaignScoreRecord, error) {
	return r.list(squirrel.Eq{"sr.account_id": accountID}, limit)
}

func (r *scoreRecordRepository) GetByCampaign(accountID, campaignID string, limit int) ([]*domain.CampaignScoreRecord, error) {
	return r.list(squirrel.Eq{"sr.account_id": accountID, "sr.campaign_id": campaignID}, limit)
}

func (r *scoreRecordRepository) list(whereClause map[string]interface{}, limit int) ([]*domain.CampaignScoreRecord, error) {
	queryBuilder := squirrel.
		Select("sr.record").
		From(scoreRecordsTable).
		Where(whereClause).
		OrderBy("sr.evaluated_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	query, args, err := queryBuilder.ToSql()
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

	records := make([]*domain.CampaignScoreRecord, 0)
	for rows.Next() {
		var recordJSON []byte
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("erro ao escanear avaliação: %w", err)
		}

		record := &domain.CampaignScoreRecord{}
		if err := json.Unmarshal(recordJSON, record); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de record: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *scoreRecordRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query, args, err := squirrel.
		Delete("score_records").
		Where(squirrel.Lt{"evaluated_at": cutoff}).
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
