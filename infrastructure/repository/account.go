package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-health-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-health-api/internal/domain"
)

const (
	accountsTable        = "accounts a"
	businessManagerTable = "business_manager bm"
)

type AccountRepository interface {
	GetAccountByID(accountID string) (*domain.AdAccount, error)
	GetAccountByExternalID(accountExternalID string) (*domain.AdAccount, error)
	ListAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error)
	ListAccountsMap() (map[string]struct{}, error)
	SaveOrUpdate(account []*domain.AdAccount, businessManagerIDs map[string]string) error
	SaveOrUpdateBusinessManager(bms []*domain.BusinessManager) (map[string]string, error)
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (a *accountRepository) GetAccountByExternalID(accountExternalID string) (*domain.AdAccount, error) {
	return a.getAccount(squirrel.Eq{"a.external_id": accountExternalID})
}

func (a *accountRepository) GetAccountByID(accountID string) (*domain.AdAccount, error) {
	return a.getAccount(squirrel.Eq{"a.id": accountID})
}

func (a *accountRepository) getAccount(whereClause map[string]interface{}) (*domain.AdAccount, error) {
	accountsSQL, accountsArgs, err := squirrel.
		Select("a.id, a.external_id, a.name, a.nickname, a.currency, a.status, a.origin, a.business_id").
		From(accountsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := a.conn.QueryRow(accountsSQL, accountsArgs...)

	acc, err := a.deserializeAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return acc, err
}

func (a *accountRepository) deserializeAccount(row *sql.Row) (*domain.AdAccount, error) {
	acc := &domain.AdAccount{}

	if err := row.Scan(
		&acc.ID,
		&acc.ExternalID,
		&acc.Name,
		&acc.Nickname,
		&acc.Currency,
		&acc.Status,
		&acc.Origin,
		&acc.BusinessManagerID,
	); err != nil {
		return nil, err
	}

	return acc, nil
}

func (a *accountRepository) ListAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error) {
	queryBuilder := squirrel.
		Select("a.id, a.external_id, a.name, a.nickname, a.currency, a.status, bm.id, bm.name").
		From(accountsTable).
		Join("business_manager bm ON a.business_id = bm.id").
		OrderBy("a.nickname ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(availableStatus) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"a.status": availableStatus})
	}

	accountsSQL, accountsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := a.conn.Query(accountsSQL, accountsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)

	for rows.Next() {
		acc, err := a.deserializeAccountWithBM(rows)
		if err != nil {
			return nil, err
		}

		if acc == nil {
			continue
		}

		accounts = append(accounts, acc)
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	return accounts, err
}

func (r *accountRepository) SaveOrUpdate(accounts []*domain.AdAccount, businessManagerIDs map[string]string) error {
	if len(accounts) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("accounts").
		Columns("id", "external_id", "name", "nickname", "currency", "origin", "business_id", "status").
		PlaceholderFormat(squirrel.Dollar)

	for _, account := range accounts {
		// Chave composta para localizar o business manager correto
		bmKey := fmt.Sprintf("%s:%s", account.Origin, account.BusinessManagerID)

		businessID, exists := businessManagerIDs[bmKey]
		if !exists {
			logrus.Warnf("Business manager não encontrado para a chave: %s", bmKey)
			continue
		}

		query = query.Values(
			account.ID,
			account.ExternalID,
			account.Name,
			account.Nickname,
			account.Currency,
			account.Origin,
			businessID,
			account.Status,
		)
	}

	query = query.Suffix(`
			ON CONFLICT (external_id, origin) DO UPDATE SET
				name = EXCLUDED.name,
				currency = EXCLUDED.currency,
				status = EXCLUDED.status,
				nickname = COALESCE(accounts.nickname, EXCLUDED.nickname)
		`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *accountRepository) SaveOrUpdateBusinessManager(bms []*domain.BusinessManager) (map[string]string, error) {
	businessManagerIDS := make(map[string]string, 0)

	err := r.getExistingBusinessManagers(businessManagerIDS)
	if err != nil {
		return nil, fmt.Errorf("erro ao recuperar business managers existentes: %w", err)
	}

	for _, bm := range bms {
		compositeKey := fmt.Sprintf("%s:%s", bm.Origin, bm.ExternalID)

		if _, exists := businessManagerIDS[compositeKey]; exists {
			continue
		}

		query := squirrel.StatementBuilder.
			Insert("business_manager").
			Columns("id", "external_id", "name", "origin").
			PlaceholderFormat(squirrel.Dollar)

		query = query.Values(
			bm.ID,
			bm.ExternalID,
			bm.Name,
			bm.Origin,
		)

		query = query.Suffix(`
			ON CONFLICT (external_id, origin) DO UPDATE SET
				name = EXCLUDED.name RETURNING id
		`)

		sqlQuery, args, err := query.ToSql()
		if err != nil {
			return businessManagerIDS, fmt.Errorf("failed to build query: %w", err)
		}

		var ID string
		err = r.conn.QueryRow(sqlQuery, args...).Scan(&ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return businessManagerIDS, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
			}
			return businessManagerIDS, fmt.Errorf("failed to execute query: %w", err)
		}

		businessManagerIDS[compositeKey] = ID
	}

	return businessManagerIDS, nil
}

func (a *accountRepository) deserializeAccountWithBM(row *sql.Rows) (*domain.AdAccount, error) {
	acc := domain.AdAccount{}

	if err := row.Scan(
		&acc.ID,
		&acc.ExternalID,
		&acc.Name,
		&acc.Nickname,
		&acc.Currency,
		&acc.Status,
		&acc.BusinessManagerID,
		&acc.BusinessManagerName,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &acc, nil
}

func (a *accountRepository) ListAccountsMap() (map[string]struct{}, error) {
	accountsSQL, accountsArgs, err := squirrel.
		Select("a.id, a.external_id, a.origin").
		From(accountsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := a.conn.Query(accountsSQL, accountsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return make(map[string]struct{}, 0), nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]struct{})

	for rows.Next() {
		account := &domain.AdAccount{}
		err := rows.Scan(
			&account.ID,
			&account.ExternalID,
			&account.Origin,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao deserializar a conta: %w", err)
		}

		compositeKey := fmt.Sprintf("%s:%s", account.Origin, account.ExternalID)
		accountsMap[compositeKey] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar sobre os resultados: %w", err)
	}

	return accountsMap, nil
}

// getExistingBusinessManagers preenche o mapa (origin:externalID -> id) com os
// business managers já cadastrados.
func (r *accountRepository) getExistingBusinessManagers(bmIDs map[string]string) error {
	if bmIDs == nil {
		return errors.New("o mapa de business managers não pode ser nulo")
	}

	query, args, err := squirrel.
		Select("id, external_id, origin").
		From("business_manager").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("erro ao consultar business managers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, externalID, origin string
		if err := rows.Scan(&id, &externalID, &origin); err != nil {
			return fmt.Errorf("erro ao ler business manager: %w", err)
		}

		compositeKey := fmt.Sprintf("%s:%s", origin, externalID)
		bmIDs[compositeKey] = id
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("erro durante iteração dos resultados: %w", err)
	}

	return nil
}
