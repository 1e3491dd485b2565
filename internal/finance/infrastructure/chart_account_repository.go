package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
)

type ChartAccountRepository struct {
	db *sql.DB
}

func NewChartAccountRepository(db *sql.DB) *ChartAccountRepository {
	return &ChartAccountRepository{db: db}
}

func (r *ChartAccountRepository) Save(ctx context.Context, account *domain.ChartAccount) error {
	query := `INSERT INTO chart_accounts (id, company_id, code, name, type, parent_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, account.ID, account.CompanyID, account.Code, account.Name,
		account.Type, account.ParentID, account.CreatedAt)
	return err
}

func (r *ChartAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, accountType string) ([]domain.ChartAccount, error) {
	query := "SELECT id, company_id, code, name, type, parent_id, created_at FROM chart_accounts WHERE company_id = $1"
	args := []interface{}{companyID}

	if accountType != "" {
		query += " AND type = $2"
		args = append(args, accountType)
	}
	query += " ORDER BY code"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.ChartAccount
	for rows.Next() {
		var account domain.ChartAccount
		if err := rows.Scan(&account.ID, &account.CompanyID, &account.Code, &account.Name, &account.Type,
			&account.ParentID, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *ChartAccountRepository) FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*domain.ChartAccount, error) {
	query := "SELECT id, company_id, code, name, type, parent_id, created_at FROM chart_accounts WHERE id = $1 AND company_id = $2"

	var account domain.ChartAccount
	err := r.db.QueryRowContext(ctx, query, accountID, companyID).Scan(&account.ID, &account.CompanyID, &account.Code,
		&account.Name, &account.Type, &account.ParentID, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *ChartAccountRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM chart_accounts WHERE company_id = $1 AND code = $2)"
	err := r.db.QueryRowContext(ctx, query, companyID, code).Scan(&exists)
	return exists, err
}

func (r *ChartAccountRepository) Delete(ctx context.Context, companyID, accountID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM chart_accounts WHERE id = $1 AND company_id = $2", accountID, companyID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
