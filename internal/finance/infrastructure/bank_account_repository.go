package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type BankAccountRepository struct {
	db *sql.DB
}

func NewBankAccountRepository(db *sql.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

func (r *BankAccountRepository) Save(ctx context.Context, account *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (id, company_id, name, bank_name, initial_balance, balance, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, account.ID, account.CompanyID, account.Name, account.BankName,
		account.InitialBalance, account.Balance, account.Active, account.CreatedAt)
	return err
}

func (r *BankAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.BankAccount, error) {
	query := `SELECT id, company_id, name, bank_name, initial_balance, balance, active, created_at
        FROM bank_accounts WHERE company_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		var account domain.BankAccount
		if err := rows.Scan(&account.ID, &account.CompanyID, &account.Name, &account.BankName,
			&account.InitialBalance, &account.Balance, &account.Active, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *BankAccountRepository) FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*domain.BankAccount, error) {
	query := `SELECT id, company_id, name, bank_name, initial_balance, balance, active, created_at
        FROM bank_accounts WHERE id = $1 AND company_id = $2`

	var account domain.BankAccount
	err := r.db.QueryRowContext(ctx, query, accountID, companyID).Scan(&account.ID, &account.CompanyID, &account.Name,
		&account.BankName, &account.InitialBalance, &account.Balance, &account.Active, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *BankAccountRepository) AdjustBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, delta decimal.Decimal) error {
	result, err := conn(r.db, tx).ExecContext(ctx, `UPDATE bank_accounts SET balance = balance + $1 WHERE id = $2`, delta, accountID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *BankAccountRepository) IsReferenced(ctx context.Context, accountID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
            SELECT 1 FROM transactions WHERE bank_account_id = $1 OR destination_bank_account_id = $1
            UNION ALL
            SELECT 1 FROM recurring_transactions WHERE bank_account_id = $1 OR destination_bank_account_id = $1
        )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&exists)
	return exists, err
}

func (r *BankAccountRepository) Delete(ctx context.Context, companyID, accountID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = $1 AND company_id = $2`, accountID, companyID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
