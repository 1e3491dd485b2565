package domain

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

type BankAccount struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

type BankAccountRepository interface {
	Save(ctx context.Context, account *BankAccount) error
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]BankAccount, error)
	FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*BankAccount, error)
	// AdjustBalance adds delta to the stored balance.
	AdjustBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, delta decimal.Decimal) error
	// IsReferenced reports whether any transaction or template points at the account.
	IsReferenced(ctx context.Context, accountID uuid.UUID) (bool, error)
	Delete(ctx context.Context, companyID, accountID uuid.UUID) error
}

func (a *BankAccount) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return errors.NewValidationError("Bank account name is required")
	}
	if len(a.Name) > 100 {
		return errors.NewValidationError("Bank account name must be of length less than 100")
	}
	return nil
}
