package domain

import (
	"context"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"strings"
	"time"
)

type ChartAccountType string

const (
	ChartAccountTypeIncome  ChartAccountType = "income"
	ChartAccountTypeExpense ChartAccountType = "expense"
)

func (t ChartAccountType) IsValid() bool {
	return t == ChartAccountTypeIncome || t == ChartAccountTypeExpense
}

// ChartAccount is one line of a company's chart of accounts.
type ChartAccount struct {
	ID        uuid.UUID        `json:"id"`
	CompanyID uuid.UUID        `json:"company_id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Type      ChartAccountType `json:"type"`
	ParentID  *uuid.UUID       `json:"parent_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ChartAccountRepository interface {
	Save(ctx context.Context, account *ChartAccount) error
	FindByCompany(ctx context.Context, companyID uuid.UUID, accountType string) ([]ChartAccount, error)
	FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*ChartAccount, error)
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, companyID, accountID uuid.UUID) error
}

func (a *ChartAccount) Validate() error {
	a.Code = strings.TrimSpace(a.Code)
	a.Name = strings.TrimSpace(a.Name)
	if a.Code == "" {
		return errors.NewValidationError("Chart account code is required")
	}
	if a.Name == "" {
		return errors.NewValidationError("Chart account name is required")
	}
	if !a.Type.IsValid() {
		return errors.NewValidationError("Type must be 'income' or 'expense'")
	}
	if a.ParentID != nil && *a.ParentID == a.ID {
		return errors.NewValidationError("Chart account cannot be its own parent")
	}
	return nil
}
