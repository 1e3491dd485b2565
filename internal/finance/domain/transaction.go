package domain

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/shopspring/decimal"
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

func IsValidTransactionType(transactionType string) bool {
	switch TransactionType(transactionType) {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func IsValidTransactionStatus(status string) bool {
	switch TransactionStatus(status) {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transactor runs fn inside a single database transaction, committing when fn returns nil.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type TransactionRepository interface {
	// Save inserts the transaction. It reports false without error when a transaction for
	// the same recurring template and due date already exists.
	Save(ctx context.Context, tx *sql.Tx, transaction *Transaction) (bool, error)
	FindByID(ctx context.Context, companyID, transactionID uuid.UUID) (*Transaction, error)
	// FindByIDForUpdate reads the transaction and locks its row until tx ends.
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*Transaction, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter TransactionFilter) ([]Transaction, error)
	// UpdateStatus moves the transaction from one status to another. It reports false
	// without error when the stored status is no longer from.
	UpdateStatus(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID, from, to TransactionStatus) (bool, error)
	// Delete removes the transaction and returns the row as it was at deletion time.
	Delete(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*Transaction, error)
	GetTransactionsInDateRange(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) ([]Transaction, error)
	GetSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]TransactionByChartAccountSummary, error)
}

type TransactionFilter struct {
	Type      string
	Status    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Page      int
}

type Transaction struct {
	ID                       uuid.UUID         `json:"id"`
	CompanyID                uuid.UUID         `json:"company_id"`
	Type                     TransactionType   `json:"type"`
	Status                   TransactionStatus `json:"status"`
	Amount                   decimal.Decimal   `json:"amount"`
	DueDate                  time.Time         `json:"due_date"`
	Description              string            `json:"description"`
	ChartAccountID           *uuid.UUID        `json:"chart_account_id,omitempty"`
	BankAccountID            *uuid.UUID        `json:"bank_account_id,omitempty"`
	DestinationBankAccountID *uuid.UUID        `json:"destination_bank_account_id,omitempty"`
	ContactID                *uuid.UUID        `json:"contact_id,omitempty"`
	PaymentMethod            PaymentMethod     `json:"payment_method,omitempty"`
	RecurringTransactionID   *uuid.UUID        `json:"recurring_transaction_id,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Amount = t.Amount.Round(2)
}

func (t *Transaction) Validate() error {
	if !IsValidTransactionType(string(t.Type)) {
		return errors.NewValidationError("Type must be 'income', 'expense' or 'transfer'")
	}
	if !IsValidTransactionStatus(string(t.Status)) {
		return errors.NewValidationError("Status must be 'pending', 'completed' or 'cancelled'")
	}
	if !t.Amount.IsPositive() {
		return errors.NewValidationError("Amount must be greater than zero")
	}
	if t.DueDate.IsZero() {
		return errors.NewValidationError("Due date is required")
	}
	if len(t.Description) > 200 {
		return errors.NewValidationError("Description must be of length less than 200")
	}
	if !t.PaymentMethod.IsValid() {
		return errors.ErrInvalidPaymentMethod
	}
	return validateAccounts(t.Type, t.BankAccountID, t.DestinationBankAccountID)
}

func validateAccounts(transactionType TransactionType, source, destination *uuid.UUID) error {
	if transactionType != TransactionTypeTransfer {
		if destination != nil {
			return errors.NewValidationError("Destination bank account is only allowed for transfers")
		}
		return nil
	}
	if source == nil || destination == nil {
		return errors.NewValidationError("Transfers require source and destination bank accounts")
	}
	if *source == *destination {
		return errors.NewValidationError("Transfer source and destination must differ")
	}
	return nil
}

type BalanceChange struct {
	BankAccountID uuid.UUID
	Delta         decimal.Decimal
}

// BalanceChanges lists the bank balance mutations a completed transaction applies.
// Pending and cancelled transactions do not touch balances.
func (t *Transaction) BalanceChanges() []BalanceChange {
	if t.Status != TransactionStatusCompleted || t.BankAccountID == nil {
		return nil
	}
	switch t.Type {
	case TransactionTypeIncome:
		return []BalanceChange{{*t.BankAccountID, t.Amount}}
	case TransactionTypeExpense:
		return []BalanceChange{{*t.BankAccountID, t.Amount.Neg()}}
	case TransactionTypeTransfer:
		if t.DestinationBankAccountID == nil {
			return nil
		}
		return []BalanceChange{
			{*t.BankAccountID, t.Amount.Neg()},
			{*t.DestinationBankAccountID, t.Amount},
		}
	}
	return nil
}

// Reverse returns the changes that undo cs.
func Reverse(cs []BalanceChange) []BalanceChange {
	out := make([]BalanceChange, len(cs))
	for i, c := range cs {
		out[i] = BalanceChange{c.BankAccountID, c.Delta.Neg()}
	}
	return out
}

type TransactionByChartAccountSummary struct {
	ChartAccountID *uuid.UUID      `json:"chart_account_id"`
	Type           TransactionType `json:"type"`
	Total          decimal.Decimal `json:"total"`
}
