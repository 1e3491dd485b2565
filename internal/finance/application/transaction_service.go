package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"time"
)

type TransactionService struct {
	repo         domain.TransactionRepository
	transactor   domain.Transactor
	bankAccounts BankAccountServiceInterface
	references   references
	logger       *zap.Logger
}

func NewTransactionService(
	repo domain.TransactionRepository,
	transactor domain.Transactor,
	chartAccounts ChartAccountServiceInterface,
	bankAccounts BankAccountServiceInterface,
	contacts ContactServiceInterface,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		repo:         repo,
		transactor:   transactor,
		bankAccounts: bankAccounts,
		references:   references{chartAccounts: chartAccounts, bankAccounts: bankAccounts, contacts: contacts},
		logger:       logger,
	}
}

type TransactionSummary struct {
	Year         int                     `json:"year"`
	IncomeTotal  decimal.Decimal         `json:"income_total"`
	ExpenseTotal decimal.Decimal         `json:"expense_total"`
	Months       map[string]MonthSummary `json:"months"`
}

type MonthSummary struct {
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Weeks        []WeekSummary   `json:"weeks"`
}

type WeekSummary struct {
	Week         int             `json:"week"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

// GetTransactionSummary totals income and expense per year, month and ISO week.
// Transfers and cancelled transactions are left out.
func (s *TransactionService) GetTransactionSummary(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) (map[int]TransactionSummary, error) {
	transactions, err := s.repo.GetTransactionsInDateRange(ctx, companyID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := make(map[int]TransactionSummary)

	for _, transaction := range transactions {
		if transaction.Status == domain.TransactionStatusCancelled || transaction.Type == domain.TransactionTypeTransfer {
			continue
		}
		year := transaction.DueDate.Year()
		month := transaction.DueDate.Month().String()
		_, week := transaction.DueDate.ISOWeek()
		income := transaction.Type == domain.TransactionTypeIncome

		yearSummary, exists := summary[year]
		if !exists {
			yearSummary = TransactionSummary{Year: year, Months: make(map[string]MonthSummary)}
		}

		monthSummary, exists := yearSummary.Months[month]
		if !exists {
			monthSummary = MonthSummary{Weeks: []WeekSummary{}}
		}

		if income {
			yearSummary.IncomeTotal = yearSummary.IncomeTotal.Add(transaction.Amount)
			monthSummary.IncomeTotal = monthSummary.IncomeTotal.Add(transaction.Amount)
		} else {
			yearSummary.ExpenseTotal = yearSummary.ExpenseTotal.Add(transaction.Amount)
			monthSummary.ExpenseTotal = monthSummary.ExpenseTotal.Add(transaction.Amount)
		}

		found := false
		for i, weekSummary := range monthSummary.Weeks {
			if weekSummary.Week == week {
				if income {
					monthSummary.Weeks[i].IncomeTotal = weekSummary.IncomeTotal.Add(transaction.Amount)
				} else {
					monthSummary.Weeks[i].ExpenseTotal = weekSummary.ExpenseTotal.Add(transaction.Amount)
				}
				found = true
				break
			}
		}
		if !found {
			weekSummary := WeekSummary{Week: week}
			if income {
				weekSummary.IncomeTotal = transaction.Amount
			} else {
				weekSummary.ExpenseTotal = transaction.Amount
			}
			monthSummary.Weeks = append(monthSummary.Weeks, weekSummary)
		}

		yearSummary.Months[month] = monthSummary
		summary[year] = yearSummary
	}

	return summary, nil
}

func (s *TransactionService) GetTransactionSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]domain.TransactionByChartAccountSummary, error) {
	summaries, err := s.repo.GetSummaryByChartAccount(ctx, companyID, startDate, endDate, transactionType)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		return []domain.TransactionByChartAccountSummary{}, nil
	}
	return summaries, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	transaction.ID = uuid.New()
	transaction.RecurringTransactionID = nil
	if transaction.Status == "" {
		transaction.Status = domain.TransactionStatusPending
	}
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}

	if err := s.references.check(ctx, transaction.CompanyID, transaction.ChartAccountID, transaction.BankAccountID,
		transaction.DestinationBankAccountID, transaction.ContactID); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := s.repo.Save(ctx, tx, transaction); err != nil {
			return err
		}
		return s.bankAccounts.ApplyBalanceChanges(ctx, tx, transaction.BalanceChanges())
	})
}

// CreateTransactionsBulk validates every transaction first and reports all problems at
// once; nothing is saved unless the whole batch is valid.
func (s *TransactionService) CreateTransactionsBulk(ctx context.Context, companyID uuid.UUID, transactions []*domain.Transaction) error {
	validationErrors := &financeErrors.ValidationErrors{}

	for i, transaction := range transactions {
		transaction.ID = uuid.New()
		transaction.CompanyID = companyID
		transaction.RecurringTransactionID = nil
		if transaction.Status == "" {
			transaction.Status = domain.TransactionStatusPending
		}
		transaction.RoundToTwoDecimalPlaces()
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
			continue
		}
		if err := s.references.check(ctx, companyID, transaction.ChartAccountID, transaction.BankAccountID,
			transaction.DestinationBankAccountID, transaction.ContactID); err != nil {
			if !financeErrors.IsValidationError(err) {
				return err
			}
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
		}
	}
	if err := validationErrors.OrNil(); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(tx *sql.Tx) error {
		for i, transaction := range transactions {
			if _, err := s.repo.Save(ctx, tx, transaction); err != nil {
				return fmt.Errorf("database error at transaction %d: %w", i+1, err)
			}
			if err := s.bankAccounts.ApplyBalanceChanges(ctx, tx, transaction.BalanceChanges()); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateFromDrafts persists generated drafts inside the caller's transaction. Drafts that
// already exist for the same template and due date are skipped.
func (s *TransactionService) CreateFromDrafts(ctx context.Context, tx *sql.Tx, drafts []domain.GeneratedDraft) (created, skipped int, err error) {
	for i, draft := range drafts {
		transaction := draft.ToTransaction()
		transaction.ID = uuid.New()
		transaction.RoundToTwoDecimalPlaces()
		if err := transaction.Validate(); err != nil {
			return created, skipped, financeErrors.NewIndexedValidationError(i+1, err.Error())
		}

		saved, err := s.repo.Save(ctx, tx, &transaction)
		if err != nil {
			return created, skipped, fmt.Errorf("database error at transaction %d: %w", i+1, err)
		}
		if !saved {
			skipped++
			continue
		}
		if err := s.bankAccounts.ApplyBalanceChanges(ctx, tx, transaction.BalanceChanges()); err != nil {
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, companyID, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, companyID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.repo.FindByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

// statusAttempts bounds how often UpdateStatus re-reads a transaction whose status changed
// underneath it.
const statusAttempts = 3

// UpdateStatus moves a transaction to status, reversing the balance effects of the old
// status before applying those of the new one. The row is read and written inside one
// database transaction and the write only succeeds if the status it was computed from is
// still stored, so concurrent changes never apply the same effect twice.
func (s *TransactionService) UpdateStatus(ctx context.Context, companyID, transactionID uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !domain.IsValidTransactionStatus(string(status)) {
		return nil, financeErrors.NewValidationError("Status must be 'pending', 'completed' or 'cancelled'")
	}

	for attempt := 0; attempt < statusAttempts; attempt++ {
		var (
			transaction *domain.Transaction
			stale       bool
		)
		err := s.transactor.WithinTransaction(ctx, func(tx *sql.Tx) error {
			current, err := s.repo.FindByIDForUpdate(ctx, tx, companyID, transactionID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return financeErrors.ErrTransactionNotFound
				}
				return err
			}
			transaction = current
			if current.Status == status {
				return nil
			}

			from := current.Status
			previous := current.BalanceChanges()
			current.Status = status
			changes := append(domain.Reverse(previous), current.BalanceChanges()...)

			updated, err := s.repo.UpdateStatus(ctx, tx, companyID, transactionID, from, status)
			if err != nil {
				return err
			}
			if !updated {
				stale = true
				return nil
			}
			return s.bankAccounts.ApplyBalanceChanges(ctx, tx, changes)
		})
		if err != nil {
			return nil, err
		}
		if stale {
			s.logger.Debug("Transaction status changed concurrently, retrying",
				zap.Stringer("transaction_id", transactionID), zap.Int("attempt", attempt+1))
			continue
		}

		s.logger.Debug("Transaction status updated",
			zap.Stringer("transaction_id", transactionID),
			zap.String("status", string(status)))
		return transaction, nil
	}
	return nil, financeErrors.ErrTransactionConflict
}

// DeleteTransaction removes the transaction and reverses the balance effects of the row
// that was actually deleted.
func (s *TransactionService) DeleteTransaction(ctx context.Context, companyID, transactionID uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(tx *sql.Tx) error {
		deleted, err := s.repo.Delete(ctx, tx, companyID, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return financeErrors.ErrTransactionNotFound
			}
			return err
		}
		return s.bankAccounts.ApplyBalanceChanges(ctx, tx, domain.Reverse(deleted.BalanceChanges()))
	})
}
