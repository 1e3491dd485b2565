package interfaces

import (
	"context"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"time"
)

// MockTransactionService keeps transactions in memory. Err, when set, is returned by every
// method.
type MockTransactionService struct {
	Transactions []domain.Transaction
	Summary      map[int]application.TransactionSummary
	ByChart      []domain.TransactionByChartAccountSummary
	LastFilter   domain.TransactionFilter
	Err          error
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	if transaction.Status == "" {
		transaction.Status = domain.TransactionStatusPending
	}
	if err := transaction.Validate(); err != nil {
		return err
	}
	transaction.ID = uuid.New()
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionService) CreateTransactionsBulk(ctx context.Context, companyID uuid.UUID, transactions []*domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	validationErrors := &financeErrors.ValidationErrors{}
	for i, transaction := range transactions {
		if transaction.Status == "" {
			transaction.Status = domain.TransactionStatusPending
		}
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
		}
	}
	if err := validationErrors.OrNil(); err != nil {
		return err
	}
	for _, transaction := range transactions {
		transaction.ID = uuid.New()
		m.Transactions = append(m.Transactions, *transaction)
	}
	return nil
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID && m.Transactions[i].CompanyID == companyID {
			transaction := m.Transactions[i]
			return &transaction, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, companyID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.LastFilter = filter
	if m.Err != nil {
		return nil, m.Err
	}
	transactions := []domain.Transaction{}
	for _, transaction := range m.Transactions {
		if transaction.CompanyID == companyID {
			transactions = append(transactions, transaction)
		}
	}
	return transactions, nil
}

func (m *MockTransactionService) UpdateStatus(ctx context.Context, companyID, transactionID uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !domain.IsValidTransactionStatus(string(status)) {
		return nil, financeErrors.NewValidationError("Status must be 'pending', 'completed' or 'cancelled'")
	}
	transaction, err := m.GetTransaction(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	transaction.Status = status
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			m.Transactions[i].Status = status
		}
	}
	return transaction, nil
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, companyID, transactionID uuid.UUID) error {
	if _, err := m.GetTransaction(ctx, companyID, transactionID); err != nil {
		return err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockTransactionService) GetTransactionSummary(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) (map[int]application.TransactionSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Summary, nil
}

func (m *MockTransactionService) GetTransactionSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]domain.TransactionByChartAccountSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByChart, nil
}
