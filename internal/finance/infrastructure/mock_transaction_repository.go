package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/shopspring/decimal"
	"sort"
	"sync"
	"time"
)

// MockTransactor runs fn without a real database transaction.
type MockTransactor struct {
	mu    sync.Mutex
	calls int
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(nil)
}

// Calls returns how many transactions were started.
func (m *MockTransactor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.Transaction
	SaveErr      error
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *sql.Tx, transaction *domain.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return false, m.SaveErr
	}
	if transaction.RecurringTransactionID != nil {
		for _, existing := range m.Transactions {
			if existing.RecurringTransactionID != nil && *existing.RecurringTransactionID == *transaction.RecurringTransactionID &&
				existing.DueDate.Equal(transaction.DueDate) {
				return false, nil
			}
		}
	}
	transaction.CreatedAt = time.Now()
	m.Transactions = append(m.Transactions, *transaction)
	return true, nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, transaction := range m.Transactions {
		if transaction.ID == transactionID && transaction.CompanyID == companyID {
			found := transaction
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockTransactionRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var filtered []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.CompanyID != companyID {
			continue
		}
		if filter.Type != "" && string(transaction.Type) != filter.Type {
			continue
		}
		if filter.Status != "" && string(transaction.Status) != filter.Status {
			continue
		}
		if !filter.StartDate.IsZero() && transaction.DueDate.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && transaction.DueDate.After(filter.EndDate) {
			continue
		}
		filtered = append(filtered, transaction)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].DueDate.After(filtered[j].DueDate) })

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start >= len(filtered) {
			return nil, nil
		}
		end := start + filter.Limit
		if end > len(filtered) {
			end = len(filtered)
		}
		filtered = filtered[start:end]
	}
	return filtered, nil
}

// FindByIDForUpdate cannot lock anything in memory; callers rely on the conditional
// UpdateStatus to detect a lost race.
func (m *MockTransactionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	return m.FindByID(ctx, companyID, transactionID)
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID && m.Transactions[i].CompanyID == companyID {
			if m.Transactions[i].Status != from {
				return false, nil
			}
			m.Transactions[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID && m.Transactions[i].CompanyID == companyID {
			deleted := m.Transactions[i]
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockTransactionRepository) GetTransactionsInDateRange(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) ([]domain.Transaction, error) {
	return m.FindByCompany(ctx, companyID, domain.TransactionFilter{StartDate: startDate, EndDate: endDate})
}

func (m *MockTransactionRepository) GetSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]domain.TransactionByChartAccountSummary, error) {
	transactions, err := m.FindByCompany(ctx, companyID, domain.TransactionFilter{Type: transactionType, StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}

	type key struct {
		chart uuid.UUID
		typ   domain.TransactionType
	}
	totals := make(map[key]decimal.Decimal)
	var order []key
	for _, transaction := range transactions {
		if transaction.Status == domain.TransactionStatusCancelled {
			continue
		}
		k := key{typ: transaction.Type}
		if transaction.ChartAccountID != nil {
			k.chart = *transaction.ChartAccountID
		}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] = totals[k].Add(transaction.Amount)
	}

	summaries := make([]domain.TransactionByChartAccountSummary, 0, len(order))
	for _, k := range order {
		summary := domain.TransactionByChartAccountSummary{Type: k.typ, Total: totals[k]}
		if k.chart != uuid.Nil {
			id := k.chart
			summary.ChartAccountID = &id
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
