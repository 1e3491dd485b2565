package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"sort"
	"sync"
	"time"
)

type MockRecurringRepository struct {
	mu        sync.Mutex
	Templates map[uuid.UUID]domain.RecurringTransaction
}

func NewMockRecurringRepository(templates ...domain.RecurringTransaction) *MockRecurringRepository {
	m := &MockRecurringRepository{Templates: make(map[uuid.UUID]domain.RecurringTransaction)}
	for _, t := range templates {
		m.Templates[t.ID] = t
	}
	return m
}

func (m *MockRecurringRepository) Save(ctx context.Context, recurring *domain.RecurringTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Templates[recurring.ID] = *recurring
	return nil
}

func (m *MockRecurringRepository) FindByID(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recurring, ok := m.Templates[recurringID]
	if !ok || recurring.CompanyID != companyID {
		return nil, sql.ErrNoRows
	}
	return &recurring, nil
}

func (m *MockRecurringRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]domain.RecurringTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var templates []domain.RecurringTransaction
	for _, recurring := range m.Templates {
		if recurring.CompanyID != companyID || (activeOnly && !recurring.Active) {
			continue
		}
		templates = append(templates, recurring)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].StartDate.Before(templates[j].StartDate) })
	return templates, nil
}

func (m *MockRecurringRepository) FindCompaniesWithActive(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var companies []uuid.UUID
	for _, recurring := range m.Templates {
		if recurring.Active && !seen[recurring.CompanyID] {
			seen[recurring.CompanyID] = true
			companies = append(companies, recurring.CompanyID)
		}
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].String() < companies[j].String() })
	return companies, nil
}

func (m *MockRecurringRepository) Update(ctx context.Context, recurring *domain.RecurringTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Templates[recurring.ID]
	if !ok || existing.CompanyID != recurring.CompanyID {
		return sql.ErrNoRows
	}
	recurring.UpdatedAt = time.Now()
	recurring.LastGeneratedDate = existing.LastGeneratedDate
	m.Templates[recurring.ID] = *recurring
	return nil
}

func (m *MockRecurringRepository) Delete(ctx context.Context, companyID, recurringID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Templates[recurringID]
	if !ok || existing.CompanyID != companyID {
		return sql.ErrNoRows
	}
	delete(m.Templates, recurringID)
	return nil
}

func (m *MockRecurringRepository) UpdateLastGeneratedDate(ctx context.Context, tx *sql.Tx, recurringID uuid.UUID, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recurring, ok := m.Templates[recurringID]
	if !ok {
		return nil
	}
	if recurring.LastGeneratedDate == nil || recurring.LastGeneratedDate.Before(date) {
		d := date
		recurring.LastGeneratedDate = &d
		m.Templates[recurringID] = recurring
	}
	return nil
}
