package company

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"sort"
	"sync"
)

type MockRepository struct {
	mu        sync.Mutex
	Companies map[uuid.UUID]Company
}

func NewMockRepository(companies ...Company) *MockRepository {
	m := &MockRepository{Companies: make(map[uuid.UUID]Company)}
	for _, c := range companies {
		m.Companies[c.ID] = c
	}
	return m
}

func (m *MockRepository) Create(ctx context.Context, company *Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Companies[company.ID] = *company
	return nil
}

func (m *MockRepository) FindByID(ctx context.Context, companyID uuid.UUID, company *Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Companies[companyID]
	if !ok {
		return sql.ErrNoRows
	}
	*company = c
	return nil
}

func (m *MockRepository) ExistsByName(ctx context.Context, ownerID string, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Companies {
		if c.OwnerID == ownerID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	companies := []Company{}
	for _, c := range m.Companies {
		if c.OwnerID == ownerID {
			companies = append(companies, c)
		}
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (m *MockRepository) Update(ctx context.Context, company *Company) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Companies[company.ID]
	if !ok || existing.OwnerID != company.OwnerID {
		return 0, nil
	}
	m.Companies[company.ID] = *company
	return 1, nil
}

func (m *MockRepository) Delete(ctx context.Context, companyID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Companies, companyID)
	return nil
}
