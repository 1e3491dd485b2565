package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/shopspring/decimal"
	"sync"
)

type MockBankAccountRepository struct {
	mu         sync.Mutex
	Accounts   map[uuid.UUID]domain.BankAccount
	Referenced map[uuid.UUID]bool
}

func NewMockBankAccountRepository(accounts ...domain.BankAccount) *MockBankAccountRepository {
	m := &MockBankAccountRepository{Accounts: make(map[uuid.UUID]domain.BankAccount), Referenced: make(map[uuid.UUID]bool)}
	for _, a := range accounts {
		m.Accounts[a.ID] = a
	}
	return m
}

func (m *MockBankAccountRepository) Save(ctx context.Context, account *domain.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = *account
	return nil
}

func (m *MockBankAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []domain.BankAccount
	for _, a := range m.Accounts {
		if a.CompanyID == companyID {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[accountID]
	if !ok || a.CompanyID != companyID {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (m *MockBankAccountRepository) AdjustBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[accountID]
	if !ok {
		return sql.ErrNoRows
	}
	a.Balance = a.Balance.Add(delta)
	m.Accounts[accountID] = a
	return nil
}

func (m *MockBankAccountRepository) IsReferenced(ctx context.Context, accountID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Referenced[accountID], nil
}

func (m *MockBankAccountRepository) Delete(ctx context.Context, companyID, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[accountID]
	if !ok || a.CompanyID != companyID {
		return sql.ErrNoRows
	}
	delete(m.Accounts, accountID)
	return nil
}

// Balance is a test helper returning the current balance of an account.
func (m *MockBankAccountRepository) Balance(accountID uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Accounts[accountID].Balance
}

type MockChartAccountRepository struct {
	mu       sync.Mutex
	Accounts map[uuid.UUID]domain.ChartAccount
}

func NewMockChartAccountRepository(accounts ...domain.ChartAccount) *MockChartAccountRepository {
	m := &MockChartAccountRepository{Accounts: make(map[uuid.UUID]domain.ChartAccount)}
	for _, a := range accounts {
		m.Accounts[a.ID] = a
	}
	return m
}

func (m *MockChartAccountRepository) Save(ctx context.Context, account *domain.ChartAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[account.ID] = *account
	return nil
}

func (m *MockChartAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, accountType string) ([]domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []domain.ChartAccount
	for _, a := range m.Accounts {
		if a.CompanyID == companyID && (accountType == "" || string(a.Type) == accountType) {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockChartAccountRepository) FindByID(ctx context.Context, companyID, accountID uuid.UUID) (*domain.ChartAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[accountID]
	if !ok || a.CompanyID != companyID {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (m *MockChartAccountRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Accounts {
		if a.CompanyID == companyID && a.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockChartAccountRepository) Delete(ctx context.Context, companyID, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[accountID]
	if !ok || a.CompanyID != companyID {
		return sql.ErrNoRows
	}
	delete(m.Accounts, accountID)
	return nil
}

type MockContactRepository struct {
	mu       sync.Mutex
	Contacts map[uuid.UUID]domain.Contact
}

func NewMockContactRepository(contacts ...domain.Contact) *MockContactRepository {
	m := &MockContactRepository{Contacts: make(map[uuid.UUID]domain.Contact)}
	for _, c := range contacts {
		m.Contacts[c.ID] = c
	}
	return m
}

func (m *MockContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts[contact.ID] = *contact
	return nil
}

func (m *MockContactRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, kind string) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var contacts []domain.Contact
	for _, c := range m.Contacts {
		if c.CompanyID != companyID {
			continue
		}
		if kind != "" && string(c.Kind) != kind && c.Kind != domain.ContactKindBoth {
			continue
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (m *MockContactRepository) FindByID(ctx context.Context, companyID, contactID uuid.UUID) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[contactID]
	if !ok || c.CompanyID != companyID {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m *MockContactRepository) Delete(ctx context.Context, companyID, contactID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Contacts[contactID]
	if !ok || c.CompanyID != companyID {
		return sql.ErrNoRows
	}
	delete(m.Contacts, contactID)
	return nil
}
