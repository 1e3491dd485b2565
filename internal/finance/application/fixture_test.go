package application

import (
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/sebuszqo/LedgerManager/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"time"
)

type fixture struct {
	companyID    uuid.UUID
	bankID       uuid.UUID
	savingsID    uuid.UUID
	chartID      uuid.UUID
	contactID    uuid.UUID
	transactions *infrastructure.MockTransactionRepository
	recurring    *infrastructure.MockRecurringRepository
	bankAccounts *infrastructure.MockBankAccountRepository
	transactor   *infrastructure.MockTransactor
	txService    *TransactionService
	recService   *RecurringService
}

func newFixture(horizonDays int) *fixture {
	f := &fixture{
		companyID: uuid.New(),
		bankID:    uuid.New(),
		savingsID: uuid.New(),
		chartID:   uuid.New(),
		contactID: uuid.New(),
	}
	f.transactions = &infrastructure.MockTransactionRepository{}
	f.recurring = infrastructure.NewMockRecurringRepository()
	f.bankAccounts = infrastructure.NewMockBankAccountRepository(
		domain.BankAccount{ID: f.bankID, CompanyID: f.companyID, Name: "Main", Balance: decimal.RequireFromString("1000.00"), Active: true},
		domain.BankAccount{ID: f.savingsID, CompanyID: f.companyID, Name: "Savings", Balance: decimal.Zero, Active: true},
	)
	chartAccounts := infrastructure.NewMockChartAccountRepository(
		domain.ChartAccount{ID: f.chartID, CompanyID: f.companyID, Code: "4.1", Name: "Rent", Type: domain.ChartAccountTypeExpense},
	)
	contacts := infrastructure.NewMockContactRepository(
		domain.Contact{ID: f.contactID, CompanyID: f.companyID, Name: "Landlord", Kind: domain.ContactKindSupplier},
	)
	f.transactor = &infrastructure.MockTransactor{}

	bankService := NewBankAccountService(f.bankAccounts)
	chartService := NewChartAccountService(chartAccounts)
	contactService := NewContactService(contacts)
	logger := zap.NewNop()

	f.txService = NewTransactionService(f.transactions, f.transactor, chartService, bankService, contactService, logger)
	f.recService = NewRecurringService(f.recurring, f.txService, f.transactor, chartService, bankService, contactService, horizonDays, logger)
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
