package interfaces

import (
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/sebuszqo/LedgerManager/internal/finance/infrastructure"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
)

type countingTrigger struct {
	calls int
}

func (c *countingTrigger) Notify() {
	c.calls++
}

type ledgerFixture struct {
	companyID    uuid.UUID
	bankID       uuid.UUID
	transactions *infrastructure.MockTransactionRepository
	recurring    *infrastructure.MockRecurringRepository
	bankAccounts *infrastructure.MockBankAccountRepository
	trigger      *countingTrigger
	mux          *http.ServeMux
}

// newLedgerFixture wires the real services over in-memory repositories behind the
// company-scoped routes.
func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{companyID: uuid.New(), bankID: uuid.New(), trigger: &countingTrigger{}}
	logger := zap.NewNop()

	f.transactions = &infrastructure.MockTransactionRepository{}
	f.recurring = infrastructure.NewMockRecurringRepository()
	f.bankAccounts = infrastructure.NewMockBankAccountRepository(
		domain.BankAccount{ID: f.bankID, CompanyID: f.companyID, Name: "Main", Balance: decimal.NewFromInt(500), Active: true},
	)
	transactor := &infrastructure.MockTransactor{}

	bankService := application.NewBankAccountService(f.bankAccounts)
	chartService := application.NewChartAccountService(infrastructure.NewMockChartAccountRepository())
	contactService := application.NewContactService(infrastructure.NewMockContactRepository())
	txService := application.NewTransactionService(f.transactions, transactor, chartService, bankService, contactService, logger)
	recService := application.NewRecurringService(f.recurring, txService, transactor, chartService, bankService, contactService, 0, logger)

	recurringHandler := NewRecurringHandler(recService, f.trigger, respondJSON, respondError, logger)
	accountHandler := NewAccountHandler(bankService, chartService, respondJSON, respondError, logger)
	contactHandler := NewContactHandler(contactService, respondJSON, respondError, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /companies/{companyID}/recurring", recurringHandler.CreateRecurring)
	mux.HandleFunc("GET /companies/{companyID}/recurring", recurringHandler.GetAllRecurring)
	mux.HandleFunc("POST /companies/{companyID}/recurring/generate", recurringHandler.GenerateRecurring)
	mux.HandleFunc("GET /companies/{companyID}/recurring/{recurringID}", recurringHandler.GetRecurring)
	mux.HandleFunc("PUT /companies/{companyID}/recurring/{recurringID}", recurringHandler.UpdateRecurring)
	mux.HandleFunc("DELETE /companies/{companyID}/recurring/{recurringID}", recurringHandler.DeleteRecurring)
	mux.HandleFunc("POST /companies/{companyID}/recurring/{recurringID}/deactivate", recurringHandler.DeactivateRecurring)
	mux.HandleFunc("GET /companies/{companyID}/recurring/{recurringID}/preview", recurringHandler.PreviewRecurring)

	mux.HandleFunc("POST /companies/{companyID}/bank-accounts", accountHandler.CreateBankAccount)
	mux.HandleFunc("GET /companies/{companyID}/bank-accounts", accountHandler.GetBankAccounts)
	mux.HandleFunc("GET /companies/{companyID}/bank-accounts/{accountID}", accountHandler.GetBankAccount)
	mux.HandleFunc("DELETE /companies/{companyID}/bank-accounts/{accountID}", accountHandler.DeleteBankAccount)
	mux.HandleFunc("POST /companies/{companyID}/chart-accounts", accountHandler.CreateChartAccount)
	mux.HandleFunc("GET /companies/{companyID}/chart-accounts", accountHandler.GetChartAccounts)
	mux.HandleFunc("DELETE /companies/{companyID}/chart-accounts/{chartAccountID}", accountHandler.DeleteChartAccount)

	mux.HandleFunc("POST /companies/{companyID}/contacts", contactHandler.CreateContact)
	mux.HandleFunc("GET /companies/{companyID}/contacts", contactHandler.GetContacts)
	mux.HandleFunc("GET /companies/{companyID}/contacts/{contactID}", contactHandler.GetContact)
	mux.HandleFunc("DELETE /companies/{companyID}/contacts/{contactID}", contactHandler.DeleteContact)

	f.mux = mux
	return f
}

func (f *ledgerFixture) path(suffix string) string {
	return "/companies/" + f.companyID.String() + suffix
}
