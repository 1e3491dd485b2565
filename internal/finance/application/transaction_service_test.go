package application

import (
	"context"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestGetTransactionSummary_MultipleYearsMonthsWeeks(t *testing.T) {
	f := newFixture(0)
	add := func(d time.Time, typ domain.TransactionType, amount string) {
		f.transactions.Transactions = append(f.transactions.Transactions, domain.Transaction{
			ID: uuid.New(), CompanyID: f.companyID, DueDate: d, Type: typ, Status: domain.TransactionStatusCompleted, Amount: money(amount),
		})
	}
	// 2023
	add(date(2023, time.January, 10), domain.TransactionTypeIncome, "100.12")
	add(date(2023, time.January, 15), domain.TransactionTypeExpense, "50.55")
	add(date(2023, time.March, 5), domain.TransactionTypeIncome, "300.45")
	add(date(2023, time.March, 10), domain.TransactionTypeIncome, "100.12")
	add(date(2023, time.March, 15), domain.TransactionTypeExpense, "75.55")
	add(date(2023, time.April, 5), domain.TransactionTypeIncome, "200.45")
	// 2022
	add(date(2022, time.November, 20), domain.TransactionTypeIncome, "150.12")
	add(date(2022, time.December, 10), domain.TransactionTypeExpense, "60.55")
	add(date(2022, time.December, 25), domain.TransactionTypeIncome, "120.45")
	add(date(2022, time.December, 30), domain.TransactionTypeExpense, "45.55")
	// ignored
	add(date(2023, time.March, 20), domain.TransactionTypeTransfer, "999.00")
	f.transactions.Transactions = append(f.transactions.Transactions, domain.Transaction{
		ID: uuid.New(), CompanyID: f.companyID, DueDate: date(2023, time.March, 21), Type: domain.TransactionTypeIncome,
		Status: domain.TransactionStatusCancelled, Amount: money("500.00"),
	})

	summary, err := f.txService.GetTransactionSummary(context.Background(), f.companyID, date(2021, time.January, 1), date(2023, time.December, 31))
	require.NoError(t, err)

	year2023 := summary[2023]
	assert.Equal(t, "701.14", year2023.IncomeTotal.StringFixed(2))
	assert.Equal(t, "126.10", year2023.ExpenseTotal.StringFixed(2))

	march := year2023.Months["March"]
	assert.Equal(t, "400.57", march.IncomeTotal.StringFixed(2))
	assert.Equal(t, "75.55", march.ExpenseTotal.StringFixed(2))
	assert.Len(t, march.Weeks, 3)

	april := year2023.Months["April"]
	assert.Equal(t, "200.45", april.IncomeTotal.StringFixed(2))
	assert.True(t, april.ExpenseTotal.IsZero())

	year2022 := summary[2022]
	assert.Equal(t, "270.57", year2022.IncomeTotal.StringFixed(2))
	assert.Equal(t, "106.10", year2022.ExpenseTotal.StringFixed(2))

	december := year2022.Months["December"]
	assert.Equal(t, "120.45", december.IncomeTotal.StringFixed(2))
	assert.Equal(t, "106.10", december.ExpenseTotal.StringFixed(2))

	_, ok := summary[2021]
	assert.False(t, ok)
}

func TestCreateTransaction_CompletedIncomeCreditsBank(t *testing.T) {
	f := newFixture(0)
	transaction := &domain.Transaction{
		CompanyID:      f.companyID,
		Type:           domain.TransactionTypeIncome,
		Status:         domain.TransactionStatusCompleted,
		Amount:         money("250.004"),
		DueDate:        date(2024, time.May, 2),
		ChartAccountID: idPtr(f.chartID),
		BankAccountID:  idPtr(f.bankID),
	}

	err := f.txService.CreateTransaction(context.Background(), transaction)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, transaction.ID)
	assert.Equal(t, "250.00", transaction.Amount.StringFixed(2))
	assert.Equal(t, "1250.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
	assert.Len(t, f.transactions.Transactions, 1)
}

func TestCreateTransaction_PendingLeavesBalance(t *testing.T) {
	f := newFixture(0)
	transaction := &domain.Transaction{
		CompanyID:     f.companyID,
		Type:          domain.TransactionTypeExpense,
		Amount:        money("10"),
		DueDate:       date(2024, time.May, 2),
		BankAccountID: idPtr(f.bankID),
	}

	require.NoError(t, f.txService.CreateTransaction(context.Background(), transaction))

	assert.Equal(t, domain.TransactionStatusPending, transaction.Status)
	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}

func TestCreateTransaction_RejectsForeignReferences(t *testing.T) {
	f := newFixture(0)
	base := func() *domain.Transaction {
		return &domain.Transaction{
			CompanyID: f.companyID, Type: domain.TransactionTypeExpense, Amount: money("10"), DueDate: date(2024, time.May, 2),
		}
	}

	tx := base()
	tx.ChartAccountID = idPtr(uuid.New())
	assert.ErrorIs(t, f.txService.CreateTransaction(context.Background(), tx), financeErrors.ErrInvalidChartAccount)

	tx = base()
	tx.BankAccountID = idPtr(uuid.New())
	assert.ErrorIs(t, f.txService.CreateTransaction(context.Background(), tx), financeErrors.ErrInvalidBankAccount)

	tx = base()
	tx.ContactID = idPtr(uuid.New())
	assert.ErrorIs(t, f.txService.CreateTransaction(context.Background(), tx), financeErrors.ErrInvalidContact)

	// an account of another company is just as unknown
	other := newFixture(0)
	tx = base()
	tx.BankAccountID = idPtr(other.bankID)
	assert.ErrorIs(t, f.txService.CreateTransaction(context.Background(), tx), financeErrors.ErrInvalidBankAccount)

	assert.Empty(t, f.transactions.Transactions)
}

func TestCreateTransaction_ValidationError(t *testing.T) {
	f := newFixture(0)
	err := f.txService.CreateTransaction(context.Background(), &domain.Transaction{
		CompanyID: f.companyID, Type: domain.TransactionTypeExpense, Amount: money("-1"), DueDate: date(2024, time.May, 2),
	})
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestUpdateStatus_AppliesAndReversesTransfer(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	transfer := &domain.Transaction{
		CompanyID:                f.companyID,
		Type:                     domain.TransactionTypeTransfer,
		Amount:                   money("300"),
		DueDate:                  date(2024, time.June, 1),
		BankAccountID:            idPtr(f.bankID),
		DestinationBankAccountID: idPtr(f.savingsID),
	}
	require.NoError(t, f.txService.CreateTransaction(ctx, transfer))

	updated, err := f.txService.UpdateStatus(ctx, f.companyID, transfer.ID, domain.TransactionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, updated.Status)
	assert.Equal(t, "700.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
	assert.Equal(t, "300.00", f.bankAccounts.Balance(f.savingsID).StringFixed(2))

	_, err = f.txService.UpdateStatus(ctx, f.companyID, transfer.ID, domain.TransactionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
	assert.Equal(t, "0.00", f.bankAccounts.Balance(f.savingsID).StringFixed(2))
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()

	_, err := f.txService.UpdateStatus(ctx, f.companyID, uuid.New(), "archived")
	assert.True(t, financeErrors.IsValidationError(err))

	_, err = f.txService.UpdateStatus(ctx, f.companyID, uuid.New(), domain.TransactionStatusCompleted)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}

func TestDeleteTransaction_ReversesCompletedExpense(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	expense := &domain.Transaction{
		CompanyID: f.companyID, Type: domain.TransactionTypeExpense, Status: domain.TransactionStatusCompleted,
		Amount: money("99.90"), DueDate: date(2024, time.June, 1), BankAccountID: idPtr(f.bankID),
	}
	require.NoError(t, f.txService.CreateTransaction(ctx, expense))
	assert.Equal(t, "900.10", f.bankAccounts.Balance(f.bankID).StringFixed(2))

	require.NoError(t, f.txService.DeleteTransaction(ctx, f.companyID, expense.ID))

	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
	_, err := f.txService.GetTransaction(ctx, f.companyID, expense.ID)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}

func TestCreateFromDrafts_SkipsDuplicates(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := domain.RecurringTransaction{
		ID: uuid.New(), CompanyID: f.companyID, Frequency: "weekly", Interval: 1,
		StartDate: date(2024, time.January, 1), Occurrences: func() *int { n := 4; return &n }(),
		TransactionType: domain.TransactionTypeIncome, Amount: money("50"), Status: domain.TransactionStatusCompleted,
		BankAccountID: idPtr(f.bankID),
	}
	drafts := template.Generate(nil, nil).Drafts

	created, skipped, err := f.txService.CreateFromDrafts(ctx, nil, drafts[:2])
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, skipped)

	created, skipped, err = f.txService.CreateFromDrafts(ctx, nil, drafts)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, skipped)

	assert.Len(t, f.transactions.Transactions, 4)
	// only newly created completed drafts move the balance
	assert.Equal(t, "1200.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}

func TestListTransactions_EmptyIsNotNil(t *testing.T) {
	f := newFixture(0)
	transactions, err := f.txService.ListTransactions(context.Background(), f.companyID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, transactions)
	assert.Empty(t, transactions)
}

func TestCreateTransactionsBulk_CollectsIndexedErrors(t *testing.T) {
	f := newFixture(0)
	foreignChart := uuid.New()
	transactions := []*domain.Transaction{
		{Type: domain.TransactionTypeExpense, Amount: money("-10"), DueDate: date(2024, time.May, 2)},
		{Type: domain.TransactionTypeIncome, Amount: money("50"), DueDate: date(2024, time.May, 2), ChartAccountID: &foreignChart},
		{Type: domain.TransactionTypeIncome, Amount: money("20"), DueDate: date(2024, time.May, 2)},
		{Amount: money("20"), DueDate: date(2024, time.May, 2)},
	}

	err := f.txService.CreateTransactionsBulk(context.Background(), f.companyID, transactions)

	var validationErrors *financeErrors.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, []string{
		"Validation error at transaction 1: Amount must be greater than zero",
		"Validation error at transaction 2: Invalid chart account",
		"Validation error at transaction 4: Type must be 'income', 'expense' or 'transfer'",
	}, validationErrors.Messages())
	assert.Empty(t, f.transactions.Transactions)
	assert.Zero(t, f.transactor.Calls())
}

func TestCreateTransactionsBulk_SavesAllInOneTransaction(t *testing.T) {
	f := newFixture(0)
	transactions := []*domain.Transaction{
		{Type: domain.TransactionTypeIncome, Status: domain.TransactionStatusCompleted, Amount: money("100"), DueDate: date(2024, time.May, 2), BankAccountID: idPtr(f.bankID)},
		{Type: domain.TransactionTypeExpense, Status: domain.TransactionStatusCompleted, Amount: money("30.50"), DueDate: date(2024, time.May, 3), BankAccountID: idPtr(f.bankID)},
		{Type: domain.TransactionTypeExpense, Amount: money("5"), DueDate: date(2024, time.May, 4)},
	}

	err := f.txService.CreateTransactionsBulk(context.Background(), f.companyID, transactions)

	require.NoError(t, err)
	assert.Len(t, f.transactions.Transactions, 3)
	assert.Equal(t, 1, f.transactor.Calls())
	assert.Equal(t, "1069.50", f.bankAccounts.Balance(f.bankID).StringFixed(2))
	assert.Equal(t, domain.TransactionStatusPending, transactions[2].Status)
	assert.Equal(t, f.companyID, transactions[2].CompanyID)
}
