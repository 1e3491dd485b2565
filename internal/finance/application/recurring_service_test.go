package application

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type recordingNotifier struct {
	runs []GenerationRun
	err  error
}

func (n *recordingNotifier) NotifyGeneration(ctx context.Context, run GenerationRun) error {
	n.runs = append(n.runs, run)
	return n.err
}

func (f *fixture) rentTemplate() *domain.RecurringTransaction {
	return &domain.RecurringTransaction{
		CompanyID:       f.companyID,
		Frequency:       recurrence.Monthly,
		Interval:        1,
		StartDate:       date(2024, time.January, 31),
		TransactionType: domain.TransactionTypeExpense,
		Description:     "Office rent",
		Amount:          money("1500"),
		ChartAccountID:  idPtr(f.chartID),
		BankAccountID:   idPtr(f.bankID),
		ContactID:       idPtr(f.contactID),
		PaymentMethod:   domain.PaymentMethodBoleto,
	}
}

func dueDates(transactions []domain.Transaction) []string {
	out := make([]string, len(transactions))
	for i, tx := range transactions {
		out[i] = tx.DueDate.Format(recurrence.DateLayout)
	}
	return out
}

func TestCreateRecurring(t *testing.T) {
	f := newFixture(0)
	template := f.rentTemplate()

	require.NoError(t, f.recService.CreateRecurring(context.Background(), template))

	assert.NotEqual(t, uuid.Nil, template.ID)
	assert.True(t, template.Active)
	assert.Equal(t, domain.TransactionStatusPending, template.Status)
	stored, err := f.recService.GetRecurring(context.Background(), f.companyID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, template.Description, stored.Description)
}

func TestCreateRecurring_Validation(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()

	template := f.rentTemplate()
	template.Interval = 0
	err := f.recService.CreateRecurring(ctx, template)
	require.Error(t, err)
	assert.True(t, financeErrors.IsInvalid(err))

	template = f.rentTemplate()
	template.Frequency = "hourly"
	assert.True(t, financeErrors.IsInvalid(f.recService.CreateRecurring(ctx, template)))

	template = f.rentTemplate()
	template.BankAccountID = idPtr(uuid.New())
	assert.ErrorIs(t, f.recService.CreateRecurring(ctx, template), financeErrors.ErrInvalidBankAccount)

	assert.Empty(t, f.recurring.Templates)
}

func TestGenerateDue_CreatesDueTransactionsAndAdvancesWatermark(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.April, 15))

	require.NoError(t, err)
	assert.Equal(t, 1, run.TemplatesScanned)
	assert.Equal(t, 3, run.Created)
	list, err := f.txService.ListTransactions(ctx, f.companyID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-29", "2024-02-29", "2024-01-31"}, dueDates(list))
	for _, tx := range list {
		require.NotNil(t, tx.RecurringTransactionID)
		assert.Equal(t, template.ID, *tx.RecurringTransactionID)
		assert.Equal(t, "Office rent", tx.Description)
		assert.Equal(t, f.contactID, *tx.ContactID)
	}

	stored, err := f.recService.GetRecurring(ctx, f.companyID, template.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastGeneratedDate)
	assert.Equal(t, date(2024, time.March, 29), *stored.LastGeneratedDate)
}

func TestGenerateDue_RerunDoesNotDuplicate(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	require.NoError(t, f.recService.CreateRecurring(ctx, f.rentTemplate()))

	_, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.April, 15))
	require.NoError(t, err)
	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.April, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Created)

	run, err = f.recService.GenerateDue(ctx, f.companyID, date(2024, time.May, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)

	list, err := f.txService.ListTransactions(ctx, f.companyID, domain.TransactionFilter{})
	require.NoError(t, err)
	// the series keeps its clamped phase across runs
	assert.Equal(t, []string{"2024-04-29", "2024-03-29", "2024-02-29", "2024-01-31"}, dueDates(list))
}

func TestGenerateDue_Horizon(t *testing.T) {
	f := newFixture(10)
	ctx := context.Background()
	require.NoError(t, f.recService.CreateRecurring(ctx, f.rentTemplate()))

	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.February, 20))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 1), run.WindowEnd)
	assert.Equal(t, 2, run.Created)
}

func TestGenerateDue_CeilingSpreadsAcrossRuns(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	template.Frequency = recurrence.Daily
	template.StartDate = date(2024, time.January, 1)
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	asOf := date(2024, time.June, 30)
	run, err := f.recService.GenerateDue(ctx, f.companyID, asOf)
	require.NoError(t, err)
	assert.Equal(t, recurrence.MaxOccurrences, run.Created)
	assert.Equal(t, 1, run.CeilingWarnings)

	run, err = f.recService.GenerateDue(ctx, f.companyID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 82, run.Created)
	assert.Equal(t, 0, run.CeilingWarnings)

	assert.Len(t, f.transactions.Transactions, 182)
}

func TestGenerateDue_OccurrencesBoundTheSeriesNotEachRun(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	occurrences := 3
	template.Occurrences = &occurrences
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, 2, run.Created)

	run, err = f.recService.GenerateDue(ctx, f.companyID, date(2024, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)

	run, err = f.recService.GenerateDue(ctx, f.companyID, date(2025, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Created)

	list, err := f.txService.ListTransactions(ctx, f.companyID, domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-29", "2024-02-29", "2024-01-31"}, dueDates(list))
}

func TestGenerateDue_CompletedTemplateMovesBalance(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	template.Status = domain.TransactionStatusCompleted
	template.Amount = money("100")
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	_, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.March, 31))

	require.NoError(t, err)
	assert.Equal(t, "700.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}

func TestGenerateDue_FailureKeepsWatermark(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))
	f.transactions.SaveErr = errors.New("connection reset")

	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.April, 15))

	require.Error(t, err)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 0, run.Created)
	stored, err := f.recService.GetRecurring(ctx, f.companyID, template.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastGeneratedDate)
}

func TestGenerateDue_SkipsInactiveTemplates(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	deactivated, err := f.recService.DeactivateRecurring(ctx, f.companyID, template.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	run, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.April, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, run.TemplatesScanned)
	assert.Empty(t, f.transactions.Transactions)
}

func TestUpdateRecurring_KeepsWatermark(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))
	_, err := f.recService.GenerateDue(ctx, f.companyID, date(2024, time.February, 15))
	require.NoError(t, err)

	changes := *f.rentTemplate()
	changes.Amount = money("1750")
	updated, err := f.recService.UpdateRecurring(ctx, f.companyID, template.ID, changes)
	require.NoError(t, err)
	require.NotNil(t, updated.LastGeneratedDate)
	assert.Equal(t, date(2024, time.January, 31), *updated.LastGeneratedDate)

	_, err = f.recService.GenerateDue(ctx, f.companyID, date(2024, time.March, 1))
	require.NoError(t, err)

	list, err := f.txService.ListTransactions(ctx, f.companyID, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1750.00", list[0].Amount.StringFixed(2))
	assert.Equal(t, "1500.00", list[1].Amount.StringFixed(2))
}

func TestUpdateRecurring_NotFound(t *testing.T) {
	f := newFixture(0)
	_, err := f.recService.UpdateRecurring(context.Background(), f.companyID, uuid.New(), *f.rentTemplate())
	assert.ErrorIs(t, err, financeErrors.ErrRecurringNotFound)
}

func TestPreviewRecurring_DoesNotPersist(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	end := date(2024, time.June, 30)
	result, err := f.recService.PreviewRecurring(ctx, f.companyID, template.ID, nil, &end)

	require.NoError(t, err)
	assert.Len(t, result.Drafts, 6)
	assert.Empty(t, f.transactions.Transactions)
	assert.Equal(t, 0, f.transactor.Calls())
}

func TestDeleteRecurring(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	template := f.rentTemplate()
	require.NoError(t, f.recService.CreateRecurring(ctx, template))

	require.NoError(t, f.recService.DeleteRecurring(ctx, f.companyID, template.ID))
	assert.ErrorIs(t, f.recService.DeleteRecurring(ctx, f.companyID, template.ID), financeErrors.ErrRecurringNotFound)
}

func TestGenerateAll_NotifiesCompaniesWithNewTransactions(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	f.recService.SetNotifier(notifier)
	require.NoError(t, f.recService.CreateRecurring(ctx, f.rentTemplate()))

	runs, err := f.recService.GenerateAll(ctx, date(2024, time.February, 29))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Created)
	require.Len(t, notifier.runs, 1)
	assert.Equal(t, f.companyID, notifier.runs[0].CompanyID)

	// nothing new, nobody is notified
	_, err = f.recService.GenerateAll(ctx, date(2024, time.February, 29))
	require.NoError(t, err)
	assert.Len(t, notifier.runs, 1)
}
