package application

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/finance/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sync"
	"testing"
	"time"
)

// racingRepository lets tests decide what happens between a service reading a transaction
// and writing it back. The first held readers wait for each other, and afterRead runs once
// after the very first read.
type racingRepository struct {
	*infrastructure.MockTransactionRepository
	held      int
	afterRead func()

	mu      sync.Mutex
	reads   int
	barrier sync.WaitGroup
}

func newRacingRepository(repo *infrastructure.MockTransactionRepository, held int, afterRead func()) *racingRepository {
	r := &racingRepository{MockTransactionRepository: repo, held: held, afterRead: afterRead}
	r.barrier.Add(held)
	return r
}

func (r *racingRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	transaction, err := r.MockTransactionRepository.FindByIDForUpdate(ctx, tx, companyID, transactionID)

	r.mu.Lock()
	r.reads++
	n := r.reads
	r.mu.Unlock()

	if n <= r.held {
		r.barrier.Done()
		r.barrier.Wait()
	}
	if n == 1 && r.afterRead != nil {
		r.afterRead()
	}
	return transaction, err
}

// racingService builds a TransactionService over repo that shares the fixture's accounts.
func (f *fixture) racingService(repo domain.TransactionRepository) *TransactionService {
	bankService := NewBankAccountService(f.bankAccounts)
	return NewTransactionService(repo, f.transactor,
		NewChartAccountService(infrastructure.NewMockChartAccountRepository()),
		bankService,
		NewContactService(infrastructure.NewMockContactRepository()),
		zap.NewNop())
}

func (f *fixture) income(t *testing.T, status domain.TransactionStatus) *domain.Transaction {
	t.Helper()
	income := &domain.Transaction{
		CompanyID: f.companyID, Type: domain.TransactionTypeIncome, Status: status,
		Amount: money("100.00"), DueDate: date(2024, time.June, 1), BankAccountID: idPtr(f.bankID),
	}
	require.NoError(t, f.txService.CreateTransaction(context.Background(), income))
	return income
}

func TestUpdateStatus_ConcurrentCompletionsCreditOnce(t *testing.T) {
	f := newFixture(0)
	income := f.income(t, domain.TransactionStatusPending)

	service := f.racingService(newRacingRepository(f.transactions, 2, nil))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.UpdateStatus(context.Background(), f.companyID, income.ID, domain.TransactionStatusCompleted)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, "1100.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))

	stored, err := f.txService.GetTransaction(context.Background(), f.companyID, income.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, stored.Status)
}

func TestUpdateStatus_StatusChangedAfterReadIsRecomputed(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	income := f.income(t, domain.TransactionStatusPending)

	// another request completes the income between our read and our write
	service := f.racingService(newRacingRepository(f.transactions, 0, func() {
		_, err := f.txService.UpdateStatus(ctx, f.companyID, income.ID, domain.TransactionStatusCompleted)
		require.NoError(t, err)
	}))

	updated, err := service.UpdateStatus(ctx, f.companyID, income.ID, domain.TransactionStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, updated.Status)
	// credited by the other request, reversed by ours
	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}

func TestUpdateStatus_DeletedAfterReadDoesNotReverseTwice(t *testing.T) {
	f := newFixture(0)
	ctx := context.Background()
	income := f.income(t, domain.TransactionStatusCompleted)
	require.Equal(t, "1100.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))

	service := f.racingService(newRacingRepository(f.transactions, 0, func() {
		require.NoError(t, f.txService.DeleteTransaction(ctx, f.companyID, income.ID))
	}))

	_, err := service.UpdateStatus(ctx, f.companyID, income.ID, domain.TransactionStatusCancelled)
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}

func TestDeleteTransaction_ConcurrentDeletesReverseOnce(t *testing.T) {
	f := newFixture(0)
	income := f.income(t, domain.TransactionStatusCompleted)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.txService.DeleteTransaction(context.Background(), f.companyID, income.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, "1000.00", f.bankAccounts.Balance(f.bankID).StringFixed(2))
}
