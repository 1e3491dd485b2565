package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"time"
)

type BankAccountService struct {
	repo domain.BankAccountRepository
}

func NewBankAccountService(repo domain.BankAccountRepository) *BankAccountService {
	return &BankAccountService{repo: repo}
}

func (s *BankAccountService) CreateBankAccount(ctx context.Context, account *domain.BankAccount) error {
	account.ID = uuid.New()
	account.InitialBalance = account.InitialBalance.Round(2)
	account.Balance = account.InitialBalance
	account.Active = true
	if err := account.Validate(); err != nil {
		return err
	}
	account.CreatedAt = time.Now()
	return s.repo.Save(ctx, account)
}

func (s *BankAccountService) GetBankAccounts(ctx context.Context, companyID uuid.UUID) ([]domain.BankAccount, error) {
	accounts, err := s.repo.FindByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.BankAccount{}, nil
	}
	return accounts, nil
}

func (s *BankAccountService) GetBankAccount(ctx context.Context, companyID, accountID uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.repo.FindByID(ctx, companyID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrBankAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *BankAccountService) DoesBankAccountExist(ctx context.Context, companyID, accountID uuid.UUID) (bool, error) {
	_, err := s.GetBankAccount(ctx, companyID, accountID)
	if errors.Is(err, financeErrors.ErrBankAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ApplyBalanceChanges adjusts balances inside tx so they commit or roll back with the
// transaction rows that caused them.
func (s *BankAccountService) ApplyBalanceChanges(ctx context.Context, tx *sql.Tx, changes []domain.BalanceChange) error {
	for _, change := range changes {
		if err := s.repo.AdjustBalance(ctx, tx, change.BankAccountID, change.Delta); err != nil {
			return fmt.Errorf("adjust balance of %s: %w", change.BankAccountID, err)
		}
	}
	return nil
}

func (s *BankAccountService) DeleteBankAccount(ctx context.Context, companyID, accountID uuid.UUID) error {
	if _, err := s.GetBankAccount(ctx, companyID, accountID); err != nil {
		return err
	}
	referenced, err := s.repo.IsReferenced(ctx, accountID)
	if err != nil {
		return err
	}
	if referenced {
		return financeErrors.ErrBankAccountInUse
	}
	err = s.repo.Delete(ctx, companyID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrBankAccountNotFound
	}
	return err
}
