package application

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
)

type ChartAccountServiceInterface interface {
	DoesChartAccountExist(ctx context.Context, companyID, accountID uuid.UUID) (bool, error)
}

type BankAccountServiceInterface interface {
	DoesBankAccountExist(ctx context.Context, companyID, accountID uuid.UUID) (bool, error)
	ApplyBalanceChanges(ctx context.Context, tx *sql.Tx, changes []domain.BalanceChange) error
}

type ContactServiceInterface interface {
	DoesContactExist(ctx context.Context, companyID, contactID uuid.UUID) (bool, error)
}

// references verifies that the accounts and contact a transaction points at belong to
// the same company.
type references struct {
	chartAccounts ChartAccountServiceInterface
	bankAccounts  BankAccountServiceInterface
	contacts      ContactServiceInterface
}

func (r references) check(ctx context.Context, companyID uuid.UUID, chartAccountID, bankAccountID, destinationID, contactID *uuid.UUID) error {
	if chartAccountID != nil {
		exists, err := r.chartAccounts.DoesChartAccountExist(ctx, companyID, *chartAccountID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrInvalidChartAccount
		}
	}
	if bankAccountID != nil {
		exists, err := r.bankAccounts.DoesBankAccountExist(ctx, companyID, *bankAccountID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrInvalidBankAccount
		}
	}
	if destinationID != nil {
		exists, err := r.bankAccounts.DoesBankAccountExist(ctx, companyID, *destinationID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrInvalidDestinationAccount
		}
	}
	if contactID != nil {
		exists, err := r.contacts.DoesContactExist(ctx, companyID, *contactID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrInvalidContact
		}
	}
	return nil
}
