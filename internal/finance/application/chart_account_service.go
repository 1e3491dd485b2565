package application

import (
	"context"
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"time"
)

type ChartAccountService struct {
	repo domain.ChartAccountRepository
}

func NewChartAccountService(repo domain.ChartAccountRepository) *ChartAccountService {
	return &ChartAccountService{repo: repo}
}

func (s *ChartAccountService) CreateChartAccount(ctx context.Context, account *domain.ChartAccount) error {
	account.ID = uuid.New()
	if err := account.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, account.CompanyID, account.Code)
	if err != nil {
		return err
	}
	if exists {
		return financeErrors.ErrChartAccountCodeUsed
	}

	if account.ParentID != nil {
		parent, err := s.GetChartAccount(ctx, account.CompanyID, *account.ParentID)
		if err != nil {
			if errors.Is(err, financeErrors.ErrChartAccountNotFound) {
				return financeErrors.NewValidationError("Parent chart account does not exist")
			}
			return err
		}
		if parent.Type != account.Type {
			return financeErrors.NewValidationError("Parent chart account must have the same type")
		}
	}

	account.CreatedAt = time.Now()
	return s.repo.Save(ctx, account)
}

func (s *ChartAccountService) GetChartAccounts(ctx context.Context, companyID uuid.UUID, accountType string) ([]domain.ChartAccount, error) {
	accounts, err := s.repo.FindByCompany(ctx, companyID, accountType)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.ChartAccount{}, nil
	}
	return accounts, nil
}

func (s *ChartAccountService) GetChartAccount(ctx context.Context, companyID, accountID uuid.UUID) (*domain.ChartAccount, error) {
	account, err := s.repo.FindByID(ctx, companyID, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrChartAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *ChartAccountService) DoesChartAccountExist(ctx context.Context, companyID, accountID uuid.UUID) (bool, error) {
	_, err := s.GetChartAccount(ctx, companyID, accountID)
	if errors.Is(err, financeErrors.ErrChartAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *ChartAccountService) DeleteChartAccount(ctx context.Context, companyID, accountID uuid.UUID) error {
	err := s.repo.Delete(ctx, companyID, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrChartAccountNotFound
	}
	return err
}
