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

type ContactService struct {
	repo domain.ContactRepository
}

func NewContactService(repo domain.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) CreateContact(ctx context.Context, contact *domain.Contact) error {
	contact.ID = uuid.New()
	if err := contact.Validate(); err != nil {
		return err
	}
	contact.CreatedAt = time.Now()
	return s.repo.Save(ctx, contact)
}

func (s *ContactService) GetContacts(ctx context.Context, companyID uuid.UUID, kind string) ([]domain.Contact, error) {
	contacts, err := s.repo.FindByCompany(ctx, companyID, kind)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		return []domain.Contact{}, nil
	}
	return contacts, nil
}

func (s *ContactService) GetContact(ctx context.Context, companyID, contactID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.repo.FindByID(ctx, companyID, contactID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) DoesContactExist(ctx context.Context, companyID, contactID uuid.UUID) (bool, error) {
	_, err := s.GetContact(ctx, companyID, contactID)
	if errors.Is(err, financeErrors.ErrContactNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *ContactService) DeleteContact(ctx context.Context, companyID, contactID uuid.UUID) error {
	err := s.repo.Delete(ctx, companyID, contactID)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrContactNotFound
	}
	return err
}
