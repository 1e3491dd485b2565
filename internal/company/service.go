package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"strings"
	"time"
)

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrUnauthorizedAccess = errors.New("unauthorized: user does not own this company")
	ErrCompanyNameTaken   = errors.New("company with this name already exists")
	ErrInvalidName        = errors.New("company name is required and must be at most 100 characters")
	ErrInvalidEmail       = errors.New("invalid notification email")
)

type Service interface {
	CreateCompany(ctx context.Context, ownerID string, input CompanyInput) (*Company, error)
	GetCompany(ctx context.Context, companyID uuid.UUID, ownerID string) (*Company, error)
	GetAllCompanies(ctx context.Context, ownerID string) ([]Company, error)
	UpdateCompany(ctx context.Context, companyID uuid.UUID, ownerID string, changes CompanyChanges) (*Company, error)
	DeleteCompany(ctx context.Context, companyID uuid.UUID, ownerID string) error
	CheckCompanyOwnership(ctx context.Context, companyID uuid.UUID, ownerID string) (bool, error)
	NotificationRecipient(ctx context.Context, companyID uuid.UUID) (name, email string, err error)
}

type CompanyInput struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
}

// CompanyChanges holds a partial update; nil fields are left untouched.
type CompanyChanges struct {
	Name     *string `json:"name"`
	Document *string `json:"document"`
	Email    *string `json:"email"`
}

type service struct {
	companyRepo Repository
}

func NewCompanyService(repo Repository) Service {
	return &service{companyRepo: repo}
}

func validateName(name string) error {
	if name == "" || len(name) > 100 {
		return ErrInvalidName
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, err.Error())
	}
	return nil
}

func (s *service) CreateCompany(ctx context.Context, ownerID string, input CompanyInput) (*Company, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	exists, err := s.companyRepo.ExistsByName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCompanyNameTaken
	}

	now := time.Now().UTC()
	company := &Company{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Document:  strings.TrimSpace(input.Document),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *service) find(ctx context.Context, companyID uuid.UUID) (*Company, error) {
	var company Company
	if err := s.companyRepo.FindByID(ctx, companyID, &company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *service) GetCompany(ctx context.Context, companyID uuid.UUID, ownerID string) (*Company, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != ownerID {
		return nil, ErrUnauthorizedAccess
	}
	return company, nil
}

func (s *service) GetAllCompanies(ctx context.Context, ownerID string) ([]Company, error) {
	return s.companyRepo.FindByOwnerID(ctx, ownerID)
}

func (s *service) UpdateCompany(ctx context.Context, companyID uuid.UUID, ownerID string, changes CompanyChanges) (*Company, error) {
	company, err := s.GetCompany(ctx, companyID, ownerID)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		if name != company.Name {
			exists, err := s.companyRepo.ExistsByName(ctx, ownerID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrCompanyNameTaken
			}
			company.Name = name
		}
	}
	if changes.Document != nil {
		company.Document = strings.TrimSpace(*changes.Document)
	}
	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		company.Email = email
	}
	company.UpdatedAt = time.Now().UTC()

	affected, err := s.companyRepo.Update(ctx, company)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCompanyNotFound
	}
	return company, nil
}

func (s *service) DeleteCompany(ctx context.Context, companyID uuid.UUID, ownerID string) error {
	if _, err := s.GetCompany(ctx, companyID, ownerID); err != nil {
		return err
	}
	return s.companyRepo.Delete(ctx, companyID)
}

func (s *service) CheckCompanyOwnership(ctx context.Context, companyID uuid.UUID, ownerID string) (bool, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return false, err
	}
	return company.OwnerID == ownerID, nil
}

// NotificationRecipient returns the company name and the address generation summaries go
// to. An empty email means the company opted out.
func (s *service) NotificationRecipient(ctx context.Context, companyID uuid.UUID) (string, string, error) {
	company, err := s.find(ctx, companyID)
	if err != nil {
		return "", "", err
	}
	return company.Name, company.Email, nil
}
