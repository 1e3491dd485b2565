package company

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"time"
)

type Company struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, companyID uuid.UUID, company *Company) error
	ExistsByName(ctx context.Context, ownerID string, name string) (bool, error)
	FindByOwnerID(ctx context.Context, ownerID string) ([]Company, error)
	Update(ctx context.Context, company *Company) (int64, error)
	Delete(ctx context.Context, companyID uuid.UUID) error
}

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) Repository {
	return &companyRepository{db: db}
}

func (r *companyRepository) ExistsByName(ctx context.Context, ownerID string, name string) (bool, error) {
	query := `SELECT COUNT(1)
              FROM companies
              WHERE owner_id = $1 AND name = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, ownerID, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *companyRepository) Create(ctx context.Context, company *Company) error {
	query := `INSERT INTO companies (id, owner_id, name, document, email, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, company.ID, company.OwnerID, company.Name, company.Document,
		company.Email, company.CreatedAt, company.UpdatedAt)
	return err
}

func (r *companyRepository) FindByID(ctx context.Context, companyID uuid.UUID, company *Company) error {
	query := `SELECT id, owner_id, name, document, email, created_at, updated_at
              FROM companies WHERE id = $1`

	return r.db.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID, &company.OwnerID, &company.Name, &company.Document, &company.Email,
		&company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]Company, error) {
	query := `SELECT id, owner_id, name, document, email, created_at, updated_at
              FROM companies WHERE owner_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Document, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *companyRepository) Update(ctx context.Context, company *Company) (int64, error) {
	query := `
        UPDATE companies
        SET name = $1, document = $2, email = $3, updated_at = $4
        WHERE id = $5 AND owner_id = $6
    `

	result, err := r.db.ExecContext(ctx, query, company.Name, company.Document, company.Email,
		company.UpdatedAt, company.ID, company.OwnerID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Delete removes the company; its ledger rows go with it through ON DELETE CASCADE.
func (r *companyRepository) Delete(ctx context.Context, companyID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	return err
}
