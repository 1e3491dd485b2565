package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	query := `INSERT INTO contacts (id, company_id, name, kind, email, phone, document, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, contact.ID, contact.CompanyID, contact.Name, contact.Kind,
		contact.Email, contact.Phone, contact.Document, contact.CreatedAt)
	return err
}

func (r *ContactRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, kind string) ([]domain.Contact, error) {
	query := "SELECT id, company_id, name, kind, email, phone, document, created_at FROM contacts WHERE company_id = $1"
	args := []interface{}{companyID}

	// "both" contacts show up under either filter
	if kind != "" {
		query += " AND (kind = $2 OR kind = 'both')"
		args = append(args, kind)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(&contact.ID, &contact.CompanyID, &contact.Name, &contact.Kind, &contact.Email,
			&contact.Phone, &contact.Document, &contact.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) FindByID(ctx context.Context, companyID, contactID uuid.UUID) (*domain.Contact, error) {
	query := "SELECT id, company_id, name, kind, email, phone, document, created_at FROM contacts WHERE id = $1 AND company_id = $2"

	var contact domain.Contact
	err := r.db.QueryRowContext(ctx, query, contactID, companyID).Scan(&contact.ID, &contact.CompanyID, &contact.Name,
		&contact.Kind, &contact.Email, &contact.Phone, &contact.Document, &contact.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, companyID, contactID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1 AND company_id = $2", contactID, companyID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
