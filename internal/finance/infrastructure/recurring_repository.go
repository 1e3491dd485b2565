package infrastructure

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"time"
)

const recurringColumns = `id, company_id, frequency, interval_count, start_date, end_date, occurrences,
        transaction_type, description, amount, chart_account_id, bank_account_id, destination_bank_account_id,
        contact_id, payment_method, status, active, last_generated_date, created_at, updated_at`

type RecurringRepository struct {
	db *sql.DB
}

func NewRecurringRepository(db *sql.DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) Save(ctx context.Context, recurring *domain.RecurringTransaction) error {
	query := `INSERT INTO recurring_transactions (` + recurringColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.db.ExecContext(ctx, query,
		recurring.ID, recurring.CompanyID, recurring.Frequency, recurring.Interval, recurring.StartDate,
		recurring.EndDate, recurring.Occurrences, recurring.TransactionType, recurring.Description, recurring.Amount,
		recurring.ChartAccountID, recurring.BankAccountID, recurring.DestinationBankAccountID, recurring.ContactID,
		recurring.PaymentMethod, recurring.Status, recurring.Active, recurring.LastGeneratedDate,
		recurring.CreatedAt, recurring.UpdatedAt,
	)
	return err
}

func scanRecurring(row interface{ Scan(dest ...any) error }, recurring *domain.RecurringTransaction) error {
	return row.Scan(&recurring.ID, &recurring.CompanyID, &recurring.Frequency, &recurring.Interval, &recurring.StartDate,
		&recurring.EndDate, &recurring.Occurrences, &recurring.TransactionType, &recurring.Description, &recurring.Amount,
		&recurring.ChartAccountID, &recurring.BankAccountID, &recurring.DestinationBankAccountID, &recurring.ContactID,
		&recurring.PaymentMethod, &recurring.Status, &recurring.Active, &recurring.LastGeneratedDate,
		&recurring.CreatedAt, &recurring.UpdatedAt)
}

func (r *RecurringRepository) FindByID(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE id = $1 AND company_id = $2`

	var recurring domain.RecurringTransaction
	if err := scanRecurring(r.db.QueryRowContext(ctx, query, recurringID, companyID), &recurring); err != nil {
		return nil, err
	}
	return &recurring, nil
}

func (r *RecurringRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]domain.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE company_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY start_date, created_at`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.RecurringTransaction
	for rows.Next() {
		var recurring domain.RecurringTransaction
		if err := scanRecurring(rows, &recurring); err != nil {
			return nil, err
		}
		templates = append(templates, recurring)
	}
	return templates, rows.Err()
}

func (r *RecurringRepository) FindCompaniesWithActive(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT company_id FROM recurring_transactions WHERE active ORDER BY company_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		companies = append(companies, id)
	}
	return companies, rows.Err()
}

func (r *RecurringRepository) Update(ctx context.Context, recurring *domain.RecurringTransaction) error {
	query := `UPDATE recurring_transactions
        SET frequency = $1, interval_count = $2, start_date = $3, end_date = $4, occurrences = $5,
            transaction_type = $6, description = $7, amount = $8, chart_account_id = $9, bank_account_id = $10,
            destination_bank_account_id = $11, contact_id = $12, payment_method = $13, status = $14,
            active = $15, updated_at = $16
        WHERE id = $17 AND company_id = $18`

	recurring.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		recurring.Frequency, recurring.Interval, recurring.StartDate, recurring.EndDate, recurring.Occurrences,
		recurring.TransactionType, recurring.Description, recurring.Amount, recurring.ChartAccountID,
		recurring.BankAccountID, recurring.DestinationBankAccountID, recurring.ContactID, recurring.PaymentMethod,
		recurring.Status, recurring.Active, recurring.UpdatedAt, recurring.ID, recurring.CompanyID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *RecurringRepository) Delete(ctx context.Context, companyID, recurringID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = $1 AND company_id = $2`, recurringID, companyID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *RecurringRepository) UpdateLastGeneratedDate(ctx context.Context, tx *sql.Tx, recurringID uuid.UUID, date time.Time) error {
	query := `UPDATE recurring_transactions
        SET last_generated_date = $2, updated_at = now()
        WHERE id = $1 AND (last_generated_date IS NULL OR last_generated_date < $2)`
	_, err := conn(r.db, tx).ExecContext(ctx, query, recurringID, date)
	return err
}
