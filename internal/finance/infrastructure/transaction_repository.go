package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"strings"
	"time"
)

const transactionColumns = `id, company_id, type, status, amount, due_date, description, chart_account_id,
        bank_account_id, destination_bank_account_id, contact_id, payment_method, recurring_transaction_id, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(ctx context.Context, tx *sql.Tx, transaction *domain.Transaction) (bool, error) {
	query := `INSERT INTO transactions (` + transactionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
        ON CONFLICT (recurring_transaction_id, due_date) DO NOTHING
        RETURNING created_at`

	err := conn(r.db, tx).QueryRowContext(ctx, query,
		transaction.ID, transaction.CompanyID, transaction.Type, transaction.Status, transaction.Amount,
		transaction.DueDate, transaction.Description, transaction.ChartAccountID, transaction.BankAccountID,
		transaction.DestinationBankAccountID, transaction.ContactID, transaction.PaymentMethod,
		transaction.RecurringTransactionID,
	).Scan(&transaction.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanTransaction(row interface{ Scan(dest ...any) error }, transaction *domain.Transaction) error {
	return row.Scan(&transaction.ID, &transaction.CompanyID, &transaction.Type, &transaction.Status, &transaction.Amount,
		&transaction.DueDate, &transaction.Description, &transaction.ChartAccountID, &transaction.BankAccountID,
		&transaction.DestinationBankAccountID, &transaction.ContactID, &transaction.PaymentMethod,
		&transaction.RecurringTransactionID, &transaction.CreatedAt)
}

func (r *TransactionRepository) FindByID(ctx context.Context, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND company_id = $2`

	var transaction domain.Transaction
	if err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID, companyID), &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("due_date >= $%d", len(args)))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY due_date DESC, created_at DESC`
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		args = append(args, filter.Limit, (page-1)*filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := scanTransaction(rows, &transaction); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND company_id = $2 FOR UPDATE`

	var transaction domain.Transaction
	if err := scanTransaction(conn(r.db, tx).QueryRowContext(ctx, query, transactionID, companyID), &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	result, err := conn(r.db, tx).ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2 AND company_id = $3 AND status = $4`,
		to, transactionID, companyID, from)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, tx *sql.Tx, companyID, transactionID uuid.UUID) (*domain.Transaction, error) {
	query := `DELETE FROM transactions WHERE id = $1 AND company_id = $2 RETURNING ` + transactionColumns

	var transaction domain.Transaction
	if err := scanTransaction(conn(r.db, tx).QueryRowContext(ctx, query, transactionID, companyID), &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *TransactionRepository) GetTransactionsInDateRange(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) ([]domain.Transaction, error) {
	return r.FindByCompany(ctx, companyID, domain.TransactionFilter{StartDate: startDate, EndDate: endDate})
}

func (r *TransactionRepository) GetSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]domain.TransactionByChartAccountSummary, error) {
	query := `SELECT chart_account_id, type, SUM(amount)
        FROM transactions
        WHERE company_id = $1 AND due_date BETWEEN $2 AND $3 AND status <> 'cancelled'`
	args := []interface{}{companyID, startDate, endDate}
	if transactionType != "" {
		query += " AND type = $4"
		args = append(args, transactionType)
	}
	query += " GROUP BY chart_account_id, type ORDER BY type, chart_account_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.TransactionByChartAccountSummary
	for rows.Next() {
		var summary domain.TransactionByChartAccountSummary
		if err := rows.Scan(&summary.ChartAccountID, &summary.Type, &summary.Total); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// expectAffected maps an UPDATE or DELETE that matched nothing to sql.ErrNoRows.
func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
