package domain

import (
	"context"
	"database/sql"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"github.com/shopspring/decimal"
	"time"
)

type RecurringTransactionRepository interface {
	Save(ctx context.Context, recurring *RecurringTransaction) error
	FindByID(ctx context.Context, companyID, recurringID uuid.UUID) (*RecurringTransaction, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]RecurringTransaction, error)
	// FindCompaniesWithActive lists the companies owning at least one active template.
	FindCompaniesWithActive(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, recurring *RecurringTransaction) error
	Delete(ctx context.Context, companyID, recurringID uuid.UUID) error
	// UpdateLastGeneratedDate only moves the watermark forward.
	UpdateLastGeneratedDate(ctx context.Context, tx *sql.Tx, recurringID uuid.UUID, date time.Time) error
}

// RecurringTransaction is a template that expands into dated transactions.
type RecurringTransaction struct {
	ID          uuid.UUID            `json:"id"`
	CompanyID   uuid.UUID            `json:"company_id"`
	Frequency   recurrence.Frequency `json:"frequency"`
	Interval    int                  `json:"interval"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     *time.Time           `json:"end_date,omitempty"`
	Occurrences *int                 `json:"occurrences,omitempty"`

	TransactionType          TransactionType   `json:"transaction_type"`
	Description              string            `json:"description"`
	Amount                   decimal.Decimal   `json:"amount"`
	ChartAccountID           *uuid.UUID        `json:"chart_account_id,omitempty"`
	BankAccountID            *uuid.UUID        `json:"bank_account_id,omitempty"`
	DestinationBankAccountID *uuid.UUID        `json:"destination_bank_account_id,omitempty"`
	ContactID                *uuid.UUID        `json:"contact_id,omitempty"`
	PaymentMethod            PaymentMethod     `json:"payment_method,omitempty"`
	Status                   TransactionStatus `json:"status"`

	Active            bool       `json:"active"`
	LastGeneratedDate *time.Time `json:"last_generated_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *RecurringTransaction) Schedule() recurrence.Schedule {
	return recurrence.Schedule{
		Frequency:   r.Frequency,
		Interval:    r.Interval,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Occurrences: r.Occurrences,
	}
}

// Validate collects every problem with the template instead of stopping at the first.
func (r *RecurringTransaction) Validate() error {
	validationErrors := &errors.ValidationErrors{}

	if err := r.Schedule().Validate(); err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				validationErrors.Add(errors.NewValidationError(capitalize(e.Error())))
			}
		} else {
			validationErrors.Add(errors.NewValidationError(capitalize(err.Error())))
		}
	}

	payload := r.transaction(r.StartDate)
	if payload.DueDate.IsZero() {
		// the schedule already reported the missing start date
		payload.DueDate = time.Unix(0, 0)
	}
	if err := payload.Validate(); err != nil {
		validationErrors.Add(err)
	}
	return validationErrors.OrNil()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// NextWindowStart is the first date a generation run still has to cover: the day after
// the watermark, or the start date when nothing was generated yet.
func (r *RecurringTransaction) NextWindowStart() time.Time {
	if r.LastGeneratedDate == nil {
		return recurrence.DateOf(r.StartDate)
	}
	return recurrence.AddDays(*r.LastGeneratedDate, 1)
}

// GeneratedDraft is one occurrence of a template that has not been persisted yet.
type GeneratedDraft struct {
	Sequence               int       `json:"sequence"`
	SeriesIndex            int       `json:"series_index"`
	DueDate                time.Time `json:"due_date"`
	RecurringTransactionID uuid.UUID `json:"recurring_transaction_id"`
	CompanyID              uuid.UUID `json:"company_id"`

	TransactionType          TransactionType   `json:"transaction_type"`
	Description              string            `json:"description"`
	Amount                   decimal.Decimal   `json:"amount"`
	ChartAccountID           *uuid.UUID        `json:"chart_account_id,omitempty"`
	BankAccountID            *uuid.UUID        `json:"bank_account_id,omitempty"`
	DestinationBankAccountID *uuid.UUID        `json:"destination_bank_account_id,omitempty"`
	ContactID                *uuid.UUID        `json:"contact_id,omitempty"`
	PaymentMethod            PaymentMethod     `json:"payment_method,omitempty"`
	Status                   TransactionStatus `json:"status"`
}

type GenerationResult struct {
	Drafts         []GeneratedDraft
	CeilingReached bool
}

// Generate expands the template into drafts inside [windowStart, windowEnd]. Nil bounds
// default to the template's start and end dates. The template is not modified.
func (r *RecurringTransaction) Generate(windowStart, windowEnd *time.Time) GenerationResult {
	res := recurrence.Generate(r.Schedule(), recurrence.Window{Start: windowStart, End: windowEnd})

	drafts := make([]GeneratedDraft, 0, len(res.Occurrences))
	for _, o := range res.Occurrences {
		drafts = append(drafts, GeneratedDraft{
			Sequence:                 o.Sequence,
			SeriesIndex:              o.SeriesIndex,
			DueDate:                  o.DueDate,
			RecurringTransactionID:   r.ID,
			CompanyID:                r.CompanyID,
			TransactionType:          r.TransactionType,
			Description:              r.Description,
			Amount:                   r.Amount,
			ChartAccountID:           copyID(r.ChartAccountID),
			BankAccountID:            copyID(r.BankAccountID),
			DestinationBankAccountID: copyID(r.DestinationBankAccountID),
			ContactID:                copyID(r.ContactID),
			PaymentMethod:            r.PaymentMethod,
			Status:                   r.Status,
		})
	}
	return GenerationResult{Drafts: drafts, CeilingReached: res.CeilingReached}
}

func (r *RecurringTransaction) transaction(dueDate time.Time) Transaction {
	return Transaction{
		CompanyID:                r.CompanyID,
		Type:                     r.TransactionType,
		Status:                   r.Status,
		Amount:                   r.Amount,
		DueDate:                  dueDate,
		Description:              r.Description,
		ChartAccountID:           r.ChartAccountID,
		BankAccountID:            r.BankAccountID,
		DestinationBankAccountID: r.DestinationBankAccountID,
		ContactID:                r.ContactID,
		PaymentMethod:            r.PaymentMethod,
	}
}

// ToTransaction turns the draft into a transaction ready to be saved; the caller assigns
// the identity.
func (d GeneratedDraft) ToTransaction() Transaction {
	recurringID := d.RecurringTransactionID
	return Transaction{
		CompanyID:                d.CompanyID,
		Type:                     d.TransactionType,
		Status:                   d.Status,
		Amount:                   d.Amount,
		DueDate:                  d.DueDate,
		Description:              d.Description,
		ChartAccountID:           copyID(d.ChartAccountID),
		BankAccountID:            copyID(d.BankAccountID),
		DestinationBankAccountID: copyID(d.DestinationBankAccountID),
		ContactID:                copyID(d.ContactID),
		PaymentMethod:            d.PaymentMethod,
		RecurringTransactionID:   &recurringID,
	}
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
