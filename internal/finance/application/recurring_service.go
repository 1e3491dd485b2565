package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"go.uber.org/zap"
	"time"
)

// DraftWriter persists generated drafts inside an open database transaction.
type DraftWriter interface {
	CreateFromDrafts(ctx context.Context, tx *sql.Tx, drafts []domain.GeneratedDraft) (created, skipped int, err error)
}

// GenerationNotifier is told about runs that created at least one transaction.
type GenerationNotifier interface {
	NotifyGeneration(ctx context.Context, run GenerationRun) error
}

// GenerationRun summarises one GenerateDue call for a company.
type GenerationRun struct {
	CompanyID        uuid.UUID `json:"company_id"`
	AsOf             time.Time `json:"as_of"`
	WindowEnd        time.Time `json:"window_end"`
	TemplatesScanned int       `json:"templates_scanned"`
	Created          int       `json:"created"`
	Skipped          int       `json:"skipped"`
	CeilingWarnings  int       `json:"ceiling_warnings"`
	Failed           int       `json:"failed"`
}

type RecurringService struct {
	repo         domain.RecurringTransactionRepository
	transactions DraftWriter
	transactor   domain.Transactor
	references   references
	notifier     GenerationNotifier
	horizonDays  int
	logger       *zap.Logger
}

func NewRecurringService(
	repo domain.RecurringTransactionRepository,
	transactions DraftWriter,
	transactor domain.Transactor,
	chartAccounts ChartAccountServiceInterface,
	bankAccounts BankAccountServiceInterface,
	contacts ContactServiceInterface,
	horizonDays int,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		repo:         repo,
		transactions: transactions,
		transactor:   transactor,
		references:   references{chartAccounts: chartAccounts, bankAccounts: bankAccounts, contacts: contacts},
		horizonDays:  horizonDays,
		logger:       logger,
	}
}

func (s *RecurringService) SetNotifier(notifier GenerationNotifier) {
	s.notifier = notifier
}

func (s *RecurringService) prepare(ctx context.Context, recurring *domain.RecurringTransaction) error {
	recurring.StartDate = recurrence.DateOf(recurring.StartDate)
	if recurring.EndDate != nil {
		end := recurrence.DateOf(*recurring.EndDate)
		recurring.EndDate = &end
	}
	if recurring.Status == "" {
		recurring.Status = domain.TransactionStatusPending
	}
	recurring.Amount = recurring.Amount.Round(2)

	if err := recurring.Validate(); err != nil {
		return err
	}
	return s.references.check(ctx, recurring.CompanyID, recurring.ChartAccountID, recurring.BankAccountID,
		recurring.DestinationBankAccountID, recurring.ContactID)
}

func (s *RecurringService) CreateRecurring(ctx context.Context, recurring *domain.RecurringTransaction) error {
	recurring.ID = uuid.New()
	recurring.Active = true
	recurring.LastGeneratedDate = nil
	if err := s.prepare(ctx, recurring); err != nil {
		return err
	}

	now := time.Now()
	recurring.CreatedAt = now
	recurring.UpdatedAt = now
	if err := s.repo.Save(ctx, recurring); err != nil {
		return err
	}

	s.logger.Info("Recurring transaction created",
		zap.Stringer("recurring_id", recurring.ID),
		zap.Stringer("company_id", recurring.CompanyID),
		zap.String("schedule", recurrence.Describe(recurring.Schedule())))
	return nil
}

func (s *RecurringService) GetRecurring(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error) {
	recurring, err := s.repo.FindByID(ctx, companyID, recurringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrRecurringNotFound
		}
		return nil, err
	}
	return recurring, nil
}

func (s *RecurringService) ListRecurring(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]domain.RecurringTransaction, error) {
	templates, err := s.repo.FindByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		return []domain.RecurringTransaction{}, nil
	}
	return templates, nil
}

// UpdateRecurring replaces the schedule and payload of a template. Transactions generated
// earlier are left as they are; only future runs see the change.
func (s *RecurringService) UpdateRecurring(ctx context.Context, companyID, recurringID uuid.UUID, changes domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	recurring, err := s.GetRecurring(ctx, companyID, recurringID)
	if err != nil {
		return nil, err
	}

	recurring.Frequency = changes.Frequency
	recurring.Interval = changes.Interval
	recurring.StartDate = changes.StartDate
	recurring.EndDate = changes.EndDate
	recurring.Occurrences = changes.Occurrences
	recurring.TransactionType = changes.TransactionType
	recurring.Description = changes.Description
	recurring.Amount = changes.Amount
	recurring.ChartAccountID = changes.ChartAccountID
	recurring.BankAccountID = changes.BankAccountID
	recurring.DestinationBankAccountID = changes.DestinationBankAccountID
	recurring.ContactID = changes.ContactID
	recurring.PaymentMethod = changes.PaymentMethod
	recurring.Status = changes.Status

	if err := s.prepare(ctx, recurring); err != nil {
		return nil, err
	}
	if err := s.update(ctx, recurring); err != nil {
		return nil, err
	}
	return recurring, nil
}

func (s *RecurringService) DeactivateRecurring(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error) {
	recurring, err := s.GetRecurring(ctx, companyID, recurringID)
	if err != nil {
		return nil, err
	}
	if !recurring.Active {
		return recurring, nil
	}
	recurring.Active = false
	if err := s.update(ctx, recurring); err != nil {
		return nil, err
	}
	return recurring, nil
}

func (s *RecurringService) update(ctx context.Context, recurring *domain.RecurringTransaction) error {
	err := s.repo.Update(ctx, recurring)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrRecurringNotFound
	}
	return err
}

func (s *RecurringService) DeleteRecurring(ctx context.Context, companyID, recurringID uuid.UUID) error {
	err := s.repo.Delete(ctx, companyID, recurringID)
	if errors.Is(err, sql.ErrNoRows) {
		return financeErrors.ErrRecurringNotFound
	}
	return err
}

// PreviewRecurring expands a template without persisting anything.
func (s *RecurringService) PreviewRecurring(ctx context.Context, companyID, recurringID uuid.UUID, windowStart, windowEnd *time.Time) (domain.GenerationResult, error) {
	recurring, err := s.GetRecurring(ctx, companyID, recurringID)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	return recurring.Generate(windowStart, windowEnd), nil
}

// GenerateDue creates the transactions every active template of the company owes up to
// asOf plus the configured horizon. Each template is handled in its own database
// transaction together with its watermark, so a failing template does not block the rest.
func (s *RecurringService) GenerateDue(ctx context.Context, companyID uuid.UUID, asOf time.Time) (GenerationRun, error) {
	windowEnd := recurrence.AddDays(recurrence.DateOf(asOf), s.horizonDays)
	run := GenerationRun{CompanyID: companyID, AsOf: asOf, WindowEnd: windowEnd}

	templates, err := s.repo.FindByCompany(ctx, companyID, true)
	if err != nil {
		return run, fmt.Errorf("list recurring transactions: %w", err)
	}

	var errs []error
	for i := range templates {
		recurring := &templates[i]
		run.TemplatesScanned++

		created, skipped, ceiling, err := s.generateTemplate(ctx, recurring, windowEnd)
		run.Created += created
		run.Skipped += skipped
		if ceiling {
			run.CeilingWarnings++
		}
		if err != nil {
			run.Failed++
			errs = append(errs, fmt.Errorf("recurring transaction %s: %w", recurring.ID, err))
			s.logger.Error("Failed to generate recurring transaction",
				zap.Stringer("recurring_id", recurring.ID),
				zap.Stringer("company_id", companyID),
				zap.Error(err))
		}
	}

	if run.Created > 0 || run.Failed > 0 {
		s.logger.Info("Recurring generation finished",
			zap.Stringer("company_id", companyID),
			zap.Int("templates", run.TemplatesScanned),
			zap.Int("created", run.Created),
			zap.Int("skipped", run.Skipped),
			zap.Int("failed", run.Failed))
	}
	return run, errors.Join(errs...)
}

func (s *RecurringService) generateTemplate(ctx context.Context, recurring *domain.RecurringTransaction, windowEnd time.Time) (created, skipped int, ceiling bool, err error) {
	windowStart := recurring.NextWindowStart()
	if windowStart.After(windowEnd) {
		return 0, 0, false, nil
	}

	result := recurring.Generate(&windowStart, &windowEnd)
	if result.CeilingReached {
		s.logger.Warn("Recurring transaction hit the per-run occurrence ceiling",
			zap.Stringer("recurring_id", recurring.ID),
			zap.Int("ceiling", recurrence.MaxOccurrences),
			zap.Time("window_start", windowStart),
			zap.Time("window_end", windowEnd))
	}
	if len(result.Drafts) == 0 {
		return 0, 0, result.CeilingReached, nil
	}

	last := result.Drafts[len(result.Drafts)-1].DueDate
	err = s.transactor.WithinTransaction(ctx, func(tx *sql.Tx) error {
		c, sk, err := s.transactions.CreateFromDrafts(ctx, tx, result.Drafts)
		if err != nil {
			return err
		}
		created, skipped = c, sk
		return s.repo.UpdateLastGeneratedDate(ctx, tx, recurring.ID, last)
	})
	if err != nil {
		return 0, 0, result.CeilingReached, err
	}
	recurring.LastGeneratedDate = &last
	return created, skipped, result.CeilingReached, nil
}

// GenerateAll runs GenerateDue for every company that has active templates.
func (s *RecurringService) GenerateAll(ctx context.Context, asOf time.Time) ([]GenerationRun, error) {
	companies, err := s.repo.FindCompaniesWithActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies with recurring transactions: %w", err)
	}

	runs := make([]GenerationRun, 0, len(companies))
	var errs []error
	for _, companyID := range companies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		run, err := s.GenerateDue(ctx, companyID, asOf)
		if err != nil {
			errs = append(errs, err)
		}
		runs = append(runs, run)

		if s.notifier != nil && run.Created > 0 {
			if err := s.notifier.NotifyGeneration(ctx, run); err != nil {
				s.logger.Warn("Failed to notify about recurring generation",
					zap.Stringer("company_id", companyID), zap.Error(err))
			}
		}
	}
	return runs, errors.Join(errs...)
}
