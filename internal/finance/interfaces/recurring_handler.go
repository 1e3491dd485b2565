package interfaces

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
	"strings"
	"time"
)

type RecurringServiceInterface interface {
	CreateRecurring(ctx context.Context, recurring *domain.RecurringTransaction) error
	GetRecurring(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error)
	ListRecurring(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]domain.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, companyID, recurringID uuid.UUID, changes domain.RecurringTransaction) (*domain.RecurringTransaction, error)
	DeactivateRecurring(ctx context.Context, companyID, recurringID uuid.UUID) (*domain.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, companyID, recurringID uuid.UUID) error
	PreviewRecurring(ctx context.Context, companyID, recurringID uuid.UUID, windowStart, windowEnd *time.Time) (domain.GenerationResult, error)
	GenerateDue(ctx context.Context, companyID uuid.UUID, asOf time.Time) (application.GenerationRun, error)
}

// GenerationTrigger schedules a background generation run for all companies.
type GenerationTrigger interface {
	Notify()
}

type RecurringHandler struct {
	service      RecurringServiceInterface
	trigger      GenerationTrigger
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
	logger       *zap.Logger
	now          func() time.Time
}

func NewRecurringHandler(
	service RecurringServiceInterface,
	trigger GenerationTrigger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *RecurringHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &RecurringHandler{
		service:      service,
		trigger:      trigger,
		respondJSON:  respondJSON,
		respondError: respondError,
		logger:       logger,
		now:          time.Now,
	}
}

type recurringRequest struct {
	Frequency   string  `json:"frequency"`
	Interval    *int    `json:"interval"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Occurrences *int    `json:"occurrences"`

	TransactionType          domain.TransactionType   `json:"transaction_type"`
	Description              string                   `json:"description"`
	Amount                   decimal.Decimal          `json:"amount"`
	ChartAccountID           *uuid.UUID               `json:"chart_account_id"`
	BankAccountID            *uuid.UUID               `json:"bank_account_id"`
	DestinationBankAccountID *uuid.UUID               `json:"destination_bank_account_id"`
	ContactID                *uuid.UUID               `json:"contact_id"`
	PaymentMethod            domain.PaymentMethod     `json:"payment_method"`
	Status                   domain.TransactionStatus `json:"status"`
}

// toDomain converts the request; a missing interval means 1.
func (req recurringRequest) toDomain(companyID uuid.UUID) (domain.RecurringTransaction, error) {
	recurring := domain.RecurringTransaction{
		CompanyID:                companyID,
		Frequency:                recurrence.Frequency(strings.ToLower(strings.TrimSpace(req.Frequency))),
		Interval:                 1,
		Occurrences:              req.Occurrences,
		TransactionType:          req.TransactionType,
		Description:              req.Description,
		Amount:                   req.Amount,
		ChartAccountID:           req.ChartAccountID,
		BankAccountID:            req.BankAccountID,
		DestinationBankAccountID: req.DestinationBankAccountID,
		ContactID:                req.ContactID,
		PaymentMethod:            req.PaymentMethod,
		Status:                   req.Status,
	}
	if req.Interval != nil {
		recurring.Interval = *req.Interval
	}

	validationErrors := &financeErrors.ValidationErrors{}
	if start, err := parseOptionalDate(req.StartDate); err != nil {
		validationErrors.Add(financeErrors.NewValidationError("Start date must use the YYYY-MM-DD format"))
	} else if start != nil {
		recurring.StartDate = *start
	}
	if req.EndDate != nil {
		end, err := parseOptionalDate(*req.EndDate)
		if err != nil {
			validationErrors.Add(financeErrors.NewValidationError("End date must use the YYYY-MM-DD format"))
		}
		recurring.EndDate = end
	}
	return recurring, validationErrors.OrNil()
}

type recurringResponse struct {
	domain.RecurringTransaction
	Schedule string `json:"schedule"`
	RRule    string `json:"rrule,omitempty"`
}

func newRecurringResponse(recurring *domain.RecurringTransaction) recurringResponse {
	rule, _ := recurrence.RRule(recurring.Schedule())
	return recurringResponse{
		RecurringTransaction: *recurring,
		Schedule:             recurrence.Describe(recurring.Schedule()),
		RRule:                rule,
	}
}

func (h *RecurringHandler) decode(w http.ResponseWriter, r *http.Request, companyID uuid.UUID) (domain.RecurringTransaction, bool) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return domain.RecurringTransaction{}, false
	}
	recurring, err := req.toDomain(companyID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Invalid recurring transaction")
		return domain.RecurringTransaction{}, false
	}
	return recurring, true
}

func (h *RecurringHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurring, ok := h.decode(w, r, companyID)
	if !ok {
		return
	}

	if err := h.service.CreateRecurring(r.Context(), &recurring); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction successfully created.",
		"data":    newRecurringResponse(&recurring),
	})
}

func (h *RecurringHandler) GetAllRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	activeOnly := r.URL.Query().Get("active") == "true"

	templates, err := h.service.ListRecurring(r.Context(), companyID, activeOnly)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve recurring transactions")
		return
	}

	data := make([]recurringResponse, 0, len(templates))
	for i := range templates {
		data = append(data, newRecurringResponse(&templates[i]))
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transactions retrieved successfully.",
		"data":    data,
	})
}

func (h *RecurringHandler) GetRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurringID, _ := pathUUID(r, "recurringID")

	recurring, err := h.service.GetRecurring(r.Context(), companyID, recurringID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction retrieved successfully.",
		"data":    newRecurringResponse(recurring),
	})
}

func (h *RecurringHandler) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurringID, _ := pathUUID(r, "recurringID")
	changes, ok := h.decode(w, r, companyID)
	if !ok {
		return
	}

	recurring, err := h.service.UpdateRecurring(r.Context(), companyID, recurringID, changes)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to update recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction updated successfully.",
		"data":    newRecurringResponse(recurring),
	})
}

func (h *RecurringHandler) DeactivateRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurringID, _ := pathUUID(r, "recurringID")

	recurring, err := h.service.DeactivateRecurring(r.Context(), companyID, recurringID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to deactivate recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction deactivated.",
		"data":    newRecurringResponse(recurring),
	})
}

func (h *RecurringHandler) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurringID, _ := pathUUID(r, "recurringID")

	if err := h.service.DeleteRecurring(r.Context(), companyID, recurringID); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to delete recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction deleted successfully.",
	})
}

// PreviewRecurring lists the drafts a template would produce between the optional
// window_start and window_end query parameters.
func (h *RecurringHandler) PreviewRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	recurringID, _ := pathUUID(r, "recurringID")

	windowStart, err := parseOptionalDate(r.URL.Query().Get("window_start"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid window start format")
		return
	}
	windowEnd, err := parseOptionalDate(r.URL.Query().Get("window_end"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid window end format")
		return
	}

	result, err := h.service.PreviewRecurring(r.Context(), companyID, recurringID, windowStart, windowEnd)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to preview recurring transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transaction preview generated.",
		"data": map[string]interface{}{
			"drafts":          result.Drafts,
			"ceiling_reached": result.CeilingReached,
		},
	})
}

// GenerateRecurring creates the company's due transactions right away. With async=true it
// only wakes the scheduler, which then runs for every company.
func (h *RecurringHandler) GenerateRecurring(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	if r.URL.Query().Get("async") == "true" {
		if h.trigger == nil {
			h.respondError(w, http.StatusServiceUnavailable, "Background generation is not available")
			return
		}
		h.trigger.Notify()
		h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
			"status":  "success",
			"message": "Recurring generation scheduled.",
		})
		return
	}

	asOf := h.now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		d, err := recurrence.ParseDate(v)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid as_of date format")
			return
		}
		asOf = d
	}

	run, err := h.service.GenerateDue(r.Context(), companyID, asOf)
	if err != nil && run.TemplatesScanned == 0 {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to generate recurring transactions")
		return
	}
	if err != nil {
		h.logger.Warn("Recurring generation partially failed", zap.Stringer("company_id", companyID), zap.Error(err))
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Recurring transactions generated.",
		"data":    run,
	})
}
