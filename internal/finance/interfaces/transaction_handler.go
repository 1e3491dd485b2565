package interfaces

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) error
	CreateTransactionsBulk(ctx context.Context, companyID uuid.UUID, transactions []*domain.Transaction) error
	GetTransaction(ctx context.Context, companyID, transactionID uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, companyID uuid.UUID, filter domain.TransactionFilter) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, companyID, transactionID uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, companyID, transactionID uuid.UUID) error
	GetTransactionSummary(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time) (map[int]application.TransactionSummary, error)
	GetTransactionSummaryByChartAccount(ctx context.Context, companyID uuid.UUID, startDate, endDate time.Time, transactionType string) ([]domain.TransactionByChartAccountSummary, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
	logger       *zap.Logger
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
		logger:       logger,
	}
}

type transactionRequest struct {
	Type                     domain.TransactionType   `json:"type"`
	Status                   domain.TransactionStatus `json:"status"`
	Amount                   decimal.Decimal          `json:"amount"`
	DueDate                  string                   `json:"due_date"`
	Description              string                   `json:"description"`
	ChartAccountID           *uuid.UUID               `json:"chart_account_id"`
	BankAccountID            *uuid.UUID               `json:"bank_account_id"`
	DestinationBankAccountID *uuid.UUID               `json:"destination_bank_account_id"`
	ContactID                *uuid.UUID               `json:"contact_id"`
	PaymentMethod            domain.PaymentMethod     `json:"payment_method"`
}

func (req transactionRequest) toDomain(companyID uuid.UUID) (*domain.Transaction, error) {
	transaction := &domain.Transaction{
		CompanyID:                companyID,
		Type:                     req.Type,
		Status:                   req.Status,
		Amount:                   req.Amount,
		Description:              req.Description,
		ChartAccountID:           req.ChartAccountID,
		BankAccountID:            req.BankAccountID,
		DestinationBankAccountID: req.DestinationBankAccountID,
		ContactID:                req.ContactID,
		PaymentMethod:            req.PaymentMethod,
	}
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, financeErrors.NewValidationError("Due date must use the YYYY-MM-DD format")
	}
	if dueDate != nil {
		transaction.DueDate = *dueDate
	}
	return transaction, nil
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := req.toDomain(companyID)
	if err == nil {
		err = h.service.CreateTransaction(r.Context(), transaction)
	}
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) CreateTransactionsBulk(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	var req struct {
		Transactions []transactionRequest `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Transactions) == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body - no transactions provided")
		return
	}

	validationErrors := &financeErrors.ValidationErrors{}
	transactions := make([]*domain.Transaction, 0, len(req.Transactions))
	for i, item := range req.Transactions {
		transaction, err := item.toDomain(companyID)
		if err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
			continue
		}
		transactions = append(transactions, transaction)
	}
	if err := validationErrors.OrNil(); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create transactions")
		return
	}

	if err := h.service.CreateTransactionsBulk(r.Context(), companyID, transactions); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create transactions")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transactions successfully created.",
		"data":    transactions,
	})
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	query := r.URL.Query()

	filter := domain.TransactionFilter{
		Type:   query.Get("type"),
		Status: query.Get("status"),
	}
	if filter.Type != "" && !domain.IsValidTransactionType(filter.Type) {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}
	if filter.Status != "" && !domain.IsValidTransactionStatus(filter.Status) {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction status")
		return
	}

	startDate, err := parseOptionalDate(query.Get("start_date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid start date format")
		return
	}
	endDate, err := parseOptionalDate(query.Get("end_date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid end date format")
		return
	}
	if startDate != nil {
		filter.StartDate = *startDate
	}
	if endDate != nil {
		filter.EndDate = *endDate
	}

	var ok bool
	if filter.Limit, ok = parsePositiveInt(query.Get("limit"), 20); !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid limit value")
		return
	}
	if filter.Page, ok = parsePositiveInt(query.Get("page"), 1); !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid page value")
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), companyID, filter)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    transactions,
	})
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	transactionID, _ := pathUUID(r, "transactionID")

	transaction, err := h.service.GetTransaction(r.Context(), companyID, transactionID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction retrieved successfully.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	transactionID, _ := pathUUID(r, "transactionID")

	var req struct {
		Status domain.TransactionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.UpdateStatus(r.Context(), companyID, transactionID, req.Status)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to update transaction status")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction status updated successfully.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	transactionID, _ := pathUUID(r, "transactionID")

	if err := h.service.DeleteTransaction(r.Context(), companyID, transactionID); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to delete transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction deleted successfully.",
	})
}

func (h *TransactionHandler) GetTransactionSummary(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	startDate, endDate, msg := parseDateRange(r)
	if msg != "" {
		h.respondError(w, http.StatusBadRequest, msg)
		return
	}

	summary, err := h.service.GetTransactionSummary(r.Context(), companyID, startDate, endDate)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve transaction summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions summary retrieved successfully.",
		"data":    summary,
	})
}

func (h *TransactionHandler) GetTransactionSummaryByChartAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	transactionType := r.URL.Query().Get("type")
	if transactionType != string(domain.TransactionTypeIncome) && transactionType != string(domain.TransactionTypeExpense) {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}

	startDate, endDate, msg := parseDateRange(r)
	if msg != "" {
		h.respondError(w, http.StatusBadRequest, msg)
		return
	}

	summary, err := h.service.GetTransactionSummaryByChartAccount(r.Context(), companyID, startDate, endDate, transactionType)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve chart account summary")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Chart account summary retrieved successfully.",
		"data":    summary,
	})
}
