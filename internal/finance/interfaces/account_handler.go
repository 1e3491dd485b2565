package interfaces

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"go.uber.org/zap"
	"net/http"
)

type BankAccountServiceInterface interface {
	CreateBankAccount(ctx context.Context, account *domain.BankAccount) error
	GetBankAccounts(ctx context.Context, companyID uuid.UUID) ([]domain.BankAccount, error)
	GetBankAccount(ctx context.Context, companyID, accountID uuid.UUID) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, companyID, accountID uuid.UUID) error
}

type ChartAccountServiceInterface interface {
	CreateChartAccount(ctx context.Context, account *domain.ChartAccount) error
	GetChartAccounts(ctx context.Context, companyID uuid.UUID, accountType string) ([]domain.ChartAccount, error)
	GetChartAccount(ctx context.Context, companyID, accountID uuid.UUID) (*domain.ChartAccount, error)
	DeleteChartAccount(ctx context.Context, companyID, accountID uuid.UUID) error
}

// AccountHandler serves bank accounts and the chart of accounts.
type AccountHandler struct {
	bankAccounts  BankAccountServiceInterface
	chartAccounts ChartAccountServiceInterface
	respondJSON   respondJSONFunc
	respondError  respondErrorFunc
	logger        *zap.Logger
}

func NewAccountHandler(
	bankAccounts BankAccountServiceInterface,
	chartAccounts ChartAccountServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *AccountHandler {
	if bankAccounts == nil || chartAccounts == nil || respondJSON == nil || respondError == nil {
		panic("Services and response functions must not be nil")
	}
	return &AccountHandler{
		bankAccounts:  bankAccounts,
		chartAccounts: chartAccounts,
		respondJSON:   respondJSON,
		respondError:  respondError,
		logger:        logger,
	}
}

func (h *AccountHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	var account domain.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account.CompanyID = companyID

	if err := h.bankAccounts.CreateBankAccount(r.Context(), &account); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create bank account")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Bank account successfully created.",
		"data":    account,
	})
}

func (h *AccountHandler) GetBankAccounts(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	accounts, err := h.bankAccounts.GetBankAccounts(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve bank accounts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bank accounts retrieved successfully.",
		"data":    accounts,
	})
}

func (h *AccountHandler) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	accountID, _ := pathUUID(r, "accountID")

	account, err := h.bankAccounts.GetBankAccount(r.Context(), companyID, accountID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve bank account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bank account retrieved successfully.",
		"data":    account,
	})
}

func (h *AccountHandler) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	accountID, _ := pathUUID(r, "accountID")

	if err := h.bankAccounts.DeleteBankAccount(r.Context(), companyID, accountID); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to delete bank account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bank account deleted successfully.",
	})
}

func (h *AccountHandler) CreateChartAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	var account domain.ChartAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account.CompanyID = companyID

	if err := h.chartAccounts.CreateChartAccount(r.Context(), &account); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create chart account")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Chart account successfully created.",
		"data":    account,
	})
}

func (h *AccountHandler) GetChartAccounts(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	accountType := r.URL.Query().Get("type")
	if accountType != "" && !domain.ChartAccountType(accountType).IsValid() {
		h.respondError(w, http.StatusBadRequest, "Invalid chart account type")
		return
	}

	accounts, err := h.chartAccounts.GetChartAccounts(r.Context(), companyID, accountType)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve chart accounts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Chart accounts retrieved successfully.",
		"data":    accounts,
	})
}

func (h *AccountHandler) GetChartAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	accountID, _ := pathUUID(r, "chartAccountID")

	account, err := h.chartAccounts.GetChartAccount(r.Context(), companyID, accountID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve chart account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Chart account retrieved successfully.",
		"data":    account,
	})
}

func (h *AccountHandler) DeleteChartAccount(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	accountID, _ := pathUUID(r, "chartAccountID")

	if err := h.chartAccounts.DeleteChartAccount(r.Context(), companyID, accountID); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to delete chart account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Chart account deleted successfully.",
	})
}
