package interfaces

import (
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"go.uber.org/zap"
	"net/http"
)

type CatalogServiceInterface interface {
	ListPaymentMethods() ([]domain.PaymentMethodInfo, error)
	ListFrequencies() ([]application.FrequencyInfo, error)
}

// CatalogHandler serves reference data that is the same for every company.
type CatalogHandler struct {
	service      CatalogServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
	logger       *zap.Logger
}

func NewCatalogHandler(
	service CatalogServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *CatalogHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CatalogHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
		logger:       logger,
	}
}

func (h *CatalogHandler) GetPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	methods, err := h.service.ListPaymentMethods()
	if err != nil {
		h.logger.Error("Failed to list payment methods", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve payment methods")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Payment methods retrieved successfully.",
		"data":    methods,
	})
}

func (h *CatalogHandler) GetFrequencies(w http.ResponseWriter, _ *http.Request) {
	frequencies, err := h.service.ListFrequencies()
	if err != nil {
		h.logger.Error("Failed to list frequencies", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve frequencies")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Frequencies retrieved successfully.",
		"data":    frequencies,
	})
}
