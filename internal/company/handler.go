package company

import (
	"encoding/json"
	"errors"
	"github.com/sebuszqo/LedgerManager/internal/auth"
	"go.uber.org/zap"
	"net/http"
)

type CompanyHandler struct {
	companyService Service
	respondJSON    func(w http.ResponseWriter, status int, payload interface{})
	respondError   func(w http.ResponseWriter, status int, message string, errors ...[]string)
	logger         *zap.Logger
}

func NewCompanyHandler(
	companyService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		respondJSON:    respondJSON,
		respondError:   respondError,
		logger:         logger,
	}
}

func (h *CompanyHandler) getUserIDReq(w http.ResponseWriter, r *http.Request) string {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}
	return userID
}

func (h *CompanyHandler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCompanyNotFound):
		h.respondError(w, http.StatusNotFound, "Company not found")
	case errors.Is(err, ErrUnauthorizedAccess):
		h.respondError(w, http.StatusForbidden, "Access to company denied")
	case errors.Is(err, ErrCompanyNameTaken):
		h.respondError(w, http.StatusConflict, "Company name already exists")
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidEmail):
		h.respondError(w, http.StatusBadRequest, capitalizeFirstLetter(err.Error()))
	default:
		h.logger.Error(fallback, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	var req CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.companyService.CreateCompany(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create company")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Company successfully created.",
		"data":    company,
	})
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	// already parsed and authorised by the middleware
	companyID, _ := PathParam(r.Context(), "companyID")

	company, err := h.companyService.GetCompany(r.Context(), companyID, userID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to retrieve company")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Company retrieved successfully.",
		"data":    company,
	})
}

func (h *CompanyHandler) GetAllCompanies(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}

	companies, err := h.companyService.GetAllCompanies(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to retrieve companies list")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "List of companies retrieved successfully.",
		"data":    companies,
	})
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	companyID, _ := PathParam(r.Context(), "companyID")

	var req CompanyChanges
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil && req.Document == nil && req.Email == nil {
		h.respondError(w, http.StatusBadRequest, "At least one field (name, document or email) must be provided for update")
		return
	}

	company, err := h.companyService.UpdateCompany(r.Context(), companyID, userID, req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update company")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Company updated successfully.",
		"data":    company,
	})
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	companyID, _ := PathParam(r.Context(), "companyID")

	if err := h.companyService.DeleteCompany(r.Context(), companyID, userID); err != nil {
		h.handleServiceError(w, err, "Failed to delete company")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Company deleted successfully.",
	})
}
