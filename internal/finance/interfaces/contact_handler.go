package interfaces

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"go.uber.org/zap"
	"net/http"
)

type ContactServiceInterface interface {
	CreateContact(ctx context.Context, contact *domain.Contact) error
	GetContacts(ctx context.Context, companyID uuid.UUID, kind string) ([]domain.Contact, error)
	GetContact(ctx context.Context, companyID, contactID uuid.UUID) (*domain.Contact, error)
	DeleteContact(ctx context.Context, companyID, contactID uuid.UUID) error
}

type ContactHandler struct {
	service      ContactServiceInterface
	respondJSON  respondJSONFunc
	respondError respondErrorFunc
	logger       *zap.Logger
}

func NewContactHandler(
	service ContactServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *zap.Logger,
) *ContactHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &ContactHandler{service: service, respondJSON: respondJSON, respondError: respondError, logger: logger}
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")

	var contact domain.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	contact.CompanyID = companyID

	if err := h.service.CreateContact(r.Context(), &contact); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to create contact")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Contact successfully created.",
		"data":    contact,
	})
}

// GetContacts lists contacts, optionally narrowed with ?kind=customer|supplier.
func (h *ContactHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	kind := r.URL.Query().Get("kind")
	if kind != "" && !domain.ContactKind(kind).IsValid() {
		h.respondError(w, http.StatusBadRequest, "Invalid contact kind")
		return
	}

	contacts, err := h.service.GetContacts(r.Context(), companyID, kind)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve contacts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Contacts retrieved successfully.",
		"data":    contacts,
	})
}

func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	contactID, _ := pathUUID(r, "contactID")

	contact, err := h.service.GetContact(r.Context(), companyID, contactID)
	if err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to retrieve contact")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Contact retrieved successfully.",
		"data":    contact,
	})
}

func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	companyID, _ := pathUUID(r, "companyID")
	contactID, _ := pathUUID(r, "contactID")

	if err := h.service.DeleteContact(r.Context(), companyID, contactID); err != nil {
		writeServiceError(w, h.respondError, h.logger, err, "Failed to delete contact")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Contact deleted successfully.",
	})
}
