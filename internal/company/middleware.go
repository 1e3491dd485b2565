package company

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/auth"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

type pathParamKey string

// WithPathParam stores a parsed path parameter in ctx.
func WithPathParam(ctx context.Context, name string, id uuid.UUID) context.Context {
	return context.WithValue(ctx, pathParamKey(name), id)
}

// PathParam returns a path parameter parsed by ValidateCompanyPathParamsMiddleware.
func PathParam(ctx context.Context, name string) (uuid.UUID, bool) {
	id, ok := ctx.Value(pathParamKey(name)).(uuid.UUID)
	return id, ok
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

func notFoundMessage(param string) string {
	name := strings.TrimSuffix(param, "ID")
	switch name {
	case "company":
		return "Company not found"
	case "account":
		return "Bank account not found"
	case "chartAccount":
		return "Chart account not found"
	case "recurring":
		return "Recurring transaction not found"
	}
	return capitalizeFirstLetter(name) + " not found"
}

// ValidateCompanyPathParamsMiddleware parses the given path parameters as UUIDs and, when
// companyID is among them, rejects requests from users who do not own that company.
func (h *CompanyHandler) ValidateCompanyPathParamsMiddleware(next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, param := range params {
			paramValue := r.PathValue(param)
			if paramValue == "" {
				h.respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
				return
			}

			parsedUUID, err := uuid.Parse(paramValue)
			if err != nil {
				h.logger.Debug("Invalid path parameter", zap.String("param", param), zap.String("value", paramValue))
				h.respondError(w, http.StatusNotFound, notFoundMessage(param))
				return
			}

			if param == "companyID" && !h.authorizeCompany(w, r, parsedUUID) {
				return
			}
			ctx = WithPathParam(ctx, param, parsedUUID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *CompanyHandler) authorizeCompany(w http.ResponseWriter, r *http.Request, companyID uuid.UUID) bool {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}

	owns, err := h.companyService.CheckCompanyOwnership(r.Context(), companyID, userID)
	if err != nil {
		if errors.Is(err, ErrCompanyNotFound) {
			h.respondError(w, http.StatusNotFound, "Company not found")
			return false
		}
		h.logger.Error("Failed to check company ownership", zap.Stringer("companyID", companyID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to verify company access")
		return false
	}
	if !owns {
		h.respondError(w, http.StatusForbidden, "Access to company denied")
		return false
	}
	return true
}
