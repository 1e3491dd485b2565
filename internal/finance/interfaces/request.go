package interfaces

import (
	"errors"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/company"
	financeErrors "github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type respondJSONFunc func(w http.ResponseWriter, status int, payload interface{})
type respondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

// pathUUID returns a path parameter already parsed by the company middleware, falling
// back to parsing it directly when the route was registered without it.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	if id, ok := company.PathParam(r.Context(), name); ok {
		return id, true
	}
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := recurrence.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDateRange reads start_date and end_date, defaulting to the current year so far.
func parseDateRange(r *http.Request) (time.Time, time.Time, string) {
	now := time.Now().UTC()
	startDate := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := now

	if v := r.URL.Query().Get("start_date"); v != "" {
		d, err := recurrence.ParseDate(v)
		if err != nil {
			return startDate, endDate, "Invalid start date format"
		}
		startDate = d
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		d, err := recurrence.ParseDate(v)
		if err != nil {
			return startDate, endDate, "Invalid end date format"
		}
		endDate = d
	}
	if endDate.Before(startDate) {
		return startDate, endDate, "End date must not be before start date"
	}
	return startDate, endDate, ""
}

func parsePositiveInt(value string, fallback int) (int, bool) {
	if value == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

var notFoundErrors = []error{
	financeErrors.ErrTransactionNotFound,
	financeErrors.ErrRecurringNotFound,
	financeErrors.ErrBankAccountNotFound,
	financeErrors.ErrChartAccountNotFound,
	financeErrors.ErrContactNotFound,
}

// writeServiceError maps service errors onto status codes; anything unknown is logged and
// reported as fallback with a 500.
func writeServiceError(w http.ResponseWriter, respondError respondErrorFunc, logger *zap.Logger, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
		return
	}
	if financeErrors.IsValidationError(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, notFound := range notFoundErrors {
		if errors.Is(err, notFound) {
			respondError(w, http.StatusNotFound, capitalizeFirstLetter(notFound.Error()))
			return
		}
	}
	if errors.Is(err, financeErrors.ErrChartAccountCodeUsed) || errors.Is(err, financeErrors.ErrBankAccountInUse) ||
		errors.Is(err, financeErrors.ErrTransactionConflict) {
		respondError(w, http.StatusConflict, capitalizeFirstLetter(err.Error()))
		return
	}

	logger.Error(fallback, zap.Error(err))
	respondError(w, http.StatusInternalServerError, fallback)
}
