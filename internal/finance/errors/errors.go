package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

func NewIndexedValidationError(index int, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("Validation error at transaction %d: %s", index, msg)}
}

var (
	ErrInvalidChartAccount       = NewValidationError("Invalid chart account")
	ErrInvalidBankAccount        = NewValidationError("Invalid bank account")
	ErrInvalidDestinationAccount = NewValidationError("Invalid destination bank account")
	ErrInvalidContact            = NewValidationError("Invalid contact")
	ErrInvalidPaymentMethod      = NewValidationError("Invalid payment method")
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrRecurringNotFound    = errors.New("recurring transaction not found")
	ErrBankAccountNotFound  = errors.New("bank account not found")
	ErrChartAccountNotFound = errors.New("chart account not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrChartAccountCodeUsed = errors.New("chart account code already exists")
	ErrBankAccountInUse     = errors.New("bank account is referenced by transactions")
	ErrTransactionConflict  = errors.New("transaction was modified concurrently, try again")
)

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := ve.Messages()
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// Messages returns the individual messages in the order they were added.
func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

// OrNil returns nil when nothing was collected so callers can return it directly.
func (ve *ValidationErrors) OrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}

// IsInvalid reports whether err is a single or aggregated validation failure.
func IsInvalid(err error) bool {
	return IsValidationError(err) || IsValidationErrors(err)
}
