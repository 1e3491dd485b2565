package interfaces

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes payload as the response body. Handlers receive it as a function field
// so tests and other packages can share one envelope.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RespondError writes the error envelope. errors, when given, lists the individual problems.
func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	RespondJSON(w, status, payload)
}
