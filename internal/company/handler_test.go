package company

import (
	"bytes"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"net/http"
	"net/http/httptest"
	"testing"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{"status": "error", "message": message, "code": status}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func newTestMux(repo *MockRepository) *http.ServeMux {
	h := NewCompanyHandler(NewCompanyService(repo), respondJSON, respondError, zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /companies", h.CreateCompany)
	mux.HandleFunc("GET /companies", h.GetAllCompanies)
	mux.Handle("GET /companies/{companyID}", h.ValidateCompanyPathParamsMiddleware(http.HandlerFunc(h.GetCompany), "companyID"))
	mux.Handle("PUT /companies/{companyID}", h.ValidateCompanyPathParamsMiddleware(http.HandlerFunc(h.UpdateCompany), "companyID"))
	mux.Handle("DELETE /companies/{companyID}", h.ValidateCompanyPathParamsMiddleware(http.HandlerFunc(h.DeleteCompany), "companyID"))
	return mux
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestCompanyHandler_Create(t *testing.T) {
	repo := NewMockRepository()
	mux := newTestMux(repo)

	body, _ := json.Marshal(CompanyInput{Name: "Acme", Email: "ops@acme.example"})
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/companies", bytes.NewReader(body)), "owner-1"))

	require.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "success", response["status"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Acme", data["name"])
	assert.NotContains(t, data, "OwnerID")
	assert.Len(t, repo.Companies, 1)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPost, "/companies", bytes.NewReader(body)), "owner-1"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompanyHandler_CreateUnauthenticated(t *testing.T) {
	mux := newTestMux(NewMockRepository())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/companies", bytes.NewReader([]byte(`{"name":"Acme"}`))))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanyHandler_PathParams(t *testing.T) {
	acme := Company{ID: uuid.New(), OwnerID: "owner-1", Name: "Acme"}
	mux := newTestMux(NewMockRepository(acme))

	tests := []struct {
		name       string
		path       string
		user       string
		wantStatus int
	}{
		{"owner", "/companies/" + acme.ID.String(), "owner-1", http.StatusOK},
		{"other owner", "/companies/" + acme.ID.String(), "owner-2", http.StatusForbidden},
		{"unknown company", "/companies/" + uuid.NewString(), "owner-1", http.StatusNotFound},
		{"malformed id", "/companies/not-a-uuid", "owner-1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.user))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCompanyHandler_UpdateAndDelete(t *testing.T) {
	acme := Company{ID: uuid.New(), OwnerID: "owner-1", Name: "Acme"}
	repo := NewMockRepository(acme)
	mux := newTestMux(repo)
	path := "/companies/" + acme.ID.String()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPut, path, bytes.NewReader([]byte(`{}`))), "owner-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodPut, path, bytes.NewReader([]byte(`{"name":"Acme Ltda"}`))), "owner-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme Ltda", repo.Companies[acme.ID].Name)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodDelete, path, nil), "owner-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.Companies)
}
