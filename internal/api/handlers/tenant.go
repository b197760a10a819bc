package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/placardhq/placard/internal/api/middleware"
	"github.com/placardhq/placard/internal/domain"
	"github.com/placardhq/placard/internal/service"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type registerRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	User  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type registerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// Register creates a tenant and its first user. The raw API key appears in
// this response and nowhere else.
func (h *TenantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := h.svc.Register(r.Context(), req.Name, req.TaxID, req.User.Name, req.User.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:     reg.Tenant.ID.String(),
		Name:   reg.Tenant.Name,
		APIKey: reg.APIKey,
	})
}

func (h *TenantHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	apiKey, err := h.svc.RotateKey(r.Context(), tenant.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"api_key": apiKey})
}

type addUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *TenantHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u := &domain.User{TenantID: tenant.ID, Name: req.Name, Email: req.Email}
	if err := h.svc.AddUser(r.Context(), u); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *TenantHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	users, err := h.svc.ListUsers(r.Context(), tenant.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
