package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/placardhq/placard/internal/api/middleware"
	"github.com/placardhq/placard/internal/domain"
	"github.com/placardhq/placard/internal/service"
	"github.com/shopspring/decimal"
)

type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

type createBillingPeriodRequest struct {
	ClientName    string            `json:"client_name"`
	Kind          domain.PeriodKind `json:"kind"`
	StartsAt      time.Time         `json:"starts_at"`
	EndsAt        time.Time         `json:"ends_at"`
	TotalValue    decimal.Decimal   `json:"total_value"`
	Description   string            `json:"description"`
	PaymentMethod string            `json:"payment_method"`
	AssetIDs      []uuid.UUID       `json:"asset_ids"`
}

func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	var req createBillingPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &domain.BillingPeriod{
		TenantID:      tenant.ID,
		ClientName:    req.ClientName,
		Kind:          req.Kind,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		TotalValue:    req.TotalValue,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		AssetIDs:      req.AssetIDs,
	}
	if err := h.svc.Create(r.Context(), p); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	periods, err := h.svc.List(r.Context(), tenant.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (h *BillingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid billing period id")
		return
	}

	p, err := h.svc.GetByID(r.Context(), id, tenant.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Complete is the business action ending a period; the reconciler treats
// it as an already-applied fact on its next scan.
func (h *BillingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid billing period id")
		return
	}

	if err := h.svc.Complete(r.Context(), id, tenant.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	p, err := h.svc.GetByID(r.Context(), id, tenant.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
