package handlers

import (
	"net/http"
	"time"

	"github.com/placardhq/placard/internal/service"
)

type ReconcileHandler struct {
	coordinator *service.Coordinator
}

func NewReconcileHandler(coordinator *service.Coordinator) *ReconcileHandler {
	return &ReconcileHandler{coordinator: coordinator}
}

type reconcileResponse struct {
	Billing service.BillingReconcileResult `json:"billing"`
	Assets  service.AssetReconcileResult   `json:"assets"`
	Errors  []string                       `json:"errors,omitempty"`
}

// Run triggers a reconciliation pass outside the cron schedule. The
// coordinator isolates sub-job failures, so this always responds with a
// summary; sub-job errors are reported in the body.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	summary := h.coordinator.RunDailyReconciliation(r.Context(), time.Now().UTC())

	resp := reconcileResponse{
		Billing: summary.Billing,
		Assets:  summary.Assets,
	}
	if summary.BillingErr != nil {
		resp.Errors = append(resp.Errors, summary.BillingErr.Error())
	}
	if summary.AssetsErr != nil {
		resp.Errors = append(resp.Errors, summary.AssetsErr.Error())
	}

	status := http.StatusOK
	if summary.Failed() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}
