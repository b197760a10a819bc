package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/placardhq/placard/internal/service"
	"github.com/placardhq/placard/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var validationErrs = []error{
	service.ErrTenantNameMissing,
	service.ErrTenantTaxIDMissing,
	service.ErrUserNameMissing,
	service.ErrUserEmailMissing,
	service.ErrAssetCodeMissing,
	service.ErrContractClientMissing,
	service.ErrContractDatesInvalid,
	service.ErrBillingClientMissing,
	service.ErrBillingKindInvalid,
	service.ErrBillingDatesInvalid,
}

// writeServiceError maps store and validation errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrContractAlreadyCancelled),
		errors.Is(err, service.ErrBillingAlreadyTerminal):
		writeError(w, http.StatusConflict, err.Error())
	default:
		for _, v := range validationErrs {
			if errors.Is(err, v) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
