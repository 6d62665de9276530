package product

import (
	"errors"
	"net/http"

	"price-tracker/internal/handler/http/pathutil"
	"price-tracker/internal/handler/http/respond"
	monitorUC "price-tracker/internal/usecase/monitor"
)

type MonitorHandler struct{ Svc *monitorUC.Service }

// ServeHTTP triggers an on-demand price check for one product: the page is
// fetched live, the observation is appended to the history, and the alert
// condition is evaluated. Returns the new observation on success.
//
// A fetch or extraction failure maps to 422: the request was valid but no
// price could be obtained, and no history row was written.
func (h MonitorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/products/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	obs, err := h.Svc.MonitorProduct(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, monitorUC.ErrProductNotFound):
			code = http.StatusNotFound
		case errors.Is(err, monitorUC.ErrPriceNotFound):
			code = http.StatusUnprocessableEntity
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toObservationDTO(obs))
}
