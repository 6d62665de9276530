package product

import (
	"errors"
	"net/http"
	"strconv"

	"price-tracker/internal/handler/http/pathutil"
	"price-tracker/internal/handler/http/respond"
	productUC "price-tracker/internal/usecase/product"
)

type HistoryHandler struct{ Svc *productUC.Service }

// ServeHTTP returns the price history of a product, newest first.
// The optional "limit" query parameter caps the number of rows; without it
// the full history is returned.
func (h HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/products/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("limit must be a non-negative integer"))
			return
		}
	}

	history, err := h.Svc.History(r.Context(), id, limit)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, productUC.ErrProductNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	out := make([]ObservationDTO, 0, len(history))
	for _, o := range history {
		out = append(out, toObservationDTO(o))
	}
	respond.JSON(w, http.StatusOK, out)
}
