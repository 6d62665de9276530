package product

import (
	"errors"
	"net/http"

	"price-tracker/internal/handler/http/pathutil"
	"price-tracker/internal/handler/http/respond"
	productUC "price-tracker/internal/usecase/product"
)

type DeleteHandler struct{ Svc *productUC.Service }

// ServeHTTP removes a product and its full price history.
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/products/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, productUC.ErrProductNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
