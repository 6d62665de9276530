package product

import (
	"errors"
	"net/http"

	"price-tracker/internal/handler/http/pathutil"
	"price-tracker/internal/handler/http/respond"
	productUC "price-tracker/internal/usecase/product"
)

type GetHandler struct{ Svc *productUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/products/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	product, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, productUC.ErrProductNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(product))
}
