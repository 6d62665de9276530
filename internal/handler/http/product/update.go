package product

import (
	"encoding/json"
	"errors"
	"net/http"

	"price-tracker/internal/handler/http/pathutil"
	"price-tracker/internal/handler/http/respond"
	productUC "price-tracker/internal/usecase/product"

	"github.com/shopspring/decimal"
)

type UpdateHandler struct{ Svc *productUC.Service }

// ServeHTTP updates an existing product. Omitted fields keep their current
// value; css_selector set to the empty string clears the custom selector.
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/products/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name        string  `json:"name"`
		URL         string  `json:"url"`
		TargetPrice *string `json:"target_price"`
		CSSSelector *string `json:"css_selector"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	in := productUC.UpdateInput{
		ID:          id,
		Name:        req.Name,
		URL:         req.URL,
		CSSSelector: req.CSSSelector,
	}
	if req.TargetPrice != nil {
		target, err := decimal.NewFromString(*req.TargetPrice)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("target_price must be a decimal number"))
			return
		}
		in.TargetPrice = &target
	}

	updated, err := h.Svc.Update(r.Context(), in)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, productUC.ErrProductNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(updated))
}
