package product

import (
	"encoding/json"
	"errors"
	"net/http"

	"price-tracker/internal/handler/http/respond"
	productUC "price-tracker/internal/usecase/product"

	"github.com/shopspring/decimal"
)

type CreateHandler struct{ Svc *productUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		URL         string `json:"url"`
		TargetPrice string `json:"target_price"`
		CSSSelector string `json:"css_selector"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || req.URL == "" || req.TargetPrice == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("name, url and target_price required"))
		return
	}

	target, err := decimal.NewFromString(req.TargetPrice)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("target_price must be a decimal number"))
		return
	}

	created, err := h.Svc.Create(r.Context(), productUC.CreateInput{
		Name:        req.Name,
		URL:         req.URL,
		TargetPrice: target,
		CSSSelector: req.CSSSelector,
	})
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(created))
}
