package product

import (
	"time"

	"price-tracker/internal/domain/entity"
)

// DTO is the JSON representation of a tracked product. Prices are rendered
// as fixed two-decimal strings so clients never see float rounding noise.
type DTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	TargetPrice string    `json:"target_price"`
	CSSSelector string    `json:"css_selector,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ObservationDTO is the JSON representation of one price history row.
type ObservationDTO struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	Price      string    `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

func toDTO(e *entity.Product) DTO {
	return DTO{
		ID:          e.ID,
		Name:        e.Name,
		URL:         e.URL,
		TargetPrice: e.TargetPrice.StringFixed(2),
		CSSSelector: e.CSSSelector,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toObservationDTO(o *entity.PriceObservation) ObservationDTO {
	return ObservationDTO{
		ID:         o.ID,
		ProductID:  o.ProductID,
		Price:      o.Price.StringFixed(2),
		ObservedAt: o.ObservedAt,
	}
}
