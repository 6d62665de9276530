// Package product provides HTTP handlers for product management and
// on-demand price checks.
package product

import (
	"net/http"

	"price-tracker/internal/handler/http/auth"
	monitorUC "price-tracker/internal/usecase/monitor"
	productUC "price-tracker/internal/usecase/product"
)

// RateLimiter is the subset of the rate limiting middleware the product
// routes need. The on-demand monitor endpoint triggers a live page fetch,
// so it gets its own limiter.
type RateLimiter interface {
	Limit(next http.Handler) http.Handler
}

// Register registers all product-related HTTP handlers with the given mux.
// All routes require authentication via the auth middleware. The monitor
// endpoint is additionally rate limited per client IP.
func Register(mux *http.ServeMux, svc *productUC.Service, mon *monitorUC.Service, monitorRateLimiter RateLimiter) {
	mux.Handle("GET    /products", auth.Authz(ListHandler{svc}))
	mux.Handle("POST   /products", auth.Authz(CreateHandler{svc}))
	mux.Handle("GET    /products/{id}", auth.Authz(GetHandler{svc}))
	mux.Handle("PUT    /products/{id}", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /products/{id}", auth.Authz(DeleteHandler{svc}))
	mux.Handle("GET    /products/{id}/history", auth.Authz(HistoryHandler{svc}))
	mux.Handle("POST   /products/{id}/monitor", auth.Authz(monitorRateLimiter.Limit(MonitorHandler{mon})))
}
