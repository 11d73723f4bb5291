package router

import (
	"net/http"

	"campusbook/internal/handlers/audit"
	"campusbook/internal/handlers/booking"
	"campusbook/internal/handlers/resource"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking  booking.Handler
	Resource resource.Handler
	Audit    audit.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes mounts every domain under /v1. middlewares wrap the whole group.
func (r *Router) SetupRoutes(router chi.Router, middlewares ...func(next http.Handler) http.Handler) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(middlewares...)

		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Resource.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
