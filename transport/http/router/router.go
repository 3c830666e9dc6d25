package router

import (
	"salonbook/internal/handlers/booking"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

type DomainHandlers struct {
	Booking booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}

// SetupRoutes mounts every domain under the versioned prefix. Route patterns
// registered here are the keys used in permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiVersion, func(versioned chi.Router) {
		r.DomainHandlers.Booking.Router(versioned)
	})
}
