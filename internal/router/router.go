package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/ministore/ministore/internal/auth"
	"github.com/ministore/ministore/internal/handler"
	mw "github.com/ministore/ministore/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	builderH *handler.BuilderHandler,
	shippingH *handler.ShippingHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			// Auth
			r.Get("/auth/me", authH.Me)

			// Checkout form builder
			r.Get("/builder", builderH.Bootstrap)
			r.Post("/builder/fields", builderH.SaveFields)

			// Shipping settings
			r.Get("/shipping", shippingH.Settings)
			r.Post("/shipping", shippingH.Save)
		})
	})

	return r
}
