package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/ministore/ministore/internal/config"
	"github.com/ministore/ministore/internal/gelf"
	"github.com/ministore/ministore/internal/handler"
	"github.com/ministore/ministore/internal/repository"
	"github.com/ministore/ministore/internal/router"
	"github.com/ministore/ministore/internal/service"
	"github.com/ministore/ministore/internal/store"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Open the options store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	log.Printf("Store ready at %s", cfg.DBPath)

	// Repositories
	userRepo := repository.NewUserRepo(st)
	checkoutRepo := repository.NewCheckoutRepo(st)
	shippingRepo := repository.NewShippingRepo(st)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	checkoutSvc := service.NewCheckoutService(checkoutRepo)
	shippingSvc := service.NewShippingService(shippingRepo)

	// Seed admin account
	if err := authSvc.SeedAdmin(cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Printf("Warning: failed to seed admin: %v", err)
	}

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	builderH := handler.NewBuilderHandler(checkoutSvc, cfg.JWTSecret)
	shippingH := handler.NewShippingHandler(shippingSvc, cfg.JWTSecret)

	// Router
	r := router.New(cfg.JWTSecret, authH, builderH, shippingH)

	log.Printf("Mini Store server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
