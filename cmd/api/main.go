package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"retailpos/internal/config"
	"retailpos/internal/server"
)

// @title           Retail POS API
// @version         1.0
// @description     Inventory, checkout, supplier and audit API for the retail point of sale.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}
	defer srv.Close()

	log.Printf("Server listening on :%s", cfg.Port)
	if err := srv.Router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
