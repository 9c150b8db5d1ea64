// Command desktop is the backend of the packaged desktop shell. It prefers the
// embedded database and listens on the loopback interface only.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"retailpos/internal/adapter"
	"retailpos/internal/config"
	"retailpos/internal/server"
)

func main() {
	if os.Getenv(adapter.RuntimeEnvVar) == "" {
		_ = os.Setenv(adapter.RuntimeEnvVar, string(adapter.EnvDesktop))
	}

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

	addr := "127.0.0.1:" + cfg.Port
	log.Printf("Desktop backend listening on %s (data: %s)", addr, srv.Adapter.Backend(ctx))
	if err := srv.Router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
