package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"chundiet-web/internal/bootstrap"
	"chundiet-web/internal/shared/config"
	"chundiet-web/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	app.Start(ctx)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting web server on %s (backend %s)", addr, cfg.BackendURL)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
