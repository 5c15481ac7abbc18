package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agricure-auth-service/internal/config"
	"agricure-auth-service/internal/server"
)

func main() {
	cfg := config.Load()

	res := server.New(cfg)

	go func() {
		log.Printf("AgriCure auth HTTP server listening on %s", cfg.HTTPAddr)
		if err := res.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := res.HTTP.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	res.Close()
	log.Println("graceful shutdown complete")
}
