package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/opticore/optirider/internal/config"
	"github.com/opticore/optirider/internal/distance"
	"github.com/opticore/optirider/internal/httpapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dist := distance.NewOSRMClient(cfg.OSRM.BaseURL, cfg.OSRM.Timeout)
	handler := httpapi.NewHandler(cfg, dist, nil)

	router := mux.NewRouter()
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	router.HandleFunc("/startday/", handler.StartDay).Methods(http.MethodPost)
	router.HandleFunc("/addorder/", handler.AddPickups).Methods(http.MethodPost)
	router.HandleFunc("/delorder/", handler.DeletePickup).Methods(http.MethodPost)

	wrapped := httpapi.Recoverer(httpapi.RequestLogger(router))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("routing service listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server gracefully stopped")
}
