// devsink is a local stand-in for the collect endpoint. It accepts tracking
// envelopes, logs them and answers 200, which is enough to develop against
// the SDK without a real backend. Nothing is stored.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type envelope struct {
	APIKey string          `json:"apiKey"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

var logger *slog.Logger

func main() {
	addr := flag.String("addr", ":4000", "listen address")
	apiKey := flag.String("api-key", "", "when set, reject envelopes carrying a different key")
	flag.Parse()

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tracking/collect", collect(*apiKey))

	server := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("devsink listening", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-stopChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}

	logger.Info("Shutdown complete.")
}

func collect(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestLogger := logger.With(slog.String("path", r.URL.Path), slog.String("method", r.Method))

		var env envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			requestLogger.Error("Failed to decode envelope from request body", slog.Any("error", err))
			var syntaxError *json.SyntaxError
			var unmarshalTypeError *json.UnmarshalTypeError
			if errors.As(err, &syntaxError) || errors.As(err, &unmarshalTypeError) {
				http.Error(w, "Bad Request: Invalid JSON format", http.StatusBadRequest)
			} else {
				http.Error(w, "Internal Server Error: Could not read request body", http.StatusInternalServerError)
			}
			return
		}
		defer r.Body.Close()

		if apiKey != "" && env.APIKey != apiKey {
			requestLogger.Warn("Envelope with unexpected API key", slog.String("apiKey", env.APIKey))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		requestLogger.Info("Event received",
			slog.String("type", env.Type),
			slog.String("data", string(env.Data)))

		w.WriteHeader(http.StatusOK)
	}
}
