// demo is a minimal host application showing both framework hooks: a
// gorilla/mux router with opt-in page tracking, and identify calls from
// handler code.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"webtrack"

	"github.com/gorilla/mux"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	addr := flag.String("addr", ":8080", "listen address")
	endpoint := flag.String("endpoint", webtrack.DefaultEndpoint, "collect endpoint URL")
	apiKey := flag.String("api-key", "demo-dev-key", "tracking API key")
	flag.Parse()

	tracker, err := webtrack.New(webtrack.Config{
		APIKey:   *apiKey,
		Endpoint: *endpoint,
		Debug:    true,
	})
	if err != nil {
		logger.Error("Failed to build tracker", slog.Any("error", err))
		os.Exit(1)
	}

	r := mux.NewRouter()
	r.Use(tracker.SessionMiddleware())

	r.HandleFunc("/", tracker.TrackPage("home", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "welcome")
	}))
	r.HandleFunc("/pricing", tracker.TrackPage("pricing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "pricing")
	}))

	// Untracked route: no TrackPage decoration, so only the session
	// cookies are managed here.
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		tracker.IdentifyRequest(r, webtrack.Identity{
			Email: email,
			Extra: map[string]any{"plan": "trial"},
		})
		fmt.Fprintln(w, "signed up")
	}).Methods(http.MethodPost)

	logger.Info("demo app listening", slog.String("address", *addr))
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Error("Server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
