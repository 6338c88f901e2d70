// seed drives the SDK with synthetic visitor sessions against a collect
// endpoint, useful for smoke-testing a backend or the devsink.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"webtrack"
)

// --- Data Generation Helpers ---

var pages = []string{"/", "/about", "/contact", "/products/1", "/products/2", "/blog/post-1"}
var eventNames = []string{"cta_click", "video_play", "newsletter_signup", "add_to_cart"}
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 13; SM-G991U) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
}
var referrers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://duckduckgo.com/",
	"https://t.co/",
	"https://www.facebook.com/",
	"", // Direct visit
	"",
	"https://news.ycombinator.com/",
}
var utmSources = []string{"", "", "newsletter", "twitter", "google"}

func randomElement(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return slice[rand.Intn(len(slice))]
}

func runSession(ctx context.Context, tracker *webtrack.Tracker, logger *slog.Logger) (delivered, failed int) {
	ua := randomElement(userAgents)
	ip := fmt.Sprintf("203.0.113.%d", rand.Intn(255))
	visitorID := webtrack.DeriveVisitorID(ua, ip)

	count := func(ok bool) {
		if ok {
			delivered++
		} else {
			failed++
		}
	}

	info := tracker.StartSession(ctx, webtrack.SessionStart{
		VisitorID: visitorID,
		UserAgent: ua,
		IPAddress: ip,
		Referrer:  randomElement(referrers),
		EntryPage: "https://example.com" + randomElement(pages),
		UTM:       webtrack.UTMParams{Source: randomElement(utmSources)},
	})
	logger.Debug("session started", slog.String("visitorId", info.VisitorID), slog.String("sessionId", info.SessionID))

	views := 1 + rand.Intn(4)
	lastPage := "/"
	for i := 0; i < views; i++ {
		lastPage = randomElement(pages)
		count(tracker.TrackPageView(ctx, webtrack.PageView{
			VisitorID: info.VisitorID,
			SessionID: info.SessionID,
			URL:       "https://example.com" + lastPage,
			LoadTime:  int64(50 + rand.Intn(900)),
		}))
	}

	if rand.Intn(2) == 0 {
		count(tracker.TrackEvent(ctx, webtrack.CustomEvent{
			VisitorID: info.VisitorID,
			SessionID: info.SessionID,
			Name:      randomElement(eventNames),
			Category:  "engagement",
		}))
	}

	if rand.Intn(4) == 0 {
		count(tracker.TrackFormSubmission(ctx, webtrack.FormSubmission{
			VisitorID:  info.VisitorID,
			SessionID:  info.SessionID,
			FormID:     "signup_form",
			FormAction: "/signup",
			Fields: map[string]string{
				"email":    fmt.Sprintf("user%d@example.com", rand.Intn(1000)),
				"password": "hunter2",
			},
		}))
		count(tracker.Identify(ctx, webtrack.Identity{
			VisitorID: info.VisitorID,
			SessionID: info.SessionID,
			Email:     fmt.Sprintf("user%d@example.com", rand.Intn(1000)),
			Name:      "Seed User",
			Extra:     map[string]any{"plan": "trial"},
		}))
	}

	count(tracker.EndSession(ctx, info.SessionID, "https://example.com"+lastPage))
	return delivered, failed
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	endpoint := flag.String("url", webtrack.DefaultEndpoint, "Collect endpoint URL")
	apiKey := flag.String("api-key", "seed-dev-key", "Tracking API key")
	numSessions := flag.Int("n", 25, "Number of sessions to simulate")
	delayMs := flag.Int("delay", 100, "Delay between sessions in milliseconds")
	debug := flag.Bool("debug", false, "Log every outgoing payload")
	flag.Parse()

	tracker, err := webtrack.New(webtrack.Config{
		APIKey:   *apiKey,
		Endpoint: *endpoint,
		Debug:    *debug,
	})
	if err != nil {
		logger.Error("Failed to build tracker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Starting seed run",
		slog.String("targetUrl", *endpoint),
		slog.Int("sessions", *numSessions),
		slog.Int("delayMs", *delayMs))

	ctx := context.Background()
	delay := time.Duration(*delayMs) * time.Millisecond
	deliveredCount := 0
	failedCount := 0

	for i := 0; i < *numSessions; i++ {
		delivered, failed := runSession(ctx, tracker, logger)
		deliveredCount += delivered
		failedCount += failed

		if i < *numSessions-1 {
			time.Sleep(delay)
		}
	}

	logger.Info("Seed run complete",
		slog.Int("deliveredCount", deliveredCount),
		slog.Int("failedCount", failedCount))
}
