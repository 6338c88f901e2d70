package webtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

type wirePayload struct {
	APIKey string    `json:"apiKey"`
	Type   EventType `json:"type"`
	Data   any       `json:"data"`
}

// Send delivers one envelope to the collect endpoint. It reports true only
// for an exact 200 response; any other status and any transport failure
// come back as false. Tracking must never break the host application, so
// nothing here returns an error or panics. With Debug set, the outgoing
// payload and the raw response are logged.
func (t *Tracker) Send(ctx context.Context, e Envelope) bool {
	typ := string(e.Type)

	body, err := json.Marshal(wirePayload{APIKey: t.cfg.APIKey, Type: e.Type, Data: e.Data})
	if err != nil {
		t.log.Error("failed to marshal envelope", slog.String("type", typ), slog.Any("error", err))
		eventsFailed.WithLabelValues(typ).Inc()
		return false
	}

	if t.cfg.Debug {
		t.log.Debug("sending event", slog.String("type", typ), slog.String("payload", string(body)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		if t.cfg.Debug {
			t.log.Debug("failed to build request", slog.String("endpoint", t.cfg.Endpoint), slog.Any("error", err))
		}
		eventsFailed.WithLabelValues(typ).Inc()
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if t.cfg.Debug {
			t.log.Debug("delivery failed", slog.String("type", typ), slog.Any("error", err))
		}
		eventsFailed.WithLabelValues(typ).Inc()
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if t.cfg.Debug {
		t.log.Debug("collect response",
			slog.String("type", typ),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)))
	}

	if resp.StatusCode != http.StatusOK {
		eventsFailed.WithLabelValues(typ).Inc()
		return false
	}

	eventsSent.WithLabelValues(typ).Inc()
	return true
}
