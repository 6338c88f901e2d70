// Package webtrack is a server-side visitor tracking SDK. It shapes page
// views, custom events, form submissions and identity traits into JSON
// envelopes and delivers them to a collect endpoint with fire-and-forget
// semantics: delivery reports a bool, never an error.
//
// Basic usage:
//
//	tracker, err := webtrack.New(webtrack.Config{APIKey: "key"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info := tracker.StartSession(ctx, webtrack.SessionStart{
//	    VisitorID: webtrack.DeriveVisitorID(ua, ip),
//	})
//	tracker.TrackPageView(ctx, webtrack.PageView{
//	    VisitorID: info.VisitorID,
//	    SessionID: info.SessionID,
//	    URL:       "https://example.com/products",
//	})
package webtrack

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mileusna/useragent"
)

// Tracker is a stateless client for the collect endpoint. Configuration is
// fixed at construction; instances are safe for concurrent use.
type Tracker struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// New validates cfg and returns a ready Tracker. The API key is required;
// every other field falls back to its default.
func New(cfg Config) (*Tracker, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("webtrack: missing API key")
	}
	cfg.applyDefaults()

	return &Tracker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    slog.Default().With(slog.String("component", "webtrack")),
	}, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// BuildSessionStart shapes a session.start envelope. When p.SessionID is
// empty a fresh one is generated; the resolved pair is returned so the
// caller can persist it, usually in cookies. The device sub-object carries
// the raw user agent plus its parsed browser and OS fields.
func BuildSessionStart(p SessionStart) (Envelope, SessionInfo) {
	if p.SessionID == "" {
		p.SessionID = NewSessionID()
	}

	ua := useragent.Parse(p.UserAgent)
	data := SessionStartData{
		VisitorID: p.VisitorID,
		SessionID: p.SessionID,
		Timestamp: nowMillis(),
		Referrer:  p.Referrer,
		EntryPage: p.EntryPage,
		Device: DeviceInfo{
			UserAgent:      p.UserAgent,
			Browser:        ua.Name,
			BrowserVersion: ua.Version,
			OS:             ua.OS,
			OSVersion:      ua.OSVersion,
			Mobile:         ua.Mobile,
			Tablet:         ua.Tablet,
			Bot:            ua.Bot,
		},
		UTM: UTMData{
			Source:   p.UTM.Source,
			Medium:   p.UTM.Medium,
			Campaign: p.UTM.Campaign,
			Term:     p.UTM.Term,
			Content:  p.UTM.Content,
		},
	}

	return Envelope{Type: EventSessionStart, Data: data},
		SessionInfo{VisitorID: p.VisitorID, SessionID: p.SessionID}
}

// BuildPageView shapes a page.view envelope. The path component is
// extracted from the URL, defaulting to "/" when the URL has none; the
// full URL is preserved alongside it.
func BuildPageView(p PageView) Envelope {
	path := "/"
	if u, err := url.Parse(p.URL); err == nil && u.Path != "" {
		path = u.Path
	}

	return Envelope{Type: EventPageView, Data: PageViewData{
		SessionID: p.SessionID,
		VisitorID: p.VisitorID,
		URL:       p.URL,
		Path:      path,
		Title:     p.Title,
		Referrer:  p.Referrer,
		Timestamp: nowMillis(),
		LoadTime:  p.LoadTime,
	}}
}

// BuildEvent shapes an events.batch envelope carrying a single event. The
// endpoint accepts multi-event batches; the SDK never accumulates, so the
// list always holds exactly one item.
func BuildEvent(p CustomEvent) Envelope {
	typ := p.Type
	if typ == "" {
		typ = "custom"
	}
	meta := p.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	return Envelope{Type: EventBatch, Data: BatchData{
		SessionID: p.SessionID,
		Events: []BatchItem{{
			Type:      typ,
			Name:      p.Name,
			Category:  p.Category,
			Value:     p.Value,
			Metadata:  meta,
			Timestamp: nowMillis(),
		}},
	}}
}

// BuildFormSubmission shapes a form.submit envelope with sensitive field
// values masked.
func BuildFormSubmission(p FormSubmission) Envelope {
	return Envelope{Type: EventFormSubmit, Data: FormSubmitData{
		SessionID:  p.SessionID,
		FormID:     p.FormID,
		FormAction: p.FormAction,
		Fields:     MaskFields(p.Fields),
		Timestamp:  nowMillis(),
	}}
}

// BuildIdentify shapes a user.identify envelope. Named traits merge with
// p.Extra (Extra wins on key conflicts) and empty or nil values never
// reach the wire.
func BuildIdentify(p Identity) Envelope {
	traits := make(map[string]any, len(p.Extra)+5)
	named := map[string]string{
		"email":   p.Email,
		"userId":  p.UserID,
		"name":    p.Name,
		"phone":   p.Phone,
		"company": p.Company,
	}
	for k, v := range named {
		if v != "" {
			traits[k] = v
		}
	}
	for k, v := range p.Extra {
		traits[k] = v
	}
	for k, v := range traits {
		if v == nil || v == "" {
			delete(traits, k)
		}
	}

	return Envelope{Type: EventIdentify, Data: IdentifyData{
		SessionID: p.SessionID,
		VisitorID: p.VisitorID,
		UserID:    p.UserID,
		Traits:    traits,
		Timestamp: nowMillis(),
	}}
}

// BuildSessionEnd shapes a page.leave envelope. The exit page travels as
// both url and path, verbatim.
func BuildSessionEnd(sessionID, exitPage string) Envelope {
	return Envelope{Type: EventSessionEnd, Data: SessionEndData{
		SessionID: sessionID,
		URL:       exitPage,
		Path:      exitPage,
		Timestamp: nowMillis(),
	}}
}

// StartSession opens a session and delivers the session.start event. The
// resolved pair comes back even when delivery fails; losing one event is
// no reason to lose the visitor's identity.
func (t *Tracker) StartSession(ctx context.Context, p SessionStart) SessionInfo {
	env, info := BuildSessionStart(p)
	t.Send(ctx, env)
	return info
}

// TrackPageView delivers a page.view event.
func (t *Tracker) TrackPageView(ctx context.Context, p PageView) bool {
	return t.Send(ctx, BuildPageView(p))
}

// TrackEvent delivers a custom event.
func (t *Tracker) TrackEvent(ctx context.Context, p CustomEvent) bool {
	return t.Send(ctx, BuildEvent(p))
}

// TrackFormSubmission delivers a form.submit event with sensitive fields
// masked.
func (t *Tracker) TrackFormSubmission(ctx context.Context, p FormSubmission) bool {
	return t.Send(ctx, BuildFormSubmission(p))
}

// Identify delivers identity traits for a visitor.
func (t *Tracker) Identify(ctx context.Context, p Identity) bool {
	return t.Send(ctx, BuildIdentify(p))
}

// EndSession delivers a page.leave event for the session.
func (t *Tracker) EndSession(ctx context.Context, sessionID, exitPage string) bool {
	return t.Send(ctx, BuildSessionEnd(sessionID, exitPage))
}
