package webtrack

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestMiddlewareFirstVisit(t *testing.T) {
	tr, c := newCaptureTracker(t)

	var gotInfo SessionInfo
	var gotOK bool
	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInfo, gotOK = SessionFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/products?utm_source=google&utm_medium=cpc", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Referer", "https://www.google.com/")
	req.RemoteAddr = "198.51.100.7:54321"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, gotOK)
	require.Equal(t, DeriveVisitorID(chromeUA, "198.51.100.7"), gotInfo.VisitorID)
	require.NotEmpty(t, gotInfo.SessionID)

	events := c.all()
	require.Len(t, events, 2, "session.start then page.view")
	require.Equal(t, "session.start", events[0].Type)
	require.Equal(t, "page.view", events[1].Type)

	start := c.dataOf(t, 0)
	require.Equal(t, gotInfo.SessionID, start["sessionId"])
	require.Equal(t, "https://www.google.com/", start["referrer"])
	utm, ok := start["utm"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "google", utm["utmSource"])
	require.Equal(t, "cpc", utm["utmMedium"])

	view := c.dataOf(t, 1)
	require.Equal(t, "http://example.com/products?utm_source=google&utm_medium=cpc", view["url"])
	require.Equal(t, "/products", view["path"])

	resp := rec.Result()
	vid := findCookie(t, resp, "webtrack_vid")
	require.Equal(t, gotInfo.VisitorID, vid.Value)
	require.Equal(t, 365*24*60*60, vid.MaxAge)

	sid := findCookie(t, resp, "webtrack_sid")
	require.Equal(t, gotInfo.SessionID, sid.Value)
	require.Equal(t, 30*60, sid.MaxAge)
}

func TestMiddlewareReturningVisitor(t *testing.T) {
	tr, c := newCaptureTracker(t)

	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.AddCookie(&http.Cookie{Name: "webtrack_vid", Value: "known-visitor"})
	req.AddCookie(&http.Cookie{Name: "webtrack_sid", Value: "known-session"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	events := c.all()
	require.Len(t, events, 1, "no session.start for an existing session")
	require.Equal(t, "page.view", events[0].Type)

	view := c.dataOf(t, 0)
	require.Equal(t, "known-visitor", view["visitorId"])
	require.Equal(t, "known-session", view["sessionId"])
}

func TestMiddlewareCustomCookiePrefix(t *testing.T) {
	tr, c := newCaptureTracker(t)
	tr.cfg.CookiePrefix = "acme"

	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("User-Agent", chromeUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	findCookie(t, rec.Result(), "acme_vid")
	findCookie(t, rec.Result(), "acme_sid")
	require.NotEmpty(t, c.all())
}

func TestSessionMiddlewareOptInTracking(t *testing.T) {
	tr, c := newCaptureTracker(t)

	r := mux.NewRouter()
	r.Use(tr.SessionMiddleware())
	r.HandleFunc("/", tr.TrackPage("home", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Undecorated route: session cookies managed, no page view.
	req := httptest.NewRequest(http.MethodGet, "http://example.com/healthz", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.AddCookie(&http.Cookie{Name: "webtrack_vid", Value: "v1"})
	req.AddCookie(&http.Cookie{Name: "webtrack_sid", Value: "s1"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Empty(t, c.all())
	findCookie(t, rec.Result(), "webtrack_sid")

	// Decorated route reports a titled page view.
	req = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.AddCookie(&http.Cookie{Name: "webtrack_vid", Value: "v1"})
	req.AddCookie(&http.Cookie{Name: "webtrack_sid", Value: "s1"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	events := c.all()
	require.Len(t, events, 1)
	require.Equal(t, "page.view", events[0].Type)

	view := c.dataOf(t, 0)
	require.Equal(t, "home", view["title"])
	require.Equal(t, "v1", view["visitorId"])
	require.Equal(t, "s1", view["sessionId"])
}

func TestSessionMiddlewareNewSession(t *testing.T) {
	tr, c := newCaptureTracker(t)

	r := mux.NewRouter()
	r.Use(tr.SessionMiddleware())
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.com/?utm_campaign=launch", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.RemoteAddr = "198.51.100.9:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	events := c.all()
	require.Len(t, events, 1, "only session.start; page views are opt-in")
	require.Equal(t, "session.start", events[0].Type)

	start := c.dataOf(t, 0)
	utm := start["utm"].(map[string]any)
	require.Equal(t, "launch", utm["utmCampaign"])
}

func TestIdentifyRequest(t *testing.T) {
	tr, c := newCaptureTracker(t)

	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok := tr.IdentifyRequest(r, Identity{
			Email: "jane@example.com",
			Extra: map[string]any{"plan": "pro"},
		})
		require.True(t, ok)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/account", nil)
	req.Header.Set("User-Agent", chromeUA)
	req.AddCookie(&http.Cookie{Name: "webtrack_vid", Value: "v1"})
	req.AddCookie(&http.Cookie{Name: "webtrack_sid", Value: "s1"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	events := c.all()
	require.Len(t, events, 2, "page.view then user.identify")
	require.Equal(t, "user.identify", events[1].Type)

	data := c.dataOf(t, 1)
	require.Equal(t, "v1", data["visitorId"])
	require.Equal(t, "s1", data["sessionId"])
	traits := data["traits"].(map[string]any)
	require.Equal(t, "jane@example.com", traits["email"])
	require.Equal(t, "pro", traits["plan"])
}

func TestIdentifyRequestWithoutMiddleware(t *testing.T) {
	tr, c := newCaptureTracker(t)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.False(t, tr.IdentifyRequest(req, Identity{Email: "jane@example.com"}))
	require.Empty(t, c.all())
}

func TestRemoteIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")
	require.Equal(t, "203.0.113.50", remoteIP(req))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.60")
	require.Equal(t, "203.0.113.60", remoteIP(req))

	req.Header.Del("X-Real-IP")
	require.Equal(t, "10.0.0.1", remoteIP(req))
}
