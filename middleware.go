package webtrack

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey struct{}

var sessionContextKey contextKey

const (
	visitorCookieMaxAge = 365 * 24 * 60 * 60
	sessionCookieMaxAge = 30 * 60
)

func (t *Tracker) visitorCookieName() string { return t.cfg.CookiePrefix + "_vid" }
func (t *Tracker) sessionCookieName() string { return t.cfg.CookiePrefix + "_sid" }

// Middleware is the net/http integration. Every request through next is
// tracked: the visitor/session pair is resolved from cookies (deriving or
// generating ids for the missing ones), a session.start is sent for fresh
// sessions, a page.view is sent unconditionally, and both cookies are
// refreshed on the response.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, isNew := t.resolveRequest(r)
		if isNew {
			t.startSessionFromRequest(r, info)
		}

		t.TrackPageView(r.Context(), PageView{
			VisitorID: info.VisitorID,
			SessionID: info.SessionID,
			URL:       absoluteURL(r),
			Referrer:  r.Referer(),
		})

		t.setCookies(w, info)
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), info)))
	})
}

// SessionFromRequest returns the visitor/session pair resolved by one of
// the tracking middlewares for this request.
func SessionFromRequest(r *http.Request) (SessionInfo, bool) {
	info, ok := r.Context().Value(sessionContextKey).(SessionInfo)
	return info, ok
}

// IdentifyRequest attaches identity traits to the current request's
// visitor/session pair. It reports false without sending anything when no
// tracking middleware ran for the request.
func (t *Tracker) IdentifyRequest(r *http.Request, id Identity) bool {
	info, ok := SessionFromRequest(r)
	if !ok {
		return false
	}
	id.VisitorID = info.VisitorID
	id.SessionID = info.SessionID
	return t.Identify(r.Context(), id)
}

// resolveRequest reads the visitor and session cookies, deriving or
// generating ids for the ones that are missing. isNew reports whether the
// session id was just generated.
func (t *Tracker) resolveRequest(r *http.Request) (info SessionInfo, isNew bool) {
	if c, err := r.Cookie(t.visitorCookieName()); err == nil && c.Value != "" {
		info.VisitorID = c.Value
	} else {
		info.VisitorID = DeriveVisitorID(r.UserAgent(), remoteIP(r))
	}

	if c, err := r.Cookie(t.sessionCookieName()); err == nil && c.Value != "" {
		info.SessionID = c.Value
	} else {
		info.SessionID = NewSessionID()
		isNew = true
	}
	return info, isNew
}

func (t *Tracker) startSessionFromRequest(r *http.Request, info SessionInfo) {
	q := r.URL.Query()
	t.StartSession(r.Context(), SessionStart{
		VisitorID: info.VisitorID,
		SessionID: info.SessionID,
		UserAgent: r.UserAgent(),
		IPAddress: remoteIP(r),
		Referrer:  r.Referer(),
		EntryPage: absoluteURL(r),
		UTM: UTMParams{
			Source:   q.Get("utm_source"),
			Medium:   q.Get("utm_medium"),
			Campaign: q.Get("utm_campaign"),
			Term:     q.Get("utm_term"),
			Content:  q.Get("utm_content"),
		},
	})
}

// Cookies must be written before the handler starts the body. Both are
// plain opaque tokens; callers needing tamper resistance sign them
// externally.
func (t *Tracker) setCookies(w http.ResponseWriter, info SessionInfo) {
	http.SetCookie(w, &http.Cookie{
		Name:   t.visitorCookieName(),
		Value:  info.VisitorID,
		Path:   "/",
		MaxAge: visitorCookieMaxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:   t.sessionCookieName(),
		Value:  info.SessionID,
		Path:   "/",
		MaxAge: sessionCookieMaxAge,
	})
}

func withSession(ctx context.Context, info SessionInfo) context.Context {
	return context.WithValue(ctx, sessionContextKey, info)
}

// remoteIP prefers the first proxy-set header and falls back to
// RemoteAddr with the port stripped.
func remoteIP(r *http.Request) string {
	for _, h := range []string{"X-Forwarded-For", "X-Real-IP"} {
		if v := r.Header.Get(h); v != "" {
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = v[:i]
			}
			return strings.TrimSpace(v)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
