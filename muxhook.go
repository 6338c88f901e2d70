package webtrack

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SessionMiddleware is the gorilla/mux integration. Register it with
// Router.Use to resolve visitor/session ids, open sessions and refresh
// cookies, without the per-request page views of Middleware. Pair it with
// TrackPage on the routes that should report views.
func (t *Tracker) SessionMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, isNew := t.resolveRequest(r)
			if isNew {
				t.startSessionFromRequest(r, info)
			}
			t.setCookies(w, info)
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), info)))
		})
	}
}

// TrackPage decorates a handler so that requests reaching it report a page
// view titled name. Routes without the decoration stay untracked.
func (t *Tracker) TrackPage(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if info, ok := SessionFromRequest(r); ok {
			t.TrackPageView(r.Context(), PageView{
				VisitorID: info.VisitorID,
				SessionID: info.SessionID,
				URL:       absoluteURL(r),
				Title:     name,
				Referrer:  r.Referer(),
			})
		}
		next(w, r)
	}
}
