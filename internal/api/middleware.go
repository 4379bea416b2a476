// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/api/auth"
	"github.com/casaluxe/stay/internal/api/authz"
	"github.com/casaluxe/stay/internal/api/htmx"
)

type Middleware func(http.Handler) http.Handler

type requestIDKey struct{}

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

// RequestIDFromContext returns the ID assigned by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithLogging writes one access line per request through the request
// scoped logger, so it must sit inside WithRequestID.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		event := log.Ctx(r.Context()).Info()
		if rec.status >= http.StatusInternalServerError {
			event = log.Ctx(r.Context()).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.written).
			Bool("htmx", htmx.IsRequest(r)).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

// WithRecovery turns a handler panic into a 500. API callers get the JSON
// error shape, everyone else a plain page.
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rv := recover()
			if rv == nil {
				return
			}
			if rv == http.ErrAbortHandler {
				panic(rv)
			}
			log.Ctx(r.Context()).Error().
				Interface("panic", rv).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("Panic recovered")

			if strings.HasPrefix(r.URL.Path, "/api/") {
				apiutil.WriteJSONError(w, http.StatusInternalServerError, "Erro interno do servidor")
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// WithRequestID tags the request with an ID and a logger carrying it. A
// well formed X-Request-ID from an upstream proxy is reused.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		logger := log.With().Str("request_id", requestID).Logger()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
	})
}

// WithContentType treats a request without an Accept header as a browser
// asking for HTML.
func WithContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", "text/html")
		}
		next.ServeHTTP(w, r)
	})
}

// WithAuth loads the signed-in user, if any, into the request context.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.UserFromRequest(r)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load auth session")
			next.ServeHTTP(w, r)
			return
		}

		if user != nil {
			ctx := authz.ContextWithUser(r.Context(), user)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// WithAdminAuth guards the admin panel. Page requests without an admin
// session are sent to the login page; htmx calls get a plain status.
func WithAdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())
		err := authz.RequireAdmin(r.Context())
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}

		status := http.StatusUnauthorized
		loginURL := "/admin/login"
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logger.Debug().Str("path", r.URL.Path).Msg("Admin access denied: unauthenticated")
		case errors.Is(err, authz.ErrForbidden):
			status = http.StatusForbidden
			loginURL += "?error=" + url.QueryEscape(auth.MsgNotAdmin)
			logEvent := logger.Warn()
			if user := authz.UserFromContext(r.Context()); user != nil {
				logEvent = logEvent.Str("user_id", user.ID)
			}
			logEvent.Msg("Admin access denied: forbidden")
		}

		if htmx.IsRequest(r) || r.Method != http.MethodGet {
			if htmx.IsRequest(r) {
				w.Header().Set("HX-Redirect", loginURL)
			}
			http.Error(w, http.StatusText(status), status)
			return
		}
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	n, err := sr.ResponseWriter.Write(b)
	sr.written += n
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }
