package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"time"

	scmsauth "github.com/MrEthical07/scmsauth"
	"github.com/MrEthical07/scmsauth/metrics/export/prometheus"
	"github.com/MrEthical07/scmsauth/middleware"
	"github.com/MrEthical07/scmsauth/permission"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// pageFeatures lists the in-page features each gated page reports.
var pageFeatures = map[string][]string{
	permission.ResourceAttendance: {permission.FeatureAttendanceAll},
	permission.ResourceResources:  {permission.FeatureReservationsAll, permission.FeatureResourcesManage},
}

func cmdServe(ctx context.Context, a *app, args []string, s streams) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(s.err)
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	srv := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           newHandler(a.authority, a.cfg.Metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	a.logger.Info("serving", "addr", a.cfg.Listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler routes the dashboard gateway. One authority backs every
// request, so the server holds a single dashboard session at a time.
func newHandler(authority *scmsauth.Authority, metrics bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", indexHandler(authority))
	mux.HandleFunc("GET "+loginPath, loginPageHandler(authority))
	mux.HandleFunc("POST "+loginPath, loginHandler(authority))
	mux.HandleFunc("POST /logout", logoutHandler(authority))
	mux.HandleFunc("GET /session", sessionHandler(authority))
	mux.HandleFunc("GET /nav", navHandler(authority))

	requireSession := middleware.RequireSession(authority, loginPath)
	for _, item := range scmsauth.Sidebar() {
		page := requireSession(middleware.RequireResource(authority, item.Key)(pageHandler(authority, item)))
		mux.Handle("GET "+item.Path, page)
	}

	if metrics {
		mux.Handle("GET /metrics", prometheus.NewExporter(authority).Handler())
	}

	return middleware.ClientIP(mux)
}

type accountView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

func viewOf(acc scmsauth.Account) accountView {
	return accountView{
		ID:     acc.ID,
		Name:   acc.Name,
		Email:  acc.Email,
		Role:   acc.Role.String(),
		Avatar: acc.Avatar,
	}
}

// indexHandler sends signed-in users to the dashboard and everyone else to
// the login page.
func indexHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authority.IsAuthenticated() {
			http.Redirect(w, r, dashboardPath, http.StatusFound)
			return
		}
		http.Redirect(w, r, loginPath, http.StatusFound)
	}
}

func loginPageHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authority.IsAuthenticated() {
			http.Redirect(w, r, dashboardPath, http.StatusFound)
			return
		}
		writeHTTPJSON(w, http.StatusOK, map[string]string{
			"message": "POST {\"email\",\"secret\"} to " + loginPath,
		})
	}
}

func loginHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email  string `json:"email"`
			Secret string `json:"secret"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		sess, err := authority.Authenticate(r.Context(), body.Email, body.Secret)
		switch {
		case err == nil:
			writeHTTPJSON(w, http.StatusOK, viewOf(sess.Account))
		case errors.Is(err, scmsauth.ErrInvalidCredentials):
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
		case errors.Is(err, scmsauth.ErrLoginRateLimited):
			http.Error(w, "too many attempts", http.StatusTooManyRequests)
		default:
			http.Error(w, "login unavailable", http.StatusInternalServerError)
		}
	}
}

func logoutHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authority.EndSession(r.Context()); err != nil {
			http.Error(w, "session ended but the slot was not cleared", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		acc, ok := authority.CurrentAccount()
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeHTTPJSON(w, http.StatusOK, viewOf(acc))
	}
}

func navHandler(authority *scmsauth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		nav := authority.Navigation()
		if nav == nil {
			nav = []scmsauth.NavItem{}
		}
		writeHTTPJSON(w, http.StatusOK, nav)
	}
}

func pageHandler(authority *scmsauth.Authority, item scmsauth.NavItem) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var account accountView
		if s, ok := middleware.SessionFromContext(r.Context()); ok {
			account = viewOf(s.Account)
		}

		features := make(map[string]bool, len(pageFeatures[item.Key]))
		for _, f := range pageFeatures[item.Key] {
			features[f] = authority.IsPermitted(account.Role, f)
		}

		writeHTTPJSON(w, http.StatusOK, map[string]any{
			"page":     item.Key,
			"title":    item.Label,
			"account":  account,
			"features": features,
		})
	})
}

func writeHTTPJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
