package httpx

import (
	"log/slog"
	"net/http"

	"github.com/townsquare/townsquare-api/internal/ports"
	"github.com/townsquare/townsquare-api/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth *service.AuthService
	// Verifier is the token verifier the gate and session endpoint use.
	// Nil when the signing secret is absent; the gate then rejects API
	// requests with a server error and fails pages closed.
	Verifier      ports.TokenVerifier
	CookieDomain  string
	SignupEnabled bool
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:           services.Auth,
		Verifier:      services.Verifier,
		CookieDomain:  services.CookieDomain,
		SignupEnabled: services.SignupEnabled,
		Logger:        logger,
	}
	mux.HandleFunc("POST /api/auth/login", authHandlers.Login)
	mux.HandleFunc("POST /api/auth/register", authHandlers.Register)
	mux.HandleFunc("POST /api/auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandlers.Session)

	board := BoardHandlers{}
	mux.HandleFunc("GET /api/ads", board.Ads)
	mux.HandleFunc("GET /api/forum", board.Forum)
	mux.HandleFunc("GET /api/rides", board.Rides)

	pages := &PageHandlers{SignupEnabled: services.SignupEnabled, Logger: logger}
	mux.HandleFunc("GET /", pages.Home)
	mux.HandleFunc("GET /login", pages.Login)
	mux.HandleFunc("GET /signup", pages.Signup)
	mux.HandleFunc("GET /dashboard", pages.Dashboard)

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.HandleFunc("GET /static/app.css", stylesheetHandler)
	mux.HandleFunc("GET /favicon.ico", faviconHandler)

	gate := Gate(GateOptions{
		Verifier:      services.Verifier,
		SignupEnabled: services.SignupEnabled,
	})

	var handler http.Handler = gate(mux)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// stylesheetHandler serves the single inlined stylesheet; there is no asset
// pipeline.
func stylesheetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte("body{font-family:sans-serif;max-width:48rem;margin:0 auto;padding:1rem}\n" +
		"header{border-bottom:1px solid #ccc;margin-bottom:1rem}\n" +
		".social-login button{opacity:.5;cursor:not-allowed}\n"))
}

func faviconHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
