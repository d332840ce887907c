package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
	"github.com/townsquare/townsquare-api/internal/ports"
	"github.com/townsquare/townsquare-api/internal/service"
)

// AuthServiceInterface defines the auth service operations the handlers need.
type AuthServiceInterface interface {
	Login(ctx context.Context, cred domainauth.Credential) (*service.LoginResult, error)
	Register(ctx context.Context, input service.RegisterInput) (*domainauth.PublicUser, error)
	TokenTTL() time.Duration
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Verifier     ports.TokenVerifier // nil when the signing secret is absent
	CookieDomain string
	// SignupEnabled gates the register endpoint; the page-level gate
	// applies the same flag to /signup.
	SignupEnabled bool
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), domainauth.Credential{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, result.Token, result.ExpiresIn)
	WriteJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

// registerRequest is the body of POST /api/auth/register.
type registerRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if !h.SignupEnabled {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "forbidden",
			Err:     errors.New("signup is disabled"),
		})
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), service.RegisterInput{
		Identifier: req.Identifier,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.logger().InfoContext(r.Context(), "account registered", "identifier", user.Identifier)
	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Logout handles POST /api/auth/logout. No server-side state is invalidated;
// the token stays cryptographically valid until its natural expiry, so
// logout amounts to clearing the client's cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session handles GET /api/auth/session. It answers 200 for anonymous
// callers too, so clients can probe their session state without tripping
// the gate.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	tok := bearerToken(r)
	if tok == "" {
		tok = cookieToken(r)
	}
	if tok == "" || h.Verifier == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	claims, err := h.Verifier.Verify(tok)
	if err != nil {
		// Invalid or expired; clear the dead cookie on the way out.
		h.clearSessionCookie(w, r)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         claims.SubjectID,
			"identifier": claims.Identifier,
			"email":      claims.Email,
			"role":       claims.Role,
		},
		"expires_at": claims.ExpiresAt,
	})
}

// setSessionCookie writes the session cookie with a lifetime matching the
// token's TTL.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearSessionCookie expires the session cookie immediately. It mirrors the
// attributes used when setting the cookie so deletion works across browsers.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// requestIsSecure reports whether the request arrived over TLS, directly or
// behind a terminating proxy.
func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
