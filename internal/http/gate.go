package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/townsquare/townsquare-api/internal/ports"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth_token"

// loginPath is where unauthenticated page requests are sent.
const loginPath = "/login"

// GateOptions configures the request gate.
type GateOptions struct {
	// Verifier checks session tokens. A nil Verifier means the signing
	// secret is absent, the distinguished misconfiguration state.
	Verifier ports.TokenVerifier
	// SignupEnabled controls whether /signup is reachable.
	SignupEnabled bool
}

// Gate returns the middleware that decides, per request, whether to pass it
// through, reject it, or redirect it to the login page. Decisions follow a
// fixed priority order keyed on the route class; the first matching rule
// wins. Verified claims are placed in the request context for downstream
// handlers.
func Gate(opts GateOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch ClassifyRoute(r.URL.Path) {
			case RoutePublicAsset, RouteAuthEndpoint, RoutePublicPage:
				next.ServeHTTP(w, r)

			case RouteProtectedAPI:
				gateAPI(w, r, next, opts.Verifier)

			case RouteSignupPage:
				if opts.SignupEnabled {
					next.ServeHTTP(w, r)
					return
				}
				http.Redirect(w, r, loginPath, http.StatusFound)

			default: // RouteProtectedPage
				gatePage(w, r, next, opts.Verifier)
			}
		})
	}
}

// gateAPI guards /api routes. The bearer header wins over the cookie when
// both are present. A missing secret is reported as a server error, never
// as a credential failure.
func gateAPI(w http.ResponseWriter, r *http.Request, next http.Handler, verifier ports.TokenVerifier) {
	tok := bearerToken(r)
	if tok == "" {
		tok = cookieToken(r)
	}
	if tok == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("authentication required"),
		})
		return
	}

	if verifier == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "misconfigured",
			Err:     errors.New("server signing secret is not configured"),
		})
		return
	}

	claims, err := verifier.Verify(tok)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthorized",
			Err:     errors.New("invalid or expired token"),
		})
		return
	}

	next.ServeHTTP(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
}

// gatePage guards page routes. Pages read the cookie only and fail closed
// with a redirect; there is no JSON error channel on a page navigation.
func gatePage(w http.ResponseWriter, r *http.Request, next http.Handler, verifier ports.TokenVerifier) {
	tok := cookieToken(r)
	if tok == "" || verifier == nil {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	claims, err := verifier.Verify(tok)
	if err != nil {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	next.ServeHTTP(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
}

// bearerToken extracts the token from an Authorization header. The scheme
// match is case-insensitive.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const scheme = "bearer "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return ""
	}
	return strings.TrimSpace(header[len(scheme):])
}

// cookieToken extracts the token from the session cookie.
func cookieToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
