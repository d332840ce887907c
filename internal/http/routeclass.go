package httpx

import (
	"path"
	"strings"
)

// RouteClass is the handling policy the gate applies to a request path.
type RouteClass int

const (
	// RoutePublicAsset covers static files and framework-internal paths.
	// Allowed without any token work.
	RoutePublicAsset RouteClass = iota
	// RouteAuthEndpoint covers the authentication endpoints themselves,
	// which implement their own logic and stay reachable to anonymous
	// and expired sessions.
	RouteAuthEndpoint
	// RouteProtectedAPI covers every other /api path.
	RouteProtectedAPI
	// RoutePublicPage covers pages reachable regardless of session state.
	RoutePublicPage
	// RouteSignupPage is allowed only while signup is enabled, otherwise
	// it is treated like a protected page.
	RouteSignupPage
	// RouteProtectedPage is the default class for everything else.
	RouteProtectedPage
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublicAsset:
		return "publicAsset"
	case RouteAuthEndpoint:
		return "authEndpoint"
	case RouteProtectedAPI:
		return "protectedApi"
	case RoutePublicPage:
		return "publicPage"
	case RouteSignupPage:
		return "signupPage"
	case RouteProtectedPage:
		return "protectedPage"
	default:
		return "unknown"
	}
}

// assetExtensions lists file extensions served without authentication.
var assetExtensions = map[string]struct{}{
	".css":         {},
	".js":          {},
	".mjs":         {},
	".map":         {},
	".ico":         {},
	".png":         {},
	".jpg":         {},
	".jpeg":        {},
	".gif":         {},
	".svg":         {},
	".webp":        {},
	".woff":        {},
	".woff2":       {},
	".ttf":         {},
	".txt":         {},
	".webmanifest": {},
}

// publicPages are reachable regardless of session state.
var publicPages = map[string]struct{}{
	"/":        {},
	"/login":   {},
	"/healthz": {},
}

// ClassifyRoute maps a request path to its handling policy. It is a total
// function: every path falls into exactly one class and classification
// never errors. Table lookups first, then prefix and extension rules.
func ClassifyRoute(p string) RouteClass {
	if p == "" {
		p = "/"
	}

	if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/assets/") {
		return RoutePublicAsset
	}
	if _, ok := assetExtensions[strings.ToLower(path.Ext(p))]; ok {
		return RoutePublicAsset
	}

	if strings.HasPrefix(p, "/api/auth/") || p == "/api/auth" {
		return RouteAuthEndpoint
	}
	if strings.HasPrefix(p, "/api/") || p == "/api" {
		return RouteProtectedAPI
	}

	if _, ok := publicPages[p]; ok {
		return RoutePublicPage
	}
	if p == "/signup" {
		return RouteSignupPage
	}

	return RouteProtectedPage
}
