package httpx

import (
	"html/template"
	"log/slog"
	"net/http"
)

// Page templates are inlined; the application has no asset pipeline.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "layout_head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} | TownSquare</title>
  <link rel="stylesheet" href="/static/app.css">
</head>
<body>
<header><a href="/">TownSquare</a></header>
<main>{{end}}

{{define "layout_foot"}}</main>
</body>
</html>{{end}}

{{define "home"}}{{template "layout_head" .}}
<h1>Welcome to TownSquare</h1>
<p>Your neighbourhood board for classifieds, discussions and ride sharing.</p>
<nav>
  <a href="/login">Sign in</a>
  {{if .SignupEnabled}}<a href="/signup">Create an account</a>{{end}}
</nav>
{{template "layout_foot" .}}{{end}}

{{define "login"}}{{template "layout_head" .}}
<h1>Sign in</h1>
<form method="post" action="/api/auth/login" id="login-form">
  <label>Identifier <input name="identifier" autocomplete="username"></label>
  <label>Password <input name="password" type="password" autocomplete="current-password"></label>
  <button type="submit">Sign in</button>
</form>
<div class="social-login">
  <button type="button" disabled title="Not available">Continue with Google</button>
  <button type="button" disabled title="Not available">Continue with Facebook</button>
</div>
{{if .SignupEnabled}}<p>No account yet? <a href="/signup">Sign up</a>.</p>{{end}}
{{template "layout_foot" .}}{{end}}

{{define "signup"}}{{template "layout_head" .}}
<h1>Create an account</h1>
<form method="post" action="/api/auth/register" id="signup-form">
  <label>Identifier <input name="identifier" autocomplete="username"></label>
  <label>Email <input name="email" type="email" autocomplete="email"></label>
  <label>Password <input name="password" type="password" autocomplete="new-password"></label>
  <button type="submit">Sign up</button>
</form>
{{template "layout_foot" .}}{{end}}

{{define "dashboard"}}{{template "layout_head" .}}
<h1>Hello, {{.Identifier}}</h1>
<ul>
  <li><a href="/api/ads">Classified ads</a></li>
  <li><a href="/api/forum">Forum threads</a></li>
  <li><a href="/api/rides">Ride shares</a></li>
</ul>
<form method="post" action="/api/auth/logout">
  <button type="submit">Sign out</button>
</form>
{{template "layout_foot" .}}{{end}}
`))

// PageHandlers renders the HTML pages.
type PageHandlers struct {
	SignupEnabled bool
	Logger        *slog.Logger
}

type pageData struct {
	Title         string
	SignupEnabled bool
	Identifier    string
}

func (h *PageHandlers) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("render page", "template", name, "error", err)
	}
}

// Home handles GET /.
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, "home", pageData{Title: "Home", SignupEnabled: h.SignupEnabled})
}

// Login handles GET /login.
func (h *PageHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", pageData{Title: "Sign in", SignupEnabled: h.SignupEnabled})
}

// Signup handles GET /signup. The gate redirects to /login before this
// handler runs when signup is disabled.
func (h *PageHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup", pageData{Title: "Sign up", SignupEnabled: h.SignupEnabled})
}

// Dashboard handles GET /dashboard. The gate guarantees verified claims are
// present in the context.
func (h *PageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := GetClaimsFromContext(r.Context())
	h.render(w, "dashboard", pageData{Title: "Dashboard", Identifier: claims.Identifier})
}
