package httpserver

import (
	"encoding/json"
	"errors"
	"html"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"log/slog"

	"civicadmin/internal/auth"
)

// loginHandler exchanges credentials for a session cookie. Every failure
// mode answers with the same 401 body so a caller cannot probe which field
// was wrong.
type loginHandler struct {
	svc     *auth.Service
	cookies *auth.Cookies
	logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *loginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.serveForm(w, r)
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}

	lc := auth.LoginContext{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}
	user, err := h.svc.Authenticate(r.Context(), req.Email, req.Password, lc)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("authenticate", "err", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
		return
	}

	cookie, err := h.cookies.Issue(*user)
	if err != nil {
		h.logger.Error("issue session", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, safeReturnPath(r.URL.Query().Get("redirectTo")), http.StatusSeeOther)
}

// serveForm renders the bare login page every unauthenticated redirect
// lands on. The return target survives as the form's query string so the
// subsequent POST can finish the journey.
func (h *loginHandler) serveForm(w http.ResponseWriter, r *http.Request) {
	action := auth.LoginPath
	if rt := safeReturnPath(r.URL.Query().Get("redirectTo")); rt != "/" {
		action += "?redirectTo=" + url.QueryEscape(rt)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, `<!doctype html>
<title>Sign in</title>
<form method="post" action="`+html.EscapeString(action)+`">
  <input type="email" name="email" placeholder="email" autofocus>
  <input type="password" name="password" placeholder="password">
  <button type="submit">Sign in</button>
</form>
`)
}

// safeReturnPath only honors local absolute paths, never other hosts.
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type logoutHandler struct {
	cookies *auth.Cookies
}

func (h *logoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, h.cookies.Clear())
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// meHandler echoes the context principal; the dashboard and profile pages
// use it to prove the session plumbing end to end.
type meHandler struct{}

func (meHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
