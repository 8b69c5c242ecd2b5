package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civicadmin/internal/auth"
	"civicadmin/internal/communes"
	"civicadmin/internal/contributions"
	"civicadmin/internal/logging"
)

func testRouter(t *testing.T) (http.Handler, *auth.Cookies) {
	t.Helper()
	codec := auth.NewCodec("router-secret")
	cookies := auth.NewCookies(codec, time.Hour, false)
	router := NewRouter(
		logging.New(),
		auth.NewService(&fakePrincipalStore{}),
		codec,
		cookies,
		communes.NewStore(nil),
		contributions.NewStore(nil),
	)
	return router, cookies
}

// Every route the router guards must have an explicit classification in
// the policy table for every role. A route that reaches the fallthrough
// polarity of either list is flagged here instead of discovered in
// production.
func TestEveryProtectedRouteIsClassified(t *testing.T) {
	roles := []auth.Role{
		auth.RolePlatformAdmin,
		auth.RoleAccountManager,
		auth.RoleMunicipalManager,
		auth.RoleMunicipalEmployee,
	}
	for _, route := range ProtectedRoutes() {
		for _, role := range roles {
			d := auth.Decide(role, route)
			switch d.Verdict {
			case auth.Allow:
			case auth.RedirectHome:
				if d.Location != "/" {
					t.Errorf("route %s role %s: redirect-home location %q", route, role, d.Location)
				}
			default:
				t.Errorf("route %s role %s: unexpected verdict %v", route, role, d.Verdict)
			}
		}
		if d := auth.DecideUnauthenticated(route); d.Verdict != auth.RedirectLogin {
			t.Errorf("route %s unauthenticated: verdict %v, want RedirectLogin", route, d.Verdict)
		}
	}
}

func TestRouterHealthzIsOpen(t *testing.T) {
	router, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestRouterProtectedPageWithoutSessionRedirects(t *testing.T) {
	router, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirectTo=%2Fdashboard" {
		t.Fatalf("location = %q", loc)
	}
}

// The unauthenticated redirect lands on /login with a GET; that page must
// exist and keep the return target alive for the login POST.
func TestRouterLoginPageServesGet(t *testing.T) {
	router, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?redirectTo=%2Fdashboard", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /login = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="email"`) || !strings.Contains(body, `name="password"`) {
		t.Fatalf("login page %q lacks the credential form", body)
	}
	if !strings.Contains(body, "redirectTo=%2Fdashboard") {
		t.Fatalf("login page %q dropped the return target", body)
	}
}

func TestRouterLoginRedirectTargetServesGet(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect", rec.Code)
	}

	followed := httptest.NewRecorder()
	router.ServeHTTP(followed, httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil))
	if followed.Code != http.StatusOK {
		t.Fatalf("GET %s = %d: the unauthenticated redirect target must serve the browser's GET",
			rec.Header().Get("Location"), followed.Code)
	}
}

func TestRouterDashboardEchoesSessionUser(t *testing.T) {
	router, cookies := testRouter(t)
	cookie, err := cookies.Issue(auth.SessionUser{Email: "admin@plat.example", Role: auth.RolePlatformAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "admin@plat.example") {
		t.Fatalf("dashboard body %q does not echo the principal", body)
	}
}
