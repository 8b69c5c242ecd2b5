package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"civicadmin/internal/auth"
	"civicadmin/internal/communes"
	"civicadmin/internal/contributions"
)

// protectedRoutes is every path the edge middleware guards. The policy
// completeness test walks this list, so adding a route here without a
// defined policy classification fails the build's tests, not production.
var protectedRoutes = []string{
	"/",
	"/dashboard",
	"/profile",
	"/commune-settings",
	"/feedback/contributions",
	"/api/communes",
	"/api/communes/",
}

// ProtectedRoutes returns the guarded paths registered by NewRouter.
func ProtectedRoutes() []string {
	routes := make([]string, len(protectedRoutes))
	copy(routes, protectedRoutes)
	return routes
}

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	codec *auth.Codec,
	cookies *auth.Cookies,
	communeStore *communes.Store,
	contributionStore *contributions.Store,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Session endpoints live outside the gate: login has no session yet
	// and logout only clears the cookie.
	mux.Handle(auth.LoginPath, &loginHandler{svc: authSvc, cookies: cookies, logger: logger})
	mux.Handle("/logout", &logoutHandler{cookies: cookies})

	secured := auth.Middleware(codec)

	me := meHandler{}
	mux.Handle("/dashboard", secured(me))
	mux.Handle("/profile", secured(me))

	mux.Handle("/commune-settings", secured(&communes.SettingsHandler{
		Store:  communeStore,
		Logger: logger,
	}))
	mux.Handle("/feedback/contributions", secured(&contributions.ListHandler{
		Store:  contributionStore,
		Logger: logger,
	}))
	mux.Handle("/api/communes", secured(&communes.ListHandler{
		Store:  communeStore,
		Logger: logger,
	}))
	mux.Handle("/api/communes/", secured(&communes.DetailHandler{
		Store:  communeStore,
		Logger: logger,
	}))

	// Home; also the target of every redirect-home policy decision.
	mux.Handle("/", secured(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		me.ServeHTTP(w, r)
	})))

	return mux
}
