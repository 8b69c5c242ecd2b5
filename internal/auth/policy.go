package auth

import (
	"net/url"
	"strings"
)

const LoginPath = "/login"

type Verdict int

const (
	Allow Verdict = iota
	RedirectHome
	RedirectLogin
)

// Decision is the policy outcome for one request. Location is set for
// redirect verdicts.
type Decision struct {
	Verdict  Verdict
	Location string
}

// rolePolicy is one row of the policy table. For allow-by-default roles
// the exception set is a deny-list; for deny-by-default roles it is an
// allow-list. A path matching the exception set inverts the default.
type rolePolicy struct {
	defaultAllow bool
	exact        map[string]struct{}
	prefixes     []string
}

func exactSet(paths ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		m[p] = struct{}{}
	}
	return m
}

var municipalAllowedExact = []string{
	"/",
	"/dashboard",
	"/profile",
	"/media-kit",
	"/commune-settings",
	"/developer",
}

var municipalAllowedPrefixes = []string{
	"/feedback",
	"/developer",
}

// policyTable maps each role to its default polarity and exceptions.
// The asymmetry is deliberate: platform staff start open and get fenced,
// municipal roles start fenced and get opened.
var policyTable = map[Role]rolePolicy{
	RolePlatformAdmin: {
		defaultAllow: true,
	},
	RoleAccountManager: {
		defaultAllow: true,
		prefixes: []string{
			"/staff",
			"/news",
			"/product-feedback",
			"/contact-tickets",
			"/audit-log",
			"/settings/platform",
		},
	},
	RoleMunicipalManager: {
		defaultAllow: false,
		exact:        exactSet(municipalAllowedExact...),
		prefixes:     append([]string{"/team"}, municipalAllowedPrefixes...),
	},
	RoleMunicipalEmployee: {
		defaultAllow: false,
		exact:        exactSet(municipalAllowedExact...),
		prefixes:     municipalAllowedPrefixes,
	},
}

func (p rolePolicy) matches(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		// Prefixes match on segment boundaries only, so /news never
		// captures /newsletter.
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Decide evaluates the policy table for an authenticated role. Roles
// outside the table (including a corrupted role value) are denied.
func Decide(role Role, path string) Decision {
	p, ok := policyTable[role]
	if !ok {
		return Decision{Verdict: RedirectHome, Location: "/"}
	}
	allowed := p.defaultAllow != p.matches(path)
	if allowed {
		return Decision{Verdict: Allow}
	}
	return Decision{Verdict: RedirectHome, Location: "/"}
}

// DecideUnauthenticated sends the visitor to login, preserving the
// original path as a return target. When the request already targets the
// login path no parameter is attached, so login never redirects to itself.
func DecideUnauthenticated(path string) Decision {
	if path == LoginPath {
		return Decision{Verdict: RedirectLogin, Location: LoginPath}
	}
	return Decision{
		Verdict:  RedirectLogin,
		Location: LoginPath + "?redirectTo=" + url.QueryEscape(path),
	}
}
