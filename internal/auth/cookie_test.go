package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCookiesIssueAttributes(t *testing.T) {
	codec := NewCodec("cookie-secret")
	cookies := NewCookies(codec, time.Hour, true)

	user := SessionUser{ID: uuid.New(), Email: "admin@plat.example", Role: RolePlatformAdmin}
	cookie, err := cookies.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cookie.Name != SessionCookieName {
		t.Fatalf("name = %q", cookie.Name)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", cookie)
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("max-age = %d, want TTL seconds", cookie.MaxAge)
	}

	payload := codec.Verify(cookie.Value)
	if payload == nil {
		t.Fatalf("issued cookie does not verify")
	}
	if payload.User.ID != user.ID {
		t.Fatalf("issued payload user %v, want %v", payload.User.ID, user.ID)
	}
	wantExpiry := time.Now().Add(time.Hour).UnixMilli()
	if diff := payload.ExpiresAt - wantExpiry; diff < -5000 || diff > 5000 {
		t.Fatalf("expiry %d not near now+TTL %d", payload.ExpiresAt, wantExpiry)
	}
}

func TestCookiesIssueSecureFlagFollowsConfig(t *testing.T) {
	codec := NewCodec("cookie-secret")
	cookie, err := NewCookies(codec, time.Hour, false).Issue(SessionUser{ID: uuid.New(), Role: RolePlatformAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cookie.Secure {
		t.Fatalf("secure flag set in local-development mode")
	}
}

// Clearing must expire the cookie immediately regardless of the session
// TTL it was issued with.
func TestCookiesClearAlwaysExpiresNow(t *testing.T) {
	codec := NewCodec("cookie-secret")
	for _, ttl := range []time.Duration{time.Minute, time.Hour, 30 * 24 * time.Hour} {
		cookie := NewCookies(codec, ttl, true).Clear()
		if cookie.Value != "" {
			t.Fatalf("clear cookie has value %q", cookie.Value)
		}
		if cookie.MaxAge >= 0 {
			t.Fatalf("clear cookie MaxAge = %d, must request immediate expiry", cookie.MaxAge)
		}
		if !strings.Contains(cookie.String(), "Max-Age=0") {
			t.Fatalf("serialized clear cookie %q lacks Max-Age=0", cookie.String())
		}
	}
}
