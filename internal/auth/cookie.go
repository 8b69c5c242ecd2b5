package auth

import (
	"net/http"
	"time"
)

const SessionCookieName = "civicadmin_session"

// Cookies issues and clears the session cookie. TTL is fixed at
// construction; a token cannot be renewed, only re-issued.
type Cookies struct {
	codec  *Codec
	ttl    time.Duration
	secure bool
}

func NewCookies(codec *Codec, ttl time.Duration, secure bool) *Cookies {
	return &Cookies{codec: codec, ttl: ttl, secure: secure}
}

func (c *Cookies) Issue(user SessionUser) (*http.Cookie, error) {
	payload := SessionPayload{
		User:      user,
		ExpiresAt: time.Now().UTC().Add(c.ttl).UnixMilli(),
	}
	token, err := c.codec.Sign(payload)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear expires the cookie immediately, whatever TTL the session had.
// net/http serializes a negative MaxAge as Max-Age=0 on the wire.
func (c *Cookies) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
