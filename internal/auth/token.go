package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// SessionPayload is the decoded content of a session token. Consumers must
// treat it as untrusted until Verify has accepted the whole token.
type SessionPayload struct {
	User      SessionUser `json:"user"`
	ExpiresAt int64       `json:"expiresAt"` // epoch milliseconds
}

func (p *SessionPayload) Expired(now time.Time) bool {
	return p.ExpiresAt <= now.UnixMilli()
}

// Codec signs and verifies session tokens. The secret is the sole root of
// trust; rotating it invalidates every outstanding token.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

var b64 = base64.RawURLEncoding

// Sign encodes payload as <base64url(json)>.<base64url(hmac-sha256)>.
// The MAC covers the encoded payload text, so the token is canonical
// regardless of how the payload bytes were produced.
func (c *Codec) Sign(payload SessionPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := b64.EncodeToString(raw)
	return encoded + "." + b64.EncodeToString(c.mac(encoded)), nil
}

// Verify decodes and validates a token. It is total: malformed, tampered
// and expired tokens all yield nil, and no input makes it panic. Callers
// never learn which check failed.
func (c *Codec) Verify(token string) *SessionPayload {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil
	}
	sig, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	if !hmac.Equal(sig, c.mac(parts[0])) {
		return nil
	}
	raw, err := b64.DecodeString(parts[0])
	if err != nil {
		return nil
	}
	var payload SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if payload.Expired(time.Now().UTC()) {
		return nil
	}
	return &payload
}

func (c *Codec) mac(encodedPayload string) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(encodedPayload))
	return h.Sum(nil)
}
