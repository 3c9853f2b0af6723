package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const SessionCookieName = "neram_session"

const (
	// DefaultSessionTTL applies to Firebase-backed sessions.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// LinkedInSessionTTL is shorter because LinkedIn access tokens are not
	// re-verified after the initial exchange.
	LinkedInSessionTTL = 5 * 24 * time.Hour
)

// SessionPayload is the signed assertion carried by the session cookie.
type SessionPayload struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
}

// SignSessionPayload encodes the payload as base64url JSON and appends a
// base64url HMAC-SHA256 signature, separated by a dot.
func SignSessionPayload(payload SessionPayload, secret []byte) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(b)
	return encoded + "." + signSessionValue(encoded, secret), nil
}

// ParseSessionValue verifies the cookie value's MAC and expiry and returns
// the decoded payload. The assertion is trusted only when the MAC recomputed
// over the encoded payload matches the attached signature.
func ParseSessionValue(value string, secret []byte) (*SessionPayload, error) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("session: malformed cookie value")
	}

	expected := signSessionValue(parts[0], secret)
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, errors.New("session: signature mismatch")
	}

	b, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "session: bad payload encoding")
	}

	var payload SessionPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, errors.Wrap(err, "session: bad payload")
	}

	if payload.Expiry != 0 && time.Now().Unix() > payload.Expiry {
		return nil, errors.New("session: expired")
	}

	return &payload, nil
}

func NewSessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
}

func signSessionValue(encoded string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
