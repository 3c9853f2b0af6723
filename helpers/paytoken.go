package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Token error kinds returned by Validate.
const (
	TokenErrMalformed        = "malformed"
	TokenErrInvalidSignature = "invalid_signature"
	TokenErrExpired          = "expired"
	TokenErrUsed             = "used"
)

const (
	// DefaultPayTokenTTL is the validity window for ad-hoc payment links.
	DefaultPayTokenTTL = 24 * time.Hour
	// ApplicationPayTokenTTL is the longer window used for tokens mailed
	// out after an application is approved.
	ApplicationPayTokenTTL = 7 * 24 * time.Hour
)

// PayTokenPayload is the decoded form of a payment capability token. The
// wire format is base64url(JSON) and the signature covers the
// uid:amount:expiresAt triple, so the token carries everything needed to
// verify it without a store lookup.
type PayTokenPayload struct {
	FirebaseUID string  `json:"firebase_uid"`
	Amount      float64 `json:"amount"`
	ExpiresAt   int64   `json:"expiresAt"`
	Signature   string  `json:"signature"`
	UsedAt      *int64  `json:"usedAt,omitempty"`
}

type PayTokenResult struct {
	Valid       bool
	FirebaseUID string
	Amount      float64
	ExpiresAt   int64
	Signature   string
	Err         string
}

// PayTokenIssuer mints and verifies payment capability tokens. Minting is
// stateless; single-use enforcement happens at redemption time against the
// consumed-token registry in the store.
type PayTokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewPayTokenIssuer(secret string) (*PayTokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("paytoken: signing secret is not configured")
	}
	return &PayTokenIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

func (i *PayTokenIssuer) Issue(firebaseUID string, amount float64, ttl time.Duration) (string, error) {
	if firebaseUID == "" {
		return "", errors.New("paytoken: empty subject")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", errors.Errorf("paytoken: amount must be a positive finite number, got %v", amount)
	}
	if ttl <= 0 {
		ttl = DefaultPayTokenTTL
	}

	expiresAt := i.now().Add(ttl).UnixMilli()
	payload := PayTokenPayload{
		FirebaseUID: firebaseUID,
		Amount:      amount,
		ExpiresAt:   expiresAt,
		Signature:   i.sign(firebaseUID, amount, expiresAt),
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (i *PayTokenIssuer) Validate(token string) *PayTokenResult {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return &PayTokenResult{Err: TokenErrMalformed}
	}

	var payload PayTokenPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return &PayTokenResult{Err: TokenErrMalformed}
	}

	if payload.FirebaseUID == "" || payload.ExpiresAt == 0 {
		return &PayTokenResult{Err: TokenErrMalformed}
	}

	if math.IsNaN(payload.Amount) || math.IsInf(payload.Amount, 0) || payload.Amount <= 0 {
		return &PayTokenResult{Err: TokenErrMalformed}
	}

	expected := i.sign(payload.FirebaseUID, payload.Amount, payload.ExpiresAt)
	if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
		return &PayTokenResult{Err: TokenErrInvalidSignature}
	}

	if i.now().UnixMilli() > payload.ExpiresAt {
		return &PayTokenResult{Err: TokenErrExpired}
	}

	if payload.UsedAt != nil {
		return &PayTokenResult{Err: TokenErrUsed}
	}

	return &PayTokenResult{
		Valid:       true,
		FirebaseUID: payload.FirebaseUID,
		Amount:      payload.Amount,
		ExpiresAt:   payload.ExpiresAt,
		Signature:   payload.Signature,
	}
}

func (i *PayTokenIssuer) sign(firebaseUID string, amount float64, expiresAt int64) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(mac, "%s:%s:%d", firebaseUID, strconv.FormatFloat(amount, 'f', -1, 64), expiresAt)
	return hex.EncodeToString(mac.Sum(nil))
}
