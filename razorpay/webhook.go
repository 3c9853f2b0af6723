package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader is the header Razorpay signs webhook deliveries with.
const SignatureHeader = "x-razorpay-signature"

// Webhook event types this service reacts to.
const (
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventPaymentLinkPaid   = "payment_link.paid"
	EventPaymentLinkFailed = "payment_link.failed"
)

// WebhookEvent is the envelope Razorpay posts. Only the entities this
// service reads are modeled; everything else passes through unparsed.
type WebhookEvent struct {
	ID      string         `json:"id"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment     *PaymentWrapper     `json:"payment,omitempty"`
	PaymentLink *PaymentLinkWrapper `json:"payment_link,omitempty"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type PaymentLinkWrapper struct {
	Entity PaymentLinkEntity `json:"entity"`
}

type PaymentEntity struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Method   string            `json:"method"`
	Email    string            `json:"email"`
	Contact  string            `json:"contact"`
	Notes    map[string]string `json:"notes"`
}

type PaymentLinkEntity struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Status   string            `json:"status"`
	ShortURL string            `json:"short_url"`
	Notes    map[string]string `json:"notes"`
}

// VerifyWebhookSignature checks the hex HMAC-SHA256 of the raw request body
// against the signature header. The MAC must be computed over the exact raw
// bytes; re-serializing the parsed JSON would break verification.
func VerifyWebhookSignature(body []byte, signature string, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
