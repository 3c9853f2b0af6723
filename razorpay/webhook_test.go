package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	secret := "whsec"

	assert.True(t, VerifyWebhookSignature(body, signBody(body, secret), secret))
	assert.False(t, VerifyWebhookSignature(body, signBody(body, "other"), secret))
	assert.False(t, VerifyWebhookSignature(body, "", secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"payment.captured" }`), signBody(body, secret), secret))
}

func TestWebhookEventDecoding(t *testing.T) {
	raw := []byte(`{
		"id": "evt_123",
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_1",
					"amount": 500000,
					"currency": "INR",
					"status": "captured",
					"method": "upi",
					"email": "student@example.com",
					"notes": {"application_id": "42"}
				}
			}
		}
	}`)

	var event WebhookEvent
	require.NoError(t, json.Unmarshal(raw, &event))

	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventPaymentCaptured, event.Event)
	require.NotNil(t, event.Payload.Payment)
	assert.Nil(t, event.Payload.PaymentLink)
	assert.Equal(t, int64(500000), event.Payload.Payment.Entity.Amount)
	assert.Equal(t, "42", event.Payload.Payment.Entity.Notes["application_id"])
}
