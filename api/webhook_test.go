package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/findhari93-sketch/NeramNewApp-sub004/razorpay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signWebhookBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(t *testing.T, body []byte, signature string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/payment/webhook/razorpay", bytes.NewReader(body))
	r.Header.Set(razorpay.SignatureHeader, signature)
	return r
}

func capturedEventBody(t *testing.T, eventID string, applicationID string, amountPaise int64) []byte {
	t.Helper()
	event := map[string]interface{}{
		"id":    eventID,
		"event": razorpay.EventPaymentCaptured,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":     "pay_1",
					"amount": amountPaise,
					"method": "upi",
					"status": "captured",
					"notes":  map[string]string{"application_id": applicationID},
				},
			},
		},
	}
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return b
}

func testApplication() *models.Application {
	return &models.Application{
		ID:             42,
		FirebaseUID:    "uid-42",
		StudentName:    "Anitha",
		Email:          "anitha@example.com",
		CourseName:     "NATA Crash Course",
		ApprovalStatus: models.ApprovalStatusApproved,
		PaymentChoice:  models.PaymentChoiceFull,
		TotalFee:       25000,
		PaymentStatus:  models.PaymentStatusPending,
		RazorpayLinkID: "plink_42",
	}
}

func TestRazorpayWebhookRejectsBadSignature(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	body := capturedEventBody(t, "evt_1", "42", 2500000)
	w, recorder := newTestResponseWriter()

	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, "wrong-secret")))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, storage.recordedUpdates())
}

func TestRazorpayWebhookRejectsMalformedBody(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	body := []byte(`{"event": "payment.captured",`)
	w, recorder := newTestResponseWriter()

	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, storage.recordedUpdates())
}

func TestRazorpayWebhookPaymentCaptured(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	body := capturedEventBody(t, "evt_1", "42", 2500000)
	w, recorder := newTestResponseWriter()

	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "processed", response["status"])

	updates := storage.recordedUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, 42, updates[0].ApplicationID)
	assert.Equal(t, razorpay.EventPaymentCaptured, updates[0].Event)
	assert.Equal(t, models.PaymentStatusPaid, updates[0].PaymentStatus)
	assert.Equal(t, float64(25000), updates[0].Amount)
	assert.Equal(t, "pay_1", updates[0].RazorpayPaymentID)
	assert.Equal(t, "upi", updates[0].Method)
}

func TestRazorpayWebhookReplayAppendsAgain(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	body := capturedEventBody(t, "evt_replay", "42", 2500000)

	for i := 0; i < 2; i++ {
		w, recorder := newTestResponseWriter()
		RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))
		assert.Equal(t, http.StatusOK, recorder.Code)
	}

	// Replays land as additional history rows; the derived status is the
	// same both times, so the application state converges.
	updates := storage.recordedUpdates()
	require.Len(t, updates, 2)
	assert.Equal(t, models.PaymentStatusPaid, updates[0].PaymentStatus)
	assert.Equal(t, models.PaymentStatusPaid, updates[1].PaymentStatus)

	// Only the first delivery may accrue amount_paid; the redelivery is
	// flagged so the store runs the status-only update.
	assert.False(t, updates[0].Replay)
	assert.True(t, updates[1].Replay)
}

func TestRazorpayWebhookPartialChoice(t *testing.T) {
	app := testApplication()
	app.PaymentChoice = models.PaymentChoicePartial
	storage := newStubStorage(app)
	ctx := newTestContext(storage)

	event := map[string]interface{}{
		"id":    "evt_partial",
		"event": razorpay.EventPaymentLinkPaid,
		"payload": map[string]interface{}{
			"payment_link": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":        "plink_42",
					"amount":    1250000,
					"status":    "paid",
					"short_url": "https://rzp.io/l/abc",
					"notes":     map[string]string{"application_id": "42"},
				},
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w, recorder := newTestResponseWriter()
	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	updates := storage.recordedUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, models.PaymentStatusPartial, updates[0].PaymentStatus)
	assert.Equal(t, float64(12500), updates[0].Amount)
}

func TestRazorpayWebhookPaymentFailed(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	event := map[string]interface{}{
		"id":    "evt_failed",
		"event": razorpay.EventPaymentFailed,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":     "pay_2",
					"amount": 2500000,
					"method": "card",
					"status": "failed",
					"notes":  map[string]string{"application_id": "42"},
				},
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w, recorder := newTestResponseWriter()
	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	updates := storage.recordedUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, models.PaymentStatusFailed, updates[0].PaymentStatus)
	assert.Zero(t, updates[0].Amount)
}

func TestRazorpayWebhookUnresolvedApplication(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	body := capturedEventBody(t, "evt_orphan", "99", 2500000)
	w, recorder := newTestResponseWriter()

	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "ignored", response["status"])
	assert.Empty(t, storage.recordedUpdates())
}

func TestRazorpayWebhookPaymentLinkFallback(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	// No application_id note; only the processor-assigned link id binds
	// this event to an application.
	event := map[string]interface{}{
		"id":    "evt_fallback",
		"event": razorpay.EventPaymentLinkPaid,
		"payload": map[string]interface{}{
			"payment_link": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":     "plink_42",
					"amount": 2500000,
					"status": "paid",
				},
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w, recorder := newTestResponseWriter()
	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)

	updates := storage.recordedUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, 42, updates[0].ApplicationID)
	assert.Equal(t, models.PaymentStatusPaid, updates[0].PaymentStatus)

	// No payment entity in the payload, so the amount comes from the
	// payment link entity.
	assert.Equal(t, float64(25000), updates[0].Amount)
}

func TestRazorpayWebhookConfirmsPaymentWithProcessor(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	var lookups int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups++
		assert.Equal(t, "/v1/payments/pay_1", r.URL.Path)
		json.NewEncoder(w).Encode(razorpay.GetPaymentResponse{
			ID:     "pay_1",
			Amount: 2500000,
			Status: "captured",
			Method: "upi",
		})
	}))
	defer server.Close()

	ctx.Razorpay = &razorpay.Client{BaseURL: server.URL, PathPayments: "/v1/payments"}

	body := capturedEventBody(t, "evt_confirm", "42", 2500000)
	w, recorder := newTestResponseWriter()

	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, lookups)
	require.Len(t, storage.recordedUpdates(), 1)
}

func TestNewPaymentInvoiceCarriesDerivedStatus(t *testing.T) {
	app := testApplication()
	event := &razorpay.WebhookEvent{
		Event: razorpay.EventPaymentLinkPaid,
		Payload: razorpay.WebhookPayload{
			PaymentLink: &razorpay.PaymentLinkWrapper{
				Entity: razorpay.PaymentLinkEntity{ID: "plink_42", ShortURL: "https://rzp.io/l/abc"},
			},
		},
	}
	update := &models.PaymentUpdate{
		ApplicationID:     app.ID,
		RazorpayPaymentID: "pay_1",
		Amount:            12500,
		Method:            "upi",
		PaymentStatus:     models.PaymentStatusPartial,
	}

	invoice := newPaymentInvoice(app, event, update)

	assert.Equal(t, models.PaymentStatusPartial, invoice.Status)
	assert.Equal(t, float64(12500), invoice.Amount)
	assert.Equal(t, "https://rzp.io/l/abc", invoice.PaymentLink)
	assert.Contains(t, invoice.Number, "NERAM-")
}

func TestRazorpayWebhookIgnoresUnknownEvent(t *testing.T) {
	storage := newStubStorage(testApplication())
	ctx := newTestContext(storage)

	event := map[string]interface{}{
		"id":    "evt_unknown",
		"event": "refund.processed",
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{
				"entity": map[string]interface{}{
					"id":    "pay_3",
					"notes": map[string]string{"application_id": "42"},
				},
			},
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w, recorder := newTestResponseWriter()
	RazorpayWebhook(ctx, w, newWebhookRequest(t, body, signWebhookBody(body, testWebhookSecret)))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, storage.recordedUpdates())
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		event  string
		choice string
		want   string
	}{
		{razorpay.EventPaymentCaptured, models.PaymentChoiceFull, models.PaymentStatusPaid},
		{razorpay.EventPaymentCaptured, models.PaymentChoicePartial, models.PaymentStatusPartial},
		{razorpay.EventPaymentLinkPaid, models.PaymentChoiceFull, models.PaymentStatusPaid},
		{razorpay.EventPaymentLinkPaid, models.PaymentChoicePartial, models.PaymentStatusPartial},
		{razorpay.EventPaymentFailed, models.PaymentChoiceFull, models.PaymentStatusFailed},
		{razorpay.EventPaymentLinkFailed, models.PaymentChoicePartial, models.PaymentStatusFailed},
		{"refund.processed", models.PaymentChoiceFull, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, derivePaymentStatus(tt.event, tt.choice), "%s/%s", tt.event, tt.choice)
	}
}
