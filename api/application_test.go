package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/findhari93-sketch/NeramNewApp-sub004/razorpay"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewRequest(t *testing.T, applicationID string, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPut, "/application/"+applicationID+"/review", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r = mux.SetURLVars(r, map[string]string{"application_id": applicationID})
	return r.WithContext(context.WithValue(r.Context(), string("user"), map[string]interface{}{
		"UID": "", "Email": "admin@neramclasses.com", "Provider": "admin", "IsAdmin": true,
	}))
}

func TestReviewApplicationApprove(t *testing.T) {
	app := testApplication()
	app.ApprovalStatus = models.ApprovalStatusPending
	storage := newStubStorage(app)
	ctx := newTestContext(storage)
	ctx.Config.FrontendURL = "https://www.neramclasses.com"

	var linkRequest razorpay.CreatePaymentLinkRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&linkRequest))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(razorpay.CreatePaymentLinkResponse{
			ID:       "plink_new",
			ShortURL: "https://rzp.io/l/new",
			Status:   "created",
			Amount:   linkRequest.Amount,
		})
	}))
	defer server.Close()

	ctx.Razorpay = &razorpay.Client{BaseURL: server.URL, PathPaymentLinks: "/v1/payment_links"}

	// 19999.99 rupees must become 1999999 paise, not truncate to 1999998.
	w, recorder := newTestResponseWriter()
	ReviewApplication(ctx, w, newReviewRequest(t, "42", `{"approval_status":"approved","total_fee":19999.99}`))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, int64(1999999), linkRequest.Amount)
	assert.Equal(t, "42", linkRequest.Notes["application_id"])
	assert.Equal(t, models.ApprovalStatusApproved, storage.reviews[42])
	assert.Equal(t, "plink_new", storage.linkIDs[42])

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "plink_new", response["razorpay_link_id"])
	assert.Equal(t, "https://rzp.io/l/new", response["payment_url"])
}

func TestReviewApplicationReject(t *testing.T) {
	app := testApplication()
	app.ApprovalStatus = models.ApprovalStatusPending
	storage := newStubStorage(app)
	ctx := newTestContext(storage)

	w, recorder := newTestResponseWriter()
	ReviewApplication(ctx, w, newReviewRequest(t, "42", `{"approval_status":"rejected"}`))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, models.ApprovalStatusRejected, storage.reviews[42])
	assert.Empty(t, storage.linkIDs)
}

func TestReviewApplicationApproveRequiresFee(t *testing.T) {
	app := testApplication()
	app.ApprovalStatus = models.ApprovalStatusPending
	storage := newStubStorage(app)
	ctx := newTestContext(storage)

	w, recorder := newTestResponseWriter()
	ReviewApplication(ctx, w, newReviewRequest(t, "42", `{"approval_status":"approved"}`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, storage.reviews)
}
