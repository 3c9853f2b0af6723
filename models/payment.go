package models

import "time"

// Payment statuses derived from Razorpay webhook events.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentEvent is one entry of an application's append-only payment history.
// Rows are only ever inserted; replayed webhooks append duplicates instead of
// rewriting earlier entries.
type PaymentEvent struct {
	ID                int       `json:"id,omitempty"`
	ApplicationID     int       `json:"application_id"`
	Event             string    `json:"event"`
	RazorpayPaymentID string    `json:"razorpay_payment_id,omitempty"`
	Amount            float64   `json:"amount"`
	Method            string    `json:"method,omitempty"`
	Status            string    `json:"status"`
	Note              string    `json:"note,omitempty"`
	Created           time.Time `json:"created"`
}

// PaymentUpdate is the single webhook-driven mutation: one status update on
// the application plus one appended history entry, committed together.
// Replay marks a redelivered processor event: the history row is still
// appended but amount_paid must not accrue a second time.
type PaymentUpdate struct {
	ApplicationID     int
	Event             string
	RazorpayPaymentID string
	Amount            float64
	Method            string
	PaymentStatus     string
	Replay            bool
}

type Invoice struct {
	Number      string
	StudentName string
	Email       string
	CourseName  string
	Amount      float64
	Currency    string
	PaymentID   string
	Method      string
	Status      string
	PaidAt      time.Time
	PaymentLink string
}

type InvoiceHTML struct {
	Number      string
	StudentName string
	CourseName  string
	Amount      float64
	Currency    string
	PaymentID   string
	Method      string
	PaidAt      string
	QRImage     string
}

type PaymentSuccessHTML struct {
	StudentName string
	CourseName  string
	Amount      float64
	Currency    string
	InvoiceNo   string
}

type AdminNoticeHTML struct {
	StudentName string
	Email       string
	CourseName  string
	Amount      float64
	Currency    string
	PaymentID   string
	Status      string
	PaidAt      string
}

type PaymentLinkHTML struct {
	StudentName string
	CourseName  string
	Amount      float64
	URL         string
	ExpiresAt   string
}
