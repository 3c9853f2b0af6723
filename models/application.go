package models

import (
	"time"

	"github.com/thedevsaddam/govalidator"
)

// Approval statuses for an admission application.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Payment choices recorded on the application form.
const (
	PaymentChoiceFull    = "full"
	PaymentChoicePartial = "partial"
)

// Application is one student's admission application together with its
// payment state. Payment history lives in the payment_event table and is
// append-only; payment_status changes only through the Razorpay webhook or
// an explicit admin override.
type Application struct {
	ID             int     `json:"id"`
	FirebaseUID    string  `json:"firebase_uid"`
	StudentName    string  `json:"student_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone,omitempty"`
	CourseName     string  `json:"course_name"`
	ApprovalStatus string  `json:"approval_status"`
	PaymentChoice  string  `json:"payment_choice"`
	TotalFee       float64 `json:"total_fee"`
	AmountPaid     float64 `json:"amount_paid"`
	PaymentStatus  string  `json:"payment_status"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	RazorpayLinkID string  `json:"razorpay_link_id,omitempty"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`

	Events []PaymentEvent `json:"payment_history,omitempty"`
}

type GetApplicationsOpts struct {
	CreatedFrom      string   `schema:"created_from"`
	CreatedTo        string   `schema:"created_to"`
	ApplicationIDs   []int    `schema:"application_ids"`
	ApprovalStatuses []string `schema:"approval_status"`
	PaymentStatuses  []string `schema:"payment_status"`
	Emails           []string `schema:"email"`
	CourseNames      []string `schema:"course_name"`
	LimitFrom        int      `schema:"limit_from"`
	LimitTo          int      `schema:"limit_to"`
}

var GetApplicationsRules = govalidator.MapData{
	"created_from":    []string{"date_ISO8601"},
	"created_to":      []string{"date_ISO8601"},
	"application_ids": []string{"array_int"},
	"approval_status": []string{"array_string"},
	"payment_status":  []string{"array_string"},
	"email":           []string{"array_string"},
	"course_name":     []string{"array_string"},
	"limit_from":      []string{"numeric"},
	"limit_to":        []string{"numeric"},
}

type ReviewApplicationOpts struct {
	ApprovalStatus string  `json:"approval_status"`
	TotalFee       float64 `json:"total_fee"`
}

var ReviewApplicationRules = govalidator.MapData{
	"approval_status": []string{"required", "in:approved,rejected"},
	"total_fee":       []string{"numeric"},
}

type OverridePaymentStatusOpts struct {
	PaymentStatus string `json:"payment_status"`
	Note          string `json:"note"`
}

var OverridePaymentStatusRules = govalidator.MapData{
	"payment_status": []string{"required", "in:pending,partial,paid,failed"},
	"note":           []string{"required"},
}

type ApplicationsStruct struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
}
