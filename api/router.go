package api

import (
	"net/http"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/server"
)

// HealthcheckHandler indicates the service's healthy
func HealthcheckHandler(_ *config.AppContext, w *middlewares.ResponseWriter, _ *http.Request) {
	w.String(http.StatusOK, "OK")
}

// GetRoutes ...
func GetRoutes() []*server.Route {
	return []*server.Route{
		{Path: "/healthcheck", Methods: []string{"GET", "HEAD"}, Handler: HealthcheckHandler, IsProtected: false},

		// Auth
		{Path: "/auth/login", Methods: []string{"POST", "HEAD"}, Handler: Login, IsProtected: false},
		{Path: "/auth/session", Methods: []string{"POST", "HEAD"}, Handler: CreateSession, IsProtected: false},
		{Path: "/auth/linkedin/callback", Methods: []string{"GET", "HEAD"}, Handler: LinkedInCallback, IsProtected: false},
		{Path: "/auth/logout", Methods: []string{"POST", "HEAD"}, Handler: Logout, IsProtected: false},

		// Payment tokens
		{Path: "/payment/token", Methods: []string{"POST", "HEAD"}, Handler: IssuePaymentToken, IsProtected: true},
		{Path: "/payment/token/validate", Methods: []string{"POST", "HEAD"}, Handler: ValidatePaymentToken, IsProtected: false},
		{Path: "/payment/token/redeem", Methods: []string{"POST", "HEAD"}, Handler: RedeemPaymentToken, IsProtected: false},

		// Razorpay
		{Path: "/payment/webhook/razorpay", Methods: []string{"POST"}, Handler: RazorpayWebhook, IsProtected: false},

		// Applications
		{Path: "/application", Methods: []string{"GET", "HEAD"}, Handler: GetApplications, IsProtected: true},
		{Path: "/application/me", Methods: []string{"GET", "HEAD"}, Handler: GetMyApplication, IsProtected: false},
		{Path: "/application/{application_id}", Methods: []string{"GET", "HEAD"}, Handler: GetApplication, IsProtected: true},
		{Path: "/application/{application_id}/review", Methods: []string{"PUT", "HEAD"}, Handler: ReviewApplication, IsProtected: true},
		{Path: "/application/{application_id}/payment-status", Methods: []string{"PUT", "HEAD"}, Handler: OverridePaymentStatus, IsProtected: true},

		// Session analytics
		{Path: "/session/track", Methods: []string{"POST", "HEAD"}, Handler: TrackSession, IsProtected: false},
	}
}
