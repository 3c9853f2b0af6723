package models

import (
	"github.com/thedevsaddam/govalidator"
)

type IssuePayTokenOpts struct {
	FirebaseUID   string  `json:"firebase_uid"`
	Amount        float64 `json:"amount"`
	ApplicationID int     `json:"application_id"`
}

var IssuePayTokenRules = govalidator.MapData{
	"firebase_uid":   []string{"required"},
	"amount":         []string{"required", "numeric"},
	"application_id": []string{"numeric"},
}

type ValidatePayTokenOpts struct {
	Token string `json:"token"`
}

var ValidatePayTokenRules = govalidator.MapData{
	"token": []string{"required"},
}

type RedeemPayTokenOpts struct {
	Token string `json:"token"`
}

var RedeemPayTokenRules = govalidator.MapData{
	"token": []string{"required"},
}

// PayTokenResponse is the validate-endpoint contract. Error is one of the
// token error kinds (malformed, invalid_signature, expired, used) and is
// empty when Valid is true.
type PayTokenResponse struct {
	Valid       bool    `json:"valid"`
	FirebaseUID string  `json:"firebase_uid,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	ExpiresAt   int64   `json:"expires_at,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type IssuePayTokenResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}
