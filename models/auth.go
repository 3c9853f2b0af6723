package models

import (
	"time"

	"github.com/thedevsaddam/govalidator"
)

type LoginOpts struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var LoginRules = govalidator.MapData{
	"email":    []string{"required", "email"},
	"password": []string{"required"},
}

type CreateSessionOpts struct {
	IDToken string `json:"id_token"`
}

var CreateSessionRules = govalidator.MapData{
	"id_token": []string{"required"},
}

// InfoUser is the request identity decoded by the session and JWT
// middlewares into the request context.
type InfoUser struct {
	UID      string
	Email    string
	Provider string
	IsAdmin  bool
}

type AdminUser struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"-"`

	Created time.Time `json:"created,omitempty"`
	Active  bool      `json:"active"`

	Token string `json:"token,omitempty"`
}
