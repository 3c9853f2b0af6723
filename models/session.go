package models

import (
	"github.com/thedevsaddam/govalidator"
)

type TrackSessionOpts struct {
	SessionID string `json:"session_id"`
	Page      string `json:"page"`
	Referrer  string `json:"referrer"`
	UTMSource string `json:"utm_source"`
	UTMMedium string `json:"utm_medium"`
}

var TrackSessionRules = govalidator.MapData{
	"session_id": []string{"required"},
	"page":       []string{"required"},
	"referrer":   []string{},
	"utm_source": []string{},
	"utm_medium": []string{},
}
