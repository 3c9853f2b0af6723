package db

import (
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
)

type SessionStorage interface {
	UpsertSession(sessionID string, firebaseUID string) error
	TrackPageVisit(*models.TrackSessionOpts) error
}

// Session bookkeeping goes through Supabase stored procedures so the
// website and this service share one write path.
const (
	upsertSession = `
	SELECT upsert_session(:session_id, :firebase_uid)
	`

	trackPageVisit = `
	SELECT track_page_visit(:session_id, :page, :referrer, :utm_source, :utm_medium)
	`
)

func (db *DB) UpsertSession(sessionID string, firebaseUID string) error {
	stmt, err := db.PrepareNamed(upsertSession)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"session_id":   sessionID,
		"firebase_uid": firebaseUID,
	}

	_, err = stmt.Exec(args)
	if err != nil {
		return err
	}

	return nil
}

func (db *DB) TrackPageVisit(opts *models.TrackSessionOpts) error {
	stmt, err := db.PrepareNamed(trackPageVisit)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"session_id": opts.SessionID,
		"page":       opts.Page,
		"referrer":   opts.Referrer,
		"utm_source": opts.UTMSource,
		"utm_medium": opts.UTMMedium,
	}

	_, err = stmt.Exec(args)
	if err != nil {
		return err
	}

	return nil
}
