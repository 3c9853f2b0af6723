package db

import (
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/pkg/errors"
)

type PaymentStorage interface {
	ApplyPaymentUpdate(*models.PaymentUpdate) error
	GetPaymentEvents(applicationID int) ([]models.PaymentEvent, error)
	RecordWebhookEvent(eventID string) (bool, error)
}

const (
	insertPaymentEvent = `
	INSERT INTO payment_event
		(application_id, event, razorpay_payment_id, amount, method, status, note, created)
	VALUES
		(:application_id, :event, :razorpay_payment_id, :amount, :method, :status, :note, now())
	`

	getPaymentEvents = `
	SELECT
		payment_event.id,
		payment_event.application_id,
		payment_event.event,
		payment_event.razorpay_payment_id,
		payment_event.amount,
		payment_event.method,
		payment_event.status,
		payment_event.note,
		payment_event.created
	FROM payment_event
	WHERE payment_event.application_id = :application_id
	ORDER BY payment_event.id ASC
	`

	updateApplicationPayment = `
	UPDATE application
	SET
		payment_status = :payment_status,
		payment_method = :payment_method,
		amount_paid = amount_paid + :amount,
		updated = now()
	WHERE
		id = :application_id
	`

	// Redelivered events re-derive the same status but must not run the
	// amount_paid accrual again.
	updateApplicationPaymentStatusOnly = `
	UPDATE application
	SET
		payment_status = :payment_status,
		payment_method = :payment_method,
		updated = now()
	WHERE
		id = :application_id
	`

	// ON CONFLICT DO NOTHING makes the insert a check-and-set: zero rows
	// affected means the processor event id was seen before.
	insertWebhookEvent = `
	INSERT INTO webhook_event (event_id, received)
	VALUES (:event_id, now())
	ON CONFLICT (event_id) DO NOTHING
	`
)

// ApplyPaymentUpdate commits the webhook-driven mutation as one transaction:
// a row appended to the payment history plus the status update on the
// application. History rows are only ever inserted, so concurrent webhook
// deliveries cannot clobber each other's appends.
func (db *DB) ApplyPaymentUpdate(update *models.PaymentUpdate) error {
	tx, err := db.NewTx()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}

		tx.Commit()
	}()

	err = db.insertPaymentEventTx(tx, &models.PaymentEvent{
		ApplicationID:     update.ApplicationID,
		Event:             update.Event,
		RazorpayPaymentID: update.RazorpayPaymentID,
		Amount:            update.Amount,
		Method:            update.Method,
		Status:            update.PaymentStatus,
	})
	if err != nil {
		return err
	}

	err = db.updateApplicationPaymentTx(tx, update)
	if err != nil {
		return err
	}

	return nil
}

func (db *DB) insertPaymentEventTx(tx Tx, event *models.PaymentEvent) error {
	stmt, err := tx.PrepareNamed(insertPaymentEvent)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"application_id":      event.ApplicationID,
		"event":               event.Event,
		"razorpay_payment_id": event.RazorpayPaymentID,
		"amount":              event.Amount,
		"method":              event.Method,
		"status":              event.Status,
		"note":                event.Note,
	}

	result, err := stmt.Exec(args)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected != 1 {
		return errors.Errorf("expected %d and inserted %d rows", 1, rowsAffected)
	}

	return nil
}

func (db *DB) updateApplicationPaymentTx(tx Tx, update *models.PaymentUpdate) error {
	query := updateApplicationPayment
	args := map[string]interface{}{
		"application_id": update.ApplicationID,
		"payment_status": update.PaymentStatus,
		"payment_method": update.Method,
		"amount":         update.Amount,
	}

	if update.Replay {
		query = updateApplicationPaymentStatusOnly
		delete(args, "amount")
	}

	stmt, err := tx.PrepareNamed(query)
	if err != nil {
		return err
	}

	result, err := stmt.Exec(args)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected != 1 {
		return errors.Errorf("expected %d and updated %d rows", 1, rowsAffected)
	}

	return nil
}

func (db *DB) GetPaymentEvents(applicationID int) ([]models.PaymentEvent, error) {
	stmt, err := db.PrepareNamed(getPaymentEvents)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(map[string]interface{}{
		"application_id": applicationID,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.PaymentEvent
	for rows.Next() {
		var event models.PaymentEvent
		if err := rows.Scan(
			&event.ID,
			&event.ApplicationID,
			&event.Event,
			&event.RazorpayPaymentID,
			&event.Amount,
			&event.Method,
			&event.Status,
			&event.Note,
			&event.Created,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// RecordWebhookEvent stores a processor event id and reports whether it was
// new. Duplicates are recorded rather than rejected; a replay still appends
// its history row, and the caller uses the result to skip the amount accrual.
func (db *DB) RecordWebhookEvent(eventID string) (bool, error) {
	stmt, err := db.PrepareNamed(insertWebhookEvent)
	if err != nil {
		return false, err
	}

	result, err := stmt.Exec(map[string]interface{}{
		"event_id": eventID,
	})
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}
