package db

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := tryOpenConnection(sqlx.NewDb(mockDB, "sqlmock"))
	require.NoError(t, err)
	return db, mock
}

func TestApplyPaymentUpdate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO payment_event").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare("UPDATE application").
		ExpectExec().
		WithArgs(models.PaymentStatusPaid, "upi", 25000.0, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.ApplyPaymentUpdate(&models.PaymentUpdate{
		ApplicationID:     42,
		Event:             "payment.captured",
		RazorpayPaymentID: "pay_1",
		Amount:            25000,
		Method:            "upi",
		PaymentStatus:     models.PaymentStatusPaid,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentUpdateReplaySkipsAccrual(t *testing.T) {
	db, mock := newMockDB(t)

	// The replayed delivery still appends its history row, but the
	// application update carries no amount argument at all.
	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO payment_event").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectPrepare("UPDATE application").
		ExpectExec().
		WithArgs(models.PaymentStatusPaid, "upi", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.ApplyPaymentUpdate(&models.PaymentUpdate{
		ApplicationID:     42,
		Event:             "payment.captured",
		RazorpayPaymentID: "pay_1",
		Amount:            25000,
		Method:            "upi",
		PaymentStatus:     models.PaymentStatusPaid,
		Replay:            true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentUpdateRollsBackOnMissingApplication(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO payment_event").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare("UPDATE application").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := db.ApplyPaymentUpdate(&models.PaymentUpdate{
		ApplicationID: 99,
		Event:         "payment.captured",
		PaymentStatus: models.PaymentStatusPaid,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentUpdateRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO payment_event").
		ExpectExec().
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := db.ApplyPaymentUpdate(&models.PaymentUpdate{
		ApplicationID: 42,
		Event:         "payment.captured",
		PaymentStatus: models.PaymentStatusPaid,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWebhookEvent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectPrepare("INSERT INTO webhook_event").
		ExpectExec().
		WithArgs("evt_1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	fresh, err := db.RecordWebhookEvent("evt_1")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWebhookEventReplay(t *testing.T) {
	db, mock := newMockDB(t)

	// ON CONFLICT DO NOTHING reports zero rows for an already-seen id.
	mock.ExpectPrepare("INSERT INTO webhook_event").
		ExpectExec().
		WithArgs("evt_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	fresh, err := db.RecordWebhookEvent("evt_1")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}
