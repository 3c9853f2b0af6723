package db

import (
	"database/sql"
	"strings"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type ApplicationStorage interface {
	GetApplicationByID(applicationID int) (*models.Application, error)
	GetApplicationByUID(firebaseUID string) (*models.Application, error)
	GetApplicationByRazorpayLinkID(linkID string) (*models.Application, error)
	GetApplications(*models.GetApplicationsOpts) (*models.ApplicationsStruct, error)
	ReviewApplication(applicationID int, approvalStatus string, totalFee float64) error
	SetApplicationPaymentLink(applicationID int, razorpayLinkID string) error
	OverridePaymentStatus(applicationID int, paymentStatus string, note string) error
}

const (
	applicationColumns = `
		application.id,
		application.firebase_uid,
		application.student_name,
		application.email,
		application.phone,
		application.course_name,
		application.approval_status,
		application.payment_choice,
		application.total_fee,
		application.amount_paid,
		application.payment_status,
		application.payment_method,
		application.razorpay_link_id,
		application.created,
		application.updated
	`

	getApplicationByID = `
	SELECT ` + applicationColumns + `
	FROM application
	WHERE application.id = :application_id
	`

	getApplicationByUID = `
	SELECT ` + applicationColumns + `
	FROM application
	WHERE application.firebase_uid = :firebase_uid
	ORDER BY application.created DESC
	LIMIT 1
	`

	getApplicationByRazorpayLinkID = `
	SELECT ` + applicationColumns + `
	FROM application
	WHERE application.razorpay_link_id = :razorpay_link_id
	`

	getApplications = `
	SELECT ` + applicationColumns + `
	FROM application
	WHERE 1 = 1
	#FILTERS#
	ORDER BY application.created DESC
	LIMIT :limit_to OFFSET :limit_from
	`

	countApplications = `
	SELECT COUNT(*)
	FROM application
	WHERE 1 = 1
	#FILTERS#
	`

	reviewApplication = `
	UPDATE application
	SET
		approval_status = :approval_status,
		total_fee = :total_fee,
		updated = now()
	WHERE
		id = :application_id
	`

	setApplicationPaymentLink = `
	UPDATE application
	SET
		razorpay_link_id = :razorpay_link_id,
		updated = now()
	WHERE
		id = :application_id
	`

	overridePaymentStatus = `
	UPDATE application
	SET
		payment_status = :payment_status,
		updated = now()
	WHERE
		id = :application_id
	`
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	var phone, method, linkID sql.NullString

	if err := row.Scan(
		&app.ID,
		&app.FirebaseUID,
		&app.StudentName,
		&app.Email,
		&phone,
		&app.CourseName,
		&app.ApprovalStatus,
		&app.PaymentChoice,
		&app.TotalFee,
		&app.AmountPaid,
		&app.PaymentStatus,
		&method,
		&linkID,
		&app.Created,
		&app.Updated,
	); err != nil {
		return nil, err
	}

	app.Phone = phone.String
	app.PaymentMethod = method.String
	app.RazorpayLinkID = linkID.String

	return &app, nil
}

func (db *DB) getApplication(query string, args map[string]interface{}) (*models.Application, error) {
	stmt, err := db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}

	app, err := scanApplication(stmt.QueryRow(args))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return app, nil
}

func (db *DB) GetApplicationByID(applicationID int) (*models.Application, error) {
	return db.getApplication(getApplicationByID, map[string]interface{}{
		"application_id": applicationID,
	})
}

func (db *DB) GetApplicationByUID(firebaseUID string) (*models.Application, error) {
	return db.getApplication(getApplicationByUID, map[string]interface{}{
		"firebase_uid": firebaseUID,
	})
}

func (db *DB) GetApplicationByRazorpayLinkID(linkID string) (*models.Application, error) {
	return db.getApplication(getApplicationByRazorpayLinkID, map[string]interface{}{
		"razorpay_link_id": linkID,
	})
}

func (db *DB) GetApplications(opts *models.GetApplicationsOpts) (*models.ApplicationsStruct, error) {
	filters := ""
	args := make(map[string]interface{})

	if opts.CreatedFrom != "" {
		filters += " AND application.created >= :created_from "
		args["created_from"] = opts.CreatedFrom
	}
	if opts.CreatedTo != "" {
		filters += " AND application.created <= :created_to "
		args["created_to"] = opts.CreatedTo
	}
	if len(opts.ApplicationIDs) != 0 {
		filters += " AND application.id IN (:application_ids) "
		args["application_ids"] = opts.ApplicationIDs
	}
	if len(opts.ApprovalStatuses) != 0 {
		filters += " AND application.approval_status IN (:approval_statuses) "
		args["approval_statuses"] = opts.ApprovalStatuses
	}
	if len(opts.PaymentStatuses) != 0 {
		filters += " AND application.payment_status IN (:payment_statuses) "
		args["payment_statuses"] = opts.PaymentStatuses
	}
	if len(opts.Emails) != 0 {
		filters += " AND application.email IN (:emails) "
		args["emails"] = opts.Emails
	}
	if len(opts.CourseNames) != 0 {
		filters += " AND application.course_name IN (:course_names) "
		args["course_names"] = opts.CourseNames
	}
	if opts.LimitTo == 0 {
		opts.LimitTo = 10
	}
	args["limit_to"] = opts.LimitTo
	args["limit_from"] = opts.LimitFrom

	total, err := db.countApplications(filters, args)
	if err != nil {
		return nil, err
	}

	query := strings.ReplaceAll(getApplications, "#FILTERS#", filters)

	query, nargs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, err
	}

	query, nargs, err = sqlx.In(query, nargs...)
	if err != nil {
		return nil, err
	}

	query = db.Rebind(query)

	rows, err := db.Query(query, nargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := models.ApplicationsStruct{
		Total: total,
	}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications.Applications = append(applications.Applications, *app)
	}

	return &applications, nil
}

func (db *DB) countApplications(filters string, args map[string]interface{}) (int, error) {
	query := strings.ReplaceAll(countApplications, "#FILTERS#", filters)

	query, nargs, err := sqlx.Named(query, args)
	if err != nil {
		return 0, err
	}

	query, nargs, err = sqlx.In(query, nargs...)
	if err != nil {
		return 0, err
	}

	query = db.Rebind(query)

	row := db.QueryRow(query, nargs...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (db *DB) ReviewApplication(applicationID int, approvalStatus string, totalFee float64) error {
	stmt, err := db.PrepareNamed(reviewApplication)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"application_id":  applicationID,
		"approval_status": approvalStatus,
		"total_fee":       totalFee,
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

func (db *DB) SetApplicationPaymentLink(applicationID int, razorpayLinkID string) error {
	stmt, err := db.PrepareNamed(setApplicationPaymentLink)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"application_id":   applicationID,
		"razorpay_link_id": razorpayLinkID,
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

// OverridePaymentStatus is the explicit admin path around the webhook. The
// override is recorded in the history so the audit trail shows who moved the
// status outside the processor flow.
func (db *DB) OverridePaymentStatus(applicationID int, paymentStatus string, note string) error {
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

	stmt, newErr := tx.PrepareNamed(overridePaymentStatus)
	if newErr != nil {
		err = newErr
		return err
	}

	result, newErr := stmt.Exec(map[string]interface{}{
		"application_id": applicationID,
		"payment_status": paymentStatus,
	})
	if newErr != nil {
		err = newErr
		return err
	}

	rowsAffected, newErr := result.RowsAffected()
	if newErr != nil {
		err = newErr
		return err
	}

	if rowsAffected != 1 {
		err = errors.Errorf("expected %d and updated %d rows", 1, rowsAffected)
		return err
	}

	err = db.insertPaymentEventTx(tx, &models.PaymentEvent{
		ApplicationID: applicationID,
		Event:         "admin.override",
		Status:        paymentStatus,
		Note:          note,
	})
	if err != nil {
		return err
	}

	return nil
}
