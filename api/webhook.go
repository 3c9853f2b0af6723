package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/helpers"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/findhari93-sketch/NeramNewApp-sub004/razorpay"
	"github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// RazorpayWebhook authenticates and applies a Razorpay notification. The
// signature check runs over the raw body bytes before any parsing; nothing
// is persisted unless the HMAC matches.
func RazorpayWebhook(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.StartLogger("RazorpayWebhook")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed reading body")
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get(razorpay.SignatureHeader)
	if !razorpay.VerifyWebhookSignature(body, signature, ctx.Config.Razorpay.WebhookSecret) {
		w.WriteJSON(http.StatusBadRequest, nil, nil, "invalid webhook signature")
		return
	}

	var event razorpay.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed unmarshaling body")
		return
	}

	fresh := true
	if event.ID != "" {
		recorded, err := ctx.DB.RecordWebhookEvent(event.ID)
		if err != nil {
			w.LogError(err, "failed recording webhook event id")
		} else {
			fresh = recorded
			if !fresh {
				w.LogWarn("replayed webhook event", log.Fields{"event_id": event.ID})
			}
		}
	}

	app, viaFallback, err := resolveApplication(ctx, &event)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed resolving application")
		return
	}

	if app == nil {
		// Acknowledge so Razorpay stops retrying; there is nothing to
		// attach this notification to.
		w.LogWarn("webhook did not resolve an application", log.Fields{"event": event.Event, "event_id": event.ID})
		w.WriteJSON(http.StatusOK, map[string]interface{}{"status": "ignored"}, nil, "")
		return
	}

	if viaFallback {
		w.LogWarn("application resolved through payment link fallback", log.Fields{
			"application_id":   app.ID,
			"razorpay_link_id": app.RazorpayLinkID,
		})
	}

	status := derivePaymentStatus(event.Event, app.PaymentChoice)
	if status == "" {
		w.LogInfo(nil, fmt.Sprintf("ignoring event %s", event.Event))
		w.WriteJSON(http.StatusOK, map[string]interface{}{"status": "ignored"}, nil, "")
		return
	}

	var payment razorpay.PaymentEntity
	if event.Payload.Payment != nil {
		payment = event.Payload.Payment.Entity
	}

	if payment.ID != "" && ctx.Razorpay != nil {
		remote, err := ctx.Razorpay.GetPayment(payment.ID)
		if err != nil {
			w.LogWarn("failed confirming payment with razorpay", log.Fields{"razorpay_payment_id": payment.ID})
		} else if remote.Status != payment.Status {
			w.LogWarn("payment status differs from razorpay record", log.Fields{
				"razorpay_payment_id": payment.ID,
				"webhook_status":      payment.Status,
				"razorpay_status":     remote.Status,
			})
		}
	}

	amountPaise := payment.Amount
	if amountPaise == 0 && event.Payload.PaymentLink != nil {
		amountPaise = event.Payload.PaymentLink.Entity.Amount
	}

	update := models.PaymentUpdate{
		ApplicationID:     app.ID,
		Event:             event.Event,
		RazorpayPaymentID: payment.ID,
		Amount:            float64(amountPaise) / 100,
		Method:            payment.Method,
		PaymentStatus:     status,
		Replay:            !fresh,
	}
	if status == models.PaymentStatusFailed {
		update.Amount = 0
	}

	if err := ctx.DB.ApplyPaymentUpdate(&update); err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed applying payment update")
		return
	}

	if status == models.PaymentStatusPaid || status == models.PaymentStatusPartial {
		invoice := newPaymentInvoice(app, &event, &update)

		go func(ctx *config.AppContext, w *middlewares.ResponseWriter, invoice *models.Invoice) {
			if ok, err := SendPaymentConfirmation(ctx, invoice); !ok {
				w.LogError(err, "failed sending payment confirmation")
				return
			}
			w.LogInfo(nil, "success sending payment confirmation")
		}(ctx, w, invoice)
	}

	w.WriteJSON(http.StatusOK, map[string]interface{}{"status": "processed"}, nil, "")
}

func newPaymentInvoice(app *models.Application, event *razorpay.WebhookEvent, update *models.PaymentUpdate) *models.Invoice {
	invoice := &models.Invoice{
		Number:      fmt.Sprintf("NERAM-%s", shortuuid.New()),
		StudentName: app.StudentName,
		Email:       app.Email,
		CourseName:  app.CourseName,
		Amount:      update.Amount,
		Currency:    "INR",
		PaymentID:   update.RazorpayPaymentID,
		Method:      update.Method,
		Status:      update.PaymentStatus,
		PaidAt:      time.Now(),
	}
	if event.Payload.PaymentLink != nil {
		invoice.PaymentLink = event.Payload.PaymentLink.Entity.ShortURL
	}
	return invoice
}

// resolveApplication correlates the webhook payload to an application: the
// application_id note is the primary binding, the processor-assigned payment
// link id the weaker fallback.
func resolveApplication(ctx *config.AppContext, event *razorpay.WebhookEvent) (*models.Application, bool, error) {
	notes := map[string]string{}
	if event.Payload.Payment != nil {
		notes = event.Payload.Payment.Entity.Notes
	}
	if len(notes) == 0 && event.Payload.PaymentLink != nil {
		notes = event.Payload.PaymentLink.Entity.Notes
	}

	if raw, ok := notes["application_id"]; ok && raw != "" {
		applicationID, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, nil
		}
		app, err := ctx.DB.GetApplicationByID(applicationID)
		if err != nil {
			return nil, false, err
		}
		if app != nil {
			return app, false, nil
		}
	}

	if event.Payload.PaymentLink != nil && event.Payload.PaymentLink.Entity.ID != "" {
		app, err := ctx.DB.GetApplicationByRazorpayLinkID(event.Payload.PaymentLink.Entity.ID)
		if err != nil {
			return nil, false, err
		}
		if app != nil {
			return app, true, nil
		}
	}

	return nil, false, nil
}

func derivePaymentStatus(eventType string, paymentChoice string) string {
	switch eventType {
	case razorpay.EventPaymentCaptured, razorpay.EventPaymentLinkPaid:
		if paymentChoice == models.PaymentChoicePartial {
			return models.PaymentStatusPartial
		}
		return models.PaymentStatusPaid
	case razorpay.EventPaymentFailed, razorpay.EventPaymentLinkFailed:
		return models.PaymentStatusFailed
	}
	return ""
}

// SendPaymentConfirmation renders the invoice PDF, archives a copy to S3 and
// delivers the receipt to the payer plus a notice to the admin list. A
// delivery failure never unwinds the payment state already committed.
func SendPaymentConfirmation(ctx *config.AppContext, invoice *models.Invoice) (bool, error) {
	if ctx.AwsSMTP == nil {
		return false, errors.New("smtp is not configured")
	}

	pdfBuffer, err := helpers.GenerateInvoicePDF(invoice)
	if err != nil {
		return false, errors.Wrap(err, "failed generating invoice PDF")
	}

	if ctx.AwsS3 != nil {
		if _, err := helpers.AddFileToS3(ctx, pdfBuffer, fmt.Sprintf("%s/%s.pdf", ctx.Config.AwsS3.S3PathInvoice, invoice.Number)); err != nil {
			log.WithFields(log.Fields{"error": err, "invoice": invoice.Number}).Warn("failed archiving invoice to s3")
		}
	}

	ed := &helpers.EmailData{
		EmailTo:      invoice.Email,
		NameTo:       invoice.StudentName,
		EmailFrom:    ctx.Config.Mail.EmailFrom,
		NameFrom:     ctx.Config.Mail.NameFrom,
		Subject:      ctx.Config.Mail.PaymentSuccess.Subject,
		TemplatePath: fmt.Sprintf("%s%s/%s", ctx.Config.Mail.Folder, ctx.Config.Mail.Path, ctx.Config.Mail.PaymentSuccess.Template),
		FileName:     ctx.Config.Mail.PaymentSuccess.FileName,
		FileContent:  pdfBuffer.Bytes(),
		AwsSMTP:      ctx.AwsSMTP,
	}

	err = ed.SendEmail(models.PaymentSuccessHTML{
		StudentName: invoice.StudentName,
		CourseName:  invoice.CourseName,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		InvoiceNo:   invoice.Number,
	})
	if err != nil {
		return false, errors.Wrap(err, "failed sending payer email")
	}

	if len(ctx.Config.Mail.AdminList) > 0 {
		notice := &helpers.EmailData{
			EmailFrom:    ctx.Config.Mail.EmailFrom,
			NameFrom:     ctx.Config.Mail.NameFrom,
			Subject:      ctx.Config.Mail.AdminNotice.Subject,
			TemplatePath: fmt.Sprintf("%s%s/%s", ctx.Config.Mail.Folder, ctx.Config.Mail.Path, ctx.Config.Mail.AdminNotice.Template),
			AwsSMTP:      ctx.AwsSMTP,
		}

		err = notice.SendEmailMany(ctx.Config.Mail.AdminList, models.AdminNoticeHTML{
			StudentName: invoice.StudentName,
			Email:       invoice.Email,
			CourseName:  invoice.CourseName,
			Amount:      invoice.Amount,
			Currency:    invoice.Currency,
			PaymentID:   invoice.PaymentID,
			Status:      invoice.Status,
			PaidAt:      invoice.PaidAt.Format("02-01-2006 15:04"),
		})
		if err != nil {
			return false, errors.Wrap(err, "failed sending admin notice")
		}
	}

	return true, nil
}
