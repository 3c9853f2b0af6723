package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/helpers"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/findhari93-sketch/NeramNewApp-sub004/razorpay"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/mitchellh/mapstructure"
	"github.com/thedevsaddam/govalidator"
)

func GetApplications(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsAdmin {
		w.WriteJSON(http.StatusForbidden, nil, nil, "invalid roles")
		return
	}

	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.GetApplicationsRules,
	}
	v := govalidator.New(validatorOpts)
	errs := v.Validate()
	if len(errs) > 0 {
		w.WriteJSON(http.StatusBadRequest, errs, nil, "failed validations")
		return
	}

	var opts models.GetApplicationsOpts
	decoder := schema.NewDecoder()
	decoder.Decode(&opts, r.URL.Query())

	applications, err := ctx.DB.GetApplications(&opts)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed getting applications")
		return
	}

	w.WriteJSON(http.StatusOK, applications, nil, "")
}

func GetApplication(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsAdmin {
		w.WriteJSON(http.StatusForbidden, nil, nil, "invalid roles")
		return
	}

	vars := mux.Vars(r)
	applicationID, err := strconv.Atoi(vars["application_id"])
	if err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed parsing application id")
		return
	}

	app, err := ctx.DB.GetApplicationByID(applicationID)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed getting application")
		return
	}

	if app == nil {
		w.WriteJSON(http.StatusNotFound, nil, nil, "application not found")
		return
	}

	app.Events, err = ctx.DB.GetPaymentEvents(app.ID)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed getting payment history")
		return
	}

	w.WriteJSON(http.StatusOK, app, nil, "")
}

// GetMyApplication serves the student dashboard; identity comes from the
// session cookie, not a path parameter.
func GetMyApplication(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if userInfo.UID == "" {
		w.Write(http.StatusUnauthorized, nil, nil, middlewares.Responses.Unauthorized)
		return
	}

	app, err := ctx.DB.GetApplicationByUID(userInfo.UID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if app == nil {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.ApplicationNotFound)
		return
	}

	app.Events, err = ctx.DB.GetPaymentEvents(app.ID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	w.WriteJSON(http.StatusOK, app, nil, "")
}

// ReviewApplication records the admin approval decision. Approval sets the
// fee, creates a Razorpay payment link bound to the application and mails
// the student a week-long payment token link.
func ReviewApplication(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsAdmin {
		w.Write(http.StatusForbidden, nil, nil, middlewares.Responses.InvalidRoles)
		return
	}

	vars := mux.Vars(r)
	applicationID, err := strconv.Atoi(vars["application_id"])
	if err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed parsing application id")
		return
	}

	var opts models.ReviewApplicationOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.ReviewApplicationRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	app, err := ctx.DB.GetApplicationByID(applicationID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if app == nil {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.ApplicationNotFound)
		return
	}

	if opts.ApprovalStatus == models.ApprovalStatusApproved && opts.TotalFee <= 0 {
		w.WriteJSON(http.StatusBadRequest, nil, nil, "total fee required to approve")
		return
	}

	if err := ctx.DB.ReviewApplication(applicationID, opts.ApprovalStatus, opts.TotalFee); err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if opts.ApprovalStatus != models.ApprovalStatusApproved {
		w.WriteJSON(http.StatusNoContent, nil, nil, "")
		return
	}

	issuer, err := helpers.NewPayTokenIssuer(ctx.Config.PayTokenSecret)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	token, err := issuer.Issue(app.FirebaseUID, opts.TotalFee, helpers.ApplicationPayTokenTTL)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed issuing payment token")
		return
	}

	link, err := ctx.Razorpay.CreatePaymentLink(
		int64(math.Round(opts.TotalFee*100)),
		fmt.Sprintf("Neram %s admission fee", app.CourseName),
		razorpay.Customer{Name: app.StudentName, Email: app.Email, Contact: app.Phone},
		map[string]string{"application_id": strconv.Itoa(app.ID)},
	)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "problems with Razorpay")
		return
	}

	if err := ctx.DB.SetApplicationPaymentLink(app.ID, link.ID); err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	result := issuer.Validate(token)

	go func(ctx *config.AppContext, app *models.Application, payURL string, expiresAt string) {
		ed := &helpers.EmailData{
			EmailTo:      app.Email,
			NameTo:       app.StudentName,
			EmailFrom:    ctx.Config.Mail.EmailFrom,
			NameFrom:     ctx.Config.Mail.NameFrom,
			Subject:      ctx.Config.Mail.PaymentLink.Subject,
			TemplatePath: fmt.Sprintf("%s%s/%s", ctx.Config.Mail.Folder, ctx.Config.Mail.Path, ctx.Config.Mail.PaymentLink.Template),
			AwsSMTP:      ctx.AwsSMTP,
		}

		err := ed.SendEmail(models.PaymentLinkHTML{
			StudentName: app.StudentName,
			CourseName:  app.CourseName,
			Amount:      opts.TotalFee,
			URL:         payURL,
			ExpiresAt:   expiresAt,
		})
		if err != nil {
			w.LogError(err, "failed sending payment link email")
			return
		}
		w.LogInfo(nil, "success sending payment link email")
	}(ctx, app, fmt.Sprintf("%s/pay?token=%s", ctx.Config.FrontendURL, token), helpers.FormatEpochMilli(result.ExpiresAt))

	w.WriteJSON(http.StatusOK, map[string]interface{}{
		"application_id":   app.ID,
		"razorpay_link_id": link.ID,
		"payment_url":      link.ShortURL,
	}, nil, "")
}

// OverridePaymentStatus is the explicit admin path around the webhook.
func OverridePaymentStatus(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsAdmin {
		w.Write(http.StatusForbidden, nil, nil, middlewares.Responses.InvalidRoles)
		return
	}

	vars := mux.Vars(r)
	applicationID, err := strconv.Atoi(vars["application_id"])
	if err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed parsing application id")
		return
	}

	var opts models.OverridePaymentStatusOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.OverridePaymentStatusRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	app, err := ctx.DB.GetApplicationByID(applicationID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if app == nil {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.ApplicationNotFound)
		return
	}

	if err := ctx.DB.OverridePaymentStatus(applicationID, opts.PaymentStatus, opts.Note); err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	w.WriteJSON(http.StatusNoContent, nil, nil, "")
}
