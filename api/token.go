package api

import (
	"fmt"
	"net/http"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/helpers"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/mitchellh/mapstructure"
	"github.com/thedevsaddam/govalidator"
)

// IssuePaymentToken mints a signed capability token binding one student to
// one payable amount. Minting is stateless; the token is delivered out of
// band as a /pay link.
func IssuePaymentToken(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsAdmin {
		w.Write(http.StatusForbidden, nil, nil, middlewares.Responses.InvalidRoles)
		return
	}

	var opts models.IssuePayTokenOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.IssuePayTokenRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	issuer, err := helpers.NewPayTokenIssuer(ctx.Config.PayTokenSecret)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	// Application-linked tokens get the longer window, and only approved
	// applications are payable.
	ttl := helpers.DefaultPayTokenTTL
	if opts.ApplicationID != 0 {
		app, err := ctx.DB.GetApplicationByID(opts.ApplicationID)
		if err != nil {
			w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
			return
		}

		if app == nil {
			w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.ApplicationNotFound)
			return
		}

		if app.ApprovalStatus != models.ApprovalStatusApproved {
			w.Write(http.StatusConflict, nil, nil, middlewares.Responses.ApplicationRejected)
			return
		}

		ttl = helpers.ApplicationPayTokenTTL
	}

	token, err := issuer.Issue(opts.FirebaseUID, opts.Amount, ttl)
	if err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed issuing token")
		return
	}

	result := issuer.Validate(token)

	w.WriteJSON(http.StatusOK, models.IssuePayTokenResponse{
		Token:     token,
		URL:       fmt.Sprintf("%s/pay?token=%s", ctx.Config.FrontendURL, token),
		ExpiresAt: result.ExpiresAt,
	}, nil, "")
}

// ValidatePaymentToken reports whether a presented token currently
// authorizes payment. The endpoint always answers 200; invalid tokens carry
// a typed error kind instead of an HTTP failure.
func ValidatePaymentToken(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	var opts models.ValidatePayTokenOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.ValidatePayTokenRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.WriteJSON(http.StatusBadRequest, errs, nil, "failed validations")
		return
	}

	issuer, err := helpers.NewPayTokenIssuer(ctx.Config.PayTokenSecret)
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "token issuer misconfigured")
		return
	}

	result := issuer.Validate(opts.Token)
	if !result.Valid {
		w.WriteJSON(http.StatusOK, models.PayTokenResponse{Valid: false, Error: result.Err}, nil, "")
		return
	}

	w.WriteJSON(http.StatusOK, models.PayTokenResponse{
		Valid:       true,
		FirebaseUID: result.FirebaseUID,
		Amount:      result.Amount,
		ExpiresAt:   result.ExpiresAt,
	}, nil, "")
}

// RedeemPaymentToken consumes a valid token exactly once. Consumption is a
// check-and-set against the consumed-token registry, not the usedAt field
// inside the bearer token, so concurrent redemptions of the same token
// cannot both pass.
func RedeemPaymentToken(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	var opts models.RedeemPayTokenOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.RedeemPayTokenRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	issuer, err := helpers.NewPayTokenIssuer(ctx.Config.PayTokenSecret)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	result := issuer.Validate(opts.Token)
	if !result.Valid {
		w.WriteJSON(http.StatusOK, models.PayTokenResponse{Valid: false, Error: result.Err}, nil, "")
		return
	}

	fresh, err := ctx.DB.ConsumeToken(result.Signature, result.FirebaseUID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if !fresh {
		w.WriteJSON(http.StatusOK, models.PayTokenResponse{Valid: false, Error: helpers.TokenErrUsed}, nil, "")
		return
	}

	w.WriteJSON(http.StatusOK, models.PayTokenResponse{
		Valid:       true,
		FirebaseUID: result.FirebaseUID,
		Amount:      result.Amount,
		ExpiresAt:   result.ExpiresAt,
	}, nil, "")
}
