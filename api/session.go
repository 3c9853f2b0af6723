package api

import (
	"net/http"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/mitchellh/mapstructure"
	"github.com/thedevsaddam/govalidator"
)

// TrackSession records a page visit through the Supabase stored procedures.
// Tracking is best-effort bookkeeping for the marketing site; a logged-in
// identity is attached when present but never required.
func TrackSession(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	var opts models.TrackSessionOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.TrackSessionRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.WriteJSON(http.StatusBadRequest, errs, nil, "failed validations")
		return
	}

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if err := ctx.DB.UpsertSession(opts.SessionID, userInfo.UID); err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed upserting session")
		return
	}

	if err := ctx.DB.TrackPageVisit(&opts); err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed tracking page visit")
		return
	}

	w.WriteJSON(http.StatusNoContent, nil, nil, "")
}
