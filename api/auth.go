package api

import (
	"net/http"
	"time"

	"github.com/findhari93-sketch/NeramNewApp-sub004/config"
	"github.com/findhari93-sketch/NeramNewApp-sub004/helpers"
	"github.com/findhari93-sketch/NeramNewApp-sub004/middlewares"
	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/thedevsaddam/govalidator"
)

// Login authenticates an admin with email and password and returns a JWT
// for the protected routes.
func Login(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	var opts models.LoginOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.LoginRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	admin, err := ctx.DB.GetAdminByEmail(opts.Email)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if admin == nil {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.AdminNotFound)
		return
	}

	if !helpers.AuthenticateHashedPassword(admin.Password, opts.Password) {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.AdminNotFound)
		return
	}

	admin.Token, err = helpers.GenerateToken(admin, ctx.Config.JWTSecret)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	w.WriteJSON(http.StatusOK, admin, nil, "")
}

// CreateSession exchanges a Firebase ID token for the signed session
// cookie. The ID token is verified against Firebase before anything is
// signed on our side.
func CreateSession(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	var opts models.CreateSessionOpts
	validatorOpts := govalidator.Options{
		Request: r,
		Rules:   models.CreateSessionRules,
		Data:    &opts,
	}
	v := govalidator.New(validatorOpts)
	errs := v.ValidateJSON()
	if len(errs) > 0 {
		w.Write(http.StatusBadRequest, errs, nil, middlewares.Responses.FailedValidations)
		return
	}

	if ctx.FirebaseAuth == nil {
		w.Write(http.StatusInternalServerError, nil, nil, middlewares.Responses.InternalServerError)
		return
	}

	decoded, err := ctx.FirebaseAuth.VerifyIDToken(r.Context(), opts.IDToken)
	if err != nil {
		w.Write(http.StatusUnauthorized, nil, err, middlewares.Responses.Unauthorized)
		return
	}

	email, _ := decoded.Claims["email"].(string)

	value, err := signSession(ctx, decoded.UID, email, "firebase", helpers.DefaultSessionTTL)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	http.SetCookie(w.Writer, helpers.NewSessionCookie(value, helpers.DefaultSessionTTL))
	w.WriteJSON(http.StatusOK, map[string]interface{}{
		"uid":      decoded.UID,
		"email":    email,
		"provider": "firebase",
	}, nil, "")
}

// LinkedInCallback completes the OAuth code exchange and opens a session
// for the LinkedIn identity.
func LinkedInCallback(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	code := r.URL.Query().Get("code")
	if code == "" {
		w.WriteJSON(http.StatusBadRequest, nil, nil, "missing authorization code")
		return
	}

	token, err := ctx.LinkedIn.ExchangeCode(code)
	if err != nil {
		w.WriteJSON(http.StatusUnauthorized, nil, err, "failed exchanging code with LinkedIn")
		return
	}

	profile, err := ctx.LinkedIn.GetProfile(token.AccessToken)
	if err != nil {
		w.WriteJSON(http.StatusUnauthorized, nil, err, "failed fetching LinkedIn profile")
		return
	}

	value, err := signSession(ctx, profile.Sub, profile.Email, "linkedin", helpers.LinkedInSessionTTL)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	http.SetCookie(w.Writer, helpers.NewSessionCookie(value, helpers.LinkedInSessionTTL))
	http.Redirect(w.Writer, r, ctx.Config.FrontendURL+"/dashboard", http.StatusFound)
}

func Logout(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	http.SetCookie(w.Writer, helpers.ClearSessionCookie())
	w.WriteJSON(http.StatusNoContent, nil, nil, "")
}

func signSession(ctx *config.AppContext, uid string, email string, provider string, ttl time.Duration) (string, error) {
	now := time.Now()
	return helpers.SignSessionPayload(helpers.SessionPayload{
		UID:      uid,
		Email:    email,
		Provider: provider,
		IssuedAt: now.Unix(),
		Expiry:   now.Add(ttl).Unix(),
	}, []byte(ctx.Config.SessionSecret))
}
