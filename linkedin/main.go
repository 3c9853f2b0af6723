package linkedin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	accessTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	userinfoURL    = "https://api.linkedin.com/v2/userinfo"
)

type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Profile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// ExchangeCode swaps the OAuth authorization code for an access token.
func (li *Client) ExchangeCode(code string) (*AccessTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", li.ClientID)
	form.Set("client_secret", li.ClientSecret)
	form.Set("redirect_uri", li.RedirectURL)

	response, err := http.Post(accessTokenURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response %d", response.StatusCode)
	}

	var token AccessTokenResponse
	if err := json.Unmarshal(responseBody, &token); err != nil {
		return nil, err
	}

	if token.AccessToken == "" {
		return nil, errors.New("empty access token from LinkedIn")
	}

	return &token, nil
}

// GetProfile fetches the OpenID userinfo for the access token.
func (li *Client) GetProfile(accessToken string) (*Profile, error) {
	request, err := http.NewRequest(http.MethodGet, userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response %d", response.StatusCode)
	}

	var profile Profile
	if err := json.Unmarshal(responseBody, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
