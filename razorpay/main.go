package razorpay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const (
	rzContentType = `application/json`
)

type Client struct {
	BaseURL          string
	KeyID            string
	KeySecret        string
	WebhookSecret    string
	PathPaymentLinks string
	PathPayments     string
	CallbackURL      string
}

type CreatePaymentLinkRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Customer    Customer          `json:"customer"`
	Notes       map[string]string `json:"notes"`
	CallbackURL string            `json:"callback_url,omitempty"`
	NotifyBy    Notify            `json:"notify"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact,omitempty"`
}

type Notify struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

type CreatePaymentLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
}

type GetPaymentResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
	Method string `json:"method"`
	Email  string `json:"email"`
}

// CreatePaymentLink creates a hosted payment page for one application.
// Amount is in paise; notes carry the application id so the webhook can
// correlate the eventual payment back to our record.
func (rz *Client) CreatePaymentLink(amountPaise int64, description string, customer Customer, notes map[string]string) (*CreatePaymentLinkResponse, error) {
	requestBody := CreatePaymentLinkRequest{
		Amount:      amountPaise,
		Currency:    "INR",
		Description: description,
		Customer:    customer,
		Notes:       notes,
		CallbackURL: rz.CallbackURL,
		NotifyBy:    Notify{Email: true},
	}

	responseBody, err := rz.post(fmt.Sprintf("%s%s", rz.BaseURL, rz.PathPaymentLinks), &requestBody)
	if err != nil {
		return nil, err
	}

	if responseBody == nil {
		return nil, errors.New("failed creating payment link in Razorpay")
	}

	var response CreatePaymentLinkResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (rz *Client) GetPayment(id string) (*GetPaymentResponse, error) {
	responseBody, err := rz.get(fmt.Sprintf("%s%s/%s", rz.BaseURL, rz.PathPayments, id))
	if err != nil {
		return nil, err
	}

	if responseBody == nil {
		return nil, errors.New("failed getting payment from Razorpay")
	}

	var response GetPaymentResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (rz *Client) post(url string, body interface{}) ([]byte, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", rzContentType)
	request.SetBasicAuth(rz.KeyID, rz.KeySecret)

	return rz.do(request)
}

func (rz *Client) get(url string) ([]byte, error) {
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.SetBasicAuth(rz.KeyID, rz.KeySecret)

	return rz.do(request)
}

func (rz *Client) do(request *http.Request) ([]byte, error) {
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response %d", response.StatusCode)
	}

	return responseBody, nil
}
