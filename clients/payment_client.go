package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PaymentOrderRequest carries what the payment gateway needs to create
// a payment intent. The gateway is opaque to the cart flow: it takes
// the computed grand total and hands back a tracking id and redirect.
type PaymentOrderRequest struct {
	OrderID     string
	Amount      float64
	Currency    string
	Description string
	CallbackURL string
	Email       string
	Phone       string
	FirstName   string
	LastName    string
}

// PaymentIntent is the gateway's answer to a submitted order request.
type PaymentIntent struct {
	TrackingID  string
	RedirectURL string
}

// PaymentStatus is the result of a verification call.
type PaymentStatus struct {
	TrackingID string
	Status     string // COMPLETED, FAILED, PENDING
	Method     string
}

// PaymentClient drives a Pesapal-style payment gateway.
type PaymentClient struct {
	client         *resty.Client
	consumerKey    string
	consumerSecret string
}

// NewPaymentClient creates a new PaymentClient.
func NewPaymentClient(baseURL, consumerKey, consumerSecret string) *PaymentClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &PaymentClient{
		client:         client,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type submitOrderResponse struct {
	OrderTrackingID string `json:"order_tracking_id"`
	RedirectURL     string `json:"redirect_url"`
	Error           any    `json:"error"`
}

type transactionStatusResponse struct {
	PaymentStatusDescription string `json:"payment_status_description"`
	PaymentMethod            string `json:"payment_method"`
}

func (p *PaymentClient) accessToken(ctx context.Context) (string, error) {
	if p.consumerKey == "" || p.consumerSecret == "" {
		return "", fmt.Errorf("payment consumer credentials are not set")
	}

	var token tokenResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"consumer_key":    p.consumerKey,
			"consumer_secret": p.consumerSecret,
		}).
		SetResult(&token).
		Post("/api/Auth/RequestToken")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 || token.Token == "" {
		return "", fmt.Errorf("payment token request failed with status %d: %s", resp.StatusCode(), resp.Body())
	}
	return token.Token, nil
}

// SubmitOrder creates a payment intent for the given order.
func (p *PaymentClient) SubmitOrder(ctx context.Context, req PaymentOrderRequest) (*PaymentIntent, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"id":           req.OrderID,
		"currency":     req.Currency,
		"amount":       req.Amount,
		"description":  req.Description,
		"callback_url": req.CallbackURL,
		"billing_address": map[string]any{
			"email_address": req.Email,
			"phone_number":  req.Phone,
			"first_name":    req.FirstName,
			"last_name":     req.LastName,
		},
	}

	var result submitOrderResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&result).
		Post("/api/Transactions/SubmitOrderRequest")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 || result.OrderTrackingID == "" || result.RedirectURL == "" {
		return nil, fmt.Errorf("payment order request failed with status %d: %s", resp.StatusCode(), resp.Body())
	}

	return &PaymentIntent{
		TrackingID:  result.OrderTrackingID,
		RedirectURL: result.RedirectURL,
	}, nil
}

// VerifyPayment checks the payment status for a tracking id.
func (p *PaymentClient) VerifyPayment(ctx context.Context, trackingID string) (*PaymentStatus, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var result transactionStatusResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("orderTrackingId", trackingID).
		SetResult(&result).
		Get("/api/Transactions/GetTransactionStatus")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payment status request failed with status %d: %s", resp.StatusCode(), resp.Body())
	}

	return &PaymentStatus{
		TrackingID: trackingID,
		Status:     normalizePaymentStatus(result.PaymentStatusDescription),
		Method:     result.PaymentMethod,
	}, nil
}

func normalizePaymentStatus(desc string) string {
	switch desc {
	case "Completed", "COMPLETED":
		return "COMPLETED"
	case "Failed", "FAILED", "Invalid", "Reversed":
		return "FAILED"
	default:
		return "PENDING"
	}
}
