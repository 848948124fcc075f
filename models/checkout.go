package models

import "time"

// CheckoutRequest is the payload for initiating checkout.
type CheckoutRequest struct {
	OrderType        string `json:"order_type" binding:"required"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required"`
	DeliveryLocation string `json:"delivery_location"`
}

// CheckoutResponse is returned after a payment intent was created.
type CheckoutResponse struct {
	OrderID           string      `json:"order_id"`
	PaymentTrackingID string      `json:"payment_tracking_id"`
	RedirectURL       string      `json:"redirect_url"`
	Bill              BillSummary `json:"bill"`
}

// CheckoutEvent is published to Kafka when a checkout is initiated.
type CheckoutEvent struct {
	Event      string     `json:"event"` // e.g. "checkout.requested"
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id"`
	VendorID   string     `json:"vendor_id"`
	OrderType  string     `json:"order_type"`
	Items      []LineItem `json:"items"`
	GrandTotal float64    `json:"grand_total"`
	Timestamp  time.Time  `json:"timestamp"`
}

// PaymentEvent is consumed from the payment events topic.
type PaymentEvent struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"` // COMPLETED / FAILED
	Timestamp  time.Time `json:"timestamp"`
}
