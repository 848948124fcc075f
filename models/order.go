package models

import (
	"time"

	"github.com/google/uuid"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
)

// Payment status constants, mirroring the payment gateway.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Order is the GORM model persisted in Postgres for order history.
type Order struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(128);not null;index" json:"user_id"`
	VendorID          string    `gorm:"type:varchar(128);not null" json:"vendor_id"`
	VendorName        string    `gorm:"type:varchar(255)" json:"vendor_name"`
	OrderType         string    `gorm:"type:varchar(16);not null" json:"order_type"`
	ItemTotal         float64   `gorm:"not null" json:"item_total"`
	PackagingTotal    float64   `gorm:"not null" json:"packaging_total"`
	DeliveryTotal     float64   `gorm:"not null" json:"delivery_total"`
	GrandTotal        float64   `gorm:"not null" json:"grand_total"`
	ItemsJSON         string    `gorm:"type:jsonb" json:"-"`
	Status            string    `gorm:"type:varchar(16);not null" json:"status"`
	PaymentStatus     string    `gorm:"type:varchar(16);not null" json:"payment_status"`
	PaymentTrackingID string    `gorm:"type:varchar(128);index" json:"payment_tracking_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
