package models

// OrderType selects which surcharges apply to a bill.
type OrderType string

const (
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeDineIn   OrderType = "dinein"
)

// ValidOrderType reports whether s is a known order type.
func ValidOrderType(s string) bool {
	switch OrderType(s) {
	case OrderTypeTakeaway, OrderTypeDelivery, OrderTypeDineIn:
		return true
	}
	return false
}

// ChargeSchedule is the packing/delivery fee pair resolved for a
// vendor's university.
type ChargeSchedule struct {
	PackingCharge  float64 `json:"packing_charge"`
	DeliveryCharge float64 `json:"delivery_charge"`
}

// DefaultChargeSchedule is applied when the charges service is
// unavailable.
var DefaultChargeSchedule = ChargeSchedule{PackingCharge: 5, DeliveryCharge: 50}

// BillSummary is derived from a cart and never stored.
type BillSummary struct {
	ItemTotal      float64 `json:"item_total"`
	PackagingTotal float64 `json:"packaging_total"`
	DeliveryTotal  float64 `json:"delivery_total"`
	GrandTotal     float64 `json:"grand_total"`
}
