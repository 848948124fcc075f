package models

// ItemCategory distinguishes the two upstream catalog sources.
type ItemCategory string

const (
	CategoryRetail  ItemCategory = "Retail"
	CategoryProduce ItemCategory = "Produce"
)

// CategoryFromKind maps the upstream `kind` discriminator onto a
// category. Anything that is not "Retail" counts as produce.
func CategoryFromKind(kind string) ItemCategory {
	if kind == string(CategoryRetail) {
		return CategoryRetail
	}
	return CategoryProduce
}

// LineItem is a single cart entry. Quantity is at least 1 while the
// item is present; removal happens only through an explicit remove.
type LineItem struct {
	ItemID   string       `json:"item_id"`
	Name     string       `json:"name"`
	Price    float64      `json:"price"`
	Quantity int          `json:"quantity"`
	Packable bool         `json:"packable"`
	Kind     string       `json:"kind"`
	Category ItemCategory `json:"category"`
	VendorID string       `json:"vendor_id"`
	ImageURL string       `json:"image_url,omitempty"`
	Unit     string       `json:"unit,omitempty"`
}

// Cart is an ordered collection of line items bound to one vendor.
type Cart struct {
	VendorID   string     `json:"vendor_id"`
	VendorName string     `json:"vendor_name"`
	Items      []LineItem `json:"items"`
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// Find returns the index of the item with the given id, or -1.
func (c *Cart) Find(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// CartSource identifies who owns a cart: an authenticated user whose
// cart lives in the upstream cart service, or a guest whose cart is
// held locally by this service.
type CartSource struct {
	UserID  string
	GuestID string
}

// Authenticated reports whether the source is a logged-in user.
func (s CartSource) Authenticated() bool {
	return s.UserID != ""
}

// Key returns a stable identifier usable for keying per-source state.
func (s CartSource) Key() string {
	if s.Authenticated() {
		return "u:" + s.UserID
	}
	return "g:" + s.GuestID
}
