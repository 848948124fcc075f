package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cart-bff/models"
)

// CartClient talks to the upstream cart service, the source of truth
// for authenticated carts.
type CartClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCartClient creates a new CartClient.
func NewCartClient(baseURL string) *CartClient {
	return &CartClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- cart service request/response structs ----

type cartEntry struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Unit     string  `json:"unit,omitempty"`
	Quantity int     `json:"quantity"`
	Kind     string  `json:"kind"`
	Packable bool    `json:"packable,omitempty"`
}

type cartResponse struct {
	Cart       []cartEntry `json:"cart"`
	VendorName string      `json:"vendorName"`
	VendorID   string      `json:"vendorId"`
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Kind     string `json:"kind"`
	Quantity int    `json:"quantity"`
	VendorID string `json:"vendorId"`
}

type itemRef struct {
	ItemID string `json:"itemId"`
	Kind   string `json:"kind"`
}

// GetCart fetches and maps the user's cart.
func (c *CartClient) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var resp cartResponse
	if err := c.doRequest(ctx, http.MethodGet, "/cart/"+userID, nil, &resp); err != nil {
		return nil, err
	}

	cart := &models.Cart{
		VendorID:   resp.VendorID,
		VendorName: resp.VendorName,
		Items:      make([]models.LineItem, 0, len(resp.Cart)),
	}
	for _, e := range resp.Cart {
		cart.Items = append(cart.Items, models.LineItem{
			ItemID:   e.ItemID,
			Name:     e.Name,
			Price:    e.Price,
			Quantity: e.Quantity,
			Packable: e.Packable,
			Kind:     e.Kind,
			Category: models.CategoryFromKind(e.Kind),
			VendorID: resp.VendorID,
			ImageURL: e.Image,
			Unit:     e.Unit,
		})
	}
	return cart, nil
}

// AddItem adds an item to the user's remote cart.
func (c *CartClient) AddItem(ctx context.Context, userID string, item models.LineItem) error {
	body := addItemRequest{
		ItemID:   item.ItemID,
		Kind:     item.Kind,
		Quantity: item.Quantity,
		VendorID: item.VendorID,
	}
	return c.doRequest(ctx, http.MethodPost, "/cart/add/"+userID, body, nil)
}

// AddOne increments the item's quantity by one.
func (c *CartClient) AddOne(ctx context.Context, userID, itemID, kind string) error {
	return c.doRequest(ctx, http.MethodPost, "/cart/add-one/"+userID, itemRef{ItemID: itemID, Kind: kind}, nil)
}

// RemoveOne decrements the item's quantity by one.
func (c *CartClient) RemoveOne(ctx context.Context, userID, itemID, kind string) error {
	return c.doRequest(ctx, http.MethodPost, "/cart/remove-one/"+userID, itemRef{ItemID: itemID, Kind: kind}, nil)
}

// RemoveItem deletes the item from the cart regardless of quantity.
func (c *CartClient) RemoveItem(ctx context.Context, userID, itemID, kind string) error {
	return c.doRequest(ctx, http.MethodPost, "/cart/remove-item/"+userID, itemRef{ItemID: itemID, Kind: kind}, nil)
}

func (c *CartClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return classifyCartError(resp.StatusCode, upstreamMessage(raw))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// upstreamMessage pulls the error message out of a JSON error envelope,
// falling back to the raw body.
func upstreamMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return string(raw)
}
