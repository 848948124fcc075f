package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cart-bff/models"
)

// ChargesClient resolves a vendor's university charge schedule.
type ChargesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewChargesClient creates a new ChargesClient.
func NewChargesClient(baseURL string) *ChargesClient {
	return &ChargesClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type vendorResponse struct {
	VendorID     string `json:"vendorId"`
	UniversityID string `json:"universityId"`
}

type universityResponse struct {
	PackingCharge  float64 `json:"packingCharge"`
	DeliveryCharge float64 `json:"deliveryCharge"`
}

// Resolve follows the vendor -> university -> charges chain. The
// caller applies defaults when this fails.
func (c *ChargesClient) Resolve(ctx context.Context, vendorID string) (models.ChargeSchedule, error) {
	var vendor vendorResponse
	if err := c.getJSON(ctx, "/vendors/"+vendorID, &vendor); err != nil {
		return models.ChargeSchedule{}, fmt.Errorf("resolve vendor %s: %w", vendorID, err)
	}
	if vendor.UniversityID == "" {
		return models.ChargeSchedule{}, fmt.Errorf("vendor %s has no university", vendorID)
	}

	var uni universityResponse
	if err := c.getJSON(ctx, "/universities/"+vendor.UniversityID, &uni); err != nil {
		return models.ChargeSchedule{}, fmt.Errorf("resolve university %s: %w", vendor.UniversityID, err)
	}

	return models.ChargeSchedule{
		PackingCharge:  uni.PackingCharge,
		DeliveryCharge: uni.DeliveryCharge,
	}, nil
}

func (c *ChargesClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
