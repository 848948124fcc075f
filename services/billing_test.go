package services_test

import (
	"testing"

	"cart-bff/models"
	"cart-bff/services"

	"github.com/stretchr/testify/assert"
)

func sampleCart() *models.Cart {
	return &models.Cart{
		VendorID: "vendor-1",
		Items: []models.LineItem{
			{ItemID: "i1", Name: "Veg Thali", Price: 100, Quantity: 2, Packable: true},
			{ItemID: "i2", Name: "Banana", Price: 50, Quantity: 1, Packable: false},
		},
	}
}

func TestComputeBill_Delivery(t *testing.T) {
	charges := models.ChargeSchedule{PackingCharge: 5, DeliveryCharge: 50}

	bill := services.ComputeBill(sampleCart(), models.OrderTypeDelivery, charges)

	assert.Equal(t, 250.0, bill.ItemTotal)
	assert.Equal(t, 10.0, bill.PackagingTotal)
	assert.Equal(t, 50.0, bill.DeliveryTotal)
	assert.Equal(t, 310.0, bill.GrandTotal)
}

func TestComputeBill_DineInSkipsSurcharges(t *testing.T) {
	charges := models.ChargeSchedule{PackingCharge: 5, DeliveryCharge: 50}

	bill := services.ComputeBill(sampleCart(), models.OrderTypeDineIn, charges)

	assert.Equal(t, 250.0, bill.ItemTotal)
	assert.Equal(t, 0.0, bill.PackagingTotal)
	assert.Equal(t, 0.0, bill.DeliveryTotal)
	assert.Equal(t, 250.0, bill.GrandTotal)
}

func TestComputeBill_TakeawayChargesPackagingOnly(t *testing.T) {
	charges := models.ChargeSchedule{PackingCharge: 5, DeliveryCharge: 50}

	bill := services.ComputeBill(sampleCart(), models.OrderTypeTakeaway, charges)

	assert.Equal(t, 10.0, bill.PackagingTotal)
	assert.Equal(t, 0.0, bill.DeliveryTotal)
	assert.Equal(t, 260.0, bill.GrandTotal)
}

func TestComputeBill_Deterministic(t *testing.T) {
	cart := sampleCart()
	charges := models.ChargeSchedule{PackingCharge: 7, DeliveryCharge: 30}

	first := services.ComputeBill(cart, models.OrderTypeDelivery, charges)
	second := services.ComputeBill(cart, models.OrderTypeDelivery, charges)

	assert.Equal(t, first, second)
}

func TestComputeBill_GrandTotalIsSumOfParts(t *testing.T) {
	charges := models.ChargeSchedule{PackingCharge: 3, DeliveryCharge: 25}

	for _, orderType := range []models.OrderType{
		models.OrderTypeTakeaway, models.OrderTypeDelivery, models.OrderTypeDineIn,
	} {
		bill := services.ComputeBill(sampleCart(), orderType, charges)
		assert.Equal(t, bill.ItemTotal+bill.PackagingTotal+bill.DeliveryTotal, bill.GrandTotal)
	}
}

func TestComputeBill_EmptyCart(t *testing.T) {
	charges := models.ChargeSchedule{PackingCharge: 5, DeliveryCharge: 50}
	cart := &models.Cart{Items: []models.LineItem{}}

	bill := services.ComputeBill(cart, models.OrderTypeDelivery, charges)

	assert.Equal(t, 0.0, bill.ItemTotal)
	assert.Equal(t, 0.0, bill.PackagingTotal)
	assert.Equal(t, 50.0, bill.DeliveryTotal)
	assert.Equal(t, 50.0, bill.GrandTotal)
}

func TestComputeBill_NilCart(t *testing.T) {
	bill := services.ComputeBill(nil, models.OrderTypeTakeaway, models.DefaultChargeSchedule)
	assert.Equal(t, 0.0, bill.GrandTotal)
}
