package services

import "cart-bff/models"

// ComputeBill derives a bill from a cart. It is pure: identical inputs
// always yield an identical summary.
//
// Packaging is charged per unit on packable items only, and never for
// dine-in orders. The flat delivery charge applies to delivery orders
// only.
func ComputeBill(cart *models.Cart, orderType models.OrderType, schedule models.ChargeSchedule) models.BillSummary {
	var bill models.BillSummary

	if cart != nil {
		for _, item := range cart.Items {
			qty := float64(item.Quantity)
			bill.ItemTotal += item.Price * qty
			if item.Packable && orderType != models.OrderTypeDineIn {
				bill.PackagingTotal += schedule.PackingCharge * qty
			}
		}
	}

	if orderType == models.OrderTypeDelivery {
		bill.DeliveryTotal = schedule.DeliveryCharge
	}

	bill.GrandTotal = bill.ItemTotal + bill.PackagingTotal + bill.DeliveryTotal
	return bill
}
