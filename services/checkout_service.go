package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cart-bff/clients"
	"cart-bff/database"
	"cart-bff/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentGateway is the opaque payment collaborator: it takes the
// computed grand total and answers with a redirect and tracking id.
type PaymentGateway interface {
	SubmitOrder(ctx context.Context, req clients.PaymentOrderRequest) (*clients.PaymentIntent, error)
	VerifyPayment(ctx context.Context, trackingID string) (*clients.PaymentStatus, error)
}

// CheckoutPublisher emits the checkout event stream.
type CheckoutPublisher interface {
	SendCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

// CheckoutService turns a reconciled cart into a paid order and serves
// order history.
type CheckoutService interface {
	Checkout(ctx context.Context, src models.CartSource, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError)
	VerifyPayment(ctx context.Context, src models.CartSource, orderID string) (*models.Order, *ServiceError)
	History(ctx context.Context, src models.CartSource, page, limit int) ([]models.Order, int64, *ServiceError)
	Order(ctx context.Context, src models.CartSource, orderID string) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	carts       CartService
	gateway     PaymentGateway
	orders      database.OrderRepository
	publisher   CheckoutPublisher
	callbackURL string
	currency    string
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts CartService,
	gateway PaymentGateway,
	orders database.OrderRepository,
	publisher CheckoutPublisher,
	callbackURL string,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:       carts,
		gateway:     gateway,
		orders:      orders,
		publisher:   publisher,
		callbackURL: callbackURL,
		currency:    currency,
		logger:      logger,
	}
}

// Checkout computes the bill, creates a payment intent, records the
// pending order and publishes the checkout event.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, src models.CartSource, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	if !models.ValidOrderType(req.OrderType) {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown order type"}
	}
	orderType := models.OrderType(req.OrderType)

	cart, bill, svcErr := s.carts.Bill(ctx, src, orderType)
	if svcErr != nil {
		return nil, svcErr
	}
	if cart.Empty() {
		return nil, &ServiceError{StatusCode: 400, Message: "Your cart is empty"}
	}

	orderID := uuid.New()

	intent, err := s.gateway.SubmitOrder(ctx, clients.PaymentOrderRequest{
		OrderID:     orderID.String(),
		Amount:      bill.GrandTotal,
		Currency:    s.currency,
		Description: "Order from " + cart.VendorName,
		CallbackURL: s.callbackURL,
		Email:       req.Email,
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		s.logger.Error("payment intent creation failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to initiate payment. Please try again."}
	}

	itemsJSON, _ := json.Marshal(cart.Items)
	order := &models.Order{
		ID:                orderID,
		UserID:            src.Key(),
		VendorID:          cart.VendorID,
		VendorName:        cart.VendorName,
		OrderType:         string(orderType),
		ItemTotal:         bill.ItemTotal,
		PackagingTotal:    bill.PackagingTotal,
		DeliveryTotal:     bill.DeliveryTotal,
		GrandTotal:        bill.GrandTotal,
		ItemsJSON:         string(itemsJSON),
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentTrackingID: intent.TrackingID,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("failed to persist order",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to record the order"}
	}

	event := models.CheckoutEvent{
		Event:      "checkout.requested",
		OrderID:    orderID.String(),
		UserID:     src.Key(),
		VendorID:   cart.VendorID,
		OrderType:  string(orderType),
		Items:      cart.Items,
		GrandTotal: bill.GrandTotal,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.SendCheckoutEvent(ctx, event); err != nil {
		s.logger.Warn("checkout event publish failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
	}

	s.carts.ClearCart(ctx, src)

	s.logger.Info("checkout initiated",
		zap.String("order_id", orderID.String()),
		zap.String("vendor_id", cart.VendorID),
		zap.Float64("grand_total", bill.GrandTotal),
	)

	return &models.CheckoutResponse{
		OrderID:           orderID.String(),
		PaymentTrackingID: intent.TrackingID,
		RedirectURL:       intent.RedirectURL,
		Bill:              *bill,
	}, nil
}

// VerifyPayment confirms the payment status with the gateway and
// updates the order record. Already-completed orders return as-is.
func (s *checkoutServiceImpl) VerifyPayment(ctx context.Context, src models.CartSource, orderID string) (*models.Order, *ServiceError) {
	order, svcErr := s.Order(ctx, src, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if order.PaymentStatus == models.PaymentStatusCompleted {
		return order, nil
	}

	status, err := s.gateway.VerifyPayment(ctx, order.PaymentTrackingID)
	if err != nil {
		s.logger.Error("payment verification failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 502, Message: "Could not verify payment. Please try again."}
	}

	switch status.Status {
	case models.PaymentStatusCompleted:
		order.PaymentStatus = models.PaymentStatusCompleted
		order.Status = models.OrderStatusConfirmed
	case models.PaymentStatusFailed:
		order.PaymentStatus = models.PaymentStatusFailed
		order.Status = models.OrderStatusFailed
	default:
		return order, nil
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("failed to update order after verification",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update the order"}
	}

	return order, nil
}

// History lists the caller's orders, newest first.
func (s *checkoutServiceImpl) History(ctx context.Context, src models.CartSource, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orders.FindByUser(ctx, src.Key(), page, limit)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to load order history"}
	}
	return orders, total, nil
}

// Order fetches one of the caller's orders by id.
func (s *checkoutServiceImpl) Order(ctx context.Context, src models.CartSource, orderID string) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order id"}
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load the order"}
	}

	if order.UserID != src.Key() {
		return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
	}
	return order, nil
}
