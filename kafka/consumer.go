package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"cart-bff/database"
	"cart-bff/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentConsumer consumes payment events and keeps the order history
// in step with the payment gateway.
type PaymentConsumer struct {
	reader *kafka.Reader
	orders database.OrderRepository
	logger *zap.Logger
}

// NewPaymentConsumer creates a consumer for the payment events topic.
func NewPaymentConsumer(brokers []string, topic, groupID string, orders database.OrderRepository, logger *zap.Logger) *PaymentConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3, // 1KB
		MaxBytes: 1e6, // 1MB
	})

	return &PaymentConsumer{
		reader: reader,
		orders: orders,
		logger: logger,
	}
}

// Run reads payment events until the context is cancelled.
func (c *PaymentConsumer) Run(ctx context.Context) {
	c.logger.Info("payment consumer started", zap.String("topic", c.reader.Config().Topic))

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			c.logger.Error("failed to read payment event", zap.Error(err))
			break
		}

		var event models.PaymentEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			c.logger.Warn("invalid payment event", zap.Error(err))
			continue
		}

		c.apply(ctx, event)
	}

	if err := c.reader.Close(); err != nil {
		c.logger.Warn("failed to close payment consumer", zap.Error(err))
	}
}

func (c *PaymentConsumer) apply(ctx context.Context, event models.PaymentEvent) {
	order, err := c.orders.FindByTrackingID(ctx, event.TrackingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Warn("payment event for unknown order", zap.String("tracking_id", event.TrackingID))
			return
		}
		c.logger.Error("failed to look up order for payment event", zap.Error(err))
		return
	}

	switch event.Status {
	case models.PaymentStatusCompleted:
		order.PaymentStatus = models.PaymentStatusCompleted
		order.Status = models.OrderStatusConfirmed
	case models.PaymentStatusFailed:
		order.PaymentStatus = models.PaymentStatusFailed
		order.Status = models.OrderStatusFailed
	default:
		return
	}

	if err := c.orders.Update(ctx, order); err != nil {
		c.logger.Error("failed to update order from payment event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("order updated from payment event",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_status", order.PaymentStatus),
	)
}
