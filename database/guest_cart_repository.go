package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cart-bff/models"

	"github.com/redis/go-redis/v9"
)

// GuestCartRepository holds guest carts as JSON blobs in Redis, one
// key per guest id. This is the server-side stand-in for the client's
// local storage: guests never touch the upstream cart service.
type GuestCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuestCartRepository creates a new GuestCartRepository.
func NewGuestCartRepository(client *redis.Client, ttl time.Duration) *GuestCartRepository {
	return &GuestCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *GuestCartRepository) getKey(guestID string) string {
	return "guest_cart:" + guestID
}

// Get returns the guest's cart, or nil when none exists.
func (r *GuestCartRepository) Get(ctx context.Context, guestID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(guestID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save persists the guest's cart, refreshing its TTL.
func (r *GuestCartRepository) Save(ctx context.Context, guestID string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(guestID), data, r.ttl).Err()
}

// Delete drops the guest's cart.
func (r *GuestCartRepository) Delete(ctx context.Context, guestID string) error {
	return r.client.Del(ctx, r.getKey(guestID)).Err()
}
