package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// FavoritesRepository stores each user's favorite vendors as a Redis set.
type FavoritesRepository struct {
	client *redis.Client
}

// NewFavoritesRepository creates a new FavoritesRepository.
func NewFavoritesRepository(client *redis.Client) *FavoritesRepository {
	return &FavoritesRepository{client: client}
}

func (r *FavoritesRepository) getKey(userID string) string {
	return "favorites:" + userID
}

// Add marks a vendor as a favorite.
func (r *FavoritesRepository) Add(ctx context.Context, userID, vendorID string) error {
	return r.client.SAdd(ctx, r.getKey(userID), vendorID).Err()
}

// Remove unmarks a vendor.
func (r *FavoritesRepository) Remove(ctx context.Context, userID, vendorID string) error {
	return r.client.SRem(ctx, r.getKey(userID), vendorID).Err()
}

// List returns all favorite vendor ids for a user.
func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]string, error) {
	return r.client.SMembers(ctx, r.getKey(userID)).Result()
}
