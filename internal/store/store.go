package store

import (
	"context"
	"errors"
	"time"

	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
)

// CartStore defines the persistence operations the cart service needs.
// Consumers define this interface, not the Redis implementation.
type CartStore interface {
	// Get loads and decodes the cart stored under cartID.
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	// Put encodes and writes the cart with the given expiry, replacing any
	// prior record and refreshing its TTL.
	Put(ctx context.Context, cartID string, cart *domain.Cart, ttl time.Duration) error
	// Delete removes the record and reports whether it existed beforehand.
	Delete(ctx context.Context, cartID string) (bool, error)
	// Rename transfers the record at oldID to newID, overwriting any record
	// already there. Reports false when oldID holds nothing.
	Rename(ctx context.Context, oldID, newID string) (bool, error)
	// Ping reports backend reachability.
	Ping(ctx context.Context) error
}

var (
	ErrNotFound        = errors.New("cart record not found")
	ErrMalformedRecord = errors.New("malformed cart record")
	ErrUnavailable     = errors.New("cart store unavailable")
)
