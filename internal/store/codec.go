package store

import (
	"encoding/json"
	"fmt"

	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
)

// Stored records share the wire shape of a cart. Pointer fields let decode
// tell "absent" from a legitimate zero value.
type cartRecord struct {
	Total float64       `json:"total"`
	Tax   float64       `json:"tax"`
	Items *[]itemRecord `json:"items"`
}

type itemRecord struct {
	SKU      *string  `json:"sku"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Qty      *int     `json:"qty"`
	Subtotal float64  `json:"subtotal"`
}

func encodeCart(cart *domain.Cart) ([]byte, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// decodeCart validates shape as it decodes. Corrupt data is surfaced as
// ErrMalformedRecord, never silently turned into an empty cart.
func decodeCart(data []byte) (*domain.Cart, error) {
	var rec cartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if rec.Items == nil {
		return nil, fmt.Errorf("%w: items field missing", ErrMalformedRecord)
	}

	cart := &domain.Cart{
		Total: rec.Total,
		Tax:   rec.Tax,
		Items: make([]domain.LineItem, 0, len(*rec.Items)),
	}
	for i, it := range *rec.Items {
		if it.SKU == nil || it.Name == nil || it.Price == nil || it.Qty == nil {
			return nil, fmt.Errorf("%w: item %d missing required fields", ErrMalformedRecord, i)
		}
		cart.Items = append(cart.Items, domain.LineItem{
			SKU:      *it.SKU,
			Name:     *it.Name,
			Price:    *it.Price,
			Qty:      *it.Qty,
			Subtotal: it.Subtotal,
		})
	}
	return cart, nil
}
