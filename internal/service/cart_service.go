package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/raghudevopsb84/roboshop-cart/internal/catalog"
	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
	"github.com/raghudevopsb84/roboshop-cart/internal/pricing"
	"github.com/raghudevopsb84/roboshop-cart/internal/store"
)

// Catalogue resolves a SKU to product data. Consumers define this interface,
// not the HTTP client.
type Catalogue interface {
	Lookup(ctx context.Context, sku string) (*catalog.Product, error)
}

type CartService struct {
	store     store.CartStore
	catalogue Catalogue
	ttl       time.Duration
	sfg       singleflight.Group // Prevents read stampede for one cart
}

func NewCartService(st store.CartStore, catalogue Catalogue, ttl time.Duration) *CartService {
	return &CartService{
		store:     st,
		catalogue: catalogue,
		ttl:       ttl,
	}
}

type Shipping struct {
	Distance float64 `json:"distance"`
	Cost     float64 `json:"cost"`
	Location string  `json:"location"`
}

type Health struct {
	App   string `json:"app"`
	Redis bool   `json:"redis"`
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(cartID, func() (interface{}, error) {
		return s.load(ctx, cartID, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	existed, err := s.store.Delete(ctx, cartID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("delete cart failed")
		return err
	}
	if !existed {
		return ErrCartNotFound
	}
	return nil
}

// AddItem is the implicit-creation path: a missing cart starts out empty.
// The unit price comes from the catalogue at the time of this call, so
// re-adding a SKU refreshes its price rather than freezing the first one.
func (s *CartService) AddItem(ctx context.Context, cartID, sku string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.load(ctx, cartID, true)
	if err != nil {
		return nil, err
	}

	product, err := s.catalogue.Lookup(ctx, sku)
	if err != nil {
		return nil, err
	}

	if i := cart.ItemIndex(sku); i >= 0 {
		item := &cart.Items[i]
		item.Qty += qty
		item.Name = product.Name
		item.Price = product.Price
		item.Subtotal = pricing.Subtotal(item.Price, item.Qty)
	} else {
		cart.Items = append(cart.Items, domain.LineItem{
			SKU:      product.SKU,
			Name:     product.Name,
			Price:    product.Price,
			Qty:      qty,
			Subtotal: pricing.Subtotal(product.Price, qty),
		})
	}

	return s.save(ctx, cartID, cart)
}

// UpdateItem sets a line item's quantity outright; qty 0 is a removal
// request, not a zero-quantity line item.
func (s *CartService) UpdateItem(ctx context.Context, cartID, sku string, qty int) (*domain.Cart, error) {
	if qty < 0 {
		return nil, ErrNegativeQuantity
	}

	cart, err := s.load(ctx, cartID, false)
	if err != nil {
		return nil, err
	}

	i := cart.ItemIndex(sku)
	if i < 0 {
		return nil, ErrItemNotInCart
	}

	if qty == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Qty = qty
		cart.Items[i].Subtotal = pricing.Subtotal(cart.Items[i].Price, qty)
	}

	return s.save(ctx, cartID, cart)
}

// AddShipping carries shipping as a single synthetic line item; re-adding
// replaces the previous one rather than accumulating.
func (s *CartService) AddShipping(ctx context.Context, cartID string, shipping Shipping) (*domain.Cart, error) {
	if shipping.Location == "" {
		return nil, ErrShippingDataMissing
	}

	cart, err := s.load(ctx, cartID, true)
	if err != nil {
		return nil, err
	}

	item := domain.LineItem{
		SKU:      domain.ShippingSKU,
		Name:     "shipping to " + shipping.Location,
		Price:    shipping.Cost,
		Qty:      1,
		Subtotal: pricing.Subtotal(shipping.Cost, 1),
	}
	if i := cart.ItemIndex(domain.ShippingSKU); i >= 0 {
		cart.Items[i] = item
	} else {
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cartID, cart)
}

// RenameCart moves the record whole; any cart already at newID is overwritten,
// there are no merge semantics.
func (s *CartService) RenameCart(ctx context.Context, oldID, newID string) (*domain.Cart, error) {
	moved, err := s.store.Rename(ctx, oldID, newID)
	if err != nil {
		log.Error().Err(err).Str("cart_id", oldID).Msg("rename cart failed")
		return nil, err
	}
	if !moved {
		return nil, ErrCartNotFound
	}

	return s.GetCart(ctx, newID)
}

// HealthCheck never fails; a dead backend is reported as data.
func (s *CartService) HealthCheck(ctx context.Context) Health {
	health := Health{App: "OK"}
	if err := s.store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis ping failed")
		return health
	}
	health.Redis = true
	return health
}

// load keeps the read step uniform: absence is a valid empty state only for
// operations that create implicitly.
func (s *CartService) load(ctx context.Context, cartID string, createIfAbsent bool) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, cartID)
	if errors.Is(err, store.ErrNotFound) {
		if createIfAbsent {
			return &domain.Cart{Items: []domain.LineItem{}}, nil
		}
		return nil, ErrCartNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("load cart failed")
		return nil, err
	}
	return cart, nil
}

// save recomputes total and tax from scratch and persists with a fresh TTL.
// The two always happen together, a partially priced cart is never written.
func (s *CartService) save(ctx context.Context, cartID string, cart *domain.Cart) (*domain.Cart, error) {
	cart.Total = pricing.Total(cart.Items)
	cart.Tax = pricing.Tax(cart.Total)

	if err := s.store.Put(ctx, cartID, cart, s.ttl); err != nil {
		log.Error().Err(err).Str("cart_id", cartID).Msg("persist cart failed")
		return nil, err
	}
	return cart, nil
}
