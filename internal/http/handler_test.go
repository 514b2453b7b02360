package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghudevopsb84/roboshop-cart/internal/catalog"
	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
	"github.com/raghudevopsb84/roboshop-cart/internal/service"
)

type stubService struct {
	cart *domain.Cart
	err  error

	gotCartID string
	gotSKU    string
	gotQty    int
	gotOldID  string
	gotNewID  string
	shipping  service.Shipping
	health    service.Health
}

func (s *stubService) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	s.gotCartID = cartID
	return s.cart, s.err
}

func (s *stubService) DeleteCart(_ context.Context, cartID string) error {
	s.gotCartID = cartID
	return s.err
}

func (s *stubService) AddItem(_ context.Context, cartID, sku string, qty int) (*domain.Cart, error) {
	s.gotCartID, s.gotSKU, s.gotQty = cartID, sku, qty
	return s.cart, s.err
}

func (s *stubService) UpdateItem(_ context.Context, cartID, sku string, qty int) (*domain.Cart, error) {
	s.gotCartID, s.gotSKU, s.gotQty = cartID, sku, qty
	return s.cart, s.err
}

func (s *stubService) AddShipping(_ context.Context, cartID string, shipping service.Shipping) (*domain.Cart, error) {
	s.gotCartID, s.shipping = cartID, shipping
	return s.cart, s.err
}

func (s *stubService) RenameCart(_ context.Context, oldID, newID string) (*domain.Cart, error) {
	s.gotOldID, s.gotNewID = oldID, newID
	return s.cart, s.err
}

func (s *stubService) HealthCheck(context.Context) service.Health {
	return s.health
}

func serve(t *testing.T, stub *stubService, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewCartHandler(stub), 5*time.Second)
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		Total: 20.00,
		Tax:   4.00,
		Items: []domain.LineItem{
			{SKU: "SKU1", Name: "Widget", Price: 10.00, Qty: 2, Subtotal: 20.00},
		},
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	stub := &stubService{health: service.Health{App: "OK", Redis: true}}

	rec := serve(t, stub, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"app":"OK","redis":true}`, rec.Body.String())
}

func TestGetCart(t *testing.T) {
	stub := &stubService{cart: sampleCart()}

	rec := serve(t, stub, http.MethodGet, "/cart/c1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", stub.gotCartID)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, *sampleCart(), cart)
}

func TestGetCart_NotFound(t *testing.T) {
	stub := &stubService{err: service.ErrCartNotFound}

	rec := serve(t, stub, http.MethodGet, "/cart/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cart not found", decodeError(t, rec))
}

func TestDeleteCart(t *testing.T) {
	stub := &stubService{}

	rec := serve(t, stub, http.MethodDelete, "/cart/c1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestDeleteCart_NotFound(t *testing.T) {
	stub := &stubService{err: service.ErrCartNotFound}

	rec := serve(t, stub, http.MethodDelete, "/cart/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem(t *testing.T) {
	stub := &stubService{cart: sampleCart()}

	rec := serve(t, stub, http.MethodGet, "/add/c1/SKU1/2", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", stub.gotCartID)
	assert.Equal(t, "SKU1", stub.gotSKU)
	assert.Equal(t, 2, stub.gotQty)
}

func TestAddItem_QuantityNotANumber(t *testing.T) {
	stub := &stubService{}

	rec := serve(t, stub, http.MethodGet, "/add/c1/SKU1/lots", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity must be a number", decodeError(t, rec))
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	stub := &stubService{err: service.ErrInvalidQuantity}

	rec := serve(t, stub, http.MethodGet, "/add/c1/SKU1/0", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity has to be greater than zero", decodeError(t, rec))
}

func TestAddItem_ProductNotFound(t *testing.T) {
	stub := &stubService{err: catalog.ErrProductNotFound}

	rec := serve(t, stub, http.MethodGet, "/add/c1/UNKNOWN/1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decodeError(t, rec))
}

func TestAddItem_CatalogueUnavailable(t *testing.T) {
	stub := &stubService{err: catalog.ErrUnavailable}

	rec := serve(t, stub, http.MethodGet, "/add/c1/SKU1/1", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	stub := &stubService{cart: sampleCart()}

	rec := serve(t, stub, http.MethodGet, "/update/c1/SKU1/5", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, stub.gotQty)
}

func TestUpdateItem_NegativeQuantity(t *testing.T) {
	stub := &stubService{err: service.ErrNegativeQuantity}

	rec := serve(t, stub, http.MethodGet, "/update/c1/SKU1/-1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "negative quantity not allowed", decodeError(t, rec))
}

func TestUpdateItem_NotInCart(t *testing.T) {
	stub := &stubService{err: service.ErrItemNotInCart}

	rec := serve(t, stub, http.MethodGet, "/update/c1/SKU9/1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not in cart", decodeError(t, rec))
}

func TestAddShipping(t *testing.T) {
	stub := &stubService{cart: sampleCart()}
	body := strings.NewReader(`{"distance":10,"cost":5.00,"location":"Town"}`)

	rec := serve(t, stub, http.MethodPost, "/shipping/c1", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.Shipping{Distance: 10, Cost: 5.00, Location: "Town"}, stub.shipping)
}

func TestAddShipping_FieldMissing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no location", `{"distance":10,"cost":5.00}`},
		{"no cost", `{"distance":10,"location":"Town"}`},
		{"no distance", `{"cost":5.00,"location":"Town"}`},
		{"not json", `shipping please`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubService{}, http.MethodPost, "/shipping/c1", strings.NewReader(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "shipping data missing", decodeError(t, rec))
		})
	}
}

func TestRenameCart(t *testing.T) {
	stub := &stubService{cart: sampleCart()}

	rec := serve(t, stub, http.MethodGet, "/rename/old/new", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old", stub.gotOldID)
	assert.Equal(t, "new", stub.gotNewID)
}

func TestRenameCart_SourceMissing(t *testing.T) {
	stub := &stubService{err: service.ErrCartNotFound}

	rec := serve(t, stub, http.MethodGet, "/rename/nope/new", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "cart not found", decodeError(t, rec))
}

func TestStoreFailure_Returns500(t *testing.T) {
	stub := &stubService{err: io.ErrUnexpectedEOF}

	rec := serve(t, stub, http.MethodGet, "/cart/c1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}
