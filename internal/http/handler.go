package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/raghudevopsb84/roboshop-cart/internal/catalog"
	"github.com/raghudevopsb84/roboshop-cart/internal/domain"
	"github.com/raghudevopsb84/roboshop-cart/internal/service"
	"github.com/raghudevopsb84/roboshop-cart/internal/store"
)

// CartService is the surface the handlers need; the engine implements it.
type CartService interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	DeleteCart(ctx context.Context, cartID string) error
	AddItem(ctx context.Context, cartID, sku string, qty int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, cartID, sku string, qty int) (*domain.Cart, error)
	AddShipping(ctx context.Context, cartID string, shipping service.Shipping) (*domain.Cart, error)
	RenameCart(ctx context.Context, oldID, newID string) (*domain.Cart, error)
	HealthCheck(ctx context.Context) service.Health
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// NewRouter mounts the cart routes with the standard middleware chain.
func NewRouter(h *CartHandler, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", h.Health)
	r.Get("/cart/{id}", h.GetCart)
	r.Delete("/cart/{id}", h.DeleteCart)
	r.Get("/add/{id}/{sku}/{qty}", h.AddItem)
	r.Get("/update/{id}/{sku}/{qty}", h.UpdateItem)
	r.Post("/shipping/{id}", h.AddShipping)
	r.Get("/rename/{from}/{to}", h.RenameCart)

	return r
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *CartHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.HealthCheck(r.Context()))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCart(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(chi.URLParam(r, "qty"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "quantity must be a number")
		return
	}

	cart, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sku"), qty)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(chi.URLParam(r, "qty"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "quantity must be a number")
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sku"), qty)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

type shippingDTO struct {
	Distance *float64 `json:"distance"`
	Cost     *float64 `json:"cost"`
	Location *string  `json:"location"`
}

func (h *CartHandler) AddShipping(w http.ResponseWriter, r *http.Request) {
	var dto shippingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, service.ErrShippingDataMissing.Error())
		return
	}
	if dto.Distance == nil || dto.Cost == nil || dto.Location == nil {
		respondError(w, http.StatusBadRequest, service.ErrShippingDataMissing.Error())
		return
	}

	shipping := service.Shipping{
		Distance: *dto.Distance,
		Cost:     *dto.Cost,
		Location: *dto.Location,
	}
	cart, err := h.service.AddShipping(r.Context(), chi.URLParam(r, "id"), shipping)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RenameCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RenameCart(r.Context(), chi.URLParam(r, "from"), chi.URLParam(r, "to"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNegativeQuantity),
		errors.Is(err, service.ErrShippingDataMissing):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrItemNotInCart),
		errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, catalog.ErrUnavailable.Error())
	case errors.Is(err, store.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, store.ErrUnavailable.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
