package service

import "errors"

var (
	ErrInvalidQuantity     = errors.New("quantity has to be greater than zero")
	ErrNegativeQuantity    = errors.New("negative quantity not allowed")
	ErrCartNotFound        = errors.New("cart not found")
	ErrItemNotInCart       = errors.New("not in cart")
	ErrShippingDataMissing = errors.New("shipping data missing")
)
