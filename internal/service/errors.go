package service

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")

	ErrValidation      = errors.New("validation failed")
	ErrInvalidQuantity = errors.New("quantity must be > 0")

	ErrItemNotFound         = errors.New("item not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrCartLineNotFound     = errors.New("cart line not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrImageNotFound        = errors.New("image not found")

	ErrItemReferenced = errors.New("item is referenced by existing orders")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOutOfStock        = errors.New("out of stock")
	ErrCheckoutFailed    = errors.New("checkout failed")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)
