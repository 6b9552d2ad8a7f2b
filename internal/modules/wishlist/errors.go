package wishlist

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

var (
	ErrItemNotFound = domainerr.New("ErrItemNotFound", http.StatusNotFound,
		"desired item not found", "urn:problem:wishlist/err-item-not-found")

	ErrDuplicateProduct = domainerr.New("ErrDuplicateProduct", http.StatusBadRequest,
		"each product may appear only once", "urn:problem:wishlist/err-duplicate-product")

	ErrInvalidQuantity = domainerr.New("ErrInvalidQuantity", http.StatusBadRequest,
		"quantity must be between 1 and 100", "urn:problem:wishlist/err-invalid-quantity")

	ErrUnknownProduct = domainerr.New("ErrUnknownProduct", http.StatusBadRequest,
		"one or more products do not exist or are inactive", "urn:problem:wishlist/err-unknown-product")

	ErrInternal = domainerr.ErrInternal
)
