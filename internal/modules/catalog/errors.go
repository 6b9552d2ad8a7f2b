package catalog

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

var (
	ErrProductNotFound = domainerr.New("ErrProductNotFound", http.StatusNotFound,
		"product not found", "urn:problem:catalog/err-product-not-found")

	ErrInternal = domainerr.ErrInternal
)
