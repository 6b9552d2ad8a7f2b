package catalog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(api huma.API, guards middleware.Guards) {
	huma.Register(api, huma.Operation{
		OperationID: "beneficiary-catalog",
		Method:      http.MethodGet,
		Path:        "/beneficiary/catalog",
		Summary:     "List active categories with their products",
		Tags:        []string{"Catalog"},
		Middlewares: guards.Beneficiary(),
	}, h.ListCatalogHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-toggle-product",
		Method:      http.MethodPatch,
		Path:        "/admin/products/{id}/toggle-active",
		Summary:     "Toggle a product's availability",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.ToggleProductHandler)
}

type ListCatalogResponse struct {
	Body struct {
		Categories []CategoryWithProducts `json:"categories"`
	}
}

func (h *Handler) ListCatalogHandler(ctx context.Context, _ *struct{}) (*ListCatalogResponse, error) {
	categories, err := h.service.ListCategoriesWithProducts(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ListCatalogResponse{}
	resp.Body.Categories = categories
	return resp, nil
}

type ToggleProductRequest struct {
	ID string `path:"id" format:"uuid"`
}

type ToggleProductResponse struct {
	Body struct {
		Product *Product `json:"product"`
	}
}

func (h *Handler) ToggleProductHandler(ctx context.Context, input *ToggleProductRequest) (*ToggleProductResponse, error) {
	p, err := h.service.ToggleProductActive(ctx, input.ID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ToggleProductResponse{}
	resp.Body.Product = p
	return resp, nil
}
