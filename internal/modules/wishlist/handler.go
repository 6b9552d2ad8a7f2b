package wishlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
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
		OperationID: "list-desired-items",
		Method:      http.MethodGet,
		Path:        "/beneficiary/desired-items",
		Summary:     "List the family's desired items grouped by category",
		Tags:        []string{"Wishlist"},
		Middlewares: guards.Beneficiary(),
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		OperationID: "replace-desired-items",
		Method:      http.MethodPut,
		Path:        "/beneficiary/desired-items",
		Summary:     "Replace the family's desired items",
		Tags:        []string{"Wishlist"},
		Middlewares: guards.Beneficiary(),
	}, h.ReplaceHandler)

	huma.Register(api, huma.Operation{
		OperationID: "update-desired-item",
		Method:      http.MethodPatch,
		Path:        "/beneficiary/desired-items/{productId}",
		Summary:     "Change the requested quantity of a product",
		Tags:        []string{"Wishlist"},
		Middlewares: guards.Beneficiary(),
	}, h.UpdateQuantityHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "remove-desired-item",
		Method:        http.MethodDelete,
		Path:          "/beneficiary/desired-items/{productId}",
		Summary:       "Remove a product from the family's desired items",
		Tags:          []string{"Wishlist"},
		DefaultStatus: http.StatusNoContent,
		Middlewares:   guards.Beneficiary(),
	}, h.RemoveHandler)
}

type ListResponse struct {
	Body struct {
		Categories []CategoryGroup `json:"categories"`
	}
}

func (h *Handler) ListHandler(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	groups, err := h.service.Grouped(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ListResponse{}
	resp.Body.Categories = groups
	return resp, nil
}

type ReplaceRequest struct {
	Body struct {
		Items []Item `json:"items" validate:"dive"`
	}
}

func (h *Handler) ReplaceHandler(ctx context.Context, input *ReplaceRequest) (*ListResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if err := h.service.ReplaceAll(ctx, userID, input.Body.Items); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return h.ListHandler(ctx, nil)
}

type UpdateQuantityRequest struct {
	ProductID string `path:"productId" format:"uuid"`
	Body      struct {
		Quantity int `json:"quantity" validate:"gte=1,lte=100"`
	}
}

type UpdateQuantityResponse struct {
	Body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
}

func (h *Handler) UpdateQuantityHandler(ctx context.Context, input *UpdateQuantityRequest) (*UpdateQuantityResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if err := h.service.UpdateQuantity(ctx, userID, input.ProductID, input.Body.Quantity); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &UpdateQuantityResponse{}
	resp.Body.ProductID = input.ProductID
	resp.Body.Quantity = input.Body.Quantity
	return resp, nil
}

type RemoveRequest struct {
	ProductID string `path:"productId" format:"uuid"`
}

func (h *Handler) RemoveHandler(ctx context.Context, input *RemoveRequest) (*struct{}, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := h.service.Remove(ctx, userID, input.ProductID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return nil, nil
}
