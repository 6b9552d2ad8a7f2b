package beneficiary

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

type StatusResponse struct {
	Body *SelfStatus
}

func (h *Handler) StatusHandler(ctx context.Context, _ *struct{}) (*StatusResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	st, err := h.service.StatusForUser(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &StatusResponse{Body: st}, nil
}

// UpdateLocationRequest stores coordinates with at most eight decimals, matching the column precision.
type UpdateLocationRequest struct {
	Body struct {
		Latitude  *float64 `json:"latitude" validate:"required,latitude,maxdecimals=8"`
		Longitude *float64 `json:"longitude" validate:"required,longitude,maxdecimals=8"`
	}
}

type ProfileResponse struct {
	Body struct {
		Profile *Profile `json:"profile"`
	}
}

func (h *Handler) UpdateLocationHandler(ctx context.Context, input *UpdateLocationRequest) (*ProfileResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	p, err := h.service.UpdateLocation(ctx, userID, Coordinate{Lat: *input.Body.Latitude, Lon: *input.Body.Longitude})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ProfileResponse{}
	resp.Body.Profile = p
	return resp, nil
}
