package beneficiary

import (
	"context"
	"strconv"
	"strings"

	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

// DonorHomeRequest carries the optional donor location. Both coordinates must be
// given together; without them the newest approved families are listed instead.
type DonorHomeRequest struct {
	Latitude  string `query:"latitude" doc:"Donor latitude in decimal degrees"`
	Longitude string `query:"longitude" doc:"Donor longitude in decimal degrees"`
	Radius    int    `query:"radius" default:"50" minimum:"1" maximum:"500" doc:"Search radius in miles"`
}

type DonorHomeResponse struct {
	Body *DonorHome
}

func (h *Handler) DonorHomeHandler(ctx context.Context, input *DonorHomeRequest) (*DonorHomeResponse, error) {
	origin, err := parseOrigin(input.Latitude, input.Longitude)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	home, err := h.service.DonorHome(ctx, origin, float64(input.Radius))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DonorHomeResponse{Body: home}, nil
}

func parseOrigin(latRaw, lonRaw string) (*Coordinate, error) {
	latRaw, lonRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lonRaw)
	if latRaw == "" && lonRaw == "" {
		return nil, nil
	}
	if latRaw == "" {
		return nil, validation.NewFieldError("latitude", "latitude is required when longitude is given")
	}
	if lonRaw == "" {
		return nil, validation.NewFieldError("longitude", "longitude is required when latitude is given")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, validation.NewFieldError("latitude", "must be a number")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil, validation.NewFieldError("longitude", "must be a number")
	}
	c := Coordinate{Lat: lat, Lon: lon}
	if err := ValidateCoordinate(c); err != nil {
		return nil, err
	}
	return &c, nil
}
