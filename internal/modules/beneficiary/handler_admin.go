package beneficiary

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

type ListRequest struct {
	Status string `query:"status" enum:"pending,approved,rejected" doc:"Filter by review status"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
	Offset int    `query:"offset" default:"0" minimum:"0"`
}

type ListResponse struct {
	Body *Page
}

func (h *Handler) ListHandler(ctx context.Context, input *ListRequest) (*ListResponse, error) {
	f := ListFilter{Limit: input.Limit, Offset: input.Offset}
	if input.Status != "" {
		st := Status(input.Status)
		f.Status = &st
	}
	page, err := h.service.List(ctx, f)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &ListResponse{Body: page}, nil
}

type StatisticsResponse struct {
	Body *Statistics
}

func (h *Handler) StatisticsHandler(ctx context.Context, _ *struct{}) (*StatisticsResponse, error) {
	st, err := h.service.Statistics(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &StatisticsResponse{Body: st}, nil
}

type IDRequest struct {
	ID string `path:"id"`
}

func (h *Handler) GetHandler(ctx context.Context, input *IDRequest) (*ProfileResponse, error) {
	p, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &ProfileResponse{}
	resp.Body.Profile = p
	return resp, nil
}

type ReviewResponse struct {
	Body struct {
		Profile   *Profile `json:"profile"`
		EmailSent bool     `json:"emailSent"`
	}
}

func toReviewResponse(r *ReviewResult) *ReviewResponse {
	resp := &ReviewResponse{}
	resp.Body.Profile = r.Profile
	resp.Body.EmailSent = r.EmailSent
	return resp
}

func (h *Handler) ApproveHandler(ctx context.Context, input *IDRequest) (*ReviewResponse, error) {
	res, err := h.service.Approve(ctx, input.ID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	h.logger.Info("beneficiary approved", "beneficiary_id", input.ID)
	return toReviewResponse(res), nil
}

type RejectRequest struct {
	ID   string `path:"id"`
	Body struct {
		Reason string `json:"reason" validate:"required,max=1000"`
	}
}

func (h *Handler) RejectHandler(ctx context.Context, input *RejectRequest) (*ReviewResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	res, err := h.service.Reject(ctx, input.ID, input.Body.Reason)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	h.logger.Info("beneficiary rejected", "beneficiary_id", input.ID)
	return toReviewResponse(res), nil
}
