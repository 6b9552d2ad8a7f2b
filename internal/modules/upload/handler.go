package upload

import (
	"context"
	"io"
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

// RegisterRoutes exposes the upload endpoint. It is public because
// beneficiaries upload their photo and proof before the account exists.
func (h *Handler) RegisterRoutes(api huma.API, _ middleware.Guards) {
	huma.Register(api, huma.Operation{
		OperationID:  "upload-file",
		Method:       http.MethodPost,
		Path:         "/uploads/{kind}",
		Summary:      "Upload a family photo or identity proof and return its URL",
		Tags:         []string{"Uploads"},
		MaxBodyBytes: maxPhotoBytes + 1<<20,
	}, h.UploadHandler)
}

type UploadForm struct {
	File huma.FormFile `form:"file" required:"true"`
}

type UploadRequest struct {
	Kind    string `path:"kind" enum:"family-photo,identity-proof"`
	RawBody huma.MultipartFormFiles[UploadForm]
}

type UploadResponse struct {
	Body struct {
		URL         string `json:"url"`
		ContentType string `json:"contentType"`
		Size        int    `json:"size"`
	}
}

func (h *Handler) UploadHandler(ctx context.Context, input *UploadRequest) (*UploadResponse, error) {
	kind := Kind(input.Kind)
	limit := h.service.Limit(kind)
	if limit == 0 {
		return nil, httpx.ToProblem(ctx, ErrUnknownKind)
	}

	file := input.RawBody.Data().File
	defer file.Close()
	if file.Size > limit {
		return nil, httpx.ToProblem(ctx, ErrFileTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		h.logger.Warn("read upload failed", "error", err)
		return nil, httpx.ToProblem(ctx, ErrEmptyFile.WithCause(err))
	}

	stored, err := h.service.Upload(ctx, kind, data)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &UploadResponse{}
	resp.Body.URL = stored.URL
	resp.Body.ContentType = stored.ContentType
	resp.Body.Size = stored.Size
	return resp, nil
}
