package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
)

// Problem is the problem+json body every endpoint returns on failure. Beyond
// the RFC 9457 members it carries a stable business code, an optional context
// payload and the request id.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Errors []*huma.ErrorDetail `json:"errors,omitempty"`

	Code      string `json:"code,omitempty"`
	Context   any    `json:"context,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func (p *Problem) Error() string {
	switch {
	case p.Detail != "":
		return p.Detail
	case p.Title != "":
		return p.Title
	}
	return http.StatusText(p.GetStatus())
}

func (p *Problem) GetStatus() int {
	if p.Status == 0 {
		return http.StatusInternalServerError
	}
	return p.Status
}

func (p *Problem) ContentType(ct string) string {
	switch ct {
	case "application/json":
		return "application/problem+json"
	case "application/cbor":
		return "application/problem+cbor"
	}
	return ct
}

// DomainProblem is satisfied by domainerr.DomainError and validation.ValidationError.
type DomainProblem interface {
	ProblemCode() string
	ProblemStatus() int
	ProblemTitle() string
	ProblemDetail() string
	ProblemTypeURI() string
	ProblemContext() any
}

// UseProblems makes huma's own errors (schema validation, unsupported media
// type, body too large) render as Problem, with a code derived from the status.
func UseProblems() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		p := &Problem{
			Type:   "urn:problem:" + toKebab(codeForStatus(status)),
			Title:  http.StatusText(status),
			Status: status,
			Detail: msg,
			Code:   codeForStatus(status),
		}
		for _, err := range errs {
			var d huma.ErrorDetailer
			if errors.As(err, &d) {
				p.Errors = append(p.Errors, d.ErrorDetail())
			} else if err != nil {
				p.Errors = append(p.Errors, &huma.ErrorDetail{Message: err.Error()})
			}
		}
		return p
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "ErrValidation"
	case http.StatusUnauthorized:
		return "ErrUnauthorized"
	case http.StatusForbidden:
		return "ErrForbidden"
	case http.StatusNotFound:
		return "ErrNotFound"
	case http.StatusRequestEntityTooLarge:
		return "ErrFileTooLarge"
	case http.StatusUnsupportedMediaType:
		return "ErrUnsupportedType"
	}
	if status >= 500 {
		return "ErrInternal"
	}
	return "ErrRequest"
}

// ToProblem maps err onto a Problem. Status errors pass through unchanged and
// anything that is not a DomainProblem is logged and hidden behind a 500.
func ToProblem(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(huma.StatusError); ok {
		return se
	}

	var dp DomainProblem
	if !errors.As(err, &dp) {
		slog.ErrorContext(ctx, "unmapped error", "error", err, "request_id", middleware.GetReqID(ctx))
		return InternalProblem(ctx, "")
	}

	code, status := dp.ProblemCode(), dp.ProblemStatus()
	p := &Problem{
		Type:      dp.ProblemTypeURI(),
		Title:     dp.ProblemTitle(),
		Status:    status,
		Detail:    dp.ProblemDetail(),
		Code:      code,
		Context:   dp.ProblemContext(),
		RequestID: middleware.GetReqID(ctx),
	}
	if p.Type == "" {
		p.Type = "urn:problem:" + toKebab(code)
	}
	if p.Title == "" {
		p.Title = http.StatusText(status)
	}
	if p.Detail == "" {
		p.Detail = p.Title
	}
	if status >= 500 {
		slog.ErrorContext(ctx, "request failed", "code", code, "error", err, "request_id", p.RequestID)
	}
	return p
}

// InternalProblem builds a generic 500 whose detail never leaks internals.
func InternalProblem(ctx context.Context, detail string) *Problem {
	if detail == "" {
		detail = "Something went wrong. Please try again later."
	}
	return &Problem{
		Type:      "urn:problem:internal",
		Title:     http.StatusText(http.StatusInternalServerError),
		Status:    http.StatusInternalServerError,
		Detail:    detail,
		Code:      "ErrInternal",
		RequestID: middleware.GetReqID(ctx),
	}
}

// WriteProblem writes err as problem+json for middleware running outside huma.
func WriteProblem(w http.ResponseWriter, r *http.Request, err error) {
	var p *Problem
	if !errors.As(ToProblem(r.Context(), err), &p) {
		p = InternalProblem(r.Context(), "")
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.GetStatus())
	_ = json.NewEncoder(w).Encode(p)
}

// toKebab turns ErrInvalidOrExpiredCode into err-invalid-or-expired-code and
// USER_NOT_FOUND into user-not-found.
func toKebab(s string) string {
	var b strings.Builder
	prevLowerOrDigit := false
	lastHyphen := true
	for _, r := range s {
		if r == '_' || r == ' ' || r == '-' {
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
			prevLowerOrDigit = false
			continue
		}
		if unicode.IsUpper(r) && prevLowerOrDigit && !lastHyphen {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
		lastHyphen = false
		prevLowerOrDigit = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return strings.TrimSuffix(b.String(), "-")
}
