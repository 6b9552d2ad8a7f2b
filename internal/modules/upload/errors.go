package upload

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

var (
	ErrUnknownKind = domainerr.New("ErrUnknownKind", http.StatusNotFound,
		"unknown upload kind", "urn:problem:upload/err-unknown-kind")

	ErrEmptyFile = domainerr.New("ErrEmptyFile", http.StatusBadRequest,
		"the uploaded file is empty", "urn:problem:upload/err-empty-file")

	ErrFileTooLarge = domainerr.New("ErrFileTooLarge", http.StatusRequestEntityTooLarge,
		"the uploaded file is too large", "urn:problem:upload/err-file-too-large")

	ErrUnsupportedType = domainerr.New("ErrUnsupportedType", http.StatusUnsupportedMediaType,
		"the uploaded file type is not accepted", "urn:problem:upload/err-unsupported-type")

	ErrStoreFailed = domainerr.New("ErrStoreFailed", http.StatusBadGateway,
		"the file could not be stored, please try again", "urn:problem:upload/err-store-failed")

	ErrInternal = domainerr.ErrInternal
)
