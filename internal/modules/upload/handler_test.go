package upload

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/gooddeeds-api/internal/middleware/authtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, filename string, data []byte) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return "Content-Type: " + w.FormDataContentType(), &buf
}

func newTestAPI(t *testing.T, store *memStore) humatest.TestAPI {
	_, api := humatest.New(t)
	NewHandler(newTestService(store), slog.New(slog.NewTextHandler(io.Discard, nil))).
		RegisterRoutes(api, authtest.Guards("", ""))
	return api
}

func TestHandler_UploadIdentityProof(t *testing.T) {
	store := newMemStore()
	header, body := multipartBody(t, "proof.pdf", pdfBytes())

	resp := newTestAPI(t, store).Post("/uploads/identity-proof", header, body)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"url":"https://cdn.example.com/beneficiaries/identity/obj"`)
	assert.Contains(t, resp.Body.String(), `"contentType":"application/pdf"`)
}

func TestHandler_RejectsWrongType(t *testing.T) {
	header, body := multipartBody(t, "proof.pdf", pdfBytes())

	resp := newTestAPI(t, newMemStore()).Post("/uploads/family-photo", header, body)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	assert.Contains(t, resp.Body.String(), "ErrUnsupportedType")
}

func TestHandler_UnknownKind(t *testing.T) {
	header, body := multipartBody(t, "a.png", pngBytes(t, 2, 2))

	resp := newTestAPI(t, newMemStore()).Post("/uploads/avatar", header, body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
