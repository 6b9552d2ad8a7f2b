package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved   map[string][]byte
	folders []string
	types   []string
	failErr error
}

func newMemStore() *memStore { return &memStore{saved: map[string][]byte{}} }

func (m *memStore) Store(_ context.Context, data []byte, folder, contentType string) (string, error) {
	if m.failErr != nil {
		return "", m.failErr
	}
	url := "https://cdn.example.com/" + folder + "/obj"
	m.saved[url] = data
	m.folders = append(m.folders, folder)
	m.types = append(m.types, contentType)
	return url, nil
}

func (m *memStore) Delete(_ context.Context, url string) bool {
	_, ok := m.saved[url]
	delete(m.saved, url)
	return ok
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
}

func newTestService(store *memStore) Service {
	return NewService(&Config{Store: store, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestUpload_FamilyPhotoIsNormalizedToJPEG(t *testing.T) {
	store := newMemStore()
	got, err := newTestService(store).Upload(context.Background(), KindFamilyPhoto, pngBytes(t, 3000, 1500))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, []string{"beneficiaries/photos"}, store.folders)

	img, _, err := image.DecodeConfig(bytes.NewReader(store.saved[got.URL]))
	require.NoError(t, err)
	assert.Equal(t, 2048, img.Width)
	assert.Equal(t, 1024, img.Height)
}

func TestUpload_IdentityProofKeepsPDF(t *testing.T) {
	store := newMemStore()
	got, err := newTestService(store).Upload(context.Background(), KindIdentityProof, pdfBytes())
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, []string{"beneficiaries/identity"}, store.folders)
	assert.Equal(t, pdfBytes(), store.saved[got.URL])
}

func TestUpload_Rejections(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, Kind("avatar"), pngBytes(t, 4, 4))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = svc.Upload(ctx, KindFamilyPhoto, nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.Upload(ctx, KindFamilyPhoto, pdfBytes())
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = svc.Upload(ctx, KindIdentityProof, bytes.Repeat([]byte{'a'}, maxProofBytes+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, KindIdentityProof, []byte("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUpload_StoreFailure(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("s3 unavailable")

	_, err := newTestService(store).Upload(context.Background(), KindIdentityProof, pdfBytes())
	assert.ErrorIs(t, err, ErrStoreFailed)
	assert.Equal(t, http.StatusBadGateway, ErrStoreFailed.HTTPStatus)
}

func TestLimit(t *testing.T) {
	svc := newTestService(newMemStore())
	assert.EqualValues(t, maxPhotoBytes, svc.Limit(KindFamilyPhoto))
	assert.EqualValues(t, maxProofBytes, svc.Limit(KindIdentityProof))
	assert.Zero(t, svc.Limit(Kind("avatar")))
}
