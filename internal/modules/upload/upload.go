package upload

import "slices"

// Kind names what an uploaded file is for. It decides the accepted types,
// the size limit and the folder the file is stored under.
type Kind string

const (
	KindFamilyPhoto   Kind = "family-photo"
	KindIdentityProof Kind = "identity-proof"
)

const (
	maxPhotoBytes  = 10 << 20
	maxProofBytes  = 5 << 20
	maxPhotoPixels = 2048
)

type rule struct {
	folder   string
	maxBytes int64
	accept   []string
	// normalize re-encodes images as bounded JPEGs.
	normalize bool
}

var rules = map[Kind]rule{
	KindFamilyPhoto: {
		folder:    "beneficiaries/photos",
		maxBytes:  maxPhotoBytes,
		accept:    []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff"},
		normalize: true,
	},
	KindIdentityProof: {
		folder:   "beneficiaries/identity",
		maxBytes: maxProofBytes,
		accept:   []string{"image/jpeg", "image/png", "application/pdf"},
	},
}

func (r rule) accepts(contentType string) bool {
	return slices.Contains(r.accept, contentType)
}

// Stored describes a file saved to the blob store.
type Stored struct {
	URL         string
	ContentType string
	Size        int
}
