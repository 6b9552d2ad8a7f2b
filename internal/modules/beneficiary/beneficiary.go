package beneficiary

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the admin review state of a beneficiary profile.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Owner is the account a profile belongs to, joined from users.
type Owner struct {
	FirstName   string  `db:"first_name" json:"firstName"`
	LastName    string  `db:"last_name" json:"lastName"`
	Email       string  `db:"email" json:"email"`
	PhoneNumber *string `db:"phone_number" json:"phoneNumber,omitempty"`
}

// Profile is the household record attached to a beneficiary account.
// Latitude and Longitude are either both set or both nil.
type Profile struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"userId"`
	Status           Status     `db:"status" json:"status"`
	ProcessedAt      *time.Time `db:"processed_at" json:"processedAt,omitempty"`
	RejectionReason  *string    `db:"rejection_reason" json:"rejectionReason,omitempty"`
	FamilySize       int        `db:"family_size" json:"familySize"`
	Address          string     `db:"address" json:"address"`
	City             string     `db:"city" json:"city"`
	State            string     `db:"state" json:"state"`
	ZipCode          string     `db:"zip_code" json:"zipCode"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	AffectedEvent    *string    `db:"affected_event" json:"affectedEvent,omitempty"`
	Statement        *string    `db:"statement" json:"statement,omitempty"`
	FamilyPhotoURL   *string    `db:"family_photo_url" json:"familyPhotoUrl,omitempty"`
	IdentityProofURL *string    `db:"identity_proof_url" json:"identityProofUrl,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	Owner Owner `db:"owner" json:"owner"`
}

// Details are the household fields supplied at signup or profile completion.
type Details struct {
	FamilySize       int
	Address          string
	City             string
	State            string
	ZipCode          string
	AffectedEvent    *string
	Statement        *string
	FamilyPhotoURL   *string
	IdentityProofURL *string
}

// NewPendingProfile builds an unreviewed profile for userID without a location.
func NewPendingProfile(userID string, d Details) (*Profile, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Profile{
		ID:               id.String(),
		UserID:           userID,
		Status:           StatusPending,
		FamilySize:       d.FamilySize,
		Address:          strings.TrimSpace(d.Address),
		City:             strings.TrimSpace(d.City),
		State:            strings.TrimSpace(d.State),
		ZipCode:          strings.TrimSpace(d.ZipCode),
		AffectedEvent:    d.AffectedEvent,
		Statement:        d.Statement,
		FamilyPhotoURL:   d.FamilyPhotoURL,
		IdentityProofURL: d.IdentityProofURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Coordinate returns the stored location, or ErrNoLocationData when it is missing.
func (p *Profile) Coordinate() (Coordinate, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinate{}, ErrNoLocationData
	}
	return Coordinate{Lat: *p.Latitude, Lon: *p.Longitude}, nil
}

// Match is a profile with its distance from the search origin.
type Match struct {
	Profile       Profile
	DistanceMiles float64
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Statistics summarizes the review queue.
type Statistics struct {
	Total        int `db:"total" json:"total"`
	Pending      int `db:"pending" json:"pending"`
	Approved     int `db:"approved" json:"approved"`
	Rejected     int `db:"rejected" json:"rejected"`
	WithLocation int `db:"with_location" json:"withLocation"`
}

// HouseholdInput is the request shape for household details, shared by the
// signup and profile completion endpoints. Photo and proof URLs come from /uploads.
type HouseholdInput struct {
	FamilySize       int     `json:"familySize" validate:"required,gte=1,lte=20"`
	Address          string  `json:"address" validate:"required,max=255"`
	City             string  `json:"city" validate:"required,max=100"`
	State            string  `json:"state" validate:"required,max=100"`
	ZipCode          string  `json:"zipCode" validate:"required,max=20"`
	AffectedEvent    string  `json:"affectedEvent" validate:"required,max=255"`
	Statement        string  `json:"statement" validate:"required,max=1000"`
	FamilyPhotoURL   string  `json:"familyPhotoUrl" validate:"required,url"`
	IdentityProofURL *string `json:"identityProofUrl,omitempty" validate:"omitempty,url"`
}

// Details converts the request into profile details.
func (h HouseholdInput) Details() Details {
	return Details{
		FamilySize:       h.FamilySize,
		Address:          h.Address,
		City:             h.City,
		State:            h.State,
		ZipCode:          h.ZipCode,
		AffectedEvent:    &h.AffectedEvent,
		Statement:        &h.Statement,
		FamilyPhotoURL:   &h.FamilyPhotoURL,
		IdentityProofURL: h.IdentityProofURL,
	}
}
