package verification

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
)

// Context names the workflow a code belongs to. It decides the code length,
// the staged payload shape and how a verified code is finalized.
type Context string

const (
	ContextSignupDonor       Context = "signup_donor"
	ContextSignupBeneficiary Context = "signup_beneficiary"
	ContextPasswordReset     Context = "password_reset"
)

func (c Context) Valid() bool {
	switch c {
	case ContextSignupDonor, ContextSignupBeneficiary, ContextPasswordReset:
		return true
	}
	return false
}

// IsSignup reports whether verifying the code creates an account.
func (c Context) IsSignup() bool {
	return c == ContextSignupDonor || c == ContextSignupBeneficiary
}

// CodeLength is 4 digits for signups and 6 for password resets.
func (c Context) CodeLength() int {
	if c == ContextPasswordReset {
		return 6
	}
	return 4
}

// VerificationCode is a single-use code with the data staged for its workflow.
type VerificationCode struct {
	ID        string          `db:"id"`
	Email     string          `db:"email"`
	Code      string          `db:"code"`
	Context   Context         `db:"context"`
	Metadata  json.RawMessage `db:"metadata"`
	ExpiresAt time.Time       `db:"expires_at"`
	Used      bool            `db:"used"`
	CreatedAt time.Time       `db:"created_at"`
}

// Expired reports whether the code is past its expiry at now.
func (v *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// Payload is the data staged with a code until it is verified. Each signup
// context has exactly one payload type; password resets carry none.
type Payload interface {
	payloadContext() Context
}

// DonorSignupPayload stages a donor account. The password is already hashed.
type DonorSignupPayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PhoneNumber  string `json:"phone_number"`
	PasswordHash string `json:"password_hash"`
}

func (DonorSignupPayload) payloadContext() Context { return ContextSignupDonor }

// BeneficiarySignupPayload stages a beneficiary account and its household profile.
type BeneficiarySignupPayload struct {
	DonorSignupPayload
	FamilySize       int     `json:"family_size"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	ZipCode          string  `json:"zip_code"`
	AffectedEvent    string  `json:"affected_event"`
	Statement        string  `json:"statement"`
	FamilyPhotoURL   string  `json:"family_photo_url"`
	IdentityProofURL *string `json:"identity_proof_url,omitempty"`
}

func (BeneficiarySignupPayload) payloadContext() Context { return ContextSignupBeneficiary }

// Details maps the staged household fields onto a profile.
func (p BeneficiarySignupPayload) Details() beneficiary.Details {
	d := beneficiary.Details{
		FamilySize:       p.FamilySize,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		ZipCode:          p.ZipCode,
		IdentityProofURL: p.IdentityProofURL,
	}
	if p.AffectedEvent != "" {
		d.AffectedEvent = &p.AffectedEvent
	}
	if p.Statement != "" {
		d.Statement = &p.Statement
	}
	if p.FamilyPhotoURL != "" {
		d.FamilyPhotoURL = &p.FamilyPhotoURL
	}
	return d
}

// stagedBlobs lists uploaded files that belong to the staged signup.
func (p BeneficiarySignupPayload) stagedBlobs() []string {
	var urls []string
	if p.FamilyPhotoURL != "" {
		urls = append(urls, p.FamilyPhotoURL)
	}
	if p.IdentityProofURL != nil && *p.IdentityProofURL != "" {
		urls = append(urls, *p.IdentityProofURL)
	}
	return urls
}

// checkPayload enforces that signups carry the payload of their own context
// and that resets carry none.
func checkPayload(c Context, p Payload) error {
	if !c.IsSignup() {
		if p != nil {
			return ErrPayloadMismatch
		}
		return nil
	}
	if p == nil || p.payloadContext() != c {
		return ErrPayloadMismatch
	}
	return nil
}

func encodePayload(p Payload) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// decodePayload reads the metadata of v into the payload type of its context.
func decodePayload(v *VerificationCode) (Payload, error) {
	switch v.Context {
	case ContextSignupDonor:
		var p DonorSignupPayload
		if err := json.Unmarshal(v.Metadata, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", v.Context, err)
		}
		return p, nil
	case ContextSignupBeneficiary:
		var p BeneficiarySignupPayload
		if err := json.Unmarshal(v.Metadata, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", v.Context, err)
		}
		return p, nil
	case ContextPasswordReset:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown verification context %q", v.Context)
}

// stagedBlobsOf returns the uploads referenced by a code's payload, if any.
func stagedBlobsOf(v *VerificationCode) []string {
	if v.Context != ContextSignupBeneficiary || len(v.Metadata) == 0 {
		return nil
	}
	p, err := decodePayload(v)
	if err != nil {
		return nil
	}
	return p.(BeneficiarySignupPayload).stagedBlobs()
}

// NewDonorSignup stages donor signup data, hashing the password.
func NewDonorSignup(firstName, lastName, phoneNumber, password string) (DonorSignupPayload, error) {
	hash, err := user.HashPassword(password)
	if err != nil {
		return DonorSignupPayload{}, fmt.Errorf("hash password: %w", err)
	}
	return DonorSignupPayload{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PhoneNumber:  strings.TrimSpace(phoneNumber),
		PasswordHash: hash,
	}, nil
}
