package templates

// SignupCodeData holds variables for the 4-digit signup verification code email.
type SignupCodeData struct {
	FirstName        string
	Code             string
	ExpiresInMinutes int
	SupportEmail     string
}

// SignupCode is the typed handle for the verification.signup_code template.
var SignupCode = Expect[SignupCodeData]("verification.signup_code")

// PasswordResetCodeData holds variables for the 6-digit password reset code email.
type PasswordResetCodeData struct {
	FirstName        string
	Code             string
	ExpiresInMinutes int
	SupportEmail     string
}

// PasswordResetCode is the typed handle for the verification.password_reset_code template.
var PasswordResetCode = Expect[PasswordResetCodeData]("verification.password_reset_code")

// BeneficiaryApprovedData holds variables for the approval email.
type BeneficiaryApprovedData struct {
	FirstName    string
	SupportEmail string
}

var BeneficiaryApproved = Expect[BeneficiaryApprovedData]("beneficiary.approved")

// BeneficiaryRejectedData holds variables for the rejection email.
type BeneficiaryRejectedData struct {
	FirstName    string
	Reason       string
	SupportEmail string
}

var BeneficiaryRejected = Expect[BeneficiaryRejectedData]("beneficiary.rejected")

// All lists every scenario the application sends, for Engine.Preload.
var All = []IHandle{SignupCode, PasswordResetCode, BeneficiaryApproved, BeneficiaryRejected}
