package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RenderEmbedded(t *testing.T) {
	e := NewEngine(Config{}, nil)

	out, err := Render(context.Background(), e, SignupCode, SignupCodeData{
		FirstName:        "Ada",
		Code:             "0427",
		ExpiresInMinutes: 10,
		SupportEmail:     "help@example.org",
	})
	require.NoError(t, err)

	assert.Equal(t, "Your verification code", out.Subject)
	assert.Contains(t, out.EmailText, "0427")
	assert.Contains(t, out.EmailHTML, "<strong")
	assert.Contains(t, out.EmailHTML, "0427")
}

func TestEngine_EscapesHTML(t *testing.T) {
	e := NewEngine(Config{}, nil)

	out, err := Render(context.Background(), e, BeneficiaryRejected, BeneficiaryRejectedData{
		FirstName: "<script>",
		Reason:    "Missing documents",
	})
	require.NoError(t, err)
	assert.NotContains(t, out.EmailHTML, "<script>")
	assert.Contains(t, out.EmailText, "Reason: Missing documents")
}

func TestEngine_AllHandlesParse(t *testing.T) {
	e := NewEngine(Config{}, nil)
	ctx := context.Background()

	_, err := Render(ctx, e, PasswordResetCode, PasswordResetCodeData{Code: "123456", ExpiresInMinutes: 10})
	require.NoError(t, err)
	_, err = Render(ctx, e, BeneficiaryApproved, BeneficiaryApprovedData{FirstName: "Ada"})
	require.NoError(t, err)
}

func TestEngine_UnknownTemplate(t *testing.T) {
	e := NewEngine(Config{}, nil)
	_, err := e.RenderAny(context.Background(), "nope.missing", nil)
	assert.Error(t, err)
}

func TestEngine_PreloadAll(t *testing.T) {
	e := NewEngine(Config{}, nil)
	require.NoError(t, e.Preload(All...))
}

func TestEngine_SharedFooter(t *testing.T) {
	e := NewEngine(Config{}, nil)

	out, err := Render(context.Background(), e, BeneficiaryApproved, BeneficiaryApprovedData{
		FirstName:    "Ada",
		SupportEmail: "help@example.org",
	})
	require.NoError(t, err)
	assert.Contains(t, out.EmailText, "Questions? Contact help@example.org.")
	assert.Contains(t, out.EmailHTML, `href="mailto:help@example.org"`)
}

func TestEngine_ReadsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_layout.tmpl"), []byte(`{{define "footer_text"}}bye{{end}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.hello.tmpl"),
		[]byte(`{{define "subject"}}Hello {{.}}{{end}}{{define "email_text"}}hi {{template "footer_text"}}{{end}}`), 0o600))

	e := NewEngine(Config{Dir: dir, Reload: true}, nil)
	out, err := e.RenderAny(context.Background(), "custom.hello", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", out.Subject)
	assert.Equal(t, "hi bye", out.EmailText)
	assert.Empty(t, out.EmailHTML)
}
