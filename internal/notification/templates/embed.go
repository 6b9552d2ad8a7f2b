package templates

import "embed"

// EmbeddedFS holds the scenario templates and the shared layout.
//
//go:embed files/*.tmpl
var EmbeddedFS embed.FS
