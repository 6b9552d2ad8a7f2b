package templates

import (
	"bytes"
	"context"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	texttmpl "text/template"
)

// layoutFile holds the partials shared by every scenario (footer, code block).
const layoutFile = "_layout.tmpl"

// Config controls how the template engine loads templates.
// Dir: when non-empty, templates are read from this directory instead of the
// embedded set (files named <id>.tmpl plus _layout.tmpl).
// Reload: when true and Dir is set, templates are reparsed on every render.
type Config struct {
	Dir    string
	Reload bool
}

// Rendered holds the materialized content of a scenario template.
type Rendered struct {
	Subject   string
	EmailHTML string
	EmailText string
}

// IHandle is a runtime-typed handle to a template scenario.
type IHandle interface {
	ID() string
	DataType() reflect.Type
}

// Handle ties a scenario ID to the data type its template expects.
type Handle[T any] struct {
	id string
}

// Expect creates a typed handle for a template ID such as "verification.signup_code".
func Expect[T any](id string) Handle[T] { return Handle[T]{id: id} }

func (h Handle[T]) ID() string { return h.id }
func (h Handle[T]) DataType() reflect.Type {
	var zero *T
	return reflect.TypeOf(zero).Elem()
}

// Renderer is the DI-friendly interface for the engine.
type Renderer interface {
	RenderAny(ctx context.Context, id string, data any) (Rendered, error)
}

// Engine compiles scenario templates once and renders the subject, text and
// HTML blocks of each.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	source fs.FS
	mu     sync.RWMutex
	cache  map[string]*compiled
}

type compiled struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

// NewEngine creates a template engine over the embedded templates, or over
// cfg.Dir when it is set.
func NewEngine(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	var source fs.FS
	if cfg.Dir != "" {
		source = os.DirFS(cfg.Dir)
	} else {
		sub, err := fs.Sub(EmbeddedFS, "files")
		if err != nil {
			panic(err)
		}
		source = sub
	}
	return &Engine{cfg: cfg, log: log, source: source, cache: make(map[string]*compiled)}
}

// Preload compiles the given scenarios so a broken template fails at startup
// rather than on the first email.
func (e *Engine) Preload(handles ...IHandle) error {
	for _, h := range handles {
		if _, err := e.load(h.ID()); err != nil {
			return fmt.Errorf("preload %s (%s): %w", h.ID(), h.DataType(), err)
		}
	}
	return nil
}

// Render is a typed helper that enforces the data type associated with the handle at compile time.
func Render[T any](ctx context.Context, e *Engine, h Handle[T], data T) (Rendered, error) {
	return e.RenderAny(ctx, h.ID(), data)
}

// RenderAny renders a scenario by ID.
func (e *Engine) RenderAny(_ context.Context, id string, data any) (Rendered, error) {
	c, err := e.load(id)
	if err != nil {
		return Rendered{}, err
	}

	var out Rendered
	if out.Subject, err = execText(c.text, "subject", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s subject: %w", id, err)
	}
	if out.EmailText, err = execText(c.text, "email_text", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s email_text: %w", id, err)
	}
	if c.html.Lookup("email_html") != nil {
		var buf bytes.Buffer
		if err := c.html.ExecuteTemplate(&buf, "email_html", data); err != nil {
			return Rendered{}, fmt.Errorf("render %s email_html: %w", id, err)
		}
		out.EmailHTML = strings.TrimSpace(buf.String())
	}
	return out, nil
}

func (e *Engine) load(id string) (*compiled, error) {
	if e.cfg.Dir != "" && e.cfg.Reload {
		return e.parse(id)
	}

	e.mu.RLock()
	c, ok := e.cache[id]
	e.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := e.parse(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.cache[id] = c
	e.mu.Unlock()
	return c, nil
}

// parse compiles the scenario together with the shared layout, once as text
// for the subject and plain body and once as HTML for the escaped body.
func (e *Engine) parse(id string) (*compiled, error) {
	files := []string{layoutFile, id + ".tmpl"}
	if _, err := fs.Stat(e.source, files[1]); err != nil {
		return nil, fmt.Errorf("template %q not found: %w", id, err)
	}

	text, err := texttmpl.New(id).Option("missingkey=error").ParseFS(e.source, files...)
	if err != nil {
		return nil, fmt.Errorf("parse text template %s: %w", id, err)
	}
	html, err := htmltmpl.New(id).Option("missingkey=error").ParseFS(e.source, files...)
	if err != nil {
		return nil, fmt.Errorf("parse html template %s: %w", id, err)
	}
	if text.Lookup("subject") == nil || text.Lookup("email_text") == nil {
		return nil, fmt.Errorf("template %s must define subject and email_text", id)
	}
	e.log.Debug("compiled email template", "id", id)
	return &compiled{text: text, html: html}, nil
}

func execText(t *texttmpl.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
