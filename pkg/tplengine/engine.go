// Package tplengine provides the two template mechanisms actions render
// through: Go's text/template for {{ }} Liquid-style
// rendering, and a literal ${name} interpolation pass for simple value
// contexts (spec §4.4 Variable substitution).
package tplengine

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format selects how a rendered value should ultimately be interpreted.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// HasTemplate reports whether s contains a {{ }} template delimiter pair.
func HasTemplate(s string) bool {
	open := strings.Index(s, "{{")
	if open < 0 {
		return false
	}
	return strings.Index(s[open:], "}}") >= 0
}

// Engine renders named or ad hoc text/template bodies. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	format              Format
	precisionPreserving bool
	templates           map[string]*template.Template
}

// NewEngine constructs an Engine for the given output format.
func NewEngine(format Format) *Engine {
	return &Engine{format: format, templates: make(map[string]*template.Template)}
}

// WithFormat sets the output format and returns the engine for chaining.
func (e *Engine) WithFormat(format Format) *Engine {
	e.format = format
	return e
}

// WithPrecisionPreservation records the precision-preservation flag and
// returns the engine for chaining. Render and RenderString do not consult
// it.
func (e *Engine) WithPrecisionPreservation(preserve bool) *Engine {
	e.precisionPreserving = preserve
	return e
}

func newTemplate(name, body string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(body)
}

// AddTemplate compiles and registers body under name for later Render calls.
func (e *Engine) AddTemplate(name, body string) error {
	tmpl, err := newTemplate(name, body)
	if err != nil {
		return fmt.Errorf("tplengine: parse template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return nil
}

// Render executes the named template against data.
func (e *Engine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("tplengine: template %q not found", name)
	}
	return execute(tmpl, data)
}

// RenderString compiles and executes body in one step. Input with no
// template markers is returned unchanged without invoking text/template.
func (e *Engine) RenderString(body string, data any) (string, error) {
	if !HasTemplate(body) {
		return body, nil
	}
	tmpl, err := newTemplate("inline", body)
	if err != nil {
		return "", fmt.Errorf("tplengine: parse inline template: %w", err)
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("tplengine: execute template: %w", err)
	}
	return buf.String(), nil
}
