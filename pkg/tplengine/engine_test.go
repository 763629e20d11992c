package tplengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasTemplate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"no markers", "plain text", false},
		{"with delims", "Hello {{ .Name }}", true},
		{"unmatched open", "Hello {{ .Name", false},
		{"dollar brace is not a liquid template", "Hello ${name}", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasTemplate(tt.in))
		})
	}
}

func TestEngine_RenderString(t *testing.T) {
	t.Run("Should pass through text with no template markers unchanged", func(t *testing.T) {
		e := NewEngine(FormatText)
		out, err := e.RenderString("no templates here", nil)
		require.NoError(t, err)
		assert.Equal(t, "no templates here", out)
	})

	t.Run("Should render a template against the supplied data", func(t *testing.T) {
		e := NewEngine(FormatText)
		out, err := e.RenderString("Hello {{ .Name }}", map[string]any{"Name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello World", out)
	})

	t.Run("Should error on a missing key", func(t *testing.T) {
		e := NewEngine(FormatText)
		_, err := e.RenderString("Hi {{ .Name }}", map[string]any{})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "map has no entry for key") ||
			strings.Contains(err.Error(), "missing key"))
	})
}

func TestEngine_AddTemplateAndRender(t *testing.T) {
	t.Run("Should render a named template added ahead of time", func(t *testing.T) {
		e := NewEngine(FormatText)
		require.NoError(t, e.AddTemplate("greeting", "Hello {{ .Name }}"))
		out, err := e.Render("greeting", map[string]any{"Name": "World"})
		require.NoError(t, err)
		assert.Equal(t, "Hello World", out)
	})

	t.Run("Should error when rendering an unregistered template", func(t *testing.T) {
		e := NewEngine(FormatText)
		_, err := e.Render("missing", nil)
		require.Error(t, err)
	})
}

func TestEngine_FluentSetters(t *testing.T) {
	t.Run("Should chain WithFormat and WithPrecisionPreservation", func(t *testing.T) {
		e := NewEngine(FormatText).WithFormat(FormatJSON).WithPrecisionPreservation(true)
		assert.Equal(t, FormatJSON, e.format)
		assert.True(t, e.precisionPreserving)
	})
}

func TestSubstituteVariables(t *testing.T) {
	t.Run("Should substitute a simple variable reference", func(t *testing.T) {
		out := SubstituteVariables("Process ${file} with ${count} items", map[string]string{
			"file": "report.csv", "count": "3",
		})
		assert.Equal(t, "Process report.csv with 3 items", out)
	})

	t.Run("Should leave unresolved references literal", func(t *testing.T) {
		out := SubstituteVariables("Hello ${name}", map[string]string{})
		assert.Equal(t, "Hello ${name}", out)
	})

	t.Run("Should never substitute internal keys even if present in vars", func(t *testing.T) {
		out := SubstituteVariables("${_internal}", map[string]string{"_internal": "leaked"})
		assert.Equal(t, "${_internal}", out)
	})
}

func TestStringifyContext(t *testing.T) {
	t.Run("Should drop internal keys and stringify values", func(t *testing.T) {
		out := StringifyContext(map[string]any{
			"name":             "World",
			"count":            3,
			"_mcp_server_port": 8080,
		})
		assert.Equal(t, "World", out["name"])
		assert.Equal(t, "3", out["count"])
		_, hasInternal := out["_mcp_server_port"]
		assert.False(t, hasInternal)
	})
}
