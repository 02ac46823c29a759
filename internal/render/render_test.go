package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swaggerContext = `{
	"info": {"title": "Widgets API"},
	"basePath": "/api/v1/widgets",
	"schemes": ["https", "http"],
	"host": "EXAMPLE.com",
	"visibility": "public",
	"description": "<b>&</b>",
	"big": 12345678901234567890,
	"count": 3,
	"ratio": 0.5
}`

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "plain lookup",
			template: "<h1>{{info.title}}</h1>",
			want:     "<h1>Widgets API</h1>",
		},
		{
			name:     "ifeq matches",
			template: `{{#ifeq visibility "public"}}open{{else}}closed{{/ifeq}}`,
			want:     "open",
		},
		{
			name:     "ifeq does not match",
			template: `{{#ifeq visibility "admin"}}open{{else}}closed{{/ifeq}}`,
			want:     "closed",
		},
		{
			name:     "ifeq with a missing value",
			template: `{{#ifeq missing "admin"}}open{{else}}closed{{/ifeq}}`,
			want:     "closed",
		},
		{
			name:     "basename",
			template: "{{basename basePath}}",
			want:     "widgets",
		},
		{
			name:     "join",
			template: `{{join schemes ", "}}`,
			want:     "https, http",
		},
		{
			name:     "lower",
			template: "{{lower host}}",
			want:     "example.com",
		},
		{
			name:     "json is not escaped",
			template: "{{json info}}",
			want:     `{"title":"Widgets API"}`,
		},
		{
			name:     "json keeps HTML characters",
			template: "{{json description}}",
			want:     `"<b>&</b>"`,
		},
		{
			name:     "large integers are exact",
			template: "{{big}} {{json big}}",
			want:     "12345678901234567890 12345678901234567890",
		},
		{
			name:     "numbers",
			template: "{{count}} {{ratio}}",
			want:     "3 0.5",
		},
		{
			name:     "each over a list with data",
			template: "{{#each schemes}}{{@index}}:{{this}}{{#if @last}}.{{/if}} {{/each}}",
			want:     "0:https 1:http. ",
		},
		{
			name:     "each over a list",
			template: "{{#each schemes}}[{{this}}]{{/each}}",
			want:     "[https][http]",
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.template, []byte(swaggerContext))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_Render_DocumentOrder(t *testing.T) {
	context := []byte(`{
		"info": {"title": "Widgets", "version": "1.0", "description": "all widgets"},
		"paths": {
			"/s": {"get": {}},
			"/z": {"get": {}},
			"/y": {"get": {}},
			"/x": {"get": {}},
			"/w": {"post": {}, "get": {}},
			"/v": {"get": {}},
			"/u": {"get": {}},
			"/t": {"get": {}}
		}
	}`)

	r := NewRenderer()
	for i := 0; i < 20; i++ {
		out, err := r.Render("{{#each paths}}{{@key}} {{/each}}", context)
		require.NoError(t, err)
		require.Equal(t, "/s /z /y /x /w /v /u /t ", out)
	}

	t.Run("nested objects", func(t *testing.T) {
		out, err := r.Render("{{#each paths}}{{@key}}:{{#each this}} {{@key}}{{/each}}{{/each}}",
			[]byte(`{"paths": {"/w": {"post": {}, "get": {}, "delete": {}}}}`))
		require.NoError(t, err)
		assert.Equal(t, "/w: post get delete", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := r.Render("{{json info}}", context)
		require.NoError(t, err)
		assert.Equal(t, `{"title":"Widgets","version":"1.0","description":"all widgets"}`, out)
	})

	t.Run("empty object renders the inverse", func(t *testing.T) {
		out, err := r.Render("{{#each paths}}x{{else}}none{{/each}}", []byte(`{"paths": {}}`))
		require.NoError(t, err)
		assert.Equal(t, "none", out)
	})
}

func TestRenderer_Render_Errors(t *testing.T) {
	r := NewRenderer()

	t.Run("invalid context", func(t *testing.T) {
		_, err := r.Render("{{title}}", []byte(`{"title": `))
		assert.ErrorIs(t, err, parser.ErrMalformedInput)
	})

	t.Run("invalid template", func(t *testing.T) {
		_, err := r.Render("{{#if title}}unclosed", []byte(`{"title": "x"}`))
		assert.ErrorIs(t, err, parser.ErrMalformedInput)
	})
}

func TestRenderer_RenderFiles(t *testing.T) {
	dir := t.TempDir()
	contextFile := filepath.Join(dir, "swagger.json")
	templateFile := filepath.Join(dir, "page.hbs")
	require.NoError(t, os.WriteFile(contextFile, []byte(swaggerContext), 0o644))
	require.NoError(t, os.WriteFile(templateFile, []byte("<title>{{info.title}}</title>"), 0o644))

	r := NewRenderer()

	t.Run("returns the output without writing", func(t *testing.T) {
		out, err := r.RenderFiles(Request{ContextFile: contextFile, TemplateFile: templateFile})
		require.NoError(t, err)
		assert.Equal(t, "<title>Widgets API</title>", out)
	})

	t.Run("writes the output file", func(t *testing.T) {
		outFile := filepath.Join(dir, "site", "index.html")
		out, err := r.RenderFiles(Request{ContextFile: contextFile, TemplateFile: templateFile, OutputFile: outFile})
		require.NoError(t, err)

		written, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Equal(t, out, string(written))
	})

	t.Run("missing files", func(t *testing.T) {
		_, err := r.RenderFiles(Request{ContextFile: filepath.Join(dir, "nope.json"), TemplateFile: templateFile})
		assert.ErrorIs(t, err, parser.ErrInputNotFound)

		_, err = r.RenderFiles(Request{ContextFile: contextFile})
		assert.ErrorIs(t, err, parser.ErrInputNotFound)
	})

	t.Run("output blocked by a file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocked")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		_, err := r.RenderFiles(Request{
			ContextFile:  contextFile,
			TemplateFile: templateFile,
			OutputFile:   filepath.Join(blocker, "index.html"),
		})
		assert.ErrorIs(t, err, parser.ErrOutputWrite)
	})
}
