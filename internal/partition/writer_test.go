package partition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestPathMap_MarshalJSON(t *testing.T) {
	m := NewPathMap()
	m.Set("/b", []byte(`{"get":{}}`))
	m.Set("/a.json", []byte(`{"get":{"tags":["x"]}}`))
	m.Set(":colon", []byte(`1`))
	m.Set("/pets/{id}", []byte(`null`))
	assert.True(t, m.Set("/b", []byte(`{"put":{}}`)))

	data, err := m.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"/b": {"put": {}},
		"/a.json": {"get": {"tags": ["x"]}},
		":colon": 1,
		"/pets/{id}": null
	}`, string(data))
	assert.Equal(t, []string{"/b", "/a.json", ":colon", "/pets/{id}"}, objectKeys(data))
}

func TestWriter_Render(t *testing.T) {
	doc, err := parser.ParseDocument("swagger.json", []byte(
		`{"swagger":"2.0","paths":{"/tenant/{tenantId}/widgets":{"get":{}},"/admin/widgets":{"get":{}}},"definitions":{"Widget":{"type":"object"}}}`))
	require.NoError(t, err)

	paths := NewPathMap()
	paths.Set("/widgets", doc.Entries[0].Value)

	w := NewWriter()

	out, err := w.Render(doc, paths, false)
	require.NoError(t, err)
	assert.Equal(t,
		`{"swagger":"2.0","paths":{"/widgets":{"get":{}}},"definitions":{"Widget":{"type":"object"}}}`,
		string(out))
	assert.Equal(t, []string{"swagger", "paths", "definitions"}, objectKeys(out), "top-level order is kept")

	indented, err := w.Render(doc, paths, true)
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(indented))
	assert.Contains(t, string(indented), "\n  ")

	// the source document is not modified
	assert.Contains(t, string(doc.Raw), "/tenant/{tenantId}/widgets")
}

func TestWriter_BuildAndWriteAll(t *testing.T) {
	doc, err := parser.ParseDocument("swagger.json", []byte(
		`{"paths":{"/tenant/{tenantId}/widgets":{"get":{}},"/admin/widgets":{"get":{}}}}`))
	require.NoError(t, err)

	result, err := NewPartitioner().Partition(doc.Entries, Options{
		Marker: "tenant",
		Rules:  []models.RewriteRule{{Match: "tenant/{tenantId}/"}},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	w := NewWriter()
	outputs, err := w.Build(doc, result, dir, false)
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, models.BucketPublic, outputs[0].Bucket)
	assert.Equal(t, filepath.Join(dir, "public", "swagger.json"), outputs[0].Path)
	assert.Equal(t, models.BucketAdmin, outputs[1].Bucket)
	assert.Equal(t, filepath.Join(dir, "admin", "swagger.json"), outputs[1].Path)

	require.NoError(t, w.WriteAll(outputs))

	public, err := os.ReadFile(filepath.Join(dir, "public", "swagger.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"paths":{"/widgets":{"get":{}}}}`, string(public))

	admin, err := os.ReadFile(filepath.Join(dir, "admin", "swagger.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"paths":{"/admin/widgets":{"get":{}}}}`, string(admin))
}

func TestWriter_WriteAllFailsOnBlockedDirectory(t *testing.T) {
	dir := t.TempDir()
	// a file where the bucket directory should go
	blocker := filepath.Join(dir, "public")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewWriter().WriteAll([]Output{{
		Bucket: models.BucketPublic,
		Path:   filepath.Join(blocker, "swagger.json"),
		Data:   []byte(`{}`),
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrOutputWrite)
}

func objectKeys(data []byte) []string {
	var keys []string
	gjson.ParseBytes(data).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}
