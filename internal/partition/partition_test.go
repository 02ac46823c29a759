package partition

import (
	"testing"

	"github.com/brizzai/swagger-split/internal/config"
	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(pairs ...string) []models.PathEntry {
	out := make([]models.PathEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.PathEntry{Key: pairs[i], Value: []byte(pairs[i+1])})
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		key    string
		marker string
		want   models.Bucket
	}{
		{"/tenant/{tenantId}/widgets", "tenant", models.BucketPublic},
		{"/{tenantId}/widgets", "tenant", models.BucketPublic},
		{"/admin/widgets", "tenant", models.BucketAdmin},
		{"/admin/widgets", "admin", models.BucketPublic},
		{"/Tenant/widgets", "tenant", models.BucketAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.key+"_"+tt.marker, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key, tt.marker))
		})
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		rules []models.RewriteRule
		want  string
	}{
		{
			name: "no rules is identity",
			key:  "/tenant/{tenantId}/widgets",
			want: "/tenant/{tenantId}/widgets",
		},
		{
			name:  "deletion",
			key:   "/tenant/{tenantId}/widgets",
			rules: []models.RewriteRule{{Match: "tenant/{tenantId}/"}},
			want:  "/widgets",
		},
		{
			name: "rules apply in order",
			key:  "a",
			rules: []models.RewriteRule{
				{Match: "a", Replacement: "b"},
				{Match: "b", Replacement: "c"},
			},
			want: "c",
		},
		{
			name: "reverse order gives a different key",
			key:  "a",
			rules: []models.RewriteRule{
				{Match: "b", Replacement: "c"},
				{Match: "a", Replacement: "b"},
			},
			want: "b",
		},
		{
			name:  "every occurrence is replaced",
			key:   "/v1/things/v1",
			rules: []models.RewriteRule{{Match: "v1", Replacement: "v2"}},
			want:  "/v2/things/v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.key, tt.rules))
		})
	}
}

func TestPartition_KeepPolicy(t *testing.T) {
	input := entries(
		"/tenant/{tenantId}/widgets", `{"get":{}}`,
		"/admin/widgets", `{"get":{}}`,
		"/tenant/{tenantId}/gadgets", `{"post":{"tags":["g"]}}`,
		"/health", `{"get":{"summary":"ok"}}`,
	)

	result, err := NewPartitioner().Partition(input, Options{
		Marker:      "tenant",
		Rules:       []models.RewriteRule{{Match: "tenant/{tenantId}/"}},
		AdminPolicy: config.AdminPolicyKeep,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/widgets", "/gadgets"}, result.Public.Keys())
	require.NotNil(t, result.Admin)
	assert.Equal(t, []string{"/admin/widgets", "/health"}, result.Admin.Keys())
	assert.Equal(t, len(input), result.Public.Len()+result.Admin.Len())
	assert.Zero(t, result.Collisions)

	// values are carried over untouched
	for _, e := range input {
		a := findAssignment(t, result, e.Key)
		bucket := result.Buckets()[a.Bucket]
		got, ok := bucket.Get(a.FinalKey)
		require.True(t, ok)
		assert.Equal(t, e.Value, got)
	}
}

func TestPartition_DiscardPolicy(t *testing.T) {
	input := entries(
		"/tenant/{tenantId}/widgets", `{"get":{}}`,
		"/admin/widgets", `{"get":{}}`,
		"/tenant/{tenantId}/gadgets", `{"get":{}}`,
	)

	result, err := NewPartitioner().Partition(input, Options{
		Marker:      "tenant",
		AdminPolicy: config.AdminPolicyDiscard,
	})
	require.NoError(t, err)

	assert.Nil(t, result.Admin)
	assert.Equal(t, 2, result.Public.Len())
	assert.Len(t, result.Buckets(), 1)

	admin := findAssignment(t, result, "/admin/widgets")
	assert.True(t, admin.Dropped)
	assert.Equal(t, models.BucketAdmin, admin.Bucket)
}

func TestPartition_ClassifiesBeforeRewriting(t *testing.T) {
	input := entries("/tenant/widgets", `{}`)

	result, err := NewPartitioner().Partition(input, Options{
		Marker: "tenant",
		Rules:  []models.RewriteRule{{Match: "tenant/"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/widgets"}, result.Public.Keys())
	assert.Zero(t, result.Admin.Len())
}

func TestPartition_CollisionLastWriteWins(t *testing.T) {
	input := entries(
		"/tenant/{tenantId}/widgets", `{"get":{"summary":"first"}}`,
		"/tenant/{tenantId}/other", `{}`,
		"/{tenantId}/widgets", `{"get":{"summary":"second"}}`,
	)

	result, err := NewPartitioner().Partition(input, Options{
		Marker: "tenant",
		Rules: []models.RewriteRule{
			{Match: "tenant/"},
			{Match: "{tenantId}/"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/widgets", "/other"}, result.Public.Keys(), "collided key keeps its first position")
	got, _ := result.Public.Get("/widgets")
	assert.Equal(t, `{"get":{"summary":"second"}}`, string(got))
	assert.Equal(t, 1, result.Collisions)
	assert.True(t, findAssignment(t, result, "/{tenantId}/widgets").Replaced)
	assert.False(t, findAssignment(t, result, "/tenant/{tenantId}/widgets").Replaced)
}

func TestPartition_Exclude(t *testing.T) {
	input := entries(
		"/tenant/a", `{}`,
		"/tenant/b", `{}`,
		"/admin", `{}`,
	)

	result, err := NewPartitioner().Partition(input, Options{
		Marker:  "tenant",
		Exclude: map[string]bool{"/tenant/b": true, "/admin": true},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/tenant/a"}, result.Public.Keys())
	assert.Zero(t, result.Admin.Len())
	assert.True(t, findAssignment(t, result, "/tenant/b").Dropped)
}

func TestPartition_Assignments(t *testing.T) {
	input := entries(
		"/tenant/{tenantId}/widgets", `{}`,
		"/admin/widgets", `{}`,
	)

	result, err := NewPartitioner().Partition(input, Options{
		Marker: "tenant",
		Rules:  []models.RewriteRule{{Match: "tenant/{tenantId}/"}},
	})
	require.NoError(t, err)

	want := []Assignment{
		{OriginalKey: "/tenant/{tenantId}/widgets", FinalKey: "/widgets", Bucket: models.BucketPublic},
		{OriginalKey: "/admin/widgets", FinalKey: "/admin/widgets", Bucket: models.BucketAdmin},
	}
	if diff := cmp.Diff(want, result.Assignments); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestPartition_Errors(t *testing.T) {
	p := NewPartitioner()

	t.Run("empty marker", func(t *testing.T) {
		_, err := p.Partition(entries("/a", `{}`), Options{})
		assert.ErrorIs(t, err, parser.ErrMalformedInput)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := p.Partition(entries("/a", `{}`), Options{Marker: "tenant", AdminPolicy: "archive"})
		assert.ErrorContains(t, err, "unsupported admin policy")
	})

	t.Run("key rewritten to nothing", func(t *testing.T) {
		_, err := p.Partition(entries("/tenant", `{}`), Options{
			Marker: "tenant",
			Rules:  []models.RewriteRule{{Match: "/tenant"}},
		})
		assert.ErrorIs(t, err, parser.ErrMalformedInput)
	})
}

func findAssignment(t *testing.T, result *Result, original string) Assignment {
	t.Helper()
	for _, a := range result.Assignments {
		if a.OriginalKey == original {
			return a
		}
	}
	t.Fatalf("no assignment for %s", original)
	return Assignment{}
}
