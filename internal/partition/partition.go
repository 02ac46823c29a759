package partition

import (
	"fmt"
	"strings"

	"github.com/brizzai/swagger-split/internal/config"
	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"go.uber.org/zap"
)

// Options controls a single partition pass
type Options struct {
	// Marker is the substring that makes a path key public
	Marker string
	// Rules are applied to every key, in order
	Rules []models.RewriteRule
	// AdminPolicy decides whether non-matching entries are kept
	AdminPolicy config.AdminPolicy
	// Exclude holds original keys to leave out of every bucket
	Exclude map[string]bool
}

// Assignment records where one source entry ended up
type Assignment struct {
	OriginalKey string
	FinalKey    string
	Bucket      models.Bucket
	// Dropped is set for entries discarded by policy or excluded by the operator
	Dropped bool
	// Replaced is set when this entry overwrote an earlier one with the same final key
	Replaced bool
}

// Result is the outcome of a partition pass
type Result struct {
	Public *PathMap
	// Admin is nil under AdminPolicyDiscard
	Admin       *PathMap
	Assignments []Assignment
	Collisions  int
}

// Buckets returns the buckets in use, public first
func (r *Result) Buckets() map[models.Bucket]*PathMap {
	out := map[models.Bucket]*PathMap{models.BucketPublic: r.Public}
	if r.Admin != nil {
		out[models.BucketAdmin] = r.Admin
	}
	return out
}

// Partitioner splits path entries into public and admin buckets
type Partitioner struct{}

// NewPartitioner creates a new Partitioner instance
func NewPartitioner() *Partitioner {
	return &Partitioner{}
}

// Classify reports whether key belongs to the public bucket
func Classify(key, marker string) models.Bucket {
	if strings.Contains(key, marker) {
		return models.BucketPublic
	}
	return models.BucketAdmin
}

// Rewrite applies rules to key in order, each rule seeing the output of the previous one
func Rewrite(key string, rules []models.RewriteRule) string {
	for _, rule := range rules {
		key = strings.ReplaceAll(key, rule.Match, rule.Replacement)
	}
	return key
}

// Partition classifies every entry on its original key, rewrites the key and
// stores the untouched value in the target bucket. Entries are visited in
// document order and the output maps are built fresh, so when two keys rewrite
// to the same final key the later entry wins.
func (p *Partitioner) Partition(entries []models.PathEntry, opts Options) (*Result, error) {
	if opts.Marker == "" {
		return nil, &parser.MalformedInputError{Input: opts.Marker, Reason: "tenant marker must not be empty"}
	}
	policy := opts.AdminPolicy
	if policy == "" {
		policy = config.AdminPolicyKeep
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unsupported admin policy: %s", policy)
	}

	result := &Result{
		Public:      NewPathMap(),
		Assignments: make([]Assignment, 0, len(entries)),
	}
	if policy == config.AdminPolicyKeep {
		result.Admin = NewPathMap()
	}

	for _, entry := range entries {
		assignment := Assignment{
			OriginalKey: entry.Key,
			Bucket:      Classify(entry.Key, opts.Marker),
			FinalKey:    Rewrite(entry.Key, opts.Rules),
		}

		if assignment.FinalKey == "" {
			return nil, &parser.MalformedInputError{
				Input:  entry.Key,
				Reason: "path key is empty after rewriting",
			}
		}

		target := result.Public
		if assignment.Bucket == models.BucketAdmin {
			target = result.Admin
		}

		switch {
		case opts.Exclude[entry.Key]:
			assignment.Dropped = true
			logger.Debug("Excluded path", zap.String("path", entry.Key))
		case target == nil:
			assignment.Dropped = true
			logger.Debug("Discarded admin path", zap.String("path", entry.Key))
		default:
			if target.Set(assignment.FinalKey, entry.Value) {
				assignment.Replaced = true
				result.Collisions++
				logger.Warn("Path key collision, keeping the later entry",
					zap.String("path", assignment.FinalKey),
					zap.String("source", entry.Key),
					zap.String("bucket", string(assignment.Bucket)))
			}
		}

		result.Assignments = append(result.Assignments, assignment)
	}

	logger.Info("Partitioned paths",
		zap.Int("total", len(entries)),
		zap.Int("public", result.Public.Len()),
		zap.Int("admin", result.adminLen()),
		zap.Int("collisions", result.Collisions))

	return result, nil
}

func (r *Result) adminLen() int {
	if r.Admin == nil {
		return 0
	}
	return r.Admin.Len()
}
