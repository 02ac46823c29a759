package models

// RewriteRule replaces every occurrence of Match in a path key with Replacement.
// An empty Replacement deletes the matched substring.
type RewriteRule struct {
	Match       string `yaml:"match"`
	Replacement string `yaml:"replacement"`
}

// RulesFile is the YAML form of a split run's rules, for operators who keep
// them next to the swagger document instead of on the command line.
type RulesFile struct {
	Marker      string        `yaml:"marker,omitempty"`
	AdminPolicy string        `yaml:"admin_policy,omitempty"`
	Rules       []RewriteRule `yaml:"rules,omitempty"`
}

// Bucket is the output document a path entry is routed to
type Bucket string

const (
	BucketPublic Bucket = "public"
	BucketAdmin  Bucket = "admin"
)

// PathEntry is one member of a document's paths object. Value holds the raw
// JSON of the path item and is never modified.
type PathEntry struct {
	Key   string
	Value []byte
}
