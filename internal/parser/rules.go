package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const ruleDelimiter = "="

// SplitArgs is the positional form of a split run: <dir> <marker=> [match=replacement...]
type SplitArgs struct {
	Dir    string
	Marker string
	Rules  []models.RewriteRule
}

// ParseSplitArgs parses positional split arguments. The first argument is the
// directory holding swagger.json, the second the tenant marker, and every
// following argument a rewrite rule. Only the directory is required.
func ParseSplitArgs(args []string) (*SplitArgs, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, &NotFoundError{Path: "<dir>", Cause: errors.New("input directory argument is required")}
	}

	parsed := &SplitArgs{Dir: args[0]}
	if len(args) > 1 {
		marker, err := ParseMarker(args[1])
		if err != nil {
			return nil, err
		}
		parsed.Marker = marker
	}
	if len(args) > 2 {
		rules, err := ParseRules(args[2:])
		if err != nil {
			return nil, err
		}
		parsed.Rules = rules
	}
	return parsed, nil
}

// ParseMarker parses a "marker=" argument. Anything after the first "=" is
// ignored; an argument without "=" is taken whole.
func ParseMarker(arg string) (string, error) {
	marker, value, found := strings.Cut(arg, ruleDelimiter)
	if marker == "" {
		return "", &MalformedInputError{Input: arg, Reason: "tenant marker must not be empty"}
	}
	if found && value != "" {
		logger.Warn("Ignoring value of tenant marker argument",
			zap.String("marker", marker),
			zap.String("value", value))
	}
	return marker, nil
}

// ParseRule parses a "match=replacement" argument. The argument is split on the
// first "=", so the replacement may itself contain "=". An empty replacement
// deletes the match.
func ParseRule(arg string) (models.RewriteRule, error) {
	match, replacement, found := strings.Cut(arg, ruleDelimiter)
	if !found {
		return models.RewriteRule{}, &MalformedInputError{Input: arg, Reason: "expected match=replacement"}
	}
	if match == "" {
		return models.RewriteRule{}, &MalformedInputError{Input: arg, Reason: "match must not be empty"}
	}
	return models.RewriteRule{Match: match, Replacement: replacement}, nil
}

// ParseRules parses every argument with ParseRule, keeping their order
func ParseRules(args []string) ([]models.RewriteRule, error) {
	rules := make([]models.RewriteRule, 0, len(args))
	for _, arg := range args {
		rule, err := ParseRule(arg)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// RulesLoader reads split rules from a YAML file
type RulesLoader struct{}

// NewRulesLoader creates a new RulesLoader instance
func NewRulesLoader() *RulesLoader {
	return &RulesLoader{}
}

// Load loads rules from a YAML file. An empty path yields an empty rule set;
// a path that does not exist is an error.
func (l *RulesLoader) Load(filePath string) (*models.RulesFile, error) {
	if filePath == "" {
		logger.Debug("No rules file provided")
		return &models.RulesFile{}, nil
	}

	logger.Info("Loading rules from file", zap.String("file", filePath))
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: filePath, Cause: err}
		}
		return nil, err
	}

	var rules models.RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, &MalformedInputError{Input: filePath, Reason: "invalid YAML", Cause: err}
	}

	for i, rule := range rules.Rules {
		if rule.Match == "" {
			return nil, &MalformedInputError{Input: filePath, Reason: fmt.Sprintf("rule %d has an empty match", i)}
		}
	}

	return &rules, nil
}
