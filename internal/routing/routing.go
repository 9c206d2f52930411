// Package routing classifies output files by name into target repositories.
//
// Rules are an ordered list of regular-expression patterns; the first rule
// whose pattern matches (case-insensitively, anchored at the start of the
// bare filename, partial match allowed) wins. Order is load-bearing: a
// filename that could match several rules must resolve to the
// earliest-declared one.
package routing

import (
	"fmt"
	"regexp"
)

// Destination describes where a classified file lands.
type Destination struct {
	Repo        string `json:"repo" yaml:"repo"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

// Rule pairs a filename pattern with its destination.
type Rule struct {
	Pattern     string      `yaml:"pattern"`
	Destination Destination `yaml:",inline"`
}

// DefaultDestination is the fallback for files no rule claims.
var DefaultDestination = Destination{
	Repo:        "life-os",
	Path:        "artifacts/",
	Description: "Unclassified artifact",
}

// DefaultRules returns the built-in routing table, in declaration order.
func DefaultRules() []Rule {
	return []Rule{
		// Workflows
		{Pattern: `.*\.yml$`, Destination: Destination{Repo: "life-os", Path: ".github/workflows/", Description: "GitHub Actions workflow"}},
		// Python modules
		{Pattern: `.*_node.*\.py$`, Destination: Destination{Repo: "life-os", Path: "src/nodes/", Description: "LangGraph node module"}},
		{Pattern: `.*_agent.*\.py$`, Destination: Destination{Repo: "life-os", Path: "src/agents/", Description: "Agent module"}},
		{Pattern: `.*scraper.*\.py$`, Destination: Destination{Repo: "brevard-bidder-scraper", Path: "src/scrapers/", Description: "Scraper module"}},
		{Pattern: `.*\.py$`, Destination: Destination{Repo: "life-os", Path: "src/", Description: "Python module"}},
		// Web artifacts
		{Pattern: `.*\.(html|css|js)$`, Destination: Destination{Repo: "biddeed-conversational-ai", Path: "public/", Description: "Web artifact"}},
		// Documentation
		{Pattern: `.*\.md$`, Destination: Destination{Repo: "life-os", Path: "docs/", Description: "Documentation"}},
		// Reports
		{Pattern: `.*\.docx$`, Destination: Destination{Repo: "life-os", Path: "reports/", Description: "Document report"}},
		{Pattern: `.*\.pdf$`, Destination: Destination{Repo: "life-os", Path: "reports/", Description: "PDF report"}},
		// Skills
		{Pattern: `SKILL\.md$`, Destination: Destination{Repo: "life-os", Path: "skills/", Description: "Skill documentation"}},
	}
}

// Router resolves filenames to destinations using a compiled rule table.
type Router struct {
	rules    []Rule
	compiled []*regexp.Regexp
	fallback Destination
}

// NewRouter compiles the given rules, preserving order. An invalid pattern
// is a construction error, not a routing-time one.
func NewRouter(rules []Rule) (*Router, error) {
	compiled := make([]*regexp.Regexp, len(rules))
	for i, rule := range rules {
		// Match from the start of the filename without requiring the
		// pattern to consume the whole name, case-insensitively.
		re, err := regexp.Compile("^(?i:" + rule.Pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid routing pattern %q: %w", rule.Pattern, err)
		}
		compiled[i] = re
	}
	return &Router{rules: rules, compiled: compiled, fallback: DefaultDestination}, nil
}

// Route returns the destination for a bare filename. It never fails: an
// unmatched filename falls through to the default destination.
func (r *Router) Route(filename string) Destination {
	for i, re := range r.compiled {
		if re.MatchString(filename) {
			return r.rules[i].Destination
		}
	}
	return r.fallback
}

// Rules returns the rule table in evaluation order.
func (r *Router) Rules() []Rule {
	return r.rules
}
