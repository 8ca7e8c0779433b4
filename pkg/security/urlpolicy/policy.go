// Package urlpolicy enforces allow/deny rules for browser navigation targets.
//
// Patterns are glob expressions matched against the full URL, e.g.
// "https://*.example.com/*" or "*://*/admin*". Denied patterns take
// precedence over allowed ones; an empty allow list permits every URL
// that is not denied.
package urlpolicy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Policy evaluates navigation URLs against compiled glob pattern rules.
type Policy struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// New compiles the given pattern lists into a Policy.
func New(allowed, denied []string) (*Policy, error) {
	p := &Policy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern '%s': %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied pattern '%s': %w", pattern, err)
		}
		p.denied = append(p.denied, g)
	}

	return p, nil
}

// Validate checks that rawURL is well formed and permitted by the policy.
// It returns a descriptive error when a URL is blocked so callers can
// surface the reason to the agent.
func (p *Policy) Validate(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" && parsed.Scheme != "about" {
		return fmt.Errorf("unsupported URL scheme %q (only http, https, and about are permitted)", parsed.Scheme)
	}

	normalized := normalize(rawURL)

	// Denied patterns take precedence
	for _, pattern := range p.denied {
		if pattern.Match(normalized) {
			return fmt.Errorf("URL %q is blocked by the navigation deny list", rawURL)
		}
	}

	if len(p.allowed) == 0 {
		return nil
	}

	for _, pattern := range p.allowed {
		if pattern.Match(normalized) {
			return nil
		}
	}

	return fmt.Errorf("URL %q does not match any allowed navigation pattern", rawURL)
}

// IsAllowed reports whether rawURL is permitted by the policy.
func (p *Policy) IsAllowed(rawURL string) bool {
	return p.Validate(rawURL) == nil
}

// normalize strips the trailing slash so "https://example.com/" and
// "https://example.com" match the same patterns.
func normalize(rawURL string) string {
	if len(rawURL) > 1 && strings.HasSuffix(rawURL, "/") {
		return strings.TrimSuffix(rawURL, "/")
	}
	return rawURL
}
