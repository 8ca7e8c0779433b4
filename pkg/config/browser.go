package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// Default values for browser settings
	defaultBrowserEnabled   = false
	defaultBrowserHeadless  = true
	defaultMaxSessions      = 5
	defaultIdleTimeout      = 5 * time.Minute
	defaultStateTokenBudget = 4000
)

// BrowserSection manages browser automation configuration settings.
type BrowserSection struct {
	Enabled          bool          `json:"enabled"`
	Headless         bool          `json:"headless"`
	MaxSessions      int           `json:"max_sessions"`
	IdleTimeout      time.Duration `json:"idle_timeout"`
	StateTokenBudget int           `json:"state_token_budget"`
	AllowedURLs      []string      `json:"allowed_urls"`
	DeniedURLs       []string      `json:"denied_urls"`
	mu               sync.RWMutex
}

// NewBrowserSection creates a new browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Enabled:          defaultBrowserEnabled,
		Headless:         defaultBrowserHeadless,
		MaxSessions:      defaultMaxSessions,
		IdleTimeout:      defaultIdleTimeout,
		StateTokenBudget: defaultStateTokenBudget,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Configure browser automation behavior including session limits, the state snapshot token budget, and URL access policy."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"enabled":            s.Enabled,
		"headless":           s.Headless,
		"max_sessions":       s.MaxSessions,
		"idle_timeout":       s.IdleTimeout.String(),
		"state_token_budget": s.StateTokenBudget,
		"allowed_urls":       append([]string(nil), s.AllowedURLs...),
		"denied_urls":        append([]string(nil), s.DeniedURLs...),
	}
}

// SetData updates the configuration from the provided data. All keys are
// parsed before any field is written, so an invalid key leaves the section
// unchanged.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := browserFields{
		enabled:          s.Enabled,
		headless:         s.Headless,
		maxSessions:      s.MaxSessions,
		idleTimeout:      s.IdleTimeout,
		stateTokenBudget: s.StateTokenBudget,
		allowedURLs:      s.AllowedURLs,
		deniedURLs:       s.DeniedURLs,
	}

	for key, value := range data {
		switch key {
		case "enabled":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for enabled: expected bool, got %T", value)
			}
			next.enabled = enabled

		case "headless":
			headless, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			next.headless = headless

		case "max_sessions":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("invalid value for max_sessions: %w", err)
			}
			next.maxSessions = n

		case "idle_timeout":
			switch v := value.(type) {
			case string:
				d, err := time.ParseDuration(v)
				if err != nil {
					return fmt.Errorf("invalid duration for idle_timeout: %w", err)
				}
				next.idleTimeout = d
			case float64:
				// JSON numbers arrive as float64; treat as nanoseconds
				next.idleTimeout = time.Duration(v)
			default:
				return fmt.Errorf("invalid value type for idle_timeout: expected string or number, got %T", value)
			}

		case "state_token_budget":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("invalid value for state_token_budget: %w", err)
			}
			next.stateTokenBudget = n

		case "allowed_urls":
			patterns, err := toStringSlice(value)
			if err != nil {
				return fmt.Errorf("invalid value for allowed_urls: %w", err)
			}
			next.allowedURLs = patterns

		case "denied_urls":
			patterns, err := toStringSlice(value)
			if err != nil {
				return fmt.Errorf("invalid value for denied_urls: %w", err)
			}
			next.deniedURLs = patterns
		}
	}

	s.Enabled = next.enabled
	s.Headless = next.headless
	s.MaxSessions = next.maxSessions
	s.IdleTimeout = next.idleTimeout
	s.StateTokenBudget = next.stateTokenBudget
	s.AllowedURLs = next.allowedURLs
	s.DeniedURLs = next.deniedURLs
	return nil
}

// browserFields is a scratch copy of the section's settings used by SetData
// to keep updates atomic.
type browserFields struct {
	enabled          bool
	headless         bool
	maxSessions      int
	idleTimeout      time.Duration
	stateTokenBudget int
	allowedURLs      []string
	deniedURLs       []string
}

// Validate checks the section's current settings for consistency.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be at least 1, got %d", s.MaxSessions)
	}
	if s.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout must not be negative, got %s", s.IdleTimeout)
	}
	if s.StateTokenBudget < 100 {
		return fmt.Errorf("state_token_budget must be at least 100, got %d", s.StateTokenBudget)
	}
	return nil
}

// Reset restores the section to its default settings.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Enabled = defaultBrowserEnabled
	s.Headless = defaultBrowserHeadless
	s.MaxSessions = defaultMaxSessions
	s.IdleTimeout = defaultIdleTimeout
	s.StateTokenBudget = defaultStateTokenBudget
	s.AllowedURLs = nil
	s.DeniedURLs = nil
}

// IsEnabled returns whether browser automation is enabled.
func (s *BrowserSection) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Enabled
}

// SetEnabled toggles browser automation.
func (s *BrowserSection) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Enabled = enabled
}

// IsHeadless returns the default headless mode for new sessions.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}

// SetHeadless sets the default headless mode for new sessions.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = headless
}

// GetMaxSessions returns the maximum number of concurrent sessions.
func (s *BrowserSection) GetMaxSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxSessions
}

// GetIdleTimeout returns the session idle timeout.
func (s *BrowserSection) GetIdleTimeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.IdleTimeout
}

// GetStateTokenBudget returns the token budget for page state snapshots.
func (s *BrowserSection) GetStateTokenBudget() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.StateTokenBudget
}

// GetURLPatterns returns the allowed and denied URL pattern lists.
func (s *BrowserSection) GetURLPatterns() (allowed, denied []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.AllowedURLs...), append([]string(nil), s.DeniedURLs...)
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", value)
	}
}
