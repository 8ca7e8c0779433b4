package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Execution mode constants
const (
	// ModeSnapshot navigates and captures page state without interactions
	ModeSnapshot = "snapshot"

	// ModeScript runs a sequence of steps against the page
	ModeScript = "script"
)

// RunConfig defines a headless browse run.
type RunConfig struct {
	// URL is the initial navigation target (required)
	URL string `yaml:"url"`

	// Session is the browser session name
	Session string `yaml:"session"`

	// Mode selects snapshot or script execution
	Mode string `yaml:"mode"`

	// Headless controls the browser launch mode
	Headless bool `yaml:"headless"`

	// Steps are executed in order after the initial navigation (script mode)
	Steps []Step `yaml:"steps"`

	// Question, when set, is answered against the final page via the LLM
	Question string `yaml:"question"`

	// ExtractFormat, when set, extracts final page content in this format
	ExtractFormat string `yaml:"extract_format"`

	// MaxElements caps the interactive element inventory in snapshots
	MaxElements int `yaml:"max_elements"`

	// Timeout bounds the whole run
	Timeout time.Duration `yaml:"timeout"`

	// AllowedURLs and DeniedURLs override the configured navigation policy
	AllowedURLs []string `yaml:"allowed_urls"`
	DeniedURLs  []string `yaml:"denied_urls"`
}

// Step is a single scripted browser action.
type Step struct {
	// Action is one of: navigate, click, fill, wait, refresh
	Action string `yaml:"action"`

	// URL for navigate steps
	URL string `yaml:"url"`

	// Selector targets click, fill, and wait steps
	Selector string `yaml:"selector"`

	// Index targets click and fill steps via the latest snapshot
	Index int `yaml:"index"`

	// Value for fill steps
	Value string `yaml:"value"`

	// State for wait steps (visible, hidden, attached, detached)
	State string `yaml:"state"`
}

// DefaultRunConfig returns a run configuration with sensible defaults.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Session:  "main",
		Mode:     ModeSnapshot,
		Headless: true,
		Timeout:  2 * time.Minute,
	}
}

// Validate checks the run configuration for consistency.
func (c *RunConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Session == "" {
		return fmt.Errorf("session name must not be empty")
	}

	switch c.Mode {
	case ModeSnapshot, ModeScript:
	default:
		return fmt.Errorf("invalid mode: %s (must be %q or %q)", c.Mode, ModeSnapshot, ModeScript)
	}

	if c.Mode == ModeSnapshot && len(c.Steps) > 0 {
		return fmt.Errorf("steps are only valid in %q mode", ModeScript)
	}

	for i, step := range c.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	switch c.ExtractFormat {
	case "", "markdown", "text", "structured":
	default:
		return fmt.Errorf("invalid extract_format: %s (must be 'markdown', 'text', or 'structured')", c.ExtractFormat)
	}

	return nil
}

// validate checks a single step.
func (s *Step) validate() error {
	switch s.Action {
	case "navigate":
		if s.URL == "" {
			return fmt.Errorf("navigate requires url")
		}
	case "click":
		if s.Selector == "" && s.Index == 0 {
			return fmt.Errorf("click requires selector or index")
		}
	case "fill":
		if s.Selector == "" && s.Index == 0 {
			return fmt.Errorf("fill requires selector or index")
		}
		if s.Value == "" {
			return fmt.Errorf("fill requires value")
		}
	case "wait":
		if s.Selector == "" {
			return fmt.Errorf("wait requires selector")
		}
	case "refresh":
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action: %s", s.Action)
	}
	return nil
}

// loadRunConfigFromFile loads a run configuration from a YAML file.
func loadRunConfigFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}

	config := DefaultRunConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}

	if len(config.Steps) > 0 {
		config.Mode = ModeScript
	}

	return config, nil
}
