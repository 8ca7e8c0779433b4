package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/surf/pkg/llm/tokenizer"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/security/urlpolicy"
)

// SessionManager manages all active browser sessions and coordinates
// with the tool registry for dynamic tool visibility.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	tokenizer   *tokenizer.Tokenizer
	urlPolicy   *urlpolicy.Policy
	navBlocked  error
	logger      *logging.Logger
	maxSessions int
	idleTimeout time.Duration
	tokenBudget int
	initialized bool
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	// Fallback logger still works; the error only means stderr mode
	logger, _ := logging.NewLogger("browser")

	return &SessionManager{
		sessions:    make(map[string]*Session),
		logger:      logger,
		maxSessions: DefaultMaxSessions,
		idleTimeout: time.Duration(DefaultIdleTimeout) * time.Second,
		tokenBudget: DefaultStateTokenBudget,
	}
}

// Initialize installs and starts the Playwright instance.
// This must be called before creating any sessions.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Playwright output is discarded so it cannot corrupt caller terminals
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	// Token counting is best effort: without a tokenizer, snapshot
	// excerpts fall back to character-based truncation
	tok, err := tokenizer.New()
	if err != nil {
		m.logger.Warnf("tokenizer unavailable, snapshot budgets use character estimates: %v", err)
	}

	m.playwright = pw
	m.tokenizer = tok
	m.initialized = true
	m.logger.Infof("playwright initialized")
	return nil
}

// SetURLPolicy installs the navigation URL policy and lifts any navigation
// block. A nil policy allows all URLs.
func (m *SessionManager) SetURLPolicy(policy *urlpolicy.Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urlPolicy = policy
	m.navBlocked = nil
}

// BlockNavigation refuses every navigation target until a valid policy is
// installed. Used when configured URL patterns fail to compile: a broken
// policy must never widen access.
func (m *SessionManager) BlockNavigation(reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navBlocked = reason
	m.logger.Errorf("navigation blocked: %v", reason)
}

// ValidateURL checks a navigation target against the configured URL policy.
func (m *SessionManager) ValidateURL(rawURL string) error {
	m.mu.RLock()
	policy := m.urlPolicy
	blocked := m.navBlocked
	m.mu.RUnlock()

	if blocked != nil {
		return fmt.Errorf("navigation is disabled: %w", blocked)
	}
	if policy == nil {
		return nil
	}
	return policy.Validate(rawURL)
}

// StartSession creates a new browser session with the given name and options.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	now := time.Now()
	session := &Session{
		Name:       name,
		Browser:    browser,
		Context:    context,
		Page:       page,
		Headless:   opts.Headless,
		CreatedAt:  now,
		LastUsedAt: now,
		CurrentURL: "about:blank",
	}

	m.sessions[name] = session
	m.logger.Infof("session %q started (headless=%v)", name, opts.Headless)
	return session, nil
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	closeSessionResources(session)
	delete(m.sessions, name)
	m.logger.Infof("session %q closed", name)
	return nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// ResolveSession returns the named session, or the only active session when
// name is empty. This lets single-session agents omit the session argument.
func (m *SessionManager) ResolveSession(name string) (*Session, error) {
	if name != "" {
		return m.GetSession(name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch len(m.sessions) {
	case 0:
		return nil, fmt.Errorf("no active browser sessions")
	case 1:
		for _, session := range m.sessions {
			return session, nil
		}
		panic("unreachable")
	default:
		return nil, fmt.Errorf("multiple sessions active, specify a session name")
	}
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:       session.Name,
			CurrentURL: session.CurrentURL,
			Headless:   session.Headless,
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsedAt,
		})
	}
	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes all active sessions.
func (m *SessionManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, session := range m.sessions {
		if err := closeSessionResources(session); err != nil {
			errs = append(errs, err)
		}
		delete(m.sessions, name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %v", errs)
	}
	return nil
}

// Shutdown closes all sessions and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		closeSessionResources(session)
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	m.logger.Infof("browser shut down")
	return nil
}

// CleanupIdleSessions closes sessions idle for longer than the timeout.
func (m *SessionManager) CleanupIdleSessions() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var errs []error
	for name, session := range m.sessions {
		if now.Sub(session.LastUsedAt) <= m.idleTimeout {
			continue
		}
		if err := closeSessionResources(session); err != nil {
			errs = append(errs, err)
		}
		delete(m.sessions, name)
		m.logger.Infof("session %q closed after idle timeout", name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during cleanup: %v", errs)
	}
	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}

// SetStateTokenBudget sets the default token budget for state snapshots.
func (m *SessionManager) SetStateTokenBudget(budget int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenBudget = budget
}

// StateTokenBudget returns the default token budget for state snapshots.
func (m *SessionManager) StateTokenBudget() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokenBudget
}

// Tokenizer returns the shared tokenizer, which is nil when token counting
// is unavailable.
func (m *SessionManager) Tokenizer() *tokenizer.Tokenizer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokenizer
}

// closeSessionResources releases a session's Playwright resources.
// Close errors on already-dead resources are reported but cleanup continues.
func closeSessionResources(session *Session) error {
	var errs []error
	if err := session.Page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := session.Context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := session.Browser.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("session %q cleanup: %v", session.Name, errs)
	}
	return nil
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}
