package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
//
// Tool executions are sequential within an agent loop, so session fields are
// written by a single goroutine at a time; the SessionManager guards the
// session table itself.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string

	// stateSeq counts mutating operations (navigation, clicks, fills).
	// A PageState snapshot is fresh while its Seq equals this value.
	stateSeq uint64

	// lastState is the most recent snapshot, nil before the first capture
	lastState *PageState
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ExtractFormat specifies the format for content extraction.
type ExtractFormat string

const (
	// FormatMarkdown extracts content as Markdown (default)
	FormatMarkdown ExtractFormat = "markdown"

	// FormatText extracts plain text only
	FormatText ExtractFormat = "text"

	// FormatStructured extracts content as structured JSON
	FormatStructured ExtractFormat = "structured"
)

// ExtractOptions configures content extraction.
type ExtractOptions struct {
	// Format specifies the extraction format
	Format ExtractFormat

	// Selector optionally limits extraction to matching elements
	Selector string

	// MaxLength limits the extracted content length (characters)
	MaxLength int
}

// StructuredContent represents content extracted in structured format.
type StructuredContent struct {
	Title    string   `json:"title"`
	Headings []string `json:"headings"`
	Links    []Link   `json:"links"`
	Body     string   `json:"body"`
}

// Link represents a hyperlink with text and URL.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// SearchOptions configures page text search.
type SearchOptions struct {
	// Pattern is the text to search for
	Pattern string

	// CaseSensitive controls case handling (default: insensitive)
	CaseSensitive bool

	// MaxResults caps the number of matches returned
	MaxResults int
}

// SearchMatch is one occurrence of a search pattern in the page text.
type SearchMatch struct {
	// Text is the line containing the match
	Text string

	// Context is the matching line with its neighbors
	Context string
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// Selector identifies the element to click
	Selector string

	// Button specifies which mouse button to use (left, right, middle)
	Button string

	// ClickCount is the number of times to click (1 for single, 2 for double)
	ClickCount int

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	// Selector identifies the input element
	Selector string

	// Value is the text to fill
	Value string

	// Timeout in milliseconds
	Timeout float64
}

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// Selector to wait for
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// PageState is a snapshot of a session's current page, captured for the
// agent's conversation context.
type PageState struct {
	// Session is the name of the session the snapshot belongs to
	Session string `json:"session"`

	// URL is the page URL at capture time
	URL string `json:"url"`

	// Title is the page title at capture time
	Title string `json:"title"`

	// Seq is the session state sequence this snapshot was captured at.
	// The snapshot is stale once the session's sequence moves past it.
	Seq uint64 `json:"seq"`

	// CapturedAt is the snapshot timestamp
	CapturedAt time.Time `json:"captured_at"`

	// Scroll is the page scroll position
	Scroll ScrollPosition `json:"scroll"`

	// Elements is the indexed inventory of interactive elements
	Elements []InteractiveElement `json:"elements"`

	// Excerpt is a cleaned text excerpt of the page content
	Excerpt string `json:"excerpt"`

	// ExcerptTokens is the token count of Excerpt
	ExcerptTokens int `json:"excerpt_tokens"`

	// Truncated indicates the excerpt was cut to fit the token budget
	Truncated bool `json:"truncated"`
}

// ScrollPosition describes where the viewport sits within the page.
type ScrollPosition struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	PageHeight int `json:"page_height"`
}

// InteractiveElement describes one actionable element on the page.
// Indices are stable within a single snapshot and are the handles the
// click and fill tools accept instead of CSS selectors.
type InteractiveElement struct {
	// Index is the 1-based position in the snapshot inventory
	Index int `json:"index"`

	// Role classifies the element: link, button, input, select, textarea
	Role string `json:"role"`

	// Label is the visible text or accessible name of the element
	Label string `json:"label"`

	// Selector is a CSS selector that resolves to this element
	Selector string `json:"selector"`

	// Href is the link target, for links only
	Href string `json:"href,omitempty"`

	// InputType is the input's type attribute, for inputs only
	InputType string `json:"input_type,omitempty"`

	// Disabled indicates the element cannot currently be interacted with
	Disabled bool `json:"disabled,omitempty"`
}

// StateOptions configures page state capture.
type StateOptions struct {
	// TokenBudget bounds the rendered excerpt size (0 means default)
	TokenBudget int

	// MaxElements bounds the interactive element inventory (0 means default)
	MaxElements int
}

// Default values for various operations
const (
	DefaultTimeout          = 30000.0 // 30 seconds in milliseconds
	DefaultMaxLength        = 10000   // 10,000 characters
	DefaultViewportWidth    = 1280
	DefaultViewportHeight   = 720
	DefaultMaxSessions      = 5
	DefaultIdleTimeout      = 300 // 5 minutes in seconds
	DefaultStateTokenBudget = 4000
	DefaultMaxElements      = 75
	DefaultSearchResults    = 10
	MaxSearchResults        = 100
)
