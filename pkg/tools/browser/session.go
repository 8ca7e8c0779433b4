package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = nowFunc()
}

// bumpState advances the state sequence, marking any existing snapshot stale.
// Called by every operation that can change what the page shows.
func (s *Session) bumpState() {
	s.stateSeq++
}

// StateSeq returns the session's current state sequence number.
func (s *Session) StateSeq() uint64 {
	return s.stateSeq
}

// LastState returns the most recent snapshot, or nil before the first capture.
func (s *Session) LastState() *PageState {
	return s.lastState
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	s.bumpState()
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageClickOptions{}
	if opts.Button != "" {
		button := playwright.MouseButton(opts.Button)
		playwrightOpts.Button = &button
	}
	if opts.ClickCount > 0 {
		playwrightOpts.ClickCount = &opts.ClickCount
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	// Click may have triggered navigation
	s.CurrentURL = s.Page.URL()
	s.bumpState()
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(opts FillOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}

	s.bumpState()
	return nil
}

// Wait waits for an element to reach the requested state.
func (s *Session) Wait(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	playwrightOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// ExtractContent extracts page content in the specified format.
func (s *Session) ExtractContent(opts ExtractOptions) (string, error) {
	s.UpdateLastUsed()

	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = DefaultMaxLength
	}

	switch opts.Format {
	case FormatMarkdown:
		return s.extractMarkdown(opts)
	case FormatText:
		return s.extractText(opts)
	case FormatStructured:
		return s.extractStructured(opts)
	default:
		return "", fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// extractText extracts readable text from the page or a selector.
// Full-page extraction goes through the HTML cleaner so scripts, styles,
// and hidden machinery do not leak into the result.
func (s *Session) extractText(opts ExtractOptions) (string, error) {
	var content string

	if opts.Selector != "" {
		element, err := s.Page.QuerySelector(opts.Selector)
		if err != nil {
			return "", fmt.Errorf("selector query failed: %w", err)
		}
		if element == nil {
			return "", fmt.Errorf("no element found matching selector: %s", opts.Selector)
		}
		content, err = element.TextContent()
		if err != nil {
			return "", fmt.Errorf("text extraction failed: %w", err)
		}
	} else {
		rawHTML, err := s.Page.Content()
		if err != nil {
			return "", fmt.Errorf("failed to get page content: %w", err)
		}
		cleaned, err := CleanHTML(rawHTML)
		if err != nil {
			return "", fmt.Errorf("failed to clean page content: %w", err)
		}
		content = cleaned.Text
	}

	if len(content) > opts.MaxLength {
		truncated := content[:opts.MaxLength]
		return truncated + fmt.Sprintf("\n\n[Content truncated: %d of %d characters shown]", opts.MaxLength, len(content)), nil
	}
	return content, nil
}

// extractMarkdown extracts content with the page title as a heading.
func (s *Session) extractMarkdown(opts ExtractOptions) (string, error) {
	var markdown string

	title, err := s.Page.Title()
	if err == nil && title != "" {
		markdown = fmt.Sprintf("# %s\n\n", title)
	}

	text, err := s.extractText(opts)
	if err != nil {
		return "", err
	}
	return markdown + text, nil
}

// extractStructured extracts content in structured JSON format.
func (s *Session) extractStructured(opts ExtractOptions) (string, error) {
	structured := StructuredContent{}

	if title, err := s.Page.Title(); err == nil {
		structured.Title = title
	}

	headings, err := s.Page.QuerySelectorAll("h1, h2, h3, h4, h5, h6")
	if err == nil {
		for _, heading := range headings {
			if text, textErr := heading.TextContent(); textErr == nil && text != "" {
				structured.Headings = append(structured.Headings, text)
			}
		}
	}

	links, err := s.Page.QuerySelectorAll("a[href]")
	if err == nil {
		for _, link := range links {
			text, _ := link.TextContent()
			href, _ := link.GetAttribute("href")
			if href != "" {
				structured.Links = append(structured.Links, Link{Text: text, Href: href})
			}
		}
	}

	if bodyText, err := s.extractText(opts); err == nil {
		structured.Body = bodyText
	}

	encoded, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode structured content: %w", err)
	}
	return string(encoded), nil
}

// Search looks for a text pattern in the cleaned page text and returns
// matching lines with surrounding context.
func (s *Session) Search(opts SearchOptions) ([]SearchMatch, error) {
	s.UpdateLastUsed()

	if opts.Pattern == "" {
		return nil, fmt.Errorf("search pattern is required")
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultSearchResults
	}

	rawHTML, err := s.Page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	cleaned, err := CleanHTML(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to clean page content: %w", err)
	}

	return searchText(cleaned.Text, opts), nil
}

// searchText scans text line by line for the pattern. Split out from
// Search so matching behavior can be tested without a live page.
func searchText(text string, opts SearchOptions) []SearchMatch {
	pattern := opts.Pattern
	if !opts.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}

	lines := strings.Split(text, "\n")
	var matches []SearchMatch
	for i, line := range lines {
		haystack := line
		if !opts.CaseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if !strings.Contains(haystack, pattern) {
			continue
		}
		matches = append(matches, SearchMatch{
			Text:    strings.TrimSpace(line),
			Context: contextAround(lines, i),
		})
		if len(matches) >= opts.MaxResults {
			break
		}
	}
	return matches
}

// contextAround joins the matching line with its immediate neighbors.
func contextAround(lines []string, i int) string {
	start := i - 1
	if start < 0 {
		start = 0
	}
	end := i + 2
	if end > len(lines) {
		end = len(lines)
	}

	var parts []string
	for _, line := range lines[start:end] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// Evaluate runs JavaScript in the page and returns the result. Scripts
// can mutate the DOM or navigate, so the state sequence advances and any
// prior snapshot becomes stale.
func (s *Session) Evaluate(code string) (interface{}, error) {
	s.UpdateLastUsed()

	result, err := s.Page.Evaluate(code)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	s.bumpState()
	return result, nil
}

// GetMetadata returns current page metadata.
func (s *Session) GetMetadata() (map[string]string, error) {
	s.UpdateLastUsed()

	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	return map[string]string{
		"title": title,
		"url":   s.Page.URL(),
	}, nil
}
