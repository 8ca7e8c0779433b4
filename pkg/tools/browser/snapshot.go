package browser

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/entrhq/surf/pkg/llm/tokenizer"
)

// nowFunc is replaceable in tests.
var nowFunc = time.Now

// collectElementsScript gathers the page's interactive elements and builds a
// CSS selector for each. It runs in the page context and returns plain data.
const collectElementsScript = `(maxElements) => {
	const roleFor = (el) => {
		const tag = el.tagName.toLowerCase();
		if (tag === 'a') return 'link';
		if (tag === 'select') return 'select';
		if (tag === 'textarea') return 'textarea';
		if (tag === 'input') {
			const type = (el.getAttribute('type') || 'text').toLowerCase();
			return ['button', 'submit', 'reset'].includes(type) ? 'button' : 'input';
		}
		if (tag === 'button' || el.getAttribute('role') === 'button') return 'button';
		return 'element';
	};

	const labelFor = (el) => {
		const aria = el.getAttribute('aria-label');
		if (aria) return aria.trim();
		if (el.tagName.toLowerCase() === 'input') {
			const placeholder = el.getAttribute('placeholder');
			if (placeholder) return placeholder.trim();
			const name = el.getAttribute('name');
			if (name) return name.trim();
			return (el.getAttribute('value') || '').trim();
		}
		return (el.innerText || el.textContent || '').trim().replace(/\s+/g, ' ');
	};

	const selectorFor = (el) => {
		if (el.id) return '#' + CSS.escape(el.id);
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE && parts.length < 4) {
			const tag = node.tagName.toLowerCase();
			if (node.id) {
				parts.unshift('#' + CSS.escape(node.id));
				break;
			}
			const siblings = node.parentElement
				? Array.from(node.parentElement.children).filter(c => c.tagName === node.tagName)
				: [];
			parts.unshift(siblings.length > 1
				? tag + ':nth-of-type(' + (siblings.indexOf(node) + 1) + ')'
				: tag);
			node = node.parentElement;
		}
		return parts.join(' > ');
	};

	const visible = (el) => {
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 && rect.height === 0) return false;
		const style = window.getComputedStyle(el);
		return style.display !== 'none' && style.visibility !== 'hidden';
	};

	const candidates = document.querySelectorAll(
		'a[href], button, input, select, textarea, [role="button"]');
	const elements = [];
	for (const el of candidates) {
		if (elements.length >= maxElements) break;
		if (!visible(el)) continue;
		elements.push({
			role: roleFor(el),
			label: labelFor(el).slice(0, 120),
			selector: selectorFor(el),
			href: el.tagName.toLowerCase() === 'a' ? (el.getAttribute('href') || '') : '',
			inputType: el.tagName.toLowerCase() === 'input' ? (el.getAttribute('type') || 'text') : '',
			disabled: el.disabled === true,
		});
	}
	return elements;
}`

// scrollScript reports the current scroll position and total page height.
const scrollScript = `() => ({
	x: Math.round(window.scrollX),
	y: Math.round(window.scrollY),
	height: Math.round(document.documentElement.scrollHeight),
})`

// CaptureState takes a fresh snapshot of the session's current page and
// records it as the session's last known state.
//
// The tokenizer bounds the content excerpt to the configured budget; when
// it is nil, a character-based estimate is used instead.
func (s *Session) CaptureState(opts StateOptions, tok *tokenizer.Tokenizer) (*PageState, error) {
	s.UpdateLastUsed()

	if opts.TokenBudget <= 0 {
		opts.TokenBudget = DefaultStateTokenBudget
	}
	if opts.MaxElements <= 0 {
		opts.MaxElements = DefaultMaxElements
	}

	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	state := &PageState{
		Session:    s.Name,
		URL:        s.Page.URL(),
		Title:      title,
		Seq:        s.stateSeq,
		CapturedAt: nowFunc(),
	}

	if scroll, err := s.Page.Evaluate(scrollScript); err == nil {
		state.Scroll = parseScroll(scroll)
	}

	raw, err := s.Page.Evaluate(collectElementsScript, opts.MaxElements)
	if err != nil {
		return nil, fmt.Errorf("failed to collect interactive elements: %w", err)
	}
	state.Elements = parseElements(raw)

	excerpt, tokens, truncated, err := s.captureExcerpt(opts.TokenBudget, tok)
	if err != nil {
		return nil, err
	}
	state.Excerpt = excerpt
	state.ExcerptTokens = tokens
	state.Truncated = truncated

	s.CurrentURL = state.URL
	s.lastState = state
	return state, nil
}

// captureExcerpt pulls the page HTML, cleans it, and trims it to budget.
func (s *Session) captureExcerpt(budget int, tok *tokenizer.Tokenizer) (string, int, bool, error) {
	rawHTML, err := s.Page.Content()
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to get page content: %w", err)
	}

	cleaned, err := CleanHTML(rawHTML)
	if err != nil {
		return "", 0, false, fmt.Errorf("failed to clean page content: %w", err)
	}

	text := cleaned.Text
	if tok != nil {
		trimmed, tokens := tok.TruncateToBudget(text, budget)
		return trimmed, tokens, trimmed != text, nil
	}

	// Rough estimate: ~4 characters per token
	maxChars := budget * 4
	if len(text) > maxChars {
		return truncateAtRune(text, maxChars), budget, true, nil
	}
	return text, len(text) / 4, false, nil
}

// truncateAtRune cuts text to at most maxBytes without splitting a
// multi-byte UTF-8 sequence.
func truncateAtRune(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// ResolveElement looks up an element index in the session's last snapshot.
// It fails when no snapshot exists or when the snapshot has gone stale,
// since the indices would then point at elements that may no longer exist.
func (s *Session) ResolveElement(index int) (*InteractiveElement, error) {
	state := s.lastState
	if state == nil {
		return nil, fmt.Errorf("no page state captured for session %q; use refresh_browser_state before targeting elements by index", s.Name)
	}
	if state.Seq != s.stateSeq {
		return nil, fmt.Errorf("page state for session %q is stale (the page changed since the last snapshot); use refresh_browser_state to get fresh element indices", s.Name)
	}

	for i := range state.Elements {
		if state.Elements[i].Index == index {
			return &state.Elements[i], nil
		}
	}
	return nil, fmt.Errorf("element index %d not found in the current page state (%d elements)", index, len(state.Elements))
}

// parseScroll converts the Evaluate result into a ScrollPosition.
func parseScroll(raw interface{}) ScrollPosition {
	data, ok := raw.(map[string]interface{})
	if !ok {
		return ScrollPosition{}
	}
	return ScrollPosition{
		X:          asInt(data["x"]),
		Y:          asInt(data["y"]),
		PageHeight: asInt(data["height"]),
	}
}

// parseElements converts the Evaluate result into indexed elements.
func parseElements(raw interface{}) []InteractiveElement {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	elements := make([]InteractiveElement, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		elements = append(elements, InteractiveElement{
			Index:     len(elements) + 1,
			Role:      asString(data["role"]),
			Label:     asString(data["label"]),
			Selector:  asString(data["selector"]),
			Href:      asString(data["href"]),
			InputType: asString(data["inputType"]),
			Disabled:  asBool(data["disabled"]),
		})
	}
	return elements
}

// Render formats the snapshot for the agent's conversation context.
func (ps *PageState) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Browser state refreshed (session: %s)\n\n", ps.Session)
	fmt.Fprintf(&b, "Page:\n- URL: %s\n- Title: %s\n- Scroll: %s\n", ps.URL, ps.Title, ps.Scroll.describe())

	b.WriteString("\nInteractive elements (indices valid until the next navigation or interaction):\n")
	if len(ps.Elements) == 0 {
		b.WriteString("(none found)\n")
	}
	for _, el := range ps.Elements {
		fmt.Fprintf(&b, "[%d] %s", el.Index, el.Role)
		if el.Label != "" {
			fmt.Fprintf(&b, " %q", el.Label)
		}
		if el.Href != "" {
			fmt.Fprintf(&b, " -> %s", el.Href)
		}
		if el.InputType != "" && el.InputType != "text" {
			fmt.Fprintf(&b, " (type=%s)", el.InputType)
		}
		if el.Disabled {
			b.WriteString(" (disabled)")
		}
		b.WriteByte('\n')
	}

	if ps.Excerpt != "" {
		b.WriteString("\nPage excerpt:\n")
		b.WriteString(ps.Excerpt)
		if ps.Truncated {
			b.WriteString("\n\n[Excerpt truncated to fit the state token budget]")
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// describe summarizes the scroll position for the model.
func (sp ScrollPosition) describe() string {
	if sp.PageHeight <= 0 {
		return "unknown"
	}
	if sp.Y == 0 {
		return fmt.Sprintf("top of page (height %dpx)", sp.PageHeight)
	}
	percent := sp.Y * 100 / sp.PageHeight
	return fmt.Sprintf("%dpx from top (~%d%% of %dpx)", sp.Y, percent, sp.PageHeight)
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
