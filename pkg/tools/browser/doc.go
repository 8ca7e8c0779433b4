// Package browser provides web browser automation capabilities through Playwright.
//
// The package enables Surf agents to drive web browsers for research and
// automation tasks. It is built around named, persistent sessions and a
// page state snapshot model that keeps the agent's conversation context in
// sync with what the browser is actually showing.
//
// # Architecture
//
// The package is built around three core concepts:
//
//  1. Session: a Playwright browser instance with its context and page
//  2. SessionManager: registry of all active sessions with limits and cleanup
//  3. PageState: an indexed snapshot of the current page used by the agent
//
// # Page state
//
// Every mutating operation on a session (navigation, clicks, form fills)
// advances the session's state sequence number. A PageState snapshot records
// the sequence it was captured at, so tools can detect when the agent is
// acting on stale information. The refresh_browser_state tool captures a
// fresh snapshot and renders it for the conversation context: current URL,
// title, scroll position, and a numbered inventory of interactive elements
// that click and fill can target by index.
//
// The rendered snapshot is bounded by a token budget so large pages cannot
// flood the context window.
//
// # Session lifecycle
//
//  1. Create: start_browser_session creates a new named session
//  2. Use: navigation, interaction, extraction, and state tools operate on it
//  3. Close: close_browser_session releases resources explicitly
//  4. Timeout: idle sessions are closed after a configurable timeout
//
// # Tool registration
//
// Session management tools are offered whenever browser automation is
// enabled; interaction tools only appear while sessions exist. This reduces
// cognitive load for the model when the browser is not in use.
//
// # Security
//
// Browser automation is opt-in (browser section of the config) and
// navigation is checked against a glob-based URL allow/deny policy.
package browser
