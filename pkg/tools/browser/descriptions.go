package browser

// Tool descriptions are the model-facing metadata attached to each browser
// tool. They are fixed at build time; nothing in the package mutates them.

// refreshStateToolDescription tells the model when and why to resync its view
// of the page. Element indices embedded in earlier snapshots silently rot as
// the page changes, which is why the refresh guidance is this insistent.
const refreshStateToolDescription = `CRITICAL TOOL - Updates the browser state in your conversation context to reflect the current page after navigation or interactions.

WHEN TO USE:
- After navigating to a new page or URL
- After clicking links, buttons, or any element that changes page content
- After filling and submitting forms
- After waiting for dynamic content to load
- Before targeting elements by index, if the page may have changed since the last snapshot

WHY IT'S CRITICAL:
- Your context holds a snapshot of the page from the moment it was last captured, not a live view
- Navigation and interactions make that snapshot STALE: element indices in it may now point at elements that moved, changed, or no longer exist
- Acting on stale indices clicks the wrong element or fails outright
- Refreshing replaces the snapshot with the current URL, page title, scroll position, a fresh numbered inventory of interactive elements, and a readable excerpt of the page

USAGE:
- Provide the session name, or omit it when only one session is active
- Use the element indices from the refreshed state with browser_click and browser_fill`

const startSessionDescription = "Create a new browser session for web automation. Sessions persist across agent loop iterations and can be reused for multiple operations."

const listSessionsDescription = "List all active browser sessions with their current URL, mode, and idle time."

const closeSessionDescription = "Close a browser session and release its resources. Use when you are finished with a session."

const navigateDescription = "Navigate to a URL in an active browser session. The browser will load the page and wait for it to be ready. After navigating, use refresh_browser_state to bring the new page into your context."

const clickDescription = "Click an element in the browser session. Target it with an element index from the latest browser state (preferred) or a CSS selector. Supports single and double clicks, and different mouse buttons."

const fillDescription = "Fill an input element with text. Target it with an element index from the latest browser state (preferred) or a CSS selector."

const waitDescription = "Wait for an element to reach a state ('attached', 'detached', 'visible', 'hidden') before continuing. Useful for pages that load content dynamically."

const extractContentDescription = "Extract content from the current page in the browser session. Supports multiple formats: markdown (default), plain text, or structured JSON."

const searchDescription = "Search the readable text of the current page for a pattern. Returns matching lines with surrounding context, useful for locating content on long pages before extracting or interacting."

const evaluateDescription = "Execute JavaScript code in the browser session and return the result. The code runs in the page context and can read or modify the DOM. After code that changes the page, use refresh_browser_state to bring the new state into your context."

const analyzePageDescription = "Analyze the current page using AI to understand its purpose, key elements, and suggest relevant actions. Returns a structured analysis including page type, purpose, main content areas, and next steps."
