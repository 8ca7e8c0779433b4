package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleSystem is the role for system instructions.
	RoleSystem MessageRole = "system"

	// RoleUser is the role for user-authored messages.
	RoleUser MessageRole = "user"

	// RoleAssistant is the role for model-authored messages.
	RoleAssistant MessageRole = "assistant"
)

// Message represents a single message in an LLM conversation.
type Message struct {
	// Role indicates who authored this message (system, user, assistant).
	Role MessageRole `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ModelInfo describes the LLM model a provider is configured to use.
type ModelInfo struct {
	// Name is the model identifier (e.g., "gpt-4o").
	Name string

	// Provider is the provider family (e.g., "openai").
	Provider string

	// MaxTokens is the model's context window size, when known.
	MaxTokens int

	// SupportsStreaming indicates whether the provider streams responses.
	SupportsStreaming bool

	// Metadata holds additional provider-specific details.
	Metadata map[string]interface{}
}
