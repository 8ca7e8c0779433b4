// Package tokenizer provides client-side token counting for budgeting
// LLM-bound content.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/surf/pkg/types"
)

// defaultEncoding is the cl100k_base encoding used by GPT-4 family models.
// Counts are close enough for budgeting across OpenAI-compatible models.
const defaultEncoding = "cl100k_base"

// perMessageOverhead approximates the chat-format framing tokens added
// per message by OpenAI-style APIs.
const perMessageOverhead = 4

// Tokenizer counts tokens using a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the default encoding.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", defaultEncoding, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the number of tokens in the given text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens returns the approximate token count of a conversation,
// including per-message chat framing overhead.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		total += t.CountTokens(msg.Content) + perMessageOverhead
	}
	return total
}

// TruncateToBudget returns text trimmed so that it encodes to at most budget
// tokens, along with the number of tokens in the returned text. Text within
// budget is returned unchanged.
func (t *Tokenizer) TruncateToBudget(text string, budget int) (string, int) {
	if budget <= 0 {
		return "", 0
	}
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text, len(tokens)
	}
	return t.encoding.Decode(tokens[:budget]), budget
}
