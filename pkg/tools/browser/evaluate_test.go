package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateToolValidation(t *testing.T) {
	manager := NewSessionManager()
	tool := NewEvaluateTool(manager)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    string
		wantErr string
	}{
		{
			name:    "missing session",
			args:    "<arguments><code>1 + 1</code></arguments>",
			wantErr: "session name is required",
		},
		{
			name:    "missing code",
			args:    "<arguments><session>main</session></arguments>",
			wantErr: "code is required",
		},
		{
			name:    "unknown session",
			args:    "<arguments><session>ghost</session><code>1 + 1</code></arguments>",
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tool.Execute(ctx, []byte(tt.args))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatEvaluateResult(t *testing.T) {
	tests := []struct {
		name   string
		result interface{}
		want   string
	}{
		{"nil is undefined", nil, "undefined"},
		{"number", float64(2), "2"},
		{"string gets quoted", "done", `"done"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatEvaluateResult(tt.result))
		})
	}

	t.Run("object renders as indented JSON", func(t *testing.T) {
		out := formatEvaluateResult(map[string]interface{}{"foo": "bar", "num": float64(42)})
		assert.Contains(t, out, `"foo": "bar"`)
		assert.Contains(t, out, `"num": 42`)
	})
}

func TestEvaluateToolMetadata(t *testing.T) {
	tool := NewEvaluateTool(NewSessionManager())

	assert.Equal(t, "browser_evaluate", tool.Name())
	assert.Contains(t, tool.Description(), "JavaScript")
	assert.False(t, tool.IsLoopBreaking())

	schema := tool.Schema()
	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "session")
	assert.Contains(t, props, "code")
	assert.Contains(t, schema["required"].([]string), "code")
}

func TestEvaluateAdvancesStateSeq(t *testing.T) {
	// Evaluate talks to a live page, which unit tests cannot do, so this
	// pins the contract at the sequence level: any snapshot taken before
	// a state bump must no longer resolve.
	session := &Session{Name: "test"}
	session.lastState = &PageState{
		Session:  "test",
		Seq:      session.StateSeq(),
		Elements: []InteractiveElement{{Index: 1, Role: "button", Selector: "#go"}},
	}

	_, err := session.ResolveElement(1)
	require.NoError(t, err)

	session.bumpState()

	_, err = session.ResolveElement(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale")
}
