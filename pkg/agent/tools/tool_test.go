package tools

import (
	"context"
	"testing"
)

// stubTool is a minimal Tool implementation for registry tests.
type stubTool struct {
	name        string
	description string
	visible     bool
	conditional bool
}

func (s *stubTool) Name() string                   { return s.name }
func (s *stubTool) Description() string            { return s.description }
func (s *stubTool) Schema() map[string]interface{} { return BaseToolSchema(nil, nil) }
func (s *stubTool) IsLoopBreaking() bool           { return false }
func (s *stubTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	return "ok", nil, nil
}

// conditionalStub wraps stubTool with ShouldShow.
type conditionalStub struct {
	stubTool
}

func (c *conditionalStub) ShouldShow() bool { return c.visible }

func TestParseToolCall(t *testing.T) {
	t.Run("parses a well formed call", func(t *testing.T) {
		text := `<thinking>refresh first</thinking>
<tool>
<server_name>local</server_name>
<tool_name>refresh_browser_state</tool_name>
<arguments>
  <session>research</session>
</arguments>
</tool>`

		call, remaining, err := ParseToolCall(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if call.ToolName != "refresh_browser_state" {
			t.Errorf("expected tool_name 'refresh_browser_state', got %q", call.ToolName)
		}
		if call.ServerName != "local" {
			t.Errorf("expected server_name 'local', got %q", call.ServerName)
		}
		if remaining != "<thinking>refresh first</thinking>" {
			t.Errorf("unexpected remaining text: %q", remaining)
		}
	})

	t.Run("defaults server_name to local", func(t *testing.T) {
		text := `<tool><tool_name>browser_navigate</tool_name><arguments><url>https://example.com</url></arguments></tool>`

		call, _, err := ParseToolCall(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if call.ServerName != "local" {
			t.Errorf("expected default server_name 'local', got %q", call.ServerName)
		}
	})

	t.Run("requires tool_name", func(t *testing.T) {
		text := `<tool><server_name>local</server_name><arguments></arguments></tool>`
		if _, _, err := ParseToolCall(text); err == nil {
			t.Error("expected error for missing tool_name")
		}
	})

	t.Run("errors when no tool call present", func(t *testing.T) {
		if _, _, err := ParseToolCall("just some prose"); err == nil {
			t.Error("expected error for text without a tool call")
		}
	})

	t.Run("recovers from unescaped ampersands", func(t *testing.T) {
		text := `<tool><tool_name>browser_navigate</tool_name><arguments><url>https://example.com/?a=1&b=2</url></arguments></tool>`

		call, _, err := ParseToolCall(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		args, err := XMLToMap(call.GetArgumentsXML())
		if err != nil {
			t.Fatalf("XMLToMap failed: %v", err)
		}
		if args["url"] != "https://example.com/?a=1&b=2" {
			t.Errorf("unexpected url value: %v", args["url"])
		}
	})
}

func TestHasToolCall(t *testing.T) {
	if !HasToolCall("<tool><tool_name>x</tool_name></tool>") {
		t.Error("expected tool call to be detected")
	}
	if HasToolCall("no calls here") {
		t.Error("expected no tool call")
	}
}

func TestGetArgumentsXML(t *testing.T) {
	call := &ToolCall{
		Arguments: ArgumentsBlock{InnerXML: []byte("<session>main</session>")},
	}

	got := string(call.GetArgumentsXML())
	want := "<arguments><session>main</session></arguments>"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestXMLToMap(t *testing.T) {
	args := []byte(`<arguments>
		<session>research</session>
		<selector>button.submit</selector>
	</arguments>`)

	result, err := XMLToMap(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["session"] != "research" {
		t.Errorf("expected session 'research', got %v", result["session"])
	}
	if result["selector"] != "button.submit" {
		t.Errorf("expected selector 'button.submit', got %v", result["selector"])
	}
}

func TestBaseToolSchema(t *testing.T) {
	properties := map[string]interface{}{
		"session": map[string]interface{}{
			"type":        "string",
			"description": "Session name",
		},
	}

	schema := BaseToolSchema(properties, []string{"session"})

	if schema["type"] != "object" {
		t.Errorf("expected type 'object', got %v", schema["type"])
	}
	if _, ok := schema["properties"]; !ok {
		t.Error("schema should have 'properties' field")
	}
	if _, ok := schema["required"]; !ok {
		t.Error("schema should have 'required' field")
	}

	schema = BaseToolSchema(nil, nil)
	if _, ok := schema["required"]; ok {
		t.Error("schema should omit 'required' when empty")
	}
}

func TestRegistry(t *testing.T) {
	t.Run("rejects duplicate names", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(&stubTool{name: "a"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := r.Register(&stubTool{name: "a"}); err == nil {
			t.Error("expected error for duplicate tool name")
		}
	})

	t.Run("filters conditional tools from listings", func(t *testing.T) {
		r := NewRegistry()
		hidden := &conditionalStub{stubTool{name: "hidden", visible: false}}
		shown := &conditionalStub{stubTool{name: "shown", visible: true}}
		always := &stubTool{name: "always"}

		if err := r.Register(hidden, shown, always); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		visible := r.Visible()
		if len(visible) != 2 {
			t.Fatalf("expected 2 visible tools, got %d", len(visible))
		}
		if visible[0].Name() != "always" || visible[1].Name() != "shown" {
			t.Errorf("unexpected visible set: %s, %s", visible[0].Name(), visible[1].Name())
		}

		// Hidden tools remain invocable
		if _, ok := r.Get("hidden"); !ok {
			t.Error("hidden tool should still resolve by name")
		}
	})

	t.Run("descriptions map visible tools", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(&stubTool{name: "a", description: "does a"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		descriptions := r.Descriptions()
		if descriptions["a"] != "does a" {
			t.Errorf("expected description 'does a', got %q", descriptions["a"])
		}
	})
}
