package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type probeTool struct {
	name     string
	result   *Result
	err      error
	calls    int
	lastArgs map[string]interface{}
}

func (t *probeTool) Name() string        { return t.name }
func (t *probeTool) Description() string { return "probe" }
func (t *probeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}
func (t *probeTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	t.calls++
	t.lastArgs = args
	return t.result, t.err
}

func TestRegistry_Execute(t *testing.T) {
	registry := NewRegistry()
	tool := &probeTool{name: "probe", result: Text("probe output")}
	registry.Register(tool)

	result, err := registry.Execute(context.Background(), "probe", map[string]interface{}{"k": "v"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.ForLLM != "probe output" {
		t.Fatalf("ForLLM = %q", result.ForLLM)
	}
	if tool.calls != 1 {
		t.Fatalf("expected one call, got %d", tool.calls)
	}
	if tool.lastArgs["k"] != "v" {
		t.Fatalf("args not forwarded: %v", tool.lastArgs)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Execute(context.Background(), "ghost", nil)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRegistry_ExecutePropagatesToolError(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("disk full")
	registry.Register(&probeTool{name: "probe", err: boom})

	_, err := registry.Execute(context.Background(), "probe", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped tool error, got %v", err)
	}
}

func TestRegistry_ExecuteNilResult(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&probeTool{name: "probe"})

	_, err := registry.Execute(context.Background(), "probe", nil)
	if err == nil || !strings.Contains(err.Error(), "nil result") {
		t.Fatalf("expected nil-result error, got %v", err)
	}
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&probeTool{name: "charlie"})
	registry.Register(&probeTool{name: "alpha"})
	registry.Register(&probeTool{name: "bravo"})
	// Re-registering must not move a tool.
	registry.Register(&probeTool{name: "alpha"})

	want := []string{"charlie", "alpha", "bravo"}
	got := registry.List()
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List = %v, want %v", got, want)
		}
	}
	if registry.Count() != 3 {
		t.Fatalf("Count = %d, want 3", registry.Count())
	}
}

func TestRegistry_GetSummaries(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&probeTool{name: "probe"})

	summaries := registry.GetSummaries()
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %v", summaries)
	}
	if summaries[0] != "- `probe` - probe" {
		t.Fatalf("summary = %q", summaries[0])
	}
}

func TestServerSpec(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&probeTool{name: "probe", result: UserText("for llm", "for user")})

	spec := ServerSpec("soul", "1.2.3", registry)
	if spec.Name != "soul" || spec.Version != "1.2.3" {
		t.Fatalf("spec identity = %q %q", spec.Name, spec.Version)
	}
	if len(spec.Tools) != 1 {
		t.Fatalf("expected one descriptor, got %d", len(spec.Tools))
	}

	desc := spec.Tools[0]
	if desc.Name != "probe" || desc.Description != "probe" {
		t.Fatalf("descriptor = %+v", desc)
	}
	if desc.InputSchema["type"] != "object" {
		t.Fatalf("schema = %v", desc.InputSchema)
	}

	// The handler routes through Execute and carries only the ForLLM text.
	callResult, err := desc.Handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(callResult.Content) != 1 || callResult.Content[0].Type != "text" {
		t.Fatalf("unexpected envelope: %+v", callResult)
	}
	if callResult.Content[0].Text != "for llm" {
		t.Fatalf("text = %q, want the model-facing text", callResult.Content[0].Text)
	}
}

func TestServerSpec_HandlerPropagatesErrors(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("write failed")
	registry.Register(&probeTool{name: "probe", err: boom})

	spec := ServerSpec("soul", "dev", registry)
	_, err := spec.Tools[0].Handler(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestSanitizeToolArgs_RedactsSensitiveValues(t *testing.T) {
	args := map[string]interface{}{
		"api_key": "super-secret",
		"section": "Personality",
		"nested": map[string]interface{}{
			"token": "nested-secret",
			"note":  strings.Repeat("x", 400),
		},
	}

	sanitized := sanitizeToolArgs(args)
	if sanitized["api_key"] != "<redacted>" {
		t.Fatalf("expected api_key to be redacted, got %v", sanitized["api_key"])
	}
	if sanitized["section"] != "Personality" {
		t.Fatalf("plain values should pass through, got %v", sanitized["section"])
	}
	nested, ok := sanitized["nested"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["token"] != "<redacted>" {
		t.Fatalf("expected nested token to be redacted, got %v", nested["token"])
	}
	note, _ := nested["note"].(string)
	if len(note) >= 400 {
		t.Fatalf("expected long values to be truncated")
	}
}
