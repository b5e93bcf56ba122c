// Package host defines the contracts between dotsoul and an embedding
// agent runtime: per-turn context providers, named tool servers, and
// session enumeration. dotsoul is the guest; the host owns the transport
// and the conversation loop.
package host

import "context"

// PersonaPriority orders the persona fragment early among a host's context
// contributors.
const PersonaPriority = 8

// Fragment is one context contribution for a single conversation turn. It
// is rebuilt on every invocation and never persisted.
type Fragment struct {
	Content  string           `json:"content"`
	Role     string           `json:"role"`
	Metadata FragmentMetadata `json:"metadata"`
}

// FragmentMetadata labels where a fragment came from and how to order it.
type FragmentMetadata struct {
	Source   string `json:"source"`
	Priority int    `json:"priority"`
	Location string `json:"location"`
}

// MessageInfo describes the inbound message that triggered a provider
// invocation. dotsoul treats it as opaque; hosts may leave fields empty.
type MessageInfo struct {
	Channel  string `json:"channel,omitempty"`
	SenderID string `json:"sender_id,omitempty"`
	ChatID   string `json:"chat_id,omitempty"`
	Content  string `json:"content,omitempty"`
}

// ProvideFunc produces a fragment for one turn. A nil fragment means the
// provider has nothing to contribute this turn; that is a normal outcome,
// not an error.
type ProvideFunc func(ctx context.Context, sessionID string, msg MessageInfo) (*Fragment, error)

// ContextProvider is the registration object for a per-turn context
// source.
type ContextProvider struct {
	Name     string
	Priority int
	Enabled  bool
	Provide  ProvideFunc
}

// Content is one block of a tool call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the tool result envelope. Failures addressed to the model
// travel as ordinary text blocks; the envelope carries no error flag.
type CallResult struct {
	Content []Content `json:"content"`
}

// TextResult wraps text in the standard single-block envelope.
func TextResult(text string) CallResult {
	return CallResult{Content: []Content{{Type: "text", Text: text}}}
}

// HandlerFunc executes one tool call. The error return is reserved for
// faults the host's own error handling should surface, such as failed
// writes; invalid input is answered as a normal text result.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (CallResult, error)

// ToolDescriptor declares one callable tool.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     HandlerFunc
}

// ToolServerSpec is the registration payload for a named tool server.
type ToolServerSpec struct {
	Name    string
	Version string
	Tools   []ToolDescriptor
}

// Host is the runtime dotsoul attaches to. Registration calls return a
// deregistration callback consumed on plugin stop.
type Host interface {
	RegisterContextProvider(p ContextProvider) (func(), error)
	RegisterTools(spec ToolServerSpec) (func(), error)
	Sessions(ctx context.Context) ([]string, error)
}
