package tools

import "context"

// Tool is the interface persona tools implement. Parameters returns the
// JSON-schema style input shape (type object, named properties) that hosts
// advertise for the tool.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}) (*Result, error)
}

// Result carries a tool outcome. ForLLM is the text addressed to the
// model; ForUser optionally overrides what a human-facing surface prints.
// Invalid caller input is an ordinary Result, never an error: the error
// return on Execute is reserved for faults such as failed writes.
type Result struct {
	ForLLM  string
	ForUser string
}

// Text builds a Result whose model and user texts are the same.
func Text(s string) *Result {
	return &Result{ForLLM: s, ForUser: s}
}

// UserText builds a Result with a distinct human-facing rendering.
func UserText(forLLM, forUser string) *Result {
	return &Result{ForLLM: forLLM, ForUser: forUser}
}

// SessionSource yields the session id a tool call operates on. It is
// consulted per call so the active session can change between calls.
type SessionSource func(ctx context.Context) string

func stringArg(args map[string]interface{}, key string) string {
	if args == nil {
		return ""
	}
	value, _ := args[key].(string)
	return value
}
