package concierge

import "context"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult answers one ToolCall. Output must be JSON encodable.
type ToolResult struct {
	ID     string
	Name   string
	Output any
}

type Message struct {
	Role    Role
	Text    string
	Calls   []ToolCall
	Results []ToolResult
}

// ToolSpec declares a tool with string parameters only.
type ToolSpec struct {
	Name        string
	Description string
	Params      map[string]string
	Required    []string
}

type Request struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
	// JSON asks for a bare JSON reply.
	JSON bool
}

type Reply struct {
	Text  string
	Calls []ToolCall
}

// Model is a text completion oracle with optional tool calling.
type Model interface {
	Generate(ctx context.Context, req Request) (*Reply, error)
}
