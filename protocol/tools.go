package protocol

// FunctionCall is the nested descriptor shape some backend call sites emit,
// with name and arguments under a "function" object.
type FunctionCall struct {
	Name      string       `json:"name,omitempty"`
	Arguments FlexibleText `json:"arguments,omitempty"`
}

// ToolDescriptor is one entry of a tool_calls event. The backend emits two
// shapes depending on call site: flat (id/name/arguments at the top level)
// and nested (name/arguments under "function", id under "tool_call_id").
type ToolDescriptor struct {
	ID         string        `json:"id,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	Arguments  FlexibleText  `json:"arguments,omitempty"`
	Function   *FunctionCall `json:"function,omitempty"`
}

// NormalizedCall is a descriptor with the shape differences resolved.
type NormalizedCall struct {
	ID        string
	Name      string
	Arguments string
}

// Normalize resolves the descriptor's fallback chains in one place so every
// caller sees identical behavior: name falls back to function.name,
// arguments to function.arguments, id to tool_call_id.
func (d ToolDescriptor) Normalize() NormalizedCall {
	c := NormalizedCall{
		ID:        d.ID,
		Name:      d.Name,
		Arguments: d.Arguments.Text(),
	}
	if c.ID == "" {
		c.ID = d.ToolCallID
	}
	if d.Function != nil {
		if c.Name == "" {
			c.Name = d.Function.Name
		}
		if c.Arguments == "" {
			c.Arguments = d.Function.Arguments.Text()
		}
	}
	return c
}
