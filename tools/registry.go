package tools

// Registry returns all tool definitions wired for the agent
func Registry() []ToolDefinition {
	return []ToolDefinition{AddDefinition, SubtractDefinition, MultiplyDefinition}
}

// Find resolves a definition by name within defs. The returned pointer
// aliases the slice entry; callers must not mutate it.
func Find(defs []ToolDefinition, name string) (*ToolDefinition, bool) {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i], true
		}
	}
	return nil, false
}
