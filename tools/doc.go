// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Arithmetic tools: add, subtract, multiply (pure integer functions).
//   - Invariants: handlers are stateless and referentially transparent;
//     malformed input returns an error rather than panicking.
package tools
