// Package runner coordinates message exchange with the Anthropic Messages API
// and dispatches tool calls.
//
// Invariants:
//   - tool_use and the corresponding tool_result are kept adjacent within a
//     turn, correlated by the tool_use ID, in the order the model listed them.
//   - the turn conversation is append-only; memory windowing happens before
//     the turn starts, never inside it.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> ... -> assistant(text)
package runner
