// Package memory provides bounded, file-persisted conversation history.
//
// Persistence model:
//   - One record per completed turn (timestamp, user text, agent text).
//   - At most 50 records are retained; the oldest is evicted first.
//   - The whole store is rewritten on Save via temp file + rename; a
//     missing or unparsable file loads as empty history, never an error
//     that stops the session.
package memory
