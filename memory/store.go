package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// MaxRecords caps the stored history; the oldest record is evicted first.
const MaxRecords = 50

// ConversationRecord is one completed exchange: the user's input and the
// agent's final reply for that turn.
type ConversationRecord struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Agent     string    `json:"agent"`
}

// snapshot is the on-disk shape of the store.
type snapshot struct {
	Conversations []ConversationRecord `json:"conversations"`
	LastUpdated   time.Time            `json:"last_updated"`
}

// Store holds bounded conversation history backed by a JSON file. It has a
// single writer (the turn driver) and is not safe for concurrent use.
type Store struct {
	path    string
	records []ConversationRecord
}

// New returns an empty store that persists to path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads persisted history from path. A missing file yields an empty
// store and nil error. An unreadable or unparsable file also yields an empty
// store, with the cause returned so the caller can log it; the session then
// starts with no history rather than failing.
func Load(path string) (*Store, error) {
	s := New(path)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read memory file: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return s, fmt.Errorf("parse memory file: %w", err)
	}
	s.records = snap.Conversations
	if len(s.records) > MaxRecords {
		s.records = s.records[len(s.records)-MaxRecords:]
	}
	return s, nil
}

// Add appends a record with the current timestamp, evicting the oldest
// record once the cap is exceeded. It does not persist; call Save for that.
func (s *Store) Add(user, agent string) {
	s.records = append(s.records, ConversationRecord{
		Timestamp: time.Now(),
		User:      user,
		Agent:     agent,
	})
	if len(s.records) > MaxRecords {
		s.records = s.records[len(s.records)-MaxRecords:]
	}
}

// Save writes the whole store to its file. The write goes to a temp file in
// the same directory first and is moved into place, so a crash mid-write
// leaves the previous snapshot intact.
func (s *Store) Save() error {
	snap := snapshot{
		Conversations: s.records,
		LastUpdated:   time.Now(),
	}
	if snap.Conversations == nil {
		snap.Conversations = []ConversationRecord{}
	}
	b, err := json.MarshalIndent(snap, "", " ")
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("create temp memory file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write memory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp memory file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist memory: %w", err)
	}
	return nil
}

// ContextMessages renders the last limit records as conversation context,
// oldest first: the user's text as a user message, and the prior reply as an
// assistant message prefixed "Previous response: ". This is how history is
// reintroduced into a fresh turn without the turn conversation growing for
// the whole process lifetime.
func (s *Store) ContextMessages(limit int) []anthropic.MessageParam {
	recs := s.Recent(limit)
	msgs := make([]anthropic.MessageParam, 0, len(recs)*2)
	for _, rec := range recs {
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(rec.User)))
		msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock("Previous response: "+rec.Agent)))
	}
	return msgs
}

// Search returns the records whose user or agent text contains keyword,
// case-insensitively, in stored order.
func (s *Store) Search(keyword string) []ConversationRecord {
	k := strings.ToLower(keyword)
	var out []ConversationRecord
	for _, rec := range s.records {
		if strings.Contains(strings.ToLower(rec.User), k) || strings.Contains(strings.ToLower(rec.Agent), k) {
			out = append(out, rec)
		}
	}
	return out
}

// Recent returns up to the last limit records, oldest of the window first.
func (s *Store) Recent(limit int) []ConversationRecord {
	if limit <= 0 || len(s.records) == 0 {
		return nil
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]ConversationRecord, limit)
	copy(out, s.records[len(s.records)-limit:])
	return out
}

// Clear empties the history. Persisting the now-empty store is the caller's
// decision.
func (s *Store) Clear() {
	s.records = nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}
