package memory_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memagent/memory"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mem.json")

	s := memory.New(p)
	s.Add("hi", "hello")
	s.Add("what is 2+2", "4")
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := memory.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := s.Recent(10)
	got := loaded.Recent(10)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].User != want[i].User || got[i].Agent != want[i].Agent {
			t.Fatalf("mismatch at %d: got %+v want %+v", i, got[i], want[i])
		}
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Fatalf("timestamp mismatch at %d: got %v want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
	}
}

func TestStore_LoadMissing_ReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "does-not-exist.json")

	s, err := memory.Load(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store for missing file, got %d records", s.Len())
	}
}

func TestStore_LoadInvalidJSON_EmptyPlusError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("prep: %v", err)
	}

	s, err := memory.Load(p)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if s == nil || s.Len() != 0 {
		t.Fatalf("expected usable empty store alongside the error, got %v", s)
	}
	// A corrupt file must not stop the session: the empty store still works.
	s.Add("u", "a")
	if err := s.Save(); err != nil {
		t.Fatalf("save after corrupt load: %v", err)
	}
}

func TestStore_CapEvictsOldest(t *testing.T) {
	s := memory.New(filepath.Join(t.TempDir(), "mem.json"))
	for i := 1; i <= 51; i++ {
		s.Add(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}
	if s.Len() != memory.MaxRecords {
		t.Fatalf("expected %d records after 51 adds, got %d", memory.MaxRecords, s.Len())
	}
	recs := s.Recent(memory.MaxRecords)
	if recs[0].User != "u2" {
		t.Errorf("oldest retained record: got %q want %q", recs[0].User, "u2")
	}
	if recs[len(recs)-1].User != "u51" {
		t.Errorf("newest retained record: got %q want %q", recs[len(recs)-1].User, "u51")
	}
	// Chronological order across the window
	for i := 1; i < len(recs); i++ {
		if recs[i].Timestamp.Before(recs[i-1].Timestamp) {
			t.Fatalf("records out of chronological order at %d", i)
		}
	}
}

func TestStore_Search(t *testing.T) {
	s := memory.New(filepath.Join(t.TempDir(), "mem.json"))
	s.Add("tell me about Foobar", "sure")
	s.Add("unrelated", "nothing here")
	s.Add("again?", "FOO was covered earlier")

	got := s.Search("foo")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Stored order, matching either side of the exchange
	if !strings.Contains(got[0].User, "Foobar") {
		t.Errorf("first match should be the Foobar question, got %+v", got[0])
	}
	if !strings.Contains(got[1].Agent, "FOO") {
		t.Errorf("second match should be the FOO reply, got %+v", got[1])
	}

	if got := s.Search("absent"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestStore_ContextMessages_PairsOldestFirst(t *testing.T) {
	s := memory.New(filepath.Join(t.TempDir(), "mem.json"))
	s.Add("first question", "first answer")
	s.Add("second question", "second answer")
	s.Add("third question", "third answer")

	msgs := s.ContextMessages(2)
	if len(msgs) != 4 {
		t.Fatalf("expected 2 records as 4 messages, got %d", len(msgs))
	}

	wantTexts := []string{
		"second question",
		"Previous response: second answer",
		"third question",
		"Previous response: third answer",
	}
	wantRoles := []anthropic.MessageParamRole{
		anthropic.MessageParamRoleUser,
		anthropic.MessageParamRoleAssistant,
		anthropic.MessageParamRoleUser,
		anthropic.MessageParamRoleAssistant,
	}
	for i, m := range msgs {
		if m.Role != wantRoles[i] {
			t.Errorf("message %d role: got %q want %q", i, m.Role, wantRoles[i])
		}
		if len(m.Content) != 1 || m.Content[0].OfText == nil {
			t.Fatalf("message %d: expected a single text block", i)
		}
		if got := m.Content[0].OfText.Text; got != wantTexts[i] {
			t.Errorf("message %d text: got %q want %q", i, got, wantTexts[i])
		}
	}
}

func TestStore_ContextMessages_Empty(t *testing.T) {
	s := memory.New(filepath.Join(t.TempDir(), "mem.json"))
	if msgs := s.ContextMessages(5); len(msgs) != 0 {
		t.Fatalf("expected no context messages for empty store, got %d", len(msgs))
	}
}

func TestStore_ClearThenSave(t *testing.T) {
	p := filepath.Join(t.TempDir(), "mem.json")
	s := memory.New(p)
	s.Add("u", "a")
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty store after clear, got %d", s.Len())
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save after clear: %v", err)
	}

	loaded, err := memory.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("expected cleared history on disk, got %d records", loaded.Len())
	}
}
