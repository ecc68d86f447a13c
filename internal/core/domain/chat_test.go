package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestConversation_RecentHistory(t *testing.T) {
	conv := &Conversation{ID: "conv-1"}

	if got := conv.RecentHistory(); len(got) != 0 {
		t.Errorf("expected empty history, got %d entries", len(got))
	}

	for i := 0; i < 3; i++ {
		conv.History = append(conv.History,
			PromptMessage{Role: RoleUser, Content: "q"},
			PromptMessage{Role: RoleAssistant, Content: "a"},
		)
	}

	recent := conv.RecentHistory()
	if len(recent) != HistoryWindow {
		t.Fatalf("expected %d entries, got %d", HistoryWindow, len(recent))
	}
	// Oldest exchange must be dropped, order preserved
	if recent[0].Role != RoleUser || recent[len(recent)-1].Role != RoleAssistant {
		t.Errorf("unexpected roles in recent history: %+v", recent)
	}
}

func TestConversation_RecordIsDetached(t *testing.T) {
	conv := &Conversation{
		ID:       "conv-1",
		History:  []PromptMessage{{Role: RoleUser, Content: "hello"}},
		Messages: []ChatTurn{{UserMessage: "hello", Response: "hi", ConversationID: "conv-1"}},
	}

	rec := conv.Record()
	conv.History[0].Content = "mutated"

	if rec.History[0].Content != "hello" {
		t.Error("record shares backing storage with conversation")
	}
	if rec.ID != "conv-1" || len(rec.Messages) != 1 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestSnippet(t *testing.T) {
	short := "short text"
	if got := Snippet(short); got != short {
		t.Errorf("short text must pass through, got %q", got)
	}

	long := strings.Repeat("x", SnippetLength+50)
	got := Snippet(long)
	if len(got) != SnippetLength+len("...") {
		t.Errorf("expected %d chars, got %d", SnippetLength+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated snippet must end with ellipsis")
	}
}

func TestSnippet_MultiByte(t *testing.T) {
	// 3-byte runes; SnippetLength is not a multiple of 3, so a byte cut
	// would land mid-rune.
	long := strings.Repeat("界", SnippetLength)
	got := Snippet(long)

	if !utf8.ValidString(got) {
		t.Fatalf("snippet is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated snippet must end with ellipsis")
	}
	if len(got) > SnippetLength+len("...") {
		t.Errorf("snippet too long: %d bytes", len(got))
	}
}
