package domain

import "unicode/utf8"

// Message roles used for prompting
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryWindow is the number of trailing history entries (2 user/assistant
// exchanges) included when prompting, regardless of total history length.
const HistoryWindow = 4

// SnippetLength is the number of leading characters of a chunk kept as the
// content snippet of a Source.
const SnippetLength = 200

// ThinkingMarker is emitted as the first event of every chat stream, before
// any model output exists, so consumers get the sources early.
const ThinkingMarker = "<think>Analyzing the context and formulating a response...</think>\n"

// ErrorResponse is the fixed in-band message of a chat ERROR event.
const ErrorResponse = "I apologize, but I encountered an error while processing your request."

// SystemPrompt is the fixed instruction prepended to every generation prompt.
const SystemPrompt = `You are a helpful AI assistant that answers questions based on the provided context.
Always provide detailed, accurate responses and cite your sources when possible.
When you're thinking or analyzing, start your response with '<think>' and end with '</think>' before providing your final answer.`

// PromptMessage is one entry of a generation prompt
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source attributes part of a generated answer to an indexed chunk
type Source struct {
	DocumentName   string `json:"document_name"`
	PageNumber     int    `json:"page_number"`
	ContentSnippet string `json:"content_snippet"`
}

// ChatTurn is one completed user-question/assistant-answer exchange.
// Append-only; once persisted it is never rewritten.
type ChatTurn struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources,omitempty"`
	ConversationID string   `json:"conversation_id"`
	UserMessage    string   `json:"user_message"`
}

// ChatEvent is one element of a chat stream. Response carries the full
// accumulated text so far, never just the delta.
type ChatEvent struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources"`
	ConversationID string   `json:"conversation_id"`
	UserMessage    string   `json:"user_message"`
}

// Conversation is the in-memory state of one conversation id. History holds
// the (role, content) turns used for prompting; Messages holds the completed
// turns. Both grow by exactly one turn per completed chat call.
type Conversation struct {
	ID       string          `json:"id"`
	History  []PromptMessage `json:"history"`
	Messages []ChatTurn      `json:"messages"`
}

// ConversationRecord is the durable form of a conversation, excluding any
// live index handle.
type ConversationRecord struct {
	ID       string          `json:"id"`
	History  []PromptMessage `json:"history"`
	Messages []ChatTurn      `json:"messages"`
}

// Record returns the durable form of the conversation. Slices are copied so
// the record stays stable while the conversation keeps mutating.
func (c *Conversation) Record() *ConversationRecord {
	rec := &ConversationRecord{
		ID:       c.ID,
		History:  make([]PromptMessage, len(c.History)),
		Messages: make([]ChatTurn, len(c.Messages)),
	}
	copy(rec.History, c.History)
	copy(rec.Messages, c.Messages)
	return rec
}

// RecentHistory returns up to the last HistoryWindow prompting entries in
// chronological order.
func (c *Conversation) RecentHistory() []PromptMessage {
	if len(c.History) <= HistoryWindow {
		return c.History
	}
	return c.History[len(c.History)-HistoryWindow:]
}

// Snippet truncates chunk text to the fixed source snippet length. The cut
// backs up to a rune boundary so multi-byte text stays valid UTF-8.
func Snippet(text string) string {
	if len(text) <= SnippetLength {
		return text
	}
	cut := SnippetLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
