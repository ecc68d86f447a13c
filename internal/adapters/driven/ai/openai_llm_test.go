package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNewOpenAILLM_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAILLM("", "gpt-4o-mini", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAILLM_Defaults(t *testing.T) {
	svc, err := NewOpenAILLM("sk-test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Model() != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", svc.Model())
	}
}

func sseServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true")
		}
		if req.Temperature != ChatTemperature {
			t.Errorf("expected temperature %v, got %v", ChatTemperature, req.Temperature)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range deltas {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestOpenAILLM_StreamChat(t *testing.T) {
	server := sseServer(t, []string{"Hello", ", ", "world"})
	defer server.Close()

	svc, err := NewOpenAILLM("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	err = svc.StreamChat(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(got, "") != "Hello, world" {
		t.Errorf("unexpected deltas: %v", got)
	}
}

func TestOpenAILLM_StreamChat_HandlerError(t *testing.T) {
	server := sseServer(t, []string{"a", "b", "c"})
	defer server.Close()

	svc, err := NewOpenAILLM("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantErr := errors.New("stop")
	calls := 0
	err = svc.StreamChat(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, func(delta string) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected handler error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected streaming to stop after handler error, got %d calls", calls)
	}
}

func TestOpenAILLM_StreamChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	svc, err := NewOpenAILLM("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.StreamChat(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, func(delta string) error { return nil })
	if err == nil {
		t.Error("expected an API error")
	}
}

func TestOpenAILLM_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "a full answer"}},
			},
		})
	}))
	defer server.Close()

	svc, err := NewOpenAILLM("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Complete(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "a full answer" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestOpenAILLM_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("expected /models, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"object":"list","data":[]}`)
	}))
	defer server.Close()

	svc, err := NewOpenAILLM("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
