package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNewOllamaEmbedding_Defaults(t *testing.T) {
	svc, err := NewOllamaEmbedding("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Model() != "nomic-embed-text" {
		t.Errorf("expected default model nomic-embed-text, got %s", svc.Model())
	}
}

func TestOllamaEmbedding_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("expected /api/embed, got %s", r.URL.Path)
		}

		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected 2 inputs, got %d", len(req.Input))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embeddings, err := svc.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}

	// dimensions are discovered from the first response
	if svc.Dimensions() != 3 {
		t.Errorf("expected dimensions 3 after embedding, got %d", svc.Dimensions())
	}
}

func TestOllamaEmbedding_ConcurrentDimensions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ingest embeds while chat reads the dimension; both must be safe
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := svc.Embed(context.Background(), []string{"text"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if d := svc.Dimensions(); d != 0 && d != 3 {
				t.Errorf("unexpected dimensions %d", d)
			}
		}()
	}
	wg.Wait()

	if svc.Dimensions() != 3 {
		t.Errorf("expected dimensions 3 after embedding, got %d", svc.Dimensions())
	}
}

func TestOllamaEmbedding_Embed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1}},
		})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Embed(context.Background(), []string{"one", "two"}); err == nil {
		t.Error("expected error on embedding count mismatch")
	}
}

func TestNewOllamaLLM_Defaults(t *testing.T) {
	svc, err := NewOllamaLLM("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.Model() != "llama3.2" {
		t.Errorf("expected default model llama3.2, got %s", svc.Model())
	}
}

func TestOllamaLLM_StreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected /api/chat, got %s", r.URL.Path)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true")
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, content := range []string{"The", " answer"} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", content)
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":""},"done":true}`+"\n")
	}))
	defer server.Close()

	svc, err := NewOllamaLLM(server.URL, "llama3.2")
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

	if strings.Join(got, "") != "The answer" {
		t.Errorf("unexpected deltas: %v", got)
	}
}

func TestOllamaLLM_StreamChat_ModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"model not found"}`+"\n")
	}))
	defer server.Close()

	svc, err := NewOllamaLLM(server.URL, "missing-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = svc.StreamChat(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	}, func(delta string) error { return nil })
	if err == nil {
		t.Error("expected a model error")
	}
}

func TestOllamaLLM_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}

		fmt.Fprint(w, `{"message":{"role":"assistant","content":"done deal"},"done":true}`+"\n")
	}))
	defer server.Close()

	svc, err := NewOllamaLLM(server.URL, "llama3.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Complete(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "done deal" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestOllamaLLM_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer server.Close()

	svc, err := NewOllamaLLM(server.URL, "llama3.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
