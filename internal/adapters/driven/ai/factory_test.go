package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestFactory_CreateEmbeddingService(t *testing.T) {
	factory := NewFactory()

	t.Run("openai", func(t *testing.T) {
		svc, err := factory.CreateEmbeddingService(EmbeddingSettings{
			Provider: ProviderOpenAI,
			APIKey:   "sk-test",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := svc.(*OpenAIEmbedding); !ok {
			t.Errorf("expected *OpenAIEmbedding, got %T", svc)
		}
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := factory.CreateEmbeddingService(EmbeddingSettings{
			Provider: ProviderOllama,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := svc.(*OllamaEmbedding); !ok {
			t.Errorf("expected *OllamaEmbedding, got %T", svc)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := factory.CreateEmbeddingService(EmbeddingSettings{Provider: "bedrock"})
		if !errors.Is(err, domain.ErrInvalidProvider) {
			t.Errorf("expected ErrInvalidProvider, got %v", err)
		}
	})
}

func TestFactory_CreateLLMService(t *testing.T) {
	factory := NewFactory()

	t.Run("openai", func(t *testing.T) {
		svc, err := factory.CreateLLMService(LLMSettings{
			Provider: ProviderOpenAI,
			APIKey:   "sk-test",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := svc.(*OpenAILLM); !ok {
			t.Errorf("expected *OpenAILLM, got %T", svc)
		}
	})

	t.Run("ollama", func(t *testing.T) {
		svc, err := factory.CreateLLMService(LLMSettings{Provider: ProviderOllama})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := svc.(*OllamaLLM); !ok {
			t.Errorf("expected *OllamaLLM, got %T", svc)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := factory.CreateLLMService(LLMSettings{Provider: ""})
		if !errors.Is(err, domain.ErrInvalidProvider) {
			t.Errorf("expected ErrInvalidProvider, got %v", err)
		}
	})
}
