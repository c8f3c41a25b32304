package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"
)

// Vector is a float32 embedding vector.
type Vector = []float32

// Embedder generates embedding vectors from text.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
}

// CosineSimilarity computes cosine similarity between two vectors.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// wire describes one provider's request and response shapes.
type wire struct {
	path   string
	encode func(model, text string) any
	decode func(body io.Reader) (Vector, error)
}

var ollamaWire = wire{
	path: "/api/embeddings",
	encode: func(model, text string) any {
		return map[string]string{"model": model, "prompt": text}
	},
	decode: func(body io.Reader) (Vector, error) {
		var out struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(body).Decode(&out); err != nil {
			return nil, err
		}
		return out.Embedding, nil
	},
}

var openaiWire = wire{
	path: "/embeddings",
	encode: func(model, text string) any {
		return map[string]string{"model": model, "input": text}
	},
	decode: func(body io.Reader) (Vector, error) {
		var out struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.NewDecoder(body).Decode(&out); err != nil {
			return nil, err
		}
		if len(out.Data) == 0 {
			return nil, fmt.Errorf("no embedding returned")
		}
		return out.Data[0].Embedding, nil
	},
}

// HTTPEmbedder calls an embedding HTTP API (Ollama or OpenAI-compatible).
type HTTPEmbedder struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	wire    wire
	client  *http.Client
}

// NewOllamaEmbedder creates an embedder for a local Ollama instance.
// An empty baseURL falls back to $OLLAMA_HOST, then localhost.
func NewOllamaEmbedder(baseURL, model string) *HTTPEmbedder {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &HTTPEmbedder{
		name:    "ollama",
		baseURL: baseURL,
		model:   model,
		wire:    ollamaWire,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewOpenAIEmbedder creates an embedder for any OpenAI-compatible API.
func NewOpenAIEmbedder(baseURL, apiKey, model string) *HTTPEmbedder {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &HTTPEmbedder{
		name:    "openai",
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		wire:    openaiWire,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	body, err := json.Marshal(e.wire.encode(e.model, text))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+e.wire.path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", e.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s error %d: %s", e.name, resp.StatusCode, string(b))
	}
	return e.wire.decode(resp.Body)
}

// EmbedderConfig selects an embedding provider.
type EmbedderConfig struct {
	Provider string // "ollama" | "openai" | "" (disabled)
	Model    string
	URL      string
	APIKey   string
}

// NewEmbedder returns nil when the provider is empty or unknown.
func NewEmbedder(cfg EmbedderConfig) Embedder {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.URL, cfg.Model)
	case "openai":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAIEmbedder(cfg.URL, key, cfg.Model)
	default:
		return nil
	}
}
