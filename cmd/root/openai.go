package root

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sysid/bkmr/pkg/embedding"
)

const (
	defaultEmbeddingModel = "text-embedding-3-small"
	embeddingsEndpoint    = "https://api.openai.com/v1/embeddings"
)

// NewOpenAIEmbedder builds a remote embedder: bkmr depends only on the
// embedding.Embedder capability, not on any particular model or transport.
// This is a minimal REST adapter rather than a vendored SDK (see
// DESIGN.md).
func NewOpenAIEmbedder() embedding.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	client := &http.Client{Timeout: 30 * time.Second}
	return &embedding.RemoteEmbedder{Fn: func(ctx context.Context, text string) ([]float32, error) {
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set; required for --openai")
		}
		return fetchEmbedding(ctx, client, apiKey, text)
	}}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func fetchEmbedding(ctx context.Context, client *http.Client, apiKey, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: defaultEmbeddingModel, Input: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, embeddingsEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, msg)
	}

	var out embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no data")
	}
	return out.Data[0].Embedding, nil
}
