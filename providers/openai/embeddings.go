// Package openai - embeddings
package openai

import (
	"context"
	"encoding/json"

	"github.com/modelgate/modelgate/llm"
)

// DefaultEmbeddingModel is used when the configured model is not an
// embedding model.
const DefaultEmbeddingModel = "text-embedding-3-small"

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed produces one embedding vector.
func (c *Compat) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch produces embedding vectors in input order.
func (c *Compat) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, &llm.InvalidRequestError{Message: "no texts to embed"}
	}
	model := c.cfg.Model
	if !isEmbeddingModel(model) {
		model = DefaultEmbeddingModel
	}
	body, err := json.Marshal(embeddingsRequest{Model: model, Input: texts})
	if err != nil {
		return nil, &llm.GenericError{Message: "marshal embeddings request: " + err.Error()}
	}
	raw, err := c.sink.PostJSON(ctx, "/embeddings", body)
	if err != nil {
		return nil, err
	}
	var resp embeddingsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &llm.ResponseFormatError{Message: "malformed embeddings response", Raw: string(raw)}
	}
	if len(resp.Data) != len(texts) {
		return nil, &llm.ResponseFormatError{Message: "embeddings response count mismatch", Raw: string(raw)}
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, &llm.ResponseFormatError{Message: "embeddings response index out of range", Raw: string(raw)}
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func isEmbeddingModel(model string) bool {
	switch model {
	case "text-embedding-3-small", "text-embedding-3-large", "text-embedding-ada-002":
		return true
	}
	return false
}
