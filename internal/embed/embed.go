// Package embed provides the embedding capability behind semantic matching.
package embed

import (
	"context"
	"fmt"

	"github.com/ksenkov/verdikt/internal/model"
)

// Embedder computes embedding vectors for a batch of texts. Implementations
// must return one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// New builds the configured embedder.
func New(cfg model.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
