package embed

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/ratelimit"
)

const defaultBatchSize = 32

// OpenAIEmbedder computes embeddings through the OpenAI embeddings API,
// batching requests and rate-limiting calls.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int
	limiter   *ratelimit.Limiter
	timeout   time.Duration
}

// NewOpenAIEmbedder creates an embedder from configuration.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	m := cfg.Model
	if m == "" {
		m = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     openai.EmbeddingModel(m),
		batchSize: batch,
		limiter:   ratelimit.NewLimiter(rps, burst),
		timeout:   cfg.Timeout,
	}
}

// Embed returns one vector per text, in input order. Batches are sized to
// the configured limit and each API call waits on the rate limiter.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx, string(e.model)); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", model.ErrEmbedding, err)
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEmbedding, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", model.ErrEmbedding, len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", model.ErrEmbedding, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
