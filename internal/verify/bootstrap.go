package verify

import (
	"fmt"
	"log/slog"

	"github.com/ksenkov/verdikt/internal/cache"
	"github.com/ksenkov/verdikt/internal/confidence"
	"github.com/ksenkov/verdikt/internal/domain"
	"github.com/ksenkov/verdikt/internal/embed"
	"github.com/ksenkov/verdikt/internal/lang"
	"github.com/ksenkov/verdikt/internal/llm"
	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/semantic"
	"github.com/ksenkov/verdikt/internal/sentence"
	"github.com/ksenkov/verdikt/internal/store"
)

// Runtime is a fully wired service plus the resources it owns.
type Runtime struct {
	Service *Service
	store   store.Store
}

// NewRuntime assembles a service from configuration.
func NewRuntime(cfg *model.Config, logger *slog.Logger) (*Runtime, error) {
	seg, err := lang.New("de")
	if err != nil {
		return nil, fmt.Errorf("build segmenter: %w", err)
	}
	dom, err := domain.New(cfg.Domain.Preset)
	if err != nil {
		return nil, fmt.Errorf("build domain: %w", err)
	}
	processor := sentence.NewProcessor(seg, dom)

	embedder, err := embed.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("build embedder: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.DiskDir != "" {
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.MaxEntries, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL, cfg.Cache.MaxEntries)
		}
	}
	matcher := semantic.NewMatcher(embedder, c, cfg.Verification.TopK)

	engine, err := confidence.NewEngine(confidence.DefaultWeights(), cfg.Verification.MinSentenceLength)
	if err != nil {
		return nil, fmt.Errorf("build confidence engine: %w", err)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := New(cfg.Verification, processor, matcher, engine, st, st, logger, cfg.Concurrency.SentenceWorkers)

	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("build summarizer: %w", err)
	}
	summarizer.SetCitationExtractor(dom.ExtractCitations)
	svc.SetSummarizer(summarizer)

	return &Runtime{Service: svc, store: st}, nil
}

// Results exposes the audit trail for read-only commands.
func (r *Runtime) Results() store.ResultStore {
	return r.store
}

// Close releases the runtime's resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
