// Package verify orchestrates segmentation, matching, scoring, fingerprint
// tracking, retries, and persistence for one answer-verification call.
package verify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ksenkov/verdikt/internal/confidence"
	"github.com/ksenkov/verdikt/internal/fingerprint"
	"github.com/ksenkov/verdikt/internal/llm"
	"github.com/ksenkov/verdikt/internal/model"
	"github.com/ksenkov/verdikt/internal/sanitize"
	"github.com/ksenkov/verdikt/internal/semantic"
	"github.com/ksenkov/verdikt/internal/sentence"
	"github.com/ksenkov/verdikt/internal/store"
)

// retryThresholdDecay shrinks the matching floor on each retry so weaker
// matches become visible to scoring.
const retryThresholdDecay = 0.9

// Service runs verifications. It is safe for concurrent use; every call
// works on its own state.
type Service struct {
	cfg       model.VerificationConfig
	processor *sentence.Processor
	matcher   *semantic.Matcher
	engine    *confidence.Engine
	tracker   *fingerprint.Tracker
	results   store.ResultStore
	history   store.HistoryStore
	logger    *slog.Logger
	workers   int

	summarizer *llm.Summarizer
}

// New wires a service from its parts. results and history may be nil to
// disable persistence; logger may be nil for silent operation.
func New(cfg model.VerificationConfig, processor *sentence.Processor, matcher *semantic.Matcher,
	engine *confidence.Engine, results store.ResultStore, history store.HistoryStore,
	logger *slog.Logger, workers int) *Service {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		cfg:       cfg,
		processor: processor,
		matcher:   matcher,
		engine:    engine,
		tracker:   fingerprint.NewTracker(historyOrNil(history)),
		results:   results,
		history:   history,
		logger:    logger,
		workers:   workers,
	}
}

// SetSummarizer attaches the optional LLM summarizer. The summary is
// presentation-only and never changes scores or labels.
func (s *Service) SetSummarizer(sum *llm.Summarizer) {
	s.summarizer = sum
}

func historyOrNil(h store.HistoryStore) fingerprint.History {
	if h == nil {
		return nil
	}
	return h
}

// VerifyAnswer verifies an answer against its sources and returns the best
// attempt. Low-confidence results are retried with a relaxed matching floor
// until confidence recovers, retries are exhausted, improvement stalls, or
// the context deadline passes.
func (s *Service) VerifyAnswer(ctx context.Context, req Request, opts Options) (*model.VerificationResult, error) {
	started := time.Now()

	// Only exactly zero means unset; out-of-range values are rejected below.
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = s.cfg.Threshold
	}
	if err := validate(req, threshold); err != nil {
		return nil, err
	}

	strict := opts.Strict || s.cfg.StrictMode
	matchSources := sanitizedSources(req.Sources)

	var best *model.VerificationResult
	prevOverall := 0.0
	attempts := 0
	for attempt := 0; ; attempt++ {
		res, err := s.verifyOnce(ctx, req.Answer, matchSources, threshold, strict)
		if err != nil {
			return nil, err
		}
		attempts++
		if best == nil || res.OverallConfidence > best.OverallConfidence {
			best = res
		}
		if res.OverallConfidence >= s.cfg.RetryThreshold {
			break
		}
		if attempt >= s.cfg.MaxRetries {
			break
		}
		if attempt > 0 && res.OverallConfidence-prevOverall <= s.cfg.MinImprovement {
			break
		}
		if deadlineExceeded(ctx) {
			break
		}
		s.logger.Debug("retrying with relaxed threshold",
			"attempt", attempt+1, "confidence", res.OverallConfidence, "threshold", threshold*retryThresholdDecay)
		prevOverall = res.OverallConfidence
		threshold *= retryThresholdDecay
		strict = false
	}

	best.VerificationID = uuid.NewString()
	best.RetryCount = attempts - 1
	best.CreatedAt = time.Now().UTC()
	best.Fingerprints = s.tracker.Track(ctx, req.Sources)
	s.recordFingerprints(ctx, best.Fingerprints)
	best.ProcessingTimeMs = float64(time.Since(started).Microseconds()) / 1000.0

	if s.summarizer != nil && s.summarizer.IsEnabled() {
		summary, err := s.summarizer.GenerateSummary(ctx, *best)
		if err != nil {
			s.logger.Warn("llm summary generation failed", "error", err)
		} else {
			best.LLM = summary
		}
	}

	if s.results != nil {
		if err := s.results.SaveResult(ctx, best); err != nil {
			// The caller still gets the result; only the audit trail is lost.
			s.logger.Warn("failed to persist verification result",
				"verification_id", best.VerificationID, "error", err)
		}
	}
	return best, nil
}

// verifyOnce is a single scoring pass at one threshold.
func (s *Service) verifyOnce(ctx context.Context, answer string, sources []model.Source, threshold float64, strict bool) (*model.VerificationResult, error) {
	floor := threshold
	if strict && floor < s.cfg.StrictFloor {
		floor = s.cfg.StrictFloor
	}

	sentences, err := s.processor.Process(answer)
	if err != nil {
		return nil, err
	}

	answerCitations := s.processor.AnswerCitations(answer)
	overallCoverage := s.engine.OverallCoverage(answerCitations, sources)

	// One batched call warms the cache for every source before the
	// per-sentence loop fans out.
	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Text
	}
	if err := s.matcher.Prewarm(ctx, texts); err != nil {
		return nil, err
	}

	results := make([]model.SentenceResult, len(sentences))
	errs := make([]error, len(sentences))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, sent := range sentences {
		wg.Add(1)
		go func(i int, sent model.Sentence) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			match, err := s.matcher.FindBestMatch(ctx, sent.Text, sources, floor)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = s.engine.ScoreSentence(sent, match, sources, overallCoverage)
		}(i, sent)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	overall := confidence.Aggregate(results)
	label := confidence.Label(overall)
	return &model.VerificationResult{
		OverallConfidence: overall,
		TrustLabel:        label,
		OverallStatus:     label.Status(),
		Sentences:         results,
	}, nil
}

// CacheStats exposes embedding-cache effectiveness for diagnostics.
func (s *Service) CacheStats() semantic.Stats {
	return s.matcher.CacheStats()
}

func (s *Service) recordFingerprints(ctx context.Context, fps []model.Fingerprint) {
	if s.history == nil {
		return
	}
	for _, fp := range fps {
		if !fp.Changed {
			continue
		}
		if err := s.history.Record(ctx, fp.SourceID, fp.Fingerprint); err != nil {
			s.logger.Warn("failed to record fingerprint",
				"source_id", fp.SourceID, "error", err)
		}
	}
}

// sanitizedSources strips markup from source texts for matching and
// citation checks. The originals keep their raw text for fingerprinting.
func sanitizedSources(sources []model.Source) []model.Source {
	out := make([]model.Source, len(sources))
	for i, s := range sources {
		out[i] = s
		out[i].Text = sanitize.Clean(s.Text)
	}
	return out
}

func deadlineExceeded(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return true
	}
	return false
}
