// Package recommend orchestrates the recommendation pipeline: speaker
// documents are embedded and indexed once at build time, then each
// query is embedded, matched against the index, and explained.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/speakerdex/internal/document"
	"github.com/kailas-cloud/speakerdex/internal/domain"
	"github.com/kailas-cloud/speakerdex/internal/index"
	"github.com/kailas-cloud/speakerdex/internal/metrics"
)

// Service is the recommendation engine. A zero engine is not ready;
// Build must succeed before Recommend serves queries.
type Service struct {
	docEmbed   DocumentEmbedder
	queryEmbed QueryEmbedder
	explainer  Explainer
	logger     *zap.Logger

	mu    sync.RWMutex
	idx   *index.Index
	ready bool
}

// New creates a recommendation engine.
func New(
	docEmbed DocumentEmbedder,
	queryEmbed QueryEmbedder,
	explainer Explainer,
	logger *zap.Logger,
) *Service {
	return &Service{
		docEmbed:   docEmbed,
		queryEmbed: queryEmbed,
		explainer:  explainer,
		logger:     logger,
		idx:        index.New(),
	}
}

// Build embeds every speaker document and replaces the index contents.
// Records sharing a name are deduplicated keep-first with a warning.
// On any error the previous index, if any, stays live and the ready
// flag is unchanged.
func (s *Service) Build(ctx context.Context, records []domain.SpeakerRecord) error {
	deduped := dedupe(records, s.logger)
	if len(deduped) == 0 {
		return fmt.Errorf("build: no usable speaker records")
	}

	docs := make([]document.Document, len(deduped))
	texts := make([]string, len(deduped))
	for i, rec := range deduped {
		docs[i] = document.Build(rec)
		texts[i] = docs[i].Text
	}

	start := time.Now()
	res, err := s.docEmbed.BatchEmbed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed speaker documents: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return fmt.Errorf("embed speaker documents: got %d embeddings for %d documents",
			len(res.Embeddings), len(texts))
	}

	entries := make([]index.Entry, len(deduped))
	for i, rec := range deduped {
		entries[i] = index.Entry{
			SpeakerID: docs[i].SpeakerID,
			Vector:    res.Embeddings[i],
			Record:    rec,
		}
	}

	staged := index.New()
	if err := staged.Build(entries); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	s.mu.Lock()
	s.idx = staged
	s.ready = true
	s.mu.Unlock()

	metrics.IndexedSpeakers.Set(float64(staged.Len()))

	s.logger.Info("Recommendation index built",
		zap.Int("speakers", staged.Len()),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Recommend returns the top-k speakers for a query, ranked by
// descending relevance. Identical queries against an unchanged index
// produce identical results.
func (s *Service) Recommend(ctx context.Context, query domain.Query) ([]domain.Recommendation, error) {
	start := time.Now()

	recs, err := s.recommend(ctx, query)

	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RecommendationsTotal.WithLabelValues("success").Inc()
	return recs, nil
}

func (s *Service) recommend(ctx context.Context, query domain.Query) ([]domain.Recommendation, error) {
	s.mu.RLock()
	idx, ready := s.idx, s.ready
	s.mu.RUnlock()

	if !ready {
		return nil, domain.ErrNotReady
	}
	if strings.TrimSpace(query.Text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	topK := query.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	embRes, err := s.queryEmbed.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := idx.Search(embRes.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	recs := make([]domain.Recommendation, len(matches))
	for i, m := range matches {
		score := scaleScore(m.Similarity)
		recs[i] = domain.Recommendation{
			Speaker:     m.Record,
			Score:       score,
			Explanation: s.explainer.Explain(query.Text, m.Record, score),
			Rank:        i + 1,
		}
	}

	s.logger.Debug("Recommendation query served",
		zap.Int("top_k", topK),
		zap.Int("results", len(recs)),
		zap.Int("query_tokens", embRes.TotalTokens),
	)
	return recs, nil
}

// Ready reports whether Build has completed successfully.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Len reports the number of indexed speakers.
func (s *Service) Len() int {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	return idx.Len()
}

// scaleScore maps cosine similarity from [-1, 1] to a relevance score
// in [0, 1], preserving order. Floating-point drift is clamped at the
// boundaries.
func scaleScore(cos float64) float64 {
	score := (cos + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// dedupe drops records whose name repeats an earlier one (keep-first).
// Records with blank names never reach the engine; the dataset loader
// filters them out.
func dedupe(records []domain.SpeakerRecord, logger *zap.Logger) []domain.SpeakerRecord {
	out := make([]domain.SpeakerRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.Name]; dup {
			logger.Warn("Duplicate speaker record dropped", zap.String("name", rec.Name))
			continue
		}
		seen[rec.Name] = struct{}{}
		out = append(out, rec)
	}
	return out
}
