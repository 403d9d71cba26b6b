package recommend

import (
	"context"

	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// QueryEmbedder vectorizes query text.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// DocumentEmbedder vectorizes speaker documents in bulk at build time.
type DocumentEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Explainer produces a human-readable relevance explanation for one
// query/speaker pair. Must be deterministic.
type Explainer interface {
	Explain(queryText string, rec domain.SpeakerRecord, score float64) string
}
