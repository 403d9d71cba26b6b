package health

import "context"

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// EngineReadiness reports whether the recommendation engine is built.
type EngineReadiness interface {
	Ready() bool
}
