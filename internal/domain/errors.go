package domain

import "errors"

var (
	// ErrNotReady signals a recommendation request against an engine
	// that has not been built yet. Distinct from an empty result set.
	ErrNotReady = errors.New("engine not ready")
	// ErrEmptyQuery signals blank or whitespace-only query text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrDuplicateSpeaker signals two index entries sharing a name.
	ErrDuplicateSpeaker = errors.New("duplicate speaker")
	// ErrSpeakerNotFound signals a missing speaker in the catalog.
	ErrSpeakerNotFound = errors.New("speaker not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrConfiguration signals an unusable embedding configuration.
	// Fatal at startup: the engine must not reach Ready with it.
	ErrConfiguration = errors.New("invalid configuration")
)
