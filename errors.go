package speakerdex

import "github.com/kailas-cloud/speakerdex/internal/domain"

// Sentinel errors returned by the Client. Match with errors.Is.
var (
	ErrNotReady               = domain.ErrNotReady
	ErrEmptyQuery             = domain.ErrEmptyQuery
	ErrDuplicateSpeaker       = domain.ErrDuplicateSpeaker
	ErrSpeakerNotFound        = domain.ErrSpeakerNotFound
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrConfiguration          = domain.ErrConfiguration
)
