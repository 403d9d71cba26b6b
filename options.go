package speakerdex

import "go.uber.org/zap"

type clientConfig struct {
	embedder    Embedder
	apiKey      string
	baseURL     string
	model       string
	dimensions  int
	datasetPath string
	records     []Speaker
	logger      *zap.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithEmbedder supplies a custom embedding provider. Takes precedence
// over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithOpenAI configures an OpenAI-compatible embedding provider.
// baseURL may be empty for the OpenAI default.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.apiKey = apiKey
		c.baseURL = baseURL
		c.model = model
	}
}

// WithDimensions requests a specific embedding dimensionality from the
// provider (for models that support truncation).
func WithDimensions(d int) Option {
	return func(c *clientConfig) { c.dimensions = d }
}

// WithDatasetPath loads speakers from a JSON dataset file during Build.
func WithDatasetPath(path string) Option {
	return func(c *clientConfig) { c.datasetPath = path }
}

// WithRecords supplies speakers directly. Takes precedence over
// WithDatasetPath.
func WithRecords(records []Speaker) Option {
	return func(c *clientConfig) { c.records = records }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}
