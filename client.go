package speakerdex

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/speakerdex/internal/dataset"
	"github.com/kailas-cloud/speakerdex/internal/domain"
	"github.com/kailas-cloud/speakerdex/internal/explain"
	openaiEmb "github.com/kailas-cloud/speakerdex/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/speakerdex/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/speakerdex/internal/usecase/recommend"
)

// Speaker is one conference speaker profile.
type Speaker struct {
	Name               string `json:"name"`
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	SessionTitle       string `json:"session_title,omitempty"`
	SessionDescription string `json:"session_description,omitempty"`
	SpeakingTime       string `json:"speaking_time,omitempty"`
	Location           string `json:"location,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
}

// Recommendation is one ranked speaker match for a query.
type Recommendation struct {
	Speaker     Speaker
	Score       float64
	Explanation string
	Rank        int
}

// Stats summarizes the loaded speaker catalog.
type Stats = cataloguc.Stats

// EmbeddingResult carries an embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Implementations must be deterministic:
// identical text yields an identical vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Client is the speakerdex library entry point.
type Client struct {
	cfg     *clientConfig
	engine  *recommenduc.Service
	catalog *cataloguc.Service
	logger  *zap.Logger
}

// New creates a Client. An embedding provider (WithEmbedder or
// WithOpenAI) and a speaker source (WithRecords or WithDatasetPath)
// are required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.embedder == nil && cfg.apiKey == "" {
		return nil, fmt.Errorf(
			"speakerdex: embedding provider required (use WithEmbedder or WithOpenAI): %w",
			ErrConfiguration)
	}
	if len(cfg.records) == 0 && cfg.datasetPath == "" {
		return nil, fmt.Errorf(
			"speakerdex: speaker source required (use WithRecords or WithDatasetPath): %w",
			ErrConfiguration)
	}

	domEmb, err := buildDomainEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	engine := recommenduc.New(
		batchAdapter{inner: domEmb},
		domEmb,
		explain.New(),
		cfg.logger,
	)

	return &Client{cfg: cfg, engine: engine, logger: cfg.logger}, nil
}

// Build loads the speaker records, embeds their profile documents, and
// builds the in-memory index. Must succeed before Recommend.
func (c *Client) Build(ctx context.Context) error {
	records, err := c.loadRecords()
	if err != nil {
		return err
	}

	if err := c.engine.Build(ctx, records); err != nil {
		return fmt.Errorf("speakerdex: build index: %w", err)
	}

	c.catalog = cataloguc.New(records)
	return nil
}

// Recommend returns the top-k speakers for a free-text query, ranked
// by descending relevance. topK <= 0 falls back to the default of 5.
func (c *Client) Recommend(ctx context.Context, query string, topK int) ([]Recommendation, error) {
	recs, err := c.engine.Recommend(ctx, domain.Query{Text: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("speakerdex: recommend: %w", err)
	}

	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{
			Speaker:     speakerFromDomain(r.Speaker),
			Score:       r.Score,
			Explanation: r.Explanation,
			Rank:        r.Rank,
		}
	}
	return out, nil
}

// Ready reports whether Build has completed successfully.
func (c *Client) Ready() bool {
	return c.engine.Ready()
}

// Speakers returns every loaded speaker in dataset order.
func (c *Client) Speakers() ([]Speaker, error) {
	if c.catalog == nil {
		return nil, ErrNotReady
	}
	records := c.catalog.All()
	out := make([]Speaker, len(records))
	for i, rec := range records {
		out[i] = speakerFromDomain(rec)
	}
	return out, nil
}

// SpeakerByName returns the speaker with the given name, compared
// case-insensitively.
func (c *Client) SpeakerByName(name string) (Speaker, error) {
	if c.catalog == nil {
		return Speaker{}, ErrNotReady
	}
	rec, err := c.catalog.ByName(name)
	if err != nil {
		return Speaker{}, err
	}
	return speakerFromDomain(rec), nil
}

// SearchSpeakers returns speakers whose profile text contains the
// keyword, compared case-insensitively.
func (c *Client) SearchSpeakers(keyword string) ([]Speaker, error) {
	if c.catalog == nil {
		return nil, ErrNotReady
	}
	records := c.catalog.SearchKeyword(keyword)
	out := make([]Speaker, len(records))
	for i, rec := range records {
		out[i] = speakerFromDomain(rec)
	}
	return out, nil
}

// Stats returns catalog summary statistics.
func (c *Client) Stats() (Stats, error) {
	if c.catalog == nil {
		return Stats{}, ErrNotReady
	}
	return c.catalog.Stats(), nil
}

func (c *Client) loadRecords() ([]domain.SpeakerRecord, error) {
	if len(c.cfg.records) > 0 {
		records := make([]domain.SpeakerRecord, len(c.cfg.records))
		for i, s := range c.cfg.records {
			records[i] = speakerToDomain(s)
		}
		return records, nil
	}

	records, err := dataset.Load(c.cfg.datasetPath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("speakerdex: load dataset: %w", err)
	}
	return records, nil
}

func buildDomainEmbedder(cfg *clientConfig) (domain.Embedder, error) {
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}, nil
	}

	emb, err := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.model,
		Dimensions: cfg.dimensions,
		Provider:   "openai",
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("speakerdex: create embedding provider: %w", err)
	}
	return emb, nil
}

// embedderAdapter wraps the public Embedder to satisfy internal
// domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingProviderError) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
		}
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// batchAdapter exposes the batch side of an embedder, falling back to
// one-by-one embedding for providers without native batch support.
type batchAdapter struct {
	inner domain.Embedder
}

func (a batchAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, a.inner, texts)
}

func speakerFromDomain(rec domain.SpeakerRecord) Speaker {
	return Speaker{
		Name:               rec.Name,
		Title:              rec.Title,
		Company:            rec.Company,
		SessionTitle:       rec.SessionTitle,
		SessionDescription: rec.SessionDescription,
		SpeakingTime:       rec.SpeakingTime,
		Location:           rec.Location,
		ImageURL:           rec.ImageURL,
	}
}

func speakerToDomain(s Speaker) domain.SpeakerRecord {
	return domain.SpeakerRecord{
		Name:               s.Name,
		Title:              s.Title,
		Company:            s.Company,
		SessionTitle:       s.SessionTitle,
		SessionDescription: s.SessionDescription,
		SpeakingTime:       s.SpeakingTime,
		Location:           s.Location,
		ImageURL:           s.ImageURL,
	}
}
