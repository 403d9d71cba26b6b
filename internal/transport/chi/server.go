// Package chi implements the HTTP API over the recommendation engine
// and speaker catalog.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/speakerdex/internal/domain"
	"github.com/kailas-cloud/speakerdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/speakerdex/internal/usecase/health"
	"github.com/kailas-cloud/speakerdex/internal/version"
)

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeNotReady         = "engine_not_ready"
	codeEmptyQuery       = "empty_query"
	codeSpeakerNotFound  = "speaker_not_found"
	codeEmbeddingError   = "embedding_provider_error"
	codeInternalError    = "internal_error"
	codeValidationFailed = "validation_failed"
)

// Recommender serves recommendation queries.
type Recommender interface {
	Recommend(ctx context.Context, query domain.Query) ([]domain.Recommendation, error)
}

// Catalog serves speaker directory lookups.
type Catalog interface {
	All() []domain.SpeakerRecord
	ByName(name string) (domain.SpeakerRecord, error)
	SearchKeyword(keyword string) []domain.SpeakerRecord
	Stats() catalog.Stats
}

// Health aggregates component health checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the recommendation HTTP API.
type Server struct {
	recommender   Recommender
	catalog       Catalog
	health        Health
	maxTopK       int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxTopK caps the per-request
// result count; non-positive disables the cap.
func NewServer(
	recommender Recommender,
	cat Catalog,
	health Health,
	maxTopK int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		catalog:     cat,
		health:      health,
		maxTopK:     maxTopK,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, codeNotReady),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrSpeakerNotFound, http.StatusNotFound, codeSpeakerNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
	}
	return s
}

// Mount registers all API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Post("/recommend", s.handleRecommend)
	r.Get("/speakers", s.handleListSpeakers)
	r.Get("/speakers/search", s.handleSearchSpeakers)
	r.Get("/speakers/{name}", s.handleGetSpeaker)
	r.Get("/stats", s.handleStats)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// --- DTOs ---

type recommendRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type speakerResponse struct {
	Name               string  `json:"name"`
	Title              string  `json:"title,omitempty"`
	Company            string  `json:"company,omitempty"`
	SessionTitle       string  `json:"session_title,omitempty"`
	SessionDescription string  `json:"session_description,omitempty"`
	SpeakingTime       string  `json:"speaking_time,omitempty"`
	Location           string  `json:"location,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
	RelevanceScore     float64 `json:"relevance_score"`
	Explanation        string  `json:"explanation,omitempty"`
	Rank               int     `json:"rank,omitempty"`
}

type recommendResponse struct {
	Query            string            `json:"query"`
	Recommendations  []speakerResponse `json:"recommendations"`
	TotalFound       int               `json:"total_found"`
	ProcessingTimeMs float64           `json:"processing_time_ms"`
}

type speakerListResponse struct {
	Speakers []speakerResponse `json:"speakers"`
	Total    int               `json:"total"`
}

type healthResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	TotalSpeakers int               `json:"total_speakers"`
	Version       string            `json:"version"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:        string(report.Status),
		Checks:        checks,
		TotalSpeakers: s.catalog.Stats().TotalSpeakers,
		Version:       version.Version,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must not be negative")
		return
	}
	topK := req.TopK
	if s.maxTopK > 0 && topK > s.maxTopK {
		topK = s.maxTopK
	}

	start := time.Now()
	recs, err := s.recommender.Recommend(r.Context(), domain.Query{Text: req.Query, TopK: topK})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]speakerResponse, len(recs))
	for i, rec := range recs {
		items[i] = recommendationToResponse(rec)
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Query:            req.Query,
		Recommendations:  items,
		TotalFound:       len(items),
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) handleListSpeakers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, speakerListResponse{
		Speakers: recordsToResponses(s.catalog.All()),
		Total:    s.catalog.Stats().TotalSpeakers,
	})
}

func (s *Server) handleSearchSpeakers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "keyword query parameter is required")
		return
	}

	matches := s.catalog.SearchKeyword(keyword)
	writeJSON(w, http.StatusOK, speakerListResponse{
		Speakers: recordsToResponses(matches),
		Total:    len(matches),
	})
}

func (s *Server) handleGetSpeaker(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rec, err := s.catalog.ByName(name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Stats())
}

// --- Conversions ---

func recordToResponse(rec domain.SpeakerRecord) speakerResponse {
	return speakerResponse{
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

func recordsToResponses(recs []domain.SpeakerRecord) []speakerResponse {
	out := make([]speakerResponse, len(recs))
	for i, rec := range recs {
		out[i] = recordToResponse(rec)
	}
	return out
}

func recommendationToResponse(rec domain.Recommendation) speakerResponse {
	resp := recordToResponse(rec.Speaker)
	resp.RelevanceScore = rec.Score
	resp.Explanation = rec.Explanation
	resp.Rank = rec.Rank
	return resp
}

// --- Error handling ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotReady,
		domain.ErrEmptyQuery,
		domain.ErrSpeakerNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
