// Package index implements the in-memory vector index over speaker
// embeddings.
//
// Retrieval is a brute-force cosine scan. Catalogs are tens to low
// hundreds of records, and a linear scan keeps identical queries
// returning identical top-k sets; approximate nearest-neighbor
// structures give no such guarantee and buy nothing at this scale.
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// Entry is one speaker submitted for indexing.
type Entry struct {
	SpeakerID string
	Vector    []float32
	Record    domain.SpeakerRecord
}

// Match is a single nearest-neighbor hit.
type Match struct {
	SpeakerID string
	Record    domain.SpeakerRecord
	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}

// indexed is an Entry with its vector L2-normalized once at build time,
// so Search reduces to dot products.
type indexed struct {
	id     string
	vec    []float32
	record domain.SpeakerRecord
}

// Index holds one vector per speaker plus the record back-reference.
// Build replaces the whole collection; entries are never updated in
// place. Search runs against an immutable snapshot, so concurrent
// searches need no coordination beyond the read lock taken here.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries []indexed
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Build replaces the index contents with the given entries. The swap is
// atomic from the caller's perspective: on any error the previous
// contents remain searchable. Entries must share one vector
// dimensionality and carry unique speaker IDs; duplicates are expected
// to be resolved upstream (keep-first) before indexing.
func (ix *Index) Build(entries []Entry) error {
	staged := make([]indexed, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	dim := 0

	for i, e := range entries {
		if e.SpeakerID == "" {
			return fmt.Errorf("entry %d: empty speaker id", i)
		}
		if _, dup := seen[e.SpeakerID]; dup {
			return fmt.Errorf("entry %d (%q): %w", i, e.SpeakerID, domain.ErrDuplicateSpeaker)
		}
		if len(e.Vector) == 0 {
			return fmt.Errorf("entry %d (%q): empty vector: %w", i, e.SpeakerID, domain.ErrVectorDimMismatch)
		}
		if dim == 0 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return fmt.Errorf("entry %d (%q): vector has %d dimensions, expected %d: %w",
				i, e.SpeakerID, len(e.Vector), dim, domain.ErrVectorDimMismatch)
		}
		seen[e.SpeakerID] = struct{}{}
		staged = append(staged, indexed{id: e.SpeakerID, vec: normalize(e.Vector), record: e.Record})
	}

	ix.mu.Lock()
	ix.dim = dim
	ix.entries = staged
	ix.mu.Unlock()
	return nil
}

// Search returns at most topK entries ordered by descending cosine
// similarity. Ties keep insertion order, so identical inputs always
// produce identical output. topK beyond the index size returns every
// entry; an empty index returns no matches.
func (ix *Index) Search(vector []float32, topK int) ([]Match, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d: %w",
			len(vector), ix.dim, domain.ErrVectorDimMismatch)
	}

	q := normalize(vector)
	scores := make([]float64, len(ix.entries))
	order := make([]int, len(ix.entries))
	for i := range ix.entries {
		scores[i] = dot(ix.entries[i].vec, q)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	matches := make([]Match, topK)
	for i := 0; i < topK; i++ {
		e := ix.entries[order[i]]
		matches[i] = Match{SpeakerID: e.id, Record: e.record, Similarity: scores[order[i]]}
	}
	return matches, nil
}

// Len reports the number of indexed speakers.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// normalize returns the L2-normalized copy of v. Embedding magnitude
// carries no meaning for these models; only direction does. A zero
// vector is returned as-is so it simply scores zero against everything.
func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
