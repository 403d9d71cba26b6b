// Package catalog serves read-only speaker directory lookups over the
// loaded dataset. Unlike recommendations these never touch the
// embedding provider.
package catalog

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/speakerdex/internal/document"
	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// Stats summarizes the loaded speaker catalog.
type Stats struct {
	TotalSpeakers           int      `json:"total_speakers"`
	WithSessionDescriptions int      `json:"with_session_descriptions"`
	UniqueCompanies         int      `json:"unique_companies"`
	Companies               []string `json:"companies"`
}

// Service holds the immutable speaker catalog.
type Service struct {
	records []domain.SpeakerRecord
	// profiles[i] is the lowercase profile text of records[i], built
	// once so keyword search stays allocation-free per request.
	profiles []string
}

// New creates a catalog over the given records. The slice is not
// copied; callers must not mutate it afterwards.
func New(records []domain.SpeakerRecord) *Service {
	profiles := make([]string, len(records))
	for i, rec := range records {
		profiles[i] = strings.ToLower(document.Build(rec).Text)
	}
	return &Service{records: records, profiles: profiles}
}

// All returns every speaker in dataset order.
func (s *Service) All() []domain.SpeakerRecord {
	out := make([]domain.SpeakerRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ByName returns the speaker with the given name, compared
// case-insensitively.
func (s *Service) ByName(name string) (domain.SpeakerRecord, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range s.records {
		if strings.ToLower(rec.Name) == want {
			return rec, nil
		}
	}
	return domain.SpeakerRecord{}, domain.ErrSpeakerNotFound
}

// SearchKeyword returns speakers whose profile text contains the
// keyword, compared case-insensitively, in dataset order.
func (s *Service) SearchKeyword(keyword string) []domain.SpeakerRecord {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return nil
	}

	var out []domain.SpeakerRecord
	for i, profile := range s.profiles {
		if strings.Contains(profile, needle) {
			out = append(out, s.records[i])
		}
	}
	return out
}

// Stats computes catalog summary statistics. Companies are unique,
// sorted, and exclude blank values.
func (s *Service) Stats() Stats {
	companies := make(map[string]struct{})
	withDesc := 0
	for _, rec := range s.records {
		if strings.TrimSpace(rec.SessionDescription) != "" {
			withDesc++
		}
		if c := strings.TrimSpace(rec.Company); c != "" {
			companies[c] = struct{}{}
		}
	}

	names := make([]string, 0, len(companies))
	for c := range companies {
		names = append(names, c)
	}
	sort.Strings(names)

	return Stats{
		TotalSpeakers:           len(s.records),
		WithSessionDescriptions: withDesc,
		UniqueCompanies:         len(names),
		Companies:               names,
	}
}
