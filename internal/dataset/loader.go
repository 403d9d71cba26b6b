// Package dataset loads the scraped speaker dataset from disk.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// file is the on-disk shape the scraper writes.
type file struct {
	Speakers []domain.SpeakerRecord `json:"speakers"`
}

// Load reads speaker records from a JSON dataset file, preserving file
// order. Records without a name cannot be indexed or looked up, so they
// are skipped with a warning rather than failing the load. Duplicate
// names are kept here; the engine resolves them at index build time.
func Load(path string, logger *zap.Logger) ([]domain.SpeakerRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	records := make([]domain.SpeakerRecord, 0, len(f.Speakers))
	for i, rec := range f.Speakers {
		if strings.TrimSpace(rec.Name) == "" {
			logger.Warn("Skipping speaker record without a name",
				zap.Int("position", i),
				zap.String("title", rec.Title),
				zap.String("company", rec.Company),
			)
			continue
		}
		records = append(records, rec)
	}

	logger.Info("Loaded speaker dataset",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Int("skipped", len(f.Speakers)-len(records)),
	)
	return records, nil
}
