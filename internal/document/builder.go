// Package document turns speaker records into normalized text blobs
// suitable for embedding.
package document

import (
	"strings"

	"github.com/kailas-cloud/speakerdex/internal/domain"
)

// Document is the embedding input derived from one speaker record.
type Document struct {
	// SpeakerID equals the record name.
	SpeakerID string
	Text      string
}

// Build renders a speaker record as a single labeled text blob.
//
// The field order is fixed: name, title, company, session title,
// speaking time, location, session description. New dataset fields must
// be appended after these so existing documents (and their embeddings)
// stay byte-stable. Empty fields are omitted entirely rather than
// rendered as bare labels, which would add noise to the embedding.
// Same record in, same text out.
func Build(rec domain.SpeakerRecord) Document {
	parts := make([]string, 0, 7)
	add := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, label+": "+v)
		}
	}

	add("Name", rec.Name)
	add("Title", rec.Title)
	add("Company", rec.Company)
	add("Session", rec.SessionTitle)
	add("Speaking Time", rec.SpeakingTime)
	add("Location", rec.Location)
	add("Session Description", rec.SessionDescription)

	return Document{
		SpeakerID: rec.Name,
		Text:      strings.Join(parts, " | "),
	}
}
