package domain

// SpeakerRecord is one conference speaker as produced by the scraper.
// Name is the unique lookup key; records are immutable once loaded.
type SpeakerRecord struct {
	Name               string `json:"name"`
	Title              string `json:"title,omitempty"`
	Company            string `json:"company,omitempty"`
	SessionTitle       string `json:"session_title,omitempty"`
	SessionDescription string `json:"session_description,omitempty"`
	SpeakingTime       string `json:"speaking_time,omitempty"`
	Location           string `json:"location,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
	// ExtractionMethod records which scraper path produced the record.
	// Informational only; never embedded or matched against.
	ExtractionMethod string `json:"extraction_method,omitempty"`
}
