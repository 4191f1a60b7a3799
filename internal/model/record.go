// Package model defines the entities flowing through the harvest pipeline.
package model

import "time"

// SearchHit is a single raw result from the search provider. Ephemeral,
// never persisted.
type SearchHit struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// ScoredCandidate is a search hit reduced to the two fields the selection
// engine tracks.
type ScoredCandidate struct {
	URL   string `json:"url"`
	Score int    `json:"score"`
}

// RawContent is the output of the scrape chain. Strategy records which
// scraper produced it ("reader" or "direct").
type RawContent struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
	Strategy  string `json:"strategy"`
}

// CompactedContent is raw content reduced to the lines likely to hold
// staff data, bounded by the configured character budget.
type CompactedContent struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

// StaffRecord is one extracted staff member, with the organization
// metadata it was harvested under. Email is nil when no address was
// present on the page.
type StaffRecord struct {
	Organization string    `json:"organization"`
	Division     string    `json:"division,omitempty"`
	Conference   string    `json:"conference,omitempty"`
	Category     string    `json:"category"`
	Name         *string   `json:"name"`
	Title        string    `json:"title"`
	Email        *string   `json:"email"`
	SourceURL    string    `json:"source_url,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// HarvestStatus classifies how one organization's harvest ended.
type HarvestStatus string

const (
	StatusFound            HarvestStatus = "found"
	StatusNoPage           HarvestStatus = "not_found_no_page"
	StatusScrapeFailed     HarvestStatus = "not_found_scrape_failed"
	StatusExtractionFailed HarvestStatus = "not_found_extraction_failed"
)

// Found reports whether the status carries real records.
func (s HarvestStatus) Found() bool { return s == StatusFound }

// HarvestOutcome is the terminal result for one organization+category.
// When Status is not StatusFound, Records holds exactly one sentinel
// record documenting the failure.
type HarvestOutcome struct {
	Organization string        `json:"organization"`
	Category     string        `json:"category"`
	Status       HarvestStatus `json:"status"`
	Records      []StaffRecord `json:"records"`
}

// Sentinel builds the single placeholder record for a failed harvest.
// Name and email stay nil; the failure reason rides in the title column,
// matching the shape of the persisted row.
func Sentinel(org Organization, category, reason, sourceURL string, ts time.Time) StaffRecord {
	return StaffRecord{
		Organization: org.Name,
		Division:     org.Division,
		Conference:   org.Conference,
		Category:     category,
		Title:        reason,
		SourceURL:    sourceURL,
		Timestamp:    ts,
	}
}

// Organization is one roster entry to harvest.
type Organization struct {
	Name       string `json:"name" yaml:"name"`
	Division   string `json:"division,omitempty" yaml:"division,omitempty"`
	Conference string `json:"conference,omitempty" yaml:"conference,omitempty"`
}
