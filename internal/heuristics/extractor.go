// Package heuristics extracts profile fields from acquired text with
// deterministic pattern rules. Every extractor works offline and leaves a
// field empty rather than failing, so a heuristic record is always available
// as the baseline for AI enhancement.
package heuristics

import (
	"github.com/jonathan/profile-extractor/internal/types"
)

// Extract builds the heuristic record for src. Resume domains read the
// normalized text; organization domains read the parsed page, or a page
// holding only the text when the source was a document.
func Extract(src *types.RawSource, domain types.Domain) *types.HeuristicRecord {
	record := &types.HeuristicRecord{Domain: domain}
	if src == nil {
		src = &types.RawSource{}
	}

	if !domain.IsOrganization() {
		record.Resume = ExtractResume(src.Text)
		return record
	}

	page := src.Page
	if page == nil {
		page = &types.WebPage{RawText: src.Text}
	}
	record.Organization = ExtractOrganization(page, src.URL, domain)
	return record
}
