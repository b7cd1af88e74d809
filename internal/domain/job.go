package domain

import "strings"

// Source identifies which adapter produced a record.
type Source string

const (
	SourceSearchPage Source = "search_page"
	SourceVendorFeed Source = "vendor_feed"
	SourceRSSFeed    Source = "rss_feed"
	SourceATSBoard   Source = "ats_board"
	SourceCustom     Source = "custom"
)

// MaxDescriptionRunes bounds how much description text travels downstream
// (classifier prompts, CSV rows).
const MaxDescriptionRunes = 1000

// Job is the normalized record every adapter converges on.
type Job struct {
	Title           string
	Company         string
	Location        string
	Link            string
	PostedDate      string // ISO-8601 preferred; source-native tolerated
	Source          Source
	Description     string
	Salary          string
	SponsorshipInfo string
	Tags            []string

	Classification *Classification
}

// Valid reports whether the record may reach the scorer.
func (j Job) Valid() bool {
	return strings.TrimSpace(j.Title) != ""
}

// TruncatedDescription returns the description bounded to
// MaxDescriptionRunes.
func (j Job) TruncatedDescription() string {
	r := []rune(j.Description)
	if len(r) <= MaxDescriptionRunes {
		return j.Description
	}
	return string(r[:MaxDescriptionRunes])
}
