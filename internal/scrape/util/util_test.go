package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSponsorship(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"negative phrase", "Please note: no sponsorship for this role.", SponsorshipUnlikely},
		{"negative wins over positive", "We can sponsor in the EU but cannot sponsor US visas.", SponsorshipUnlikely},
		{"positive phrase", "We are willing to sponsor the right candidate.", SponsorshipLikely},
		{"case insensitive", "VISA SPONSORSHIP AVAILABLE for senior hires.", SponsorshipLikely},
		{"work authorization", "Applicants must be authorized to work in the United States.", SponsorshipUnlikely},
		{"no signal", "We offer competitive salary and remote work.", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckSponsorship(tt.desc))
		})
	}
}

func TestCanonicalLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips tracking params",
			"https://example.com/jobs/42?utm_source=rss&utm_medium=feed&id=42",
			"https://example.com/jobs/42?id=42",
		},
		{
			"drops fragment and lowercases host",
			"HTTPS://Example.COM/jobs/42#apply",
			"https://example.com/jobs/42",
		},
		{
			"sorts query values",
			"https://example.com/jobs?tag=ml&tag=ai",
			"https://example.com/jobs?tag=ai&tag=ml",
		},
		{
			"ref stripped",
			"https://example.com/jobs/42?ref=homepage",
			"https://example.com/jobs/42",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalLink(tt.in))
		})
	}
}

func TestCanonicalLinkStable(t *testing.T) {
	link := "https://example.com/jobs/42?utm_campaign=x&b=2&a=1"
	first := CanonicalLink(link)
	assert.Equal(t, first, CanonicalLink(first), "canonicalizing twice must be a no-op")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Senior ML Engineer", CleanText("  Senior ML\n\tEngineer  "))
	assert.Equal(t, "", CleanText("    \n "))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", "   "))
}
