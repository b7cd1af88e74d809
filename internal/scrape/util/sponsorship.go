package util

import "strings"

const (
	SponsorshipUnlikely = "Sponsorship likely NOT available"
	SponsorshipLikely   = "Sponsorship likely available"
)

// Negative phrases are checked first; the first match wins either way.
var negativePhrases = []string{
	"sponsorship is not available",
	"no sponsorship",
	"cannot sponsor",
	"unable to sponsor",
	"must be authorized to work",
	"us citizens only",
	"green card holders only",
}

var positivePhrases = []string{
	"visa sponsorship available",
	"can sponsor",
	"willing to sponsor",
	"sponsorship provided",
}

// CheckSponsorship scans a description for visa-sponsorship signals.
// Returns "" when the description says nothing either way.
func CheckSponsorship(description string) string {
	if description == "" {
		return ""
	}
	lower := strings.ToLower(description)

	for _, p := range negativePhrases {
		if strings.Contains(lower, p) {
			return SponsorshipUnlikely
		}
	}
	for _, p := range positivePhrases {
		if strings.Contains(lower, p) {
			return SponsorshipLikely
		}
	}
	return ""
}
