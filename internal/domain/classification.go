package domain

// Category buckets a relevant posting by role type.
type Category string

const (
	CategoryResearch    Category = "Research"
	CategoryEngineering Category = "Engineering"
	CategoryDataScience Category = "Data Science"
	CategoryAIML        Category = "AI/ML"
	CategoryOther       Category = "Other"
)

// Classification is attached to a Job by the scorer.
type Classification struct {
	RelevanceScore float64  `json:"relevance_score"`
	Reasoning      string   `json:"reasoning"`
	Category       Category `json:"category"`
	Tags           []string `json:"tags"`
	IsRelevant     bool     `json:"is_relevant"`
}

// Rejection is the uniform negative classification used for missing titles,
// excluded keywords, and any backend failure.
func Rejection(reason string) Classification {
	return Classification{
		RelevanceScore: 0.0,
		Reasoning:      reason,
		Category:       CategoryOther,
		Tags:           []string{},
		IsRelevant:     false,
	}
}
