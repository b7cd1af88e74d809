package classify

import (
	"context"
	"fmt"
	"strings"

	"aijobs-engine/internal/domain"
)

const (
	titleMatchScore = 0.9
	descMatchScore  = 0.7
	maxCitedTags    = 5
)

// Role-group words checked in priority order for the category.
var (
	researchWords    = []string{"research", "scientist"}
	engineeringWords = []string{"engineer", "engineering", "developer"}
	dataScienceWords = []string{"data science", "data scientist", "analytics"}
)

// KeywordScorer is the deterministic strategy: no network, same record in,
// same result out.
type KeywordScorer struct {
	Keywords         []string
	ExcludedKeywords []string
	Threshold        float64
}

func (s KeywordScorer) Name() string { return "keyword" }

func (s KeywordScorer) Score(_ context.Context, job domain.Job) domain.Classification {
	title := strings.ToLower(job.Title)
	if title == "" {
		return domain.Rejection("Missing job title")
	}

	// Exclusions win outright, even when relevant keywords also match.
	for _, kw := range s.ExcludedKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return domain.Rejection(fmt.Sprintf("Excluded keyword %q matched in title", kw))
		}
	}

	desc := strings.ToLower(job.TruncatedDescription())

	score := 0.0
	var matched []string
	for _, kw := range s.Keywords {
		lk := strings.ToLower(kw)
		inTitle := strings.Contains(title, lk)
		inDesc := strings.Contains(desc, lk)
		if !inTitle && !inDesc {
			continue
		}
		matched = append(matched, kw)
		if inTitle && score < titleMatchScore {
			score = titleMatchScore
		} else if score < descMatchScore {
			score = descMatchScore
		}
	}

	if len(matched) == 0 {
		return domain.Rejection("No relevant keywords matched")
	}

	cited := matched
	if len(cited) > maxCitedTags {
		cited = cited[:maxCitedTags]
	}

	return domain.Classification{
		RelevanceScore: score,
		Reasoning:      fmt.Sprintf("Matched keywords: %s", strings.Join(cited, ", ")),
		Category:       inferCategory(title, desc, matched),
		Tags:           matched,
		IsRelevant:     score >= s.Threshold,
	}
}

func inferCategory(title, desc string, matched []string) domain.Category {
	blob := title + " " + desc
	switch {
	case containsAny(blob, researchWords):
		return domain.CategoryResearch
	case containsAny(blob, engineeringWords):
		return domain.CategoryEngineering
	case containsAny(blob, dataScienceWords):
		return domain.CategoryDataScience
	case len(matched) > 0:
		return domain.CategoryAIML
	default:
		return domain.CategoryOther
	}
}

func containsAny(blob string, words []string) bool {
	for _, w := range words {
		if strings.Contains(blob, w) {
			return true
		}
	}
	return false
}
