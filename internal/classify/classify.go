// Package classify assigns relevance scores to normalized records. Two
// interchangeable strategies sit behind one interface: a deterministic
// keyword matcher and an OpenAI-backed classifier. Classification never
// fails past this boundary; every failure degrades to a rejection result.
package classify

import (
	"context"

	"aijobs-engine/internal/domain"
)

type Scorer interface {
	Name() string
	Score(ctx context.Context, job domain.Job) domain.Classification
}

// Relevant attaches classifications to every valid job and returns the
// relevant subset. Records without a title never reach the scorer.
func Relevant(ctx context.Context, s Scorer, jobs []domain.Job) []domain.Job {
	var out []domain.Job
	for i := range jobs {
		if !jobs[i].Valid() {
			continue
		}
		cls := s.Score(ctx, jobs[i])
		jobs[i].Classification = &cls
		if cls.IsRelevant {
			out = append(out, jobs[i])
		}
	}
	return out
}
