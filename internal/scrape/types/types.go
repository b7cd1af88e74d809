package types

import (
	"context"

	"aijobs-engine/internal/domain"
)

// Params are the optional search inputs an adapter may honor. Adapters fill
// their own defaults for anything left zero.
type Params struct {
	Keywords   string
	Location   string
	DatePosted string // recency window token, e.g. "r86400" for the past day
	MaxPages   int
}

// Crawler is the contract every source adapter implements. Crawl fails
// soft: a source-level error is returned for logging, but adapters recover
// from per-item problems themselves and return what they extracted.
type Crawler interface {
	Name() string
	Crawl(ctx context.Context, params Params) ([]domain.Job, error)
}
