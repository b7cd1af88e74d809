// Package pipeline orchestrates one aggregation run: crawl every enabled
// source in registration order, persist the raw batch, classify, persist
// the filtered batch, merge into the cumulative store, and emit reports.
package pipeline

import (
	"context"
	"database/sql"
	"log"

	"aijobs-engine/internal/classify"
	"aijobs-engine/internal/config"
	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/report"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/store"
)

type Pipeline struct {
	cfg      config.Config
	crawlers []types.Crawler
	scorer   classify.Scorer // nil means classification is unavailable
	db       *sql.DB
}

func New(cfg config.Config, crawlers []types.Crawler, scorer classify.Scorer, db *sql.DB) *Pipeline {
	return &Pipeline{cfg: cfg, crawlers: crawlers, scorer: scorer, db: db}
}

// Run executes one full pipeline pass. Adapter failures are isolated; only
// sink failures propagate, since silently losing output defeats the run.
func (p *Pipeline) Run(ctx context.Context) error {
	log.Printf("[pipeline] starting aggregation run (%d sources)", len(p.crawlers))

	params := types.Params{
		Keywords:   p.cfg.Search.Keywords,
		Location:   p.cfg.Search.Location,
		DatePosted: p.cfg.Search.DatePosted,
		MaxPages:   p.cfg.Search.MaxPages,
	}

	var raw []domain.Job
	for _, c := range p.crawlers {
		jobs, err := c.Crawl(ctx, params)
		if err != nil {
			log.Printf("[pipeline] source %s failed: %v", c.Name(), err)
			continue
		}
		log.Printf("[pipeline] source %s returned %d jobs", c.Name(), len(jobs))
		raw = append(raw, jobs...)
	}

	if len(raw) == 0 {
		log.Printf("[pipeline] warning: no jobs retrieved from any source")
		return nil
	}

	log.Printf("[pipeline] total jobs retrieved: %d", len(raw))

	// The raw dump keeps everything, title-less records included; the
	// validity gate applies downstream of it.
	if p.cfg.Output.CSV {
		path, err := report.SaveRawCSV(p.cfg.Output.Dir, raw)
		if err != nil {
			return err
		}
		log.Printf("[pipeline] raw batch saved: %s", path)
	}

	return p.finish(ctx, raw)
}

// Reprocess re-runs classification and the sinks over the newest raw dump,
// skipping the crawl.
func (p *Pipeline) Reprocess(ctx context.Context) error {
	path, err := report.LatestRawCSV(p.cfg.Output.Dir)
	if err != nil {
		return err
	}
	log.Printf("[pipeline] reprocessing %s", path)

	raw, err := report.LoadCSV(path)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		log.Printf("[pipeline] warning: no jobs found in %s", path)
		return nil
	}
	return p.finish(ctx, raw)
}

// finish classifies the batch and drives every sink. A catastrophically
// unavailable scorer degrades the run to "everything is relevant" instead
// of discarding the crawl's work.
func (p *Pipeline) finish(ctx context.Context, raw []domain.Job) error {
	// Records without a title never reach the scorer or the post-filter
	// sinks.
	valid := raw[:0:0]
	for _, j := range raw {
		if j.Valid() {
			valid = append(valid, j)
		}
	}
	if dropped := len(raw) - len(valid); dropped > 0 {
		log.Printf("[pipeline] dropped %d records missing a title", dropped)
	}

	var relevant []domain.Job
	if p.scorer == nil {
		log.Printf("[pipeline] warning: scorer unavailable; keeping the entire raw batch")
		relevant = valid
	} else {
		relevant = classify.Relevant(ctx, p.scorer, valid)
		log.Printf("[pipeline] relevant jobs after filtering: %d/%d", len(relevant), len(valid))
	}

	if len(relevant) == 0 {
		log.Printf("[pipeline] warning: no relevant jobs found")
		return nil
	}

	if p.cfg.Output.CSV {
		path, err := report.SaveFilteredCSV(p.cfg.Output.Dir, relevant)
		if err != nil {
			return err
		}
		log.Printf("[pipeline] filtered batch saved: %s", path)
	}

	added := 0
	for _, j := range relevant {
		ok, err := store.Upsert(ctx, p.db, j)
		if err != nil {
			return err
		}
		if ok {
			added++
		}
	}
	log.Printf("[pipeline] cumulative store merge: %d new of %d", added, len(relevant))

	if p.cfg.Output.Markdown {
		path, err := report.AppendMarkdown(p.cfg.Output.Dir, relevant)
		if err != nil {
			return err
		}
		log.Printf("[pipeline] report updated: %s", path)
	}

	if p.cfg.Output.SiteJSON {
		path, err := report.ExportSiteJSON(ctx, p.db, "docs")
		if err != nil {
			return err
		}
		log.Printf("[pipeline] site data exported: %s", path)
	}

	log.Printf("[pipeline] run complete")
	return nil
}
