// Package ats crawls company career boards through their ATS vendors'
// public REST APIs. A registry of {company, board token, ats type} entries
// dispatches each company to one of two wire protocols: the board-token
// list+detail pattern (greenhouse) or the single-shot full-postings pattern
// (lever). A secondary free-form URL mode renders arbitrary pages and flags
// job-looking lines as low-precision pseudo-records.
package ats

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/scrape/types"
)

const companyWorkers = 8

type Company struct {
	Name       string
	BoardToken string
	ATS        string // greenhouse | lever
}

type CustomURL struct {
	Name string
	URL  string
}

type Config struct {
	Companies  []Company
	CustomURLs []CustomURL

	// Endpoint roots, overridable for tests.
	GreenhouseBase string
	LeverBase      string
}

type Crawler struct {
	cfg    Config
	client *fetch.Client
}

func New(cfg Config, client *fetch.Client) *Crawler {
	if cfg.GreenhouseBase == "" {
		cfg.GreenhouseBase = "https://boards-api.greenhouse.io/v1/boards"
	}
	if cfg.LeverBase == "" {
		cfg.LeverBase = "https://api.lever.co/v0/postings"
	}
	return &Crawler{cfg: cfg, client: client}
}

func (c *Crawler) Name() string { return "ats" }

func (c *Crawler) Crawl(ctx context.Context, _ types.Params) ([]domain.Job, error) {
	// Per-company fetches run in a bounded pool; the shared client's guard
	// still paces every request, so parallelism is bounded by the rate
	// limit, not the pool size. Results land in registry order to keep the
	// batch deterministic.
	perCompany := make([][]domain.Job, len(c.cfg.Companies))

	var g errgroup.Group
	g.SetLimit(companyWorkers)
	for i, co := range c.cfg.Companies {
		g.Go(func() error {
			jobs, err := c.fetchCompany(ctx, co)
			if err != nil {
				log.Printf("[ats:%s] company=%q token=%q err=%v", co.ATS, co.Name, co.BoardToken, err)
				return nil // one board down never fails the batch
			}
			perCompany[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	var out []domain.Job
	for _, jobs := range perCompany {
		out = append(out, jobs...)
	}

	for _, cu := range c.cfg.CustomURLs {
		jobs, err := c.crawlCustomURL(ctx, cu)
		if err != nil {
			log.Printf("[ats:custom] name=%q url=%q err=%v", cu.Name, cu.URL, err)
			continue
		}
		log.Printf("[ats:custom] name=%q found %d candidate lines", cu.Name, len(jobs))
		out = append(out, jobs...)
	}

	log.Printf("[ats] crawl complete: %d jobs", len(out))
	return out, nil
}

func (c *Crawler) fetchCompany(ctx context.Context, co Company) ([]domain.Job, error) {
	switch co.ATS {
	case "greenhouse":
		return c.fetchGreenhouse(ctx, co)
	case "lever":
		return c.fetchLever(ctx, co)
	default:
		log.Printf("[ats] unknown ats type %q for %q", co.ATS, co.Name)
		return nil, nil
	}
}
