// Package vendorfeed crawls a vendor's JSON job feed. The feed is a flat
// array in which non-job metadata can appear anywhere, so entries are
// filtered by shape (a job-identifying field present, the legal marker
// absent) rather than by position.
package vendorfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/scrape/util"
)

type Config struct {
	BaseURL string
}

type Crawler struct {
	cfg    Config
	client *fetch.Client
}

func New(cfg Config, client *fetch.Client) *Crawler {
	return &Crawler{cfg: cfg, client: client}
}

func (c *Crawler) Name() string { return "vendorfeed" }

func (c *Crawler) Crawl(ctx context.Context, _ types.Params) ([]domain.Job, error) {
	log.Printf("[vendorfeed] starting crawl: %s", c.cfg.BaseURL)

	body, err := c.client.Get(ctx, c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("vendorfeed get: %w", err)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("vendorfeed decode: %w", err)
	}

	jobs := extractJobs(items)
	log.Printf("[vendorfeed] crawl complete: %d jobs", len(jobs))
	return jobs, nil
}

func extractJobs(items []map[string]json.RawMessage) []domain.Job {
	var jobs []domain.Job
	for _, item := range items {
		// Shape filter: real jobs carry "position"; the legal/metadata
		// entry carries "legal".
		if _, isLegal := item["legal"]; isLegal {
			continue
		}
		title := jsonString(item, "position")
		if title == "" {
			continue
		}

		description := jsonString(item, "description")
		link := util.FirstNonEmpty(jsonString(item, "apply_url"), jsonString(item, "url"))
		location := jsonString(item, "location")
		if location == "" {
			location = "Remote"
		}

		jobs = append(jobs, domain.Job{
			Title:           title,
			Company:         jsonString(item, "company"),
			Location:        location,
			Link:            link,
			PostedDate:      jsonString(item, "date"),
			Source:          domain.SourceVendorFeed,
			Description:     description,
			Salary:          formatSalary(jsonNumber(item, "salary_min"), jsonNumber(item, "salary_max")),
			SponsorshipInfo: util.CheckSponsorship(description),
			Tags:            jsonStrings(item, "tags"),
		})
	}
	return jobs
}

// formatSalary renders "$min - $max" with "?" standing in for a missing
// bound; both missing yields "".
func formatSalary(min, max int64) string {
	if min == 0 && max == 0 {
		return ""
	}
	lo, hi := "?", "?"
	if min != 0 {
		lo = fmt.Sprintf("%d", min)
	}
	if max != 0 {
		hi = fmt.Sprintf("%d", max)
	}
	return fmt.Sprintf("$%s - $%s", lo, hi)
}

func jsonString(item map[string]json.RawMessage, key string) string {
	raw, ok := item[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func jsonNumber(item map[string]json.RawMessage, key string) int64 {
	raw, ok := item[key]
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

func jsonStrings(item map[string]json.RawMessage, key string) []string {
	raw, ok := item[key]
	if !ok {
		return nil
	}
	var xs []string
	if err := json.Unmarshal(raw, &xs); err != nil {
		return nil
	}
	return xs
}
