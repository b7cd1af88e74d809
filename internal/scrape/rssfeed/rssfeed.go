// Package rssfeed crawls an RSS/Atom job feed. Feeds rarely carry company
// or location fields, so those default to documented sentinels instead of
// failing the record.
package rssfeed

import (
	"context"
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/scrape/util"
)

// CompanySentinel marks records whose feed did not separate the company
// from the title.
const CompanySentinel = "See Title/Desc"

type Config struct {
	BaseURL string
}

type Crawler struct {
	cfg    Config
	client *fetch.Client
	parser *gofeed.Parser
}

func New(cfg Config, client *fetch.Client) *Crawler {
	return &Crawler{cfg: cfg, client: client, parser: gofeed.NewParser()}
}

func (c *Crawler) Name() string { return "rssfeed" }

func (c *Crawler) Crawl(ctx context.Context, _ types.Params) ([]domain.Job, error) {
	log.Printf("[rssfeed] starting crawl: %s", c.cfg.BaseURL)

	body, err := c.client.Get(ctx, c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("rssfeed get: %w", err)
	}

	feed, err := c.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("rssfeed parse: %w", err)
	}

	var jobs []domain.Job
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := util.CleanText(item.Title)
		if title == "" || item.Link == "" {
			continue
		}

		jobs = append(jobs, domain.Job{
			Title:           title,
			Company:         CompanySentinel,
			Location:        "Remote",
			Link:            item.Link,
			PostedDate:      item.Published,
			Source:          domain.SourceRSSFeed,
			Description:     item.Description,
			SponsorshipInfo: util.CheckSponsorship(item.Description),
			Tags:            item.Categories,
		})
	}

	log.Printf("[rssfeed] crawl complete: %d jobs", len(jobs))
	return jobs, nil
}
