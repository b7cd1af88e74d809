package ats

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/scrape/util"
)

// Free-form career pages get a generic fetch-and-render; lines that look
// like job titles become pseudo-records. Low precision, best effort.

var titleKeywords = []string{"engineer", "scientist", "developer", "researcher", "analyst"}

const maxCandidateLineLen = 120

func (c *Crawler) crawlCustomURL(ctx context.Context, cu CustomURL) ([]domain.Job, error) {
	body, err := c.client.Get(ctx, cu.URL)
	if err != nil {
		return nil, fmt.Errorf("custom url get: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("custom url parse: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	seen := map[string]bool{}

	var jobs []domain.Job
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = util.CleanText(line)
		if line == "" || len(line) > maxCandidateLineLen {
			continue
		}
		if !containsTitleKeyword(line) {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true

		jobs = append(jobs, domain.Job{
			Title:       line,
			Company:     cu.Name,
			Location:    "",
			Link:        cu.URL,
			PostedDate:  now,
			Source:      domain.SourceCustom,
			Description: "Scraped from custom URL",
		})
	}
	return jobs, nil
}

func containsTitleKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
