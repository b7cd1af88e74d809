package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/scrape/util"
)

// Lever is the single-shot protocol: one call returns every posting with
// structured description sub-fields that get stitched back together.

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	Categories struct {
		Location string `json:"location"`
	} `json:"categories"`

	Opening              string `json:"opening"`
	OpeningPlain         string `json:"openingPlain"`
	Description          string `json:"description"`
	DescriptionPlain     string `json:"descriptionPlain"`
	DescriptionBodyPlain string `json:"descriptionBodyPlain"`
	Additional           string `json:"additional"`
	AdditionalPlain      string `json:"additionalPlain"`
	Lists                []struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	} `json:"lists"`
}

func (c *Crawler) fetchLever(ctx context.Context, co Company) ([]domain.Job, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", c.cfg.LeverBase, url.PathEscape(co.BoardToken))

	body, err := c.client.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("lever get: %w", err)
	}

	var postings []leverPosting
	if err := json.Unmarshal(body, &postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	out := make([]domain.Job, 0, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.Text)
		if title == "" || p.HostedURL == "" {
			continue
		}

		description := leverDescription(p)
		if description == "" {
			description = "Job at " + co.Name
		}

		location := util.CleanText(p.Categories.Location)
		if location == "" {
			location = "Remote"
		}

		var posted string
		if p.CreatedAt > 0 {
			posted = time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339)
		}

		out = append(out, domain.Job{
			Title:       title,
			Company:     co.Name,
			Location:    location,
			Link:        p.HostedURL,
			PostedDate:  posted,
			Source:      domain.SourceATSBoard,
			Description: description,
		})
	}
	return out, nil
}

// leverDescription reconstructs one description blob from the API's
// structured sub-fields, with markdown-ish section separators. Plain-text
// variants win over their HTML counterparts.
func leverDescription(p leverPosting) string {
	var parts []string

	if s := util.FirstNonEmpty(p.OpeningPlain, p.Opening); s != "" {
		parts = append(parts, s)
	}
	if s := util.FirstNonEmpty(p.DescriptionBodyPlain, p.DescriptionPlain, p.Description); s != "" {
		parts = append(parts, s)
	}

	for _, l := range p.Lists {
		if l.Text != "" {
			parts = append(parts, "\n### "+l.Text)
		}
		if l.Content != "" {
			content := strings.ReplaceAll(l.Content, "<li>", "- ")
			content = strings.ReplaceAll(content, "</li>", "\n")
			parts = append(parts, content)
		}
	}

	if s := util.FirstNonEmpty(p.AdditionalPlain, p.Additional); s != "" {
		parts = append(parts, "\n### Additional Information", s)
	}

	return joinNonEmpty(parts, "\n\n")
}
