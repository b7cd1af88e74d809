package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"aijobs-engine/internal/domain"
)

// Greenhouse is the list+detail protocol: the board listing does not carry
// descriptions, so each job needs a second call.

type ghListResponse struct {
	Jobs []ghJob `json:"jobs"`
}

type ghJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

type ghDetail struct {
	Content  string `json:"content"`
	Metadata []struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	} `json:"metadata"`
}

func (c *Crawler) fetchGreenhouse(ctx context.Context, co Company) ([]domain.Job, error) {
	listURL := fmt.Sprintf("%s/%s/jobs?content=true", c.cfg.GreenhouseBase, url.PathEscape(co.BoardToken))

	body, err := c.client.Get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse list: %w", err)
	}

	var list ghListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	var out []domain.Job
	for _, j := range list.Jobs {
		title := strings.TrimSpace(j.Title)
		if title == "" || j.AbsoluteURL == "" {
			continue
		}

		description := c.greenhouseDescription(ctx, co, j.ID)
		if description == "" {
			description = "Job at " + co.Name
		}

		location := j.Location.Name
		if location == "" {
			location = "Remote"
		}

		out = append(out, domain.Job{
			Title:       title,
			Company:     co.Name,
			Location:    location,
			Link:        j.AbsoluteURL,
			PostedDate:  j.UpdatedAt,
			Source:      domain.SourceATSBoard,
			Description: description,
		})
	}
	return out, nil
}

// greenhouseDescription fetches the detail record and synthesizes one
// description blob from the content plus metadata key/values. A failed
// detail call keeps the minimal entry.
func (c *Crawler) greenhouseDescription(ctx context.Context, co Company, jobID int64) string {
	detailURL := fmt.Sprintf("%s/%s/jobs/%d", c.cfg.GreenhouseBase, url.PathEscape(co.BoardToken), jobID)

	body, err := c.client.Get(ctx, detailURL)
	if err != nil {
		log.Printf("[ats:greenhouse] detail fetch failed company=%q job=%d err=%v", co.Name, jobID, err)
		return ""
	}

	var detail ghDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		log.Printf("[ats:greenhouse] detail decode failed company=%q job=%d err=%v", co.Name, jobID, err)
		return ""
	}

	parts := []string{detail.Content}
	if len(detail.Metadata) > 0 {
		var kv []string
		for _, m := range detail.Metadata {
			val := rawToString(m.Value)
			if m.Name == "" || val == "" {
				continue
			}
			kv = append(kv, fmt.Sprintf("- %s: %s", m.Name, val))
		}
		if len(kv) > 0 {
			parts = append(parts, "\n\n### Additional Information:")
			parts = append(parts, kv...)
		}
	}
	return joinNonEmpty(parts, "\n")
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// metadata values can be numbers or booleans
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func joinNonEmpty(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
