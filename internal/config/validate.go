package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims keyword lists, fills defaults, and reports
// problems. A bad ATS registry entry is a warning, not an error: it fails
// only that company's registration.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filter.Keywords = trimList(out.Filter.Keywords)
	out.Filter.ExcludedKeywords = trimList(out.Filter.ExcludedKeywords)

	if out.Filter.Backend == "" {
		out.Filter.Backend = "keyword"
	}
	if out.Filter.Backend != "keyword" && out.Filter.Backend != "openai" {
		res.addErr("filter.backend must be \"keyword\" or \"openai\", got %q", out.Filter.Backend)
	}
	if out.Filter.MinRelevanceScore < 0 || out.Filter.MinRelevanceScore > 1 {
		res.addErr("filter.min_relevance_score must be within [0.0, 1.0], got %v", out.Filter.MinRelevanceScore)
	}
	if len(out.Filter.Keywords) == 0 && out.Filter.Backend == "keyword" {
		res.addWarn("filter.keywords is empty; the keyword backend will reject everything")
	}

	if out.Crawler.RequestDelay < 0 {
		res.addErr("crawler.request_delay_seconds must be >= 0")
	}
	if out.Crawler.MaxRetries <= 0 {
		out.Crawler.MaxRetries = 3
	}
	if out.Crawler.UserAgent == "" {
		out.Crawler.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if out.Output.Dir == "" {
		out.Output.Dir = "jobs"
	}
	if out.Search.MaxPages <= 0 {
		out.Search.MaxPages = 1
	}
	if out.OpenAI.Model == "" {
		out.OpenAI.Model = "gpt-4o-mini"
	}
	if out.Schedule.Cron == "" {
		out.Schedule.Cron = "@hourly"
	}

	if !out.Sources.SearchPage.Enabled && !out.Sources.VendorFeed.Enabled &&
		!out.Sources.RSSFeed.Enabled && !out.Sources.ATS.Enabled {
		res.addWarn("no sources enabled; runs will produce nothing")
	}

	var companies []Company
	for _, co := range out.Sources.ATS.Companies {
		co.Name = strings.TrimSpace(co.Name)
		co.BoardToken = strings.TrimSpace(co.BoardToken)
		co.ATS = strings.ToLower(strings.TrimSpace(co.ATS))
		if co.BoardToken == "" {
			res.addWarn("ats company %q has no board_token; skipped", co.Name)
			continue
		}
		if co.ATS != "greenhouse" && co.ATS != "lever" {
			res.addWarn("ats company %q has unknown ats type %q; skipped", co.Name, co.ATS)
			continue
		}
		if co.Name == "" {
			co.Name = co.BoardToken
		}
		companies = append(companies, co)
	}
	out.Sources.ATS.Companies = companies

	return out, res
}
