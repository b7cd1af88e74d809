// Package searchpage crawls a job search-engine results page. It builds a
// keyword/location/recency query, pages through results, and extracts
// listing cards by their structural markers. Cards missing a title or link
// are dropped silently; the page as a whole fails soft.
package searchpage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/scrape/util"
)

const jobsPerPage = 25

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

func (c *Crawler) Name() string { return "searchpage" }

func (c *Crawler) Crawl(ctx context.Context, params types.Params) ([]domain.Job, error) {
	keywords := params.Keywords
	if keywords == "" {
		keywords = "AI Machine Learning"
	}
	datePosted := params.DatePosted
	if datePosted == "" {
		datePosted = "r86400"
	}
	maxPages := params.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	searchURL := c.buildSearchURL(keywords, params.Location, datePosted)
	log.Printf("[searchpage] starting crawl: %s", searchURL)

	var all []domain.Job
	for page := 0; page < maxPages; page++ {
		pageURL := fmt.Sprintf("%s&start=%d", searchURL, page*jobsPerPage)

		body, err := c.client.Get(ctx, pageURL)
		if err != nil {
			log.Printf("[searchpage] page %d/%d failed: %v", page+1, maxPages, err)
			continue
		}

		jobs, err := extractJobs(body)
		if err != nil {
			log.Printf("[searchpage] page %d/%d parse failed: %v", page+1, maxPages, err)
			continue
		}
		all = append(all, jobs...)
	}

	log.Printf("[searchpage] crawl complete: %d jobs", len(all))
	return all, nil
}

func (c *Crawler) buildSearchURL(keywords, location, datePosted string) string {
	q := url.Values{}
	q.Set("keywords", keywords)
	q.Set("location", location)
	q.Set("f_TPR", datePosted)
	q.Set("f_E", "2,3,4") // mid, senior, executive
	q.Set("position", "1")
	return c.cfg.BaseURL + "?" + q.Encode()
}

func extractJobs(body []byte) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var jobs []domain.Job
	doc.Find("div.job-search-card").Each(func(_ int, card *goquery.Selection) {
		title := util.CleanText(card.Find("h3.base-search-card__title").First().Text())
		link, _ := card.Find("a.base-card__full-link").First().Attr("href")
		link = strings.TrimSpace(link)
		if title == "" || link == "" {
			return
		}

		company := util.CleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		location := util.CleanText(card.Find("span.job-search-card__location").First().Text())
		posted, _ := card.Find("time.job-search-card__listdate").First().Attr("datetime")

		jobs = append(jobs, domain.Job{
			Title:      title,
			Company:    company,
			Location:   location,
			Link:       link,
			PostedDate: posted,
			Source:     domain.SourceSearchPage,
		})
	})

	return jobs, nil
}
