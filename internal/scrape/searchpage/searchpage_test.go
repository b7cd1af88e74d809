package searchpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/fetch"
	"aijobs-engine/internal/scrape/types"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="job-search-card">
  <a class="base-card__full-link" href="https://jobs.example/view/1"></a>
  <h3 class="base-search-card__title">
    Machine Learning Engineer
  </h3>
  <h4 class="base-search-card__subtitle">Acme Corp</h4>
  <span class="job-search-card__location">Berlin, Germany</span>
  <time class="job-search-card__listdate" datetime="2026-08-20">1 day ago</time>
</div>
<div class="job-search-card">
  <h3 class="base-search-card__title">No Link Job</h3>
  <h4 class="base-search-card__subtitle">Ghost Inc</h4>
</div>
<div class="job-search-card">
  <a class="base-card__full-link" href="https://jobs.example/view/3"></a>
  <h3 class="base-search-card__title"></h3>
</div>
</body></html>`

func TestExtractJobs(t *testing.T) {
	jobs, err := extractJobs([]byte(resultsPage))
	require.NoError(t, err)
	require.Len(t, jobs, 1, "cards missing a title or link must be dropped")

	j := jobs[0]
	assert.Equal(t, "Machine Learning Engineer", j.Title, "whitespace is collapsed")
	assert.Equal(t, "Acme Corp", j.Company)
	assert.Equal(t, "Berlin, Germany", j.Location)
	assert.Equal(t, "https://jobs.example/view/1", j.Link)
	assert.Equal(t, "2026-08-20", j.PostedDate)
	assert.Equal(t, domain.SourceSearchPage, j.Source)
}

func TestBuildSearchURL(t *testing.T) {
	c := New(Config{BaseURL: "https://search.example/jobs"}, nil)
	u := c.buildSearchURL("AI Machine Learning", "Remote", "r86400")

	assert.Contains(t, u, "keywords=AI+Machine+Learning")
	assert.Contains(t, u, "location=Remote")
	assert.Contains(t, u, "f_TPR=r86400")
	assert.Contains(t, u, "f_E=2%2C3%2C4")
}

func TestCrawlPagination(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := fetch.New(nil, "test-agent", 5*time.Second, 1)
	c := New(Config{BaseURL: srv.URL}, client)

	jobs, err := c.Crawl(context.Background(), types.Params{Keywords: "AI", MaxPages: 3})
	require.NoError(t, err)
	assert.Len(t, jobs, 3, "one valid card per page")
	assert.Equal(t, []string{"0", "25", "50"}, starts, "pages advance by the page size")
}

func TestCrawlPageFailureIsSoft(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	client := fetch.New(nil, "test-agent", 5*time.Second, 1)
	c := New(Config{BaseURL: srv.URL}, client)

	jobs, err := c.Crawl(context.Background(), types.Params{MaxPages: 2})
	require.NoError(t, err, "a failed page never fails the crawl")
	assert.Len(t, jobs, 1)
}
