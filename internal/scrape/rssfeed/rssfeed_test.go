package rssfeed

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
	"aijobs-engine/internal/scrape/util"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Remote Programming Jobs</title>
    <item>
      <title>Senior Machine Learning Engineer</title>
      <link>https://jobs.example/ml-engineer</link>
      <description>Build models. No sponsorship for this position.</description>
      <pubDate>Thu, 20 Aug 2026 10:00:00 +0000</pubDate>
      <category>machine-learning</category>
      <category>remote</category>
    </item>
    <item>
      <title></title>
      <link>https://jobs.example/untitled</link>
    </item>
    <item>
      <title>Job with no link</title>
    </item>
  </channel>
</rss>`

func newTestCrawler(t *testing.T, body string) *Crawler {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client := fetch.New(nil, "test-agent", 5*time.Second, 1)
	return New(Config{BaseURL: srv.URL}, client)
}

func TestCrawlSentinels(t *testing.T) {
	c := newTestCrawler(t, feedXML)

	jobs, err := c.Crawl(context.Background(), types.Params{})
	require.NoError(t, err)
	require.Len(t, jobs, 1, "items missing a title or link must be skipped")

	j := jobs[0]
	assert.Equal(t, "Senior Machine Learning Engineer", j.Title)
	assert.Equal(t, CompanySentinel, j.Company)
	assert.Equal(t, "Remote", j.Location)
	assert.Equal(t, "https://jobs.example/ml-engineer", j.Link)
	assert.Equal(t, domain.SourceRSSFeed, j.Source)
	assert.Equal(t, []string{"machine-learning", "remote"}, j.Tags)
	assert.Equal(t, util.SponsorshipUnlikely, j.SponsorshipInfo)
	assert.NotEmpty(t, j.PostedDate)
}

func TestCrawlMalformedFeed(t *testing.T) {
	c := newTestCrawler(t, "{definitely: not xml}")

	_, err := c.Crawl(context.Background(), types.Params{})
	assert.Error(t, err)
}
