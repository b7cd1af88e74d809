package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-engine/internal/classify"
	"aijobs-engine/internal/config"
	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/report"
	"aijobs-engine/internal/scrape/types"
	"aijobs-engine/internal/store"
)

type fakeCrawler struct {
	name string
	jobs []domain.Job
	err  error
}

func (f fakeCrawler) Name() string { return f.name }
func (f fakeCrawler) Crawl(context.Context, types.Params) ([]domain.Job, error) {
	return f.jobs, f.err
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.Output.Dir = t.TempDir()
	cfg.Output.CSV = true
	cfg.Output.Markdown = true
	cfg.Filter.MinRelevanceScore = 0.7
	return cfg
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testScorer() classify.Scorer {
	return classify.KeywordScorer{
		Keywords:         []string{"AI", "Machine Learning"},
		ExcludedKeywords: []string{"Sales"},
		Threshold:        0.7,
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	db := testDB(t)
	crawlers := []types.Crawler{
		fakeCrawler{name: "a", jobs: []domain.Job{
			{Title: "Machine Learning Engineer", Link: "https://jobs.example/1", Source: domain.SourceSearchPage},
			{Title: "Sales Lead", Link: "https://jobs.example/2", Source: domain.SourceSearchPage},
			{Title: "", Link: "https://jobs.example/3", Source: domain.SourceSearchPage}, // invalid
		}},
		fakeCrawler{name: "b", err: errors.New("boom")}, // must not fail the run
	}

	p := New(cfg, crawlers, testScorer(), db.Pool)
	require.NoError(t, p.Run(context.Background()))

	// The filtered output never exceeds the input and excludes the
	// irrelevant and invalid records.
	n, err := store.Count(context.Background(), db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := store.List(context.Background(), db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Machine Learning Engineer", rows[0].Title)

	rawDir := filepath.Join(cfg.Output.Dir, "raw")
	entries, err := os.ReadDir(rawDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "one raw dump per run")

	// The pre-filter dump keeps every crawled record, the title-less one
	// included.
	raw, err := report.LoadCSV(filepath.Join(rawDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Len(t, raw, 3)
}

func TestRunZeroResults(t *testing.T) {
	cfg := testConfig(t)
	db := testDB(t)
	crawlers := []types.Crawler{fakeCrawler{name: "empty"}}

	p := New(cfg, crawlers, testScorer(), db.Pool)
	require.NoError(t, p.Run(context.Background()), "a zero-result run is a warning, not an error")

	_, err := os.ReadDir(filepath.Join(cfg.Output.Dir, "raw"))
	assert.True(t, os.IsNotExist(err), "no output written for an empty run")
}

func TestRunDegradesWithoutScorer(t *testing.T) {
	cfg := testConfig(t)
	db := testDB(t)
	crawlers := []types.Crawler{
		fakeCrawler{name: "a", jobs: []domain.Job{
			{Title: "Totally Unrelated Job", Link: "https://jobs.example/1", Source: domain.SourceRSSFeed},
		}},
	}

	p := New(cfg, crawlers, nil, db.Pool)
	require.NoError(t, p.Run(context.Background()))

	n, err := store.Count(context.Background(), db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "without a scorer the raw batch is kept, not dropped")
}

func TestReprocessUsesLatestRawDump(t *testing.T) {
	cfg := testConfig(t)
	db := testDB(t)
	crawlers := []types.Crawler{
		fakeCrawler{name: "a", jobs: []domain.Job{
			{Title: "Machine Learning Engineer", Link: "https://jobs.example/1", Source: domain.SourceSearchPage},
		}},
	}

	p := New(cfg, crawlers, testScorer(), db.Pool)
	require.NoError(t, p.Run(context.Background()))

	// Reprocess crawls nothing and re-filters the dump; the store merge is
	// idempotent on the canonical link.
	p2 := New(cfg, nil, testScorer(), db.Pool)
	require.NoError(t, p2.Reprocess(context.Background()))

	n, err := store.Count(context.Background(), db.Pool)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReprocessWithoutDumpFails(t *testing.T) {
	cfg := testConfig(t)
	db := testDB(t)

	p := New(cfg, nil, testScorer(), db.Pool)
	assert.Error(t, p.Reprocess(context.Background()))
}
