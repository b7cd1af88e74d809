package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/store"
)

func classified(title, link string, cat domain.Category, score float64) domain.Job {
	return domain.Job{
		Title:      title,
		Company:    "Acme",
		Location:   "Remote",
		Link:       link,
		PostedDate: "2026-08-20",
		Source:     domain.SourceVendorFeed,
		Classification: &domain.Classification{
			RelevanceScore: score,
			Category:       cat,
			Tags:           []string{"AI"},
			IsRelevant:     true,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	jobs := []domain.Job{
		{
			Title: "ML Engineer", Company: "Acme", Location: "Berlin",
			Link: "https://jobs.example/1", PostedDate: "2026-08-20",
			Source: domain.SourceSearchPage, Description: "desc",
			Salary: "$100000 - $150000", Tags: []string{"ml", "python"},
		},
		classified("Research Scientist", "https://jobs.example/2", domain.CategoryResearch, 0.9),
	}

	path, err := SaveRawCSV(dir, jobs)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "jobs_raw_")

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "ML Engineer", loaded[0].Title)
	assert.Equal(t, "Berlin", loaded[0].Location)
	assert.Equal(t, domain.SourceSearchPage, loaded[0].Source)
	assert.Equal(t, []string{"ml", "python"}, loaded[0].Tags)
	assert.Equal(t, "$100000 - $150000", loaded[0].Salary)
	assert.Equal(t, "Research Scientist", loaded[1].Title)
}

func TestCSVTagsWithCommasRoundTrip(t *testing.T) {
	dir := t.TempDir()
	jobs := []domain.Job{{
		Title: "ML Engineer", Link: "https://jobs.example/1",
		Source: domain.SourceVendorFeed,
		Tags:   []string{"nlp, applied", "python"},
	}}

	path, err := SaveRawCSV(dir, jobs)
	require.NoError(t, err)

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, []string{"nlp, applied", "python"}, loaded[0].Tags,
		"a comma inside one tag must not split it")
}

func TestLoadCSVLegacyCommaTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"title,link,tags\nML Engineer,https://jobs.example/1,\"ml, python\"\n"), 0o644))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, []string{"ml", "python"}, loaded[0].Tags)
}

func TestLatestRawCSV(t *testing.T) {
	dir := t.TempDir()
	rawDir := filepath.Join(dir, "raw")
	require.NoError(t, os.MkdirAll(rawDir, 0o755))
	for _, name := range []string{
		"jobs_raw_20260820_100000.csv",
		"jobs_raw_20260822_090000.csv",
		"jobs_raw_20260821_230000.csv",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(rawDir, name), []byte("title\n"), 0o644))
	}

	path, err := LatestRawCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, "jobs_raw_20260822_090000.csv", filepath.Base(path))
}

func TestLatestRawCSVEmpty(t *testing.T) {
	_, err := LatestRawCSV(t.TempDir())
	assert.Error(t, err)
}

func TestAppendMarkdownGroupsByCategory(t *testing.T) {
	dir := t.TempDir()
	jobs := []domain.Job{
		classified("AI Engineer", "https://jobs.example/1", domain.CategoryEngineering, 0.9),
		classified("Research Scientist", "https://jobs.example/2", domain.CategoryResearch, 0.95),
		classified("Data Analyst", "https://jobs.example/3", domain.CategoryDataScience, 0.8),
	}

	path, err := AppendMarkdown(dir, jobs)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)

	assert.True(t, strings.HasPrefix(content, "# AI Jobs Listings\n"), "new file gets the document header")
	assert.Contains(t, content, "### Research")
	assert.Contains(t, content, "### Engineering")
	assert.Contains(t, content, "### Data Science")
	assert.NotContains(t, content, "### AI/ML", "empty categories are omitted")
	assert.Contains(t, content, "[Apply](https://jobs.example/2)")

	// Research must come before Engineering in the fixed section order.
	assert.Less(t, strings.Index(content, "### Research"), strings.Index(content, "### Engineering"))
}

func TestAppendMarkdownAppends(t *testing.T) {
	dir := t.TempDir()
	jobs := []domain.Job{classified("AI Engineer", "https://jobs.example/1", domain.CategoryEngineering, 0.9)}

	path1, err := AppendMarkdown(dir, jobs)
	require.NoError(t, err)
	path2, err := AppendMarkdown(dir, jobs)
	require.NoError(t, err)
	assert.Equal(t, path1, path2, "same month, same file")

	b, err := os.ReadFile(path1)
	require.NoError(t, err)
	content := string(b)

	assert.Equal(t, 1, strings.Count(content, "# AI Jobs Listings"), "document header written once")
	assert.Equal(t, 2, strings.Count(content, "## Run "), "one run section per append")
}

func TestMarkdownEscapesPipes(t *testing.T) {
	j := classified("AI | ML Engineer", "https://jobs.example/1", domain.CategoryEngineering, 0.9)
	row := markdownRow(j)
	assert.Contains(t, row, `AI \| ML Engineer`)
}

func TestExportSiteJSON(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = store.Upsert(ctx, db.Pool, classified("AI Engineer", "https://jobs.example/1", domain.CategoryEngineering, 0.9))
	require.NoError(t, err)

	docsDir := t.TempDir()
	path, err := ExportSiteJSON(ctx, db.Pool, docsDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docsDir, "jobs.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"title": "AI Engineer"`)
	assert.Contains(t, string(b), `"link": "https://jobs.example/1"`)
}
