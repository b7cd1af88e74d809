package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"aijobs-engine/internal/domain"
)

var categoryOrder = []domain.Category{
	domain.CategoryResearch,
	domain.CategoryEngineering,
	domain.CategoryDataScience,
	domain.CategoryAIML,
	domain.CategoryOther,
}

// AppendMarkdown appends the run's relevant jobs to the month's report
// document (<dir>/<year>/<month>.md), grouped by category. The file is
// flock-guarded so overlapping runs cannot interleave sections.
func AppendMarkdown(dir string, jobs []domain.Job) (string, error) {
	now := time.Now()
	monthDir := filepath.Join(dir, now.Format("2006"))
	if err := os.MkdirAll(monthDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(monthDir, strings.ToLower(now.Format("January"))+".md")

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock report: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString("# AI Jobs Listings\n\n")
	}
	fmt.Fprintf(&b, "## Run %s\n\n", now.Format("2006-01-02 15:04:05"))

	for _, cat := range categoryOrder {
		group := jobsInCategory(jobs, cat)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", cat)
		b.WriteString("| Title | Company | Location | Link | Posted Date | Tags | Relevance Score |\n")
		b.WriteString("|-------|---------|----------|------|-------------|------|------------------|\n")
		for _, j := range group {
			b.WriteString(markdownRow(j))
		}
		b.WriteString("\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return "", err
	}
	return path, nil
}

func jobsInCategory(jobs []domain.Job, cat domain.Category) []domain.Job {
	var out []domain.Job
	for _, j := range jobs {
		c := domain.CategoryOther
		if j.Classification != nil {
			c = j.Classification.Category
		}
		if c == cat {
			out = append(out, j)
		}
	}
	return out
}

func markdownRow(j domain.Job) string {
	tags := strings.Join(j.Tags, " ")
	score := "N/A"
	if j.Classification != nil {
		tags = strings.Join(j.Classification.Tags, " ")
		score = fmt.Sprintf("%.2f", j.Classification.RelevanceScore)
	}
	return fmt.Sprintf("| %s | %s | %s | [Apply](%s) | %s | %s | %s |\n",
		cell(j.Title), cell(j.Company), cell(j.Location), j.Link, j.PostedDate, cell(tags), score)
}

// cell keeps a value from breaking the table layout.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
