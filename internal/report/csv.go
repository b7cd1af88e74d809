// Package report persists pipeline output: tabular CSV dumps, a markdown
// report grouped by category, and a JSON export for the static site.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"aijobs-engine/internal/domain"
)

var csvHeader = []string{
	"title", "company", "location", "link", "posted_date", "source",
	"description", "salary", "sponsorship_info", "tags",
	"relevance_score", "category", "reasoning",
}

// SaveRawCSV writes the pre-filter batch under <dir>/raw.
func SaveRawCSV(dir string, jobs []domain.Job) (string, error) {
	return saveCSV(filepath.Join(dir, "raw"), "jobs_raw", jobs)
}

// SaveFilteredCSV writes the post-scorer batch under <dir>.
func SaveFilteredCSV(dir string, jobs []domain.Job) (string, error) {
	return saveCSV(dir, "jobs", jobs)
}

func saveCSV(dir, prefix string, jobs []domain.Job) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, j := range jobs {
		var score, category, reasoning string
		if j.Classification != nil {
			score = strconv.FormatFloat(j.Classification.RelevanceScore, 'f', 2, 64)
			category = string(j.Classification.Category)
			reasoning = j.Classification.Reasoning
		}
		row := []string{
			j.Title, j.Company, j.Location, j.Link, j.PostedDate, string(j.Source),
			j.TruncatedDescription(), j.Salary, j.SponsorshipInfo, tagsCell(j.Tags),
			score, category, reasoning,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// tagsCell JSON-encodes the tag list so a comma inside one tag survives
// the dump/load round-trip.
func tagsCell(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// LatestRawCSV finds the newest raw dump, for reprocessing without a
// re-crawl. Timestamped names sort lexically, so the max name is newest.
func LatestRawCSV(dir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "raw"))
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no raw csv files in %s", filepath.Join(dir, "raw"))
	}
	sort.Strings(names)
	return filepath.Join(dir, "raw", names[len(names)-1]), nil
}

// LoadCSV reads a dump back into normalized records.
func LoadCSV(path string) ([]domain.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var jobs []domain.Job
	for _, row := range records[1:] {
		j := domain.Job{
			Title:           get(row, "title"),
			Company:         get(row, "company"),
			Location:        get(row, "location"),
			Link:            get(row, "link"),
			PostedDate:      get(row, "posted_date"),
			Source:          domain.Source(get(row, "source")),
			Description:     get(row, "description"),
			Salary:          get(row, "salary"),
			SponsorshipInfo: get(row, "sponsorship_info"),
		}
		if tags := strings.TrimSpace(get(row, "tags")); tags != "" {
			if strings.HasPrefix(tags, "[") {
				_ = json.Unmarshal([]byte(tags), &j.Tags)
			} else {
				// Dumps written before tags were JSON-encoded.
				for _, t := range strings.Split(tags, ",") {
					if t = strings.TrimSpace(t); t != "" {
						j.Tags = append(j.Tags, t)
					}
				}
			}
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}
