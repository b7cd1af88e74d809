package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"strings"
	"time"

	"aijobs-engine/internal/domain"
	"aijobs-engine/internal/scrape/util"
)

// Row is one cumulative-store record. Schema v1 includes the optional
// salary/description columns from the start; older rows migrate forward
// with empty defaults.
type Row struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Link           string   `json:"link"`
	PostedDate     string   `json:"posted_date"`
	Source         string   `json:"source"`
	Description    string   `json:"description"`
	Salary         string   `json:"salary"`
	Tags           []string `json:"tags"`
	RelevanceScore float64  `json:"relevance_score"`
	Category       string   `json:"category"`
	FirstSeen      string   `json:"first_seen"`
	LastSeen       string   `json:"last_seen"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL,
  posted_date TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  relevance_score REAL NOT NULL DEFAULT 0,
  category TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_link ON jobs(link);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_last_seen ON jobs(last_seen);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// Upsert merges a job into the cumulative store keyed by its canonical
// link: new links insert, duplicates overwrite (last write wins) while
// keeping first_seen. A job without a link has no merge key and is
// skipped; otherwise every link-less job would collapse into one row.
// Returns whether the row was newly inserted.
func Upsert(ctx context.Context, db *sql.DB, job domain.Job) (added bool, err error) {
	link := util.CanonicalLink(job.Link)
	if link == "" {
		link = job.Link
	}
	if strings.TrimSpace(link) == "" {
		log.Printf("[store] skipping %q: no link to merge on", job.Title)
		return false, nil
	}

	var score float64
	var category string
	tags := job.Tags
	if job.Classification != nil {
		score = job.Classification.RelevanceScore
		category = string(job.Classification.Category)
		if len(job.Classification.Tags) > 0 {
			tags = job.Classification.Tags
		}
	}
	if tags == nil {
		tags = []string{}
	}
	tagsB, _ := json.Marshal(tags)

	now := time.Now().UTC().Format(time.RFC3339)

	// Single writer by construction, so a pre-check is enough to tell
	// insert from overwrite.
	var exists int
	_ = db.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE link = ? LIMIT 1;`, link).Scan(&exists)

	_, err = db.ExecContext(ctx, `
INSERT INTO jobs(title, company, location, link, posted_date, source, description, salary, tags, relevance_score, category, first_seen, last_seen)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(link) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  posted_date = excluded.posted_date,
  source = excluded.source,
  description = excluded.description,
  salary = excluded.salary,
  tags = excluded.tags,
  relevance_score = excluded.relevance_score,
  category = excluded.category,
  last_seen = excluded.last_seen;`,
		job.Title, job.Company, job.Location, link, job.PostedDate, string(job.Source),
		job.TruncatedDescription(), job.Salary, string(tagsB), score, category, now, now,
	)
	if err != nil {
		return false, err
	}
	return exists == 0, nil
}

// List returns the cumulative store ordered by last_seen, newest first.
func List(ctx context.Context, db *sql.DB, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, title, company, location, link, posted_date, source, description, salary, tags, relevance_score, category, first_seen, last_seen
FROM jobs
ORDER BY last_seen DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var tagsJSON string
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Company, &r.Location, &r.Link, &r.PostedDate, &r.Source,
			&r.Description, &r.Salary, &tagsJSON, &r.RelevanceScore, &r.Category,
			&r.FirstSeen, &r.LastSeen,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count reports how many rows the cumulative store holds.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}
