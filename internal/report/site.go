package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"aijobs-engine/internal/store"
)

// ExportSiteJSON dumps the cumulative store as docs/jobs.json for the
// static site.
func ExportSiteJSON(ctx context.Context, db *sql.DB, docsDir string) (string, error) {
	rows, err := store.List(ctx, db, 0)
	if err != nil {
		return "", err
	}
	if rows == nil {
		rows = []store.Row{}
	}

	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(docsDir, "jobs.json")

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
