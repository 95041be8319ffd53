package freshtabs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

// fillTitlesFromHistory resolves empty titles against the profile's History
// database. Lookup failures are warnings only; the records come back unchanged
// in that case.
func fillTitlesFromHistory(ctx context.Context, dbPath string, records []Record) ([]Record, []string) {
	seen := make(map[string]struct{})
	var missing []string
	for _, r := range records {
		if r.Title != "" || r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		missing = append(missing, r.URL)
	}
	if len(missing) == 0 {
		return records, nil
	}

	titles, warnings := historyTitles(ctx, dbPath, missing)
	if len(titles) == 0 {
		return records, warnings
	}

	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		if out[i].Title != "" {
			continue
		}
		if title, ok := titles[out[i].URL]; ok {
			out[i].Title = title
		}
	}
	return out, warnings
}

func historyTitles(ctx context.Context, dbPath string, urls []string) (map[string]string, []string) {
	snapshotPath, cleanup, warnings, err := openSnapshotReadOnly(ctx, dbPath)
	if err != nil {
		return nil, warnings
	}
	defer cleanup()

	db, err := openDB(ctx, snapshotPath)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("freshtabs: failed to open History DB: %v", err))
	}
	defer func() { _ = db.Close() }()

	titles, err := historyReadTitles(ctx, db, urls)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("freshtabs: failed to read History DB: %v", err))
	}
	return titles, warnings
}

// openSnapshotReadOnly copies the database to a temp dir before opening it: a
// running browser holds History locked and we must never contend for it.
func openSnapshotReadOnly(ctx context.Context, dbPath string) (snapshotPath string, cleanup func(), warnings []string, err error) {
	_ = ctx
	dir, err := os.MkdirTemp("", "freshtabs-history-")
	if err != nil {
		return "", nil, nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, "History")
	if err := copyFile(dbPath, target); err != nil {
		warnings = append(warnings, fmt.Sprintf("freshtabs: failed to copy History DB: %v", err))
		cleanup()
		return "", nil, warnings, err
	}

	// If WAL mode is enabled, recent writes may live in sidecars.
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, warnings, nil
}

func openDB(ctx context.Context, snapshotPath string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(snapshotPath) + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func historyReadTitles(ctx context.Context, db *sql.DB, urls []string) (map[string]string, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if len(urls) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(urls)), ",")
	args := make([]any, 0, len(urls))
	for _, u := range urls {
		args = append(args, u)
	}
	query := strings.Join([]string{
		`SELECT url, title`,
		`FROM urls`,
		`WHERE url IN (` + placeholders + `)`,
		`ORDER BY last_visit_time DESC`,
	}, " ")

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string, len(urls))
	for rows.Next() {
		var url string
		var title sql.NullString
		if err := rows.Scan(&url, &title); err != nil {
			return nil, err
		}
		if !title.Valid || title.String == "" {
			continue
		}
		// Rows arrive newest first; keep the most recent title per URL.
		if _, ok := out[url]; ok {
			continue
		}
		out[url] = title.String
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
