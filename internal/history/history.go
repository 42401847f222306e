// Package history stores finished backup runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hinkolas/cobackup/internal/backup"

	// SQLite driver for database/sql
	_ "github.com/mattn/go-sqlite3"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		total INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		data_copy_success INTEGER NOT NULL,
		data_copy_failed INTEGER NOT NULL,
		backup_success INTEGER NOT NULL,
		backup_failed INTEGER NOT NULL,
		archive_success INTEGER NOT NULL,
		archive_failed INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS company_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		company TEXT NOT NULL,
		friendly_name TEXT,
		data_copy TEXT NOT NULL,
		backup TEXT NOT NULL,
		latest_file TEXT,
		archive TEXT NOT NULL,
		remarks TEXT,
		archive_path TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_company_results_run_id ON company_results(run_id)`,
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it and its parent directory
// when missing, and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run with one row per company.
func (s *Store) Record(ctx context.Context, sum *backup.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// UTC keeps the text ordering of started_at chronological
	t := sum.Totals
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, total, skipped,
			data_copy_success, data_copy_failed, backup_success, backup_failed,
			archive_success, archive_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sum.RunID, sum.Started.UTC(), sum.Finished.UTC(), t.Total, t.Skipped,
		t.DataCopy.Success, t.DataCopy.Failed, t.Backup.Success, t.Backup.Failed,
		t.Archive.Success, t.Archive.Failed)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, st := range sum.Statuses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO company_results (run_id, company, friendly_name, data_copy, backup,
				latest_file, archive, remarks, archive_path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sum.RunID, st.Code, st.FriendlyName, st.DataCopy.String(), st.Backup.String(),
			st.LatestFile, st.Archive.String(), st.RemarkText(), st.ArchivePath)
		if err != nil {
			return fmt.Errorf("insert result for %s: %w", st.Code, err)
		}
	}

	return tx.Commit()
}

// Run is a stored run with its company rows.
type Run struct {
	ID       string
	Started  time.Time
	Finished time.Time
	Totals   backup.Totals
	Results  []Result
}

type Result struct {
	Company      string
	FriendlyName string
	DataCopy     string
	Backup       string
	LatestFile   string
	Archive      string
	Remarks      string
	ArchivePath  string
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, total, skipped,
			data_copy_success, data_copy_failed, backup_success, backup_failed,
			archive_success, archive_failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		t := &r.Totals
		if err := rows.Scan(&r.ID, &r.Started, &r.Finished, &t.Total, &t.Skipped,
			&t.DataCopy.Success, &t.DataCopy.Failed, &t.Backup.Success, &t.Backup.Failed,
			&t.Archive.Success, &t.Archive.Failed); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		results, err := s.results(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}

	return runs, nil
}

func (s *Store) results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company, COALESCE(friendly_name, ''), data_copy, backup,
			COALESCE(latest_file, ''), archive, COALESCE(remarks, ''), COALESCE(archive_path, '')
		FROM company_results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Company, &r.FriendlyName, &r.DataCopy, &r.Backup,
			&r.LatestFile, &r.Archive, &r.Remarks, &r.ArchivePath); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
