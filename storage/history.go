package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"whop-automation/models"
	"whop-automation/utils"
)

// HistoryWriter archives batch-upload results to PostgreSQL. It is an
// optional backend: the pipeline only constructs one when a history DSN
// is configured.
type HistoryWriter struct {
	db *sql.DB
}

// NewHistoryWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use HistoryWriter. The initial
// ping is retried with backoff so a database still starting up does not
// fail the whole process.
func NewHistoryWriter(dsn string, logger *utils.Logger) (*HistoryWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("history db ping", db.Ping); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	hw := &HistoryWriter{db: db}
	if err := hw.migrate(); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return hw, nil
}

func (hw *HistoryWriter) migrate() error {
	_, err := hw.db.Exec(`
		CREATE TABLE IF NOT EXISTS upload_history (
			id         SERIAL PRIMARY KEY,
			run_id     VARCHAR(64)  NOT NULL,
			title      TEXT         NOT NULL,
			listing_id VARCHAR(128) NOT NULL DEFAULT '',
			status     VARCHAR(16)  NOT NULL,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_upload_history_run    ON upload_history(run_id);
		CREATE INDEX IF NOT EXISTS idx_upload_history_status ON upload_history(status);
	`)
	return err
}

// WriteResults batch-inserts the results of one run.
func (hw *HistoryWriter) WriteResults(runID string, results []models.UploadResult) error {
	if len(results) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(results))
	valueArgs := make([]interface{}, 0, len(results)*4)
	for idx, r := range results {
		base := idx * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		valueArgs = append(valueArgs, runID, r.Title, r.ListingID, r.Status)
	}

	query := fmt.Sprintf(`
		INSERT INTO upload_history (run_id, title, listing_id, status)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := hw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// RecentRuns returns the run ids of the most recent batches, newest
// first.
func (hw *HistoryWriter) RecentRuns(limit int) ([]string, error) {
	rows, err := hw.db.Query(`
		SELECT run_id
		FROM upload_history
		GROUP BY run_id
		ORDER BY MAX(created_at) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (hw *HistoryWriter) Close() error {
	return hw.db.Close()
}
