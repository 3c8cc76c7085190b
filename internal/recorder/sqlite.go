package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"EquityScreener/internal/model"
)

// SQLiteRecorder persists runs and their ranked candidates to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while runs are being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS screen_runs (
			id              TEXT PRIMARY KEY,
			strategy        TEXT NOT NULL,
			live            INTEGER NOT NULL,
			started_at      INTEGER NOT NULL,
			duration_ms     INTEGER,
			universe_size   INTEGER,
			candidate_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON screen_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS run_candidates (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES screen_runs(id),
			position   INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			name       TEXT,
			price      REAL,
			score      REAL,
			near_level TEXT,
			reasons    TEXT,
			metrics    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run ON run_candidates(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_symbol ON run_candidates(symbol)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun writes the run and every candidate in rank order in one transaction.
func (r *SQLiteRecorder) RecordRun(run *model.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	live := 0
	if run.Live {
		live = 1
	}
	if _, err := tx.Exec(`INSERT INTO screen_runs
		(id, strategy, live, started_at, duration_ms, universe_size, candidate_count)
		VALUES (?,?,?,?,?,?,?)`,
		run.ID, string(run.Strategy), live, run.StartedAt.Unix(),
		run.Duration.Milliseconds(), run.UniverseSize, len(run.Candidates),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO run_candidates
		(run_id, position, symbol, name, price, score, near_level, reasons, metrics)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare candidate insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range run.Candidates {
		metrics, err := metricsJSON(c.Metrics)
		if err != nil {
			return fmt.Errorf("encode metrics for %s: %w", c.Symbol, err)
		}
		if _, err := stmt.Exec(run.ID, i+1, c.Symbol, c.Name, c.Price, c.Score,
			c.NearLevel, strings.Join(c.Reasons, "; "), metrics); err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.Symbol, err)
		}
	}
	return tx.Commit()
}

func metricsJSON(metrics []model.Metric) (string, error) {
	m := make(map[string]model.Num, len(metrics))
	for _, metric := range metrics {
		m[metric.Name] = metric.Value
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
