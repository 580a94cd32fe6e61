package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ResultsDB is a SQLite index of recorded runs and their per-item results,
// so placements evaluated on different days can be compared.
type ResultsDB struct {
	db *sql.DB
}

// OpenResultsDB opens (creating if needed) the index at path.
func OpenResultsDB(path string) (*ResultsDB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ResultsDB{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			shape TEXT NOT NULL,
			adjacency TEXT NOT NULL,
			workers INTEGER NOT NULL,
			items INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			mean_max_steps REAL NOT NULL,
			max_steps INTEGER NOT NULL,
			grand_total_steps INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			summary_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS item_results (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			item TEXT NOT NULL,
			sources INTEGER NOT NULL,
			sinks INTEGER NOT NULL,
			max_steps INTEGER NOT NULL,
			total_steps INTEGER NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, item)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// RecordRun stores a run and its item rows in one transaction and returns
// the new run's ID.
func (r *ResultsDB) RecordRun(ctx context.Context, run RunRecord, items []ItemRow) (int64, error) {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return 0, fmt.Errorf("marshaling summary: %w", err)
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(label,shape,adjacency,workers,items,failed,mean_max_steps,max_steps,grand_total_steps,elapsed_ms,recorded_at,summary_json)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.Label, run.Shape, run.Adjacency, run.Workers,
		run.Summary.Items, run.Summary.Failed, run.Summary.MaxSteps.Mean, run.Summary.MaxSteps.Max,
		run.Summary.GrandTotalSteps, run.ElapsedMS, run.RecordedAt.UTC().Format(time.RFC3339Nano), string(summaryJSON))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO item_results(run_id,item,sources,sinks,max_steps,total_steps,error) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, it := range items {
		var errText sql.NullString
		if it.Error != "" {
			errText = sql.NullString{String: it.Error, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, it.Item, it.Sources, it.Sinks, it.MaxSteps, it.TotalSteps, errText); err != nil {
			return 0, fmt.Errorf("insert item %q: %w", it.Item, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Runs lists recorded runs, oldest first.
func (r *ResultsDB) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,label,shape,adjacency,workers,elapsed_ms,recorded_at,summary_json FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			run         RunRecord
			recordedAt  string
			summaryJSON string
		)
		if err := rows.Scan(&run.ID, &run.Label, &run.Shape, &run.Adjacency, &run.Workers,
			&run.ElapsedMS, &recordedAt, &summaryJSON); err != nil {
			return nil, err
		}
		if run.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("run %d: bad recorded_at: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
			return nil, fmt.Errorf("run %d: bad summary: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// ItemResults returns the item rows of one run, sorted by item.
func (r *ResultsDB) ItemResults(ctx context.Context, runID int64) ([]ItemRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item,sources,sinks,max_steps,total_steps,error FROM item_results WHERE run_id=? ORDER BY item`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemRow
	for rows.Next() {
		var (
			it      ItemRow
			errText sql.NullString
		)
		if err := rows.Scan(&it.Item, &it.Sources, &it.Sinks, &it.MaxSteps, &it.TotalSteps, &errText); err != nil {
			return nil, err
		}
		it.Error = errText.String
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *ResultsDB) Close() error {
	if r == nil {
		return nil
	}
	return r.db.Close()
}
