package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists rebuild history to a SQLite database.
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

	// WAL mode so dashboards can read while a rebuild writes.
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
		`CREATE TABLE IF NOT EXISTS rebuilds (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			trigger_type  TEXT,
			built_at      INTEGER,
			duration_ms   INTEGER,
			items         INTEGER,
			empty_items   INTEGER,
			observations  INTEGER,
			indexes_built INTEGER,
			error         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rebuilds_ts ON rebuilds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS index_days (
			built_at   INTEGER NOT NULL,
			index_name TEXT NOT NULL,
			day        TEXT NOT NULL,
			mean_price REAL,
			count      INTEGER,
			volume     TEXT,
			PRIMARY KEY (index_name, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_index_days_built ON index_days(built_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRebuild(evt *RebuildEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var builtAt int64
	if !evt.BuiltAt.IsZero() {
		builtAt = evt.BuiltAt.Unix()
	}
	_, err := r.db.Exec(`INSERT INTO rebuilds
		(timestamp, trigger_type, built_at, duration_ms, items, empty_items, observations, indexes_built, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Trigger, builtAt, evt.Duration.Milliseconds(),
		evt.Items, evt.EmptyItems, evt.Observations, evt.Indexes, evt.Err,
	)
	return err
}

// RecordIndexDays upserts the daily means of a rebuild; a later rebuild
// overwrites the same index and day.
func (r *SQLiteRecorder) RecordIndexDays(builtAt time.Time, days []IndexDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO index_days
		(built_at, index_name, day, mean_price, count, volume)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(index_name, day) DO UPDATE SET
			built_at = excluded.built_at,
			mean_price = excluded.mean_price,
			count = excluded.count,
			volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ts := builtAt.Unix()
	for _, d := range days {
		if _, err := stmt.Exec(ts, d.Index, d.Date, d.Mean, d.Count, d.Volume); err != nil {
			return fmt.Errorf("insert %s/%s: %w", d.Index, d.Date, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
