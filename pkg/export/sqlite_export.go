// Package export writes journal reports and data snapshots: a markdown
// report, a standalone HTML guide, a SQLite database for ad-hoc querying,
// and SVG/PNG charts.
package export

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/model"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion identifies the exported database layout.
const SchemaVersion = 2

// SQLiteExporter writes the journal to a SQLite database so entries and
// their metrics can be queried outside the TUI.
type SQLiteExporter struct {
	Entries []model.Entry
	Title   string
}

// NewSQLiteExporter creates an exporter over the given entries.
func NewSQLiteExporter(entries []model.Entry) *SQLiteExporter {
	return &SQLiteExporter{
		Entries: entries,
		Title:   "Dream Journal",
	}
}

// Export writes the SQLite database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	// Remove existing database if present
	_ = os.Remove(path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := createSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := e.insertEntries(db); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	if err := e.insertMetricValues(db); err != nil {
		return fmt.Errorf("insert metric values: %w", err)
	}

	if err := e.insertSymbolEdges(db); err != nil {
		return fmt.Errorf("insert symbol edges: %w", err)
	}

	// FTS5 may not be available in all SQLite builds - log but continue
	if err := createFTSIndex(db); err != nil {
		fmt.Printf("Warning: FTS5 not available: %v\n", err)
	}

	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := optimizeDatabase(db); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}

	return db.Close()
}

// createSchema creates the exported tables and their indexes.
func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE entries (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			kind TEXT NOT NULL,
			date TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			lucid INTEGER NOT NULL,
			recall REAL,
			symbols TEXT,
			characters TEXT,
			tags TEXT
		)`,
		`CREATE TABLE metric_values (
			entry_path TEXT NOT NULL REFERENCES entries(path),
			metric TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (entry_path, metric)
		)`,
		`CREATE TABLE symbol_edges (
			a TEXT NOT NULL,
			b TEXT NOT NULL,
			weight INTEGER NOT NULL,
			PRIMARY KEY (a, b)
		)`,
		`CREATE TABLE meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX idx_entries_date ON entries(date)`,
		`CREATE INDEX idx_entries_kind ON entries(kind)`,
		`CREATE INDEX idx_metric_values_metric ON metric_values(metric)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// insertEntries inserts all entries into the database.
func (e *SQLiteExporter) insertEntries(db *sql.DB) error {
	scores := analysis.ComputeRecallScores(e.Entries)
	recallByPath := make(map[string]float64, len(scores))
	for _, s := range scores {
		recallByPath[s.Path] = s.Score
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO entries (path, title, kind, date, word_count, lucid, recall, symbols, characters, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range e.Entries {
		lucid := 0
		if entry.Lucid() {
			lucid = 1
		}

		_, err := stmt.Exec(
			entry.Path,
			entry.Title,
			string(entry.Kind),
			entry.Date.Format(time.RFC3339),
			entry.WordCount,
			lucid,
			recallByPath[entry.Path],
			jsonList(entry.Symbols),
			jsonList(entry.Characters),
			jsonList(entry.Tags),
		)
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", entry.Path, err)
		}
	}

	return tx.Commit()
}

// insertMetricValues inserts one row per recorded metric value.
func (e *SQLiteExporter) insertMetricValues(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO metric_values (entry_path, metric, value)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range e.Entries {
		for name, value := range entry.Metrics {
			if _, err := stmt.Exec(entry.Path, name, value); err != nil {
				return fmt.Errorf("insert metric %s for %s: %w", name, entry.Path, err)
			}
		}
	}

	return tx.Commit()
}

// insertSymbolEdges inserts the co-occurrence network.
func (e *SQLiteExporter) insertSymbolEdges(db *sql.DB) error {
	pairs := analysis.NewSymbolAnalyzer(e.Entries).Pairs()
	if len(pairs) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO symbol_edges (a, b, weight)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, pair := range pairs {
		if _, err := stmt.Exec(pair.A, pair.B, pair.Weight); err != nil {
			return fmt.Errorf("insert edge %s-%s: %w", pair.A, pair.B, err)
		}
	}

	return tx.Commit()
}

// createFTSIndex builds a full-text index over entry titles and symbol
// vocabulary. Callers treat failure as non-fatal.
func createFTSIndex(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE VIRTUAL TABLE entries_fts USING fts5(path, title, symbols, characters, tags)
	`); err != nil {
		return err
	}
	_, err := db.Exec(`
		INSERT INTO entries_fts (path, title, symbols, characters, tags)
		SELECT path, title, symbols, characters, tags FROM entries
	`)
	return err
}

// insertMeta inserts export metadata.
func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	meta := map[string]string{
		"version":        "1.0.0",
		"generated_at":   time.Now().UTC().Format(time.RFC3339),
		"entry_count":    fmt.Sprintf("%d", len(e.Entries)),
		"schema_version": fmt.Sprintf("%d", SchemaVersion),
	}
	if e.Title != "" {
		meta["title"] = e.Title
	}

	stmt, err := db.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range meta {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	return nil
}

// optimizeDatabase compacts the file and refreshes planner statistics.
func optimizeDatabase(db *sql.DB) error {
	for _, stmt := range []string{"ANALYZE", "VACUUM"} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// jsonList marshals a string slice for a TEXT column, "[]" when empty.
func jsonList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}
