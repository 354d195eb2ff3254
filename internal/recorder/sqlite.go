package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			trigger_type     TEXT,
			symbol           TEXT,
			selection        TEXT,
			sentiment_score  REAL,
			sentiment_label  TEXT,
			current_price    REAL,
			trailing_average REAL,
			trailing_minimum REAL,
			score            INTEGER,
			recommendation   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(rec *EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sel, err := json.Marshal(rec.Selection)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = r.db.Exec(`INSERT INTO evaluations
		(id, timestamp, trigger_type, symbol, selection, sentiment_score, sentiment_label,
		 current_price, trailing_average, trailing_minimum, score, recommendation)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, ts.Unix(), string(rec.Trigger), rec.Symbol, string(sel),
		rec.SentimentScore, rec.SentimentLabel,
		rec.CurrentPrice, rec.TrailingAverage, rec.TrailingMinimum,
		rec.Score, rec.Recommendation,
	)
	return err
}

// Recent returns the latest evaluations, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]EvaluationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, trigger_type, symbol, selection, sentiment_score,
		sentiment_label, current_price, trailing_average, trailing_minimum, score, recommendation
		FROM evaluations ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EvaluationRecord
	for rows.Next() {
		var (
			rec     EvaluationRecord
			ts      int64
			trigger string
			sel     string
			avg     sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &ts, &trigger, &rec.Symbol, &sel, &rec.SentimentScore,
			&rec.SentimentLabel, &rec.CurrentPrice, &avg, &rec.TrailingMinimum,
			&rec.Score, &rec.Recommendation); err != nil {
			return nil, err
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Trigger = Trigger(trigger)
		if avg.Valid {
			v := avg.Float64
			rec.TrailingAverage = &v
		}
		if err := json.Unmarshal([]byte(sel), &rec.Selection); err != nil {
			return nil, fmt.Errorf("decode selection of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
