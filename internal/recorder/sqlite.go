package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder appends every ingested sample to a SQLite audit table.
type SQLiteRecorder struct {
	db    *sql.DB
	mu    sync.Mutex
	runID string
	log   logrus.FieldLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// Rows written by this process share one run id.
func NewSQLiteRecorder(dbPath string, logger logrus.FieldLogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets dashboards read while the poller writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString(), log: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Infof("sqlite recorder opened: %s (run %s)", dbPath, r.runID)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS gas_samples (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			slow          INTEGER,
			standard      INTEGER NOT NULL,
			fast          INTEGER,
			trend         TEXT,
			label         TEXT,
			confidence    INTEGER,
			average_price INTEGER,
			recorded_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_gas_samples_ts ON gas_samples(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RunID identifies the rows written by this recorder.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) RecordSample(snap *SampleSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := snap.Sample
	rec := snap.Recommendation
	_, err := r.db.Exec(`INSERT INTO gas_samples
		(run_id, timestamp, slow, standard, fast, trend, label, confidence, average_price, recorded_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.runID, s.Timestamp, s.Slow, s.Standard, s.Fast,
		string(snap.Trend), string(rec.Label), rec.Confidence, rec.AveragePrice,
		time.Now().Unix(),
	)
	return err
}

// CountSamples returns the number of rows written under this run id.
func (r *SQLiteRecorder) CountSamples() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM gas_samples WHERE run_id = ?`, r.runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
