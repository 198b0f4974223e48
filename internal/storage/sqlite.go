// Package storage provides SQLite-based persistence for replay runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one evaluated episode. The aggregate fields are filled in by
// SaveRun from the step records.
type RunRecord struct {
	ID          string
	TrackID     string
	Source      string // episode file or generator that produced the run
	Steps       int
	TotalReward float64
	MeanReward  float64
	Degraded    int // steps rejected as invalid snapshots
	CreatedAt   time.Time
}

// StepRecord is the outcome of one step of a run.
type StepRecord struct {
	Step     int
	Reward   float64
	Rules    []string
	Fatal    bool
	Degraded bool
}

// TrackStats contains aggregated statistics for a track.
type TrackStats struct {
	TrackID    string
	Runs       int
	BestMean   float64
	AvgMean    float64
	TotalSteps int64
	LastRun    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrate brings the schema up to the latest embedded migration.
func (s *Store) migrate() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version. A fresh database
// without any applied migration reports version 0.
func (s *Store) SchemaVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrate wires the embedded migrations to the open connection. The
// returned instance must not be closed: closing it closes s.db.
func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and its steps in one transaction.
// A new UUID is assigned when run.ID is empty. Returns the run ID.
func (s *Store) SaveRun(run RunRecord, steps []StepRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	run.Steps = len(steps)
	run.TotalReward = 0
	run.Degraded = 0
	for _, st := range steps {
		run.TotalReward += st.Reward
		if st.Degraded {
			run.Degraded++
		}
	}
	run.MeanReward = 0
	if run.Steps > 0 {
		run.MeanReward = run.TotalReward / float64(run.Steps)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(
		`INSERT INTO runs (id, track_id, source, steps, total_reward, mean_reward, degraded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TrackID, run.Source, run.Steps, run.TotalReward, run.MeanReward, run.Degraded,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO step_rewards (run_id, step, reward, rules, fatal, degraded)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare step insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range steps {
		if _, err := stmt.Exec(run.ID, st.Step, st.Reward, strings.Join(st.Rules, "|"), st.Fatal, st.Degraded); err != nil {
			return "", fmt.Errorf("storage: cannot save step %d: %w", st.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, track_id, source, steps, total_reward, mean_reward, degraded, created_at`

// TopRuns retrieves the best N runs for the given track by mean reward.
// An empty trackID matches every track.
func (s *Store) TopRuns(trackID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR track_id = ?
		 ORDER BY mean_reward DESC
		 LIMIT ?`,
		trackID, trackID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a run by its ID. Returns nil if no such run exists.
func (s *Store) GetRun(id string) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RunSteps retrieves the steps of a run in step order.
func (s *Store) RunSteps(runID string) ([]StepRecord, error) {
	rows, err := s.db.Query(
		`SELECT step, reward, rules, fatal, degraded
		 FROM step_rewards
		 WHERE run_id = ?
		 ORDER BY step`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var st StepRecord
		var rules string
		if err := rows.Scan(&st.Step, &st.Reward, &rules, &st.Fatal, &st.Degraded); err != nil {
			return nil, fmt.Errorf("storage: cannot scan step: %w", err)
		}
		if rules != "" {
			st.Rules = strings.Split(rules, "|")
		}
		steps = append(steps, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return steps, nil
}

// ClearRuns deletes all runs and their steps for the given track.
func (s *Store) ClearRuns(trackID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(
		`DELETE FROM step_rewards WHERE run_id IN (SELECT id FROM runs WHERE track_id = ?)`,
		trackID,
	); err != nil {
		return fmt.Errorf("storage: cannot clear steps: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE track_id = ?", trackID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}

// GetTrackStats retrieves aggregated statistics for a specific track.
func (s *Store) GetTrackStats(trackID string) (*TrackStats, error) {
	stats := &TrackStats{TrackID: trackID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(mean_reward), 0), COALESCE(AVG(mean_reward), 0), COALESCE(SUM(steps), 0)
		 FROM runs WHERE track_id = ?`,
		trackID,
	).Scan(&stats.Runs, &stats.BestMean, &stats.AvgMean, &stats.TotalSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get track stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE track_id = ? ORDER BY created_at DESC LIMIT 1`,
		trackID,
	).Scan(&lastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var r RunRecord
	var createdAt any
	err := sc.Scan(&r.ID, &r.TrackID, &r.Source, &r.Steps, &r.TotalReward, &r.MeanReward, &r.Degraded, &createdAt)
	if err == sql.ErrNoRows {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot scan run: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
