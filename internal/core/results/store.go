// Package results persists scan output across runs. Each run appends its
// match records and EV rows; the store is size-capped FIFO so long-running
// deployments never grow without bound.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkelly/plusev/internal/core/market"
	"github.com/pkelly/plusev/internal/core/match"
	"github.com/pkelly/plusev/internal/telemetry"

	_ "modernc.org/sqlite"
)

const (
	maxStoreBytes  int64   = 1 << 28 // 256 MiB
	evictPct       float64 = 0.10    // evict oldest 10% of rows
	vacuumInterval         = 10      // incremental vacuum every N evictions
)

// Store persists EV opportunities in a FIFO SQLite database. Oldest rows
// are evicted when the size budget is exceeded.
type Store struct {
	db           *sql.DB
	mu           sync.Mutex
	cachedSize   int64
	rowCount     int64
	evictCounter int
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create results store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	var avMode int
	if err := db.QueryRow(`PRAGMA auto_vacuum`).Scan(&avMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("read auto_vacuum: %w", err)
	}
	if avMode != 2 {
		if _, err := db.Exec(`PRAGMA auto_vacuum = INCREMENTAL`); err != nil {
			db.Close()
			return nil, fmt.Errorf("set auto_vacuum: %w", err)
		}
		if _, err := db.Exec(`VACUUM`); err != nil {
			telemetry.Warnf("results store: VACUUM to enable auto_vacuum failed: %v", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results schema: %w", err)
	}

	var size int64
	db.QueryRow(`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`).Scan(&size)
	var rowCount int64
	db.QueryRow(`SELECT COUNT(*) FROM opportunities`).Scan(&rowCount)

	telemetry.Plainf("results store: opened %s  size=%d  rows=%d", path, size, rowCount)
	return &Store{db: db, cachedSize: size, rowCount: rowCount}, nil
}

const schema = `CREATE TABLE IF NOT EXISTS opportunities (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	event_id    TEXT    NOT NULL,
	game_id     TEXT    NOT NULL,
	sport       TEXT    NOT NULL,
	orientation TEXT    NOT NULL,
	match_score INTEGER NOT NULL,
	home_team   TEXT    NOT NULL,
	away_team   TEXT    NOT NULL,

	market      TEXT    NOT NULL,
	period      INTEGER NOT NULL,
	selection   TEXT    NOT NULL,
	line        REAL,
	fair_american      INTEGER NOT NULL,
	secondary_american INTEGER NOT NULL,
	ev_ratio    REAL    NOT NULL,
	max_limit   REAL,
	bet         TEXT    NOT NULL,

	created_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_opportunities_event ON opportunities(event_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_run   ON opportunities(run_id)`

// InsertOpportunity stores one EV row under its match record and returns
// the row ID.
func (s *Store) InsertOpportunity(runID string, rec match.Record, op market.Opportunity) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO opportunities (
			run_id, event_id, game_id, sport, orientation, match_score,
			home_team, away_team,
			market, period, selection, line, fair_american, secondary_american,
			ev_ratio, max_limit, bet, created_at
		) VALUES (?,?,?,?,?,?, ?,?, ?,?,?,?,?,?, ?,?,?,?)`,
		runID, rec.EventID, rec.GameID, string(rec.Sport), string(rec.Orientation), rec.Score,
		op.HomeTeam, op.AwayTeam,
		op.Market, op.Period, op.Selection, op.Line, op.ReferenceFairAmerican, op.SecondaryAmerican,
		op.EVRatio, op.MaxLimit, op.Bet,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert opportunity: %w", err)
	}

	id, _ := res.LastInsertId()
	s.rowCount++
	s.refreshSize()
	if s.cachedSize > maxStoreBytes {
		s.evict()
	}
	return id, nil
}

// OpportunityRow is the stored form of one EV row.
type OpportunityRow struct {
	ID                int64
	RunID             string
	EventID           string
	GameID            string
	Market            string
	Period            int
	Selection         string
	Line              sql.NullFloat64
	FairAmerican      int
	SecondaryAmerican int
	EVRatio           float64
	Bet               string
	CreatedAt         string
}

// RecentOpportunities returns the newest rows, newest first.
func (s *Store) RecentOpportunities(limit int) ([]OpportunityRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, run_id, event_id, game_id, market, period, selection, line,
			fair_american, secondary_american, ev_ratio, bet, created_at
		 FROM opportunities ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpportunityRow
	for rows.Next() {
		var r OpportunityRow
		if err := rows.Scan(&r.ID, &r.RunID, &r.EventID, &r.GameID,
			&r.Market, &r.Period, &r.Selection, &r.Line,
			&r.FairAmerican, &r.SecondaryAmerican, &r.EVRatio, &r.Bet, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// refreshSize re-reads the database file size from SQLite pragmas.
// Must be called with s.mu held.
func (s *Store) refreshSize() {
	var size int64
	row := s.db.QueryRow(`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`)
	if err := row.Scan(&size); err == nil {
		s.cachedSize = size
	}
}

// evict deletes the oldest rows by count.
// Must be called with s.mu held.
func (s *Store) evict() {
	toDelete := int64(float64(s.rowCount) * evictPct)
	if toDelete < 1 {
		toDelete = 1
	}

	res, err := s.db.Exec(
		`DELETE FROM opportunities WHERE id IN (
			SELECT id FROM opportunities ORDER BY id ASC LIMIT ?
		)`, toDelete,
	)
	if err != nil {
		telemetry.Warnf("results store evict: %v", err)
		return
	}

	deleted, _ := res.RowsAffected()
	s.rowCount -= deleted
	s.evictCounter++

	telemetry.Infof("results store: evicted %d rows (target %d)", deleted, toDelete)

	if s.evictCounter%vacuumInterval == 0 {
		s.db.Exec(`PRAGMA incremental_vacuum`)
	}

	s.refreshSize()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
