package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ckuran148/Jolt/pkg/types"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS daypart_history (
	location_id        TEXT    NOT NULL,
	location_name      TEXT    NOT NULL,
	date               TEXT    NOT NULL,
	daypart            TEXT    NOT NULL,
	status             TEXT    NOT NULL,
	integrity          INTEGER,
	duration_seconds   INTEGER,
	corrective_actions INTEGER NOT NULL DEFAULT 0,
	sanitizer          TEXT    NOT NULL DEFAULT '',
	recorded_at        INTEGER NOT NULL,
	PRIMARY KEY (location_id, date, daypart)
);
CREATE INDEX IF NOT EXISTS idx_daypart_history_date ON daypart_history(date);
`

const upsertSQL = `
INSERT INTO daypart_history
	(location_id, location_name, date, daypart, status, integrity, duration_seconds,
	 corrective_actions, sanitizer, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (location_id, date, daypart) DO UPDATE SET
	location_name      = excluded.location_name,
	status             = excluded.status,
	integrity          = excluded.integrity,
	duration_seconds   = excluded.duration_seconds,
	corrective_actions = excluded.corrective_actions,
	sanitizer          = excluded.sanitizer,
	recorded_at        = excluded.recorded_at`

// Record is one daypart outcome of one location on one day.
type Record struct {
	LocationID        string    `json:"location_id"`
	LocationName      string    `json:"location_name"`
	Date              string    `json:"date"`
	Daypart           string    `json:"daypart"`
	Status            string    `json:"status"`
	Integrity         *int      `json:"integrity,omitempty"`
	DurationSeconds   *int64    `json:"duration_seconds,omitempty"`
	CorrectiveActions int       `json:"corrective_actions"`
	Sanitizer         string    `json:"sanitizer"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// Store persists daypart records in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
// path may be ":memory:".
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %q: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps
	// ":memory:" databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts one row per daypart of r. Reports carrying a collection
// error are skipped so a failed poll does not overwrite real outcomes.
func (s *Store) Record(ctx context.Context, r *types.StoreReport) error {
	if r.Error != "" || r.Date == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().Unix()
	for _, c := range r.Dayparts {
		var integrity, duration any
		if c.IntegrityScore != nil {
			integrity = *c.IntegrityScore
		}
		if c.DurationSeconds != nil {
			duration = *c.DurationSeconds
		}
		if _, err := stmt.ExecContext(ctx,
			r.LocationID, r.LocationName, r.Date, c.Daypart, c.Status,
			integrity, duration, c.CorrectiveActions, r.Sanitizer, now,
		); err != nil {
			return fmt.Errorf("history: upsert %s/%s/%s: %w", r.LocationID, r.Date, c.Daypart, err)
		}
	}
	return tx.Commit()
}

// Range returns the records of locationID with from <= date <= to
// (YYYY-MM-DD, inclusive), ordered by date then daypart. Empty bounds are
// open.
func (s *Store) Range(ctx context.Context, locationID, from, to string) ([]Record, error) {
	if to == "" {
		to = "9999-12-31"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, location_name, date, daypart, status, integrity,
		       duration_seconds, corrective_actions, sanitizer, recorded_at
		FROM daypart_history
		WHERE location_id = ? AND date >= ? AND date <= ?
		ORDER BY date, daypart`, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("history: query %s: %w", locationID, err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec       Record
			integrity sql.NullInt64
			duration  sql.NullInt64
			recorded  int64
		)
		if err := rows.Scan(&rec.LocationID, &rec.LocationName, &rec.Date, &rec.Daypart,
			&rec.Status, &integrity, &duration, &rec.CorrectiveActions, &rec.Sanitizer, &recorded); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if integrity.Valid {
			v := int(integrity.Int64)
			rec.Integrity = &v
		}
		if duration.Valid {
			v := duration.Int64
			rec.DurationSeconds = &v
		}
		rec.RecordedAt = time.Unix(recorded, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Purge deletes records dated before the given day and returns how many
// rows were removed.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM daypart_history WHERE date < ?`, before.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("history: purge: %w", err)
	}
	return res.RowsAffected()
}

// Run purges records older than retention once an hour until ctx is
// cancelled. retention <= 0 keeps everything.
func (s *Store) Run(ctx context.Context, retention time.Duration) {
	if retention <= 0 {
		return
	}
	t := time.NewTicker(time.Hour)
	defer t.Stop()

	for {
		if n, err := s.Purge(ctx, s.now().Add(-retention)); err != nil {
			slog.Error("history: purge failed", "err", err)
		} else if n > 0 {
			slog.Info("history: purged old records", "count", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
