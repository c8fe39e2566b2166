package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/pkg/logger"
	"github.com/okian/derby/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	name       TEXT PRIMARY KEY,
	style      TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS players (
	team     TEXT NOT NULL REFERENCES teams(name) ON DELETE CASCADE,
	idx      INTEGER NOT NULL,
	name     TEXT NOT NULL,
	ovr      INTEGER NOT NULL,
	position TEXT NOT NULL,
	PRIMARY KEY (team, idx)
);`

// SQLiteStore persists teams in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

// OpenSQLite opens the database at path and creates the schema if needed.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	o := buildOptions(opts)

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLiteStore{db: db, logger: o.logger.Named("sqlitestore")}
	n := s.Count(ctx)
	metrics.UpdateTeamsTotal(n)
	s.logger.Info(ctx, "roster database ready", logger.String("path", path), logger.Int("teams", n))
	return s, nil
}

// List returns every team ordered by name.
func (s *SQLiteStore) List(ctx context.Context) (out []roster.Record, err error) {
	defer func(start time.Time) { observe("list", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, t.style, p.name, p.ovr, p.position
		FROM teams t LEFT JOIN players p ON p.team = t.name
		ORDER BY t.name, p.idx`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			team, style string
			pname, pos  sql.NullString
			ovr         sql.NullInt64
		)
		if err := rows.Scan(&team, &style, &pname, &ovr, &pos); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != team {
			out = append(out, roster.Record{Name: team, Style: style, Players: []roster.PlayerRecord{}})
		}
		if pname.Valid {
			last := &out[len(out)-1]
			last.Players = append(last.Players, roster.PlayerRecord{Name: pname.String, Overall: int(ovr.Int64), Position: pos.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	if out == nil {
		out = []roster.Record{}
	}
	return out, nil
}

// Get returns one team.
func (s *SQLiteStore) Get(ctx context.Context, name string) (rec roster.Record, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())

	rec = roster.Record{Name: name, Players: []roster.PlayerRecord{}}
	err = s.db.QueryRowContext(ctx, `SELECT style FROM teams WHERE name = ?`, name).Scan(&rec.Style)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return roster.Record{}, fmt.Errorf("get team %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, ovr, position FROM players WHERE team = ? ORDER BY idx`, name)
	if err != nil {
		return roster.Record{}, fmt.Errorf("get players of %q: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p roster.PlayerRecord
		if err := rows.Scan(&p.Name, &p.Overall, &p.Position); err != nil {
			return roster.Record{}, fmt.Errorf("scan player: %w", err)
		}
		rec.Players = append(rec.Players, p)
	}
	if err := rows.Err(); err != nil {
		return roster.Record{}, fmt.Errorf("iterate players: %w", err)
	}
	return rec, nil
}

// Create saves a new team.
func (s *SQLiteStore) Create(ctx context.Context, rec roster.Record) (err error) {
	defer func(start time.Time) { observe("create", start, err) }(time.Now())
	if err := validate(&rec); err != nil {
		return err
	}
	return s.save(ctx, rec, `INSERT INTO teams (name, style, updated_at) VALUES (?, ?, ?)`)
}

// Put saves a team, replacing any previous squad.
func (s *SQLiteStore) Put(ctx context.Context, rec roster.Record) (err error) {
	defer func(start time.Time) { observe("put", start, err) }(time.Now())
	if err := validate(&rec); err != nil {
		return err
	}
	return s.save(ctx, rec, `
		INSERT INTO teams (name, style, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET style = excluded.style, updated_at = excluded.updated_at`)
}

func (s *SQLiteStore) save(ctx context.Context, rec roster.Record, upsert string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, upsert, rec.Name, rec.Style, time.Now().UTC().UnixMilli()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrExists, rec.Name)
		}
		return fmt.Errorf("save team %q: %w", rec.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE team = ?`, rec.Name); err != nil {
		return fmt.Errorf("clear players of %q: %w", rec.Name, err)
	}
	for i, p := range rec.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (team, idx, name, ovr, position) VALUES (?, ?, ?, ?, ?)`,
			rec.Name, i, p.Name, p.Overall, p.Position,
		); err != nil {
			return fmt.Errorf("save player %q: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	metrics.UpdateTeamsTotal(s.Count(ctx))
	return nil
}

// Delete removes a team and, through the foreign key, its players.
func (s *SQLiteStore) Delete(ctx context.Context, name string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete team %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete team %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	metrics.UpdateTeamsTotal(s.Count(ctx))
	return nil
}

// Count returns the number of saved teams, or 0 if the query fails.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n); err != nil {
		s.logger.Error(ctx, "count teams failed", logger.Error(err))
		metrics.RecordStoreError("count")
		return 0
	}
	return n
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
