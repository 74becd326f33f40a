// Package sqlite records simulation runs, their conflict logs and final
// assignments in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/swarmrole/report"
	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/sim"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("sqlite: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	network TEXT NOT NULL,
	agents INTEGER NOT NULL,
	roles INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	tie_break TEXT NOT NULL,
	seed INTEGER NOT NULL,
	trial INTEGER NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL,
	steps INTEGER NOT NULL,
	conflicts INTEGER NOT NULL,
	delivered INTEGER NOT NULL,
	last_error TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_network ON runs(network, created_at);

CREATE TABLE IF NOT EXISTS run_conflicts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	winner INTEGER NOT NULL,
	loser INTEGER NOT NULL,
	role INTEGER NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_run_conflicts_run ON run_conflicts(run_id, step);

CREATE TABLE IF NOT EXISTS run_assignments (
	run_id TEXT NOT NULL,
	agent INTEGER NOT NULL,
	role INTEGER NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY(run_id, agent),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

// Run is one stored run summary.
type Run struct {
	ID        uuid.UUID
	Network   string
	Agents    int
	Roles     int
	Strategy  string
	TieBreak  string
	Seed      int64
	Trial     int
	Outcome   string
	Steps     int
	Conflicts int
	Delivered int
	LastError string
	CreatedAt time.Time
}

// Meta describes the configuration a run was started with.
type Meta struct {
	Network  string
	Strategy string
	TieBreak string
	Seed     int64
	Trial    int
	Roles    int
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set sqlite pragma %q: %w", stmt, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// SaveRun stores the summary, conflict log and final ledger of res in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, meta Meta, res *sim.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lastErr := ""
	if res.Err != nil {
		lastErr = res.Err.Error()
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs(
			id, network, agents, roles, strategy, tie_break, seed, trial,
			outcome, steps, conflicts, delivered, last_error, created_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID.String(), meta.Network, len(res.Snapshot.Agents), meta.Roles,
		meta.Strategy, meta.TieBreak, meta.Seed, meta.Trial,
		res.Outcome.String(), res.Steps, len(res.Conflicts), res.Traffic.Delivered,
		lastErr, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range res.Conflicts {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_conflicts(run_id, step, winner, loser, role) VALUES(?, ?, ?, ?, ?)`,
			res.RunID.String(), c.Step, c.Winner, c.Loser, c.Role,
		); err != nil {
			return fmt.Errorf("insert conflict: %w", err)
		}
	}
	for _, e := range res.Snapshot.Agents {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_assignments(run_id, agent, role, status) VALUES(?, ?, ?, ?)`,
			res.RunID.String(), e.Agent, e.Role, e.Status.String(),
		); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}

const runColumns = `id, network, agents, roles, strategy, tie_break, seed, trial,
	outcome, steps, conflicts, delivered, last_error, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		id      string
		created int64
	)
	if err := row.Scan(
		&id, &r.Network, &r.Agents, &r.Roles, &r.Strategy, &r.TieBreak, &r.Seed, &r.Trial,
		&r.Outcome, &r.Steps, &r.Conflicts, &r.Delivered, &r.LastError, &created,
	); err != nil {
		return Run{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("parse run id %q: %w", id, err)
	}
	r.ID = parsed
	r.CreatedAt = time.UnixMilli(created).UTC()
	return r, nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id.String())
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns the runs of network, oldest first; an empty network lists
// every run.
func (s *Store) ListRuns(ctx context.Context, network string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if network != "" {
		query += ` WHERE network = ?`
		args = append(args, network)
	}
	query += ` ORDER BY created_at ASC, trial ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) ListConflicts(ctx context.Context, runID uuid.UUID) ([]role.Conflict, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT step, winner, loser, role FROM run_conflicts WHERE run_id = ? ORDER BY id ASC`,
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	defer rows.Close()

	var out []role.Conflict
	for rows.Next() {
		var c role.Conflict
		if err := rows.Scan(&c.Step, &c.Winner, &c.Loser, &c.Role); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conflicts: %w", err)
	}
	return out, nil
}

func (s *Store) ListAssignments(ctx context.Context, runID uuid.UUID) ([]report.Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT agent, role, status FROM run_assignments WHERE run_id = ? ORDER BY agent ASC`,
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []report.Entry
	for rows.Next() {
		var (
			e      report.Entry
			status string
		)
		if err := rows.Scan(&e.Agent, &e.Role, &status); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if e.Status, err = role.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

// OutcomeCounts tallies the stored runs of network by outcome.
func (s *Store) OutcomeCounts(ctx context.Context, network string) (map[string]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT outcome, COUNT(*) FROM runs WHERE network = ? GROUP BY outcome`,
		network,
	)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return counts, nil
}
