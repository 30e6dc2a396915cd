package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qbridge/internal/ir"
)

const buildColumns = `id, program_name, program_hash, snapshot_hash, snapshot, seq, ir_version`

// ReadBuild returns one build. Returns an error wrapping ErrNotFound if the
// build does not exist.
func (s *Store) ReadBuild(ctx context.Context, id string) (ir.BuildRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.BuildRecord{}, fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.BuildRecord{}, fmt.Errorf("read build %s: %w", id, err)
	}
	return b, nil
}

// LatestBuild returns the most recent build of a program.
func (s *Store) LatestBuild(ctx context.Context, programName string) (ir.BuildRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE program_name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, programName)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.BuildRecord{}, fmt.Errorf("program %s: %w", programName, ErrNotFound)
	}
	if err != nil {
		return ir.BuildRecord{}, fmt.Errorf("latest build %s: %w", programName, err)
	}
	return b, nil
}

// ListBuilds returns builds in seq order. An empty programName lists every
// build. Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListBuilds(ctx context.Context, programName string) ([]ir.BuildRecord, error) {
	query := `SELECT ` + buildColumns + ` FROM builds`
	var args []any
	if programName != "" {
		query += ` WHERE program_name = ?`
		args = append(args, programName)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []ir.BuildRecord{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// ReadGates returns a build's gate records in declaration order.
func (s *Store) ReadGates(ctx context.Context, buildID string) ([]ir.GateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT build_id, position, type, name, num_params, num_qubits, constructor, bound
		FROM gates
		WHERE build_id = ?
		ORDER BY position ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query gates: %w", err)
	}
	defer rows.Close()

	gates := []ir.GateRecord{}
	for rows.Next() {
		var g ir.GateRecord
		if err := rows.Scan(&g.BuildID, &g.Position, &g.Type, &g.Name, &g.NumParams, &g.NumQubits, &g.Constructor, &g.Bound); err != nil {
			return nil, fmt.Errorf("scan gate: %w", err)
		}
		gates = append(gates, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gates: %w", err)
	}
	return gates, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (ir.BuildRecord, error) {
	var b ir.BuildRecord
	err := row.Scan(&b.ID, &b.ProgramName, &b.ProgramHash, &b.SnapshotHash, &b.Snapshot, &b.Seq, &b.IRVersion)
	return b, err
}
