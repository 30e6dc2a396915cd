package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qbridge/internal/ir"
)

// ErrNotFound is returned when a build does not exist.
var ErrNotFound = errors.New("not found")

// WriteBuild stores a build and its gate records in one transaction.
//
// Writing the same build twice is a no-op (ON CONFLICT(id) DO NOTHING for the
// build, ON CONFLICT DO NOTHING for its gates). Gate records must belong to
// the build.
func (s *Store) WriteBuild(ctx context.Context, build ir.BuildRecord, gates []ir.GateRecord) error {
	for _, g := range gates {
		if g.BuildID != build.ID {
			return fmt.Errorf("write build %s: gate %s belongs to build %s", build.ID, g.Name, g.BuildID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write build %s: begin: %w", build.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds
		(id, program_name, program_hash, snapshot_hash, snapshot, seq, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		build.ID,
		build.ProgramName,
		build.ProgramHash,
		build.SnapshotHash,
		build.Snapshot,
		build.Seq,
		build.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write build %s: %w", build.ID, err)
	}

	for _, g := range gates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO gates
			(build_id, position, type, name, num_params, num_qubits, constructor, bound)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			g.BuildID,
			g.Position,
			g.Type,
			g.Name,
			g.NumParams,
			g.NumQubits,
			g.Constructor,
			g.Bound,
		)
		if err != nil {
			return fmt.Errorf("write build %s: gate %s: %w", build.ID, g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write build %s: commit: %w", build.ID, err)
	}
	return nil
}

// MaxSeq returns the highest build seq, or 0 for an empty archive.
// Seed importer.NewClockAt with it to continue numbering.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM builds`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}
