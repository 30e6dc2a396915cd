// Package store archives finished imports in SQLite.
//
// Two tables:
//   - builds: one row per import, with the canonical circuit snapshot and
//     the program and snapshot content hashes
//   - gates: the reduction of every custom gate a build declared, keyed by
//     (build_id, position), with the constructor stored by qualified name
//
// Builds are ordered by their logical seq, assigned by the importer's clock.
// All list queries use ORDER BY seq ASC, id ASC COLLATE BINARY so results are
// deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
