package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qbridge/internal/compiler"
	"github.com/roach88/qbridge/internal/importer"
	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime/memrt"
	"github.com/roach88/qbridge/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Database         string
	Namespace        string
	LibraryNamespace string
	NoStore          bool

	// IDs overrides the build ID generator (for testing).
	IDs importer.IDGenerator
}

// BuildSummary is the JSON payload of a successful build.
type BuildSummary struct {
	BuildID      string             `json:"build_id,omitempty"`
	Seq          int64              `json:"seq,omitempty"`
	Program      string             `json:"program"`
	ProgramHash  string             `json:"program_hash"`
	SnapshotHash string             `json:"snapshot_hash"`
	Snapshot     ir.CircuitSnapshot `json:"snapshot"`
	Gates        []ir.GateRecord    `json:"gates"`
	Stored       bool               `json:"stored"`
}

// BuildFailure is the error details of a failed build.
type BuildFailure struct {
	Statement int    `json:"statement"`
	Program   string `json:"program"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <program-file>",
		Short: "Build a program in the circuit runtime and archive it",
		Long: `Load a program (.cue, .yaml, .yml or .json), validate it, build the circuit
statement by statement through the runtime facade, and archive the result.

Exit codes:
  0 - Build succeeded
  1 - Program invalid or build failed
  2 - Command error (missing file, unreadable archive)

Examples:
  qbridge build bell.cue
  qbridge build --db builds.db ghz.yaml --format json
  qbridge build --no-store custom.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite build archive (default from config)")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "circuit namespace in the runtime (default from config)")
	cmd.Flags().StringVar(&opts.LibraryNamespace, "library-namespace", "", "gate library namespace (default from config)")
	cmd.Flags().BoolVar(&opts.NoStore, "no-store", false, "build without archiving")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Config
	dbPath := stringFlag(cmd, "db", opts.Database, cfg.DB)

	prog, err := LoadProgram(path)
	if err != nil {
		var loadErr *LoadError
		errors.As(err, &loadErr)
		exit := ExitFailure
		if loadErr.Code == ErrCodeNotFound {
			exit = ExitCommandError
		}
		return formatter.Fail(exit, loadErr.Code, loadErr.Message, nil)
	}
	formatter.VerboseLog("Loaded program %s (%d statements)", prog.Name, len(prog.Body))

	if errs := compiler.ValidateProgram(prog); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	var st *store.Store
	seq := int64(0)
	if !opts.NoStore {
		st, err = store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				opts.Logger.Error("error closing archive", "error", closeErr)
			}
		}()
		if seq, err = st.MaxSeq(cmd.Context()); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
		}
	}

	rt := memrt.New()
	im, err := importer.New(rt, importer.Options{
		Namespace:        stringFlag(cmd, "namespace", opts.Namespace, cfg.Namespace),
		LibraryNamespace: stringFlag(cmd, "library-namespace", opts.LibraryNamespace, cfg.LibraryNamespace),
		Logger:           opts.Logger,
		IDs:              opts.IDs,
		Clock:            importer.NewClockAt(seq),
	})
	if err != nil {
		return buildFailed(formatter, prog, err)
	}

	res, err := im.Import(cmd.Context(), prog)
	if err != nil {
		return buildFailed(formatter, prog, err)
	}

	snap, err := memrt.Snapshot(res.Circuit)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	build, gates, err := importer.Record(res, snap)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	summary := BuildSummary{
		Program:      prog.Name,
		ProgramHash:  build.ProgramHash,
		SnapshotHash: build.SnapshotHash,
		Snapshot:     snap,
		Gates:        gates,
	}
	if st != nil {
		if err := st.WriteBuild(cmd.Context(), build, gates); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
		}
		summary.BuildID = build.ID
		summary.Seq = build.Seq
		summary.Stored = true
	}

	return formatter.Success(summary, buildText(summary))
}

func buildFailed(formatter *OutputFormatter, prog *ir.Program, err error) error {
	details := BuildFailure{Statement: -1, Program: prog.Name}
	var ie *importer.ImportError
	if errors.As(err, &ie) {
		details.Statement = ie.Statement
	}
	return formatter.Fail(ExitFailure, importer.ErrorCode(err), err.Error(), details)
}

func buildText(s BuildSummary) string {
	head := fmt.Sprintf("✓ Built %s", s.Program)
	if s.Stored {
		head = fmt.Sprintf("%s (build %s, seq %d)", head, s.BuildID, s.Seq)
	}
	return fmt.Sprintf("%s\n  %d qubits, %d clbits, %d instructions, %d custom gates\n  snapshot %s",
		head, len(s.Snapshot.Qubits), len(s.Snapshot.Clbits), len(s.Snapshot.Instructions), len(s.Gates), s.SnapshotHash)
}
