package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Program  string
}

// BuildView is one archived build with its snapshot decoded.
type BuildView struct {
	ir.BuildRecord
	Circuit ir.CircuitSnapshot `json:"circuit"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [build-id]",
		Short: "List archived builds or show one",
		Long: `Without arguments, list the archived builds in seq order (optionally only
those of one program). With a build ID, print that build's circuit.

Examples:
  qbridge show
  qbridge show --program bell
  qbridge show 0190b6c2-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runList(opts, cmd)
			}
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite build archive (default from config)")
	cmd.Flags().StringVar(&opts.Program, "program", "", "only list builds of this program")

	return cmd
}

// openArchive opens an existing archive. A missing file is a command error
// rather than a silently created empty archive.
func openArchive(formatter *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("archive not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}
	return st, nil
}

func runList(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	st, err := openArchive(formatter, stringFlag(cmd, "db", opts.Database, opts.Config.DB))
	if err != nil {
		return err
	}
	defer st.Close()

	builds, err := st.ListBuilds(cmd.Context(), opts.Program)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}

	var b strings.Builder
	if len(builds) == 0 {
		b.WriteString("No builds found.")
	}
	for i, build := range builds {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%6d  %s  %s  %s", build.Seq, build.ID, build.ProgramName, shortHash(build.SnapshotHash))
	}
	return formatter.Success(builds, b.String())
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	st, err := openArchive(formatter, stringFlag(cmd, "db", opts.Database, opts.Config.DB))
	if err != nil {
		return err
	}
	defer st.Close()

	build, err := st.ReadBuild(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}

	view := BuildView{BuildRecord: build}
	if err := json.Unmarshal([]byte(build.Snapshot), &view.Circuit); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, fmt.Sprintf("decode snapshot of %s: %v", id, err), nil)
	}
	return formatter.Success(view, circuitText(view))
}

func circuitText(v BuildView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s (seq %d)\n", v.ID, v.Seq)
	fmt.Fprintf(&b, "program %s %s\n", v.ProgramName, shortHash(v.ProgramHash))
	for _, r := range v.Circuit.QRegs {
		fmt.Fprintf(&b, "qreg %s[%d]\n", r.Name, r.Size)
	}
	for _, r := range v.Circuit.CRegs {
		fmt.Fprintf(&b, "creg %s[%d]\n", r.Name, r.Size)
	}
	for _, inst := range v.Circuit.Instructions {
		b.WriteString(inst.Name)
		if len(inst.Params) > 0 {
			fmt.Fprintf(&b, "(%s)", strings.Join(inst.Params, ", "))
		}
		operands := make([]string, 0, len(inst.Qubits)+len(inst.Clbits))
		for _, q := range inst.Qubits {
			operands = append(operands, v.Circuit.Qubits[q])
		}
		for _, c := range inst.Clbits {
			operands = append(operands, "-> "+v.Circuit.Clbits[c])
		}
		fmt.Fprintf(&b, " %s\n", strings.Join(operands, " "))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
