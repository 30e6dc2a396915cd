package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qbridge/internal/importer"
	"github.com/roach88/qbridge/internal/runtime/memrt"
	"github.com/roach88/qbridge/internal/store"
)

// GatesOptions holds flags for the gates command.
type GatesOptions struct {
	*RootOptions
	Database string
}

// GateView is one archived gate and its restored descriptor.
type GateView struct {
	Position    int64  `json:"position"`
	Descriptor  string `json:"descriptor"`
	Constructor string `json:"constructor"`
	Bound       string `json:"bound,omitempty"`
}

// NewGatesCommand creates the gates command.
func NewGatesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GatesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gates <build-id>",
		Short: "Restore the custom gates of an archived build",
		Long: `Read a build's gate reductions from the archive and rebuild each descriptor
against the runtime, resolving constructors by qualified name. A gate whose
constructor no longer resolves fails the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGates(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite build archive (default from config)")

	return cmd
}

func runGates(opts *GatesOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	st, err := openArchive(formatter, stringFlag(cmd, "db", opts.Database, opts.Config.DB))
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.ReadBuild(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
		}
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}

	records, err := st.ReadGates(cmd.Context(), id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error(), nil)
	}

	gates, err := importer.RestoreGates(memrt.New(), records)
	if err != nil {
		return formatter.Fail(ExitFailure, importer.ErrorCode(err), err.Error(), nil)
	}

	views := make([]GateView, len(gates))
	lines := make([]string, len(gates))
	for i, g := range gates {
		views[i] = GateView{
			Position:    records[i].Position,
			Descriptor:  g.String(),
			Constructor: records[i].Constructor,
			Bound:       records[i].Bound,
		}
		lines[i] = fmt.Sprintf("%d  %s  via %s", records[i].Position, g.String(), records[i].Constructor)
	}
	text := strings.Join(lines, "\n")
	if len(gates) == 0 {
		text = "No custom gates."
	}
	return formatter.Success(views, text)
}
