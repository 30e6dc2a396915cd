package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qbridge/internal/compiler"
	"github.com/roach88/qbridge/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Program     string                     `json:"program,omitempty"`
	ProgramHash string                     `json:"program_hash,omitempty"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program-file>",
		Short: "Validate a program without building it",
		Long: `Load a program and check it the way the importer will execute it: names
declared before use, gate arities, operand ranges. Nothing touches the runtime.

Exit codes:
  0 - Program valid
  1 - Program invalid (parse or validation errors)
  2 - Command error (file not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	prog, err := LoadProgram(path)
	if err != nil {
		var loadErr *LoadError
		errors.As(err, &loadErr)
		if loadErr.Code == ErrCodeNotFound {
			return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
		}
		field := "document"
		if line := loadErr.Line(); line > 0 {
			field = fmt.Sprintf("line %d", line)
		}
		return outputValidationErrors(formatter, []compiler.ValidationError{{
			Field:   field,
			Message: loadErr.Message,
			Code:    loadErr.Code,
		}})
	}
	formatter.VerboseLog("Validating %s (%d statements)", prog.Name, len(prog.Body))

	if errs := compiler.ValidateProgram(prog); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	hash, err := ir.ProgramHash(prog)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	result := ValidationResult{Valid: true, Program: prog.Name, ProgramHash: hash}
	return formatter.Success(result, fmt.Sprintf("✓ Program %s valid (%d statements)", prog.Name, len(prog.Body)))
}

// outputValidationErrors outputs every validation error and returns the
// failure exit.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exit := reportedExit(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.ErrorWithData(errs[0].Code, errs[0].Message, nil, result); err != nil {
			return err
		}
		return exit
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}
	return exit
}
