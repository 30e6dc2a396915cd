package harness

import (
	"github.com/roach88/qbridge/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect field matches.
	Pass bool `json:"pass"`

	// Errors contains mismatch messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ProgramHash is the content hash of the scenario's program.
	ProgramHash string `json:"program_hash"`

	// Build is the archived build, read back from the store. Nil when the
	// build failed.
	Build *ir.BuildRecord `json:"build,omitempty"`

	// Snapshot is the finished circuit. Nil when the build failed.
	Snapshot *ir.CircuitSnapshot `json:"snapshot,omitempty"`

	// Gates are the archived gate records, read back from the store.
	Gates []ir.GateRecord `json:"gates"`

	// ErrorCode is importer.ErrorCode of the failure, or the first
	// validation code. Empty on success.
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorStatement is the failing body index, or -1.
	ErrorStatement int `json:"error_statement"`

	// ErrorMessage is the failure's full message.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:           true,
		Errors:         []string{},
		Gates:          []ir.GateRecord{},
		ErrorStatement: -1,
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
