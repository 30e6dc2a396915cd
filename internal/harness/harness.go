package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/qbridge/internal/compiler"
	"github.com/roach88/qbridge/internal/importer"
	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime/memrt"
	"github.com/roach88/qbridge/internal/store"
	"github.com/roach88/qbridge/internal/testutil"
)

// shadowValue replaces a binding for RuntimeEdits.Shadow.
const shadowValue = "shadowed"

// Harness is the test execution engine for one scenario.
// It runs against a fresh reference runtime and in-memory archive with
// deterministic build IDs.
type Harness struct {
	rt     *memrt.Interp
	store  *store.Store
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Validate the program (unless SkipValidation)
// 2. Apply runtime edits to a fresh memrt runtime
// 3. Import the program through the circuit facade
// 4. Snapshot the circuit, archive it, read it back, restore its gates
// 5. Compare the outcome with the scenario's expect clause
//
// A non-nil error means the harness itself failed; build failures are part
// of the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	if scenario.Program == nil {
		return nil, fmt.Errorf("scenario %s: no program loaded", scenario.Name)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		rt:     memrt.New(),
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	result := NewResult()
	hash, err := ir.ProgramHash(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	result.ProgramHash = hash

	if err := h.execute(ctx, scenario, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) error {
	prog := scenario.Program

	if !scenario.SkipValidation {
		if errs := compiler.ValidateProgram(prog); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			result.ErrorCode = errs[0].Code
			result.ErrorMessage = strings.Join(msgs, "; ")
			return nil
		}
	}

	if err := h.applyEdits(scenario.Runtime); err != nil {
		return err
	}

	im, err := importer.New(h.rt, importer.Options{
		Namespace: scenario.Namespace,
		Logger:    h.logger,
		IDs:       testutil.NewCountingIDGenerator("build"),
		Clock:     importer.NewClockAt(0),
	})
	if err != nil {
		recordFailure(result, err)
		return nil
	}

	res, err := im.Import(ctx, prog)
	if err != nil {
		recordFailure(result, err)
		return nil
	}

	snap, err := memrt.Snapshot(res.Circuit)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	result.Snapshot = &snap

	return h.archive(ctx, res, snap, result)
}

// archive writes the build, reads it back, and checks that every gate
// restores to the descriptor the importer produced.
func (h *Harness) archive(ctx context.Context, res *importer.Result, snap ir.CircuitSnapshot, result *Result) error {
	build, gates, err := importer.Record(res, snap)
	if err != nil {
		return err
	}
	if err := h.store.WriteBuild(ctx, build, gates); err != nil {
		return err
	}

	stored, err := h.store.ReadBuild(ctx, build.ID)
	if err != nil {
		return err
	}
	result.Build = &stored

	records, err := h.store.ReadGates(ctx, build.ID)
	if err != nil {
		return err
	}
	result.Gates = records

	restored, err := importer.RestoreGates(h.rt, records)
	if err != nil {
		result.AddError(fmt.Sprintf("restore gates: %v", err))
		return nil
	}
	for i, g := range restored {
		if got, want := g.String(), res.Gates[i].String(); got != want {
			result.AddError(fmt.Sprintf("gate %d restored as %s, want %s", i, got, want))
		}
	}
	return nil
}

func (h *Harness) applyEdits(edits RuntimeEdits) error {
	for _, name := range edits.Remove {
		mod, attr, err := h.lookupModule(name)
		if err != nil {
			return err
		}
		mod.Delete(attr)
	}
	for _, name := range edits.Shadow {
		mod, attr, err := h.lookupModule(name)
		if err != nil {
			return err
		}
		mod.Set(attr, shadowValue)
	}
	return nil
}

func (h *Harness) lookupModule(qualName string) (*memrt.Module, string, error) {
	dot := strings.LastIndex(qualName, ".")
	if dot <= 0 || dot == len(qualName)-1 {
		return nil, "", fmt.Errorf("runtime edit %q: not a qualified name", qualName)
	}
	m, err := h.rt.Import(qualName[:dot])
	if err != nil {
		return nil, "", fmt.Errorf("runtime edit %q: %w", qualName, err)
	}
	return m.(*memrt.Module), qualName[dot+1:], nil
}

func recordFailure(result *Result, err error) {
	result.ErrorCode = importer.ErrorCode(err)
	result.ErrorMessage = err.Error()
	var ie *importer.ImportError
	if errors.As(err, &ie) {
		result.ErrorStatement = ie.Statement
	}
}
