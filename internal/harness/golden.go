package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/qbridge/internal/ir"
)

// Golden renders the deterministic part of a result as canonical JSON.
// Error messages are left out; the error code and statement are kept.
func Golden(scenarioName string, result *Result) ([]byte, error) {
	gates := make(ir.IRArray, len(result.Gates))
	for i, g := range result.Gates {
		gate := ir.IRObject{
			"name":        ir.IRString(g.Name),
			"type":        ir.IRString(g.Type),
			"num_params":  ir.IRInt(g.NumParams),
			"num_qubits":  ir.IRInt(g.NumQubits),
			"constructor": ir.IRString(g.Constructor),
		}
		if g.Bound != "" {
			gate["bound"] = ir.IRString(g.Bound)
		}
		gates[i] = gate
	}

	obj := ir.IRObject{
		"scenario":     ir.IRString(scenarioName),
		"program_hash": ir.IRString(result.ProgramHash),
		"gates":        gates,
	}
	if result.Snapshot != nil {
		obj["snapshot"] = result.Snapshot.ToIR()
	}
	if result.Build != nil {
		obj["build_id"] = ir.IRString(result.Build.ID)
		obj["seq"] = ir.IRInt(result.Build.Seq)
		obj["snapshot_hash"] = ir.IRString(result.Build.SnapshotHash)
	}
	if result.ErrorCode != "" {
		obj["error"] = ir.IRObject{
			"code":      ir.IRString(result.ErrorCode),
			"statement": ir.IRInt(result.ErrorStatement),
		}
	}
	return ir.MarshalCanonical(obj)
}

// RunWithGolden executes a scenario and compares the result against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass. Test failure (via
// goldie) occurs if the rendering doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Golden(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
