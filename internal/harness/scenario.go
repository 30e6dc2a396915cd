package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qbridge/internal/compiler"
	"github.com/roach88/qbridge/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the program to build, given inline.
	Program *ir.Program `yaml:"program,omitempty"`

	// ProgramFile is a .cue/.yaml/.json program, relative to the scenario
	// file. Exactly one of Program and ProgramFile is set.
	ProgramFile string `yaml:"program_file,omitempty"`

	// Namespace overrides the circuit namespace (default qiskit.circuit).
	Namespace string `yaml:"namespace,omitempty"`

	// SkipValidation runs the importer even when validation fails. Used to
	// exercise facade and runtime errors the validator would catch first.
	SkipValidation bool `yaml:"skip_validation,omitempty"`

	// Runtime tampers with the reference runtime before the import.
	Runtime RuntimeEdits `yaml:"runtime,omitempty"`

	// Expect describes the outcome.
	Expect Expect `yaml:"expect"`
}

// RuntimeEdits lists qualified names ("qiskit.circuit.Qubit") to tamper with.
type RuntimeEdits struct {
	// Remove deletes the bindings.
	Remove []string `yaml:"remove,omitempty"`

	// Shadow rebinds the names to a plain value that is not a type.
	Shadow []string `yaml:"shadow,omitempty"`
}

// Expect specifies the expected outcome. Nil fields are not checked.
type Expect struct {
	// ErrorCode is the expected importer.ErrorCode, or a validation code
	// such as "E206". Empty means the build must succeed.
	ErrorCode string `yaml:"error_code,omitempty"`

	// ErrorStatement is the body index the failure is reported at.
	ErrorStatement *int `yaml:"error_statement,omitempty"`

	QRegs        []ir.RegisterSnapshot    `yaml:"qregs,omitempty"`
	CRegs        []ir.RegisterSnapshot    `yaml:"cregs,omitempty"`
	Qubits       []string                 `yaml:"qubits,omitempty"`
	Clbits       []string                 `yaml:"clbits,omitempty"`
	Instructions []ir.InstructionSnapshot `yaml:"instructions,omitempty"`

	// Gates lists the expected custom gate names in declaration order.
	Gates []string `yaml:"gates,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. A program_file is
// loaded relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if scenario.ProgramFile != "" {
		programPath := scenario.ProgramFile
		if !filepath.IsAbs(programPath) {
			programPath = filepath.Join(filepath.Dir(path), programPath)
		}
		prog, err := compiler.LoadFile(programPath)
		if err != nil {
			return nil, fmt.Errorf("%s: load program: %w", path, err)
		}
		scenario.Program = prog
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected. A
// program_file is recorded but not loaded.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Program == nil && s.ProgramFile == "" {
		missing = append(missing, "program or program_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("scenario missing required fields: %s", strings.Join(missing, ", "))
	}
	if s.Program != nil && s.ProgramFile != "" {
		return fmt.Errorf("scenario %s: program and program_file are mutually exclusive", s.Name)
	}
	if s.Program != nil && s.Program.Name == "" {
		return fmt.Errorf("scenario %s: program.name is required", s.Name)
	}
	if s.Expect.ErrorCode == "" && s.Expect.ErrorStatement != nil {
		return fmt.Errorf("scenario %s: error_statement requires error_code", s.Name)
	}
	return nil
}
