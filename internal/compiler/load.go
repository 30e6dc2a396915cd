package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/qbridge/internal/ir"
)

// LoadFile reads a program document. The format follows the extension:
// .cue is compiled with CUE, .yaml/.yml/.json are decoded as YAML.
func LoadFile(path string) (*ir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return LoadCUE(data, path)
	case ".yaml", ".yml", ".json":
		return LoadYAML(data, path)
	default:
		return nil, fmt.Errorf("unsupported program format %q (want .cue, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// LoadCUE compiles CUE source whose root is a program.
func LoadCUE(src []byte, filename string) (*ir.Program, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileProgram(v)
}

// LoadYAML decodes a YAML (or JSON) program. Unknown keys are rejected.
func LoadYAML(src []byte, filename string) (*ir.Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var prog ir.Program
	if err := dec.Decode(&prog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: filename, Message: "empty document"}
		}
		return nil, &CompileError{Field: filename, Message: err.Error()}
	}
	if prog.Name == "" {
		return nil, &CompileError{Field: "name", Message: "field is required"}
	}
	for i, st := range prog.Body {
		if st.Kind() == ir.KindInvalid {
			return nil, &CompileError{
				Field:   fmt.Sprintf("body[%d]", i),
				Message: "statement must have exactly one key",
			}
		}
	}
	return &prog, nil
}
