package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/qbridge/internal/circuit"
	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime"
)

// DefaultLibraryNamespace holds the standard gate constructors.
const DefaultLibraryNamespace = "qiskit.circuit.library"

// genericGateAttr is the circuit namespace's generic gate type, used for
// custom gates declared without a constructor.
const genericGateAttr = "Gate"

// Options configures an Importer. Zero values select defaults.
type Options struct {
	Namespace        string // default circuit.DefaultNamespace
	LibraryNamespace string // default DefaultLibraryNamespace
	Logger           *slog.Logger
	IDs              IDGenerator
	Clock            *Clock
}

// Importer drives the circuit facade through a program, one statement at a
// time in body order.
type Importer struct {
	rt      runtime.Runtime
	mod     *circuit.Module
	ns      runtime.Module
	library runtime.Module
	logger  *slog.Logger
	ids     IDGenerator
	clock   *Clock
}

// New resolves the facade bindings and the gate library. Any missing binding
// fails here, before a program is touched.
func New(rt runtime.Runtime, opts Options) (*Importer, error) {
	if opts.Namespace == "" {
		opts.Namespace = circuit.DefaultNamespace
	}
	if opts.LibraryNamespace == "" {
		opts.LibraryNamespace = DefaultLibraryNamespace
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IDs == nil {
		opts.IDs = UUIDv7Generator{}
	}
	if opts.Clock == nil {
		opts.Clock = NewClockAt(0)
	}

	mod, err := circuit.ImportFrom(rt, opts.Namespace)
	if err != nil {
		return nil, &ImportError{Code: ErrCodeSetup, Message: "resolve circuit bindings", Statement: -1, Err: err}
	}
	ns, err := rt.Import(opts.Namespace)
	if err != nil {
		return nil, &ImportError{Code: ErrCodeSetup, Message: "import circuit namespace", Statement: -1, Err: err}
	}
	library, err := rt.Import(opts.LibraryNamespace)
	if err != nil {
		return nil, &ImportError{Code: ErrCodeSetup, Message: "import gate library", Statement: -1, Err: err}
	}

	return &Importer{
		rt:      rt,
		mod:     mod,
		ns:      ns,
		library: library,
		logger:  opts.Logger,
		ids:     opts.IDs,
		clock:   opts.Clock,
	}, nil
}

// Module returns the resolved facade bindings.
func (im *Importer) Module() *circuit.Module {
	return im.mod
}

// Result is a finished import.
type Result struct {
	BuildID     string
	Seq         int64
	Program     *ir.Program
	ProgramHash string

	// Circuit is the runtime circuit the facade built.
	Circuit runtime.Object

	// Gates holds the custom gates in declaration order.
	Gates []*circuit.Gate
}

// Import executes prog against a fresh circuit. When the runtime is a
// runtime.Locker the whole program runs under its lock.
//
// A failing statement stops the import; mutations made by earlier
// statements are not undone.
func (im *Importer) Import(ctx context.Context, prog *ir.Program) (*Result, error) {
	hash, err := ir.ProgramHash(prog)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", prog.Name, err)
	}

	var res *Result
	run := func() error {
		var err error
		res, err = im.run(ctx, prog)
		return err
	}
	if locker, ok := im.rt.(runtime.Locker); ok {
		err = locker.WithLock(run)
	} else {
		err = run()
	}
	if err != nil {
		im.logger.Debug("import failed", "program", prog.Name, "error", err)
		return nil, err
	}

	res.BuildID = im.ids.Generate()
	res.Seq = im.clock.Next()
	res.ProgramHash = hash
	im.logger.Info("import complete",
		"program", prog.Name,
		"build_id", res.BuildID,
		"seq", res.Seq,
		"statements", len(prog.Body),
		"gates", len(res.Gates),
	)
	return res, nil
}

// registerHandle is what QuantumRegister and ClassicalRegister share.
type registerHandle interface {
	Bit(index int) (runtime.Object, error)
}

// session holds the name tables of one import.
type session struct {
	im      *Importer
	builder *circuit.Builder
	qregs   map[string]registerHandle
	cregs   map[string]registerHandle
	qubits  map[string]runtime.Object
	clbits  map[string]runtime.Object
	gates   map[string]*circuit.Gate
	custom  []*circuit.Gate
}

func (im *Importer) run(ctx context.Context, prog *ir.Program) (*Result, error) {
	b, err := im.mod.NewCircuit()
	if err != nil {
		return nil, &ImportError{Code: ErrCodeStatementFailed, Message: "create circuit", Statement: -1, Err: err}
	}
	s := &session{
		im:      im,
		builder: b,
		qregs:   make(map[string]registerHandle),
		cregs:   make(map[string]registerHandle),
		qubits:  make(map[string]runtime.Object),
		clbits:  make(map[string]runtime.Object),
		gates:   make(map[string]*circuit.Gate),
	}

	for i, st := range prog.Body {
		if err := ctx.Err(); err != nil {
			return nil, &ImportError{Code: ErrCodeCanceled, Message: "import canceled", Statement: i, Err: err}
		}
		im.logger.Debug("statement", "program", prog.Name, "index", i, "kind", st.Kind())
		if err := s.exec(st); err != nil {
			if ie, ok := err.(*ImportError); ok {
				ie.Statement = i
				return nil, ie
			}
			return nil, &ImportError{
				Code:      ErrCodeStatementFailed,
				Message:   string(st.Kind()) + " failed",
				Statement: i,
				Err:       err,
			}
		}
	}

	return &Result{Program: prog, Circuit: b.Finish(), Gates: s.custom}, nil
}

func (s *session) exec(st ir.Statement) error {
	m := s.im.mod
	switch st.Kind() {
	case ir.KindQReg:
		reg, err := m.NewQReg(st.QReg.Name, st.QReg.Size)
		if err != nil {
			return err
		}
		if err := s.builder.AddQReg(reg); err != nil {
			return err
		}
		s.qregs[st.QReg.Name] = reg
	case ir.KindCReg:
		reg, err := m.NewCReg(st.CReg.Name, st.CReg.Size)
		if err != nil {
			return err
		}
		if err := s.builder.AddCReg(reg); err != nil {
			return err
		}
		s.cregs[st.CReg.Name] = reg
	case ir.KindQubit:
		bit, err := m.NewQubit()
		if err != nil {
			return err
		}
		if err := s.builder.AddQubit(bit); err != nil {
			return err
		}
		s.qubits[st.Qubit.Name] = bit
	case ir.KindClbit:
		bit, err := m.NewClbit()
		if err != nil {
			return err
		}
		if err := s.builder.AddClbit(bit); err != nil {
			return err
		}
		s.clbits[st.Clbit.Name] = bit
	case ir.KindGate:
		g, err := s.declare(st.Gate)
		if err != nil {
			return err
		}
		s.gates[g.Name()] = g
		s.custom = append(s.custom, g)
	case ir.KindApply:
		return s.apply(st.Apply)
	default:
		return &ImportError{Code: ErrCodeInvalidStatement, Message: "statement must set exactly one field"}
	}
	return nil
}

// declare builds the descriptor for a custom gate declaration.
func (s *session) declare(decl *ir.GateDecl) (*circuit.Gate, error) {
	var ctor runtime.Callable
	if decl.Constructor != "" {
		obj, err := s.im.library.Attr(decl.Constructor)
		if err != nil {
			return nil, err
		}
		c, ok := obj.(runtime.Callable)
		if !ok {
			return nil, runtime.Errorf(runtime.KindType, "%s.%s is not callable (got %s)",
				s.im.library.Name(), decl.Constructor, runtime.TypeOf(obj))
		}
		ctor = c
	} else {
		generic, err := s.im.genericGate()
		if err != nil {
			return nil, err
		}
		ctor = &boundGate{generic: generic, name: decl.Name, numQubits: decl.Qubits}
	}
	return circuit.NewGate(ctor, decl.Name, decl.Params, decl.Qubits), nil
}

func (im *Importer) genericGate() (runtime.Type, error) {
	obj, err := im.ns.Attr(genericGateAttr)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(runtime.Type)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "%s.%s is not a type (got %s)",
			im.ns.Name(), genericGateAttr, runtime.TypeOf(obj))
	}
	return t, nil
}

// lookupGate finds a declared gate, or builds a standard one on first use.
func (s *session) lookupGate(name string) (*circuit.Gate, error) {
	if g, ok := s.gates[name]; ok {
		return g, nil
	}
	sig, ok := ir.LookupStandardGate(name)
	if !ok {
		return nil, &ImportError{Code: ErrCodeUnknownGate, Message: fmt.Sprintf("unknown gate %q", name)}
	}
	obj, err := s.im.library.Attr(sig.Constructor)
	if err != nil {
		return nil, err
	}
	ctor, ok := obj.(runtime.Callable)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "%s.%s is not callable", s.im.library.Name(), sig.Constructor)
	}
	g := circuit.NewGate(ctor, sig.Name, sig.Params, sig.Qubits)
	s.gates[name] = g
	return g, nil
}

func (s *session) apply(a *ir.Apply) error {
	g, err := s.lookupGate(a.Gate)
	if err != nil {
		return err
	}
	params := make([]runtime.Object, len(a.Params))
	for i, p := range a.Params {
		params[i] = p
	}
	op, err := g.Construct(params...)
	if err != nil {
		return err
	}
	qubits, err := s.resolve(a.Qubits, s.qregs, s.qubits)
	if err != nil {
		return err
	}
	clbits, err := s.resolve(a.Clbits, s.cregs, s.clbits)
	if err != nil {
		return err
	}
	inst, err := s.im.mod.NewInstruction(op, qubits, clbits)
	if err != nil {
		return err
	}
	return s.builder.Append(inst)
}

func (s *session) resolve(operands []string, regs map[string]registerHandle, loose map[string]runtime.Object) ([]runtime.Object, error) {
	out := make([]runtime.Object, 0, len(operands))
	for _, raw := range operands {
		op, err := ir.ParseOperand(raw)
		if err != nil {
			return nil, &ImportError{Code: ErrCodeUndefinedOperand, Message: err.Error()}
		}
		if op.IsLoose() {
			bit, ok := loose[op.Name]
			if !ok {
				return nil, &ImportError{Code: ErrCodeUndefinedOperand, Message: fmt.Sprintf("no bit named %q", op.Name)}
			}
			out = append(out, bit)
			continue
		}
		reg, ok := regs[op.Name]
		if !ok {
			return nil, &ImportError{Code: ErrCodeUndefinedOperand, Message: fmt.Sprintf("no register named %q", op.Name)}
		}
		bit, err := reg.Bit(op.Index)
		if err != nil {
			return nil, err
		}
		out = append(out, bit)
	}
	return out, nil
}
