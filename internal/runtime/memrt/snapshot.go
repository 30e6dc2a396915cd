package memrt

import (
	"fmt"

	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime"
)

// Snapshot renders a circuit produced by this runtime as an ir.CircuitSnapshot.
//
// Register bits are labelled "name[i]". Loose bits are labelled "loose[k]"
// where k counts loose bits of the same kind in circuit order.
func Snapshot(obj runtime.Object) (ir.CircuitSnapshot, error) {
	c, ok := obj.(*Circuit)
	if !ok {
		return ir.CircuitSnapshot{}, runtime.Errorf(runtime.KindType, "not a memrt circuit: %T", obj)
	}

	snap := ir.CircuitSnapshot{
		QRegs:        registerSnapshots(c.qregs),
		CRegs:        registerSnapshots(c.cregs),
		Qubits:       bitLabels(c.qubits),
		Clbits:       bitLabels(c.clbits),
		Instructions: make([]ir.InstructionSnapshot, 0, len(c.data)),
	}
	for _, inst := range c.data {
		params := make([]string, len(inst.Operation.params))
		for i, p := range inst.Operation.params {
			params[i] = formatParam(p)
		}
		snap.Instructions = append(snap.Instructions, ir.InstructionSnapshot{
			Name:   inst.Operation.name,
			Params: params,
			Qubits: c.positions(inst.Qubits),
			Clbits: c.positions(inst.Clbits),
		})
	}
	return snap, nil
}

func registerSnapshots(regs []*Register) []ir.RegisterSnapshot {
	out := make([]ir.RegisterSnapshot, len(regs))
	for i, r := range regs {
		out[i] = ir.RegisterSnapshot{Name: r.name, Size: int64(r.Size())}
	}
	return out
}

func bitLabels(bits []*Bit) []string {
	out := make([]string, len(bits))
	loose := 0
	for i, b := range bits {
		if b.register == nil {
			out[i] = fmt.Sprintf("loose[%d]", loose)
			loose++
			continue
		}
		out[i] = fmt.Sprintf("%s[%d]", b.register.name, b.index)
	}
	return out
}

func (c *Circuit) positions(operands runtime.Tuple) []int64 {
	out := make([]int64, len(operands))
	for i, item := range operands {
		out[i] = int64(c.bitIndex[item.(*Bit)])
	}
	return out
}

func formatParam(p runtime.Object) string {
	if f, ok := p.(float64); ok {
		return ir.FormatParam(f)
	}
	return fmt.Sprint(p)
}
