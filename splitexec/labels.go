package splitexec

import "github.com/speakeasy-api/msplit"

// labelIndex maps each label to the index of the instruction defining it.
// It is built once per enumeration session and shared by the solver and
// the frame tracker.
type labelIndex struct {
	byLabel map[*msplit.Label]int
}

func buildLabelIndex(insns []*msplit.Insn) *labelIndex {
	idx := &labelIndex{byLabel: make(map[*msplit.Label]int)}
	for i, insn := range insns {
		if insn == nil {
			defect(i, "nil instruction")
		}
		if insn.Kind != msplit.InsnLabel {
			continue
		}
		if insn.Label == nil {
			defect(i, "label instruction without a label")
		}
		if prev, ok := idx.byLabel[insn.Label]; ok {
			defect(i, "label %s already defined at %d", insn.Label, prev)
		}
		idx.byLabel[insn.Label] = i
	}
	return idx
}

// resolve returns the index of l. at is the referencing instruction.
func (idx *labelIndex) resolve(at int, l *msplit.Label) int {
	if l == nil {
		defect(at, "missing branch target")
	}
	i, ok := idx.byLabel[l]
	if !ok {
		defect(at, "target %s does not resolve to an instruction", l)
	}
	return i
}

// targetBounds resolves every branch target of insn and returns the lowest
// and highest index. ok is false for instructions without targets.
func (idx *labelIndex) targetBounds(at int, insn *msplit.Insn) (earliest, furthest int, ok bool) {
	targets := insn.BranchTargets()
	if len(targets) == 0 {
		return 0, 0, false
	}
	earliest = idx.resolve(at, targets[0])
	furthest = earliest
	for _, l := range targets[1:] {
		i := idx.resolve(at, l)
		earliest = min(earliest, i)
		furthest = max(furthest, i)
	}
	return earliest, furthest, true
}
