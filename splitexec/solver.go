package splitexec

import "github.com/speakeasy-api/msplit"

// window is the candidate range [start, end] for one start index. An end
// of start-1 is the empty window.
type window struct {
	start int
	end   int
}

func (w window) size() int { return w.end - w.start + 1 }

// tryRange is a resolved exception table entry: [start, end) is protected
// and handler is the first instruction of the catch block.
type tryRange struct {
	start   int
	end     int
	handler int
}

// solver narrows the window for a start index. Its passes run once each in
// a fixed order: exception ranges, jumps inside the window, jumps into the
// window from outside. They are not iterated to a fixpoint, so
// a later pass may leave an earlier constraint unchecked.
type solver struct {
	insns   []*msplit.Insn
	labels  *labelIndex
	tries   []tryRange
	minSize int
	maxSize int
}

func newSolver(m *msplit.Method, labels *labelIndex, minSize, maxSize int) *solver {
	tries := make([]tryRange, 0, len(m.TryCatchBlocks))
	for _, tcb := range m.TryCatchBlocks {
		tries = append(tries, tryRange{
			start:   labels.resolve(-1, tcb.Start),
			end:     labels.resolve(-1, tcb.End),
			handler: labels.resolve(-1, tcb.Handler),
		})
	}
	return &solver{
		insns:   m.Instructions,
		labels:  labels,
		tries:   tries,
		minSize: minSize,
		maxSize: maxSize,
	}
}

// solve returns the widest window starting at start, and whether it holds
// at least minSize instructions.
func (sv *solver) solve(start int) (window, bool) {
	end := len(sv.insns) - 1
	if sv.maxSize-1 < end-start {
		end = start + sv.maxSize - 1
	}
	w := window{start: start, end: end}
	w = sv.constrainByTryCatchBlocks(w)
	w = sv.constrainByInternalJumps(w)
	w = sv.constrainByExternalJumps(w)
	return w, w.size() >= sv.minSize
}

// constrainByTryCatchBlocks keeps handlers out of the window and keeps a
// window from crossing the boundary of a protected region: one that starts
// before a region stops short of it, one that starts inside stops at its
// end.
func (sv *solver) constrainByTryCatchBlocks(w window) window {
	for _, r := range sv.tries {
		if w.start < r.handler {
			w.end = min(w.end, r.handler-1)
		}
		if w.start < r.start {
			w.end = min(w.end, r.start-1)
			continue
		}
		if w.start >= r.end {
			continue
		}
		w.end = min(w.end, r.end-1)
	}
	return w
}

// constrainByInternalJumps scans the window for branches. The first one
// that can leave the window cuts it just before itself; the others may
// only stretch it to their furthest target.
func (sv *solver) constrainByInternalJumps(w window) window {
	for i := w.start; i <= w.end; i++ {
		earliest, furthest, ok := sv.labels.targetBounds(i, sv.insns[i])
		if !ok {
			continue
		}
		if earliest < w.start || furthest > w.end {
			w.end = i - 1
			return w
		}
		w.end = max(w.end, furthest)
	}
	return w
}

// constrainByExternalJumps cuts the window before any target that a branch
// outside the window can reach, including the first instruction itself.
func (sv *solver) constrainByExternalJumps(w window) window {
	for i, insn := range sv.insns {
		if i >= w.start && i <= w.end {
			continue
		}
		if !insn.IsBranch() {
			continue
		}
		for _, l := range insn.BranchTargets() {
			if target := sv.labels.resolve(i, l); target >= w.start {
				w.end = min(w.end, target-1)
			}
		}
	}
	return w
}
