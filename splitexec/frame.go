package splitexec

import (
	"fmt"
	"sort"

	"github.com/speakeasy-api/msplit"
)

// tracker replays instructions over a symbolic stack and local variable
// array. A session keeps one tracker advanced over the prefix of the method
// and clones it at each split start, which gives the same state as a replay
// from instruction 0.
type tracker struct {
	owner  string
	insns  []*msplit.Insn
	labels *labelIndex
	sites  *newSites

	locals    []msplit.Value
	stack     *valueStack
	reachable bool
	pos       int // next instruction to replay

	// read and written are nil outside of trackRange.
	read    map[int]struct{}
	written map[int]struct{}
}

// rangeFacts is what trackRange learns about [start, end].
type rangeFacts struct {
	startStack    []msplit.Value
	localsRead    []int
	localsWritten []int
	lowest        int
	finalStack    []msplit.Value
	// fallsThrough is false when control cannot leave the range through
	// its last instruction; finalStack is then empty.
	fallsThrough bool
}

func newTracker(owner string, m *msplit.Method, labels *labelIndex) *tracker {
	locals, err := m.InitialLocals(owner)
	if err != nil {
		defect(-1, "cannot prime locals: %v", err)
	}
	return &tracker{
		owner:     owner,
		insns:     m.Instructions,
		labels:    labels,
		sites:     &newSites{insns: m.Instructions, byIndex: make(map[int]*msplit.Label)},
		locals:    locals,
		stack:     newValueStack(),
		reachable: true,
	}
}

// clone returns an independent tracker at the same position.
func (t *tracker) clone() *tracker {
	locals := make([]msplit.Value, len(t.locals))
	copy(locals, t.locals)
	return &tracker{
		owner:     t.owner,
		insns:     t.insns,
		labels:    t.labels,
		sites:     t.sites,
		locals:    locals,
		stack:     t.stack.clone(),
		reachable: t.reachable,
		pos:       t.pos,
	}
}

// replayPrefix advances to instruction k and returns the stack there. The
// stack after an unconditional transfer with no frame yet is empty.
func (t *tracker) replayPrefix(k int) []msplit.Value {
	if k < t.pos {
		panic(fmt.Sprintf("splitexec: tracker at %d cannot rewind to %d", t.pos, k))
	}
	for ; t.pos < k; t.pos++ {
		t.step(t.pos)
	}
	if !t.reachable {
		return nil
	}
	return t.stack.snapshot()
}

// trackRange replays [start, end] from the tracker's current position,
// which must be start.
func (t *tracker) trackRange(start, end int) rangeFacts {
	if t.pos != start {
		panic(fmt.Sprintf("splitexec: tracker at %d, range starts at %d", t.pos, start))
	}
	if !t.reachable {
		t.stack.data = t.stack.data[:0]
	}
	startStack := t.stack.snapshot()
	t.stack.resetLowest()
	t.read = make(map[int]struct{})
	t.written = make(map[int]struct{})

	for ; t.pos <= end; t.pos++ {
		t.step(t.pos)
	}

	facts := rangeFacts{
		startStack:    startStack,
		localsRead:    sortedSlots(t.read),
		localsWritten: sortedSlots(t.written),
		lowest:        t.stack.lowest,
		fallsThrough:  t.reachable,
	}
	if t.reachable {
		facts.finalStack = t.stack.snapshot()
	}
	t.read, t.written = nil, nil
	return facts
}

// step replays the instruction at i.
func (t *tracker) step(i int) {
	insn := t.insns[i]
	t.stack.index = i

	if t.read != nil {
		if slot, access, ok := insn.LocalAccess(); ok {
			if access&msplit.AccessRead != 0 {
				t.read[slot] = struct{}{}
			}
			if access&msplit.AccessWrite != 0 {
				t.written[slot] = struct{}{}
			}
		}
	}

	switch insn.Kind {
	case msplit.InsnLabel, msplit.InsnLineNumber:
		return
	case msplit.InsnFrame:
		t.applyFrame(i, insn)
		return
	}
	if insn.Op == msplit.OpJsr || insn.Op == msplit.OpRet {
		defect(i, "%s subroutines are not supported", insn.Op)
	}
	if !t.reachable {
		return
	}
	t.execute(i, insn)
	if insn.Op.EndsFlow() {
		t.reachable = false
	}
}

// applyFrame resets locals and stack to a stack map frame.
func (t *tracker) applyFrame(i int, insn *msplit.Insn) {
	t.locals = t.expandFrameTypes(i, insn.Locals)
	t.stack.replace(t.expandFrameTypes(i, insn.Stack))
	t.reachable = true
}

func (t *tracker) expandFrameTypes(i int, vs []msplit.Value) []msplit.Value {
	out := make([]msplit.Value, 0, len(vs))
	for _, v := range vs {
		if v.Kind == msplit.ValueUninitialized {
			v = msplit.Uninitialized(t.sites.forLabel(i, t.labels, v.Site), v.Type)
		}
		out = append(out, v)
		if v.IsWide() {
			out = append(out, msplit.Top)
		}
	}
	return out
}

func (t *tracker) local(slot int) msplit.Value {
	if slot < len(t.locals) {
		return t.locals[slot]
	}
	return msplit.Top
}

func (t *tracker) setLocal(slot int, v msplit.Value) {
	for len(t.locals) <= slot {
		t.locals = append(t.locals, msplit.Top)
	}
	t.locals[slot] = v
}

// store writes v to slot, invalidating a wide value whose second half it
// overwrites.
func (t *tracker) store(slot int, v msplit.Value) {
	t.setLocal(slot, v)
	if v.IsWide() {
		t.setLocal(slot+1, msplit.Top)
	}
	if slot > 0 && t.local(slot-1).IsWide() {
		t.setLocal(slot-1, msplit.Top)
	}
}

// initialize replaces every occurrence of an uninitialized receiver once
// its constructor has been called.
func (t *tracker) initialize(recv msplit.Value) {
	var init msplit.Value
	switch recv.Kind {
	case msplit.ValueUninitializedThis:
		init = msplit.Object(t.owner)
	case msplit.ValueUninitialized:
		init = msplit.Object(recv.Type)
	default:
		return
	}
	for i, v := range t.locals {
		if v == recv {
			t.locals[i] = init
		}
	}
	for i, v := range t.stack.data {
		if v == recv {
			t.stack.data[i] = init
		}
	}
}

// newSites gives each NEW instruction a stable label identity: the nearest
// label defined right before it, or a synthetic one.
type newSites struct {
	insns   []*msplit.Insn
	byIndex map[int]*msplit.Label
}

func (ns *newSites) forIndex(i int) *msplit.Label {
	if l, ok := ns.byIndex[i]; ok {
		return l
	}
	var site *msplit.Label
	for j := i - 1; j >= 0 && ns.insns[j].IsPseudo(); j-- {
		if ns.insns[j].Kind == msplit.InsnLabel {
			site = ns.insns[j].Label
			break
		}
	}
	if site == nil {
		site = &msplit.Label{Name: fmt.Sprintf("new@%d", i)}
	}
	ns.byIndex[i] = site
	return site
}

// forLabel maps the label a frame uses for an uninitialized value to the
// site of the NEW instruction it precedes.
func (ns *newSites) forLabel(at int, labels *labelIndex, l *msplit.Label) *msplit.Label {
	j := labels.resolve(at, l)
	for j < len(ns.insns) && ns.insns[j].IsPseudo() {
		j++
	}
	if j >= len(ns.insns) || ns.insns[j].Op != msplit.OpNew {
		defect(at, "uninitialized value at %s does not name a NEW instruction", l)
	}
	return ns.forIndex(j)
}

// stackTypes converts the slots of a stack snapshot to reported types,
// folding each long/double with its placeholder into one entry.
func stackTypes(owner string, at int, stack []msplit.Value) []msplit.Type {
	out := make([]msplit.Type, 0, len(stack))
	for i := 0; i < len(stack); i++ {
		v := stack[i]
		switch v.Kind {
		case msplit.ValueInt:
			out = append(out, msplit.IntType)
		case msplit.ValueFloat:
			out = append(out, msplit.FloatType)
		case msplit.ValueLong:
			out = append(out, msplit.LongType)
		case msplit.ValueDouble:
			out = append(out, msplit.DoubleType)
		case msplit.ValueNull:
			out = append(out, msplit.ObjectType("java/lang/Object"))
		case msplit.ValueUninitializedThis:
			out = append(out, msplit.ObjectType(owner))
		case msplit.ValueUninitialized, msplit.ValueObject:
			out = append(out, msplit.ObjectType(v.Type))
		default:
			defect(at, "unrecognized stack item %s", v)
		}
		if v.IsWide() {
			i++
			if i >= len(stack) {
				defect(at, "missing top after %s", v)
			}
			if stack[i].Kind != msplit.ValueTop {
				defect(at, "expected top after %s, found %s", v, stack[i])
			}
		}
	}
	return out
}

func sortedSlots(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for slot := range set {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}
