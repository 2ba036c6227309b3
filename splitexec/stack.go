package splitexec

import "github.com/speakeasy-api/msplit"

// valueStack is the symbolic operand stack. It records the lowest depth
// reached since the last resetLowest, which is how much of the stack a
// range consumed from below its starting top.
type valueStack struct {
	data   []msplit.Value
	lowest int
	index  int // instruction being replayed, for defect reports
}

// newValueStack creates a new stack.
func newValueStack() *valueStack {
	return &valueStack{
		data: make([]msplit.Value, 0, 16),
	}
}

// push adds values to the top of the stack.
func (s *valueStack) push(vs ...msplit.Value) {
	s.data = append(s.data, vs...)
}

// pushWide pushes v followed by its Top placeholder when v is wide.
func (s *valueStack) pushWide(v msplit.Value) {
	s.data = append(s.data, v)
	if v.IsWide() {
		s.data = append(s.data, msplit.Top)
	}
}

// pop removes and returns the top slot.
// Underflow is a defect in the method being analyzed.
func (s *valueStack) pop() msplit.Value {
	if len(s.data) == 0 {
		defect(s.index, "operand stack underflow")
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	if len(s.data) < s.lowest {
		s.lowest = len(s.data)
	}
	return v
}

// popN discards n slots.
func (s *valueStack) popN(n int) {
	for ; n > 0; n-- {
		s.pop()
	}
}

// replace swaps the whole stack for vs, lowering the watermark to the
// length of the prefix the two stacks share.
func (s *valueStack) replace(vs []msplit.Value) {
	common := 0
	for common < len(s.data) && common < len(vs) && s.data[common] == vs[common] {
		common++
	}
	for len(s.data) > common {
		s.pop()
	}
	s.data = append(s.data, vs[common:]...)
}

// resetLowest starts a new watermark at the current depth.
func (s *valueStack) resetLowest() {
	s.lowest = len(s.data)
}

// snapshot returns a copy of the stack, bottom first.
func (s *valueStack) snapshot() []msplit.Value {
	out := make([]msplit.Value, len(s.data))
	copy(out, s.data)
	return out
}

// clone returns an independent copy.
func (s *valueStack) clone() *valueStack {
	return &valueStack{data: s.snapshot(), lowest: s.lowest, index: s.index}
}

// len returns the number of slots on the stack.
func (s *valueStack) len() int {
	return len(s.data)
}
