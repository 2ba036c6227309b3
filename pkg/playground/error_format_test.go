package playground

import (
	"errors"
	"strings"
	"testing"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/splitexec"
)

func TestClassifyAndHint(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"target L9 does not resolve to an instruction", "Label L9 is referenced but never placed in the method."},
		{"missing branch target", "refers to a label that is not part of the method"},
		{"label L1 already defined at 3", "placed more than once"},
		{"operand stack underflow", "more values than the operand stack holds"},
		{"nil instruction", "empty slot"},
		{"JSR subroutines are not supported", "JSR/RET"},
		{"missing top after long", "long/double pair"},
		{"unrecognized stack item top", "long/double pair"},
		{`"(Q)V": bad argument at offset 1: malformed type descriptor`, "descriptor is malformed"},
		{"uninitialized value at L4 does not name a NEW instruction", "does not point at a NEW"},
		{"NEWARRAY of unknown element type 3", "operand is not supported"},
		{"something new", "The method body is malformed."},
	}
	for _, tt := range tests {
		msg, _ := classifyAndHint(tt.reason)
		if !strings.Contains(msg, tt.want) {
			t.Errorf("classifyAndHint(%q) = %q, want it to contain %q", tt.reason, msg, tt.want)
		}
	}
}

func TestFormatDefect(t *testing.T) {
	l := &msplit.Label{Name: "body"}
	m := &msplit.Method{Name: "run", Desc: "()V", Instructions: []*msplit.Insn{
		msplit.NewLabelInsn(l),
		msplit.NewInsn(msplit.OpNop),
		msplit.NewInsn(msplit.OpPop),
	}}

	err := &splitexec.DefectError{Method: "run()V", Index: 2, Reason: "operand stack underflow"}
	got := FormatDefect(m, err)
	for _, want := range []string{
		"Analysis of run()V stopped.\n",
		"  Location: instruction 2 (POP), 2 after body\n",
		"  How to fix: ",
		"  Details: operand stack underflow\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	sig := &splitexec.DefectError{Method: "run(", Index: -1, Reason: `cannot prime locals: "(": missing ')': malformed type descriptor`}
	if got := FormatDefect(m, sig); !strings.Contains(got, "Location: descriptor (\n") {
		t.Errorf("signature defect should point at the descriptor:\n%s", got)
	}

	if got := FormatDefect(m, errors.New("boom")); got != "Analysis failed: boom\n" {
		t.Errorf("plain errors pass through, got %q", got)
	}
	if got := FormatDefect(m, nil); got != "" {
		t.Errorf("nil error should format empty, got %q", got)
	}
}
