// Package playground runs split point analysis over YAML method fixtures and
// renders the results for the inspection CLI and the browser playground.
package playground

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/splitexec"
)

var (
	labelRe      = regexp.MustCompile(`\b(?:target|label) (\S+)`)
	descriptorRe = regexp.MustCompile(`"([^"]*)"`)
)

// FormatDefect turns an analysis error into a user-facing message.
func FormatDefect(m *msplit.Method, err error) string {
	if err == nil {
		return ""
	}

	var d *splitexec.DefectError
	if !errors.As(err, &d) {
		return fmt.Sprintf("Analysis failed: %v\n", err)
	}

	var b strings.Builder
	msg, hint := classifyAndHint(d.Reason)
	fmt.Fprintf(&b, "Analysis of %s stopped.\n", d.Method)
	fmt.Fprintf(&b, "- %s\n", msg)
	if loc := deriveLocation(m, d); loc != "" {
		fmt.Fprintf(&b, "  Location: %s\n", loc)
	}
	if hint != "" {
		fmt.Fprintf(&b, "  How to fix: %s\n", hint)
	}
	fmt.Fprintf(&b, "  Details: %s\n", d.Reason)
	return b.String()
}

func deriveLocation(m *msplit.Method, d *splitexec.DefectError) string {
	if d.Index < 0 {
		if match := descriptorRe.FindStringSubmatch(d.Reason); len(match) == 2 {
			return "descriptor " + match[1]
		}
		return "method signature"
	}
	if m == nil || d.Index >= len(m.Instructions) {
		return fmt.Sprintf("instruction %d", d.Index)
	}

	// Name the closest preceding label so the location can be found in the
	// source listing.
	loc := fmt.Sprintf("instruction %d (%s)", d.Index, m.Instructions[d.Index])
	for i := d.Index - 1; i >= 0; i-- {
		if insn := m.Instructions[i]; insn.Kind == msplit.InsnLabel {
			loc += fmt.Sprintf(", %d after %s", d.Index-i, insn.Label)
			break
		}
	}
	return loc
}

func classifyAndHint(reason string) (msg, hint string) {
	switch {
	case strings.Contains(reason, "does not resolve"), strings.Contains(reason, "missing branch target"):
		msg = "A jump, switch or exception handler refers to a label that is not part of the method."
		if m := labelRe.FindStringSubmatch(reason); len(m) == 2 {
			msg = fmt.Sprintf("Label %s is referenced but never placed in the method.", m[1])
		}
		hint = "Place every label used by a jump, switch or TRYCATCH directive exactly once."
	case strings.Contains(reason, "already defined"), strings.Contains(reason, "without a label"):
		msg = "A label is placed more than once."
		hint = "Give each label a single position in the instruction list."
	case strings.Contains(reason, "nil instruction"):
		msg = "The instruction list has an empty slot."
		hint = "Build the method without nil entries in its instruction list."
	case strings.Contains(reason, "underflow"):
		msg = "An instruction consumes more values than the operand stack holds."
		hint = "Check the pushes before this instruction, and add a FRAME after unconditional jumps so the stack is known at the next label."
	case strings.Contains(reason, "subroutines are not supported"):
		msg = "JSR/RET subroutines cannot be analyzed."
		hint = "Inline the subroutine, as compilers targeting class file version 50 and later do."
	case strings.Contains(reason, "descriptor"), strings.Contains(reason, "cannot prime locals"):
		msg = "A type or method descriptor is malformed."
		hint = `Use JVM descriptors such as "I", "[Ljava/lang/String;" or "(IJ)V".`
	case strings.Contains(reason, "uninitialized"):
		msg = "An uninitialized value does not point at a NEW instruction."
		hint = "Use the label placed immediately before the NEW in uninitialized(L:type)."
	case strings.Contains(reason, "top"), strings.Contains(reason, "stack item"):
		msg = "A FRAME or the tracked stack has a malformed long/double pair."
		hint = "Write longs and doubles once in FRAME lists; their second slot is implied."
	case strings.Contains(reason, "LDC"), strings.Contains(reason, "NEWARRAY"), strings.Contains(reason, "opcode"):
		msg = "An instruction operand is not supported."
		hint = "Check the operand against the instruction's expected constant or element type."
	default:
		msg = "The method body is malformed."
	}
	return
}
