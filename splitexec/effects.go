package splitexec

import (
	"strings"

	"github.com/speakeasy-api/msplit"
)

// execute applies the operand stack and local variable effect of a real
// (non-pseudo) instruction.
func (t *tracker) execute(i int, insn *msplit.Insn) {
	s := t.stack
	switch insn.Op {
	case msplit.OpNop, msplit.OpGoto, msplit.OpReturn:
	case msplit.OpAconstNull:
		s.push(msplit.Null)
	case msplit.OpIconstM1, msplit.OpIconst0, msplit.OpIconst1, msplit.OpIconst2,
		msplit.OpIconst3, msplit.OpIconst4, msplit.OpIconst5, msplit.OpBipush, msplit.OpSipush:
		s.push(msplit.Int)
	case msplit.OpLconst0, msplit.OpLconst1:
		s.pushWide(msplit.Long)
	case msplit.OpFconst0, msplit.OpFconst1, msplit.OpFconst2:
		s.push(msplit.Float)
	case msplit.OpDconst0, msplit.OpDconst1:
		s.pushWide(msplit.Double)
	case msplit.OpLdc:
		t.pushConst(i, insn.Const)

	case msplit.OpIload:
		s.push(msplit.Int)
	case msplit.OpFload:
		s.push(msplit.Float)
	case msplit.OpLload:
		s.pushWide(msplit.Long)
	case msplit.OpDload:
		s.pushWide(msplit.Double)
	case msplit.OpAload:
		s.push(t.local(insn.Operand))

	case msplit.OpIaload, msplit.OpBaload, msplit.OpCaload, msplit.OpSaload:
		s.popN(2)
		s.push(msplit.Int)
	case msplit.OpFaload:
		s.popN(2)
		s.push(msplit.Float)
	case msplit.OpLaload:
		s.popN(2)
		s.pushWide(msplit.Long)
	case msplit.OpDaload:
		s.popN(2)
		s.pushWide(msplit.Double)
	case msplit.OpAaload:
		s.pop()
		s.push(elementValue(s.pop()))

	case msplit.OpIstore, msplit.OpFstore, msplit.OpAstore:
		t.store(insn.Operand, s.pop())
	case msplit.OpLstore, msplit.OpDstore:
		s.pop()
		t.store(insn.Operand, s.pop())

	case msplit.OpIastore, msplit.OpBastore, msplit.OpCastore, msplit.OpSastore,
		msplit.OpFastore, msplit.OpAastore:
		s.popN(3)
	case msplit.OpLastore, msplit.OpDastore:
		s.popN(4)

	case msplit.OpPop:
		s.popN(1)
	case msplit.OpPop2:
		s.popN(2)
	case msplit.OpDup:
		v1 := s.pop()
		s.push(v1, v1)
	case msplit.OpDupX1:
		v1, v2 := s.pop(), s.pop()
		s.push(v1, v2, v1)
	case msplit.OpDupX2:
		v1, v2, v3 := s.pop(), s.pop(), s.pop()
		s.push(v1, v3, v2, v1)
	case msplit.OpDup2:
		v1, v2 := s.pop(), s.pop()
		s.push(v2, v1, v2, v1)
	case msplit.OpDup2X1:
		v1, v2, v3 := s.pop(), s.pop(), s.pop()
		s.push(v2, v1, v3, v2, v1)
	case msplit.OpDup2X2:
		v1, v2, v3, v4 := s.pop(), s.pop(), s.pop(), s.pop()
		s.push(v2, v1, v4, v3, v2, v1)
	case msplit.OpSwap:
		v1, v2 := s.pop(), s.pop()
		s.push(v1, v2)

	case msplit.OpIadd, msplit.OpIsub, msplit.OpImul, msplit.OpIdiv, msplit.OpIrem,
		msplit.OpIand, msplit.OpIor, msplit.OpIxor, msplit.OpIshl, msplit.OpIshr, msplit.OpIushr:
		s.popN(2)
		s.push(msplit.Int)
	case msplit.OpFadd, msplit.OpFsub, msplit.OpFmul, msplit.OpFdiv, msplit.OpFrem:
		s.popN(2)
		s.push(msplit.Float)
	case msplit.OpLadd, msplit.OpLsub, msplit.OpLmul, msplit.OpLdiv, msplit.OpLrem,
		msplit.OpLand, msplit.OpLor, msplit.OpLxor:
		s.popN(4)
		s.pushWide(msplit.Long)
	case msplit.OpLshl, msplit.OpLshr, msplit.OpLushr:
		s.popN(3)
		s.pushWide(msplit.Long)
	case msplit.OpDadd, msplit.OpDsub, msplit.OpDmul, msplit.OpDdiv, msplit.OpDrem:
		s.popN(4)
		s.pushWide(msplit.Double)
	case msplit.OpIneg, msplit.OpI2b, msplit.OpI2c, msplit.OpI2s:
		s.popN(1)
		s.push(msplit.Int)
	case msplit.OpFneg:
		s.popN(1)
		s.push(msplit.Float)
	case msplit.OpLneg:
		s.popN(2)
		s.pushWide(msplit.Long)
	case msplit.OpDneg:
		s.popN(2)
		s.pushWide(msplit.Double)
	case msplit.OpIinc:
		t.store(insn.Operand, msplit.Int)

	case msplit.OpI2l, msplit.OpF2l:
		s.popN(1)
		s.pushWide(msplit.Long)
	case msplit.OpI2f:
		s.popN(1)
		s.push(msplit.Float)
	case msplit.OpI2d, msplit.OpF2d:
		s.popN(1)
		s.pushWide(msplit.Double)
	case msplit.OpF2i:
		s.popN(1)
		s.push(msplit.Int)
	case msplit.OpL2i, msplit.OpD2i:
		s.popN(2)
		s.push(msplit.Int)
	case msplit.OpL2f, msplit.OpD2f:
		s.popN(2)
		s.push(msplit.Float)
	case msplit.OpL2d:
		s.popN(2)
		s.pushWide(msplit.Double)
	case msplit.OpD2l:
		s.popN(2)
		s.pushWide(msplit.Long)

	case msplit.OpLcmp, msplit.OpDcmpl, msplit.OpDcmpg:
		s.popN(4)
		s.push(msplit.Int)
	case msplit.OpFcmpl, msplit.OpFcmpg:
		s.popN(2)
		s.push(msplit.Int)

	case msplit.OpIfeq, msplit.OpIfne, msplit.OpIflt, msplit.OpIfge, msplit.OpIfgt, msplit.OpIfle,
		msplit.OpIfnull, msplit.OpIfnonnull, msplit.OpTableswitch, msplit.OpLookupswitch:
		s.popN(1)
	case msplit.OpIfIcmpeq, msplit.OpIfIcmpne, msplit.OpIfIcmplt, msplit.OpIfIcmpge,
		msplit.OpIfIcmpgt, msplit.OpIfIcmple, msplit.OpIfAcmpeq, msplit.OpIfAcmpne:
		s.popN(2)

	case msplit.OpIreturn, msplit.OpFreturn, msplit.OpAreturn, msplit.OpAthrow,
		msplit.OpMonitorenter, msplit.OpMonitorexit:
		s.popN(1)
	case msplit.OpLreturn, msplit.OpDreturn:
		s.popN(2)

	case msplit.OpGetstatic:
		t.pushDesc(i, insn.Desc)
	case msplit.OpPutstatic:
		s.popN(t.descSize(i, insn.Desc))
	case msplit.OpGetfield:
		s.popN(1)
		t.pushDesc(i, insn.Desc)
	case msplit.OpPutfield:
		s.popN(t.descSize(i, insn.Desc))
		s.popN(1)

	case msplit.OpInvokevirtual, msplit.OpInvokespecial, msplit.OpInvokestatic, msplit.OpInvokeinterface:
		t.invoke(i, insn)
	case msplit.OpInvokedynamic:
		mt := t.methodType(i, insn.Desc)
		s.popN(mt.ArgumentsSize())
		t.pushDesc(i, mt.ReturnType().Descriptor())

	case msplit.OpNew:
		s.push(msplit.Uninitialized(t.sites.forIndex(i), insn.Desc))
	case msplit.OpNewarray:
		s.popN(1)
		s.push(msplit.Object(primitiveArray(i, insn.Operand)))
	case msplit.OpAnewarray:
		s.popN(1)
		s.push(msplit.Object("[" + msplit.ObjectType(insn.Desc).Descriptor()))
	case msplit.OpArraylength, msplit.OpInstanceof:
		s.popN(1)
		s.push(msplit.Int)
	case msplit.OpCheckcast:
		s.popN(1)
		s.push(msplit.Object(insn.Desc))
	case msplit.OpMultianewarray:
		s.popN(insn.Operand)
		s.push(msplit.Object(insn.Desc))

	default:
		defect(i, "unsupported opcode %s", insn.Op)
	}
}

func (t *tracker) invoke(i int, insn *msplit.Insn) {
	mt := t.methodType(i, insn.Desc)
	t.stack.popN(mt.ArgumentsSize())
	if insn.Op != msplit.OpInvokestatic {
		recv := t.stack.pop()
		if insn.Op == msplit.OpInvokespecial && insn.Name == "<init>" {
			t.initialize(recv)
		}
	}
	t.pushDesc(i, mt.ReturnType().Descriptor())
}

func (t *tracker) pushConst(i int, c any) {
	switch v := c.(type) {
	case int32, int:
		t.stack.push(msplit.Int)
	case float32:
		t.stack.push(msplit.Float)
	case int64:
		t.stack.pushWide(msplit.Long)
	case float64:
		t.stack.pushWide(msplit.Double)
	case string:
		t.stack.push(msplit.Object("java/lang/String"))
	case msplit.Type:
		switch v.Sort() {
		case msplit.SortObject, msplit.SortArray:
			t.stack.push(msplit.Object("java/lang/Class"))
		case msplit.SortMethod:
			t.stack.push(msplit.Object("java/lang/invoke/MethodType"))
		default:
			defect(i, "LDC of primitive type %s", v)
		}
	case msplit.Handle:
		t.stack.push(msplit.Object("java/lang/invoke/MethodHandle"))
	case msplit.ConstantDynamic:
		t.pushDesc(i, v.Desc)
	default:
		defect(i, "unrecognized LDC constant %T", c)
	}
}

// pushDesc pushes a value of the field type desc; void pushes nothing.
func (t *tracker) pushDesc(i int, desc string) {
	typ, err := msplit.ParseType(desc)
	if err != nil {
		defect(i, "%v", err)
	}
	if typ.Sort() == msplit.SortVoid {
		return
	}
	t.stack.pushWide(msplit.ValueOf(typ))
}

func (t *tracker) descSize(i int, desc string) int {
	typ, err := msplit.ParseType(desc)
	if err != nil {
		defect(i, "%v", err)
	}
	return typ.Size()
}

func (t *tracker) methodType(i int, desc string) msplit.Type {
	typ, err := msplit.ParseType(desc)
	if err != nil {
		defect(i, "%v", err)
	}
	if typ.Sort() != msplit.SortMethod {
		defect(i, "%q is not a method descriptor", desc)
	}
	return typ
}

// elementValue is the value AALOAD reads from an array value.
func elementValue(array msplit.Value) msplit.Value {
	if array.Kind == msplit.ValueNull {
		return msplit.Null
	}
	if array.Kind == msplit.ValueObject && strings.HasPrefix(array.Type, "[") {
		if elem, err := msplit.ParseType(array.Type[1:]); err == nil {
			return msplit.ValueOf(elem)
		}
	}
	return msplit.Object("java/lang/Object")
}

func primitiveArray(i, operand int) string {
	switch operand {
	case msplit.TBoolean:
		return "[Z"
	case msplit.TChar:
		return "[C"
	case msplit.TFloat:
		return "[F"
	case msplit.TDouble:
		return "[D"
	case msplit.TByte:
		return "[B"
	case msplit.TShort:
		return "[S"
	case msplit.TInt:
		return "[I"
	case msplit.TLong:
		return "[J"
	}
	defect(i, "NEWARRAY of unknown element type %d", operand)
	return ""
}
