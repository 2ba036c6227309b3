package msplit

import "fmt"

// Opcode is a JVM instruction opcode. The short-form loads and stores
// (ILOAD_0 and friends), LDC_W/LDC2_W, GOTO_W/JSR_W and WIDE never appear in
// the model: they are expanded to their general form by the class reader.
type Opcode int

const (
	OpNop             Opcode = 0
	OpAconstNull      Opcode = 1
	OpIconstM1        Opcode = 2
	OpIconst0         Opcode = 3
	OpIconst1         Opcode = 4
	OpIconst2         Opcode = 5
	OpIconst3         Opcode = 6
	OpIconst4         Opcode = 7
	OpIconst5         Opcode = 8
	OpLconst0         Opcode = 9
	OpLconst1         Opcode = 10
	OpFconst0         Opcode = 11
	OpFconst1         Opcode = 12
	OpFconst2         Opcode = 13
	OpDconst0         Opcode = 14
	OpDconst1         Opcode = 15
	OpBipush          Opcode = 16
	OpSipush          Opcode = 17
	OpLdc             Opcode = 18
	OpIload           Opcode = 21
	OpLload           Opcode = 22
	OpFload           Opcode = 23
	OpDload           Opcode = 24
	OpAload           Opcode = 25
	OpIaload          Opcode = 46
	OpLaload          Opcode = 47
	OpFaload          Opcode = 48
	OpDaload          Opcode = 49
	OpAaload          Opcode = 50
	OpBaload          Opcode = 51
	OpCaload          Opcode = 52
	OpSaload          Opcode = 53
	OpIstore          Opcode = 54
	OpLstore          Opcode = 55
	OpFstore          Opcode = 56
	OpDstore          Opcode = 57
	OpAstore          Opcode = 58
	OpIastore         Opcode = 79
	OpLastore         Opcode = 80
	OpFastore         Opcode = 81
	OpDastore         Opcode = 82
	OpAastore         Opcode = 83
	OpBastore         Opcode = 84
	OpCastore         Opcode = 85
	OpSastore         Opcode = 86
	OpPop             Opcode = 87
	OpPop2            Opcode = 88
	OpDup             Opcode = 89
	OpDupX1           Opcode = 90
	OpDupX2           Opcode = 91
	OpDup2            Opcode = 92
	OpDup2X1          Opcode = 93
	OpDup2X2          Opcode = 94
	OpSwap            Opcode = 95
	OpIadd            Opcode = 96
	OpLadd            Opcode = 97
	OpFadd            Opcode = 98
	OpDadd            Opcode = 99
	OpIsub            Opcode = 100
	OpLsub            Opcode = 101
	OpFsub            Opcode = 102
	OpDsub            Opcode = 103
	OpImul            Opcode = 104
	OpLmul            Opcode = 105
	OpFmul            Opcode = 106
	OpDmul            Opcode = 107
	OpIdiv            Opcode = 108
	OpLdiv            Opcode = 109
	OpFdiv            Opcode = 110
	OpDdiv            Opcode = 111
	OpIrem            Opcode = 112
	OpLrem            Opcode = 113
	OpFrem            Opcode = 114
	OpDrem            Opcode = 115
	OpIneg            Opcode = 116
	OpLneg            Opcode = 117
	OpFneg            Opcode = 118
	OpDneg            Opcode = 119
	OpIshl            Opcode = 120
	OpLshl            Opcode = 121
	OpIshr            Opcode = 122
	OpLshr            Opcode = 123
	OpIushr           Opcode = 124
	OpLushr           Opcode = 125
	OpIand            Opcode = 126
	OpLand            Opcode = 127
	OpIor             Opcode = 128
	OpLor             Opcode = 129
	OpIxor            Opcode = 130
	OpLxor            Opcode = 131
	OpIinc            Opcode = 132
	OpI2l             Opcode = 133
	OpI2f             Opcode = 134
	OpI2d             Opcode = 135
	OpL2i             Opcode = 136
	OpL2f             Opcode = 137
	OpL2d             Opcode = 138
	OpF2i             Opcode = 139
	OpF2l             Opcode = 140
	OpF2d             Opcode = 141
	OpD2i             Opcode = 142
	OpD2l             Opcode = 143
	OpD2f             Opcode = 144
	OpI2b             Opcode = 145
	OpI2c             Opcode = 146
	OpI2s             Opcode = 147
	OpLcmp            Opcode = 148
	OpFcmpl           Opcode = 149
	OpFcmpg           Opcode = 150
	OpDcmpl           Opcode = 151
	OpDcmpg           Opcode = 152
	OpIfeq            Opcode = 153
	OpIfne            Opcode = 154
	OpIflt            Opcode = 155
	OpIfge            Opcode = 156
	OpIfgt            Opcode = 157
	OpIfle            Opcode = 158
	OpIfIcmpeq        Opcode = 159
	OpIfIcmpne        Opcode = 160
	OpIfIcmplt        Opcode = 161
	OpIfIcmpge        Opcode = 162
	OpIfIcmpgt        Opcode = 163
	OpIfIcmple        Opcode = 164
	OpIfAcmpeq        Opcode = 165
	OpIfAcmpne        Opcode = 166
	OpGoto            Opcode = 167
	OpJsr             Opcode = 168
	OpRet             Opcode = 169
	OpTableswitch     Opcode = 170
	OpLookupswitch    Opcode = 171
	OpIreturn         Opcode = 172
	OpLreturn         Opcode = 173
	OpFreturn         Opcode = 174
	OpDreturn         Opcode = 175
	OpAreturn         Opcode = 176
	OpReturn          Opcode = 177
	OpGetstatic       Opcode = 178
	OpPutstatic       Opcode = 179
	OpGetfield        Opcode = 180
	OpPutfield        Opcode = 181
	OpInvokevirtual   Opcode = 182
	OpInvokespecial   Opcode = 183
	OpInvokestatic    Opcode = 184
	OpInvokeinterface Opcode = 185
	OpInvokedynamic   Opcode = 186
	OpNew             Opcode = 187
	OpNewarray        Opcode = 188
	OpAnewarray       Opcode = 189
	OpArraylength     Opcode = 190
	OpAthrow          Opcode = 191
	OpCheckcast       Opcode = 192
	OpInstanceof      Opcode = 193
	OpMonitorenter    Opcode = 194
	OpMonitorexit     Opcode = 195
	OpMultianewarray  Opcode = 197
	OpIfnull          Opcode = 198
	OpIfnonnull       Opcode = 199

	// OpNone marks pseudo-instructions (labels, line numbers, frames).
	OpNone Opcode = -1
)

var opcodeNames = map[Opcode]string{
	OpNop: "NOP", OpAconstNull: "ACONST_NULL",
	OpIconstM1: "ICONST_M1", OpIconst0: "ICONST_0", OpIconst1: "ICONST_1", OpIconst2: "ICONST_2",
	OpIconst3: "ICONST_3", OpIconst4: "ICONST_4", OpIconst5: "ICONST_5",
	OpLconst0: "LCONST_0", OpLconst1: "LCONST_1",
	OpFconst0: "FCONST_0", OpFconst1: "FCONST_1", OpFconst2: "FCONST_2",
	OpDconst0: "DCONST_0", OpDconst1: "DCONST_1",
	OpBipush: "BIPUSH", OpSipush: "SIPUSH", OpLdc: "LDC",
	OpIload: "ILOAD", OpLload: "LLOAD", OpFload: "FLOAD", OpDload: "DLOAD", OpAload: "ALOAD",
	OpIaload: "IALOAD", OpLaload: "LALOAD", OpFaload: "FALOAD", OpDaload: "DALOAD",
	OpAaload: "AALOAD", OpBaload: "BALOAD", OpCaload: "CALOAD", OpSaload: "SALOAD",
	OpIstore: "ISTORE", OpLstore: "LSTORE", OpFstore: "FSTORE", OpDstore: "DSTORE", OpAstore: "ASTORE",
	OpIastore: "IASTORE", OpLastore: "LASTORE", OpFastore: "FASTORE", OpDastore: "DASTORE",
	OpAastore: "AASTORE", OpBastore: "BASTORE", OpCastore: "CASTORE", OpSastore: "SASTORE",
	OpPop: "POP", OpPop2: "POP2", OpDup: "DUP", OpDupX1: "DUP_X1", OpDupX2: "DUP_X2",
	OpDup2: "DUP2", OpDup2X1: "DUP2_X1", OpDup2X2: "DUP2_X2", OpSwap: "SWAP",
	OpIadd: "IADD", OpLadd: "LADD", OpFadd: "FADD", OpDadd: "DADD",
	OpIsub: "ISUB", OpLsub: "LSUB", OpFsub: "FSUB", OpDsub: "DSUB",
	OpImul: "IMUL", OpLmul: "LMUL", OpFmul: "FMUL", OpDmul: "DMUL",
	OpIdiv: "IDIV", OpLdiv: "LDIV", OpFdiv: "FDIV", OpDdiv: "DDIV",
	OpIrem: "IREM", OpLrem: "LREM", OpFrem: "FREM", OpDrem: "DREM",
	OpIneg: "INEG", OpLneg: "LNEG", OpFneg: "FNEG", OpDneg: "DNEG",
	OpIshl: "ISHL", OpLshl: "LSHL", OpIshr: "ISHR", OpLshr: "LSHR", OpIushr: "IUSHR", OpLushr: "LUSHR",
	OpIand: "IAND", OpLand: "LAND", OpIor: "IOR", OpLor: "LOR", OpIxor: "IXOR", OpLxor: "LXOR", OpIinc: "IINC",
	OpI2l: "I2L", OpI2f: "I2F", OpI2d: "I2D", OpL2i: "L2I", OpL2f: "L2F", OpL2d: "L2D",
	OpF2i: "F2I", OpF2l: "F2L", OpF2d: "F2D", OpD2i: "D2I", OpD2l: "D2L", OpD2f: "D2F",
	OpI2b: "I2B", OpI2c: "I2C", OpI2s: "I2S",
	OpLcmp: "LCMP", OpFcmpl: "FCMPL", OpFcmpg: "FCMPG", OpDcmpl: "DCMPL", OpDcmpg: "DCMPG",
	OpIfeq: "IFEQ", OpIfne: "IFNE", OpIflt: "IFLT", OpIfge: "IFGE", OpIfgt: "IFGT", OpIfle: "IFLE",
	OpIfIcmpeq: "IF_ICMPEQ", OpIfIcmpne: "IF_ICMPNE", OpIfIcmplt: "IF_ICMPLT",
	OpIfIcmpge: "IF_ICMPGE", OpIfIcmpgt: "IF_ICMPGT", OpIfIcmple: "IF_ICMPLE",
	OpIfAcmpeq: "IF_ACMPEQ", OpIfAcmpne: "IF_ACMPNE",
	OpGoto: "GOTO", OpJsr: "JSR", OpRet: "RET",
	OpTableswitch: "TABLESWITCH", OpLookupswitch: "LOOKUPSWITCH",
	OpIreturn: "IRETURN", OpLreturn: "LRETURN", OpFreturn: "FRETURN", OpDreturn: "DRETURN",
	OpAreturn: "ARETURN", OpReturn: "RETURN",
	OpGetstatic: "GETSTATIC", OpPutstatic: "PUTSTATIC", OpGetfield: "GETFIELD", OpPutfield: "PUTFIELD",
	OpInvokevirtual: "INVOKEVIRTUAL", OpInvokespecial: "INVOKESPECIAL", OpInvokestatic: "INVOKESTATIC",
	OpInvokeinterface: "INVOKEINTERFACE", OpInvokedynamic: "INVOKEDYNAMIC",
	OpNew: "NEW", OpNewarray: "NEWARRAY", OpAnewarray: "ANEWARRAY", OpArraylength: "ARRAYLENGTH",
	OpAthrow: "ATHROW", OpCheckcast: "CHECKCAST", OpInstanceof: "INSTANCEOF",
	OpMonitorenter: "MONITORENTER", OpMonitorexit: "MONITOREXIT",
	OpMultianewarray: "MULTIANEWARRAY", OpIfnull: "IFNULL", OpIfnonnull: "IFNONNULL",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	if op == OpNone {
		return "-"
	}
	return fmt.Sprintf("op%d", int(op))
}

// LookupOpcode returns the opcode with the given mnemonic, e.g. "IF_ICMPLT".
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// IsReturn reports whether op is one of the xRETURN instructions.
func (op Opcode) IsReturn() bool {
	return op >= OpIreturn && op <= OpReturn
}

// IsConditionalJump reports whether op is a two-way branch.
func (op Opcode) IsConditionalJump() bool {
	return (op >= OpIfeq && op <= OpIfAcmpne) || op == OpIfnull || op == OpIfnonnull
}

// EndsFlow reports whether control never falls through op to the next
// instruction.
func (op Opcode) EndsFlow() bool {
	switch op {
	case OpGoto, OpAthrow, OpTableswitch, OpLookupswitch, OpRet:
		return true
	}
	return op.IsReturn()
}
