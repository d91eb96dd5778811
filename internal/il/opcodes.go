// Package il decodes CIL method bodies and encodes instructions as
// token-qualified text.
package il

import "github.com/skdltmxn/nanometa/meta"

// OpCode describes one CIL opcode.
type OpCode struct {
	Name    string
	Value   uint16 // two-byte opcodes carry the 0xFE prefix in the high byte
	Operand meta.OperandKind
}

// Size returns the encoded size of the opcode itself.
func (o OpCode) Size() int {
	if o.Value>>8 == 0xFE {
		return 2
	}
	return 1
}

type opDef struct {
	value   uint16
	name    string
	operand meta.OperandKind
}

var opDefs = []opDef{
	{0x00, "nop", meta.OperandNone},
	{0x01, "break", meta.OperandNone},
	{0x02, "ldarg.0", meta.OperandNone},
	{0x03, "ldarg.1", meta.OperandNone},
	{0x04, "ldarg.2", meta.OperandNone},
	{0x05, "ldarg.3", meta.OperandNone},
	{0x06, "ldloc.0", meta.OperandNone},
	{0x07, "ldloc.1", meta.OperandNone},
	{0x08, "ldloc.2", meta.OperandNone},
	{0x09, "ldloc.3", meta.OperandNone},
	{0x0A, "stloc.0", meta.OperandNone},
	{0x0B, "stloc.1", meta.OperandNone},
	{0x0C, "stloc.2", meta.OperandNone},
	{0x0D, "stloc.3", meta.OperandNone},
	{0x0E, "ldarg.s", meta.OperandShortVar},
	{0x0F, "ldarga.s", meta.OperandShortVar},
	{0x10, "starg.s", meta.OperandShortVar},
	{0x11, "ldloc.s", meta.OperandShortVar},
	{0x12, "ldloca.s", meta.OperandShortVar},
	{0x13, "stloc.s", meta.OperandShortVar},
	{0x14, "ldnull", meta.OperandNone},
	{0x15, "ldc.i4.m1", meta.OperandNone},
	{0x16, "ldc.i4.0", meta.OperandNone},
	{0x17, "ldc.i4.1", meta.OperandNone},
	{0x18, "ldc.i4.2", meta.OperandNone},
	{0x19, "ldc.i4.3", meta.OperandNone},
	{0x1A, "ldc.i4.4", meta.OperandNone},
	{0x1B, "ldc.i4.5", meta.OperandNone},
	{0x1C, "ldc.i4.6", meta.OperandNone},
	{0x1D, "ldc.i4.7", meta.OperandNone},
	{0x1E, "ldc.i4.8", meta.OperandNone},
	{0x1F, "ldc.i4.s", meta.OperandShortInt},
	{0x20, "ldc.i4", meta.OperandInt},
	{0x21, "ldc.i8", meta.OperandInt64},
	{0x22, "ldc.r4", meta.OperandShortFloat},
	{0x23, "ldc.r8", meta.OperandFloat},
	{0x25, "dup", meta.OperandNone},
	{0x26, "pop", meta.OperandNone},
	{0x27, "jmp", meta.OperandMethod},
	{0x28, "call", meta.OperandMethod},
	{0x29, "calli", meta.OperandSig},
	{0x2A, "ret", meta.OperandNone},
	{0x2B, "br.s", meta.OperandShortBranch},
	{0x2C, "brfalse.s", meta.OperandShortBranch},
	{0x2D, "brtrue.s", meta.OperandShortBranch},
	{0x2E, "beq.s", meta.OperandShortBranch},
	{0x2F, "bge.s", meta.OperandShortBranch},
	{0x30, "bgt.s", meta.OperandShortBranch},
	{0x31, "ble.s", meta.OperandShortBranch},
	{0x32, "blt.s", meta.OperandShortBranch},
	{0x33, "bne.un.s", meta.OperandShortBranch},
	{0x34, "bge.un.s", meta.OperandShortBranch},
	{0x35, "bgt.un.s", meta.OperandShortBranch},
	{0x36, "ble.un.s", meta.OperandShortBranch},
	{0x37, "blt.un.s", meta.OperandShortBranch},
	{0x38, "br", meta.OperandBranch},
	{0x39, "brfalse", meta.OperandBranch},
	{0x3A, "brtrue", meta.OperandBranch},
	{0x3B, "beq", meta.OperandBranch},
	{0x3C, "bge", meta.OperandBranch},
	{0x3D, "bgt", meta.OperandBranch},
	{0x3E, "ble", meta.OperandBranch},
	{0x3F, "blt", meta.OperandBranch},
	{0x40, "bne.un", meta.OperandBranch},
	{0x41, "bge.un", meta.OperandBranch},
	{0x42, "bgt.un", meta.OperandBranch},
	{0x43, "ble.un", meta.OperandBranch},
	{0x44, "blt.un", meta.OperandBranch},
	{0x45, "switch", meta.OperandSwitch},
	{0x46, "ldind.i1", meta.OperandNone},
	{0x47, "ldind.u1", meta.OperandNone},
	{0x48, "ldind.i2", meta.OperandNone},
	{0x49, "ldind.u2", meta.OperandNone},
	{0x4A, "ldind.i4", meta.OperandNone},
	{0x4B, "ldind.u4", meta.OperandNone},
	{0x4C, "ldind.i8", meta.OperandNone},
	{0x4D, "ldind.i", meta.OperandNone},
	{0x4E, "ldind.r4", meta.OperandNone},
	{0x4F, "ldind.r8", meta.OperandNone},
	{0x50, "ldind.ref", meta.OperandNone},
	{0x51, "stind.ref", meta.OperandNone},
	{0x52, "stind.i1", meta.OperandNone},
	{0x53, "stind.i2", meta.OperandNone},
	{0x54, "stind.i4", meta.OperandNone},
	{0x55, "stind.i8", meta.OperandNone},
	{0x56, "stind.r4", meta.OperandNone},
	{0x57, "stind.r8", meta.OperandNone},
	{0x58, "add", meta.OperandNone},
	{0x59, "sub", meta.OperandNone},
	{0x5A, "mul", meta.OperandNone},
	{0x5B, "div", meta.OperandNone},
	{0x5C, "div.un", meta.OperandNone},
	{0x5D, "rem", meta.OperandNone},
	{0x5E, "rem.un", meta.OperandNone},
	{0x5F, "and", meta.OperandNone},
	{0x60, "or", meta.OperandNone},
	{0x61, "xor", meta.OperandNone},
	{0x62, "shl", meta.OperandNone},
	{0x63, "shr", meta.OperandNone},
	{0x64, "shr.un", meta.OperandNone},
	{0x65, "neg", meta.OperandNone},
	{0x66, "not", meta.OperandNone},
	{0x67, "conv.i1", meta.OperandNone},
	{0x68, "conv.i2", meta.OperandNone},
	{0x69, "conv.i4", meta.OperandNone},
	{0x6A, "conv.i8", meta.OperandNone},
	{0x6B, "conv.r4", meta.OperandNone},
	{0x6C, "conv.r8", meta.OperandNone},
	{0x6D, "conv.u4", meta.OperandNone},
	{0x6E, "conv.u8", meta.OperandNone},
	{0x6F, "callvirt", meta.OperandMethod},
	{0x70, "cpobj", meta.OperandType},
	{0x71, "ldobj", meta.OperandType},
	{0x72, "ldstr", meta.OperandString},
	{0x73, "newobj", meta.OperandMethod},
	{0x74, "castclass", meta.OperandType},
	{0x75, "isinst", meta.OperandType},
	{0x76, "conv.r.un", meta.OperandNone},
	{0x79, "unbox", meta.OperandType},
	{0x7A, "throw", meta.OperandNone},
	{0x7B, "ldfld", meta.OperandField},
	{0x7C, "ldflda", meta.OperandField},
	{0x7D, "stfld", meta.OperandField},
	{0x7E, "ldsfld", meta.OperandField},
	{0x7F, "ldsflda", meta.OperandField},
	{0x80, "stsfld", meta.OperandField},
	{0x81, "stobj", meta.OperandType},
	{0x82, "conv.ovf.i1.un", meta.OperandNone},
	{0x83, "conv.ovf.i2.un", meta.OperandNone},
	{0x84, "conv.ovf.i4.un", meta.OperandNone},
	{0x85, "conv.ovf.i8.un", meta.OperandNone},
	{0x86, "conv.ovf.u1.un", meta.OperandNone},
	{0x87, "conv.ovf.u2.un", meta.OperandNone},
	{0x88, "conv.ovf.u4.un", meta.OperandNone},
	{0x89, "conv.ovf.u8.un", meta.OperandNone},
	{0x8A, "conv.ovf.i.un", meta.OperandNone},
	{0x8B, "conv.ovf.u.un", meta.OperandNone},
	{0x8C, "box", meta.OperandType},
	{0x8D, "newarr", meta.OperandType},
	{0x8E, "ldlen", meta.OperandNone},
	{0x8F, "ldelema", meta.OperandType},
	{0x90, "ldelem.i1", meta.OperandNone},
	{0x91, "ldelem.u1", meta.OperandNone},
	{0x92, "ldelem.i2", meta.OperandNone},
	{0x93, "ldelem.u2", meta.OperandNone},
	{0x94, "ldelem.i4", meta.OperandNone},
	{0x95, "ldelem.u4", meta.OperandNone},
	{0x96, "ldelem.i8", meta.OperandNone},
	{0x97, "ldelem.i", meta.OperandNone},
	{0x98, "ldelem.r4", meta.OperandNone},
	{0x99, "ldelem.r8", meta.OperandNone},
	{0x9A, "ldelem.ref", meta.OperandNone},
	{0x9B, "stelem.i", meta.OperandNone},
	{0x9C, "stelem.i1", meta.OperandNone},
	{0x9D, "stelem.i2", meta.OperandNone},
	{0x9E, "stelem.i4", meta.OperandNone},
	{0x9F, "stelem.i8", meta.OperandNone},
	{0xA0, "stelem.r4", meta.OperandNone},
	{0xA1, "stelem.r8", meta.OperandNone},
	{0xA2, "stelem.ref", meta.OperandNone},
	{0xA3, "ldelem.any", meta.OperandType},
	{0xA4, "stelem.any", meta.OperandType},
	{0xA5, "unbox.any", meta.OperandType},
	{0xB3, "conv.ovf.i1", meta.OperandNone},
	{0xB4, "conv.ovf.u1", meta.OperandNone},
	{0xB5, "conv.ovf.i2", meta.OperandNone},
	{0xB6, "conv.ovf.u2", meta.OperandNone},
	{0xB7, "conv.ovf.i4", meta.OperandNone},
	{0xB8, "conv.ovf.u4", meta.OperandNone},
	{0xB9, "conv.ovf.i8", meta.OperandNone},
	{0xBA, "conv.ovf.u8", meta.OperandNone},
	{0xC2, "refanyval", meta.OperandType},
	{0xC3, "ckfinite", meta.OperandNone},
	{0xC6, "mkrefany", meta.OperandType},
	{0xD0, "ldtoken", meta.OperandToken},
	{0xD1, "conv.u2", meta.OperandNone},
	{0xD2, "conv.u1", meta.OperandNone},
	{0xD3, "conv.i", meta.OperandNone},
	{0xD4, "conv.ovf.i", meta.OperandNone},
	{0xD5, "conv.ovf.u", meta.OperandNone},
	{0xD6, "add.ovf", meta.OperandNone},
	{0xD7, "add.ovf.un", meta.OperandNone},
	{0xD8, "mul.ovf", meta.OperandNone},
	{0xD9, "mul.ovf.un", meta.OperandNone},
	{0xDA, "sub.ovf", meta.OperandNone},
	{0xDB, "sub.ovf.un", meta.OperandNone},
	{0xDC, "endfinally", meta.OperandNone},
	{0xDD, "leave", meta.OperandBranch},
	{0xDE, "leave.s", meta.OperandShortBranch},
	{0xDF, "stind.i", meta.OperandNone},
	{0xE0, "conv.u", meta.OperandNone},

	{0xFE00, "arglist", meta.OperandNone},
	{0xFE01, "ceq", meta.OperandNone},
	{0xFE02, "cgt", meta.OperandNone},
	{0xFE03, "cgt.un", meta.OperandNone},
	{0xFE04, "clt", meta.OperandNone},
	{0xFE05, "clt.un", meta.OperandNone},
	{0xFE06, "ldftn", meta.OperandMethod},
	{0xFE07, "ldvirtftn", meta.OperandMethod},
	{0xFE09, "ldarg", meta.OperandVar},
	{0xFE0A, "ldarga", meta.OperandVar},
	{0xFE0B, "starg", meta.OperandVar},
	{0xFE0C, "ldloc", meta.OperandVar},
	{0xFE0D, "ldloca", meta.OperandVar},
	{0xFE0E, "stloc", meta.OperandVar},
	{0xFE0F, "localloc", meta.OperandNone},
	{0xFE11, "endfilter", meta.OperandNone},
	{0xFE12, "unaligned.", meta.OperandShortInt},
	{0xFE13, "volatile.", meta.OperandNone},
	{0xFE14, "tail.", meta.OperandNone},
	{0xFE15, "initobj", meta.OperandType},
	{0xFE16, "constrained.", meta.OperandType},
	{0xFE17, "cpblk", meta.OperandNone},
	{0xFE18, "initblk", meta.OperandNone},
	{0xFE19, "no.", meta.OperandShortInt},
	{0xFE1A, "rethrow", meta.OperandNone},
	{0xFE1C, "sizeof", meta.OperandType},
	{0xFE1D, "refanytype", meta.OperandNone},
	{0xFE1E, "readonly.", meta.OperandNone},
}

var (
	oneByte [0x100]*OpCode
	twoByte [0x100]*OpCode
	byName  = make(map[string]*OpCode, len(opDefs))
)

func init() {
	for _, d := range opDefs {
		op := &OpCode{Name: d.name, Value: d.value, Operand: d.operand}
		if d.value>>8 == 0xFE {
			twoByte[d.value&0xFF] = op
		} else {
			oneByte[d.value] = op
		}
		byName[d.name] = op
	}
}

// Lookup returns the opcode with the given mnemonic.
func Lookup(name string) (OpCode, bool) {
	op, ok := byName[name]
	if !ok {
		return OpCode{}, false
	}
	return *op, true
}
