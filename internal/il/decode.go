package il

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/skdltmxn/nanometa/internal/stream"
	"github.com/skdltmxn/nanometa/meta"
)

// Errors returned while decoding method bodies.
var (
	ErrInvalidBody   = errors.New("il: invalid method body")
	ErrUnknownOpCode = errors.New("il: unknown opcode")
)

// Method body header and section flags (ECMA-335 II.25.4).
const (
	headerTiny     = 0x2
	headerFat      = 0x3
	flagMoreSects  = 0x08
	flagInitLocals = 0x10

	sectEHTable   = 0x01
	sectFatFormat = 0x40
	sectMoreSects = 0x80
)

// LiteralSource resolves String tokens found in ldstr operands.
type LiteralSource interface {
	Literal(tok meta.Token) (string, bool)
}

// Body is a decoded method body.
type Body struct {
	MaxStack     uint16
	InitLocals   bool
	LocalVarSig  meta.Token
	Instructions []meta.Instruction
	Handlers     []meta.ExceptionHandler
}

// ParseBody decodes a method body including its tiny or fat header and any
// exception handling sections.
func ParseBody(data []byte, lits LiteralSource) (*Body, error) {
	r := stream.NewReader(data)

	first, err := r.PeekU8()
	if err != nil {
		return nil, fmt.Errorf("%w: empty", ErrInvalidBody)
	}

	body := &Body{MaxStack: 8}
	var codeSize uint32
	var flags uint16

	switch first & 0x3 {
	case headerTiny:
		_, _ = r.ReadU8()
		codeSize = uint32(first >> 2)

	case headerFat:
		flagsAndSize, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated fat header", ErrInvalidBody)
		}
		flags = flagsAndSize & 0x0FFF
		headerSize := int(flagsAndSize>>12) * 4
		if body.MaxStack, err = r.ReadU16(); err != nil {
			return nil, fmt.Errorf("%w: truncated fat header", ErrInvalidBody)
		}
		if codeSize, err = r.ReadU32(); err != nil {
			return nil, fmt.Errorf("%w: truncated fat header", ErrInvalidBody)
		}
		sigTok, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated fat header", ErrInvalidBody)
		}
		body.LocalVarSig = meta.Token(sigTok)
		body.InitLocals = flags&flagInitLocals != 0
		if err := r.SetOffset(headerSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}

	default:
		return nil, fmt.Errorf("%w: header byte 0x%02x", ErrInvalidBody, first)
	}

	size, err := safecast.Conv[int](codeSize)
	if err != nil {
		return nil, fmt.Errorf("%w: code size %d", ErrInvalidBody, codeSize)
	}
	code, err := r.SubReader(size)
	if err != nil {
		return nil, fmt.Errorf("%w: code size %d exceeds body", ErrInvalidBody, codeSize)
	}

	body.Instructions, err = decode(code, lits)
	if err != nil {
		return nil, err
	}

	if flags&flagMoreSects != 0 {
		body.Handlers, err = parseSections(r, body.Instructions)
		if err != nil {
			return nil, err
		}
	}

	return body, nil
}

// Decode decodes a raw CIL byte stream without a body header.
func Decode(code []byte, lits LiteralSource) ([]meta.Instruction, error) {
	return decode(stream.NewReader(code), lits)
}

func decode(r *stream.Reader, lits LiteralSource) ([]meta.Instruction, error) {
	var out []meta.Instruction

	for r.Remaining() > 0 {
		offset := uint32(r.Offset())

		b, _ := r.ReadU8()
		op := oneByte[b]
		if b == 0xFE {
			b2, err := r.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("%w: truncated two-byte opcode at 0x%x", ErrInvalidBody, offset)
			}
			op = twoByte[b2]
		}
		if op == nil {
			return nil, fmt.Errorf("%w: 0x%02x at offset 0x%x", ErrUnknownOpCode, b, offset)
		}

		operand, err := readOperand(r, op.Operand, lits)
		if err != nil {
			return nil, fmt.Errorf("il: %s at offset 0x%x: %w", op.Name, offset, err)
		}

		// branch targets are relative to the next instruction
		next := int64(r.Offset())
		switch op.Operand {
		case meta.OperandBranch, meta.OperandShortBranch:
			operand.Targets = []uint32{uint32(next + operand.Int)}
			operand.Int = 0
		case meta.OperandSwitch:
			for i, rel := range operand.Targets {
				operand.Targets[i] = uint32(next + int64(int32(rel)))
			}
		}

		out = append(out, meta.Instruction{Offset: offset, OpCode: op.Name, Operand: operand})
	}

	return out, nil
}

func readOperand(r *stream.Reader, kind meta.OperandKind, lits LiteralSource) (meta.Operand, error) {
	op := meta.Operand{Kind: kind}

	switch kind {
	case meta.OperandNone:

	case meta.OperandToken, meta.OperandSig, meta.OperandField, meta.OperandMethod, meta.OperandType:
		v, err := r.ReadU32()
		if err != nil {
			return op, err
		}
		op.Token = meta.Token(v)

	case meta.OperandString:
		v, err := r.ReadU32()
		if err != nil {
			return op, err
		}
		tok := meta.Token(v)
		s, ok := lits.Literal(tok)
		if !ok {
			return op, fmt.Errorf("%w: string [%s]", meta.ErrUnresolvedToken, tok.Hex())
		}
		op.String = s

	case meta.OperandShortBranch, meta.OperandShortInt:
		v, err := r.ReadI8()
		if err != nil {
			return op, err
		}
		op.Int = int64(v)

	case meta.OperandShortVar:
		v, err := r.ReadU8()
		if err != nil {
			return op, err
		}
		op.Int = int64(v)

	case meta.OperandVar:
		v, err := r.ReadU16()
		if err != nil {
			return op, err
		}
		op.Int = int64(v)

	case meta.OperandBranch, meta.OperandInt:
		v, err := r.ReadI32()
		if err != nil {
			return op, err
		}
		op.Int = int64(v)

	case meta.OperandInt64:
		v, err := r.ReadI64()
		if err != nil {
			return op, err
		}
		op.Int = v

	case meta.OperandShortFloat:
		v, err := r.ReadFloat32()
		if err != nil {
			return op, err
		}
		op.Float = float64(v)

	case meta.OperandFloat:
		v, err := r.ReadFloat64()
		if err != nil {
			return op, err
		}
		op.Float = v

	case meta.OperandSwitch:
		n, err := r.ReadU32()
		if err != nil {
			return op, err
		}
		if int(n) > r.Remaining()/4 {
			return op, fmt.Errorf("%w: switch with %d targets", ErrInvalidBody, n)
		}
		op.Targets = make([]uint32, n)
		for i := range op.Targets {
			if op.Targets[i], err = r.ReadU32(); err != nil {
				return op, err
			}
		}

	default:
		return op, fmt.Errorf("%w: operand kind %q", ErrInvalidBody, kind)
	}

	return op, nil
}

func parseSections(r *stream.Reader, insns []meta.Instruction) ([]meta.ExceptionHandler, error) {
	starts := make(map[uint32]bool, len(insns))
	for _, in := range insns {
		starts[in.Offset] = true
	}
	// offsets that do not start an instruction, such as the end of the code, stay unresolved
	at := func(off uint32) *uint32 {
		if !starts[off] {
			return nil
		}
		return &off
	}

	var handlers []meta.ExceptionHandler
	for {
		r.Align(4)
		kind, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated section header", ErrInvalidBody)
		}

		fat := kind&sectFatFormat != 0
		var dataSize uint32
		if fat {
			dataSize, err = r.ReadU24()
		} else {
			var small uint8
			small, err = r.ReadU8()
			dataSize = uint32(small)
			if err == nil {
				err = r.Skip(2)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: truncated section header", ErrInvalidBody)
		}

		clauseSize := uint32(12)
		if fat {
			clauseSize = 24
		}
		if dataSize < 4 {
			return nil, fmt.Errorf("%w: section size %d", ErrInvalidBody, dataSize)
		}
		count := (dataSize - 4) / clauseSize

		for i := uint32(0); i < count; i++ {
			c, err := readClause(r, fat)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated exception clause", ErrInvalidBody)
			}
			if kind&sectEHTable == 0 {
				continue
			}
			h := meta.ExceptionHandler{
				Kind:         meta.HandlerKind(c.flags),
				TryStart:     at(c.tryOffset),
				TryEnd:       at(c.tryOffset + c.tryLength),
				HandlerStart: at(c.handlerOffset),
				HandlerEnd:   at(c.handlerOffset + c.handlerLength),
			}
			if h.Kind == meta.HandlerCatch {
				h.CatchType = meta.Token(c.classOrFilter)
			}
			handlers = append(handlers, h)
		}

		if kind&sectMoreSects == 0 {
			return handlers, nil
		}
	}
}

type clause struct {
	flags         uint32
	tryOffset     uint32
	tryLength     uint32
	handlerOffset uint32
	handlerLength uint32
	classOrFilter uint32
}

func readClause(r *stream.Reader, fat bool) (clause, error) {
	var c clause
	if fat {
		for _, dst := range []*uint32{&c.flags, &c.tryOffset, &c.tryLength, &c.handlerOffset, &c.handlerLength, &c.classOrFilter} {
			v, err := r.ReadU32()
			if err != nil {
				return c, err
			}
			*dst = v
		}
		return c, nil
	}

	flags, err := r.ReadU16()
	if err != nil {
		return c, err
	}
	tryOffset, err := r.ReadU16()
	if err != nil {
		return c, err
	}
	tryLength, err := r.ReadU8()
	if err != nil {
		return c, err
	}
	handlerOffset, err := r.ReadU16()
	if err != nil {
		return c, err
	}
	handlerLength, err := r.ReadU8()
	if err != nil {
		return c, err
	}
	classOrFilter, err := r.ReadU32()
	if err != nil {
		return c, err
	}

	c.flags = uint32(flags)
	c.tryOffset = uint32(tryOffset)
	c.tryLength = uint32(tryLength)
	c.handlerOffset = uint32(handlerOffset)
	c.handlerLength = uint32(handlerLength)
	c.classOrFilter = classOrFilter
	return c, nil
}
