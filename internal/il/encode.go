package il

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/skdltmxn/nanometa/meta"
)

// mnemonicWidth is the column the operand text starts at.
const mnemonicWidth = 12

// Resolver answers the token lookups operand rendering needs. *meta.Module
// implements it.
type Resolver interface {
	TypeByToken(tok meta.Token) (meta.TypeSig, error)
	FieldTypeByToken(tok meta.Token) (meta.TypeSig, error)
	MethodFullName(tok meta.Token) (string, error)
}

// Interner assigns String tokens to literals. *strtab.Table implements it.
type Interner interface {
	Intern(s string) (meta.Token, error)
}

// Encoder renders instructions as text with resolved operands.
type Encoder struct {
	Resolver Resolver
	Strings  Interner
}

// NewEncoder creates an Encoder.
func NewEncoder(r Resolver, strs Interner) *Encoder {
	return &Encoder{Resolver: r, Strings: strs}
}

// Encode renders one instruction. Only token, field, method, type and string
// operands produce operand text; every other operand kind leaves the
// mnemonic alone.
func (e *Encoder) Encode(in meta.Instruction) (string, error) {
	var b strings.Builder
	b.WriteString(runewidth.FillRight(in.OpCode, mnemonicWidth))

	kind := in.Operand.Kind
	if kind == meta.OperandNone {
		if op, ok := Lookup(in.OpCode); ok {
			kind = op.Operand
		}
	}
	tok := in.Operand.Token

	switch kind {
	case meta.OperandToken, meta.OperandSig:
		writeToken(&b, tok)

	case meta.OperandField:
		t, err := e.Resolver.FieldTypeByToken(tok)
		if err != nil {
			return "", e.fail(in, err)
		}
		b.WriteString(t.FullName())
		b.WriteByte(' ')
		writeToken(&b, tok)

	case meta.OperandMethod:
		name, err := e.Resolver.MethodFullName(tok)
		if err != nil {
			return "", e.fail(in, err)
		}
		b.WriteString(name)
		b.WriteByte(' ')
		writeToken(&b, tok)

	case meta.OperandType:
		t, err := e.Resolver.TypeByToken(tok)
		if err != nil {
			return "", e.fail(in, err)
		}
		if t.Kind == meta.SigArray && t.Elem != nil {
			b.WriteString(t.Elem.FullName())
			b.WriteString("[]")
		} else {
			b.WriteString(t.FullName())
		}
		b.WriteByte(' ')
		writeToken(&b, tok)

	case meta.OperandString:
		strTok, err := e.Strings.Intern(in.Operand.String)
		if err != nil {
			return "", e.fail(in, err)
		}
		b.WriteByte('"')
		b.WriteString(in.Operand.String)
		b.WriteString(`" `)
		writeToken(&b, strTok)
	}

	return b.String(), nil
}

// EncodeAll renders a whole instruction stream.
func (e *Encoder) EncodeAll(insns []meta.Instruction) ([]string, error) {
	out := make([]string, 0, len(insns))
	for _, in := range insns {
		line, err := e.Encode(in)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (e *Encoder) fail(in meta.Instruction, err error) error {
	return fmt.Errorf("IL_%04x %s: %w", in.Offset, in.OpCode, err)
}

func writeToken(b *strings.Builder, tok meta.Token) {
	b.WriteByte('[')
	b.WriteString(tok.Hex())
	b.WriteByte(']')
}

// Handler renders an exception clause as
// "kk tryStart->tryEnd handlerStart->handlerEnd catchType". Unresolved
// offsets render empty and a missing catch type renders as the null token.
func Handler(h meta.ExceptionHandler) string {
	catch := h.CatchType
	if h.Kind != meta.HandlerCatch {
		catch = 0
	}
	// catch token is bare hex, as in the nanoFramework dump layout
	return fmt.Sprintf("%02x %s->%s %s->%s %s",
		uint8(h.Kind),
		offset(h.TryStart), offset(h.TryEnd),
		offset(h.HandlerStart), offset(h.HandlerEnd),
		catch.Hex())
}

func offset(p *uint32) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%08x", *p)
}
