// Package sig renders type shapes as compact signature strings and as native
// interop type names.
package sig

import (
	"strconv"
	"strings"

	"github.com/skdltmxn/nanometa/internal/catalog"
	"github.com/skdltmxn/nanometa/meta"
)

// Signature returns the compact signature of a shape. It never fails:
// shapes the grammar does not model render as "".
func Signature(s meta.Shape) string {
	switch s.Kind {
	case meta.ShapePrimitive:
		return primitive(s)

	case meta.ShapeClass:
		return named("CLASS ", s)

	case meta.ShapeValueType:
		return named("VALUETYPE ", s)

	case meta.ShapeArray:
		if s.Elem == nil {
			return "[]"
		}
		return Signature(*s.Elem) + "[]"

	case meta.ShapeByRef:
		if s.Elem == nil {
			return "BYREF "
		}
		return "BYREF " + Signature(*s.Elem)

	case meta.ShapeGenericParam, meta.ShapeGenericInst:
		return "!!" + s.Name
	}
	return ""
}

// Of classifies a type reference and returns its signature.
func Of(t meta.TypeSig) string {
	return Signature(catalog.Classify(t))
}

func primitive(s meta.Shape) string {
	switch s.Data {
	// pointer-sized integers are not part of the data kind naming
	case meta.KindIntPtr:
		return "I"
	case meta.KindUIntPtr:
		return "U"
	case meta.KindString:
		return "STRING"
	case meta.KindR8:
		return "R8"
	case meta.KindTimeSpan:
		return "TIMESPAN"
	case meta.KindReflection:
		return strings.ReplaceAll(s.Name, ".", "")
	}
	return strings.TrimPrefix(s.Data.String(), "DATATYPE_")
}

func named(prefix string, s meta.Shape) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(s.Name)
	b.WriteString(" [")
	b.WriteString(s.Token.Hex())
	b.WriteByte(']')
	return b.String()
}

// Method renders a method signature as "RET(P1, P2)", or "RET( )" when the
// method takes no parameters.
func Method(m meta.MethodSig) string {
	var b strings.Builder
	b.WriteString(Of(m.Return))
	b.WriteByte('(')
	if len(m.Params) == 0 {
		b.WriteByte(' ')
	}
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Of(p))
	}
	b.WriteByte(')')
	return b.String()
}

// localIndent lines continuation entries up under the opening parenthesis of
// the dump's locals column.
const localIndent = "                "

// Locals renders a local variable list, one entry per line after the first:
//
//	( [0] I4,
//	                 [1] STRING )
func Locals(locals []meta.TypeSig) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, l := range locals {
		if i > 0 {
			b.WriteString(localIndent)
		}
		b.WriteString(" [")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("] ")
		b.WriteString(Of(l))
		if i < len(locals)-1 {
			b.WriteString(", \n")
		}
	}
	b.WriteString(" )")
	return b.String()
}
