// Package attr flattens custom attribute constructor arguments into tagged
// value records.
package attr

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/skdltmxn/nanometa/internal/catalog"
	"github.com/skdltmxn/nanometa/meta"
)

// Value is one flattened attribute argument. Options is the serialization tag
// as two upper-case hex digits; exactly one of Numeric and Text carries the payload.
type Value struct {
	Options string `json:"options"`
	Numeric string `json:"numeric,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Flatten encodes a constructor argument. Arguments declared as object[] are
// expanded element by element, so a params-style list yields one Value per element.
func Flatten(arg meta.AttrArg) []Value {
	if isObjectArray(arg.Type) {
		var out []Value
		for _, el := range arg.Elems {
			out = append(out, Flatten(unbox(el))...)
		}
		return out
	}

	if arg.Boxed != nil {
		return Flatten(*arg.Boxed)
	}

	tag := catalog.SerializationTypeOfSig(arg.Type)
	v := Value{Options: fmt.Sprintf("%02X", uint8(tag))}

	switch tag {
	case catalog.ElementBoolean:
		if truthy(arg.Value) {
			v.Numeric = hex64(1)
		} else {
			v.Numeric = hex64(0)
		}

	case catalog.ElementString, catalog.ElementObject:
		v.Text = text(arg.Value)

	case catalog.ElementChar:
		v.Text = char(arg.Value)

	case catalog.ElementI1:
		v.Numeric = hex64(uint64(int64(int8(signed(arg.Value)))))
	case catalog.ElementI2:
		v.Numeric = hex64(uint64(int64(int16(signed(arg.Value)))))
	case catalog.ElementI4:
		v.Numeric = hex64(uint64(int64(int32(signed(arg.Value)))))
	case catalog.ElementI8:
		v.Numeric = hex64(uint64(signed(arg.Value)))

	case catalog.ElementU1:
		v.Numeric = hex64(uint64(uint8(unsigned(arg.Value))))
	case catalog.ElementU2:
		v.Numeric = hex64(uint64(uint16(unsigned(arg.Value))))
	case catalog.ElementU4:
		v.Numeric = hex64(uint64(uint32(unsigned(arg.Value))))
	case catalog.ElementU8:
		v.Numeric = hex64(unsigned(arg.Value))

	default:
		v.Text = text(arg.Value)
	}

	return []Value{v}
}

// FlattenAll flattens every constructor argument of an attribute, in order.
func FlattenAll(a meta.CustomAttribute) []Value {
	var out []Value
	for _, arg := range a.Args {
		out = append(out, Flatten(arg)...)
	}
	return out
}

func isObjectArray(t meta.TypeSig) bool {
	return t.Kind == meta.SigArray && t.Elem != nil && t.Elem.FullName() == "System.Object"
}

// unbox returns the value carried by an object-typed element.
func unbox(el meta.AttrArg) meta.AttrArg {
	if el.Boxed != nil {
		return *el.Boxed
	}
	return el
}

func hex64(v uint64) string {
	return fmt.Sprintf("%016X", v)
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	case nil:
		return false
	}
	return signed(v) != 0
}

// signed widens any integer-like value a snapshot decoder may produce.
func signed(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return int64(u)
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if i, err := strconv.ParseInt(n, 0, 64); err == nil {
			return i
		}
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func unsigned(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case float64:
		if n > math.MaxInt64 {
			return uint64(n)
		}
	case json.Number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u
		}
	case string:
		if u, err := strconv.ParseUint(n, 0, 64); err == nil {
			return u
		}
	}
	return uint64(signed(v))
}

// char renders a character argument as the character itself; readers
// usually carry it as its UTF-16 code unit.
func char(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return string(rune(signed(v)))
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
