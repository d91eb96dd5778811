package sig

import (
	"github.com/skdltmxn/nanometa/internal/catalog"
	"github.com/skdltmxn/nanometa/meta"
)

// Unsupported is the in-band marker for shapes with no usable native type.
const Unsupported = "UNSUPPORTED"

var headerNames = map[meta.DataKind]string{
	meta.KindVoid:    "void",
	meta.KindBoolean: "bool",
	meta.KindChar:    "char",
	meta.KindI1:      "int8_t",
	meta.KindU1:      "uint8_t",
	meta.KindI2:      "int16_t",
	meta.KindU2:      "uint16_t",
	meta.KindI4:      "signed int",
	meta.KindU4:      "unsigned int",
	meta.KindI8:      "int64_t",
	meta.KindU8:      "uint64_t",
	meta.KindR4:      "float",
	meta.KindR8:      "double",
	meta.KindString:  "const char*",
	meta.KindByRef:   "",
	meta.KindIntPtr:  "signed int",
	meta.KindUIntPtr: "unsigned int",
}

var macroNames = map[meta.DataKind]string{
	meta.KindVoid:    "void",
	meta.KindBoolean: "bool",
	meta.KindChar:    "CHAR",
	meta.KindI1:      "INT8",
	meta.KindU1:      "UINT8",
	meta.KindI2:      "INT16",
	meta.KindU2:      "UINT16",
	meta.KindI4:      "INT32",
	meta.KindU4:      "UINT32",
	meta.KindI8:      "INT64",
	meta.KindU8:      "UINT64",
	meta.KindR4:      "float",
	meta.KindR8:      "double",
	meta.KindString:  "LPCSTR",
	meta.KindByRef:   "NONE",
	meta.KindIntPtr:  "INT32",
	meta.KindUIntPtr: "UINT32",
}

// NativeHeaderName returns the C type used for the shape in generated native
// headers. Arrays become typed array wrappers over the element's macro name.
func NativeHeaderName(s meta.Shape) string {
	switch s.Kind {
	case meta.ShapePrimitive:
		return lookupNative(headerNames, s.Data)
	case meta.ShapeClass, meta.ShapeValueType, meta.ShapeGenericParam:
		return Unsupported
	case meta.ShapeArray:
		return "CLR_RT_TypedArray_" + RuntimeMacroName(elem(s))
	}
	return ""
}

// RuntimeMacroName returns the runtime marshalling macro tag for the shape.
func RuntimeMacroName(s meta.Shape) string {
	switch s.Kind {
	case meta.ShapePrimitive:
		return lookupNative(macroNames, s.Data)
	case meta.ShapeClass, meta.ShapeValueType, meta.ShapeGenericParam:
		return Unsupported
	case meta.ShapeArray:
		return RuntimeMacroName(elem(s)) + "_ARRAY"
	}
	return ""
}

// NativeOf classifies a type reference and returns both native projections.
func NativeOf(t meta.TypeSig) (header, macro string) {
	s := catalog.Classify(t)
	return NativeHeaderName(s), RuntimeMacroName(s)
}

func lookupNative(table map[meta.DataKind]string, k meta.DataKind) string {
	if name, ok := table[k]; ok {
		return name
	}
	return Unsupported
}

func elem(s meta.Shape) meta.Shape {
	if s.Elem == nil {
		return meta.Shape{}
	}
	return *s.Elem
}
