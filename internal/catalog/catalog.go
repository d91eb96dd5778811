// Package catalog maps fully-qualified primitive type names to data kinds and
// classifies type references into shapes.
package catalog

import "github.com/skdltmxn/nanometa/meta"

// primitives is built once and never mutated; concurrent reads are safe.
var primitives = map[string]meta.DataKind{
	"System.Void":     meta.KindVoid,
	"System.Boolean":  meta.KindBoolean,
	"System.Char":     meta.KindChar,
	"System.SByte":    meta.KindI1,
	"System.Byte":     meta.KindU1,
	"System.Int16":    meta.KindI2,
	"System.UInt16":   meta.KindU2,
	"System.Int32":    meta.KindI4,
	"System.UInt32":   meta.KindU4,
	"System.Int64":    meta.KindI8,
	"System.UInt64":   meta.KindU8,
	"System.Single":   meta.KindR4,
	"System.Double":   meta.KindR8,
	"System.DateTime": meta.KindDateTime,
	"System.TimeSpan": meta.KindTimeSpan,
	"System.String":   meta.KindString,
	"System.Object":   meta.KindObject,
	"System.IntPtr":   meta.KindIntPtr,
	"System.UIntPtr":  meta.KindUIntPtr,

	"System.WeakReference": meta.KindWeakClass,

	"System.Type":                       meta.KindReflection,
	"System.Reflection.Assembly":        meta.KindReflection,
	"System.Reflection.FieldInfo":       meta.KindReflection,
	"System.Reflection.MethodInfo":      meta.KindReflection,
	"System.Reflection.ConstructorInfo": meta.KindReflection,
}

// Lookup returns the data kind of a primitive type. Types absent from the
// catalog are not primitives.
func Lookup(fullName string) (meta.DataKind, bool) {
	k, ok := primitives[fullName]
	return k, ok
}

// IsPrimitive reports whether fullName names a catalogued primitive type.
func IsPrimitive(fullName string) bool {
	_, ok := primitives[fullName]
	return ok
}

// Classify decides the shape of a type reference. Catalogued names win over
// the reader's class/value-type distinction; composites recurse into their element.
func Classify(t meta.TypeSig) meta.Shape {
	switch t.Kind {
	case meta.SigArray:
		return meta.ArrayOf(classifyElem(t))
	case meta.SigByRef:
		return meta.ByRefTo(classifyElem(t))
	case meta.SigGenericParam:
		return meta.GenericParamShape(t.Name)
	case meta.SigGenericInst:
		return meta.GenericInstShape(t.Name)
	}

	name := t.FullName()
	if k, ok := primitives[name]; ok {
		return meta.Primitive(k, name)
	}

	switch t.Kind {
	case meta.SigClass:
		return meta.Class(name, t.Token)
	case meta.SigValueType:
		return meta.ValueType(name, t.Token)
	}
	return meta.Shape{Name: name, Token: t.Token}
}

func classifyElem(t meta.TypeSig) meta.Shape {
	if t.Elem == nil {
		return meta.Shape{}
	}
	return Classify(*t.Elem)
}
