package meta

// DataKind is the primitive storage category of a type.
type DataKind uint8

const (
	KindVoid DataKind = iota
	KindBoolean
	KindChar
	KindI1
	KindU1
	KindI2
	KindU2
	KindI4
	KindU4
	KindI8
	KindU8
	KindR4
	KindR8
	KindDateTime
	KindTimeSpan
	KindString
	KindObject
	KindByRef
	KindIntPtr
	KindUIntPtr
	KindWeakClass
	KindReflection
)

var dataKindNames = [...]string{
	KindVoid:       "DATATYPE_VOID",
	KindBoolean:    "DATATYPE_BOOLEAN",
	KindChar:       "DATATYPE_CHAR",
	KindI1:         "DATATYPE_I1",
	KindU1:         "DATATYPE_U1",
	KindI2:         "DATATYPE_I2",
	KindU2:         "DATATYPE_U2",
	KindI4:         "DATATYPE_I4",
	KindU4:         "DATATYPE_U4",
	KindI8:         "DATATYPE_I8",
	KindU8:         "DATATYPE_U8",
	KindR4:         "DATATYPE_R4",
	KindR8:         "DATATYPE_R8",
	KindDateTime:   "DATATYPE_DATETIME",
	KindTimeSpan:   "DATATYPE_TIMESPAN",
	KindString:     "DATATYPE_STRING",
	KindObject:     "DATATYPE_OBJECT",
	KindByRef:      "DATATYPE_BYREF",
	KindIntPtr:     "DATATYPE_INTPTR",
	KindUIntPtr:    "DATATYPE_UINTPTR",
	KindWeakClass:  "DATATYPE_WEAKCLASS",
	KindReflection: "DATATYPE_REFLECTION",
}

func (k DataKind) String() string {
	if int(k) < len(dataKindNames) {
		return dataKindNames[k]
	}
	return "DATATYPE_UNKNOWN"
}

// ShapeKind selects the variant of a Shape.
type ShapeKind uint8

const (
	ShapeUnknown ShapeKind = iota
	ShapePrimitive
	ShapeClass
	ShapeValueType
	ShapeArray
	ShapeByRef
	ShapeGenericParam
	ShapeGenericInst
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePrimitive:
		return "primitive"
	case ShapeClass:
		return "class"
	case ShapeValueType:
		return "valuetype"
	case ShapeArray:
		return "array"
	case ShapeByRef:
		return "byref"
	case ShapeGenericParam:
		return "genericparam"
	case ShapeGenericInst:
		return "genericinst"
	default:
		return "unknown"
	}
}

// Shape is the classified form of a type reference. Exactly one variant applies:
// Data is meaningful for primitives, Name for everything named, Token for classes
// and value types, Elem for arrays and by-reference types.
type Shape struct {
	Kind  ShapeKind
	Data  DataKind
	Name  string
	Token Token
	Elem  *Shape
}

// Primitive returns the shape of a catalogued primitive type.
func Primitive(kind DataKind, fullName string) Shape {
	return Shape{Kind: ShapePrimitive, Data: kind, Name: fullName}
}

// Class returns the shape of a reference type.
func Class(fullName string, tok Token) Shape {
	return Shape{Kind: ShapeClass, Name: fullName, Token: tok}
}

// ValueType returns the shape of a value type.
func ValueType(fullName string, tok Token) Shape {
	return Shape{Kind: ShapeValueType, Name: fullName, Token: tok}
}

// ArrayOf returns the shape of a single-dimension array of elem.
func ArrayOf(elem Shape) Shape {
	return Shape{Kind: ShapeArray, Elem: &elem}
}

// ByRefTo returns the shape of a managed reference to elem.
func ByRefTo(elem Shape) Shape {
	return Shape{Kind: ShapeByRef, Elem: &elem}
}

// GenericParamShape returns the shape of a generic parameter.
func GenericParamShape(name string) Shape {
	return Shape{Kind: ShapeGenericParam, Name: name}
}

// GenericInstShape returns the shape of a generic instantiation.
func GenericInstShape(name string) Shape {
	return Shape{Kind: ShapeGenericInst, Name: name}
}
