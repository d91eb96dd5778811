package catalog

import (
	"fmt"

	"github.com/skdltmxn/nanometa/meta"
)

// SerializationType is the element type tag used when serializing custom
// attribute arguments.
type SerializationType uint8

const (
	ElementNone      SerializationType = 0x00
	ElementBoolean   SerializationType = 0x02
	ElementChar      SerializationType = 0x03
	ElementI1        SerializationType = 0x04
	ElementU1        SerializationType = 0x05
	ElementI2        SerializationType = 0x06
	ElementU2        SerializationType = 0x07
	ElementI4        SerializationType = 0x08
	ElementU4        SerializationType = 0x09
	ElementI8        SerializationType = 0x0a
	ElementU8        SerializationType = 0x0b
	ElementR4        SerializationType = 0x0c
	ElementR8        SerializationType = 0x0d
	ElementString    SerializationType = 0x0e
	ElementObject    SerializationType = 0x1c
	ElementSZArray   SerializationType = 0x1d
	ElementType      SerializationType = 0x50
	ElementTaggedObj SerializationType = 0x51
)

func (s SerializationType) String() string {
	switch s {
	case ElementNone:
		return "ELEMENT_TYPE_NONE"
	case ElementBoolean:
		return "ELEMENT_TYPE_BOOLEAN"
	case ElementChar:
		return "ELEMENT_TYPE_CHAR"
	case ElementI1:
		return "ELEMENT_TYPE_I1"
	case ElementU1:
		return "ELEMENT_TYPE_U1"
	case ElementI2:
		return "ELEMENT_TYPE_I2"
	case ElementU2:
		return "ELEMENT_TYPE_U2"
	case ElementI4:
		return "ELEMENT_TYPE_I4"
	case ElementU4:
		return "ELEMENT_TYPE_U4"
	case ElementI8:
		return "ELEMENT_TYPE_I8"
	case ElementU8:
		return "ELEMENT_TYPE_U8"
	case ElementR4:
		return "ELEMENT_TYPE_R4"
	case ElementR8:
		return "ELEMENT_TYPE_R8"
	case ElementString:
		return "ELEMENT_TYPE_STRING"
	case ElementObject:
		return "ELEMENT_TYPE_OBJECT"
	case ElementSZArray:
		return "ELEMENT_TYPE_SZARRAY"
	case ElementType:
		return "ELEMENT_TYPE_TYPE"
	case ElementTaggedObj:
		return "ELEMENT_TYPE_TAGGED_OBJECT"
	default:
		return fmt.Sprintf("ELEMENT_TYPE(0x%02x)", uint8(s))
	}
}

// SerializationTypeOf maps a data kind to its attribute serialization tag.
// Kinds with no tag map to ElementNone.
func SerializationTypeOf(k meta.DataKind) SerializationType {
	switch k {
	case meta.KindBoolean:
		return ElementBoolean
	case meta.KindChar:
		return ElementChar
	case meta.KindI1:
		return ElementI1
	case meta.KindU1:
		return ElementU1
	case meta.KindI2:
		return ElementI2
	case meta.KindU2:
		return ElementU2
	case meta.KindI4, meta.KindIntPtr:
		return ElementI4
	case meta.KindU4, meta.KindUIntPtr:
		return ElementU4
	case meta.KindI8:
		return ElementI8
	case meta.KindU8:
		return ElementU8
	case meta.KindR4:
		return ElementR4
	case meta.KindR8:
		return ElementR8
	case meta.KindString:
		return ElementString
	case meta.KindObject:
		return ElementObject
	case meta.KindReflection:
		return ElementType
	default:
		return ElementNone
	}
}

// SerializationTypeOfSig resolves the tag of an attribute argument's declared type.
func SerializationTypeOfSig(t meta.TypeSig) SerializationType {
	if t.Kind == meta.SigArray {
		return ElementSZArray
	}
	k, ok := Lookup(t.FullName())
	if !ok {
		return ElementNone
	}
	return SerializationTypeOf(k)
}
