package meta

import "fmt"

// TableKind identifies the metadata table a token points into.
type TableKind uint8

// Table kinds, numbered as in ECMA-335 partition II.
const (
	TableModule          TableKind = 0x00
	TableTypeRef         TableKind = 0x01
	TableTypeDef         TableKind = 0x02
	TableField           TableKind = 0x04
	TableMethod          TableKind = 0x06
	TableParam           TableKind = 0x08
	TableInterfaceImpl   TableKind = 0x09
	TableMemberRef       TableKind = 0x0a
	TableCustomAttribute TableKind = 0x0c
	TableSignature       TableKind = 0x11
	TableModuleRef       TableKind = 0x1a
	TableTypeSpec        TableKind = 0x1b
	TableAssembly        TableKind = 0x20
	TableAssemblyRef     TableKind = 0x23
	TableGenericParam    TableKind = 0x2a
	TableMethodSpec      TableKind = 0x2b
	TableString          TableKind = 0x70
)

// MaxRow is the largest row index a token can carry.
const MaxRow = 1<<24 - 1

func (k TableKind) String() string {
	switch k {
	case TableModule:
		return "Module"
	case TableTypeRef:
		return "TypeRef"
	case TableTypeDef:
		return "TypeDef"
	case TableField:
		return "FieldDef"
	case TableMethod:
		return "MethodDef"
	case TableParam:
		return "Param"
	case TableInterfaceImpl:
		return "InterfaceImpl"
	case TableMemberRef:
		return "MemberRef"
	case TableCustomAttribute:
		return "CustomAttribute"
	case TableSignature:
		return "StandAloneSig"
	case TableModuleRef:
		return "ModuleRef"
	case TableTypeSpec:
		return "TypeSpec"
	case TableAssembly:
		return "Assembly"
	case TableAssemblyRef:
		return "AssemblyRef"
	case TableGenericParam:
		return "GenericParam"
	case TableMethodSpec:
		return "MethodSpec"
	case TableString:
		return "String"
	default:
		return fmt.Sprintf("Table(0x%02x)", uint8(k))
	}
}

// Valid reports whether k is one of the known table kinds.
func (k TableKind) Valid() bool {
	switch k {
	case TableModule, TableTypeRef, TableTypeDef, TableField, TableMethod,
		TableParam, TableInterfaceImpl, TableMemberRef, TableCustomAttribute,
		TableSignature, TableModuleRef, TableTypeSpec, TableAssembly,
		TableAssemblyRef, TableGenericParam, TableMethodSpec, TableString:
		return true
	}
	return false
}

// Token is a metadata token: the table kind in the top byte, the row in the low 24 bits.
type Token uint32

// NewToken packs a table kind and row index into a token.
func NewToken(kind TableKind, row uint32) (Token, error) {
	if row > MaxRow {
		return 0, &TokenRangeError{Table: kind, Row: uint64(row)}
	}
	return Token(uint32(kind)<<24 | row), nil
}

// MustToken is like NewToken but panics if row is out of range.
func MustToken(kind TableKind, row uint32) Token {
	t, err := NewToken(kind, row)
	if err != nil {
		panic(err)
	}
	return t
}

// NullToken returns the row-0 token of a table, meaning "none".
func NullToken(kind TableKind) Token {
	return Token(uint32(kind) << 24)
}

// Table returns the table kind of the token.
func (t Token) Table() TableKind { return TableKind(t >> 24) }

// Row returns the row index of the token.
func (t Token) Row() uint32 { return uint32(t) & MaxRow }

// Decode splits the token back into its table kind and row index.
func (t Token) Decode() (TableKind, uint32) { return t.Table(), t.Row() }

// IsNull reports whether the token points at row 0.
func (t Token) IsNull() bool { return t.Row() == 0 }

// Hex formats the token as 8 lower-case hex digits.
func (t Token) Hex() string { return fmt.Sprintf("%08x", uint32(t)) }

func (t Token) String() string { return t.Hex() }
