package meta

import "strings"

// Entity is the read-only capability every token-owning record exposes.
type Entity interface {
	// MetadataToken returns the token assigned to the record.
	MetadataToken() Token

	// FullName returns the record's qualified name.
	FullName() string
}

// AssemblyRef is a reference to another assembly. Its token is derived from
// its position in the table.
type AssemblyRef struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ModuleRef is a reference to another module.
type ModuleRef struct {
	Name string `json:"name"`
}

// TypeRef is a reference to a type defined in another assembly.
type TypeRef struct {
	Token     Token  `json:"token"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	// Scope is the zero-based index of the resolving assembly reference.
	Scope uint32 `json:"scope"`
	// Declaring is set for nested type references.
	Declaring Token `json:"declaring,omitempty"`
}

func (t *TypeRef) MetadataToken() Token { return t.Token }
func (t *TypeRef) FullName() string     { return qualify(t.Namespace, t.Name) }

// MethodSig is the return type and parameter list of a method.
type MethodSig struct {
	Return TypeSig   `json:"return"`
	Params []TypeSig `json:"params,omitempty"`
}

// MemberRef is a reference to a method or field of a referenced type.
// Field references carry FieldType; method references carry Signature.
type MemberRef struct {
	Token         Token     `json:"token"`
	Name          string    `json:"name"`
	DeclaringType Token     `json:"declaringType"`
	Signature     MethodSig `json:"signature"`
	FieldType     *TypeSig  `json:"fieldType,omitempty"`
}

func (m *MemberRef) MetadataToken() Token { return m.Token }
func (m *MemberRef) FullName() string     { return m.Name }

// IsField reports whether the reference points at a field.
func (m *MemberRef) IsField() bool { return m.FieldType != nil }

// TypeSpec binds a token to a constructed type such as an array or instantiation.
type TypeSpec struct {
	Token Token   `json:"token"`
	Type  TypeSig `json:"type"`
}

func (t *TypeSpec) MetadataToken() Token { return t.Token }
func (t *TypeSpec) FullName() string     { return t.Type.FullName() }

// Literal is a user string heap entry addressed by a String token.
type Literal struct {
	Token Token  `json:"token"`
	Value string `json:"value"`
}

// TypeDef is a type defined in the module.
type TypeDef struct {
	Token            Token             `json:"token"`
	Namespace        string            `json:"namespace,omitempty"`
	Name             string            `json:"name"`
	Flags            uint32            `json:"flags"`
	BaseType         Token             `json:"baseType,omitempty"`
	DeclaringType    Token             `json:"declaringType,omitempty"`
	GenericParams    []GenericParam    `json:"genericParams,omitempty"`
	Fields           []FieldDef        `json:"fields,omitempty"`
	Methods          []MethodDef       `json:"methods,omitempty"`
	Interfaces       []InterfaceImpl   `json:"interfaces,omitempty"`
	CustomAttributes []CustomAttribute `json:"customAttributes,omitempty"`
}

func (t *TypeDef) MetadataToken() Token { return t.Token }
func (t *TypeDef) FullName() string     { return qualify(t.Namespace, t.Name) }

// IsNested reports whether the type is declared inside another type.
func (t *TypeDef) IsNested() bool { return t.DeclaringType != 0 }

// HasBaseType reports whether the type extends another type.
func (t *TypeDef) HasBaseType() bool { return t.BaseType != 0 }

// GenericParam is a generic parameter declared by a type.
type GenericParam struct {
	Token    Token  `json:"token"`
	Position uint16 `json:"position"`
	Name     string `json:"name"`
}

func (g *GenericParam) MetadataToken() Token { return g.Token }
func (g *GenericParam) FullName() string     { return g.Name }

// FieldDef is a field defined by a type.
type FieldDef struct {
	Token            Token             `json:"token"`
	Name             string            `json:"name"`
	Attributes       uint32            `json:"attributes"`
	Type             TypeSig           `json:"type"`
	CustomAttributes []CustomAttribute `json:"customAttributes,omitempty"`
}

func (f *FieldDef) MetadataToken() Token { return f.Token }
func (f *FieldDef) FullName() string     { return f.Name }

// Param is a named method parameter.
type Param struct {
	Name string  `json:"name,omitempty"`
	Type TypeSig `json:"type"`
}

// MethodDef is a method defined by a type.
type MethodDef struct {
	Token            Token             `json:"token"`
	Name             string            `json:"name"`
	Flags            uint32            `json:"flags"`
	RVA              uint32            `json:"rva"`
	ReturnType       TypeSig           `json:"returnType"`
	Params           []Param           `json:"params,omitempty"`
	Body             *MethodBody       `json:"body,omitempty"`
	CustomAttributes []CustomAttribute `json:"customAttributes,omitempty"`
}

func (m *MethodDef) MetadataToken() Token { return m.Token }
func (m *MethodDef) FullName() string     { return m.Name }

// Signature returns the method's return type and parameter types.
func (m *MethodDef) Signature() MethodSig {
	sig := MethodSig{Return: m.ReturnType}
	for _, p := range m.Params {
		sig.Params = append(sig.Params, p.Type)
	}
	return sig
}

// HasBody reports whether the method carries IL.
func (m *MethodDef) HasBody() bool { return m.Body != nil }

// MethodBody holds either decoded instructions or the raw method body,
// header and exception sections included, as stored in the image.
type MethodBody struct {
	Locals       []TypeSig          `json:"locals,omitempty"`
	Handlers     []ExceptionHandler `json:"handlers,omitempty"`
	Instructions []Instruction      `json:"instructions,omitempty"`
	IL           []byte             `json:"il,omitempty"`
}

// HandlerKind is the kind of an exception handling clause.
type HandlerKind uint8

const (
	HandlerCatch   HandlerKind = 0x00
	HandlerFilter  HandlerKind = 0x01
	HandlerFinally HandlerKind = 0x02
	HandlerFault   HandlerKind = 0x04
)

func (k HandlerKind) String() string {
	switch k {
	case HandlerCatch:
		return "catch"
	case HandlerFilter:
		return "filter"
	case HandlerFinally:
		return "finally"
	case HandlerFault:
		return "fault"
	default:
		return "unknown"
	}
}

// ExceptionHandler is a try/handler region. Offsets are byte offsets into the
// instruction stream; a nil offset is unresolved. CatchType is zero when the
// clause has no catch type.
type ExceptionHandler struct {
	Kind         HandlerKind `json:"kind"`
	TryStart     *uint32     `json:"tryStart,omitempty"`
	TryEnd       *uint32     `json:"tryEnd,omitempty"`
	HandlerStart *uint32     `json:"handlerStart,omitempty"`
	HandlerEnd   *uint32     `json:"handlerEnd,omitempty"`
	CatchType    Token       `json:"catchType,omitempty"`
}

// OperandKind is the structural kind of an instruction operand.
type OperandKind string

const (
	OperandNone        OperandKind = ""
	OperandToken       OperandKind = "tok"
	OperandSig         OperandKind = "sig"
	OperandField       OperandKind = "field"
	OperandMethod      OperandKind = "method"
	OperandType        OperandKind = "type"
	OperandString      OperandKind = "string"
	OperandBranch      OperandKind = "brtarget"
	OperandShortBranch OperandKind = "shortbrtarget"
	OperandInt         OperandKind = "i"
	OperandShortInt    OperandKind = "shorti"
	OperandInt64       OperandKind = "i8"
	OperandFloat       OperandKind = "r"
	OperandShortFloat  OperandKind = "shortr"
	OperandVar         OperandKind = "var"
	OperandShortVar    OperandKind = "shortvar"
	OperandSwitch      OperandKind = "switch"
)

// Operand is the argument of an instruction. Only the field matching Kind is set.
type Operand struct {
	Kind    OperandKind `json:"kind,omitempty"`
	Token   Token       `json:"token,omitempty"`
	String  string      `json:"string,omitempty"`
	Int     int64       `json:"int,omitempty"`
	Float   float64     `json:"float,omitempty"`
	Targets []uint32    `json:"targets,omitempty"`
}

// Instruction is a single IL instruction.
type Instruction struct {
	Offset  uint32  `json:"offset"`
	OpCode  string  `json:"opcode"`
	Operand Operand `json:"operand"`
}

// InterfaceImpl records that a type implements an interface.
type InterfaceImpl struct {
	Token     Token `json:"token"`
	Interface Token `json:"interface"`
}

func (i *InterfaceImpl) MetadataToken() Token { return i.Token }
func (i *InterfaceImpl) FullName() string     { return i.Token.Hex() }

// CustomAttribute is an attribute attached to a member.
type CustomAttribute struct {
	Constructor Token     `json:"constructor"`
	Type        TypeSig   `json:"type"`
	Args        []AttrArg `json:"args,omitempty"`
}

// AttrArg is a custom attribute constructor argument. Elems holds the elements
// of an array argument; Boxed holds the value of an object-typed argument.
type AttrArg struct {
	Type  TypeSig   `json:"type"`
	Value any       `json:"value,omitempty"`
	Elems []AttrArg `json:"elems,omitempty"`
	Boxed *AttrArg  `json:"boxed,omitempty"`
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return strings.Join([]string{namespace, name}, ".")
}
