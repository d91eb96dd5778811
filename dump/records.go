package dump

import "github.com/skdltmxn/nanometa/internal/attr"

// Table is the complete dump in traversal order. Every token field holds
// eight lower-case hex digits.
type Table struct {
	AssemblyReferences []AssemblyRef     `json:"assemblyReferences"`
	TypeReferences     []TypeRef         `json:"typeReferences"`
	TypeDefinitions    []TypeDef         `json:"typeDefinitions"`
	Attributes         []AttributeCustom `json:"attributes"`
	UserStrings        []UserString      `json:"userStrings"`
}

type AssemblyRef struct {
	ReferenceID string `json:"referenceId"`
	Flags       string `json:"flags"`
	Name        string `json:"name"`
}

type TypeRef struct {
	ReferenceID      string      `json:"referenceId"`
	Scope            string      `json:"scope"`
	Name             string      `json:"name"`
	MemberReferences []MemberRef `json:"memberReferences,omitempty"`
}

type MemberRef struct {
	ReferenceID string `json:"referenceId"`
	Name        string `json:"name"`
	Signature   string `json:"signature"`
}

type TypeDef struct {
	ReferenceID          string         `json:"referenceId"`
	Name                 string         `json:"name"`
	Flags                string         `json:"flags"`
	ExtendsType          string         `json:"extendsType"`
	EnclosedType         string         `json:"enclosedType"`
	GenericParameters    []GenericParam `json:"genericParameters,omitempty"`
	FieldDefinitions     []FieldDef     `json:"fieldDefinitions,omitempty"`
	MethodDefinitions    []MethodDef    `json:"methodDefinitions,omitempty"`
	InterfaceDefinitions []InterfaceDef `json:"interfaceDefinitions,omitempty"`
}

type GenericParam struct {
	Position          string `json:"position"`
	GenericParamToken string `json:"genericParamToken"`
	Name              string `json:"name"`
	Owner             string `json:"owner"`
	Signature         string `json:"signature"`
}

type FieldDef struct {
	ReferenceID string `json:"referenceId"`
	Name        string `json:"name"`
	Flags       string `json:"flags"`
	Attributes  string `json:"attributes"`
	Signature   string `json:"signature"`
}

// MethodDef is a method with its body rendering. Locals is empty when the
// body declares no local variables.
type MethodDef struct {
	ReferenceID       string   `json:"referenceId"`
	Name              string   `json:"name"`
	Flags             string   `json:"flags"`
	RVA               string   `json:"rva"`
	Implementation    string   `json:"implementation"`
	Signature         string   `json:"signature"`
	Locals            string   `json:"locals,omitempty"`
	ExceptionHandlers []string `json:"exceptionHandlers,omitempty"`
	ILCount           string   `json:"ilCount,omitempty"`
	ILCode            []string `json:"ilCode,omitempty"`
}

type InterfaceDef struct {
	ReferenceID string `json:"referenceId"`
	Interface   string `json:"interface"`
}

// AttributeCustom is one custom attribute attached to a method or field.
type AttributeCustom struct {
	Name        string       `json:"name"`
	ReferenceID string       `json:"referenceId"`
	TypeToken   string       `json:"typeToken"`
	FixedArgs   []attr.Value `json:"fixedArgs,omitempty"`
}

type UserString struct {
	ReferenceID string `json:"referenceId"`
	Content     string `json:"content"`
}
