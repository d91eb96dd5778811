package meta

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"fortio.org/safecast"
)

// Module holds the metadata tables of one assembly as produced by the reader.
// It is safe for concurrent read access once populated.
type Module struct {
	Name         string        `json:"name"`
	AssemblyRefs []AssemblyRef `json:"assemblyRefs,omitempty"`
	ModuleRefs   []ModuleRef   `json:"moduleRefs,omitempty"`
	TypeRefs     []TypeRef     `json:"typeRefs,omitempty"`
	MemberRefs   []MemberRef   `json:"memberRefs,omitempty"`
	TypeSpecs    []TypeSpec    `json:"typeSpecs,omitempty"`
	TypeDefs     []TypeDef     `json:"typeDefs,omitempty"`
	// Strings are the strings the table builder already assigned ids to, in id order.
	Strings []string `json:"strings,omitempty"`
	// Literals is the user string heap referenced by raw IL.
	Literals []Literal `json:"literals,omitempty"`

	indexOnce sync.Once
	entities  map[Token]Entity
	owners    map[Token]*TypeDef
	literals  map[Token]string
}

func (m *Module) index() {
	m.indexOnce.Do(func() {
		m.entities = make(map[Token]Entity)
		m.owners = make(map[Token]*TypeDef)
		m.literals = make(map[Token]string, len(m.Literals))

		for i := range m.TypeRefs {
			m.entities[m.TypeRefs[i].Token] = &m.TypeRefs[i]
		}
		for i := range m.MemberRefs {
			m.entities[m.MemberRefs[i].Token] = &m.MemberRefs[i]
		}
		for i := range m.TypeSpecs {
			m.entities[m.TypeSpecs[i].Token] = &m.TypeSpecs[i]
		}
		for i := range m.TypeDefs {
			td := &m.TypeDefs[i]
			m.entities[td.Token] = td
			for j := range td.GenericParams {
				m.entities[td.GenericParams[j].Token] = &td.GenericParams[j]
				m.owners[td.GenericParams[j].Token] = td
			}
			for j := range td.Fields {
				m.entities[td.Fields[j].Token] = &td.Fields[j]
				m.owners[td.Fields[j].Token] = td
			}
			for j := range td.Methods {
				m.entities[td.Methods[j].Token] = &td.Methods[j]
				m.owners[td.Methods[j].Token] = td
			}
			for j := range td.Interfaces {
				m.entities[td.Interfaces[j].Token] = &td.Interfaces[j]
				m.owners[td.Interfaces[j].Token] = td
			}
		}
		for _, lit := range m.Literals {
			m.literals[lit.Token] = lit.Value
		}
	})
}

// Entity returns the record that owns tok.
func (m *Module) Entity(tok Token) (Entity, bool) {
	m.index()
	e, ok := m.entities[tok]
	return e, ok
}

// Owner returns the type definition declaring a field, method, generic
// parameter or interface implementation.
func (m *Module) Owner(tok Token) (*TypeDef, bool) {
	m.index()
	td, ok := m.owners[tok]
	return td, ok
}

// Literal returns the user string addressed by a String token.
func (m *Module) Literal(tok Token) (string, bool) {
	m.index()
	s, ok := m.literals[tok]
	return s, ok
}

// AssemblyRefToken returns the token of the i-th assembly reference.
// Row numbering starts at 1, row 0 being the null reference.
func (m *Module) AssemblyRefToken(i int) (Token, error) {
	row, err := safecast.Conv[uint32](i + 1)
	if err != nil {
		return 0, &TokenRangeError{Table: TableAssemblyRef, Row: uint64(i) + 1}
	}
	return NewToken(TableAssemblyRef, row)
}

// SortedTypeRefs returns an iterator over type references in ascending token order.
func (m *Module) SortedTypeRefs() iter.Seq[*TypeRef] {
	refs := make([]*TypeRef, len(m.TypeRefs))
	for i := range m.TypeRefs {
		refs[i] = &m.TypeRefs[i]
	}
	slices.SortStableFunc(refs, func(a, b *TypeRef) int { return cmp.Compare(a.Token, b.Token) })
	return slices.Values(refs)
}

// SortedTypeDefs returns type definitions in ascending token order.
func (m *Module) SortedTypeDefs() []*TypeDef {
	defs := make([]*TypeDef, len(m.TypeDefs))
	for i := range m.TypeDefs {
		defs[i] = &m.TypeDefs[i]
	}
	slices.SortStableFunc(defs, func(a, b *TypeDef) int { return cmp.Compare(a.Token, b.Token) })
	return defs
}

// MemberRefsOf returns the member references declared by a type reference:
// method references first, then field references, each in ascending token order.
func (m *Module) MemberRefsOf(declaring Token) iter.Seq[*MemberRef] {
	var refs []*MemberRef
	for i := range m.MemberRefs {
		if m.MemberRefs[i].DeclaringType == declaring {
			refs = append(refs, &m.MemberRefs[i])
		}
	}
	slices.SortStableFunc(refs, func(a, b *MemberRef) int {
		if a.IsField() != b.IsField() {
			if b.IsField() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Token, b.Token)
	})
	return slices.Values(refs)
}

// TypeFullName returns the full name of a type definition, reference or spec.
// Nested types are joined to their declaring type with '/'.
func (m *Module) TypeFullName(tok Token) (string, error) {
	sig, err := m.TypeByToken(tok)
	if err != nil {
		return "", err
	}
	return sig.FullName(), nil
}

// TypeByToken returns the type reference addressed by a TypeDef, TypeRef or TypeSpec token.
func (m *Module) TypeByToken(tok Token) (TypeSig, error) {
	return m.typeByToken(tok, 0)
}

func (m *Module) typeByToken(tok Token, depth int) (TypeSig, error) {
	if depth > 64 {
		return TypeSig{}, fmt.Errorf("%w: [%s] nesting too deep", ErrUnresolvedToken, tok.Hex())
	}
	e, ok := m.Entity(tok)
	if !ok {
		return TypeSig{}, fmt.Errorf("%w: type [%s]", ErrUnresolvedToken, tok.Hex())
	}

	var sig TypeSig
	var declaring Token
	switch v := e.(type) {
	case *TypeDef:
		sig = Named(SigClass, v.Namespace, v.Name, v.Token)
		declaring = v.DeclaringType
	case *TypeRef:
		sig = Named(SigClass, v.Namespace, v.Name, v.Token)
		declaring = v.Declaring
	case *TypeSpec:
		return v.Type, nil
	default:
		return TypeSig{}, fmt.Errorf("%w: [%s] is a %s, not a type", ErrUnresolvedToken, tok.Hex(), tok.Table())
	}

	if declaring != 0 {
		outer, err := m.typeByToken(declaring, depth+1)
		if err != nil {
			return TypeSig{}, err
		}
		sig.Namespace = ""
		sig.Declaring = &outer
	}
	return sig, nil
}

// FieldTypeByToken returns the declared type of a field definition or field reference.
func (m *Module) FieldTypeByToken(tok Token) (TypeSig, error) {
	e, ok := m.Entity(tok)
	if !ok {
		return TypeSig{}, fmt.Errorf("%w: field [%s]", ErrUnresolvedToken, tok.Hex())
	}
	switch v := e.(type) {
	case *FieldDef:
		return v.Type, nil
	case *MemberRef:
		if v.IsField() {
			return *v.FieldType, nil
		}
	}
	return TypeSig{}, fmt.Errorf("%w: [%s] is not a field", ErrUnresolvedToken, tok.Hex())
}

// MethodFullName returns the reader's full name of a method definition or
// method reference: "RET Declaring::Name(P1,P2)".
func (m *Module) MethodFullName(tok Token) (string, error) {
	e, ok := m.Entity(tok)
	if !ok {
		return "", fmt.Errorf("%w: method [%s]", ErrUnresolvedToken, tok.Hex())
	}

	var (
		name      string
		sig       MethodSig
		declaring Token
	)
	switch v := e.(type) {
	case *MethodDef:
		owner, ok := m.Owner(tok)
		if !ok {
			return "", fmt.Errorf("%w: method [%s] has no declaring type", ErrUnresolvedToken, tok.Hex())
		}
		name, sig, declaring = v.Name, v.Signature(), owner.Token
	case *MemberRef:
		if v.IsField() {
			return "", fmt.Errorf("%w: [%s] is not a method", ErrUnresolvedToken, tok.Hex())
		}
		name, sig, declaring = v.Name, v.Signature, v.DeclaringType
	default:
		return "", fmt.Errorf("%w: [%s] is not a method", ErrUnresolvedToken, tok.Hex())
	}

	declName, err := m.TypeFullName(declaring)
	if err != nil {
		return "", err
	}
	return MethodFullName(sig, declName, name), nil
}

// MethodFullName formats a method name the way the reader does.
func MethodFullName(sig MethodSig, declaring, name string) string {
	var b strings.Builder
	b.WriteString(sig.Return.FullName())
	b.WriteByte(' ')
	b.WriteString(declaring)
	b.WriteString("::")
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.FullName())
	}
	b.WriteByte(')')
	return b.String()
}
