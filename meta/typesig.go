package meta

import "strings"

// SigKind is the structural kind of a type reference as reported by the reader.
type SigKind string

const (
	SigClass        SigKind = "class"
	SigValueType    SigKind = "valuetype"
	SigArray        SigKind = "array"
	SigByRef        SigKind = "byref"
	SigGenericParam SigKind = "genericparam"
	SigGenericInst  SigKind = "genericinst"
)

// TypeSig describes a type reference: a named type (class or value type)
// identified by token, or a composite built on top of another TypeSig.
type TypeSig struct {
	Kind      SigKind   `json:"kind"`
	Namespace string    `json:"namespace,omitempty"`
	Name      string    `json:"name,omitempty"`
	Token     Token     `json:"token,omitempty"`
	Elem      *TypeSig  `json:"elem,omitempty"`
	Args      []TypeSig `json:"args,omitempty"`
	Declaring *TypeSig  `json:"declaring,omitempty"`
}

// Named returns a class or value type reference.
func Named(kind SigKind, namespace, name string, tok Token) TypeSig {
	return TypeSig{Kind: kind, Namespace: namespace, Name: name, Token: tok}
}

// SystemType returns a value type reference in the System namespace.
// The token is irrelevant for catalogued primitives.
func SystemType(name string) TypeSig {
	kind := SigValueType
	switch name {
	case "String", "Object", "Type", "WeakReference":
		kind = SigClass
	}
	return TypeSig{Kind: kind, Namespace: "System", Name: name}
}

// ArraySig returns a single-dimension array of elem.
func ArraySig(elem TypeSig) TypeSig {
	return TypeSig{Kind: SigArray, Elem: &elem}
}

// ByRefSig returns a managed reference to elem.
func ByRefSig(elem TypeSig) TypeSig {
	return TypeSig{Kind: SigByRef, Elem: &elem}
}

// IsComposite reports whether the reference wraps an element type.
func (t TypeSig) IsComposite() bool {
	return t.Kind == SigArray || t.Kind == SigByRef
}

// ElementType returns the wrapped type of an array or by-reference, or t itself.
func (t TypeSig) ElementType() TypeSig {
	if t.IsComposite() && t.Elem != nil {
		return *t.Elem
	}
	return t
}

// SimpleName returns the name without namespace or composite decoration.
func (t TypeSig) SimpleName() string {
	if t.IsComposite() && t.Elem != nil {
		return t.Elem.SimpleName()
	}
	return t.Name
}

// FullName returns the reader's canonical full name:
// "Ns.Type", "Ns.Outer/Inner", "T[]", "T&", "Ns.List`1<System.Int32>".
func (t TypeSig) FullName() string {
	switch t.Kind {
	case SigArray:
		if t.Elem == nil {
			return "[]"
		}
		return t.Elem.FullName() + "[]"
	case SigByRef:
		if t.Elem == nil {
			return "&"
		}
		return t.Elem.FullName() + "&"
	case SigGenericParam:
		return t.Name
	}

	var b strings.Builder
	if t.Declaring != nil {
		b.WriteString(t.Declaring.FullName())
		b.WriteByte('/')
	} else if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)

	if t.Kind == SigGenericInst && len(t.Args) > 0 {
		b.WriteByte('<')
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(arg.FullName())
		}
		b.WriteByte('>')
	}
	return b.String()
}
