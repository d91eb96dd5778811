package meta

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokObject  = MustToken(TableTypeRef, 1)
	tokList    = MustToken(TableTypeRef, 2)
	tokOuter   = MustToken(TableTypeDef, 2)
	tokInner   = MustToken(TableTypeDef, 3)
	tokListInt = MustToken(TableTypeSpec, 1)
	tokField   = MustToken(TableField, 1)
	tokRun     = MustToken(TableMethod, 1)
	tokCtor    = MustToken(TableMemberRef, 1)
	tokCount   = MustToken(TableMemberRef, 2)
	tokToStr   = MustToken(TableMemberRef, 3)
)

func sampleModule() *Module {
	i32 := SystemType("Int32")
	return &Module{
		Name: "Sample",
		TypeRefs: []TypeRef{
			{Token: tokList, Namespace: "System.Collections", Name: "List`1"},
			{Token: tokObject, Namespace: "System", Name: "Object"},
		},
		MemberRefs: []MemberRef{
			{Token: tokCount, Name: "Count", DeclaringType: tokObject, FieldType: &i32},
			{Token: tokToStr, Name: "ToString", DeclaringType: tokObject, Signature: MethodSig{Return: SystemType("String")}},
			{Token: tokCtor, Name: ".ctor", DeclaringType: tokObject, Signature: MethodSig{Return: SystemType("Void")}},
		},
		TypeSpecs: []TypeSpec{
			{Token: tokListInt, Type: TypeSig{Kind: SigGenericInst, Namespace: "System.Collections", Name: "List`1", Args: []TypeSig{i32}}},
		},
		TypeDefs: []TypeDef{
			{Token: tokInner, Name: "Inner", DeclaringType: tokOuter},
			{
				Token:     tokOuter,
				Namespace: "App",
				Name:      "Outer",
				BaseType:  tokObject,
				Fields:    []FieldDef{{Token: tokField, Name: "count", Type: i32}},
				Methods: []MethodDef{
					{Token: tokRun, Name: "Run", ReturnType: SystemType("Void"), Params: []Param{{Name: "n", Type: i32}, {Name: "s", Type: SystemType("String")}}},
				},
			},
		},
		Literals: []Literal{{Token: MustToken(TableString, 1), Value: "hi"}},
	}
}

func TestModule_Entity(t *testing.T) {
	m := sampleModule()

	e, ok := m.Entity(tokRun)
	require.True(t, ok)
	assert.Equal(t, "Run", e.FullName())
	assert.Equal(t, tokRun, e.MetadataToken())

	owner, ok := m.Owner(tokField)
	require.True(t, ok)
	assert.Equal(t, "App.Outer", owner.FullName())

	_, ok = m.Entity(MustToken(TableMethod, 9))
	assert.False(t, ok)

	lit, ok := m.Literal(MustToken(TableString, 1))
	assert.True(t, ok)
	assert.Equal(t, "hi", lit)
}

func TestModule_TypeFullName(t *testing.T) {
	m := sampleModule()

	tests := []struct {
		tok  Token
		want string
	}{
		{tokObject, "System.Object"},
		{tokOuter, "App.Outer"},
		{tokInner, "App.Outer/Inner"},
		{tokListInt, "System.Collections.List`1<System.Int32>"},
	}
	for _, tt := range tests {
		t.Run(tt.tok.Hex(), func(t *testing.T) {
			got, err := m.TypeFullName(tt.tok)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := m.TypeFullName(tokField)
	assert.ErrorIs(t, err, ErrUnresolvedToken)
	_, err = m.TypeFullName(MustToken(TableTypeDef, 40))
	assert.ErrorIs(t, err, ErrUnresolvedToken)
}

func TestModule_TypeByToken_Cycle(t *testing.T) {
	a := MustToken(TableTypeDef, 2)
	b := MustToken(TableTypeDef, 3)
	m := &Module{TypeDefs: []TypeDef{
		{Token: a, Name: "A", DeclaringType: b},
		{Token: b, Name: "B", DeclaringType: a},
	}}

	_, err := m.TypeByToken(a)
	assert.ErrorIs(t, err, ErrUnresolvedToken)
}

func TestModule_FieldTypeByToken(t *testing.T) {
	m := sampleModule()

	ft, err := m.FieldTypeByToken(tokField)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32", ft.FullName())

	ft, err = m.FieldTypeByToken(tokCount)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32", ft.FullName())

	_, err = m.FieldTypeByToken(tokCtor)
	assert.ErrorIs(t, err, ErrUnresolvedToken)
}

func TestModule_MethodFullName(t *testing.T) {
	m := sampleModule()

	name, err := m.MethodFullName(tokRun)
	require.NoError(t, err)
	assert.Equal(t, "System.Void App.Outer::Run(System.Int32,System.String)", name)

	name, err = m.MethodFullName(tokToStr)
	require.NoError(t, err)
	assert.Equal(t, "System.String System.Object::ToString()", name)

	_, err = m.MethodFullName(tokCount)
	assert.ErrorIs(t, err, ErrUnresolvedToken)
}

func TestModule_SortedTables(t *testing.T) {
	m := sampleModule()

	defs := m.SortedTypeDefs()
	require.Len(t, defs, 2)
	assert.Equal(t, tokOuter, defs[0].Token)
	assert.Equal(t, tokInner, defs[1].Token)

	var refs []Token
	for r := range m.SortedTypeRefs() {
		refs = append(refs, r.Token)
	}
	assert.Equal(t, []Token{tokObject, tokList}, refs)

	var members []string
	for r := range m.MemberRefsOf(tokObject) {
		members = append(members, r.Name)
	}
	assert.Equal(t, []string{".ctor", "ToString", "Count"}, members)
	assert.Empty(t, slices.Collect(m.MemberRefsOf(tokList)))
}

func TestModule_AssemblyRefToken(t *testing.T) {
	m := sampleModule()

	tok, err := m.AssemblyRefToken(0)
	require.NoError(t, err)
	assert.Equal(t, "23000001", tok.Hex())

	_, err = m.AssemblyRefToken(MaxRow)
	assert.ErrorIs(t, err, ErrTokenRange)
}

func TestTypeSig_FullName(t *testing.T) {
	outer := Named(SigClass, "App", "Outer", tokOuter)
	tests := []struct {
		name string
		sig  TypeSig
		want string
	}{
		{"named", outer, "App.Outer"},
		{"nested", TypeSig{Kind: SigClass, Name: "Inner", Declaring: &outer}, "App.Outer/Inner"},
		{"array", ArraySig(SystemType("Byte")), "System.Byte[]"},
		{"jagged", ArraySig(ArraySig(SystemType("Int32"))), "System.Int32[][]"},
		{"byref", ByRefSig(SystemType("Int32")), "System.Int32&"},
		{"generic param", TypeSig{Kind: SigGenericParam, Name: "T"}, "T"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sig.FullName())
		})
	}

	assert.Equal(t, "Byte", ArraySig(SystemType("Byte")).SimpleName())
	assert.Equal(t, SystemType("Int32"), ByRefSig(SystemType("Int32")).ElementType())
}
