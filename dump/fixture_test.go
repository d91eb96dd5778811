package dump

import (
	"github.com/skdltmxn/nanometa/internal/attr"
	"github.com/skdltmxn/nanometa/meta"
)

var (
	tokObject    = meta.MustToken(meta.TableTypeRef, 1)
	tokAttribute = meta.MustToken(meta.TableTypeRef, 2)
	tokIThing    = meta.MustToken(meta.TableTypeRef, 3)

	tokSentinel = meta.MustToken(meta.TableMemberRef, 1)
	tokObjCtor  = meta.MustToken(meta.TableMemberRef, 2)
	tokAttrCtor = meta.MustToken(meta.TableMemberRef, 3)

	tokProgram = meta.MustToken(meta.TableTypeDef, 2)
	tokInner   = meta.MustToken(meta.TableTypeDef, 3)

	tokName   = meta.MustToken(meta.TableField, 1)
	tokMain   = meta.MustToken(meta.TableMethod, 1)
	tokHelper = meta.MustToken(meta.TableMethod, 2)
	tokInvoke = meta.MustToken(meta.TableMethod, 3)

	tokWorld = meta.MustToken(meta.TableString, 1)
)

func u32p(v uint32) *uint32 { return &v }

func testFilter() attr.Filter {
	return attr.Filter{
		Namespaces: []string{"System.Diagnostics.CodeAnalysis"},
		Ignored:    []string{"System.Runtime.CompilerServices.CompilerGeneratedAttribute"},
	}
}

// testModule builds a small program: App.Program with a nested type, one
// method with decoded IL and one with a raw tiny body.
func testModule() *meta.Module {
	str := meta.SystemType("String")
	i32 := meta.SystemType("Int32")

	helperIL := []byte{
		0x22,                         // tiny header, 8 bytes of code
		0x72, 0x01, 0x00, 0x00, 0x70, // ldstr "world"
		0x26, // pop
		0x17, // ldc.i4.1
		0x2A, // ret
	}

	return &meta.Module{
		Name: "App",
		AssemblyRefs: []meta.AssemblyRef{
			{Name: "mscorlib", Version: "1.15.0.0"},
			{Name: "Vendor.Lib", Version: "1.0.0.0"},
		},
		TypeRefs: []meta.TypeRef{
			{Token: tokIThing, Namespace: "Vendor", Name: "IThing", Scope: 1},
			{Token: tokObject, Namespace: "System", Name: "Object"},
			{Token: tokAttribute, Namespace: "System", Name: "Attribute"},
		},
		MemberRefs: []meta.MemberRef{
			{Token: tokSentinel, Name: "Sentinel", DeclaringType: tokObject, FieldType: &i32},
			{Token: tokObjCtor, Name: ".ctor", DeclaringType: tokObject, Signature: meta.MethodSig{Return: meta.SystemType("Void")}},
			{Token: tokAttrCtor, Name: ".ctor", DeclaringType: tokAttribute, Signature: meta.MethodSig{Return: meta.SystemType("Void")}},
		},
		TypeDefs: []meta.TypeDef{
			{
				Token:         tokInner,
				Name:          "Inner",
				Flags:         0x00000002,
				DeclaringType: tokProgram,
				Methods: []meta.MethodDef{
					{Token: tokInvoke, Name: "Invoke", ReturnType: meta.ByRefSig(i32), Params: []meta.Param{{Name: "target", Type: meta.Named(meta.SigClass, "App", "Program", tokProgram)}}},
				},
			},
			{
				Token:     tokProgram,
				Namespace: "App",
				Name:      "Program",
				Flags:     0x00100001,
				BaseType:  tokObject,
				GenericParams: []meta.GenericParam{
					{Token: meta.MustToken(meta.TableGenericParam, 1), Position: 0, Name: "T"},
				},
				Fields: []meta.FieldDef{
					{
						Token:      tokName,
						Name:       "name",
						Attributes: 0x0001,
						Type:       str,
						CustomAttributes: []meta.CustomAttribute{
							{
								Constructor: tokAttrCtor,
								Type:        meta.Named(meta.SigClass, "Vendor", "NoteAttribute", 0),
								Args:        []meta.AttrArg{{Type: str, Value: "hi"}},
							},
						},
					},
				},
				Methods: []meta.MethodDef{
					{
						Token:      tokMain,
						Name:       "Main",
						Flags:      0x0016,
						RVA:        0x2050,
						ReturnType: meta.SystemType("Void"),
						Params:     []meta.Param{{Name: "args", Type: meta.ArraySig(str)}},
						Body: &meta.MethodBody{
							Locals: []meta.TypeSig{i32, str},
							Handlers: []meta.ExceptionHandler{
								{Kind: meta.HandlerFinally, TryStart: u32p(0), TryEnd: u32p(0x0d), HandlerStart: u32p(0x0d), HandlerEnd: u32p(0x0e)},
							},
							Instructions: []meta.Instruction{
								{Offset: 0x00, OpCode: "ldstr", Operand: meta.Operand{Kind: meta.OperandString, String: "hello"}},
								{Offset: 0x05, OpCode: "call", Operand: meta.Operand{Kind: meta.OperandMethod, Token: tokHelper}},
								{Offset: 0x0a, OpCode: "pop"},
								{Offset: 0x0b, OpCode: "leave.s", Operand: meta.Operand{Kind: meta.OperandShortBranch, Targets: []uint32{0x0e}}},
								{Offset: 0x0d, OpCode: "endfinally"},
								{Offset: 0x0e, OpCode: "ret"},
							},
						},
						CustomAttributes: []meta.CustomAttribute{
							{
								Constructor: tokAttrCtor,
								Type:        meta.Named(meta.SigClass, "App", "TagAttribute", 0),
								Args: []meta.AttrArg{
									{Type: i32, Value: -1},
									{
										Type: meta.ArraySig(meta.SystemType("Object")),
										Elems: []meta.AttrArg{
											{Type: meta.SystemType("Object"), Boxed: &meta.AttrArg{Type: i32, Value: 1}},
											{Type: meta.SystemType("Object"), Boxed: &meta.AttrArg{Type: i32, Value: 2}},
										},
									},
								},
							},
						},
					},
					{
						Token:      tokHelper,
						Name:       "Helper",
						ReturnType: i32,
						Body:       &meta.MethodBody{IL: helperIL},
						CustomAttributes: []meta.CustomAttribute{
							{
								Constructor: tokAttrCtor,
								Type:        meta.Named(meta.SigClass, "System.Diagnostics.CodeAnalysis", "SuppressMessageAttribute", 0),
								Args:        []meta.AttrArg{{Type: str, Value: "Style"}},
							},
							{
								Constructor: tokAttrCtor,
								Type:        meta.Named(meta.SigClass, "System.Runtime.CompilerServices", "CompilerGeneratedAttribute", 0),
								Args:        []meta.AttrArg{{Type: str, Value: "dropped"}},
							},
						},
					},
				},
				Interfaces: []meta.InterfaceImpl{
					{Token: meta.MustToken(meta.TableInterfaceImpl, 1), Interface: tokIThing},
				},
				CustomAttributes: []meta.CustomAttribute{
					{Constructor: tokAttrCtor, Type: meta.Named(meta.SigClass, "Vendor", "ExportAttribute", 0)},
				},
			},
		},
		Strings:  []string{"App", "Program"},
		Literals: []meta.Literal{{Token: tokWorld, Value: "world"}},
	}
}
