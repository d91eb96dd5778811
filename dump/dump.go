// Package dump walks a module's metadata tables in a fixed order and renders
// every entry with the encoders in internal/.
package dump

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"fortio.org/safecast"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/nanometa/internal/attr"
	"github.com/skdltmxn/nanometa/internal/il"
	"github.com/skdltmxn/nanometa/internal/sig"
	"github.com/skdltmxn/nanometa/internal/strtab"
	"github.com/skdltmxn/nanometa/meta"
)

// Options configures a Dumper.
type Options struct {
	// Filter selects the custom attributes that are dumped.
	Filter attr.Filter

	// Preallocated strings are appended to the module's own string list
	// before any literal is interned.
	Preallocated []string

	// Jobs bounds the number of type definitions encoded concurrently.
	// Zero or less uses GOMAXPROCS.
	Jobs int
}

// Dumper produces the dump table of one module.
type Dumper struct {
	module *meta.Module
	opts   Options

	// strs is the string table of the last successful Dump.
	strs *strtab.Table
}

// New creates a Dumper for m.
func New(m *meta.Module, opts Options) *Dumper {
	return &Dumper{module: m, opts: opts}
}

// methodBody is a body with its instructions decoded.
type methodBody struct {
	locals       []meta.TypeSig
	handlers     []meta.ExceptionHandler
	instructions []meta.Instruction
}

// Dump visits assembly references, type references, type definitions,
// custom attributes and user strings, in that order. Type definitions are
// encoded concurrently; the result does not depend on scheduling.
func (d *Dumper) Dump(ctx context.Context) (*Table, error) {
	m := d.module
	log := Logger()

	if len(m.ModuleRefs) > 0 {
		return nil, fmt.Errorf("%w: dumping %d module references", meta.ErrNotImplemented, len(m.ModuleRefs))
	}

	preallocated := make([]string, 0, len(m.Strings)+len(d.opts.Preallocated))
	preallocated = append(preallocated, m.Strings...)
	preallocated = append(preallocated, d.opts.Preallocated...)
	strs, err := strtab.New(preallocated)
	if err != nil {
		return nil, fmt.Errorf("failed to seed string table: %w", err)
	}

	log.Debug("dump started",
		zap.String("module", m.Name),
		zap.Int("assemblyRefs", len(m.AssemblyRefs)),
		zap.Int("typeRefs", len(m.TypeRefs)),
		zap.Int("typeDefs", len(m.TypeDefs)),
		zap.Uint16("lastPreallocated", strs.LastPreallocated()))

	t := &Table{}

	if t.AssemblyReferences, err = d.assemblyRefs(); err != nil {
		return nil, err
	}
	if t.TypeReferences, err = d.typeRefs(); err != nil {
		return nil, err
	}

	defs := m.SortedTypeDefs()
	bodies, err := d.decodeBodies(defs)
	if err != nil {
		return nil, err
	}
	// literals get their ids in traversal order before any parallel work
	if err := internLiterals(defs, bodies, strs); err != nil {
		return nil, err
	}

	if t.TypeDefinitions, err = d.typeDefs(ctx, defs, bodies, strs); err != nil {
		return nil, err
	}
	log.Debug("type definitions encoded", zap.Int("count", len(t.TypeDefinitions)))

	t.Attributes = d.customAttributes(defs)

	if t.UserStrings, err = userStrings(strs); err != nil {
		return nil, err
	}
	log.Debug("dump finished",
		zap.Int("attributes", len(t.Attributes)),
		zap.Int("userStrings", len(t.UserStrings)))

	d.strs = strs
	return t, nil
}

// StringTable lists every string-table entry of the last Dump, the empty
// string and the preallocated strings included, keyed by their table ids.
// It returns nil before Dump has succeeded.
func (d *Dumper) StringTable() []UserString {
	if d.strs == nil {
		return nil
	}
	items := d.strs.Items()
	out := make([]UserString, len(items))
	for i, it := range items {
		out[i] = UserString{ReferenceID: it.Token.Hex(), Content: it.Content}
	}
	return out
}

func (d *Dumper) assemblyRefs() ([]AssemblyRef, error) {
	out := make([]AssemblyRef, 0, len(d.module.AssemblyRefs))
	for i, a := range d.module.AssemblyRefs {
		tok, err := d.module.AssemblyRefToken(i)
		if err != nil {
			return nil, &meta.EncodeError{Table: "AssemblyRef", Message: a.Name, Err: err}
		}
		out = append(out, AssemblyRef{
			ReferenceID: tok.Hex(),
			Flags:       meta.Token(0).Hex(),
			Name:        a.Name,
		})
	}
	return out, nil
}

func (d *Dumper) typeRefs() ([]TypeRef, error) {
	var out []TypeRef
	for tr := range d.module.SortedTypeRefs() {
		// scope rows are one-based
		scope, err := meta.NewToken(meta.TableAssemblyRef, tr.Scope+1)
		if err != nil {
			return nil, &meta.EncodeError{Table: "TypeRef", Token: tr.Token, Message: "scope", Err: err}
		}
		name, err := d.module.TypeFullName(tr.Token)
		if err != nil {
			return nil, &meta.EncodeError{Table: "TypeRef", Token: tr.Token, Message: "name", Err: err}
		}

		rec := TypeRef{
			ReferenceID: tr.Token.Hex(),
			Scope:       scope.Hex(),
			Name:        name,
		}
		for mr := range d.module.MemberRefsOf(tr.Token) {
			signature := sig.Method(mr.Signature)
			if mr.IsField() {
				signature = sig.Of(*mr.FieldType)
			}
			rec.MemberReferences = append(rec.MemberReferences, MemberRef{
				ReferenceID: mr.Token.Hex(),
				Name:        mr.Name,
				Signature:   signature,
			})
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeBodies makes every method body available as instructions, parsing
// raw bodies where the reader did not decode them.
func (d *Dumper) decodeBodies(defs []*meta.TypeDef) (map[meta.Token]*methodBody, error) {
	bodies := make(map[meta.Token]*methodBody)
	for _, td := range defs {
		for i := range td.Methods {
			md := &td.Methods[i]
			if !md.HasBody() {
				continue
			}
			b := &methodBody{
				locals:       md.Body.Locals,
				handlers:     md.Body.Handlers,
				instructions: md.Body.Instructions,
			}
			if len(b.instructions) == 0 && len(md.Body.IL) > 0 {
				parsed, err := il.ParseBody(md.Body.IL, d.module)
				if err != nil {
					return nil, &meta.EncodeError{Table: "MethodDef", Token: md.Token, Message: "decoding method body", Err: err}
				}
				b.instructions = parsed.Instructions
				if len(b.handlers) == 0 {
					b.handlers = parsed.Handlers
				}
			}
			bodies[md.Token] = b
		}
	}
	return bodies, nil
}

func internLiterals(defs []*meta.TypeDef, bodies map[meta.Token]*methodBody, strs *strtab.Table) error {
	for _, td := range defs {
		for _, md := range td.Methods {
			b, ok := bodies[md.Token]
			if !ok {
				continue
			}
			for _, in := range b.instructions {
				if in.Operand.Kind != meta.OperandString && in.OpCode != "ldstr" {
					continue
				}
				if _, err := strs.Intern(in.Operand.String); err != nil {
					return &meta.EncodeError{Table: "MethodDef", Token: md.Token, Message: "interning literal", Err: err}
				}
			}
		}
	}
	return nil
}

func (d *Dumper) typeDefs(ctx context.Context, defs []*meta.TypeDef, bodies map[meta.Token]*methodBody, strs *strtab.Table) ([]TypeDef, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	jobs := d.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns one slot
	results := make([]TypeDef, len(defs))
	enc := il.NewEncoder(d.module, strs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(defs)))

	for i, td := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := d.typeDef(td, bodies, enc)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Dumper) typeDef(td *meta.TypeDef, bodies map[meta.Token]*methodBody, enc *il.Encoder) (TypeDef, error) {
	rec := TypeDef{
		ReferenceID:  td.Token.Hex(),
		Name:         td.FullName(),
		Flags:        fmt.Sprintf("%08x", td.Flags),
		ExtendsType:  meta.NullToken(meta.TableTypeRef).Hex(),
		EnclosedType: meta.NullToken(meta.TableTypeDef).Hex(),
	}
	if td.IsNested() {
		rec.Name = td.Name
		rec.EnclosedType = td.DeclaringType.Hex()
	}
	if td.HasBaseType() {
		rec.ExtendsType = td.BaseType.Hex()
	}

	for _, gp := range td.GenericParams {
		rec.GenericParameters = append(rec.GenericParameters, GenericParam{
			Position:          strconv.Itoa(int(gp.Position)),
			GenericParamToken: gp.Token.Hex(),
			Name:              gp.Name,
			Owner:             td.Token.Hex(),
			Signature:         td.Name,
		})
	}

	for _, fd := range td.Fields {
		attrs := fmt.Sprintf("%08x", fd.Attributes)
		rec.FieldDefinitions = append(rec.FieldDefinitions, FieldDef{
			ReferenceID: fd.Token.Hex(),
			Name:        fd.Name,
			Flags:       attrs,
			Attributes:  attrs,
			Signature:   sig.Of(fd.Type),
		})
	}

	declName, err := d.module.TypeFullName(td.Token)
	if err != nil {
		return TypeDef{}, &meta.EncodeError{Table: "TypeDef", Token: td.Token, Message: "name", Err: err}
	}
	for i := range td.Methods {
		md := &td.Methods[i]
		method, err := methodDef(md, declName, bodies[md.Token], enc)
		if err != nil {
			return TypeDef{}, err
		}
		rec.MethodDefinitions = append(rec.MethodDefinitions, method)
	}

	for _, impl := range td.Interfaces {
		rec.InterfaceDefinitions = append(rec.InterfaceDefinitions, InterfaceDef{
			ReferenceID: impl.Token.Hex(),
			Interface:   impl.Interface.Hex(),
		})
	}

	return rec, nil
}

func methodDef(md *meta.MethodDef, declName string, body *methodBody, enc *il.Encoder) (MethodDef, error) {
	rec := MethodDef{
		ReferenceID:    md.Token.Hex(),
		Name:           meta.MethodFullName(md.Signature(), declName, md.Name),
		Flags:          fmt.Sprintf("%08x", md.Flags),
		RVA:            fmt.Sprintf("%08x", md.RVA),
		Implementation: meta.Token(0).Hex(),
		Signature:      sig.Method(md.Signature()),
	}
	if body == nil {
		return rec, nil
	}

	if len(body.locals) > 0 {
		rec.Locals = sig.Locals(body.locals)
	}
	for _, h := range body.handlers {
		rec.ExceptionHandlers = append(rec.ExceptionHandlers, il.Handler(h))
	}
	rec.ILCount = strconv.Itoa(len(body.instructions))

	code, err := enc.EncodeAll(body.instructions)
	if err != nil {
		return MethodDef{}, &meta.EncodeError{Table: "MethodDef", Token: md.Token, Message: "encoding IL", Err: err}
	}
	rec.ILCode = code
	return rec, nil
}

// customAttributes emits one record per attributed method, then per
// attributed field, of each type definition that carries type-level
// attributes itself. A record describes the member's first included
// attribute. Constructor arguments of ignored attribute types are skipped
// for fields only.
func (d *Dumper) customAttributes(defs []*meta.TypeDef) []AttributeCustom {
	var out []AttributeCustom
	for _, td := range defs {
		if len(td.CustomAttributes) == 0 {
			continue
		}
		for _, md := range td.Methods {
			if rec, ok := d.attribute(md.Token, md.CustomAttributes, false); ok {
				out = append(out, rec)
			}
		}
		for _, fd := range td.Fields {
			if rec, ok := d.attribute(fd.Token, fd.CustomAttributes, true); ok {
				out = append(out, rec)
			}
		}
	}
	return out
}

func (d *Dumper) attribute(owner meta.Token, attrs []meta.CustomAttribute, field bool) (AttributeCustom, bool) {
	for _, ca := range attrs {
		typeName := ca.Type.FullName()
		if !d.opts.Filter.Includes(typeName) {
			Logger().Debug("attribute excluded", zap.String("type", typeName), zap.Stringer("owner", owner))
			continue
		}
		rec := AttributeCustom{
			Name:        d.module.Name,
			ReferenceID: owner.Hex(),
			TypeToken:   ca.Constructor.Hex(),
		}
		if !field || d.opts.Filter.FlattenArgs(typeName) {
			rec.FixedArgs = attr.FlattenAll(ca)
		}
		return rec, true
	}
	return AttributeCustom{}, false
}

// userStrings lists the strings interned past the preallocated range.
// Reference ids are renumbered from 1.
func userStrings(strs *strtab.Table) ([]UserString, error) {
	fresh := strs.Fresh()
	out := make([]UserString, 0, len(fresh))
	for i, it := range fresh {
		row, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return nil, err
		}
		tok, err := meta.NewToken(meta.TableString, row)
		if err != nil {
			return nil, &meta.EncodeError{Table: "UserString", Message: it.Content, Err: err}
		}
		out = append(out, UserString{ReferenceID: tok.Hex(), Content: it.Content})
	}
	return out, nil
}
