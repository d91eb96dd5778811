package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteText renders the table in the human-readable dump layout.
func WriteText(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	for _, a := range t.AssemblyReferences {
		p("AssemblyRefProps [%s]: Flags: %s '%s'\n", a.ReferenceID, a.Flags, a.Name)
	}
	p("\n")

	for _, tr := range t.TypeReferences {
		p("TypeRefProps [%s]: Scope: %s '%s'\n", tr.ReferenceID, tr.Scope, tr.Name)
		for _, mr := range tr.MemberReferences {
			p("    MemberRefProps [%s]: '%s' [%s]\n", mr.ReferenceID, mr.Name, mr.Signature)
		}
	}
	p("\n")

	for _, td := range t.TypeDefinitions {
		p("TypeDefProps [%s]: Flags: %s Extends: %s Enclosed: %s '%s'\n",
			td.ReferenceID, td.Flags, td.ExtendsType, td.EnclosedType, td.Name)
		for _, gp := range td.GenericParameters {
			p("    GenericParamProps [%s]: Position: (%s) '%s' Owner: %s [%s]\n",
				gp.GenericParamToken, gp.Position, gp.Name, gp.Owner, gp.Signature)
		}
		for _, fd := range td.FieldDefinitions {
			p("    FieldDefProps [%s]: Attr: %s Flags: %s '%s' [%s]\n",
				fd.ReferenceID, fd.Attributes, fd.Flags, fd.Name, fd.Signature)
		}
		for _, md := range td.MethodDefinitions {
			p("    MethodDefProps [%s]: Flags: %s Impl: %s RVA: %s '%s' [%s]\n",
				md.ReferenceID, md.Flags, md.Implementation, md.RVA, md.Name, md.Signature)
			if md.Locals != "" {
				p("        Locals %s\n", md.Locals)
			}
			for _, eh := range md.ExceptionHandlers {
				p("        EH: %s\n", eh)
			}
			if md.ILCount != "" {
				p("        IL count: %s\n", md.ILCount)
			}
			for _, line := range md.ILCode {
				p("            %s\n", line)
			}
		}
		for _, impl := range td.InterfaceDefinitions {
			p("    InterfaceImplProps [%s]: Itf: %s\n", impl.ReferenceID, impl.Interface)
		}
		p("\n")
	}

	for _, ca := range t.Attributes {
		p("CustomAttribute [%s]: Owner: %s Ctor: %s\n", ca.ReferenceID, ca.Name, ca.TypeToken)
		for _, v := range ca.FixedArgs {
			if v.Numeric != "" {
				p("    FixedArg: %s %s\n", v.Options, v.Numeric)
			} else {
				p("    FixedArg: %s '%s'\n", v.Options, v.Text)
			}
		}
	}
	p("\n")

	for _, us := range t.UserStrings {
		p("UserString [%s]: '%s'\n", us.ReferenceID, us.Content)
	}

	return bw.Flush()
}

// WriteJSON writes the table as indented JSON.
func WriteJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteMsgpack writes the table as msgpack, keyed by the JSON field names.
func WriteMsgpack(w io.Writer, t *Table) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(t)
}

// ReadMsgpack decodes a table written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*Table, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
