package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/nanometa/internal/sig"
	"github.com/skdltmxn/nanometa/meta"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <snapshot> <query>",
	Short: "Look up metadata by token or name",
	Long: `Look up an entry of a snapshot.

Query can be:
  - Token: lookup app.json 06000001 (also 0x06000001 or [06000001])
  - Name: lookup app.json Program (matches type and member names)`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	if tok, ok := parseToken(args[1]); ok {
		return lookupToken(m, tok)
	}
	return lookupName(m, args[1])
}

// parseToken accepts 8 hex digits with optional 0x prefix or brackets.
func parseToken(s string) (meta.Token, bool) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 8 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return meta.Token(v), true
}

func lookupToken(m *meta.Module, tok meta.Token) error {
	if tok.Table() == meta.TableString {
		lit, ok := m.Literal(tok)
		if !ok {
			return fmt.Errorf("%w: [%s]", meta.ErrUnresolvedToken, tok.Hex())
		}
		fmt.Fprintf(output, "Token: %s\n", tok.Hex())
		fmt.Fprintf(output, "Kind: %s\n", tok.Table())
		fmt.Fprintf(output, "Value: %q\n", lit)
		return nil
	}

	e, ok := m.Entity(tok)
	if !ok {
		return fmt.Errorf("%w: [%s]", meta.ErrUnresolvedToken, tok.Hex())
	}
	printEntity(m, e)
	return nil
}

func lookupName(m *meta.Module, name string) error {
	found := 0
	show := func(e meta.Entity) {
		if found > 0 {
			fmt.Fprintln(output)
		}
		printEntity(m, e)
		found++
	}

	for i := range m.TypeRefs {
		if strings.Contains(m.TypeRefs[i].FullName(), name) {
			show(&m.TypeRefs[i])
		}
	}
	for i := range m.MemberRefs {
		if strings.Contains(m.MemberRefs[i].Name, name) {
			show(&m.MemberRefs[i])
		}
	}
	for _, td := range m.SortedTypeDefs() {
		if strings.Contains(td.FullName(), name) {
			show(td)
		}
		for j := range td.Fields {
			if strings.Contains(td.Fields[j].Name, name) {
				show(&td.Fields[j])
			}
		}
		for j := range td.Methods {
			if strings.Contains(td.Methods[j].Name, name) {
				show(&td.Methods[j])
			}
		}
	}

	if found == 0 {
		fmt.Fprintf(output, "No entries found matching '%s'\n", name)
	} else {
		fmt.Fprintf(output, "\nFound %d match(es)\n", found)
	}
	return nil
}

func printEntity(m *meta.Module, e meta.Entity) {
	tok := e.MetadataToken()
	fmt.Fprintf(output, "Token: %s\n", tok.Hex())
	fmt.Fprintf(output, "Kind: %s\n", tok.Table())

	switch v := e.(type) {
	case *meta.TypeRef, *meta.TypeDef, *meta.TypeSpec:
		if t, err := m.TypeByToken(tok); err == nil {
			fmt.Fprintf(output, "Name: %s\n", t.FullName())
			fmt.Fprintf(output, "Signature: %s\n", sig.Of(t))
		}
		if td, ok := v.(*meta.TypeDef); ok {
			fmt.Fprintf(output, "Flags: 0x%08X\n", td.Flags)
			fmt.Fprintf(output, "Fields: %d\n", len(td.Fields))
			fmt.Fprintf(output, "Methods: %d\n", len(td.Methods))
		}
	case *meta.MethodDef:
		if name, err := m.MethodFullName(tok); err == nil {
			fmt.Fprintf(output, "Name: %s\n", name)
		}
		fmt.Fprintf(output, "Signature: %s\n", sig.Method(v.Signature()))
		fmt.Fprintf(output, "RVA: 0x%08X\n", v.RVA)
		if v.HasBody() && len(v.Body.Locals) > 0 {
			fmt.Fprintf(output, "Locals: %s\n", sig.Locals(v.Body.Locals))
		}
	case *meta.MemberRef:
		if v.IsField() {
			fmt.Fprintf(output, "Name: %s\n", v.Name)
			fmt.Fprintf(output, "Signature: %s\n", sig.Of(*v.FieldType))
		} else {
			if name, err := m.MethodFullName(tok); err == nil {
				fmt.Fprintf(output, "Name: %s\n", name)
			}
			fmt.Fprintf(output, "Signature: %s\n", sig.Method(v.Signature))
		}
	case *meta.FieldDef:
		fmt.Fprintf(output, "Name: %s\n", v.Name)
		fmt.Fprintf(output, "Signature: %s\n", sig.Of(v.Type))
	default:
		fmt.Fprintf(output, "Name: %s\n", e.FullName())
	}

	if owner, ok := m.Owner(tok); ok {
		fmt.Fprintf(output, "Owner: %s [%s]\n", owner.FullName(), owner.Token.Hex())
	}
}
