package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <snapshot>",
	Short: "Display snapshot statistics",
	Long:  `Display the module name and the size of each metadata table in a snapshot.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := openSnapshot(args[0])
	if err != nil {
		return err
	}

	var fields, methods, bodies, attrs int
	for _, td := range m.TypeDefs {
		fields += len(td.Fields)
		methods += len(td.Methods)
		attrs += len(td.CustomAttributes)
		for _, md := range td.Methods {
			if md.HasBody() {
				bodies++
			}
			attrs += len(md.CustomAttributes)
		}
		for _, fd := range td.Fields {
			attrs += len(fd.CustomAttributes)
		}
	}

	fmt.Fprintf(output, "Snapshot: %s\n", args[0])
	fmt.Fprintf(output, "Module: %s\n", m.Name)
	fmt.Fprintf(output, "Assembly References: %d\n", len(m.AssemblyRefs))
	fmt.Fprintf(output, "Module References: %d\n", len(m.ModuleRefs))
	fmt.Fprintf(output, "Type References: %d\n", len(m.TypeRefs))
	fmt.Fprintf(output, "Member References: %d\n", len(m.MemberRefs))
	fmt.Fprintf(output, "Type Specs: %d\n", len(m.TypeSpecs))
	fmt.Fprintf(output, "Type Definitions: %d\n", len(m.TypeDefs))
	fmt.Fprintf(output, "Fields: %d\n", fields)
	fmt.Fprintf(output, "Methods: %d (%d with body)\n", methods, bodies)
	fmt.Fprintf(output, "Custom Attributes: %d\n", attrs)
	fmt.Fprintf(output, "Preallocated Strings: %d\n", len(m.Strings))
	fmt.Fprintf(output, "User String Literals: %d\n", len(m.Literals))
	return nil
}
