package attr

import (
	"slices"
	"strings"
)

// Filter decides which attributes reach the dump. The two checks run at
// different stages and are configured independently: Namespaces drops whole
// attribute records by type namespace, Ignored keeps the record but skips
// flattening its constructor arguments.
type Filter struct {
	Namespaces []string
	Ignored    []string
}

// Includes reports whether an attribute of the given type is dumped at all.
func (f Filter) Includes(typeName string) bool {
	for _, ns := range f.Namespaces {
		if strings.HasPrefix(typeName, ns) {
			return false
		}
	}
	return true
}

// FlattenArgs reports whether the constructor arguments of an attribute of
// the given type are flattened.
func (f Filter) FlattenArgs(typeName string) bool {
	return !slices.Contains(f.Ignored, typeName)
}
