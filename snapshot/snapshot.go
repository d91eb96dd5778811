// Package snapshot reads and writes metadata snapshots: the tables an
// assembly reader produced, serialized as JSON or msgpack.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/skdltmxn/nanometa/meta"
)

// Format is a snapshot serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Errors returned by this package.
var (
	ErrInvalidSnapshot = errors.New("snapshot: invalid snapshot")
	ErrUnknownFormat   = errors.New("snapshot: unknown format")
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatMsgpack:
		return f, nil
	case "mpk":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: cannot infer format of %s", ErrUnknownFormat, path)
}

// Open reads the snapshot at path, inferring the format from its extension.
func Open(path string) (*meta.Module, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return OpenFormat(path, format)
}

// OpenFormat reads the snapshot at path in the given format.
func OpenFormat(path string, format Format) (*meta.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to open file: %w", err)
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads one module from r.
func Decode(r io.Reader, format Format) (*meta.Module, error) {
	var m meta.Module

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		// keep attribute values exact; float64 loses 64-bit integers
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode writes m to w.
func Encode(w io.Writer, m *meta.Module, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(m)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save writes m to path through a temporary file in the same directory.
func Save(path string, m *meta.Module, format Format) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = Encode(f, m, format); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// validate checks that every token sits in the table its record belongs to.
func validate(m *meta.Module) error {
	check := func(what string, tok meta.Token, want ...meta.TableKind) error {
		for _, k := range want {
			if tok.Table() == k {
				return nil
			}
		}
		return fmt.Errorf("%w: %s token [%s] points into %s", ErrInvalidSnapshot, what, tok.Hex(), tok.Table())
	}

	for _, tr := range m.TypeRefs {
		if err := check("type reference", tr.Token, meta.TableTypeRef); err != nil {
			return err
		}
	}
	for _, mr := range m.MemberRefs {
		if err := check("member reference", mr.Token, meta.TableMemberRef); err != nil {
			return err
		}
	}
	for _, ts := range m.TypeSpecs {
		if err := check("type spec", ts.Token, meta.TableTypeSpec); err != nil {
			return err
		}
	}
	for _, lit := range m.Literals {
		if err := check("literal", lit.Token, meta.TableString); err != nil {
			return err
		}
	}
	for _, td := range m.TypeDefs {
		if err := check("type definition", td.Token, meta.TableTypeDef); err != nil {
			return err
		}
		if td.HasBaseType() {
			if err := check("base type", td.BaseType, meta.TableTypeDef, meta.TableTypeRef, meta.TableTypeSpec); err != nil {
				return err
			}
		}
		for _, fd := range td.Fields {
			if err := check("field", fd.Token, meta.TableField); err != nil {
				return err
			}
		}
		for _, md := range td.Methods {
			if err := check("method", md.Token, meta.TableMethod); err != nil {
				return err
			}
		}
		for _, gp := range td.GenericParams {
			if err := check("generic parameter", gp.Token, meta.TableGenericParam); err != nil {
				return err
			}
		}
	}
	return nil
}
