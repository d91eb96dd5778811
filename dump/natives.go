package dump

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/skdltmxn/nanometa/internal/sig"
	"github.com/skdltmxn/nanometa/meta"
)

// NativeType is the native projection of one type reference.
type NativeType struct {
	Name   string `json:"name,omitempty"`
	Header string `json:"header"`
	Macro  string `json:"macro"`
}

// Supported reports whether a native type exists for the reference.
func (n NativeType) Supported() bool {
	return n.Header != sig.Unsupported && n.Macro != sig.Unsupported
}

// NativeStub describes the native signature of one method.
type NativeStub struct {
	Token  string       `json:"token"`
	Type   string       `json:"type"`
	Method string       `json:"method"`
	Return NativeType   `json:"return"`
	Params []NativeType `json:"params,omitempty"`
}

// NativeStubs projects the return and parameter types of every method, in
// type definition token order.
func NativeStubs(m *meta.Module) ([]NativeStub, error) {
	var out []NativeStub
	for _, td := range m.SortedTypeDefs() {
		typeName, err := m.TypeFullName(td.Token)
		if err != nil {
			return nil, err
		}
		for _, md := range td.Methods {
			stub := NativeStub{
				Token:  md.Token.Hex(),
				Type:   typeName,
				Method: md.Name,
				Return: project("", md.ReturnType),
			}
			for _, p := range md.Params {
				stub.Params = append(stub.Params, project(p.Name, p.Type))
			}
			out = append(out, stub)
		}
	}
	return out, nil
}

func project(name string, t meta.TypeSig) NativeType {
	header, macro := sig.NativeOf(t)
	n := NativeType{Name: name, Header: header, Macro: macro}
	if !n.Supported() {
		Logger().Debug("no native projection", zap.String("type", t.FullName()))
	}
	return n
}

// WriteNatives renders stubs one method per line:
// "[06000001] Ns.Type::Name  signed int (bool value, const char* text)".
func WriteNatives(w io.Writer, stubs []NativeStub) error {
	for _, s := range stubs {
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = strings.TrimSpace(p.Header + " " + p.Name)
		}
		if _, err := fmt.Fprintf(w, "[%s] %s::%s  %s (%s)\n",
			s.Token, s.Type, s.Method, s.Return.Header, strings.Join(params, ", ")); err != nil {
			return err
		}
	}
	return nil
}
