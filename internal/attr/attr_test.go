package attr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skdltmxn/nanometa/meta"
)

func TestFlatten(t *testing.T) {
	object := meta.SystemType("Object")
	boxed := func(arg meta.AttrArg) meta.AttrArg {
		return meta.AttrArg{Type: object, Boxed: &arg}
	}

	tests := []struct {
		name string
		arg  meta.AttrArg
		want []Value
	}{
		{
			name: "negative int32",
			arg:  meta.AttrArg{Type: meta.SystemType("Int32"), Value: -1},
			want: []Value{{Options: "08", Numeric: "FFFFFFFFFFFFFFFF"}},
		},
		{
			name: "int16 truncates",
			arg:  meta.AttrArg{Type: meta.SystemType("Int16"), Value: int64(0x18000)},
			want: []Value{{Options: "06", Numeric: "FFFFFFFFFFFF8000"}},
		},
		{
			name: "byte",
			arg:  meta.AttrArg{Type: meta.SystemType("Byte"), Value: uint8(200)},
			want: []Value{{Options: "05", Numeric: "00000000000000C8"}},
		},
		{
			name: "uint64 max",
			arg:  meta.AttrArg{Type: meta.SystemType("UInt64"), Value: uint64(1<<64 - 1)},
			want: []Value{{Options: "0B", Numeric: "FFFFFFFFFFFFFFFF"}},
		},
		{
			name: "boolean",
			arg:  meta.AttrArg{Type: meta.SystemType("Boolean"), Value: true},
			want: []Value{{Options: "02", Numeric: "0000000000000001"}},
		},
		{
			name: "string",
			arg:  meta.AttrArg{Type: meta.SystemType("String"), Value: "hello"},
			want: []Value{{Options: "0E", Text: "hello"}},
		},
		{
			name: "char code unit",
			arg:  meta.AttrArg{Type: meta.SystemType("Char"), Value: 65},
			want: []Value{{Options: "03", Text: "A"}},
		},
		{
			name: "char string",
			arg:  meta.AttrArg{Type: meta.SystemType("Char"), Value: "z"},
			want: []Value{{Options: "03", Text: "z"}},
		},
		{
			name: "json number",
			arg:  meta.AttrArg{Type: meta.SystemType("Int64"), Value: json.Number("-2")},
			want: []Value{{Options: "0A", Numeric: "FFFFFFFFFFFFFFFE"}},
		},
		{
			name: "boxed value",
			arg:  boxed(meta.AttrArg{Type: meta.SystemType("UInt16"), Value: 7}),
			want: []Value{{Options: "07", Numeric: "0000000000000007"}},
		},
		{
			name: "object array expands",
			arg: meta.AttrArg{
				Type: meta.ArraySig(object),
				Elems: []meta.AttrArg{
					boxed(meta.AttrArg{Type: meta.SystemType("Int32"), Value: 1}),
					boxed(meta.AttrArg{Type: meta.SystemType("String"), Value: "two"}),
				},
			},
			want: []Value{
				{Options: "08", Numeric: "0000000000000001"},
				{Options: "0E", Text: "two"},
			},
		},
		{
			name: "empty object array",
			arg:  meta.AttrArg{Type: meta.ArraySig(object)},
			want: nil,
		},
		{
			name: "enum falls back to text",
			arg:  meta.AttrArg{Type: meta.Named(meta.SigValueType, "App", "Mode", 0), Value: 3},
			want: []Value{{Options: "00", Text: "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(tt.arg))
		})
	}
}

func TestFlattenAll(t *testing.T) {
	ca := meta.CustomAttribute{
		Args: []meta.AttrArg{
			{Type: meta.SystemType("Int32"), Value: 5},
			{Type: meta.SystemType("String"), Value: "x"},
		},
	}
	assert.Equal(t, []Value{
		{Options: "08", Numeric: "0000000000000005"},
		{Options: "0E", Text: "x"},
	}, FlattenAll(ca))

	assert.Nil(t, FlattenAll(meta.CustomAttribute{}))
}

func TestFilter(t *testing.T) {
	f := Filter{
		Namespaces: []string{"System.Diagnostics.CodeAnalysis"},
		Ignored:    []string{"System.ParamArrayAttribute"},
	}

	assert.False(t, f.Includes("System.Diagnostics.CodeAnalysis.SuppressMessageAttribute"))
	assert.True(t, f.Includes("System.ObsoleteAttribute"))
	assert.False(t, f.FlattenArgs("System.ParamArrayAttribute"))
	assert.True(t, f.FlattenArgs("System.ObsoleteAttribute"))

	var none Filter
	assert.True(t, none.Includes("Anything"))
	assert.True(t, none.FlattenArgs("Anything"))
}
