package dump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeStubs(t *testing.T) {
	stubs, err := NativeStubs(testModule())
	require.NoError(t, err)
	require.Len(t, stubs, 3)

	main := stubs[0]
	assert.Equal(t, "06000001", main.Token)
	assert.Equal(t, "App.Program", main.Type)
	assert.Equal(t, NativeType{Header: "void", Macro: "void"}, main.Return)
	assert.Equal(t, []NativeType{
		{Name: "args", Header: "CLR_RT_TypedArray_LPCSTR", Macro: "LPCSTR_ARRAY"},
	}, main.Params)

	helper := stubs[1]
	assert.Equal(t, NativeType{Header: "signed int", Macro: "INT32"}, helper.Return)
	assert.Empty(t, helper.Params)

	invoke := stubs[2]
	assert.Equal(t, "App.Program/Inner", invoke.Type)
	assert.Equal(t, NativeType{}, invoke.Return)
	assert.True(t, invoke.Return.Supported())
	require.Len(t, invoke.Params, 1)
	assert.Equal(t, "UNSUPPORTED", invoke.Params[0].Header)
	assert.False(t, invoke.Params[0].Supported())
}

func TestWriteNatives(t *testing.T) {
	stubs, err := NativeStubs(testModule())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNatives(&buf, stubs))

	assert.Equal(t,
		"[06000001] App.Program::Main  void (CLR_RT_TypedArray_LPCSTR args)\n"+
			"[06000002] App.Program::Helper  signed int ()\n"+
			"[06000003] App.Program/Inner::Invoke   (UNSUPPORTED target)\n",
		buf.String())
}
