package strtab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/nanometa/meta"
)

func TestNew(t *testing.T) {
	tab, err := New([]string{"App", "Program", "App"})
	require.NoError(t, err)

	assert.Equal(t, uint16(2), tab.LastPreallocated())
	assert.Equal(t, 3, tab.Len())

	tok, ok := tab.Lookup("")
	assert.True(t, ok)
	assert.Equal(t, "70000000", tok.Hex())

	tok, ok = tab.Lookup("Program")
	assert.True(t, ok)
	assert.Equal(t, "70000002", tok.Hex())

	_, ok = tab.Lookup("missing")
	assert.False(t, ok)
}

func TestIntern(t *testing.T) {
	tab, err := New(nil)
	require.NoError(t, err)

	first, err := tab.Intern("hello")
	require.NoError(t, err)
	assert.Equal(t, meta.MustToken(meta.TableString, 1), first)

	again, err := tab.Intern("hello")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	empty, err := tab.Intern("")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), empty.Row())
}

func TestItemsAndFresh(t *testing.T) {
	tab, err := New([]string{"pre"})
	require.NoError(t, err)
	for _, s := range []string{"b", "a", "pre"} {
		_, err := tab.Intern(s)
		require.NoError(t, err)
	}

	assert.Equal(t, []Item{
		{Content: "", Token: 0x70000000},
		{Content: "pre", Token: 0x70000001},
		{Content: "b", Token: 0x70000002},
		{Content: "a", Token: 0x70000003},
	}, tab.Items())

	fresh := tab.Fresh()
	require.Len(t, fresh, 2)
	assert.Equal(t, "b", fresh[0].Content)
	assert.Equal(t, uint32(2), fresh[0].ID())
	assert.Equal(t, "a", fresh[1].Content)
}

func TestIntern_Full(t *testing.T) {
	tab, err := New(nil)
	require.NoError(t, err)

	for i := 1; i < 1<<16; i++ {
		_, err := tab.Intern(fmt.Sprint(i))
		require.NoError(t, err)
	}

	_, err = tab.Intern("overflow")
	assert.ErrorIs(t, err, meta.ErrTableFull)

	// known strings still resolve
	tok, err := tab.Intern("1")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tok.Row())
}

func TestIntern_Concurrent(t *testing.T) {
	tab, err := New(nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, err := tab.Intern(fmt.Sprintf("s%d", i))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 101, tab.Len())
	seen := make(map[uint32]bool)
	for _, it := range tab.Items() {
		assert.False(t, seen[it.ID()], "id %d assigned twice", it.ID())
		seen[it.ID()] = true
	}
}
