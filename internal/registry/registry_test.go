package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_PushThenResolve(t *testing.T) {
	tbl := NewTable()
	r := &Region{Data: make([]byte, 16)}

	idx := tbl.NextIndex()
	assert.Equal(t, 0, idx)

	_, _, err := tbl.Resolve(r)
	assert.ErrorIs(t, err, ErrNotRegistered)

	tbl.ApplyPush(r, 16, idx)

	gotIdx, gotSize, err := tbl.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, 0, gotIdx)
	assert.Equal(t, 16, gotSize)

	addr, ok := tbl.AddressAt(0)
	require.True(t, ok)
	assert.Same(t, r, addr)
}

func TestTable_PopDoesNotCompact(t *testing.T) {
	tbl := NewTable()
	r1 := &Region{Data: make([]byte, 4)}
	r2 := &Region{Data: make([]byte, 4)}

	tbl.ApplyPush(r1, 4, tbl.NextIndex())
	tbl.ApplyPush(r2, 4, tbl.NextIndex())

	tbl.ApplyPop(r1)

	_, _, err := tbl.Resolve(r1)
	assert.ErrorIs(t, err, ErrNotRegistered)

	// Index 1 (r2) must still be reachable; the slot for index 0 stays in
	// place even though r1 is gone from local_to_index.
	addr, ok := tbl.AddressAt(1)
	require.True(t, ok)
	assert.Same(t, r2, addr)

	assert.Equal(t, 2, tbl.Len())
}

func TestTable_SequentialPushesAssignIncreasingIndices(t *testing.T) {
	tbl := NewTable()
	var indices []int
	for i := 0; i < 5; i++ {
		indices = append(indices, tbl.NextIndex())
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices)
}
