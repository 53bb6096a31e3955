package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocExtract(t *testing.T) {
	a := New()

	off1 := a.Alloc(3, []byte("abc"))
	off2 := a.Alloc(2, []byte("xy"))

	assert.Equal(t, 5, a.Size())

	got := make([]byte, 3)
	a.Extract(off1, 3, got)
	assert.Equal(t, "abc", string(got))

	got2 := make([]byte, 2)
	a.Extract(off2, 2, got2)
	assert.Equal(t, "xy", string(got2))
}

func TestArena_OffsetsStableAcrossGrowth(t *testing.T) {
	a := New()

	offsets := make([]Offset, 0, 256)
	for i := 0; i < 256; i++ {
		offsets = append(offsets, a.Alloc(1, []byte{byte(i)}))
	}

	for i, off := range offsets {
		got := make([]byte, 1)
		a.Extract(off, 1, got)
		require.Equal(t, byte(i), got[0])
	}
}

func TestArena_ZeroLengthAlloc(t *testing.T) {
	a := New()
	off := a.Alloc(0, nil)
	assert.Equal(t, Offset(0), off)
	assert.Equal(t, 0, a.Size())
}

func TestArena_Merge(t *testing.T) {
	a := New()
	b := New()

	a.Alloc(2, []byte("hi"))
	bOff := b.Alloc(3, []byte("bye"))

	base := a.Merge(b)
	assert.Equal(t, Offset(2), base)

	got := make([]byte, 3)
	a.Extract(base+bOff, 3, got)
	assert.Equal(t, "bye", string(got))
}

func TestArena_Clear(t *testing.T) {
	a := New()
	a.Alloc(4, []byte("data"))
	require.Equal(t, 4, a.Size())

	a.Clear()
	assert.Equal(t, 0, a.Size())

	off := a.Alloc(1, []byte{0x42})
	assert.Equal(t, Offset(0), off)
}

func TestArena_ExtractOutOfBoundsPanics(t *testing.T) {
	a := New()
	a.Alloc(1, []byte{1})

	assert.Panics(t, func() {
		a.Extract(0, 10, make([]byte, 10))
	})
}
