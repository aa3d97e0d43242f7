package itempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PanicsOnNonPositiveN(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](-1) })
}

func TestPool_AllocUntilFull(t *testing.T) {
	p := New[int](3)
	assert.Equal(t, 0, p.Len())
	a := p.Alloc()
	b := p.Alloc()
	c := p.Alloc()
	assert.True(t, p.Full())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, -1, p.Alloc())

	assert.ElementsMatch(t, []int{0, 1, 2}, []int{a, b, c})
}

func TestPool_FreeThenReallocate(t *testing.T) {
	p := New[int](1)
	i := p.Alloc()
	*p.At(i) = 7
	p.Free(i)
	assert.False(t, p.Full())
	j := p.Alloc()
	assert.Equal(t, i, j)
	// Free does not clear contents, only Calloc does.
	assert.Equal(t, 7, *p.At(j))
}

func TestPool_CallocZeroesSlot(t *testing.T) {
	p := New[int](1)
	i := p.Alloc()
	*p.At(i) = 99
	p.Free(i)
	j := p.Calloc()
	assert.Equal(t, 0, *p.At(j))
}

func TestPool_UsedReflectsState(t *testing.T) {
	p := New[int](1)
	assert.False(t, p.Used(0))
	i := p.Alloc()
	assert.True(t, p.Used(i))
	p.Free(i)
	assert.False(t, p.Used(i))
}

func TestPool_Reset(t *testing.T) {
	p := New[int](2)
	p.Alloc()
	p.Alloc()
	assert.True(t, p.Full())
	p.Reset()
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Used(0))
}
