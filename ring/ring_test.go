package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](-1) })
}

func TestBuffer_InitialState(t *testing.T) {
	b := New[int](4)
	assert.Equal(t, 4, b.Cap())
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.Empty())
	assert.False(t, b.Full())
}

func TestBuffer_WriteThenReadPreservesOrder(t *testing.T) {
	b := New[int](4)
	for _, v := range []int{1, 2, 3, 4} {
		assert.False(t, b.Full())
		b.Write(v)
	}
	assert.True(t, b.Full())

	var got []int
	for !b.Empty() {
		var v int
		b.Read(&v)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
	assert.True(t, b.Empty())
}

func TestBuffer_FIFOAcrossWrapPositions(t *testing.T) {
	b := New[int](3)

	// drive head/tail around the wrap point repeatedly
	next := 0
	push := func() {
		b.Write(next)
		next++
	}
	pop := func() int {
		var v int
		b.Read(&v)
		return v
	}

	push()
	push()
	assert.Equal(t, 0, pop())
	push()
	push()
	assert.Equal(t, 1, pop())
	assert.Equal(t, 2, pop())
	push()
	assert.Equal(t, 3, pop())
	assert.Equal(t, 4, pop())
	assert.True(t, b.Empty())
}

func TestBuffer_Reset(t *testing.T) {
	b := New[int](2)
	b.Write(1)
	b.Reset()
	assert.True(t, b.Empty())
	assert.False(t, b.Full())
	b.Write(9)
	var v int
	b.Read(&v)
	assert.Equal(t, 9, v)
}

func TestBuffer_HeadTailPtrInPlace(t *testing.T) {
	b := New[string](2)
	*b.TailPtr() = "a"
	b.Push()
	assert.Equal(t, "a", *b.HeadPtr())
	b.Pop()
	assert.True(t, b.Empty())
}
