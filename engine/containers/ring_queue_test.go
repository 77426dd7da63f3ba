package containers

import (
	"testing"

	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[string](2)
	assert.True(t, q.IsEmpty())

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue("c"), core.ErrQueueFull)

	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	require.NoError(t, q.Enqueue("c"))
	v, _ = q.Dequeue()
	assert.Equal(t, "b", v)
	v, _ = q.Dequeue()
	assert.Equal(t, "c", v)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
}

func TestRingQueueZeroSize(t *testing.T) {
	q := NewRingQueue[int](0)
	assert.ErrorIs(t, q.Enqueue(1), core.ErrQueueFull)
}
