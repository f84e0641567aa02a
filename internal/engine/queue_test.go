package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/testutil"
)

type item struct {
	t    float64
	name string
}

func (i item) At() float64 { return i.t }

func drain(q *Queue[item]) []string {
	var out []string
	for {
		it, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, it.name)
	}
}

func TestQueue_OrdersByTime(t *testing.T) {
	q := NewQueue[item](nil)
	q.Push(item{3, "c"})
	q.Push(item{1, "a"})
	q.Push(item{2, "b"})

	assert.Equal(t, []string{"a", "b", "c"}, drain(q))
}

func TestQueue_EqualTimesKeepInsertionOrder(t *testing.T) {
	q := NewQueue[item](nil)
	for _, name := range []string{"first", "second", "third", "fourth"} {
		q.Push(item{5, name})
	}
	q.Push(item{1, "early"})

	assert.Equal(t, []string{"early", "first", "second", "third", "fourth"}, drain(q))
}

func TestQueue_MillisecondResolution(t *testing.T) {
	q := NewQueue[item](nil)
	q.Push(item{0.1 + 0.2, "pushed first"})
	q.Push(item{0.3, "pushed second"})

	assert.Equal(t, []string{"pushed first", "pushed second"}, drain(q))
}

func TestQueue_InterleavedPushPop(t *testing.T) {
	q := NewQueue[item](nil)
	q.Push(item{2, "b"})
	q.Push(item{1, "a"})

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", first.name)

	q.Push(item{2, "b2"})
	q.Push(item{1.5, "a2"})

	assert.Equal(t, []string{"a2", "b", "b2"}, drain(q))
}

func TestQueue_EmptyPop(t *testing.T) {
	q := NewQueue[item](nil)

	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ItemsDoesNotDrain(t *testing.T) {
	q := NewQueue[item](nil)
	q.Push(item{2, "b"})
	q.Push(item{1, "a"})

	items := q.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].name)
	assert.Equal(t, 2, q.Len())

	head, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", head.name)
}

func TestQueue_SharedClock(t *testing.T) {
	clock := NewClock()
	a := NewQueue[item](clock)
	b := NewQueue[item](clock)

	a.Push(item{0, "a"})
	b.Push(item{0, "b"})

	assert.Equal(t, int64(2), clock.Current())
}

func TestQueue_ResettableSequencer(t *testing.T) {
	clock := testutil.NewDeterministicClock()

	fill := func() []string {
		q := NewQueue[item](clock)
		q.Push(item{1, "late"})
		q.Push(item{0, "first"})
		q.Push(item{0, "second"})
		return drain(q)
	}

	first := fill()
	assert.Equal(t, int64(3), clock.Current())

	clock.Reset()
	assert.Equal(t, first, fill())
	assert.Equal(t, []string{"first", "second", "late"}, first)
	assert.Equal(t, int64(3), clock.Current())
}
