package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue[int]()
	assert.True(t, q.Is_empty())
	_, ok := q.Get_nowait()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		q.Put_nowait(i)
	}
	assert.Equal(t, 5, q.Len())
	for i := 0; i < 5; i++ {
		v, ok := q.Get_nowait()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.Is_empty())
}

func TestQueueConcurrentPut(t *testing.T) {
	q := NewQueue[string]()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Put_nowait("move")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Len())
}
