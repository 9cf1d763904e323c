package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer(t *testing.T) {
	b := NewBatchBuffer[int](3)
	assert.False(t, b.HasData())
	assert.Nil(t, b.GetAndClear())

	b.Add(1)
	b.Add(2)
	assert.False(t, b.Full())
	assert.True(t, b.HasData())

	b.Add(3)
	assert.True(t, b.Full())

	assert.Equal(t, []int{1, 2, 3}, b.GetAndClear())
	assert.False(t, b.HasData())
	assert.False(t, b.Full())
}

func TestBatchBuffer_DefaultSize(t *testing.T) {
	b := NewBatchBuffer[string](0)
	for i := 0; i < BATCH_SIZE-1; i++ {
		b.Add("x")
	}
	assert.False(t, b.Full())
	b.Add("x")
	assert.True(t, b.Full())
}

func TestBatchBuffer_ConcurrentAdd(t *testing.T) {
	b := NewBatchBuffer[int](10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Add(i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, b.GetAndClear(), 100)
}
