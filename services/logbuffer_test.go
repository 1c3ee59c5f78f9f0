package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogBufferEvictsOldest(t *testing.T) {
	buffer := NewLogBuffer(3)
	for i := 1; i <= 5; i++ {
		buffer.Append(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, 3, buffer.Len())
	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, buffer.Lines())
}

func TestLogBufferTail(t *testing.T) {
	buffer := NewLogBuffer(10)
	for i := 1; i <= 5; i++ {
		buffer.Append(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, []string{"line 4", "line 5"}, buffer.Tail(2))
	// n <= 0 and oversized n return everything
	assert.Len(t, buffer.Tail(0), 5)
	assert.Len(t, buffer.Tail(100), 5)
}

func TestLogBufferClear(t *testing.T) {
	buffer := NewLogBuffer(10)
	buffer.Append("line")
	buffer.Clear()

	assert.Equal(t, 0, buffer.Len())
	assert.Empty(t, buffer.Lines())
}

func TestLogBufferDefaultCapacity(t *testing.T) {
	buffer := NewLogBuffer(0)
	for i := 0; i < DefaultLogCapacity+20; i++ {
		buffer.Append("x")
	}
	assert.Equal(t, DefaultLogCapacity, buffer.Len())
}
