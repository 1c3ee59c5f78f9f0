package services

import (
	"sync"
)

// DefaultLogCapacity is the number of console lines retained per server.
const DefaultLogCapacity = 100

/**
 * LogBuffer is a bounded FIFO of console lines
 * @description
 * - Appending beyond capacity drops the oldest line
 * - All methods are safe for concurrent use; readers get copies
 */
type LogBuffer struct {
	mutex    sync.Mutex
	lines    []string
	capacity int
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{
		lines:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a line, evicting the oldest when the buffer is full.
func (b *LogBuffer) Append(line string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.lines) == b.capacity {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:b.capacity-1]
	}
	b.lines = append(b.lines, line)
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Tail returns a copy of the newest n lines, oldest first.
// n <= 0 or n larger than the buffer returns everything.
func (b *LogBuffer) Tail(n int) []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	start := 0
	if n > 0 && n < len(b.lines) {
		start = len(b.lines) - n
	}
	out := make([]string, len(b.lines)-start)
	copy(out, b.lines[start:])
	return out
}

func (b *LogBuffer) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.lines)
}

// Clear discards all buffered lines.
func (b *LogBuffer) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.lines = b.lines[:0]
}
