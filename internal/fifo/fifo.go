// Package fifo provides a bounded byte FIFO standing in for a USB endpoint
// buffer.
//
// Unlike an endpoint buffer it never grows: writes beyond the free space are
// truncated and reads return at most what is buffered, so producers and
// consumers see the same overrun and underrun behavior as on a device.
package fifo

import "sync"

// Buffer is a fixed-capacity circular byte buffer.
// It is safe for one producer and one consumer on different goroutines.
type Buffer struct {
	data     []byte
	mask     uint32 // capacity - 1
	size     int
	readPos  uint32
	writePos uint32
	mu       sync.Mutex
}

// New creates a buffer. Capacity is rounded up to the nearest power of 2.
func New(capacity int) *Buffer {
	cap2 := 1
	for cap2 < capacity {
		cap2 <<= 1
	}

	return &Buffer{
		data: make([]byte, cap2),
		mask: uint32(cap2 - 1),
	}
}

// Write copies as much of p as fits and returns the number of bytes written.
func (b *Buffer) Write(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(len(p), len(b.data)-b.size)
	for _, c := range p[:n] {
		b.data[b.writePos&b.mask] = c
		b.writePos++
	}
	b.size += n
	return n
}

// Read moves up to len(p) bytes into p and returns the number read.
func (b *Buffer) Read(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.peek(p)
	b.readPos += uint32(n)
	b.size -= n
	return n
}

// Peek copies up to len(p) bytes into p without consuming them.
func (b *Buffer) Peek(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peek(p)
}

func (b *Buffer) peek(p []byte) int {
	n := min(len(p), b.size)
	pos := b.readPos
	for i := range n {
		p[i] = b.data[pos&b.mask]
		pos++
	}
	return n
}

// Available returns the number of bytes buffered.
func (b *Buffer) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Space returns the free space in bytes.
func (b *Buffer) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.size
}

// Capacity returns the buffer capacity in bytes.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Clear discards all buffered bytes.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.readPos = 0
	b.writePos = 0
}
