package msgframe

import (
	"fmt"
	"sync"
)

// Buffer is the assembler's append-only output. Length prefixes whose value
// is unknown until the end of assembly are handled with Reserve/Fill patch
// handles rather than a repositionable write cursor.
type Buffer struct {
	data []byte
}

// bufferPool reuses assembly buffers across calls.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return &Buffer{data: make([]byte, 0, 4096)}
	},
}

func getBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.data = b.data[:0]
	return b
}

func putBuffer(b *Buffer) {
	if cap(b.data) <= 64*1024 { // don't pool huge buffers
		bufferPool.Put(b)
	}
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) {
	b.data = append(b.data, p...)
}

// WriteByte appends a single byte. It always returns nil; the error return
// satisfies io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the accumulated output. The slice aliases the buffer's
// storage; copy it before releasing the buffer to a pool.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Patch marks a reserved region to be filled once its value is known.
type Patch struct {
	off  int
	size int
}

// Reserve appends size placeholder bytes and returns a handle for filling
// them in later.
func (b *Buffer) Reserve(size int) Patch {
	off := len(b.data)
	for i := 0; i < size; i++ {
		b.data = append(b.data, 0)
	}
	return Patch{off: off, size: size}
}

// Fill overwrites a reserved region. The data length must equal the reserved
// size.
func (b *Buffer) Fill(p Patch, data []byte) error {
	if len(data) != p.size {
		return fmt.Errorf("patch size mismatch: reserved %d bytes, got %d", p.size, len(data))
	}
	copy(b.data[p.off:p.off+p.size], data)
	return nil
}

// Reader walks input bytes during parsing.
type Reader struct {
	data []byte
	off  int
}

// NewReader wraps data for sequential consumption.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Take consumes and returns the next n bytes. The returned slice aliases the
// input.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrBufferExhausted
	}
	p := r.data[r.off : r.off+n]
	r.off += n
	return p, nil
}

// Rest consumes and returns all remaining bytes.
func (r *Reader) Rest() []byte {
	p := r.data[r.off:]
	r.off = len(r.data)
	return p
}
