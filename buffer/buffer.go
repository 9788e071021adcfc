// Package buffer reads a whole input stream into a NUL-terminated byte
// buffer that grows by doubling.
package buffer

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/lemonwrap/mem"
	"github.com/tliron/commonlog"
)

// InitialCapacity is the size of the first backing store.
const InitialCapacity = 1024

// Terminator marks the logical end of the accumulated text.
const Terminator = 0

var log = commonlog.GetLogger("lemonwrap.buffer")

var errFinalized = errors.New("buffer is finalized")

// Buffer owns a backing store obtained from an Allocator.
// The invariant Cap() >= Len()+1 holds until Finalize, which consumes the
// reserved byte for the terminator.
type Buffer struct {
	alloc     mem.Allocator
	data      []byte
	size      int
	finalized bool
}

// New allocates a buffer with InitialCapacity bytes of storage.
func New(alloc mem.Allocator) (*Buffer, error) {
	if alloc == nil {
		alloc = mem.Default
	}
	data, err := alloc.Alloc(InitialCapacity)
	if err != nil {
		return nil, fmt.Errorf("allocate buffer with capacity %d: %w", InitialCapacity, err)
	}
	log.Debugf("initial buffer allocated (%d bytes)", InitialCapacity)
	return &Buffer{alloc: alloc, data: data}, nil
}

// Len is the number of bytes stored, including the terminator once finalized.
func (b *Buffer) Len() int { return b.size }

// Cap is the size of the backing store.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes returns the stored bytes. After Finalize the last byte is the
// terminator. The slice is only valid until Release.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.size]
}

// Text returns the stored bytes without the terminator.
func (b *Buffer) Text() []byte {
	if b.finalized {
		return b.data[:b.size-1]
	}
	return b.data[:b.size]
}

// WriteByte appends c, doubling the capacity first when c would not leave
// one byte of headroom.
func (b *Buffer) WriteByte(c byte) error {
	if b.finalized {
		return errFinalized
	}
	if b.size+1 >= len(b.data) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.data[b.size] = c
	b.size++
	return nil
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := b.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// ReadFrom drains r until EOF.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	var n int64
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := b.WriteByte(c); err != nil {
			return n, err
		}
		n++
	}
}

func (b *Buffer) grow() error {
	capacity := len(b.data) * 2
	next, err := b.alloc.Alloc(capacity)
	if err != nil {
		return fmt.Errorf("reallocate buffer with capacity %d: %w", capacity, err)
	}
	copy(next, b.data[:b.size])
	b.alloc.Free(b.data)
	b.data = next
	log.Debugf("buffer grown to %d bytes", capacity)
	return nil
}

// Finalize appends the terminator. It is an error to write afterwards.
func (b *Buffer) Finalize() error {
	if b.finalized {
		return errFinalized
	}
	b.data[b.size] = Terminator
	b.size++
	b.finalized = true
	return nil
}

// Release returns the backing store to the allocator. Calling it again is
// a no-op.
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	b.alloc.Free(b.data)
	b.data = nil
	b.size = 0
}

// Accumulate reads r to completion and returns the finalized buffer.
// On error nothing is left allocated.
func Accumulate(r io.Reader, alloc mem.Allocator) (*Buffer, error) {
	b, err := New(alloc)
	if err != nil {
		return nil, err
	}
	if _, err := b.ReadFrom(r); err != nil {
		b.Release()
		return nil, err
	}
	if err := b.Finalize(); err != nil {
		b.Release()
		return nil, err
	}
	log.Debugf("input read: %d bytes, capacity %d", b.size-1, len(b.data))
	return b, nil
}
