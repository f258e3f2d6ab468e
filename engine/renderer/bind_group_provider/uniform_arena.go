package bind_group_provider

import (
	"errors"
	"fmt"
)

// ErrArenaFull is returned by UniformArena.Push when a block does not fit in the
// remaining capacity of the frame.
var ErrArenaFull = errors.New("uniform arena full")

// DefaultArenaCapacity is the per-frame uniform staging size.
const DefaultArenaCapacity = 4 << 20

// DefaultArenaAlignment matches the WebGPU minUniformBufferOffsetAlignment default.
const DefaultArenaAlignment = 256

// UniformArena stages one frame of uniform blocks in a single CPU buffer. Every draw pushes
// a copy of its program's block and binds the arena's GPU buffer at the returned dynamic
// offset, so draws in the same pass never overwrite each other's uniforms. The staged bytes
// are uploaded with one queue write before the frame is submitted.
type UniformArena struct {
	data      []byte
	used      uint64
	alignment uint64
}

// NewUniformArena creates an arena holding capacity bytes with offsets aligned to alignment.
//
// Parameters:
//   - capacity: the staging size in bytes
//   - alignment: the dynamic offset alignment, a power of two
//
// Returns:
//   - *UniformArena: the arena
func NewUniformArena(capacity, alignment uint64) *UniformArena {
	if alignment == 0 {
		alignment = DefaultArenaAlignment
	}
	return &UniformArena{
		data:      make([]byte, capacity),
		alignment: alignment,
	}
}

// Reset discards every staged block. Called at the start of each frame.
func (a *UniformArena) Reset() {
	a.used = 0
}

// Push copies block into the arena.
//
// Parameters:
//   - block: the uniform block bytes
//
// Returns:
//   - uint32: the aligned offset of the copy, used as the draw's dynamic offset
//   - error: ErrArenaFull when the block does not fit
func (a *UniformArena) Push(block []byte) (uint32, error) {
	offset := (a.used + a.alignment - 1) &^ (a.alignment - 1)
	end := offset + uint64(len(block))
	if end > uint64(len(a.data)) {
		return 0, fmt.Errorf("%w: %d bytes at offset %d exceeds %d", ErrArenaFull, len(block), offset, len(a.data))
	}
	copy(a.data[offset:end], block)
	a.used = end
	return uint32(offset), nil
}

// Used returns the number of staged bytes, including alignment padding.
func (a *UniformArena) Used() uint64 {
	return a.used
}

// Capacity returns the staging size in bytes.
func (a *UniformArena) Capacity() uint64 {
	return uint64(len(a.data))
}

// Staged returns the bytes pushed since the last Reset, padding included, or nil when
// nothing is staged. The slice aliases the arena and is valid until the next Push or Reset.
func (a *UniformArena) Staged() []byte {
	if a.used == 0 {
		return nil
	}
	return a.data[:a.used]
}
