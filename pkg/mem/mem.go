// Package mem implements the flat-memory external collaborator the
// pipeline core's Memory stage talks to: a byte-addressable array with
// the alignment rules §6 requires and a bus-error sentinel for
// violations, grounded on the teacher's flat-array VM memory.
package mem

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBusError is returned for any access §6 disallows: misaligned for
// its size, or outside the memory's bounds.
var ErrBusError = errors.New("mem: bus error")

// FlatMemory is a fixed-size byte-addressable memory.
type FlatMemory struct {
	bytes []byte
}

// New returns a zeroed FlatMemory of the given size in bytes.
func New(size uint32) *FlatMemory {
	return &FlatMemory{bytes: make([]byte, size)}
}

func alignmentFor(size uint32) uint32 {
	switch size {
	case 2:
		return 2
	case 4:
		return 4
	default:
		return 1
	}
}

func (m *FlatMemory) checkAccess(addr, size uint32) error {
	switch size {
	case 1, 2, 4:
	default:
		return fmt.Errorf("%w: invalid access size %d at 0x%08x", ErrBusError, size, addr)
	}
	if align := alignmentFor(size); addr%align != 0 {
		return fmt.Errorf("%w: unaligned %d-byte access at 0x%08x", ErrBusError, size, addr)
	}
	if uint64(addr)+uint64(size) > uint64(len(m.bytes)) {
		return fmt.Errorf("%w: out-of-range access at 0x%08x", ErrBusError, addr)
	}
	return nil
}

// Read returns the size bytes (1, 2, or 4) at addr, little-endian.
func (m *FlatMemory) Read(addr, size uint32) ([]byte, error) {
	if err := m.checkAccess(addr, size); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, m.bytes[addr:addr+size])
	return out, nil
}

// ReadWord is a convenience wrapper used by Fetch, which always reads
// an aligned 4-byte instruction word.
func (m *FlatMemory) ReadWord(addr uint32) (uint32, error) {
	b, err := m.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Write stores the first size bytes of value at addr.
func (m *FlatMemory) Write(addr, size uint32, value []byte) error {
	if err := m.checkAccess(addr, size); err != nil {
		return err
	}
	copy(m.bytes[addr:addr+size], value)
	return nil
}

// WriteWord is a convenience wrapper for callers that build a value
// arithmetically rather than as a byte slice, such as the Memory
// stage storing a register's value: it stores the low size bytes (1,
// 2, or 4) of value at addr, little-endian.
func (m *FlatMemory) WriteWord(addr, size, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	n := size
	if n > 4 {
		n = 4
	}
	return m.Write(addr, size, buf[:n])
}

// LoadImage copies image into memory starting at base, the load-time
// half of the flat program-image contract in §6. It panics if the
// image does not fit, since this is a construction-time operator
// error rather than a runtime fault.
func (m *FlatMemory) LoadImage(base uint32, image []byte) {
	end := uint64(base) + uint64(len(image))
	if end > uint64(len(m.bytes)) {
		panic(fmt.Sprintf("mem: image of %d bytes at 0x%08x overruns %d-byte memory", len(image), base, len(m.bytes)))
	}
	copy(m.bytes[base:], image)
}

// Size returns the memory's capacity in bytes.
func (m *FlatMemory) Size() uint32 { return uint32(len(m.bytes)) }
