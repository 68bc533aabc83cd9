// Package loader turns a program file on disk into the (image, base,
// entry) triple pkg/mem.FlatMemory.LoadImage and pkg/cpu.New consume.
// Two formats are supported behind the same interface: real ELF32
// binaries, and the teacher's own plain hex-word text format for
// hand-written test programs.
package loader

// Program is the flat image a loader produces: the bytes to place at
// Base, and the address execution should start at.
type Program struct {
	Image []byte
	Base  uint32
	Entry uint32
}

// Loader turns file bytes into a Program.
type Loader interface {
	Load(data []byte) (Program, error)
}
