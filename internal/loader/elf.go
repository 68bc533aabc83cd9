package loader

import (
	"fmt"

	"github.com/yalue/elf_reader"
)

// ELFLoader extracts a program image from a real ELF32 file, grounded
// on robertodauria-ebpf-vm's use of github.com/yalue/elf_reader to
// pull a loadable section and entry point out of an ELF object the
// same way: find the named section, read its bytes and link address,
// and take the file's entry point as the simulator's start PC.
type ELFLoader struct {
	// SectionName is the section to load, conventionally ".text".
	SectionName string
}

// Load parses data as ELF32 and returns the named section's content,
// its link-time virtual address, and the file's entry point.
func (l ELFLoader) Load(data []byte) (Program, error) {
	name := l.SectionName
	if name == "" {
		name = ".text"
	}

	f, err := elf_reader.ParseELFFile(data)
	if err != nil {
		return Program{}, fmt.Errorf("loader: parse elf: %w", err)
	}

	count := f.GetSectionCount()
	for i := uint16(0); i < count; i++ {
		secName, err := f.GetSectionName(i)
		if err != nil || secName != name {
			continue
		}
		content, err := f.GetSectionContent(i)
		if err != nil {
			return Program{}, fmt.Errorf("loader: section %q content: %w", name, err)
		}
		header, err := f.GetSectionHeader(i)
		if err != nil {
			return Program{}, fmt.Errorf("loader: section %q header: %w", name, err)
		}
		return Program{
			Image: content,
			Base:  uint32(header.GetVirtualAddress()),
			Entry: uint32(f.GetEntryPoint()),
		}, nil
	}
	return Program{}, fmt.Errorf("loader: section %q not found", name)
}
