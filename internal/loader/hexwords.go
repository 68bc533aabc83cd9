package loader

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// HexWordsLoader reads the teacher's own bytecode format: one 32-bit
// word per line, in any base strconv.ParseUint accepts, with "#"
// starting an end-of-line comment, grounded on bassosimone-risc32's
// pkg/vm.LoadBytecode. Each word becomes four little-endian bytes at
// consecutive addresses starting at Base.
type HexWordsLoader struct {
	Base  uint32
	Entry uint32
}

// Load parses data per line and returns the assembled flat image.
func (l HexWordsLoader) Load(data []byte) (Program, error) {
	var image []byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		word, err := strconv.ParseUint(line, 0, 32)
		if err != nil {
			return Program{}, fmt.Errorf("loader: %w", err)
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(word))
		image = append(image, buf[:]...)
	}
	if err := scanner.Err(); err != nil {
		return Program{}, fmt.Errorf("loader: %w", err)
	}
	entry := l.Entry
	if entry == 0 {
		entry = l.Base
	}
	return Program{Image: image, Base: l.Base, Entry: entry}, nil
}
