package sim

import (
	"debug/elf"
	"fmt"

	"hellometal/logger"
)

// Segment is one PT_LOAD program header as placed in RAM.
type Segment struct {
	Addr     uint64
	FileSize uint64
	MemSize  uint64
	Flags    elf.ProgFlag
}

// Image summarises a loaded firmware image.
type Image struct {
	Machine  elf.Machine
	Entry    uint64
	Segments []Segment

	// bytes beyond each segment's file size, zero-filled (.bss)
	ZeroFilled uint64
}

// LoadImage maps the PT_LOAD segments of the ELF file at path into ram at
// their virtual addresses, zero-filling the part of each segment not backed
// by the file. This is the state the boot code promises before main runs:
// code and data in place and static storage zeroed. The entry point must lie
// inside an executable segment.
func LoadImage(path string, ram *RAM) (Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	img := Image{Machine: f.Machine, Entry: f.Entry}
	entryMapped := false

	for _, ph := range f.Progs {
		if ph.Type != elf.PT_LOAD {
			continue
		}
		if ph.Filesz > ph.Memsz {
			return Image{}, fmt.Errorf("segment @%#x: file size %d exceeds memory size %d", ph.Vaddr, ph.Filesz, ph.Memsz)
		}

		// the header sizes are untrusted; check the fit before allocating
		if err := ram.span(uintptr(ph.Vaddr), ph.Memsz); err != nil {
			return Image{}, fmt.Errorf("map segment @%#x: %w", ph.Vaddr, err)
		}

		buf := make([]byte, ph.Memsz)
		if ph.Filesz > 0 {
			if _, err := ph.ReadAt(buf[:ph.Filesz], 0); err != nil {
				return Image{}, fmt.Errorf("read segment: %w", err)
			}
		}
		if err := ram.WriteBytes(uintptr(ph.Vaddr), buf); err != nil {
			return Image{}, fmt.Errorf("map segment @%#x: %w", ph.Vaddr, err)
		}

		img.Segments = append(img.Segments, Segment{
			Addr:     ph.Vaddr,
			FileSize: ph.Filesz,
			MemSize:  ph.Memsz,
			Flags:    ph.Flags,
		})
		img.ZeroFilled += ph.Memsz - ph.Filesz

		if ph.Flags&elf.PF_X != 0 && f.Entry >= ph.Vaddr && f.Entry < ph.Vaddr+ph.Memsz {
			entryMapped = true
		}
	}

	if len(img.Segments) == 0 {
		return Image{}, fmt.Errorf("%s: no loadable segments", path)
	}
	if !entryMapped {
		return Image{}, fmt.Errorf("entry %#x is not in an executable segment", f.Entry)
	}

	logger.Logf("image", "%s: %d segments, entry %#x, %d bytes zeroed", path, len(img.Segments), img.Entry, img.ZeroFilled)
	return img, nil
}
