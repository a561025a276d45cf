/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"io"
	"os"
)

// ReadEntry reads the record at index from a flat array file. The byte
// offset shifts the record position to compensate the drive read
// offset. Regions before the start of the file or past its end come
// back as the fill byte.
func ReadEntry(f *os.File, dst []byte, entrySize int, index int32, offset int64, fill byte) error {
	pos := int64(index)*int64(entrySize) + offset

	for i := range dst {
		dst[i] = fill
	}

	skip := int64(0)
	if pos < 0 {
		skip = -pos
		if skip >= int64(len(dst)) {
			return nil
		}
		pos = 0
	}

	n, err := f.ReadAt(dst[skip:], pos)
	if err != nil && err != io.EOF {
		return err
	}
	for i := skip + int64(n); i < int64(len(dst)); i++ {
		dst[i] = fill
	}
	return nil
}

// WriteEntry writes the record at index to a flat array file, shifted
// by the byte offset. The portion falling before the start of the
// file is discarded.
func WriteEntry(f *os.File, src []byte, entrySize int, index int32, offset int64) error {
	pos := int64(index)*int64(entrySize) + offset

	skip := int64(0)
	if pos < 0 {
		skip = -pos
		if skip >= int64(len(src)) {
			return nil
		}
		pos = 0
	}

	_, err := f.WriteAt(src[skip:], pos)
	return err
}
