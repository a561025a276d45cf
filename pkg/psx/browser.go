/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package psx analyzes the first data track of a dumped PlayStation
// disc: boot executable, serial, region, EDC mastering, anti-modchip
// payloads and LibCrypt subchannel protection.
package psx

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/dumper"
)

// ISO9660 layout facts the browser relies on
const (
	systemAreaSize  = 16
	volumeDescSize  = 2048
	rootRecordStart = 156
	dirRecordMin    = 33
)

// Browser walks the ISO9660 filesystem of a data track inside a dump
// image. Sectors come from the main channel stream and are descrambled
// on the fly when the stream holds scrambled data.
type Browser struct {
	file      *os.File
	scrambler *cd.Scrambler
	scrambled bool

	trackStart int32
	trackEnd   int32

	root *Entry
}

// Entry is one file or directory of the ISO9660 tree
type Entry struct {
	browser *Browser

	Name       string
	LBA        int32
	Size       uint32
	Flags      byte
	Interleave uint16
	Date       time.Time
}

// NewBrowser opens the main channel stream of a dump image and parses
// the ISO9660 descriptor of the data track bounded by [trackStart,
// trackEnd). The scrambled flag marks a stream that still carries the
// ECMA-130 scrambling.
func NewBrowser(path string, scrambled bool, trackStart, trackEnd int32) (*Browser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	b := &Browser{
		file:       f,
		scrambler:  cd.NewScrambler(),
		scrambled:  scrambled,
		trackStart: trackStart,
		trackEnd:   trackEnd,
	}

	root, err := b.readRootDirectory()
	if err != nil {
		f.Close()
		return nil, err
	}
	b.root = root

	return b, nil
}

// Close releases the underlying stream
func (b *Browser) Close() error {
	return b.file.Close()
}

// RootDirectory returns the root of the ISO9660 tree
func (b *Browser) RootDirectory() *Entry {
	return b.root
}

// readSector loads the main channel block at lba and returns it as a
// sector view
func (b *Browser) readSector(lba int32) (cd.Sector, error) {
	buf := make([]byte, cd.CD_DATA_SIZE)
	if err := dumper.ReadEntry(b.file, buf, cd.CD_DATA_SIZE, lba-cd.LBA_START, 0, 0); err != nil {
		return nil, err
	}
	if b.scrambled {
		b.scrambler.Descramble(buf, &lba)
	}
	return cd.Sector(buf), nil
}

func (b *Browser) readRootDirectory() (*Entry, error) {
	sector, err := b.readSector(b.trackStart + systemAreaSize)
	if err != nil {
		return nil, err
	}
	data := sector.UserData()

	if data[0] != 0x01 || string(data[1:6]) != "CD001" {
		return nil, fmt.Errorf("no ISO9660 volume descriptor in data track")
	}

	root := parseDirRecord(data[rootRecordStart:rootRecordStart+34], b)
	if root == nil {
		return nil, fmt.Errorf("malformed root directory record")
	}
	root.Name = ""
	return root, nil
}

// parseDirRecord decodes one ISO9660 directory record, nil when the
// record is truncated
func parseDirRecord(data []byte, b *Browser) *Entry {
	if len(data) < dirRecordMin {
		return nil
	}
	length := int(data[0])
	if length < dirRecordMin || length > len(data) {
		return nil
	}

	nameLen := int(data[32])
	if dirRecordMin+nameLen > length {
		return nil
	}
	name := cleanIdentifier(string(data[33 : 33+nameLen]))

	return &Entry{
		browser:    b,
		Name:       name,
		LBA:        int32(uint32(data[2]) | uint32(data[3])<<8 | uint32(data[4])<<16 | uint32(data[5])<<24),
		Size:       uint32(data[10]) | uint32(data[11])<<8 | uint32(data[12])<<16 | uint32(data[13])<<24,
		Flags:      data[25],
		Interleave: uint16(data[26]) | uint16(data[27])<<8,
		Date:       parseRecordDate(data[18:25]),
	}
}

func parseRecordDate(d []byte) time.Time {
	return time.Date(1900+int(d[0]), time.Month(d[1]), int(d[2]), int(d[3]), int(d[4]), int(d[5]), 0, time.UTC)
}

// cleanIdentifier strips the ISO9660 version suffix and maps the
// special directory bytes
func cleanIdentifier(name string) string {
	if idx := strings.Index(name, ";"); idx != -1 {
		name = name[:idx]
	}
	switch name {
	case "\x00":
		return "."
	case "\x01":
		return ".."
	}
	return name
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Flags&0x02 != 0
}

// IsInterleaved reports whether the entry uses interleaved storage
func (e *Entry) IsInterleaved() bool {
	return e.Interleave != 0
}

// IsDummy reports whether the entry is a streaming XA file rather than
// plain data. The first sector decides, a real-time audio/video stream
// carries no scannable content.
func (e *Entry) IsDummy() bool {
	sector, err := e.browser.readSector(e.LBA)
	if err != nil {
		return true
	}
	if sector.Mode() != 2 {
		return false
	}
	return sector.Submode()&cd.XA_SUBMODE_AV != 0
}

// Read returns the file content, user data concatenated across the
// entry's sectors
func (e *Entry) Read() ([]byte, error) {
	content := make([]byte, 0, e.Size)
	remaining := int(e.Size)
	for lba := e.LBA; remaining > 0; lba++ {
		sector, err := e.browser.readSector(lba)
		if err != nil {
			return nil, err
		}
		data := sector.UserData()
		if len(data) > remaining {
			data = data[:remaining]
		}
		content = append(content, data...)
		remaining -= len(data)
	}
	return content, nil
}

// children parses the directory content into entries, skipping the
// dot records
func (e *Entry) children() ([]*Entry, error) {
	if !e.IsDir() {
		return nil, nil
	}

	var entries []*Entry
	sectorsCount := int32((e.Size + volumeDescSize - 1) / volumeDescSize)
	seen := 0
	for s := int32(0); s < sectorsCount; s++ {
		sector, err := e.browser.readSector(e.LBA + s)
		if err != nil {
			return nil, err
		}
		data := sector.UserData()

		for offset := 0; offset < len(data); {
			if data[offset] == 0 {
				break
			}
			entry := parseDirRecord(data[offset:], e.browser)
			if entry == nil {
				break
			}
			offset += int(data[offset])

			seen++
			if seen <= 2 || entry.Name == "." || entry.Name == ".." {
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// SubEntry resolves a slash or backslash separated path relative to
// the entry, nil when any component is missing
func (e *Entry) SubEntry(path string) *Entry {
	components := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	current := e
	for _, component := range components {
		entries, err := current.children()
		if err != nil {
			return nil
		}
		var next *Entry
		for _, entry := range entries {
			if strings.EqualFold(entry.Name, component) {
				next = entry
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	if current == e {
		return nil
	}
	return current
}

// Iterate walks the tree depth first and calls visit for every file
// entry. Returning true from visit stops the walk.
func (b *Browser) Iterate(visit func(path string, e *Entry) bool) error {
	_, err := b.iterate(b.root, "", visit)
	return err
}

func (b *Browser) iterate(dir *Entry, path string, visit func(path string, e *Entry) bool) (bool, error) {
	entries, err := dir.children()
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			sub := entry.Name
			if path != "" {
				sub = path + "/" + entry.Name
			}
			stop, err := b.iterate(entry, sub, visit)
			if err != nil || stop {
				return stop, err
			}
			continue
		}
		if visit(path, entry) {
			return true, nil
		}
	}
	return false, nil
}
