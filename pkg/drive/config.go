/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package drive abstracts the optical drive: per vendor read method,
// raw sector layout, read offset and C2 shift, plus the SCSI command
// set and the pass-through transport used to issue them.
package drive

import (
	"fmt"
	"strings"

	"github.com/opticaldump/discdump/pkg/cd"
)

// Type tags the vendor quirk family of a drive
type Type int

const (
	GENERIC Type = iota
	PLEXTOR
	LG_ASU8
	LG_ASU8A
	LG_ASU8B
	LG_ASU3
)

// String returns the option spelling of the type tag
func (t Type) String() string {
	switch t {
	case PLEXTOR:
		return "PLEXTOR"
	case LG_ASU8:
		return "LG_ASU8"
	case LG_ASU8A:
		return "LG_ASU8A"
	case LG_ASU8B:
		return "LG_ASU8B"
	case LG_ASU3:
		return "LG_ASU3"
	default:
		return "GENERIC"
	}
}

// ParseType parses an option spelling of a type tag
func ParseType(s string) (Type, error) {
	for _, t := range []Type{GENERIC, PLEXTOR, LG_ASU8, LG_ASU8A, LG_ASU8B, LG_ASU3} {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return GENERIC, fmt.Errorf("unknown drive type %q", s)
}

// ReadMethod selects the raw read command family
type ReadMethod int

const (
	// BE is the standard READ CD command
	BE ReadMethod = iota
	// BE_CDDA is READ CD with the expected sector type forced to CD-DA
	BE_CDDA
	// D8 is the Plextor vendor READ CD-DA command
	D8
)

// String returns the option spelling of the read method
func (m ReadMethod) String() string {
	switch m {
	case BE_CDDA:
		return "BE_CDDA"
	case D8:
		return "D8"
	default:
		return "BE"
	}
}

// ParseReadMethod parses an option spelling of a read method
func ParseReadMethod(s string) (ReadMethod, error) {
	for _, m := range []ReadMethod{BE, BE_CDDA, D8} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return BE, fmt.Errorf("unknown read method %q", s)
}

// SectorOrder describes which blocks a raw read returns and in what
// order
type SectorOrder int

const (
	DATA_C2_SUB SectorOrder = iota
	DATA_SUB_C2
	DATA_SUB
	DATA_C2
)

// String returns the option spelling of the sector order
func (o SectorOrder) String() string {
	switch o {
	case DATA_SUB_C2:
		return "DATA_SUB_C2"
	case DATA_SUB:
		return "DATA_SUB"
	case DATA_C2:
		return "DATA_C2"
	default:
		return "DATA_C2_SUB"
	}
}

// ParseSectorOrder parses an option spelling of a sector order
func ParseSectorOrder(s string) (SectorOrder, error) {
	for _, o := range []SectorOrder{DATA_C2_SUB, DATA_SUB_C2, DATA_SUB, DATA_C2} {
		if strings.EqualFold(s, o.String()) {
			return o, nil
		}
	}
	return DATA_C2_SUB, fmt.Errorf("unknown sector order %q", s)
}

// Layout locates the blocks inside one raw read response. An offset
// equal to cd.CD_RAW_DATA_SIZE marks the block as not present.
type Layout struct {
	DataOffset    int
	C2Offset      int
	SubcodeOffset int
	Size          int
}

// SectorOrderLayout returns the block layout of a raw read for the
// given sector order
func SectorOrderLayout(order SectorOrder) Layout {
	switch order {
	case DATA_SUB_C2:
		return Layout{
			DataOffset:    0,
			SubcodeOffset: cd.CD_DATA_SIZE,
			C2Offset:      cd.CD_DATA_SIZE + cd.CD_SUBCODE_SIZE,
			Size:          cd.CD_RAW_DATA_SIZE,
		}
	case DATA_SUB:
		return Layout{
			DataOffset:    0,
			C2Offset:      cd.CD_RAW_DATA_SIZE,
			SubcodeOffset: cd.CD_DATA_SIZE,
			Size:          cd.CD_DATA_SIZE + cd.CD_SUBCODE_SIZE,
		}
	case DATA_C2:
		return Layout{
			DataOffset:    0,
			C2Offset:      cd.CD_DATA_SIZE,
			SubcodeOffset: cd.CD_RAW_DATA_SIZE,
			Size:          cd.CD_DATA_SIZE + cd.CD_C2_SIZE,
		}
	default:
		return Layout{
			DataOffset:    0,
			C2Offset:      cd.CD_DATA_SIZE,
			SubcodeOffset: cd.CD_DATA_SIZE + cd.CD_C2_SIZE,
			Size:          cd.CD_RAW_DATA_SIZE,
		}
	}
}

// Config is the working configuration of one drive, defaults from the
// vendor table overlaid with user overrides
type Config struct {
	Vendor      string
	Product     string
	Revision    string
	Type        Type
	ReadMethod  ReadMethod
	SectorOrder SectorOrder
	// ReadOffset is the drive read offset in samples
	ReadOffset int32
	// C2Shift is the number of bytes the C2 block lags the data block
	C2Shift int32
	// PregapStart is the first lead-in adjacent address the drive can
	// read, typically -150
	PregapStart int32
}

// IsASUS reports whether the drive belongs to the LG/ASUS cache family
func (c Config) IsASUS() bool {
	switch c.Type {
	case LG_ASU8, LG_ASU8A, LG_ASU8B, LG_ASU3:
		return true
	}
	return false
}

// InfoString renders the vendor identification for the dump log
func (c Config) InfoString() string {
	return fmt.Sprintf("%s - %s (revision: %s)", c.Vendor, c.Product, c.Revision)
}

// ConfigString renders the working configuration for the dump log
func (c Config) ConfigString() string {
	return fmt.Sprintf("type: %s, read method: %s, sector order: %s, read offset: %+d, C2 shift: %d, pre-gap start: %d",
		c.Type, c.ReadMethod, c.SectorOrder, c.ReadOffset, c.C2Shift, c.PregapStart)
}

// builtin vendor quirks, keyed by vendor and product identification
// strings as returned by INQUIRY
var knownDrives = []Config{
	{Vendor: "PLEXTOR", Product: "CD-R PX-W4824A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 98, C2Shift: 294, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "CD-R PX-W5224A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 294, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "CD-R PREMIUM", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 294, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "CD-R PREMIUM2", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 294, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-704A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-708A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-712A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-714A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-716A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-755A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "PLEXTOR", Product: "DVDR PX-760A", Type: PLEXTOR, ReadMethod: D8, SectorOrder: DATA_C2_SUB, ReadOffset: 30, C2Shift: 295, PregapStart: -75},
	{Vendor: "ASUS", Product: "BW-16D1HT", Type: LG_ASU8, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
	{Vendor: "ASUS", Product: "BW-16D1X-U", Type: LG_ASU8A, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
	{Vendor: "ASUS", Product: "BC-12D2HT", Type: LG_ASU8B, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
	{Vendor: "HL-DT-ST", Product: "BD-RE WH16NS40", Type: LG_ASU8, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
	{Vendor: "HL-DT-ST", Product: "BD-RE WH16NS60", Type: LG_ASU8, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
	{Vendor: "HL-DT-ST", Product: "DVDRAM GH24NSC0", Type: LG_ASU3, ReadMethod: BE_CDDA, SectorOrder: DATA_C2_SUB, ReadOffset: 6, C2Shift: 0, PregapStart: -135},
}

// defaultConfig is the conservative fallback for unrecognized drives
var defaultConfig = Config{
	Type:        GENERIC,
	ReadMethod:  BE,
	SectorOrder: DATA_C2_SUB,
	ReadOffset:  0,
	C2Shift:     0,
	PregapStart: -150,
}

// GetConfig looks up the quirks of an identified drive. Unknown drives
// get the generic defaults.
func GetConfig(inquiry InquiryData) Config {
	config := defaultConfig
	for _, known := range knownDrives {
		if known.Vendor == inquiry.Vendor && known.Product == inquiry.Product {
			config = known
			break
		}
	}
	config.Vendor = inquiry.Vendor
	config.Product = inquiry.Product
	config.Revision = inquiry.Revision
	return config
}

// Overrides carries user supplied configuration overrides; nil fields
// keep the detected value
type Overrides struct {
	Type        *Type
	ReadOffset  *int32
	C2Shift     *int32
	PregapStart *int32
	ReadMethod  *ReadMethod
	SectorOrder *SectorOrder
}

// Apply overlays the overrides onto a detected configuration
func (o Overrides) Apply(config *Config) {
	if o.Type != nil {
		config.Type = *o.Type
	}
	if o.ReadOffset != nil {
		config.ReadOffset = *o.ReadOffset
	}
	if o.C2Shift != nil {
		config.C2Shift = *o.C2Shift
	}
	if o.PregapStart != nil {
		config.PregapStart = *o.PregapStart
	}
	if o.ReadMethod != nil {
		config.ReadMethod = *o.ReadMethod
	}
	if o.SectorOrder != nil {
		config.SectorOrder = *o.SectorOrder
	}
}

// SupportedDrives returns the builtin vendor table for display
func SupportedDrives() []Config {
	return knownDrives
}
