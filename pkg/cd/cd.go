/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package cd implements the low-level CD-ROM binary formats shared by the
// dumper, the TOC model and the PlayStation analyzer: the signed LBA
// coordinate space, sector and sample size constants, the ECMA-130
// scrambler, and the subchannel codec.
package cd

// Sector and sample size constants
const (
	// CD_DATA_SIZE is the size of the main channel of one sector
	CD_DATA_SIZE = 2352
	// CD_C2_SIZE is the size of the C2 error pointer block, one bit per
	// main channel byte
	CD_C2_SIZE = 294
	// CD_SUBCODE_SIZE is the size of the raw interleaved subchannel block
	CD_SUBCODE_SIZE = 96
	// CD_RAW_DATA_SIZE is the size of a full raw frame, main channel
	// followed by C2 followed by subchannel
	CD_RAW_DATA_SIZE = CD_DATA_SIZE + CD_C2_SIZE + CD_SUBCODE_SIZE
	// CD_SAMPLE_SIZE is the size of one stereo audio sample
	CD_SAMPLE_SIZE = 4
	// CD_DATA_SIZE_SAMPLES is the number of samples in one sector
	CD_DATA_SIZE_SAMPLES = CD_DATA_SIZE / CD_SAMPLE_SIZE
	// CD_SUBCHANNELS_COUNT is the number of subchannels P..W
	CD_SUBCHANNELS_COUNT = 8
	// CD_SUBCHANNEL_SIZE is the size of one deinterleaved subchannel
	CD_SUBCHANNEL_SIZE = CD_SUBCODE_SIZE / CD_SUBCHANNELS_COUNT
)

// Disc coordinate constants
const (
	// MSF_LBA_SHIFT is the offset between MSF 00:00:00 and LBA 0
	MSF_LBA_SHIFT = 150
	// MSF_MINUTES_WRAP is where the 100 minute MSF counter wraps, in frames
	MSF_MINUTES_WRAP = 100 * 60 * 75
	// LBA_START is the first addressable sector of the disc coordinate
	// space, 90:00:00 on the wrapped MSF scale
	LBA_START = -45150
	// MSF_LIMIT_LBA is the address one past the last MSF coordinate
	// 99:59:74, the exclusive upper bound of the MSF scale
	MSF_LIMIT_LBA = MSF_MINUTES_WRAP - MSF_LBA_SHIFT
)

// CD_DATA_SYNC is the 12 byte synchronization pattern opening every data
// sector
var CD_DATA_SYNC = [12]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}
