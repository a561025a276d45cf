/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package dumper implements the dump/refine engine: the sector by
// sector read loop interleaving main channel data, C2 error pointers
// and subchannel Q, the per sample state file, the vendor lead-in and
// lead-out capture strategies, and the monotonic refine merge.
package dumper

import (
	"math/bits"

	"github.com/opticaldump/discdump/pkg/cd"
)

// State records the provenance and quality of one audio sample.
// Ordering is meaningful: a refine pass only ever replaces a sample
// with a strictly greater state.
type State byte

const (
	// ERROR_SKIP marks a sample never read or lost to a SCSI error
	ERROR_SKIP State = iota
	// ERROR_C2 marks a sample the drive flagged as uncorrectable
	ERROR_C2
	// SUCCESS_C2_OFF marks a sample read without C2 coverage
	SUCCESS_C2_OFF
	// SUCCESS_SCSI_OFF marks a sample recovered outside the regular
	// SCSI path, from the drive cache
	SUCCESS_SCSI_OFF
	// SUCCESS marks a sample read cleanly with C2 coverage
	SUCCESS
)

// StateFromC2 folds a C2 error pointer block into per sample states
// and returns the number of error bits set. Four consecutive C2 bits
// group into one sample so the state aligns to the drive offset and
// covers the case where one C2 bit spans two damaged bytes.
func StateFromC2(state []State, c2 []byte) uint32 {
	var c2Count uint32
	for i := 0; i < cd.CD_DATA_SIZE_SAMPLES; i++ {
		quad := c2[i/2]
		if i%2 != 0 {
			quad &= 0x0F
		} else {
			quad >>= 4
		}
		if quad != 0 {
			state[i] = ERROR_C2
			c2Count += uint32(bits.OnesCount8(quad))
		}
	}
	return c2Count
}

func fillState(state []State, value State) {
	for i := range state {
		state[i] = value
	}
}

func stateBytes(state []State) []byte {
	buf := make([]byte, len(state))
	for i, s := range state {
		buf[i] = byte(s)
	}
	return buf
}

func statesFromBytes(buf []byte, state []State) {
	for i := range state {
		state[i] = State(buf[i])
	}
}
