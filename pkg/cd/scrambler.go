/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package cd

import "bytes"

// Scrambler implements the ECMA-130 data scrambler, a stream cipher over
// the x^15+x+1 LFSR seeded with 0x0001. The keystream table leaves the 12
// sync bytes untouched so scrambling and descrambling preserve sync.
type Scrambler struct {
	table [CD_DATA_SIZE]byte
}

// NewScrambler generates the keystream table
func NewScrambler() *Scrambler {
	s := &Scrambler{}
	sr := uint16(0x0001)
	for i := len(CD_DATA_SYNC); i < CD_DATA_SIZE; i++ {
		s.table[i] = byte(sr)
		for b := 0; b < 8; b++ {
			carry := sr&1 ^ sr>>1&1
			sr = (carry<<15 | sr) >> 1
		}
	}
	return s
}

// Process XORs sector bytes with the keystream, dst and src may alias.
// Applying it twice restores the input.
func (s *Scrambler) Process(dst, src []byte) {
	for i := range src {
		dst[i] = src[i] ^ s.table[i]
	}
}

// Descramble descrambles sector in place if it looks scrambled and
// reports whether it did. A zeroed or too short sector is left untouched.
// After XORing, the sector is accepted as descrambled when the header
// address matches lba, or when sync matches and the mode byte admits the
// payload. On rejection the original bytes are restored.
func (s *Scrambler) Descramble(sector []byte, lba *int32) bool {
	if isZeroed(sector) {
		return false
	}
	if len(sector) < len(CD_DATA_SYNC)+4 {
		return false
	}
	s.Process(sector, sector)

	unscrambled := false
	if lba != nil && BCDMSFToLBA(headerMSF(sector)) == *lba {
		unscrambled = true
	} else if bytes.Equal(sector[:len(CD_DATA_SYNC)], CD_DATA_SYNC[:]) {
		switch sector[15] {
		case 0:
			unscrambled = isZeroed(sector[16:])
		case 1, 2:
			unscrambled = true
		}
	}

	if !unscrambled {
		s.Process(sector, sector)
	}
	return unscrambled
}

// DescrambleDIC is the strict descrambler kept for parity with legacy
// dumps. It requires a matching sync up front and never consults the
// header address. Mode 1 and mode 2 are accepted outright, mode 0 must
// carry zeroed data, and any other mode byte is accepted only when the
// intermediate bytes after the EDC field are zeroed.
func (s *Scrambler) DescrambleDIC(sector []byte, lba *int32) bool {
	if len(sector) < len(CD_DATA_SYNC)+4 {
		return false
	}
	if !bytes.Equal(sector[:len(CD_DATA_SYNC)], CD_DATA_SYNC[:]) {
		return false
	}
	s.Process(sector, sector)

	unscrambled := false
	switch sector[15] {
	case 0:
		unscrambled = isZeroed(sector[16:])
	case 1, 2:
		unscrambled = true
	default:
		unscrambled = isZeroed(sector[2068:2076])
	}

	if !unscrambled {
		s.Process(sector, sector)
	}
	return unscrambled
}

func headerMSF(sector []byte) MSF {
	return MSF{M: sector[12], S: sector[13], F: sector[14]}
}

func isZeroed(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
