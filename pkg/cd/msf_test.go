/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package cd

import "testing"

func TestLBAToMSF(t *testing.T) {
	tests := []struct {
		name string
		lba  int32
		want MSF
	}{
		{"track one start", 0, MSF{0, 2, 0}},
		{"disc start", -150, MSF{0, 0, 0}},
		{"first addressable", LBA_START, MSF{90, 0, 0}},
		{"one second in", 75, MSF{0, 3, 0}},
		{"one minute in", 4350, MSF{1, 0, 0}},
		{"74 minute point", 332850, MSF{74, 0, 0}},
		{"just below zero", -151, MSF{99, 59, 74}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LBAToMSF(tt.lba); got != tt.want {
				t.Errorf("LBAToMSF(%d) = %v, want %v", tt.lba, got, tt.want)
			}
		})
	}
}

func TestMSFRoundTrip(t *testing.T) {
	for lba := int32(-MSF_LBA_SHIFT); lba < MSF_LIMIT_LBA; lba += 77 {
		if got := MSFToLBA(LBAToMSF(lba)); got != lba {
			t.Fatalf("round trip of %d yielded %d", lba, got)
		}
	}
	// exact boundaries
	for _, lba := range []int32{-150, 0, MSF_LIMIT_LBA - 1} {
		if got := MSFToLBA(LBAToMSF(lba)); got != lba {
			t.Errorf("round trip of %d yielded %d", lba, got)
		}
	}
}

func TestBCDMSF(t *testing.T) {
	tests := []struct {
		name string
		msf  MSF
		want int32
	}{
		{"track one start", MSF{0x00, 0x02, 0x00}, 0},
		{"disc start", MSF{0x00, 0x00, 0x00}, -150},
		{"ten minutes", MSF{0x10, 0x00, 0x00}, 44850},
		{"bcd digits", MSF{0x79, 0x59, 0x74}, 359849},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BCDMSFToLBA(tt.msf); got != tt.want {
				t.Errorf("BCDMSFToLBA(%v) = %d, want %d", tt.msf, got, tt.want)
			}
			if got := LBAToBCDMSF(tt.want); got != tt.msf {
				t.Errorf("LBAToBCDMSF(%d) = %v, want %v", tt.want, got, tt.msf)
			}
		})
	}
}

func TestBCDEncodeDecode(t *testing.T) {
	for v := byte(0); v < 100; v++ {
		if got := BCDDecode(BCDEncode(v)); got != v {
			t.Fatalf("BCD round trip of %d yielded %d", v, got)
		}
	}
}

func TestBCDMSFValid(t *testing.T) {
	tests := []struct {
		name string
		msf  MSF
		want bool
	}{
		{"zero", MSF{0x00, 0x00, 0x00}, true},
		{"typical", MSF{0x12, 0x34, 0x56}, true},
		{"hex digit in minutes", MSF{0x1A, 0x00, 0x00}, false},
		{"seconds overflow", MSF{0x00, 0x60, 0x00}, false},
		{"frames overflow", MSF{0x00, 0x00, 0x75}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BCDMSFValid(tt.msf); got != tt.want {
				t.Errorf("BCDMSFValid(%v) = %v, want %v", tt.msf, got, tt.want)
			}
		})
	}
}
