/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package toc models the disc table of contents. It parses the raw READ
// TOC and READ FULL TOC responses into sessions and tracks and applies
// the adoption policy for multisession discs.
package toc

import (
	"fmt"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
)

// Control bits of the Q control nibble
const (
	CONTROL_AUDIO_PREEMPHASIS = 0x01
	CONTROL_DIGITAL_COPY      = 0x02
	CONTROL_DATA              = 0x04
	CONTROL_FOUR_CHANNEL      = 0x08
)

// FULL TOC lead-in points
const (
	POINT_FIRST_TRACK = 0xA0
	POINT_LAST_TRACK  = 0xA1
	POINT_LEADOUT     = 0xA2
)

// Track is one track of a session. Indices holds the index start
// addresses beginning with index 1; the pregap extends from LBAStart up
// to Indices[0].
type Track struct {
	Number  byte
	Control byte
	ADR     byte
	Indices []int32
	// LBAStart and LBAEnd bound the track as a half open interval
	LBAStart int32
	LBAEnd   int32
}

// IsData reports whether the track carries data rather than audio
func (t Track) IsData() bool {
	return t.Control&CONTROL_DATA != 0
}

// String renders a one line track summary for the dump log
func (t Track) String() string {
	kind := "audio"
	if t.IsData() {
		kind = "data"
	}
	return fmt.Sprintf("track %2d { %s, control: %X, ADR: %d, indices: %v, lba: [%d .. %d) }",
		t.Number, kind, t.Control, t.ADR, t.Indices, t.LBAStart, t.LBAEnd)
}

// Session is an ordered list of tracks
type Session struct {
	Number int
	Tracks []Track
}

// TOC is an ordered list of sessions plus the disc type reported by the
// FULL TOC lead-in
type TOC struct {
	Sessions []Session
	DiscType byte
}

// ParseTOC parses a raw READ TOC response in LBA format into a single
// session table of contents. The 0xAA lead-out descriptor closes the
// last track.
func ParseTOC(raw []byte) (*TOC, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("TOC response too short (%d bytes)", len(raw))
	}
	dataLen, err := common.ReadUint16BE(raw, 0)
	if err != nil {
		return nil, err
	}
	end := int(dataLen) + 2
	if end > len(raw) {
		end = len(raw)
	}

	session := Session{Number: 1}
	for offset := 4; offset+8 <= end; offset += 8 {
		adr := raw[offset+1] >> 4
		control := raw[offset+1] & 0x0F
		number := raw[offset+2]
		lba, err := common.ReadUint32BE(raw, offset+4)
		if err != nil {
			return nil, err
		}

		if number == 0xAA {
			if len(session.Tracks) > 0 {
				session.Tracks[len(session.Tracks)-1].LBAEnd = int32(lba)
			}
			break
		}

		if len(session.Tracks) > 0 {
			session.Tracks[len(session.Tracks)-1].LBAEnd = int32(lba)
		}
		session.Tracks = append(session.Tracks, Track{
			Number:   number,
			Control:  control,
			ADR:      adr,
			Indices:  []int32{int32(lba)},
			LBAStart: int32(lba),
		})
	}

	if len(session.Tracks) == 0 {
		return nil, fmt.Errorf("TOC response contains no tracks")
	}

	return &TOC{Sessions: []Session{session}}, nil
}

// ParseFullTOC parses a raw READ FULL TOC response, 11 byte session
// descriptors with lead-in points 0xA0/0xA1/0xA2 and one descriptor per
// track. Track addresses arrive as MSF coordinates.
func ParseFullTOC(raw []byte) (*TOC, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("FULL TOC response too short (%d bytes)", len(raw))
	}
	dataLen, err := common.ReadUint16BE(raw, 0)
	if err != nil {
		return nil, err
	}
	end := int(dataLen) + 2
	if end > len(raw) {
		end = len(raw)
	}

	toc := &TOC{}
	leadout := map[int]int32{}
	bySession := map[int]*Session{}
	var order []int

	sessionAt := func(number int) *Session {
		s, ok := bySession[number]
		if !ok {
			toc.Sessions = append(toc.Sessions, Session{Number: number})
			s = &toc.Sessions[len(toc.Sessions)-1]
			bySession[number] = s
			order = append(order, number)
		}
		return s
	}

	for offset := 4; offset+11 <= end; offset += 11 {
		number := int(raw[offset])
		adr := raw[offset+1] >> 4
		control := raw[offset+1] & 0x0F
		point := raw[offset+3]
		pmsf := cd.MSF{M: raw[offset+8], S: raw[offset+9], F: raw[offset+10]}

		switch {
		case point == POINT_FIRST_TRACK:
			toc.DiscType = raw[offset+9]
		case point == POINT_LAST_TRACK:
			// track count is derivable from the track descriptors
		case point == POINT_LEADOUT:
			leadout[number] = cd.MSFToLBA(pmsf)
		case point >= 1 && point <= 99:
			s := sessionAt(number)
			lba := cd.MSFToLBA(pmsf)
			if n := len(s.Tracks); n > 0 {
				s.Tracks[n-1].LBAEnd = lba
			}
			s.Tracks = append(s.Tracks, Track{
				Number:   point,
				Control:  control,
				ADR:      adr,
				Indices:  []int32{lba},
				LBAStart: lba,
			})
		}
	}

	for _, number := range order {
		s := bySession[number]
		if n := len(s.Tracks); n > 0 {
			if lba, ok := leadout[number]; ok {
				s.Tracks[n-1].LBAEnd = lba
			}
		}
	}

	if len(toc.Sessions) == 0 {
		return nil, fmt.Errorf("FULL TOC response contains no tracks")
	}

	return toc, nil
}

// DeriveIndex copies per track index addresses from the short TOC.
// Some drives return broken index data in the FULL TOC response while
// the short TOC is correct.
func (t *TOC) DeriveIndex(short *TOC) {
	for si := range t.Sessions {
		for ti := range t.Sessions[si].Tracks {
			track := &t.Sessions[si].Tracks[ti]
			for _, ss := range short.Sessions {
				for _, st := range ss.Tracks {
					if st.Number == track.Number {
						track.Indices = append([]int32(nil), st.Indices...)
						track.LBAStart = st.LBAStart
					}
				}
			}
		}
	}
}

// Choose applies the TOC adoption policy. Multisession discs use the
// FULL TOC with index data derived from the short TOC; single session
// discs keep the short TOC and only inherit the disc type.
func Choose(short, full *TOC) *TOC {
	if full == nil {
		return short
	}
	full.DeriveIndex(short)
	if len(full.Sessions) > 1 {
		return full
	}
	short.DiscType = full.DiscType
	return short
}

// Fake reports whether the disc returned a fake TOC where the last
// track ends at a non-positive address. The dumper falls back to a
// default 74 minute disc size.
func (t *TOC) Fake() bool {
	last := t.LastTrack()
	return last == nil || last.LBAEnd <= 0
}

// LastTrack returns the last track of the last session, or nil
func (t *TOC) LastTrack() *Track {
	if len(t.Sessions) == 0 {
		return nil
	}
	s := &t.Sessions[len(t.Sessions)-1]
	if len(s.Tracks) == 0 {
		return nil
	}
	return &s.Tracks[len(s.Tracks)-1]
}

// FirstDataTrack returns the first data track of the disc, or nil
func (t *TOC) FirstDataTrack() *Track {
	for si := range t.Sessions {
		for ti := range t.Sessions[si].Tracks {
			if t.Sessions[si].Tracks[ti].IsData() {
				return &t.Sessions[si].Tracks[ti]
			}
		}
	}
	return nil
}

// Print logs the session and track layout
func (t *TOC) Print() {
	for _, s := range t.Sessions {
		common.LogInfo("session %d:", s.Number)
		for _, track := range s.Tracks {
			common.LogInfo("  %s", track.String())
		}
	}
}
