/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package toc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticaldump/discdump/pkg/cd"
)

type shortTrack struct {
	number  byte
	control byte
	lba     uint32
}

func buildShortTOC(tracks []shortTrack, leadout uint32) []byte {
	raw := make([]byte, 4)
	raw[2] = tracks[0].number
	raw[3] = tracks[len(tracks)-1].number
	for _, t := range tracks {
		desc := make([]byte, 8)
		desc[1] = 1<<4 | t.control
		desc[2] = t.number
		binary.BigEndian.PutUint32(desc[4:8], t.lba)
		raw = append(raw, desc...)
	}
	desc := make([]byte, 8)
	desc[1] = 1 << 4
	desc[2] = 0xAA
	binary.BigEndian.PutUint32(desc[4:8], leadout)
	raw = append(raw, desc...)
	binary.BigEndian.PutUint16(raw[0:2], uint16(len(raw)-2))
	return raw
}

type fullDescriptor struct {
	session byte
	control byte
	point   byte
	plba    int32
}

func buildFullTOC(descriptors []fullDescriptor) []byte {
	raw := make([]byte, 4)
	raw[2] = descriptors[0].session
	raw[3] = descriptors[len(descriptors)-1].session
	for _, d := range descriptors {
		desc := make([]byte, 11)
		desc[0] = d.session
		desc[1] = 1<<4 | d.control
		desc[3] = d.point
		msf := cd.LBAToMSF(d.plba)
		desc[8], desc[9], desc[10] = msf.M, msf.S, msf.F
		raw = append(raw, desc...)
	}
	binary.BigEndian.PutUint16(raw[0:2], uint16(len(raw)-2))
	return raw
}

func TestParseTOC(t *testing.T) {
	raw := buildShortTOC([]shortTrack{
		{number: 1, control: CONTROL_DATA, lba: 0},
		{number: 2, control: 0, lba: 15000},
	}, 20000)

	toc, err := ParseTOC(raw)
	require.NoError(t, err)
	require.Len(t, toc.Sessions, 1)
	require.Len(t, toc.Sessions[0].Tracks, 2)

	first := toc.Sessions[0].Tracks[0]
	assert.Equal(t, byte(1), first.Number)
	assert.True(t, first.IsData())
	assert.Equal(t, int32(0), first.LBAStart)
	assert.Equal(t, int32(15000), first.LBAEnd)
	assert.Equal(t, []int32{0}, first.Indices)

	last := toc.Sessions[0].Tracks[1]
	assert.False(t, last.IsData())
	assert.Equal(t, int32(20000), last.LBAEnd)
	assert.False(t, toc.Fake())
}

func TestParseTOCErrors(t *testing.T) {
	_, err := ParseTOC(nil)
	assert.Error(t, err)

	_, err = ParseTOC([]byte{0, 2, 1, 1})
	assert.Error(t, err)
}

func TestParseFullTOCMultisession(t *testing.T) {
	raw := buildFullTOC([]fullDescriptor{
		{session: 1, point: POINT_FIRST_TRACK, plba: cd.MSFToLBA(cd.MSF{M: 1})},
		{session: 1, point: POINT_LAST_TRACK},
		{session: 1, point: POINT_LEADOUT, plba: 4650},
		{session: 1, control: CONTROL_DATA, point: 1, plba: 0},
		{session: 2, point: POINT_LEADOUT, plba: 20000},
		{session: 2, control: 0, point: 2, plba: 16000},
	})

	toc, err := ParseFullTOC(raw)
	require.NoError(t, err)
	require.Len(t, toc.Sessions, 2)

	require.Len(t, toc.Sessions[0].Tracks, 1)
	assert.Equal(t, int32(0), toc.Sessions[0].Tracks[0].LBAStart)
	assert.Equal(t, int32(4650), toc.Sessions[0].Tracks[0].LBAEnd)

	require.Len(t, toc.Sessions[1].Tracks, 1)
	assert.Equal(t, byte(2), toc.Sessions[1].Tracks[0].Number)
	assert.Equal(t, int32(16000), toc.Sessions[1].Tracks[0].LBAStart)
	assert.Equal(t, int32(20000), toc.Sessions[1].Tracks[0].LBAEnd)
}

func TestChoose(t *testing.T) {
	short, err := ParseTOC(buildShortTOC([]shortTrack{
		{number: 1, control: CONTROL_DATA, lba: 0},
		{number: 2, control: 0, lba: 16000},
	}, 20000))
	require.NoError(t, err)

	t.Run("multisession adopts full TOC", func(t *testing.T) {
		full, err := ParseFullTOC(buildFullTOC([]fullDescriptor{
			{session: 1, point: POINT_LEADOUT, plba: 4650},
			{session: 1, control: CONTROL_DATA, point: 1, plba: 150},
			{session: 2, point: POINT_LEADOUT, plba: 20000},
			{session: 2, control: 0, point: 2, plba: 16150},
		}))
		require.NoError(t, err)

		chosen := Choose(short, full)
		require.Len(t, chosen.Sessions, 2)
		// index data comes from the short TOC
		assert.Equal(t, int32(0), chosen.Sessions[0].Tracks[0].LBAStart)
		assert.Equal(t, int32(16000), chosen.Sessions[1].Tracks[0].LBAStart)
	})

	t.Run("single session keeps short TOC", func(t *testing.T) {
		full, err := ParseFullTOC(buildFullTOC([]fullDescriptor{
			{session: 1, point: POINT_LEADOUT, plba: 20000},
			{session: 1, control: CONTROL_DATA, point: 1, plba: 0},
		}))
		require.NoError(t, err)

		chosen := Choose(short, full)
		assert.Same(t, short, chosen)
	})

	t.Run("nil full TOC", func(t *testing.T) {
		assert.Same(t, short, Choose(short, nil))
	})
}

func TestFake(t *testing.T) {
	toc, err := ParseTOC(buildShortTOC([]shortTrack{
		{number: 1, control: CONTROL_DATA, lba: 0},
	}, 0))
	require.NoError(t, err)
	assert.True(t, toc.Fake())
}

func TestFirstDataTrack(t *testing.T) {
	toc, err := ParseTOC(buildShortTOC([]shortTrack{
		{number: 1, control: 0, lba: 0},
		{number: 2, control: CONTROL_DATA, lba: 5000},
		{number: 3, control: 0, lba: 9000},
	}, 20000))
	require.NoError(t, err)

	track := toc.FirstDataTrack()
	require.NotNil(t, track)
	assert.Equal(t, byte(2), track.Number)

	toc.Sessions[0].Tracks[1].Control = 0
	assert.Nil(t, toc.FirstDataTrack())
}

func TestTrackString(t *testing.T) {
	track := Track{Number: 1, Control: CONTROL_DATA, ADR: 1, Indices: []int32{0}, LBAStart: 0, LBAEnd: 100}
	assert.Contains(t, track.String(), "data")
	assert.Contains(t, track.String(), "lba: [0 .. 100)")
}
