/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticaldump/discdump/pkg/cd"
)

// scriptedTransport serves raw reads from a canned per-sector block
// generator
type scriptedTransport struct {
	fill func(dst []byte, lba int32, count uint32)

	lastReadCD   []interface{}
	lastReadCDDA []interface{}
}

func (s *scriptedTransport) Ready() Status                  { return Status{} }
func (s *scriptedTransport) SetSpeed(speed uint16) Status   { return Status{} }
func (s *scriptedTransport) Inquiry() (InquiryData, Status) { return InquiryData{}, Status{} }
func (s *scriptedTransport) ReadTOC() ([]byte, Status)      { return nil, RESERVED }
func (s *scriptedTransport) ReadFullTOC() ([]byte, Status)  { return nil, RESERVED }
func (s *scriptedTransport) ReadCDText() ([]byte, Status)   { return nil, RESERVED }
func (s *scriptedTransport) FlushCache(lba int32) Status    { return Status{} }
func (s *scriptedTransport) ReadLeadin(count uint32) ([]byte, Status) {
	return nil, RESERVED
}
func (s *scriptedTransport) CacheRead(driveType Type) ([]byte, Status) {
	return nil, RESERVED
}
func (s *scriptedTransport) Close() error { return nil }

func (s *scriptedTransport) ReadCD(dst []byte, lba int32, count uint32, sectorType ExpectedSectorType, errorField ErrorField, subChannel SubChannelMode) Status {
	s.lastReadCD = []interface{}{lba, count, sectorType, errorField, subChannel}
	s.fill(dst, lba, count)
	return Status{}
}

func (s *scriptedTransport) ReadCDDA(dst []byte, lba int32, count uint32, subCode ReadCDDASubCode) Status {
	s.lastReadCDDA = []interface{}{lba, count, subCode}
	s.fill(dst, lba, count)
	return Status{}
}

// fillRaw writes one recognizable raw DATA_C2_SUB block per sector:
// each block region carries the lba tag plus a region marker
func fillRaw(dst []byte, lba int32, count uint32) {
	for i := uint32(0); i < count; i++ {
		block := dst[cd.CD_RAW_DATA_SIZE*int(i):]
		tag := byte(lba + int32(i))
		for j := 0; j < cd.CD_DATA_SIZE; j++ {
			block[j] = tag
		}
		for j := cd.CD_DATA_SIZE; j < cd.CD_DATA_SIZE+cd.CD_C2_SIZE; j++ {
			block[j] = tag | 0x40
		}
		for j := cd.CD_DATA_SIZE + cd.CD_C2_SIZE; j < cd.CD_RAW_DATA_SIZE; j++ {
			block[j] = tag | 0x80
		}
	}
}

func TestReadSectorBE(t *testing.T) {
	transport := &scriptedTransport{fill: fillRaw}
	config := Config{ReadMethod: BE, SectorOrder: DATA_C2_SUB}

	sector := make([]byte, cd.CD_RAW_DATA_SIZE)
	status := ReadSector(sector, transport, config, 33)
	require.True(t, status.OK())

	require.NotNil(t, transport.lastReadCD)
	assert.Equal(t, int32(33), transport.lastReadCD[0])
	assert.Equal(t, uint32(1), transport.lastReadCD[1])
	assert.Equal(t, ERROR_FIELD_C2, transport.lastReadCD[3])
	assert.Equal(t, SUB_CHANNEL_RAW, transport.lastReadCD[4])

	assert.Equal(t, byte(33), sector[0])
	assert.Equal(t, byte(33), sector[cd.CD_DATA_SIZE-1])
	assert.Equal(t, byte(33|0x40), sector[cd.CD_DATA_SIZE])
	assert.Equal(t, byte(33|0x80), sector[cd.CD_DATA_SIZE+cd.CD_C2_SIZE])
}

func TestReadSectorC2Shift(t *testing.T) {
	transport := &scriptedTransport{fill: fillRaw}
	config := Config{ReadMethod: D8, SectorOrder: DATA_C2_SUB, C2Shift: cd.CD_C2_SIZE}

	sector := make([]byte, cd.CD_RAW_DATA_SIZE)
	status := ReadSector(sector, transport, config, 10)
	require.True(t, status.OK())

	// a full block shift needs one extra sector
	require.NotNil(t, transport.lastReadCDDA)
	assert.Equal(t, uint32(2), transport.lastReadCDDA[1])
	assert.Equal(t, READ_CDDA_DATA_C2_SUB, transport.lastReadCDDA[2])

	// data and subchannel come from the requested sector, the C2 run
	// from the following one
	assert.Equal(t, byte(10), sector[0])
	assert.Equal(t, byte(11|0x40), sector[cd.CD_DATA_SIZE])
	assert.Equal(t, byte(11|0x40), sector[cd.CD_DATA_SIZE+cd.CD_C2_SIZE-1])
	assert.Equal(t, byte(10|0x80), sector[cd.CD_DATA_SIZE+cd.CD_C2_SIZE])
}

func TestReadSectorNoC2(t *testing.T) {
	transport := &scriptedTransport{
		fill: func(dst []byte, lba int32, count uint32) {
			for i := range dst {
				dst[i] = 0x55
			}
		},
	}
	config := Config{ReadMethod: BE, SectorOrder: DATA_SUB}

	sector := make([]byte, cd.CD_RAW_DATA_SIZE)
	status := ReadSector(sector, transport, config, 0)
	require.True(t, status.OK())

	assert.Equal(t, ERROR_FIELD_NONE, transport.lastReadCD[3])
	assert.Equal(t, byte(0x55), sector[0])
	// the absent C2 block stays zeroed
	for i := cd.CD_DATA_SIZE; i < cd.CD_DATA_SIZE+cd.CD_C2_SIZE; i++ {
		require.Equal(t, byte(0), sector[i])
	}
	assert.Equal(t, byte(0x55), sector[cd.CD_DATA_SIZE+cd.CD_C2_SIZE])
}
