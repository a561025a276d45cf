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

func TestSectorOrderLayout(t *testing.T) {
	tests := []struct {
		order  SectorOrder
		layout Layout
	}{
		{DATA_C2_SUB, Layout{DataOffset: 0, C2Offset: cd.CD_DATA_SIZE, SubcodeOffset: cd.CD_DATA_SIZE + cd.CD_C2_SIZE, Size: cd.CD_RAW_DATA_SIZE}},
		{DATA_SUB_C2, Layout{DataOffset: 0, C2Offset: cd.CD_DATA_SIZE + cd.CD_SUBCODE_SIZE, SubcodeOffset: cd.CD_DATA_SIZE, Size: cd.CD_RAW_DATA_SIZE}},
		{DATA_SUB, Layout{DataOffset: 0, C2Offset: cd.CD_RAW_DATA_SIZE, SubcodeOffset: cd.CD_DATA_SIZE, Size: cd.CD_DATA_SIZE + cd.CD_SUBCODE_SIZE}},
		{DATA_C2, Layout{DataOffset: 0, C2Offset: cd.CD_DATA_SIZE, SubcodeOffset: cd.CD_RAW_DATA_SIZE, Size: cd.CD_DATA_SIZE + cd.CD_C2_SIZE}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			assert.Equal(t, tt.layout, SectorOrderLayout(tt.order))
		})
	}
}

func TestGetConfigKnownDrive(t *testing.T) {
	config := GetConfig(InquiryData{Vendor: "PLEXTOR", Product: "DVDR PX-760A", Revision: "1.07"})
	assert.Equal(t, PLEXTOR, config.Type)
	assert.Equal(t, D8, config.ReadMethod)
	assert.Equal(t, DATA_C2_SUB, config.SectorOrder)
	assert.Equal(t, int32(30), config.ReadOffset)
	assert.Equal(t, int32(295), config.C2Shift)
	assert.Equal(t, int32(-75), config.PregapStart)
	assert.Equal(t, "1.07", config.Revision)
}

func TestGetConfigUnknownDrive(t *testing.T) {
	config := GetConfig(InquiryData{Vendor: "ACME", Product: "BURNER 9000"})
	assert.Equal(t, GENERIC, config.Type)
	assert.Equal(t, BE, config.ReadMethod)
	assert.Equal(t, int32(0), config.ReadOffset)
	assert.Equal(t, int32(-150), config.PregapStart)
	assert.Equal(t, "ACME", config.Vendor)
}

func TestOverridesApply(t *testing.T) {
	config := GetConfig(InquiryData{Vendor: "ACME", Product: "BURNER 9000"})

	driveType := PLEXTOR
	readOffset := int32(594)
	readMethod := D8
	Overrides{
		Type:       &driveType,
		ReadOffset: &readOffset,
		ReadMethod: &readMethod,
	}.Apply(&config)

	assert.Equal(t, PLEXTOR, config.Type)
	assert.Equal(t, int32(594), config.ReadOffset)
	assert.Equal(t, D8, config.ReadMethod)
	// untouched fields keep the detected values
	assert.Equal(t, DATA_C2_SUB, config.SectorOrder)
	assert.Equal(t, int32(-150), config.PregapStart)
}

func TestIsASUS(t *testing.T) {
	for _, driveType := range []Type{LG_ASU8, LG_ASU8A, LG_ASU8B, LG_ASU3} {
		assert.True(t, Config{Type: driveType}.IsASUS(), driveType.String())
	}
	assert.False(t, Config{Type: PLEXTOR}.IsASUS())
	assert.False(t, Config{Type: GENERIC}.IsASUS())
}

func TestParseSpellings(t *testing.T) {
	driveType, err := ParseType("lg_asu8a")
	require.NoError(t, err)
	assert.Equal(t, LG_ASU8A, driveType)
	_, err = ParseType("TEAC")
	assert.Error(t, err)

	method, err := ParseReadMethod("be_cdda")
	require.NoError(t, err)
	assert.Equal(t, BE_CDDA, method)
	_, err = ParseReadMethod("D9")
	assert.Error(t, err)

	order, err := ParseSectorOrder("data_sub")
	require.NoError(t, err)
	assert.Equal(t, DATA_SUB, order)
	_, err = ParseSectorOrder("sub_data")
	assert.Error(t, err)
}
