/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package drive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drives.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProfilesNewDrive(t *testing.T) {
	path := writeProfile(t, `
drives:
  - vendor: TEAC
    product: CD-W552E
    type: GENERIC
    read_method: BE_CDDA
    sector_order: DATA_SUB
    read_offset: 686
`)
	require.NoError(t, LoadProfiles(path))

	config := GetConfig(InquiryData{Vendor: "TEAC", Product: "CD-W552E"})
	assert.Equal(t, GENERIC, config.Type)
	assert.Equal(t, BE_CDDA, config.ReadMethod)
	assert.Equal(t, DATA_SUB, config.SectorOrder)
	assert.Equal(t, int32(686), config.ReadOffset)
	// omitted pregap start falls back to the conservative default
	assert.Equal(t, int32(-150), config.PregapStart)
}

func TestLoadProfilesReplacesBuiltin(t *testing.T) {
	path := writeProfile(t, `
drives:
  - vendor: HL-DT-ST
    product: BD-RE WH16NS60
    type: LG_ASU8
    read_method: BE_CDDA
    sector_order: DATA_C2_SUB
    read_offset: 6
    pregap_start: -120
`)
	require.NoError(t, LoadProfiles(path))

	config := GetConfig(InquiryData{Vendor: "HL-DT-ST", Product: "BD-RE WH16NS60"})
	assert.Equal(t, int32(-120), config.PregapStart)
}

func TestLoadProfilesErrors(t *testing.T) {
	err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	err = LoadProfiles(writeProfile(t, "drives: [\n"))
	assert.Error(t, err)

	err = LoadProfiles(writeProfile(t, "drives:\n  - vendor: NONAME\n"))
	assert.Error(t, err)

	err = LoadProfiles(writeProfile(t, "drives:\n  - vendor: NONAME\n    product: X\n    type: BOGUS\n"))
	assert.Error(t, err)
}
