/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package drive

import (
	"github.com/opticaldump/discdump/pkg/cd"
)

// ReadSector reads one raw sector at lba into the canonical layout
// data(2352) + C2(294) + subchannel(96). Drives whose C2 block lags
// the data block read enough extra sectors to cover the shift and the
// C2 run is re-concatenated at the correct offset.
func ReadSector(sector []byte, t Transport, config Config, lba int32) Status {
	layout := SectorOrderLayout(config.SectorOrder)

	sectorsCount := uint32(config.C2Shift)/cd.CD_C2_SIZE + 1
	if config.C2Shift%cd.CD_C2_SIZE != 0 {
		sectorsCount++
	}
	buffer := make([]byte, layout.Size*int(sectorsCount))

	var status Status
	if config.ReadMethod == D8 {
		subCode := READ_CDDA_DATA_C2_SUB
		if config.SectorOrder == DATA_SUB {
			subCode = READ_CDDA_DATA_SUB
		}
		status = t.ReadCDDA(buffer, lba, sectorsCount, subCode)
	} else {
		sectorType := ALL_TYPES
		if config.ReadMethod == BE_CDDA {
			sectorType = CD_DA
		}
		errorField := ERROR_FIELD_C2
		if layout.C2Offset == cd.CD_RAW_DATA_SIZE {
			errorField = ERROR_FIELD_NONE
		}
		subChannel := SUB_CHANNEL_RAW
		if layout.SubcodeOffset == cd.CD_RAW_DATA_SIZE {
			subChannel = SUB_CHANNEL_NONE
		}
		status = t.ReadCD(buffer, lba, sectorsCount, sectorType, errorField, subChannel)
	}

	if !status.OK() {
		return status
	}

	for i := range sector[:cd.CD_RAW_DATA_SIZE] {
		sector[i] = 0
	}

	if layout.DataOffset != cd.CD_RAW_DATA_SIZE {
		copy(sector[:cd.CD_DATA_SIZE], buffer[layout.DataOffset:])
	}

	if layout.C2Offset != cd.CD_RAW_DATA_SIZE {
		// compensate the C2 shift across the extra sectors
		c2 := make([]byte, cd.CD_C2_SIZE*int(sectorsCount))
		for i := 0; i < int(sectorsCount); i++ {
			copy(c2[cd.CD_C2_SIZE*i:cd.CD_C2_SIZE*(i+1)], buffer[layout.Size*i+layout.C2Offset:])
		}
		copy(sector[cd.CD_DATA_SIZE:cd.CD_DATA_SIZE+cd.CD_C2_SIZE], c2[config.C2Shift:])
	}

	if layout.SubcodeOffset != cd.CD_RAW_DATA_SIZE {
		copy(sector[cd.CD_DATA_SIZE+cd.CD_C2_SIZE:cd.CD_RAW_DATA_SIZE], buffer[layout.SubcodeOffset:])
	}

	return status
}
