/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"os"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
)

// Subchannel walks the subchannel stream of an existing dump and logs
// every decoded Q frame with its file and Q positions. Runs of empty
// frames collapse into one ellipsis line.
func Subchannel(options *Options) error {
	path := options.ImagePrefix() + ".subcode"

	f, err := os.Open(path)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadDumpFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return common.FormatError(common.ErrFailedToReadDumpFile, err)
	}
	sectorsCount := int32(info.Size() / cd.CD_SUBCODE_SIZE)

	var emptyQ cd.ChannelQ
	empty := false
	buffer := make([]byte, cd.CD_SUBCODE_SIZE)
	for lbaIndex := int32(0); lbaIndex < sectorsCount; lbaIndex++ {
		if err := ReadEntry(f, buffer, cd.CD_SUBCODE_SIZE, lbaIndex, 0, 0); err != nil {
			return common.FormatError(common.ErrFailedToReadDumpFile, err)
		}

		q := cd.ParseQ(buffer)
		if q == emptyQ {
			if !empty {
				common.LogInfo("...")
				empty = true
			}
			continue
		}

		lbaq := cd.BCDMSFToLBA(q.AbsMSF())
		common.LogInfo("[LBA: %6d, LBAQ: %6d] %s", cd.LBA_START+lbaIndex, lbaq, q.Decode())
		empty = false
	}

	return nil
}
