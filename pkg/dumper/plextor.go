/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"os"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
	"github.com/opticaldump/discdump/pkg/drive"
)

func leadinEntryStatus(entry []byte) drive.Status {
	return drive.Status{StatusCode: entry[0], SenseKey: entry[1], ASC: entry[2], ASCQ: entry[3]}
}

func leadinEntryData(entry []byte) []byte {
	return entry[4 : 4+cd.CD_DATA_SIZE]
}

func leadinEntrySubcode(entry []byte) []byte {
	return entry[4+cd.CD_DATA_SIZE+cd.CD_C2_SIZE : 4+cd.CD_RAW_DATA_SIZE]
}

// plextorStoreLeadin captures the lead-in adjacent sectors of every
// session through the vendor lead-in read and folds them into the dump
// files. A multisession disc offers no control over which session the
// drive returns, each attempt is classified by its subchannel Q
// position and the longest capture per session wins.
func plextorStoreLeadin(t drive.Transport, fData, fSub, fState *os.File, config drive.Config, sessionStarts []int32) {
	leadinCount := uint32(config.PregapStart + cd.MSF_LBA_SHIFT)
	leadinBuffers := make([][]byte, len(sessionStarts))

	for i := range sessionStarts {
		common.LogInfo("PLEXTOR: reading lead-in")

		// helps with choosing the first session
		if i == len(sessionStarts)-1 {
			t.FlushCache(-1)
		}

		buffer, _ := t.ReadLeadin(leadinCount)
		entriesCount := len(buffer) / drive.PLEXTOR_LEADIN_ENTRY_SIZE
		if uint32(entriesCount) < leadinCount {
			continue
		}

		// classify the capture by the last valid Q position
		for j := entriesCount; j > 0; j-- {
			entry := buffer[(j-1)*drive.PLEXTOR_LEADIN_ENTRY_SIZE:]
			if !leadinEntryStatus(entry).OK() {
				continue
			}

			q := cd.ParseQ(leadinEntrySubcode(entry))
			if !q.Valid() || q.ADR() != 1 || q.TNO() == 0 {
				continue
			}

			lba := cd.BCDMSFToLBA(q.AbsMSF())
			sessionFound := false
			for s := range sessionStarts {
				pregapEnd := sessionStarts[s] + int32(leadinCount)
				if lba < sessionStarts[s] || lba >= pregapEnd {
					continue
				}

				trimCount := j - 1 + int(pregapEnd-lba)
				if trimCount > entriesCount {
					common.LogInfo("PLEXTOR: incomplete pre-gap, skipping (session index: %d)", s)
				} else {
					common.LogInfo("PLEXTOR: lead-in found (session index: %d, sectors: %d)", s, trimCount)
					capture := buffer[:trimCount*drive.PLEXTOR_LEADIN_ENTRY_SIZE]
					if len(leadinBuffers[s]) < len(capture) {
						leadinBuffers[s] = capture
					}
				}

				sessionFound = true
				break
			}
			if sessionFound {
				break
			}
		}
	}

	// PX-760A returns garbage at the capture start, strip entries up to
	// the first valid Q
	for s, buffer := range leadinBuffers {
		n := len(buffer) / drive.PLEXTOR_LEADIN_ENTRY_SIZE
		for i := 0; i < n; i++ {
			entry := buffer[i*drive.PLEXTOR_LEADIN_ENTRY_SIZE:]
			if !cd.ParseQ(leadinEntrySubcode(entry)).Valid() {
				continue
			}
			if i > 0 {
				leadinBuffers[s] = buffer[i*drive.PLEXTOR_LEADIN_ENTRY_SIZE:]
				common.LogInfo("PLEXTOR: lead-in trimmed (session index: %d, sectors: %d)", s, i)
			}
			break
		}
	}

	for s, buffer := range leadinBuffers {
		n := len(buffer) / drive.PLEXTOR_LEADIN_ENTRY_SIZE
		for i := 0; i < n; i++ {
			lba := sessionStarts[s] + int32(leadinCount) - int32(n-i)
			lbaIndex := lba - cd.LBA_START

			entry := buffer[i*drive.PLEXTOR_LEADIN_ENTRY_SIZE:]
			status := leadinEntryStatus(entry)
			if !status.OK() {
				common.LogDebug("[LBA: %6d] SCSI error (%s)", lba, drive.StatusMessage(status))
				continue
			}

			sectorState := make([]State, cd.CD_DATA_SIZE_SAMPLES)
			readStateEntry(fState, sectorState, lbaIndex, config.ReadOffset)
			sectorData := make([]byte, cd.CD_DATA_SIZE)
			ReadEntry(fData, sectorData, cd.CD_DATA_SIZE, lbaIndex, int64(config.ReadOffset)*cd.CD_SAMPLE_SIZE, 0)
			leadinData := leadinEntryData(entry)
			update := false
			for k := range sectorState {
				if sectorState[k] >= SUCCESS_C2_OFF {
					continue
				}
				// the capture carries no C2, it only replaces samples
				// that are still missing or damaged
				sectorState[k] = SUCCESS_C2_OFF
				copy(sectorData[k*cd.CD_SAMPLE_SIZE:(k+1)*cd.CD_SAMPLE_SIZE], leadinData[k*cd.CD_SAMPLE_SIZE:(k+1)*cd.CD_SAMPLE_SIZE])
				update = true
			}
			if update {
				WriteEntry(fData, sectorData, cd.CD_DATA_SIZE, lbaIndex, int64(config.ReadOffset)*cd.CD_SAMPLE_SIZE)
				WriteEntry(fState, stateBytes(sectorState), cd.CD_DATA_SIZE_SAMPLES, lbaIndex, int64(config.ReadOffset))
			}

			if fSub != nil {
				fileSubcode := make([]byte, cd.CD_SUBCODE_SIZE)
				ReadEntry(fSub, fileSubcode, cd.CD_SUBCODE_SIZE, lbaIndex, 0, 0)
				if !cd.ParseQ(fileSubcode).Valid() {
					WriteEntry(fSub, leadinEntrySubcode(entry), cd.CD_SUBCODE_SIZE, lbaIndex, 0)
				}
			}
		}
	}
}
