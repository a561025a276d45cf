/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"os"
	"time"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
	"github.com/opticaldump/discdump/pkg/drive"
	"github.com/opticaldump/discdump/pkg/toc"
)

const (
	// LEADOUT_OVERREAD_COUNT is how many lead-out sectors past the
	// last session the dump attempts to capture
	LEADOUT_OVERREAD_COUNT = 100

	// SLOW_SECTOR_TIMEOUT is the per sector read duration, in seconds,
	// past which a sector counts as slow
	SLOW_SECTOR_TIMEOUT = 5

	// Q_BURST_FLUSH_THRESHOLD is the consecutive Q error count past
	// which the next invalid Q triggers a drive cache flush
	Q_BURST_FLUSH_THRESHOLD = 5
)

// imagePaths is the set of companion file paths one dump consists of
type imagePaths struct {
	scram   string
	scrap   string
	subcode string
	state   string
	toc     string
	fulltoc string
	cdtext  string
	asus    string
}

func newImagePaths(prefix string) imagePaths {
	return imagePaths{
		scram:   prefix + ".scram",
		scrap:   prefix + ".scrap",
		subcode: prefix + ".subcode",
		state:   prefix + ".state",
		toc:     prefix + ".toc",
		fulltoc: prefix + ".fulltoc",
		cdtext:  prefix + ".cdtext",
		asus:    prefix + ".asus",
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openDumpFile(path string, refine bool) (*os.File, error) {
	flags := os.O_RDWR
	if refine {
		// refine reuses the existing file
	} else {
		flags |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if refine {
			return nil, common.FormatError(common.ErrFailedToReadDumpFile, err)
		}
		return nil, common.FormatError(common.ErrFailedToCreateDumpFile, err)
	}
	return f, nil
}

// scrapMode decides whether a BE read method drive stores descrambled
// data. BE drives descramble data sectors on their own; the dump of a
// disc with data tracks then goes to the .scrap stream. Mixed
// data/audio BE dumps are refused unless the drive type was forced.
func scrapMode(t *toc.TOC, config drive.Config, typeForced bool) (bool, error) {
	if config.ReadMethod != drive.BE {
		return false, nil
	}

	dataTracks := false
	audioTracks := false
	for _, s := range t.Sessions {
		for _, track := range s.Tracks {
			if track.IsData() {
				dataTracks = true
			} else {
				audioTracks = true
			}
		}
	}
	if !dataTracks {
		return false, nil
	}
	if audioTracks && !typeForced {
		return false, common.FormatError(common.ErrUnsupportedDrive, "BE read method with mixed data/audio tracks")
	}
	common.LogWarn("unsupported drive read method, storing descrambled data")
	return true, nil
}

// errorRanges builds the inter-session gap list. Reads inside a gap are
// expected to fail and never count as media errors.
func errorRanges(t *toc.TOC, config drive.Config) []cd.Range {
	var ranges []cd.Range
	for i := 1; i < len(t.Sessions); i++ {
		prev := t.Sessions[i-1].Tracks[len(t.Sessions[i-1].Tracks)-1]
		next := t.Sessions[i].Tracks[0]
		ranges = append(ranges, cd.Range{
			Start: prev.LBAEnd,
			End:   next.Indices[0] + config.PregapStart,
		})
	}
	return ranges
}

func scanStates(state []State) (scsiExists, c2Exists bool) {
	for _, s := range state {
		if s == ERROR_SKIP {
			return true, c2Exists
		}
		if s == ERROR_C2 {
			c2Exists = true
		}
	}
	return false, c2Exists
}

// Dump runs one dump or refine pass over the disc in the drive behind
// t. It returns true when media errors remain and another refine pass
// could still improve the image.
func Dump(t drive.Transport, options *Options, refine bool) (bool, error) {
	inquiry, status := t.Inquiry()
	if !status.OK() {
		return false, common.FormatError(common.ErrFailedToOpenDrive, drive.StatusMessage(status))
	}
	config := drive.GetConfig(inquiry)
	options.Overrides.Apply(&config)

	common.LogInfo("drive: %s", config.InfoString())
	common.LogInfo("drive configuration: %s", config.ConfigString())
	common.LogInfo("image path: %s", options.ImagePath)
	common.LogInfo("image name: %s", options.ImageName)

	if options.Speed > 0 {
		if s := t.SetSpeed(uint16(options.Speed) * 150); !s.OK() {
			common.LogDebug("drive ignored speed selection (%s)", drive.StatusMessage(s))
		}
	}

	paths := newImagePaths(options.ImagePrefix())

	if !refine && !options.Overwrite && fileExists(paths.state) {
		return false, fmt.Errorf("dump already exists (name: %s)", options.ImageName)
	}

	lbaStart := config.PregapStart
	lbaEnd := cd.MSFToLBA(cd.MSF{M: 74, S: 0, F: 0})

	tocBuffer, status := t.ReadTOC()
	if !status.OK() {
		return false, common.FormatError(common.ErrFailedToReadTOC, drive.StatusMessage(status))
	}
	discTOC, err := toc.ParseTOC(tocBuffer)
	if err != nil {
		return false, common.FormatError(common.ErrFailedToParseTOC, err)
	}

	fullTOCBuffer, fullStatus := t.ReadFullTOC()
	if fullStatus.OK() && len(fullTOCBuffer) > 4 {
		fullTOC, err := toc.ParseFullTOC(fullTOCBuffer)
		if err != nil {
			return false, common.FormatError(common.ErrFailedToParseTOC, err)
		}
		discTOC = toc.Choose(discTOC, fullTOC)
	} else {
		fullTOCBuffer = nil
	}

	if !refine {
		common.LogInfo("disc TOC:")
		discTOC.Print()
	}

	layout := drive.SectorOrderLayout(config.SectorOrder)
	subcode := layout.SubcodeOffset != cd.CD_RAW_DATA_SIZE
	if !subcode {
		common.LogWarn(common.WarnSubchannelUnsupported)
	}
	if layout.C2Offset == cd.CD_RAW_DATA_SIZE {
		common.LogWarn(common.WarnC2Unsupported)
	}

	scrap, err := scrapMode(discTOC, config, options.Overrides.Type != nil)
	if err != nil {
		return false, err
	}

	if refine {
		other := paths.scrap
		if scrap {
			other = paths.scram
		}
		if fileExists(other) {
			return false, common.FormatError(common.ErrDumpModeMismatch, other)
		}
	} else {
		if options.ImagePath != "" {
			if err := os.MkdirAll(options.ImagePath, 0755); err != nil {
				return false, common.FormatError(common.ErrFailedToCreateDumpFile, err)
			}
		}
		// remnants of the other read mode
		if scrap {
			os.Remove(paths.scram)
		} else {
			os.Remove(paths.scrap)
		}
	}

	dataPath := paths.scram
	if scrap {
		dataPath = paths.scrap
	}
	fData, err := openDumpFile(dataPath, refine)
	if err != nil {
		return false, err
	}
	defer fData.Close()
	fState, err := openDumpFile(paths.state, refine)
	if err != nil {
		return false, err
	}
	defer fState.Close()
	var fSub *os.File
	if subcode {
		fSub, err = openDumpFile(paths.subcode, refine)
		if err != nil {
			return false, err
		}
		defer fSub.Close()
	}

	if discTOC.Fake() {
		common.LogWarn(common.WarnFakeTOC)
	} else {
		lbaEnd = discTOC.LastTrack().LBAEnd
	}

	errRanges := errorRanges(discTOC, config)

	if refine {
		stored, err := os.ReadFile(paths.toc)
		if err != nil || !bytes.Equal(stored, tocBuffer) {
			return false, common.FormatError(common.ErrTOCMismatch, options.ImageName)
		}
	} else {
		if err := os.WriteFile(paths.toc, tocBuffer, 0644); err != nil {
			return false, common.FormatError(common.ErrFailedToCreateDumpFile, err)
		}
		if fullTOCBuffer != nil {
			if err := os.WriteFile(paths.fulltoc, fullTOCBuffer, 0644); err != nil {
				return false, common.FormatError(common.ErrFailedToCreateDumpFile, err)
			}
		}

		readCDText := !options.DisableCDText
		// PX-W4824A hangs indefinitely on multisession CD-TEXT
		if len(discTOC.Sessions) > 1 && config.Vendor == "PLEXTOR" && config.Product == "CD-R PX-W4824A" {
			common.LogWarn(common.WarnCDTextSkipped)
			readCDText = false
		}
		if readCDText {
			cdTextBuffer, s := t.ReadCDText()
			if !s.OK() {
				common.LogWarn("unable to read CD-TEXT, SCSI (%s)", drive.StatusMessage(s))
			} else if len(cdTextBuffer) > 4 {
				if err := os.WriteFile(paths.cdtext, cdTextBuffer, 0644); err != nil {
					return false, common.FormatError(common.ErrFailedToCreateDumpFile, err)
				}
				common.LogInfo(common.InfoCDTextCaptured)
			}
		} else if options.DisableCDText {
			common.LogWarn("CD-TEXT disabled")
		}
	}

	// lead-in is read early, it improves the chance of capturing both
	// sessions in one go
	if config.Type == drive.PLEXTOR && !options.PlextorSkipLeadin {
		sessionStarts := make([]int32, len(discTOC.Sessions))
		for i := range discTOC.Sessions {
			if i > 0 {
				sessionStarts[i] = discTOC.Sessions[i].Tracks[0].Indices[0]
			}
			sessionStarts[i] -= cd.MSF_LBA_SHIFT
		}
		plextorStoreLeadin(t, fData, fSub, fState, config, sessionStarts)
	}

	if options.LBAStart != nil {
		lbaStart = *options.LBAStart
	}
	if options.LBAEnd != nil {
		lbaEnd = *options.LBAEnd
	}

	var errorsSCSI, errorsC2, errorsQ uint32

	sectorBuffer := make([]byte, cd.CD_RAW_DATA_SIZE)
	sectorData := make([]byte, cd.CD_DATA_SIZE)
	sectorSubcode := make([]byte, cd.CD_SUBCODE_SIZE)
	sectorState := make([]State, cd.CD_DATA_SIZE_SAMPLES)

	subcodeShift := int32(0)

	var asusLeadoutBuffer []byte

	lbaRefine := int32(cd.LBA_START - 1)
	refineCounter := uint32(0)
	refineProcessed := uint32(0)
	refineCount := uint32(0)
	refineRetries := uint32(1)
	if options.Retries > 0 {
		refineRetries = uint32(options.Retries)
	}

	if refine {
		refineCount = countRefineSectors(fState, fSub, config, options, lbaStart, lbaEnd,
			options.Skip, errRanges, subcode, &errorsSCSI, &errorsC2, &errorsQ)
	}

	errorsQLast := errorsQ

	verb := "dump"
	if refine {
		verb = "refine"
	}
	common.LogInfo("%s started", verb)

	timeStart := time.Now()

	guard := engageInterrupt()
	defer guard.Release()

	progress := startProgress()

	lbaOverread := lbaEnd
	var lbaNext int32
	for lba := lbaStart; lba < lbaOverread; lba = lbaNext {
		if r := cd.InsideRange(lba, options.Skip); r != nil {
			lbaNext = r.End
			continue
		}
		lbaNext = lba + 1

		lbaIndex := lba - cd.LBA_START

		read := true
		flush := false
		store := false

		// mirror lead-out from the drive cache
		if config.IsASUS() && !options.ASUSSkipLeadout {
			r := cd.InsideRange(lba, errRanges)
			if r != nil && lba == r.Start || lba == lbaEnd {
				// prime the cache with the last readable sector
				if refine {
					drive.ReadSector(sectorBuffer, t, config, lba-1)
				}

				common.LogInfo("LG/ASUS: searching lead-out in cache (LBA: %6d)", lba)
				cache, s := t.CacheRead(config.Type)
				if s.OK() {
					if err := os.WriteFile(paths.asus, cache, 0644); err != nil {
						return false, common.FormatError(common.ErrFailedToCreateDumpFile, err)
					}
					asusLeadoutBuffer = asusCacheExtract(cache, lba, LEADOUT_OVERREAD_COUNT)
				}

				entriesCount := len(asusLeadoutBuffer) / cd.CD_RAW_DATA_SIZE
				if entriesCount > 0 {
					common.LogInfo("LG/ASUS: lead-out found (LBA: %6d, sectors: %d)", lba, entriesCount)
				} else {
					common.LogInfo("LG/ASUS: lead-out not found")
				}
			}

			if r != nil && lba >= r.Start || lba >= lbaEnd {
				base := lbaEnd
				if r != nil {
					base = r.Start
				}
				leadoutIndex := int(lba - base)
				if leadoutIndex < len(asusLeadoutBuffer)/cd.CD_RAW_DATA_SIZE {
					entry := asusLeadoutBuffer[cd.CD_RAW_DATA_SIZE*leadoutIndex:]

					copy(sectorData, entry[:cd.CD_DATA_SIZE])
					copy(sectorSubcode, entry[cd.CD_DATA_SIZE+cd.CD_C2_SIZE:cd.CD_RAW_DATA_SIZE])
					sectorC2 := entry[cd.CD_DATA_SIZE : cd.CD_DATA_SIZE+cd.CD_C2_SIZE]

					fillState(sectorState, SUCCESS_SCSI_OFF)
					c2Count := StateFromC2(sectorState, sectorC2)
					if c2Count > 0 {
						if !refine {
							errorsC2++
						}
						logC2Error(lba, c2Count, sectorData, sectorC2, refine, refineCounter)
					}

					store = true
					read = false
				}
			}
		}

		if refine && read {
			read = false

			readStateEntry(fState, sectorState, lbaIndex, config.ReadOffset)
			scsiExists, c2Exists := scanStates(sectorState)
			if scsiExists || c2Exists {
				read = true
			}
			if c2Exists {
				flush = true
			}

			if options.RefineSubchannel && subcode && !read {
				ReadEntry(fSub, sectorSubcode, cd.CD_SUBCODE_SIZE, lbaIndex+subcodeShift, 0, 0)
				if !cd.ParseQ(sectorSubcode).Valid() {
					read = true
				}
			}

			if read {
				if lbaRefine == lba {
					refineCounter++
					if refineCounter < refineRetries {
						lbaNext = lba
					} else {
						// maximum retries reached
						common.LogDebug("[LBA: %6d] %s", lba, common.InfoCorrectionFailure)
						read = false
						refineProcessed++
						refineCounter = 0
					}
				} else {
					lbaRefine = lba
					lbaNext = lba
				}
			} else if lbaRefine == lba {
				common.LogDebug("[LBA: %6d] %s", lba, common.InfoCorrectionSuccess)
				refineProcessed++
				refineCounter = 0
			}
		}

		if read {
			if flush {
				t.FlushCache(lba)
			}

			readTimeStart := time.Now()
			s := drive.ReadSector(sectorBuffer, t, config, lba)
			slow := time.Since(readTimeStart) > SLOW_SECTOR_TIMEOUT*time.Second

			if config.Type == drive.PLEXTOR && slow && cd.InsideRange(lba, errRanges) != nil {
				// a couple of slow sectors precede the SCSI error on
				// multisession lead-out overread, some models time out
				// on the I/O semaphore there
			} else if !s.OK() {
				if cd.InsideRange(lba, errRanges) == nil && lba < lbaEnd {
					if !refine {
						errorsSCSI++
					}
					if refine {
						common.LogDebug("[LBA: %6d] SCSI error (%s, retry: %d)", lba, drive.StatusMessage(s), refineCounter+1)
					} else {
						common.LogDebug("[LBA: %6d] SCSI error (%s)", lba, drive.StatusMessage(s))
					}
				}
			} else {
				copy(sectorData, sectorBuffer[:cd.CD_DATA_SIZE])
				copy(sectorSubcode, sectorBuffer[cd.CD_DATA_SIZE+cd.CD_C2_SIZE:cd.CD_RAW_DATA_SIZE])
				sectorC2 := sectorBuffer[cd.CD_DATA_SIZE : cd.CD_DATA_SIZE+cd.CD_C2_SIZE]

				fillState(sectorState, SUCCESS)
				c2Count := StateFromC2(sectorState, sectorC2)
				if c2Count > 0 {
					if !refine {
						errorsC2++
					}
					logC2Error(lba, c2Count, sectorData, sectorC2, refine, refineCounter)
				}

				store = true
			}
		}

		if store {
			// some drives desync subchannel at a random sector
			if subcode {
				q := cd.ParseQ(sectorSubcode)
				if q.Valid() && q.ADR() == 1 && q.TNO() != 0 {
					shift := cd.BCDMSFToLBA(q.AbsMSF()) - lba
					if subcodeShift != shift {
						subcodeShift = shift
						common.LogInfo("[LBA: %6d] subcode desync (shift: %+d)", lba, subcodeShift)
					}
				}
			}

			if refine {
				mergeSector(fData, fState, config, lba, lbaIndex, lbaEnd, errRanges,
					sectorData, sectorState, &errorsSCSI, &errorsC2)

				if subcode {
					q := cd.ParseQ(sectorSubcode)
					if q.Valid() {
						fileSubcode := make([]byte, cd.CD_SUBCODE_SIZE)
						ReadEntry(fSub, fileSubcode, cd.CD_SUBCODE_SIZE, lbaIndex+subcodeShift, 0, 0)
						if !cd.ParseQ(fileSubcode).Valid() {
							WriteEntry(fSub, sectorSubcode, cd.CD_SUBCODE_SIZE, lbaIndex+subcodeShift, 0)
							if cd.InsideRange(lba, errRanges) == nil {
								errorsQ--
							}
						}
					}
				}
			} else {
				if err := WriteEntry(fData, sectorData, cd.CD_DATA_SIZE, lbaIndex, int64(config.ReadOffset)*cd.CD_SAMPLE_SIZE); err != nil {
					return false, common.FormatError(common.ErrFailedToWriteDumpFile, err)
				}

				if subcode {
					WriteEntry(fSub, sectorSubcode, cd.CD_SUBCODE_SIZE, lbaIndex+subcodeShift, 0)

					if cd.ParseQ(sectorSubcode).Valid() {
						errorsQLast = errorsQ
					} else {
						// some Plextor models byte-desync subchannel
						// after massed C2 errors at high speed
						if errorsQ-errorsQLast > Q_BURST_FLUSH_THRESHOLD {
							common.LogWarn(common.WarnQBurstFlush)
							t.FlushCache(lba)
							errorsQLast = errorsQ
						}
						errorsQ++
					}
				}

				if err := WriteEntry(fState, stateBytes(sectorState), cd.CD_DATA_SIZE_SAMPLES, lbaIndex, int64(config.ReadOffset)); err != nil {
					return false, common.FormatError(common.ErrFailedToWriteDumpFile, err)
				}
			}

			// grow the lead-out overread while sectors keep coming
			if lba+1 == lbaOverread && options.LBAEnd == nil {
				lbaOverread++
			}
		} else {
			if lba+1 == lbaOverread {
				// past the disc lead-out
				lbaOverread = lba
			} else if r := cd.InsideRange(lba, errRanges); r != nil {
				lbaNext = r.End
			}
		}

		if guard.Interrupted() {
			common.LogInfo("[LBA: %6d] forced stop", lba)
			lbaOverread = lba
		}

		if refine {
			if lba == lbaRefine {
				progress.Update(percentage(int32(refineProcessed*refineRetries+refineCounter), int32(refineCount*refineRetries)),
					lba, lbaOverread, errorsSCSI, errorsC2, errorsQ)
			}
		} else {
			progress.Update(percentage(lba, lbaOverread-1), lba, lbaOverread, errorsSCSI, errorsC2, errorsQ)
		}
	}

	progress.Stop(errorsSCSI > 0 || errorsC2 > 0)

	common.LogInfo("%s complete (time: %ds)", verb, int(time.Since(timeStart).Seconds()))
	common.LogInfo("%s:", common.InfoMediaErrors)
	common.LogInfo("  SCSI: %d", errorsSCSI)
	common.LogInfo("  C2: %d", errorsC2)
	common.LogInfo("  Q: %d", errorsQ)

	// LG/ASUS always refines once more, it improves the chance of
	// capturing enough lead-out sectors
	return errorsSCSI > 0 || errorsC2 > 0 || config.IsASUS() && !options.ASUSSkipLeadout, nil
}

// countRefineSectors pre-counts the sectors a refine pass will touch so
// progress can be reported against actual work
func countRefineSectors(fState, fSub *os.File, config drive.Config, options *Options,
	lbaStart, lbaEnd int32, skipRanges, errRanges []cd.Range, subcode bool,
	errorsSCSI, errorsC2, errorsQ *uint32) uint32 {

	sectorState := make([]State, cd.CD_DATA_SIZE_SAMPLES)
	sectorSubcode := make([]byte, cd.CD_SUBCODE_SIZE)

	var count uint32
	for lba := lbaStart; lba < lbaEnd; lba++ {
		lbaIndex := lba - cd.LBA_START

		if cd.InsideRange(lba, skipRanges) != nil || cd.InsideRange(lba, errRanges) != nil {
			continue
		}

		refineSector := false

		readStateEntry(fState, sectorState, lbaIndex, config.ReadOffset)
		scsiExists, c2Exists := scanStates(sectorState)
		if scsiExists {
			*errorsSCSI++
			refineSector = true
		} else if c2Exists {
			*errorsC2++
			refineSector = true
		}

		if subcode {
			ReadEntry(fSub, sectorSubcode, cd.CD_SUBCODE_SIZE, lbaIndex, 0, 0)
			if !cd.ParseQ(sectorSubcode).Valid() {
				*errorsQ++
				if options.RefineSubchannel {
					refineSector = true
				}
			}
		}

		if refineSector {
			count++
		}
	}
	return count
}

// mergeSector folds one freshly read sector into the dump files. A
// stored sample whose state is better than the new read is inherited
// into the new buffer; on equal states the new read's data is kept.
// Nothing is written unless at least one sample improved.
func mergeSector(fData, fState *os.File, config drive.Config, lba, lbaIndex, lbaEnd int32,
	errRanges []cd.Range, sectorData []byte, sectorState []State, errorsSCSI, errorsC2 *uint32) {

	fileState := make([]State, cd.CD_DATA_SIZE_SAMPLES)
	fileData := make([]byte, cd.CD_DATA_SIZE)
	readStateEntry(fState, fileState, lbaIndex, config.ReadOffset)
	ReadEntry(fData, fileData, cd.CD_DATA_SIZE, lbaIndex, int64(config.ReadOffset)*cd.CD_SAMPLE_SIZE, 0)

	update := false
	scsiExistsFile := false
	c2ExistsFile := false
	scsiExists := false
	c2Exists := false
	for i := 0; i < cd.CD_DATA_SIZE_SAMPLES; i++ {
		if fileState[i] == ERROR_SKIP {
			scsiExistsFile = true
		} else if fileState[i] == ERROR_C2 {
			c2ExistsFile = true
		}

		if sectorState[i] > fileState[i] {
			update = true
		}

		if fileState[i] > sectorState[i] {
			sectorState[i] = fileState[i]
			copy(sectorData[i*cd.CD_SAMPLE_SIZE:(i+1)*cd.CD_SAMPLE_SIZE],
				fileData[i*cd.CD_SAMPLE_SIZE:(i+1)*cd.CD_SAMPLE_SIZE])
		}

		if sectorState[i] == ERROR_SKIP {
			scsiExists = true
		} else if sectorState[i] == ERROR_C2 {
			c2Exists = true
		}
	}

	if !update {
		return
	}

	WriteEntry(fData, sectorData, cd.CD_DATA_SIZE, lbaIndex, int64(config.ReadOffset)*cd.CD_SAMPLE_SIZE)
	WriteEntry(fState, stateBytes(sectorState), cd.CD_DATA_SIZE_SAMPLES, lbaIndex, int64(config.ReadOffset))

	if cd.InsideRange(lba, errRanges) == nil && lba < lbaEnd {
		if scsiExistsFile && !scsiExists {
			*errorsSCSI--
			if c2Exists {
				*errorsC2++
			}
		} else if c2ExistsFile && !c2Exists {
			*errorsC2--
		}
	}
}

func readStateEntry(fState *os.File, state []State, lbaIndex int32, readOffset int32) {
	buf := make([]byte, len(state))
	ReadEntry(fState, buf, cd.CD_DATA_SIZE_SAMPLES, lbaIndex, int64(readOffset), byte(ERROR_SKIP))
	statesFromBytes(buf, state)
}

func logC2Error(lba int32, c2Count uint32, sectorData, sectorC2 []byte, refine bool, refineCounter uint32) {
	dataCRC := crc32.ChecksumIEEE(sectorData)
	c2CRC := crc32.ChecksumIEEE(sectorC2)
	if refine {
		common.LogDebug("[LBA: %6d] C2 error (bits: %4d, data crc: %08X, C2 crc: %08X, retry: %d)",
			lba, c2Count, dataCRC, c2CRC, refineCounter+1)
	} else {
		common.LogDebug("[LBA: %6d] C2 error (bits: %4d, data crc: %08X, C2 crc: %08X)",
			lba, c2Count, dataCRC, c2CRC)
	}
}
