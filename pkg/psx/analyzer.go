/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package psx

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/japanese"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
	"github.com/opticaldump/discdump/pkg/dumper"
	"github.com/opticaldump/discdump/pkg/toc"
)

const exeMagic = "PS-X EXE"

// libcryptSectorsBase is the canonical LibCrypt sector address table
var libcryptSectorsBase = []int32{
	13955, 14081, 14335, 14429, 14499, 14749, 14906, 14980,
	15092, 15162, 15228, 15478, 15769, 15881, 15951, 16017,
	41895, 42016, 42282, 42430, 42521, 42663, 42862, 43027,
	43139, 43204, 43258, 43484, 43813, 43904, 44009, 44162,
}

const libcryptSectorsShift = 5

// candidate counts of a LibCrypt disc: 8 or 16 of the 32 base sector
// pairs mangled, each mangled pair adding two candidates
var libcryptSectorsCount = map[int]bool{16: true, 32: true}

var (
	bootLine   = regexp.MustCompile(`^\s*BOOT.*=\s*cdrom.?:\\*(.*?)(?:;.*\s*|\s*$)`)
	serialPath = regexp.MustCompile(`^(.*\\)*([A-Z]*)(_|-)?([A-Z]?[0-9]+)\.([0-9]+[A-Z]?)$`)
)

// antimodMessageEN is the message an anti-modchip check prints on an
// American console
const antimodMessageEN = "     SOFTWARE TERMINATED\nCONSOLE MAY HAVE BEEN MODIFIED\n     CALL 1-888-780-7690"

// antimodMessageJP is the Japanese counterpart, Shift-JIS encoded
var antimodMessageJP = []byte{
	0x8b, 0xad, 0x90, 0xa7, 0x8f, 0x49, 0x97, 0xb9, 0x82, 0xb5, 0x82, 0xdc, 0x82, 0xb5, 0x82, 0xbd, 0x81, 0x42, 0x0a,
	0x96, 0x7b, 0x91, 0xcc, 0x82, 0xaa, 0x89, 0xfc, 0x91, 0xa2, 0x82, 0xb3, 0x82, 0xea, 0x82, 0xc4, 0x82, 0xa2, 0x82, 0xe9, 0x0a,
	0x82, 0xa8, 0x82, 0xbb, 0x82, 0xea, 0x82, 0xaa, 0x82, 0xa0, 0x82, 0xe8, 0x82, 0xdc, 0x82, 0xb7, 0x81, 0x42,
}

var regionJ = map[string]bool{
	"ESPM": true, "PAPX": true, "PCPX": true, "PDPX": true, "SCPM": true,
	"SCPS": true, "SCZS": true, "SIPS": true, "SLKA": true, "SLPM": true, "SLPS": true,
}
var regionU = map[string]bool{
	"LSP": true, "PEPX": true, "SCUS": true, "SLUS": true, "SLUSP": true,
}
var regionE = map[string]bool{
	"PUPX": true, "SCED": true, "SCES": true, "SLED": true, "SLES": true,
}

// Analyze inspects the first data track of a dump image for
// PlayStation protection traits and logs the findings
func Analyze(imagePrefix, imageName string) error {
	tocBuffer, err := os.ReadFile(imagePrefix + ".toc")
	if err != nil {
		return common.FormatError(common.ErrFailedToReadDumpFile, err)
	}
	discTOC, err := toc.ParseTOC(tocBuffer)
	if err != nil {
		return common.FormatError(common.ErrFailedToParseTOC, err)
	}

	dataTrack := discTOC.FirstDataTrack()
	if dataTrack == nil {
		common.LogInfo("no data track, skipping PSX analysis")
		return nil
	}

	dataPath := imagePrefix + ".scram"
	scrambled := true
	if _, err := os.Stat(dataPath); err != nil {
		dataPath = imagePrefix + ".scrap"
		scrambled = false
	}

	browser, err := NewBrowser(dataPath, scrambled, dataTrack.Indices[0], dataTrack.LBAEnd)
	if err != nil {
		return common.FormatError(common.ErrFailedToReadDumpFile, err)
	}
	defer browser.Close()

	exePath := findEXE(browser)
	if exePath == "" {
		return nil
	}
	exeFile := browser.RootDirectory().SubEntry(exePath)
	if exeFile == nil {
		return nil
	}
	exe, err := exeFile.Read()
	if err != nil || len(exe) < len(exeMagic) || string(exe[:len(exeMagic)]) != exeMagic {
		return nil
	}

	common.LogInfo("PSX [%s]:", imageName)
	common.LogInfo("  EXE: %s", exePath)
	common.LogInfo("  EXE date: %s", exeFile.Date.Format("2006-01-02"))

	prefix, number := DeduceSerial(exePath)
	if prefix != "" && number != "" {
		common.LogInfo("  serial: %s-%s", prefix, number)
	}
	if region := DetectRegion(prefix); region != "" {
		common.LogInfo("  region: %s", region)
	}

	edc, err := detectEDCFast(browser)
	if err == nil {
		common.LogInfo("  EDC: %s", yesNo(edc))
	}

	antimodEntries, err := findAntiModchip(browser)
	if err == nil {
		common.LogInfo("  anti-modchip: %s", yesNo(len(antimodEntries) > 0))
		for _, entry := range antimodEntries {
			common.LogInfo("%s", entry)
		}
	}

	subPath := imagePrefix + ".subcode"
	if _, err := os.Stat(subPath); err == nil {
		lines, libcrypt, err := detectLibCrypt(subPath, dataTrack.LBAEnd)
		if err == nil {
			common.LogInfo("  libcrypt: %s", yesNo(libcrypt))
			for _, line := range lines {
				common.LogInfo("%s", line)
			}
		}
	}

	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// findEXE locates the boot executable path, either from the BOOT line
// of SYSTEM.CNF or the bare PSX.EXE fallback
func findEXE(browser *Browser) string {
	systemCNF := browser.RootDirectory().SubEntry("SYSTEM.CNF")
	if systemCNF == nil {
		if psxEXE := browser.RootDirectory().SubEntry("PSX.EXE"); psxEXE != nil {
			return psxEXE.Name
		}
		return ""
	}

	data, err := systemCNF.Read()
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		// BOOT = cdrom:\SCUS_945.03;1
		// BOOT=cdrom:\\SLPS_004.35
		// BOOT = cdrom:\EXE\PCPX_961.61;1
		if matches := bootLine.FindStringSubmatch(scanner.Text()); matches != nil {
			return strings.ToUpper(matches[1])
		}
	}
	return ""
}

// DeduceSerial splits a boot executable path into the serial prefix
// and number
func DeduceSerial(exePath string) (string, string) {
	matches := serialPath.FindStringSubmatch(exePath)
	if matches == nil {
		return "", ""
	}

	prefix := matches[2]
	number := matches[4] + matches[5]

	// Road Writer (USA)
	if prefix == "" && number == "907127001" {
		prefix = "LSP"
	} else if prefix == "PAR" && number == "90001" {
		// GameGenius Ver. 5.0 (Taiwan) (En,Zh) (Unl)
		return "", ""
	}

	return prefix, number
}

// DetectRegion maps a serial prefix onto its release region
func DetectRegion(prefix string) string {
	switch {
	case regionJ[prefix]:
		return "Japan"
	case regionU[prefix]:
		return "USA"
	case regionE[prefix]:
		return "Europe"
	}
	return ""
}

// detectEDCFast probes the mastering style from the last system area
// sector. Post-1998 mastering fills the optional form 2 EDC there.
func detectEDCFast(browser *Browser) (bool, error) {
	sector, err := browser.readSector(browser.trackStart + systemAreaSize - 1)
	if err != nil {
		return false, err
	}
	if sector.Mode() == 2 && sector.Form2() {
		return sector.Form2EDC() != 0, nil
	}
	return false, nil
}

// findAntiModchip scans every plain file for the known anti-modchip
// messages and returns one report line per hit
func findAntiModchip(browser *Browser) ([]string, error) {
	jpDecoded, _ := japanese.ShiftJIS.NewDecoder().Bytes(antimodMessageJP)

	var entries []string
	err := browser.Iterate(func(path string, e *Entry) bool {
		if e.IsDummy() || e.IsInterleaved() {
			return false
		}
		data, err := e.Read()
		if err != nil {
			return false
		}

		fp := e.Name
		if path != "" {
			fp = path + "/" + e.Name
		}

		if idx := bytes.Index(data, []byte(antimodMessageEN)); idx != -1 {
			entries = append(entries, fmt.Sprintf("%s @ 0x%x: EN", fp, idx))
		}
		if idx := bytes.Index(data, antimodMessageJP); idx != -1 {
			entries = append(entries, fmt.Sprintf("%s @ 0x%x: JP (%s)", fp, idx, string(jpDecoded)))
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// detectLibCrypt checks the canonical sector pairs for intentionally
// mangled subchannel Q
func detectLibCrypt(subPath string, lbaEnd int32) ([]string, bool, error) {
	f, err := os.Open(subPath)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	buffer := make([]byte, cd.CD_SUBCODE_SIZE)
	readQ := func(lba int32) (cd.ChannelQ, error) {
		if err := dumper.ReadEntry(f, buffer, cd.CD_SUBCODE_SIZE, lba-cd.LBA_START, 0, 0); err != nil {
			return cd.ChannelQ{}, err
		}
		return cd.ParseQ(buffer), nil
	}

	var candidates []int32
	for _, lba1 := range libcryptSectorsBase {
		lba2 := lba1 + libcryptSectorsShift
		if lba1 >= lbaEnd || lba2 >= lbaEnd {
			continue
		}

		q1, err := readQ(lba1)
		if err != nil {
			return nil, false, err
		}
		q2, err := readQ(lba2)
		if err != nil {
			return nil, false, err
		}

		if !q1.Valid() && !q2.Valid() {
			candidates = append(candidates, lba1, lba2)
		}
	}

	if !libcryptSectorsCount[len(candidates)] {
		return nil, false, nil
	}

	var lines []string
	for _, lba := range candidates {
		q, err := readQ(lba)
		if err != nil {
			return nil, false, err
		}
		msf := cd.LBAToMSF(lba)
		lines = append(lines, fmt.Sprintf("MSF: %02d:%02d:%02d Q-Data: %02X%02X%02X %02X:%02X:%02X %02X %02X:%02X:%02X %04X",
			msf.M, msf.S, msf.F, q.ControlADR, q.TNO(), q.Index(),
			q.Data[2], q.Data[3], q.Data[4], q.Data[5],
			q.Data[6], q.Data[7], q.Data[8], q.CRC))
	}
	return lines, true, nil
}
