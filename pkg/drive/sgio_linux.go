/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package drive

import (
	"fmt"
	"path/filepath"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
)

const (
	sgInterfaceID  = int32('S')
	sgIOCtl        = 0x2285
	sgDxferNone    = -1
	sgDxferFromDev = -3

	// per command timeout in milliseconds
	sgTimeout = 60000

	senseBufferSize = 32
	asusCacheChunk  = 64 * 1024
)

// sgIOHdr mirrors struct sg_io_hdr from <scsi/sg.h>
type sgIOHdr struct {
	interfaceID    int32
	dxferDirection int32
	cmdLen         uint8
	mxSBLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         uintptr
	cmdp           uintptr
	sbp            uintptr
	timeout        uint32
	flags          uint32
	packID         int32
	_              [4]byte
	usrPtr         uintptr
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
}

// SGIO is the Linux SCSI generic pass-through transport
type SGIO struct {
	path string
	fd   int
}

// Open opens an optical drive for pass-through access
func Open(path string) (*SGIO, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", common.ErrFailedToOpenDrive, path, err)
	}
	return &SGIO{path: path, fd: fd}, nil
}

// Close releases the device
func (s *SGIO) Close() error {
	return unix.Close(s.fd)
}

// Path returns the device path the transport was opened with
func (s *SGIO) Path() string {
	return s.path
}

// sendCommand issues one CDB and transfers data in from the device
// when dst is non-empty
func (s *SGIO) sendCommand(cdb []byte, dst []byte) Status {
	var sense [senseBufferSize]byte

	hdr := sgIOHdr{
		interfaceID: sgInterfaceID,
		cmdLen:      uint8(len(cdb)),
		mxSBLen:     senseBufferSize,
		cmdp:        uintptr(unsafe.Pointer(&cdb[0])),
		sbp:         uintptr(unsafe.Pointer(&sense[0])),
		timeout:     sgTimeout,
	}
	if len(dst) > 0 {
		hdr.dxferDirection = sgDxferFromDev
		hdr.dxferLen = uint32(len(dst))
		hdr.dxferp = uintptr(unsafe.Pointer(&dst[0]))
	} else {
		hdr.dxferDirection = sgDxferNone
	}

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), sgIOCtl, uintptr(unsafe.Pointer(&hdr)))
	if errno != 0 {
		return Status{StatusCode: 0xFF}
	}
	if hdr.status == 0 && hdr.hostStatus == 0 && hdr.driverStatus == 0 {
		return Status{}
	}
	status := hdr.status
	if status == 0 {
		status = 0xFF
	}
	return parseSense(status, sense[:hdr.sbLenWr])
}

// Ready issues TEST UNIT READY
func (s *SGIO) Ready() Status {
	return s.sendCommand(BuildTestUnitReady(), nil)
}

// SetSpeed issues SET CD SPEED
func (s *SGIO) SetSpeed(speed uint16) Status {
	return s.sendCommand(BuildSetCDSpeed(speed), nil)
}

// Inquiry returns the drive identification
func (s *SGIO) Inquiry() (InquiryData, Status) {
	buf := make([]byte, 36)
	status := s.sendCommand(BuildInquiry(), buf)
	if !status.OK() {
		return InquiryData{}, status
	}
	return ParseInquiry(buf), status
}

// readTOCResponse issues one of the READ TOC format commands and trims
// the response to its reported length
func (s *SGIO) readTOCResponse(cdb []byte, allocation int) ([]byte, Status) {
	buf := make([]byte, allocation)
	status := s.sendCommand(cdb, buf)
	if !status.OK() {
		return nil, status
	}
	dataLen, err := common.ReadUint16BE(buf, 0)
	if err != nil {
		return nil, Status{StatusCode: 0xFF}
	}
	end := int(dataLen) + 2
	if end > len(buf) {
		end = len(buf)
	}
	return buf[:end], status
}

// ReadTOC returns the raw short TOC response
func (s *SGIO) ReadTOC() ([]byte, Status) {
	return s.readTOCResponse(BuildReadTOC(1020), 1020)
}

// ReadFullTOC returns the raw FULL TOC response
func (s *SGIO) ReadFullTOC() ([]byte, Status) {
	return s.readTOCResponse(BuildReadFullTOC(4096), 4096)
}

// ReadCDText returns the raw CD-TEXT response
func (s *SGIO) ReadCDText() ([]byte, Status) {
	return s.readTOCResponse(BuildReadCDText(0xFFFF), 0xFFFF)
}

// ReadCD reads count raw sectors starting at lba into dst
func (s *SGIO) ReadCD(dst []byte, lba int32, count uint32, sectorType ExpectedSectorType, errorField ErrorField, subChannel SubChannelMode) Status {
	return s.sendCommand(BuildReadCD(lba, count, sectorType, errorField, subChannel), dst)
}

// ReadCDDA reads count raw sectors via the Plextor D8 command
func (s *SGIO) ReadCDDA(dst []byte, lba int32, count uint32, subCode ReadCDDASubCode) Status {
	return s.sendCommand(BuildPlextorReadCDDA(lba, count, subCode), dst)
}

// FlushCache drops the drive cache by forcing a media access at lba
func (s *SGIO) FlushCache(lba int32) Status {
	return s.sendCommand(BuildFlushCache(lba), nil)
}

// ReadLeadin captures count lead-in adjacent sectors one at a time,
// recording the per sector command status in front of each raw frame
func (s *SGIO) ReadLeadin(count uint32) ([]byte, Status) {
	buffer := make([]byte, 0, int(count)*PLEXTOR_LEADIN_ENTRY_SIZE)
	frame := make([]byte, cd.CD_RAW_DATA_SIZE)
	for i := uint32(0); i < count; i++ {
		lba := -int32(count-i) - cd.MSF_LBA_SHIFT
		status := s.ReadCDDA(frame, lba, 1, READ_CDDA_DATA_C2_SUB)
		entry := [4]byte{status.StatusCode, status.SenseKey, status.ASC, status.ASCQ}
		buffer = append(buffer, entry[:]...)
		buffer = append(buffer, frame...)
	}
	return buffer, Status{}
}

// CacheRead snapshots the drive DRAM cache in chunks
func (s *SGIO) CacheRead(driveType Type) ([]byte, Status) {
	size := AsusCacheSize(driveType)
	cache := make([]byte, size)
	for offset := 0; offset < size; offset += asusCacheChunk {
		chunk := cache[offset : offset+asusCacheChunk]
		status := s.sendCommand(BuildAsusReadCache(uint32(offset), asusCacheChunk), chunk)
		if !status.OK() {
			return nil, status
		}
	}
	return cache, Status{}
}

// ListDrives returns the optical drive device paths present on the
// system
func ListDrives() []string {
	drives, _ := filepath.Glob("/dev/sr*")
	sort.Strings(drives)
	return drives
}

// FirstReadyDrive returns the path of the first drive that reports
// ready, or empty when none do
func FirstReadyDrive() string {
	for _, path := range ListDrives() {
		sgio, err := Open(path)
		if err != nil {
			continue
		}
		status := sgio.Ready()
		sgio.Close()
		if status.OK() {
			return path
		}
	}
	return ""
}
