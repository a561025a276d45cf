/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"fmt"
	"time"

	"github.com/theckman/yacspin"
)

// progressLine owns the single carriage-return status line shown while
// a dump or refine runs. The line never goes to the log file.
type progressLine struct {
	spinner *yacspin.Spinner
}

func startProgress() *progressLine {
	settings := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return &progressLine{}
	}
	if err := spinner.Start(); err != nil {
		return &progressLine{}
	}
	return &progressLine{spinner: spinner}
}

// Update repaints the status line
func (p *progressLine) Update(percent int, lba, lbaEnd int32, errorsSCSI, errorsC2, errorsQ uint32) {
	if p.spinner == nil {
		return
	}
	p.spinner.Message(fmt.Sprintf("[%3d%%] LBA: %6d/%d, errors: { SCSI: %d, C2: %d, Q: %d }",
		percent, lba, lbaEnd, errorsSCSI, errorsC2, errorsQ))
}

// Stop finalizes the status line, marking it failed when media errors
// remain
func (p *progressLine) Stop(failed bool) {
	if p.spinner == nil {
		return
	}
	if failed {
		p.spinner.StopFail()
		return
	}
	p.spinner.Stop()
}

func percentage(value, total int32) int {
	if total <= 0 {
		return 100
	}
	if value < 0 {
		return 0
	}
	return int(int64(value) * 100 / int64(total))
}
