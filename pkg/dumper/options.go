/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"path/filepath"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/drive"
)

// Options carries everything one dump or refine invocation needs
// beyond the transport itself. Pointer fields distinguish "not set"
// from a zero value.
type Options struct {
	Drive     string
	Speed     int
	Retries   int
	ImagePath string
	ImageName string

	Overwrite bool

	Skip     []cd.Range
	LBAStart *int32
	LBAEnd   *int32

	RefineSubchannel  bool
	DisableCDText     bool
	PlextorSkipLeadin bool
	ASUSSkipLeadout   bool

	Overrides drive.Overrides
}

// ImagePrefix joins the image path and name into the common prefix all
// dump files share
func (o *Options) ImagePrefix() string {
	return filepath.Join(o.ImagePath, o.ImageName)
}
