/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/

// Package cmd wires the discdump verbs onto a single cobra command.
// Verbs are positional and run left to right: dump, refine,
// protection, subchannel, plus the delegated split/info/rings/debug
// stages and the cd alias that chains the common pipeline.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDrive     string
	flagSpeed     int
	flagRetries   int
	flagImagePath string
	flagImageName string
	flagOverwrite bool
	flagSkip      string
	flagLBAStart  int32
	flagLBAEnd    int32

	flagRefineSubchannel  bool
	flagDisableCDText     bool
	flagPlextorSkipLeadin bool
	flagASUSSkipLeadout   bool

	flagDriveType        string
	flagDriveReadOffset  int32
	flagDriveC2Shift     int32
	flagDrivePregapStart int32
	flagDriveReadMethod  string
	flagDriveSectorOrder string
	flagDriveProfiles    string

	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "discdump [verbs]",
	Short: "Low-level CD-ROM dumper and refiner",
	Long: `DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Verbs run left to right:
  dump        Dump the disc in the current drive to an image
  refine      Re-read the damaged sectors of an existing image
  protection  Analyze the image for PlayStation protection traits
  subchannel  Print the decoded subchannel Q stream of an image
  cd          Alias for: dump protection refine split info

Examples:
  discdump cd --image-name=my_dump
  discdump dump refine --drive=/dev/sr0 --retries=100
  discdump protection --image-path=dumps --image-name=my_dump
  discdump subchannel --image-name=my_dump -v

Use 'discdump --help' for the full option list.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerbs(cmd, args)
	},
}

// Execute runs the root command, this is the entry point called by
// main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()

	f.StringVar(&flagDrive, "drive", "", "drive to use, first ready drive when omitted")
	f.IntVar(&flagSpeed, "speed", 0, "drive read speed as a x150 KB/s multiplier, drive default when omitted")
	f.IntVar(&flagRetries, "retries", 0, "number of re-read attempts per damaged sector on refine")
	f.StringVar(&flagImagePath, "image-path", "", "directory of the dump files, current directory when omitted")
	f.StringVar(&flagImageName, "image-name", "", "base name of the dump files, generated from timestamp and drive when omitted")
	f.BoolVar(&flagOverwrite, "overwrite", false, "overwrite an existing dump with the same name")
	f.StringVar(&flagSkip, "skip", "", "LBA ranges to skip, inclusive start-end pairs separated by colons (10-20:100-150)")
	f.Int32Var(&flagLBAStart, "lba-start", 0, "override the dump start LBA")
	f.Int32Var(&flagLBAEnd, "lba-end", 0, "override the dump end LBA (exclusive)")

	f.BoolVar(&flagRefineSubchannel, "refine-subchannel", false, "also re-read sectors whose subchannel Q failed the CRC")
	f.BoolVar(&flagDisableCDText, "disable-cdtext", false, "skip the CD-TEXT capture")
	f.BoolVar(&flagPlextorSkipLeadin, "plextor-skip-leadin", false, "skip the Plextor lead-in capture")
	f.BoolVar(&flagASUSSkipLeadout, "asus-skip-leadout", false, "skip the LG/ASUS cache lead-out capture")

	f.StringVar(&flagDriveType, "drive-type", "", "override the detected drive type (PLEXTOR, LG_ASU8, LG_ASU8A, LG_ASU8B, LG_ASU3, GENERIC)")
	f.Int32Var(&flagDriveReadOffset, "drive-read-offset", 0, "override the drive read offset in samples")
	f.Int32Var(&flagDriveC2Shift, "drive-c2-shift", 0, "override the C2 block shift in bytes")
	f.Int32Var(&flagDrivePregapStart, "drive-pregap-start", 0, "override the first lead-in adjacent LBA")
	f.StringVar(&flagDriveReadMethod, "drive-read-method", "", "override the read method (BE, BE_CDDA, D8)")
	f.StringVar(&flagDriveSectorOrder, "drive-sector-order", "", "override the raw sector order (DATA_C2_SUB, DATA_SUB_C2, DATA_SUB, DATA_C2)")
	f.StringVar(&flagDriveProfiles, "drive-profiles", "", "YAML file with additional drive profiles overlaid on the builtin table")

	f.BoolVarP(&flagVerbose, "verbose", "v", false, "enable per-sector debug output")
}
