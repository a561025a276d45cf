/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opticaldump/discdump/pkg/cd"
	"github.com/opticaldump/discdump/pkg/common"
	"github.com/opticaldump/discdump/pkg/drive"
	"github.com/opticaldump/discdump/pkg/dumper"
	"github.com/opticaldump/discdump/pkg/psx"
)

// cdAlias is the verb chain the cd shortcut expands to. split and
// info belong to the track splitter, the runner logs the delegation.
var cdAlias = []string{"dump", "protection", "refine", "split", "info"}

var delegatedVerbs = map[string]bool{
	"split": true, "info": true, "rings": true, "debug": true,
}

func expandVerbs(args []string) ([]string, error) {
	var verbs []string
	for _, arg := range args {
		if arg == "cd" {
			verbs = append(verbs, cdAlias...)
			continue
		}
		switch arg {
		case "dump", "refine", "protection", "subchannel":
		default:
			if !delegatedVerbs[arg] {
				return nil, fmt.Errorf("unknown verb: %s", arg)
			}
		}
		verbs = append(verbs, arg)
	}
	return verbs, nil
}

// sanitizeDriveName turns a drive path into a token usable inside a
// file name
func sanitizeDriveName(path string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, path)
	return strings.Trim(name, "_")
}

// buildOptions assembles the engine options from the root command
// flags. A drive is auto selected only when some verb reads the disc,
// and the image name is generated only for a fresh dump, so every verb
// sees the same resolved values.
func buildOptions(cmd *cobra.Command, verbs []string) (*dumper.Options, error) {
	driveRequired := false
	nameGenerate := false
	for _, verb := range verbs {
		if verb == "dump" || verb == "refine" || verb == "rings" {
			driveRequired = true
		}
		if verb == "dump" {
			nameGenerate = true
		}
	}

	options := &dumper.Options{
		Drive:     flagDrive,
		Speed:     flagSpeed,
		Retries:   flagRetries,
		ImagePath: flagImagePath,
		ImageName: flagImageName,
		Overwrite: flagOverwrite,

		RefineSubchannel:  flagRefineSubchannel,
		DisableCDText:     flagDisableCDText,
		PlextorSkipLeadin: flagPlextorSkipLeadin,
		ASUSSkipLeadout:   flagASUSSkipLeadout,
	}

	if flagSkip != "" {
		skip, err := cd.ParseRanges(flagSkip)
		if err != nil {
			return nil, err
		}
		options.Skip = skip
	}

	changed := cmd.Flags().Changed
	if changed("lba-start") {
		v := flagLBAStart
		options.LBAStart = &v
	}
	if changed("lba-end") {
		v := flagLBAEnd
		options.LBAEnd = &v
	}

	if flagDriveType != "" {
		t, err := drive.ParseType(flagDriveType)
		if err != nil {
			return nil, err
		}
		options.Overrides.Type = &t
	}
	if changed("drive-read-offset") {
		v := flagDriveReadOffset
		options.Overrides.ReadOffset = &v
	}
	if changed("drive-c2-shift") {
		v := flagDriveC2Shift
		options.Overrides.C2Shift = &v
	}
	if changed("drive-pregap-start") {
		v := flagDrivePregapStart
		options.Overrides.PregapStart = &v
	}
	if flagDriveReadMethod != "" {
		m, err := drive.ParseReadMethod(flagDriveReadMethod)
		if err != nil {
			return nil, err
		}
		options.Overrides.ReadMethod = &m
	}
	if flagDriveSectorOrder != "" {
		o, err := drive.ParseSectorOrder(flagDriveSectorOrder)
		if err != nil {
			return nil, err
		}
		options.Overrides.SectorOrder = &o
	}

	if driveRequired && options.Drive == "" {
		selected := drive.FirstReadyDrive()
		if selected == "" {
			return nil, fmt.Errorf("%s", common.ErrNoReadyDrive)
		}
		options.Drive = selected
		common.LogInfo("%s: %s", common.InfoDriveSelected, selected)
	}

	if nameGenerate && options.ImageName == "" {
		options.ImageName = fmt.Sprintf("dump_%s_%s",
			time.Now().Format("060102_150405"), sanitizeDriveName(options.Drive))
		common.LogInfo("%s: %s", common.InfoImageName, options.ImageName)
	}

	return options, nil
}

// openDrive opens the transport of the selected drive and checks it is
// ready to read
func openDrive(options *dumper.Options) (drive.Transport, error) {
	t, err := drive.Open(options.Drive)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenDrive, err)
	}
	if status := t.Ready(); !status.OK() {
		t.Close()
		return nil, common.FormatError(common.ErrDriveNotReady, drive.StatusMessage(status))
	}
	return t, nil
}

// runVerbs executes the positional verbs left to right over one shared
// option set. A dump that completes without media errors marks a
// following refine as unnecessary.
func runVerbs(cmd *cobra.Command, args []string) error {
	common.SetVerboseMode(flagVerbose)

	if flagDriveProfiles != "" {
		if err := drive.LoadProfiles(flagDriveProfiles); err != nil {
			return err
		}
	}

	verbs, err := expandVerbs(args)
	if err != nil {
		return err
	}

	options, err := buildOptions(cmd, verbs)
	if err != nil {
		return err
	}

	if options.ImagePath != "" {
		if err := os.MkdirAll(options.ImagePath, 0o755); err != nil {
			return common.FormatError(common.ErrFailedToCreateDumpFile, err)
		}
	}
	if err := common.ResetLogFile(options.ImagePrefix() + ".log"); err != nil {
		return err
	}
	defer common.CloseLogFile()

	refineNeeded := true
	for _, verb := range verbs {
		common.LogInfo("*** %s", strings.ToUpper(verb))

		switch verb {
		case "dump":
			t, err := openDrive(options)
			if err != nil {
				return err
			}
			refineNeeded, err = dumper.Dump(t, options, false)
			t.Close()
			if err != nil {
				return err
			}
			common.LogInfo(common.InfoDumpComplete)

		case "refine":
			if !refineNeeded {
				common.LogInfo("nothing to refine, skipping")
				continue
			}
			t, err := openDrive(options)
			if err != nil {
				return err
			}
			refineNeeded, err = dumper.Dump(t, options, true)
			t.Close()
			if err != nil {
				return err
			}
			common.LogInfo(common.InfoRefineComplete)

		case "protection":
			if err := psx.Analyze(options.ImagePrefix(), options.ImageName); err != nil {
				return err
			}

		case "subchannel":
			if err := dumper.Subchannel(options); err != nil {
				return err
			}

		default:
			common.LogInfo(common.InfoStagesDelegated)
		}
	}

	return nil
}
