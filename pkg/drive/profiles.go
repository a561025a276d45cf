/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package drive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opticaldump/discdump/pkg/common"
)

// profileFile is the YAML document layout of a drive profile overlay
type profileFile struct {
	Drives []profileEntry `yaml:"drives"`
}

// profileEntry describes one drive in a profile overlay file
type profileEntry struct {
	Vendor      string `yaml:"vendor"`
	Product     string `yaml:"product"`
	Type        string `yaml:"type"`
	ReadMethod  string `yaml:"read_method"`
	SectorOrder string `yaml:"sector_order"`
	ReadOffset  int32  `yaml:"read_offset"`
	C2Shift     int32  `yaml:"c2_shift"`
	PregapStart int32  `yaml:"pregap_start"`
}

// LoadProfiles merges a YAML drive profile overlay over the builtin
// vendor table. Overlay entries win over builtin entries with the same
// vendor and product identification.
func LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.FormatError(common.ErrFailedToLoadProfiles, err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return common.FormatError(common.ErrFailedToParseYAML, err)
	}

	for _, entry := range file.Drives {
		config, err := entry.toConfig()
		if err != nil {
			return common.FormatError(common.ErrFailedToLoadProfiles, err)
		}
		replaced := false
		for i := range knownDrives {
			if knownDrives[i].Vendor == config.Vendor && knownDrives[i].Product == config.Product {
				knownDrives[i] = config
				replaced = true
				break
			}
		}
		if !replaced {
			knownDrives = append(knownDrives, config)
		}
		common.LogDebug("drive profile loaded: %s - %s", config.Vendor, config.Product)
	}

	return nil
}

func (e profileEntry) toConfig() (Config, error) {
	if e.Vendor == "" || e.Product == "" {
		return Config{}, fmt.Errorf("profile entry is missing vendor or product")
	}
	driveType, err := ParseType(e.Type)
	if err != nil {
		return Config{}, err
	}
	readMethod, err := ParseReadMethod(e.ReadMethod)
	if err != nil {
		return Config{}, err
	}
	sectorOrder, err := ParseSectorOrder(e.SectorOrder)
	if err != nil {
		return Config{}, err
	}
	pregapStart := e.PregapStart
	if pregapStart == 0 {
		pregapStart = defaultConfig.PregapStart
	}
	return Config{
		Vendor:      e.Vendor,
		Product:     e.Product,
		Type:        driveType,
		ReadMethod:  readMethod,
		SectorOrder: sectorOrder,
		ReadOffset:  e.ReadOffset,
		C2Shift:     e.C2Shift,
		PregapStart: pregapStart,
	}, nil
}
