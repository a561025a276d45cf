/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"github.com/opticaldump/discdump/pkg/cd"
)

// asusCacheExtract locates the lead-out run inside an LG/ASUS DRAM
// cache snapshot and returns it as consecutive raw sectors in the
// canonical layout. The cache is a ring of raw sectors; the run is
// anchored on the entry whose subchannel Q decodes to the wanted
// address and extended while the positions stay consecutive. Entries
// with an unreadable Q are kept, the ring is positionally ordered.
func asusCacheExtract(cache []byte, lba int32, limit int) []byte {
	entriesCount := len(cache) / cd.CD_RAW_DATA_SIZE
	if entriesCount == 0 {
		return nil
	}

	entryQLBA := func(index int) (int32, bool) {
		entry := cache[index*cd.CD_RAW_DATA_SIZE:]
		q := cd.ParseQ(entry[cd.CD_DATA_SIZE+cd.CD_C2_SIZE : cd.CD_RAW_DATA_SIZE])
		if !q.Valid() || q.ADR() != 1 {
			return 0, false
		}
		return cd.BCDMSFToLBA(q.AbsMSF()), true
	}

	start := -1
	for i := 0; i < entriesCount; i++ {
		if qlba, ok := entryQLBA(i); ok && qlba == lba {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var run []byte
	expected := lba
	for i := 0; i < limit; i++ {
		index := (start + i) % entriesCount
		if qlba, ok := entryQLBA(index); ok && qlba != expected {
			break
		}
		run = append(run, cache[index*cd.CD_RAW_DATA_SIZE:(index+1)*cd.CD_RAW_DATA_SIZE]...)
		expected++
	}
	return run
}
