/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "entries"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteReadEntry(t *testing.T) {
	f := tempFile(t)

	src := []byte{1, 2, 3, 4}
	require.NoError(t, WriteEntry(f, src, 4, 2, 0))

	dst := make([]byte, 4)
	require.NoError(t, ReadEntry(f, dst, 4, 2, 0, 0xFF))
	assert.Equal(t, src, dst)
}

func TestReadEntryBeforeFileStart(t *testing.T) {
	f := tempFile(t)
	require.NoError(t, WriteEntry(f, []byte{1, 2, 3, 4}, 4, 0, 0))

	// the first half of the entry falls before position zero and comes
	// back as fill
	dst := make([]byte, 4)
	require.NoError(t, ReadEntry(f, dst, 4, 0, -2, 0xEE))
	assert.Equal(t, []byte{0xEE, 0xEE, 1, 2}, dst)

	// entirely before the file
	require.NoError(t, ReadEntry(f, dst, 4, -2, 0, 0xEE))
	assert.Equal(t, []byte{0xEE, 0xEE, 0xEE, 0xEE}, dst)
}

func TestReadEntryPastEOF(t *testing.T) {
	f := tempFile(t)
	require.NoError(t, WriteEntry(f, []byte{1, 2, 3, 4}, 4, 0, 0))

	dst := make([]byte, 4)
	require.NoError(t, ReadEntry(f, dst, 4, 0, 2, 0xAA))
	assert.Equal(t, []byte{3, 4, 0xAA, 0xAA}, dst)

	require.NoError(t, ReadEntry(f, dst, 4, 5, 0, 0xAA))
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA, 0xAA}, dst)
}

func TestWriteEntryNegativeOffset(t *testing.T) {
	f := tempFile(t)

	// the portion before position zero is discarded
	require.NoError(t, WriteEntry(f, []byte{1, 2, 3, 4}, 4, 0, -2))

	dst := make([]byte, 2)
	require.NoError(t, ReadEntry(f, dst, 2, 0, 0, 0xFF))
	assert.Equal(t, []byte{3, 4}, dst)

	require.NoError(t, WriteEntry(f, []byte{1, 2}, 2, -3, 0))
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())
}
