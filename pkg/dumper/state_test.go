/*
DiscDump - A low-level CD-ROM dumper and refiner with PlayStation disc analysis.

Copyright © 2025 DiscDump Authors
*/
package dumper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opticaldump/discdump/pkg/cd"
)

func TestStateFromC2Clean(t *testing.T) {
	state := make([]State, cd.CD_DATA_SIZE_SAMPLES)
	fillState(state, SUCCESS)

	count := StateFromC2(state, make([]byte, cd.CD_C2_SIZE))
	assert.Equal(t, uint32(0), count)
	for _, s := range state {
		assert.Equal(t, SUCCESS, s)
	}
}

func TestStateFromC2NibbleGrouping(t *testing.T) {
	state := make([]State, cd.CD_DATA_SIZE_SAMPLES)
	fillState(state, SUCCESS)

	c2 := make([]byte, cd.CD_C2_SIZE)
	// high nibble covers the even sample, low nibble the odd one
	c2[0] = 0xF0
	c2[1] = 0x01
	c2[293] = 0x0F

	count := StateFromC2(state, c2)
	assert.Equal(t, uint32(4+1+4), count)

	assert.Equal(t, ERROR_C2, state[0])
	assert.Equal(t, SUCCESS, state[1])
	assert.Equal(t, SUCCESS, state[2])
	assert.Equal(t, ERROR_C2, state[3])
	assert.Equal(t, SUCCESS, state[586])
	assert.Equal(t, ERROR_C2, state[587])
}

func TestStateFromC2SingleBit(t *testing.T) {
	state := make([]State, cd.CD_DATA_SIZE_SAMPLES)
	fillState(state, SUCCESS)

	c2 := make([]byte, cd.CD_C2_SIZE)
	c2[0] = 0x80

	count := StateFromC2(state, c2)
	assert.Equal(t, uint32(1), count)
	assert.Equal(t, ERROR_C2, state[0])
	assert.Equal(t, SUCCESS, state[1])
}

func TestStateBytesRoundTrip(t *testing.T) {
	state := []State{ERROR_SKIP, ERROR_C2, SUCCESS_C2_OFF, SUCCESS_SCSI_OFF, SUCCESS}
	buf := stateBytes(state)
	assert.Equal(t, []byte{0, 1, 2, 3, 4}, buf)

	decoded := make([]State, len(buf))
	statesFromBytes(buf, decoded)
	assert.Equal(t, state, decoded)
}
