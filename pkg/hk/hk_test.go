/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package hk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visWord assembles a command word for channels 1-5 from its fields.
func visWord(etf, section, ratio uint32) uint32 {
	return etf<<18 | section<<7 | ratio<<2
}

// irWord assembles a command word for channels 6-8 from its fields.
func irWord(etf, mode, spet uint32) uint32 {
	return etf<<18 | mode<<16 | spet<<2
}

func TestDecodeVisCommandFast(t *testing.T) {
	// zero ETF forces the fast exposure time whatever the other bits say
	timing := DecodeVisCommand(visWord(0, 100, 5))
	assert.False(t, timing.Dual)
	assert.Equal(t, FastPET, timing.PETAt(0))
	assert.Equal(t, FastPET, timing.PETAt(500))
}

func TestDecodeVisCommandSingle(t *testing.T) {
	timing := DecodeVisCommand(visWord(16, 0, 1))
	assert.False(t, timing.Dual)
	assert.Equal(t, 1.0, timing.PETAt(0))
	assert.Equal(t, 1.0, timing.PETAt(1023))
}

func TestDecodeVisCommandDual(t *testing.T) {
	timing := DecodeVisCommand(visWord(8, 128, 2))
	require.True(t, timing.Dual)
	assert.Equal(t, uint16(256), timing.VirChanB)
	assert.Equal(t, 1.0, timing.PET[0])
	assert.Equal(t, 0.5, timing.PET[1])
	assert.Equal(t, 1.0, timing.PETAt(100))
	assert.Equal(t, 0.5, timing.PETAt(256))
	assert.Equal(t, 0.5, timing.PETAt(874))
}

func TestDecodeIRCommand(t *testing.T) {
	assert.Equal(t, HotBasePET*16, DecodeIRCommand(irWord(0, 1, 4)))
	// the short exposure exponent is clamped to 10
	assert.Equal(t, HotBasePET*1024, DecodeIRCommand(irWord(0, 1, 15)))
	assert.Equal(t, FastPET, DecodeIRCommand(irWord(0, 0, 0)))
	assert.Equal(t, 1.5, DecodeIRCommand(irWord(24, 0, 0)))
}

func TestCommandTotality(t *testing.T) {
	// decoding never fails and always yields positive exposure times
	word := uint32(0)
	for ni := 0; ni < 100000; ni++ {
		word += 2654435761

		timing := DecodeVisCommand(word)
		assert.Greater(t, timing.PET[0], 0.0, "word %#x", word)
		assert.Greater(t, timing.PET[1], 0.0, "word %#x", word)
		assert.Greater(t, DecodeIRCommand(word), 0.0, "word %#x", word)
	}
}

func TestDetectorTemperature(t *testing.T) {
	tests := []struct {
		channel int
		raw     uint16
		want    float64
	}{
		{1, 0, 179},
		{1, 17876, 180},
		{1, 18312, 185},
		{1, 28259, 330},
		{1, 65535, 331},
		{3, 20601, 210},
		{8, 13129, 130},
	}
	for _, tc := range tests {
		temp, err := DetectorTemperature(tc.channel, tc.raw)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, temp, 1e-9, "channel %d raw %d", tc.channel, tc.raw)
	}

	// interpolation between sample points
	temp, err := DetectorTemperature(1, 18527)
	require.NoError(t, err)
	assert.InDelta(t, 185+5*float64(18527-18312)/float64(18741-18312), temp, 1e-9)

	for _, channel := range []int{0, 9, -1} {
		_, err := DetectorTemperature(channel, 0)
		assert.Equal(t, ErrInvalidChannel{Channel: channel}, err)
	}
}

func TestReadoutDelay(t *testing.T) {
	tests := []struct {
		stateID int
		counts  uint16
	}{
		{1, 86},
		{58, 86},
		{59, 111},
		{61, 303},
		{69, 111},
		{70, 303},
	}
	for _, tc := range tests {
		delay, err := ReadoutDelay(tc.stateID)
		require.NoError(t, err)
		assert.InDelta(t, hwDelay+float64(tc.counts)/256, delay, 1e-12, "state %d", tc.stateID)
	}

	for _, stateID := range []int{0, 71} {
		_, err := ReadoutDelay(stateID)
		assert.Equal(t, ErrInvalidStateID{StateID: stateID}, err)
	}
}

func TestReadoutTime(t *testing.T) {
	offs, err := ReadoutTime(1, 32)
	require.NoError(t, err)
	assert.InDelta(t, 2+hwDelay+86.0/256, offs, 1e-12)

	_, err = ReadoutTime(0, 32)
	assert.Error(t, err)
}
