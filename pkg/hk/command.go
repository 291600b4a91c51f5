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

// Package hk converts raw housekeeping words of the instrument to
// physical units: detector command words to pixel exposure times,
// temperature counts to Kelvin, clock counters to readout delays.
package hk

// The detector command word is transmitted big-endian with bit 0 the
// most significant bit. The layout for channels 1--5:
//
//	bits  0:14  exposure time factor (ETF)
//	bits 14:16  mode (0,1 normal, 2 test, 3 ADC calibration)
//	bits 16:25  section address, virtual channel b starts at 2*section
//	bits 25:30  exposure time ratio between the virtual channels
//	bits 30:32  control
//
// and for channels 6--8:
//
//	bits  0:14  exposure time factor (ETF)
//	bits 14:16  mode (0 normal, 1 hot, 2 test, 3 ADC calibration)
//	bits 16:18  offset compensation mode
//	bits 21:24  fine bias setting
//	bits 26:30  short pixel exposure time exponent (hot mode)
//	bits 30:32  control
const (
	irModeHot = 1

	// FastPET is the fixed exposure time used when ETF is zero
	FastPET = 1.0 / 32

	// HotBasePET is the base exposure time of the infrared hot mode
	HotBasePET = 28.125e-6
)

// VisTiming is the decoded exposure timing of a visible channel (1-5):
// a single exposure time, or two distinct times split at the virtual
// channel boundary.
type VisTiming struct {
	PET      [2]float64
	VirChanB uint16
	Dual     bool
}

// PETAt returns the exposure time applying to a cluster that starts at
// the given pixel index.
func (t VisTiming) PETAt(start uint16) float64 {
	if t.Dual && start >= t.VirChanB {
		return t.PET[1]
	}
	return t.PET[0]
}

// DecodeVisCommand decodes the command word of channels 1-5. It is
// total: every 32-bit input yields positive exposure times.
func DecodeVisCommand(word uint32) VisTiming {
	etf := word >> 18
	section := uint16((word >> 7) & 0x1FF)
	ratio := (word >> 2) & 0x1F

	virChanB := 2 * section
	if etf == 0 {
		return VisTiming{PET: [2]float64{FastPET, FastPET}, VirChanB: virChanB}
	}

	pet := float64(etf) / 16
	if section > 0 && ratio > 1 {
		return VisTiming{
			PET:      [2]float64{pet * float64(ratio), pet},
			VirChanB: virChanB,
			Dual:     true,
		}
	}
	return VisTiming{PET: [2]float64{pet, pet}, VirChanB: virChanB}
}

// DecodeIRCommand decodes the command word of channels 6-8 to a single
// exposure time. It is total: every 32-bit input yields a positive
// exposure time.
func DecodeIRCommand(word uint32) float64 {
	etf := word >> 18
	mode := (word >> 16) & 0x3
	spet := (word >> 2) & 0xF

	if mode == irModeHot {
		if spet > 10 {
			spet = 10
		}
		return HotBasePET * float64(uint32(1)<<spet)
	}
	if etf == 0 {
		return FastPET
	}
	return float64(etf) / 16
}
