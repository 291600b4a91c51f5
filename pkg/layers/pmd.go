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

package layers

import (
	"encoding/binary"
)

// PMDData is one sample of the polarisation measurement devices: two
// readings of the seven diodes.
type PMDData struct {
	Sync uint16
	Data [2][7]uint16
	BCPS uint16
	Time uint16
}

func decodePMDData(buf []byte) PMDData {
	pmd := PMDData{Sync: binary.BigEndian.Uint16(buf[0:2])}
	offs := 2
	for ni := 0; ni < 2; ni++ {
		for nj := 0; nj < 7; nj++ {
			pmd.Data[ni][nj] = binary.BigEndian.Uint16(buf[offs : offs+2])
			offs += 2
		}
	}
	pmd.BCPS = binary.BigEndian.Uint16(buf[offs : offs+2])
	pmd.Time = binary.BigEndian.Uint16(buf[offs+2 : offs+4])
	return pmd
}

// Serialize PMDData ...
func (p *PMDData) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], p.Sync)
	offs := 2
	for ni := 0; ni < 2; ni++ {
		for nj := 0; nj < 7; nj++ {
			binary.BigEndian.PutUint16(buf[offs:offs+2], p.Data[ni][nj])
			offs += 2
		}
	}
	binary.BigEndian.PutUint16(buf[offs:offs+2], p.BCPS)
	binary.BigEndian.PutUint16(buf[offs+2:offs+4], p.Time)
	return nil
}

// PMDSource is the payload of a PMD packet: a temperature count and a
// fixed run of two hundred samples.
type PMDSource struct {
	Temp    uint16
	Packets [NumPMDPackets]PMDData
}

// PMDPayloadSize is the fixed PMD payload byte count
const PMDPayloadSize = 2 + NumPMDPackets*PMDDataSize

func decodePMD(payload []byte) (*PMDSource, error) {
	if len(payload) < PMDPayloadSize {
		return nil, ErrPacketTooShort{Need: PMDPayloadSize, Have: len(payload)}
	}
	pmd := &PMDSource{Temp: binary.BigEndian.Uint16(payload[0:2])}
	offs := 2
	for ni := 0; ni < NumPMDPackets; ni++ {
		pmd.Packets[ni] = decodePMDData(payload[offs : offs+PMDDataSize])
		offs += PMDDataSize
	}
	return pmd, nil
}

// Serialize PMDSource ...
func (p *PMDSource) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], p.Temp)
	offs := 2
	for ni := range p.Packets {
		if err := p.Packets[ni].Serialize(buf[offs : offs+PMDDataSize]); err != nil {
			return err
		}
		offs += PMDDataSize
	}
	return nil
}
