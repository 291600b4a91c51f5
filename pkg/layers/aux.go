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

// AuxPMTCHdr is the auxiliary measurement timing and control header.
type AuxPMTCHdr struct {
	PMTC1       uint16
	ScannerMode uint16
	AzParam     uint32
	ElevParam   uint32
	Factors     [6]uint8
}

func decodeAuxPMTCHdr(buf []byte) AuxPMTCHdr {
	hdr := AuxPMTCHdr{
		PMTC1:       binary.BigEndian.Uint16(buf[0:2]),
		ScannerMode: binary.BigEndian.Uint16(buf[2:4]),
		AzParam:     binary.BigEndian.Uint32(buf[4:8]),
		ElevParam:   binary.BigEndian.Uint32(buf[8:12]),
	}
	copy(hdr.Factors[:], buf[12:18])
	return hdr
}

// Serialize AuxPMTCHdr ...
func (h *AuxPMTCHdr) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], h.PMTC1)
	binary.BigEndian.PutUint16(buf[2:4], h.ScannerMode)
	binary.BigEndian.PutUint32(buf[4:8], h.AzParam)
	binary.BigEndian.PutUint32(buf[8:12], h.ElevParam)
	copy(buf[12:18], h.Factors[:])
	return nil
}

// AuxBCP is one broadcast pulse sample of the scanner control loop.
type AuxBCP struct {
	Sync         uint16
	BCPS         uint16
	Flags        uint16
	EncodeCntr   [6]uint8
	AziCntrError uint16
	EleCntrError uint16
	AziScanError uint16
	EleScanError uint16
}

func decodeAuxBCP(buf []byte) AuxBCP {
	bcp := AuxBCP{
		Sync:  binary.BigEndian.Uint16(buf[0:2]),
		BCPS:  binary.BigEndian.Uint16(buf[2:4]),
		Flags: binary.BigEndian.Uint16(buf[4:6]),
	}
	copy(bcp.EncodeCntr[:], buf[6:12])
	bcp.AziCntrError = binary.BigEndian.Uint16(buf[12:14])
	bcp.EleCntrError = binary.BigEndian.Uint16(buf[14:16])
	bcp.AziScanError = binary.BigEndian.Uint16(buf[16:18])
	bcp.EleScanError = binary.BigEndian.Uint16(buf[18:20])
	return bcp
}

// Serialize AuxBCP ...
func (b *AuxBCP) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], b.Sync)
	binary.BigEndian.PutUint16(buf[2:4], b.BCPS)
	binary.BigEndian.PutUint16(buf[4:6], b.Flags)
	copy(buf[6:12], b.EncodeCntr[:])
	binary.BigEndian.PutUint16(buf[12:14], b.AziCntrError)
	binary.BigEndian.PutUint16(buf[14:16], b.EleCntrError)
	binary.BigEndian.PutUint16(buf[16:18], b.AziScanError)
	binary.BigEndian.PutUint16(buf[18:20], b.EleScanError)
	return nil
}

// PMTCFrame groups sixteen broadcast pulse samples with the optical
// bench positions.
type PMTCFrame struct {
	BCP      [NumAuxBCP]AuxBCP
	BenchRad uint16
	BenchElv uint16
	BenchAz  uint16
}

func decodePMTCFrame(buf []byte) PMTCFrame {
	var frame PMTCFrame
	for ni := 0; ni < NumAuxBCP; ni++ {
		frame.BCP[ni] = decodeAuxBCP(buf[ni*AuxBCPSize : (ni+1)*AuxBCPSize])
	}
	offs := NumAuxBCP * AuxBCPSize
	frame.BenchRad = binary.BigEndian.Uint16(buf[offs : offs+2])
	frame.BenchElv = binary.BigEndian.Uint16(buf[offs+2 : offs+4])
	frame.BenchAz = binary.BigEndian.Uint16(buf[offs+4 : offs+6])
	return frame
}

// Serialize PMTCFrame ...
func (f *PMTCFrame) Serialize(buf []byte) error {
	for ni := range f.BCP {
		if err := f.BCP[ni].Serialize(buf[ni*AuxBCPSize : (ni+1)*AuxBCPSize]); err != nil {
			return err
		}
	}
	offs := NumAuxBCP * AuxBCPSize
	binary.BigEndian.PutUint16(buf[offs:offs+2], f.BenchRad)
	binary.BigEndian.PutUint16(buf[offs+2:offs+4], f.BenchElv)
	binary.BigEndian.PutUint16(buf[offs+4:offs+6], f.BenchAz)
	return nil
}

// AuxSource is the payload of an auxiliary packet: five fixed frames.
type AuxSource struct {
	PMTCHdr AuxPMTCHdr
	Frames  [NumAuxFrames]PMTCFrame
}

// AuxPayloadSize is the fixed auxiliary payload byte count
const AuxPayloadSize = AuxPMTCHdrSize + NumAuxFrames*PMTCFrameSize

func decodeAux(payload []byte) (*AuxSource, error) {
	if len(payload) < AuxPayloadSize {
		return nil, ErrPacketTooShort{Need: AuxPayloadSize, Have: len(payload)}
	}
	aux := &AuxSource{PMTCHdr: decodeAuxPMTCHdr(payload)}
	offs := AuxPMTCHdrSize
	for ni := 0; ni < NumAuxFrames; ni++ {
		aux.Frames[ni] = decodePMTCFrame(payload[offs : offs+PMTCFrameSize])
		offs += PMTCFrameSize
	}
	return aux, nil
}

// Serialize AuxSource ...
func (a *AuxSource) Serialize(buf []byte) error {
	if err := a.PMTCHdr.Serialize(buf[0:AuxPMTCHdrSize]); err != nil {
		return err
	}
	offs := AuxPMTCHdrSize
	for ni := range a.Frames {
		if err := a.Frames[ni].Serialize(buf[offs : offs+PMTCFrameSize]); err != nil {
			return err
		}
		offs += PMTCFrameSize
	}
	return nil
}
