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

// MJD is an on-board timestamp: days since the 2000-01-01 epoch plus
// seconds and microseconds within the day.
type MJD struct {
	Days   int32
	Secnds uint32
	Musec  uint32
}

func decodeMJD(buf []byte) MJD {
	return MJD{
		Days:   int32(binary.BigEndian.Uint32(buf[0:4])),
		Secnds: binary.BigEndian.Uint32(buf[4:8]),
		Musec:  binary.BigEndian.Uint32(buf[8:12]),
	}
}

// Serialize MJD ...
func (m *MJD) Serialize(buf []byte) error {
	binary.BigEndian.PutUint32(buf[0:4], uint32(m.Days))
	binary.BigEndian.PutUint32(buf[4:8], m.Secnds)
	binary.BigEndian.PutUint32(buf[8:12], m.Musec)
	return nil
}

// Seconds returns the timestamp as seconds since the 2000-01-01 epoch.
func (m *MJD) Seconds() float64 {
	return float64(m.Days)*86400 + float64(m.Secnds) + float64(m.Musec)*1e-6
}

// FEPHdr is the front-end processor header. Length counts the packet
// data field; the full packet occupies Length+39 bytes on disk.
// Quality is a spare field used to carry corruption flags.
type FEPHdr struct {
	MJD     MJD
	Length  uint16
	CRCErrs uint16
	RSErrs  uint16
	Quality uint16
}

func decodeFEPHdr(buf []byte) FEPHdr {
	return FEPHdr{
		MJD:     decodeMJD(buf[0:MJDSize]),
		Length:  binary.BigEndian.Uint16(buf[12:14]),
		CRCErrs: binary.BigEndian.Uint16(buf[14:16]),
		RSErrs:  binary.BigEndian.Uint16(buf[16:18]),
	}
}

// Serialize FEPHdr ...
func (h *FEPHdr) Serialize(buf []byte) error {
	if err := h.MJD.Serialize(buf[0:MJDSize]); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(buf[12:14], h.Length)
	binary.BigEndian.PutUint16(buf[14:16], h.CRCErrs)
	binary.BigEndian.PutUint16(buf[16:18], h.RSErrs)
	binary.BigEndian.PutUint16(buf[18:20], h.Quality)
	return nil
}

// PacketHdr is the source packet identification header.
type PacketHdr struct {
	ID      uint16
	Control uint16
	Length  uint16
}

func decodePacketHdr(buf []byte) PacketHdr {
	return PacketHdr{
		ID:      binary.BigEndian.Uint16(buf[0:2]),
		Control: binary.BigEndian.Uint16(buf[2:4]),
		Length:  binary.BigEndian.Uint16(buf[4:6]),
	}
}

// Serialize PacketHdr ...
func (h *PacketHdr) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], h.ID)
	binary.BigEndian.PutUint16(buf[2:4], h.Control)
	binary.BigEndian.PutUint16(buf[4:6], h.Length)
	return nil
}

// DataHdr is the data field header shared by all three packet kinds.
type DataHdr struct {
	Length     uint16
	Category   uint8
	StateID    uint8
	ICUTime    uint32
	RDV        uint16
	PacketType uint8
	Overflow   uint8
}

// Type extracts the packet kind from the raw packet type field.
func (h *DataHdr) Type() PacketType {
	return PacketType((h.PacketType >> 4) & 0xF)
}

func decodeDataHdr(buf []byte) DataHdr {
	return DataHdr{
		Length:     binary.BigEndian.Uint16(buf[0:2]),
		Category:   buf[2],
		StateID:    buf[3],
		ICUTime:    binary.BigEndian.Uint32(buf[4:8]),
		RDV:        binary.BigEndian.Uint16(buf[8:10]),
		PacketType: buf[10],
		Overflow:   buf[11],
	}
}

// Serialize DataHdr ...
func (h *DataHdr) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], h.Length)
	buf[2] = h.Category
	buf[3] = h.StateID
	binary.BigEndian.PutUint32(buf[4:8], h.ICUTime)
	binary.BigEndian.PutUint16(buf[8:10], h.RDV)
	buf[10] = h.PacketType
	buf[11] = h.Overflow
	return nil
}
