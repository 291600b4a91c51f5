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

// Package layers decodes the binary source packet segment of a level 0
// product: detector, auxiliary and PMD packets, each a fixed common
// header followed by a type-specific payload.
package layers

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"sron.nl/atmos/go-scia/pkg/log"
)

// SourcePacket is one telemetry unit: the 50 byte common header and
// exactly one of the three payload kinds.
type SourcePacket struct {
	ISP       MJD
	FEPHdr    FEPHdr
	PacketHdr PacketHdr
	DataHdr   DataHdr

	// SourcePacket carries either Det, Aux or PMD, never more than one
	Det *DetectorSource
	Aux *AuxSource
	PMD *PMDSource
}

// BCPS returns the broadcast pulse counter of the packet, located in a
// type-specific spot of the payload.
func (p *SourcePacket) BCPS() uint16 {
	switch {
	case p.Det != nil:
		return p.Det.PMTCHdr.BCPS
	case p.Aux != nil:
		return p.Aux.Frames[0].BCP[0].BCPS
	case p.PMD != nil:
		return p.PMD.Packets[0].BCPS
	}
	return 0
}

// PayloadSize returns the serialized payload byte count of the packet.
func (p *SourcePacket) PayloadSize() int {
	switch {
	case p.Det != nil:
		return p.Det.PayloadSize()
	case p.Aux != nil:
		return AuxPayloadSize
	case p.PMD != nil:
		return PMDPayloadSize
	}
	return 0
}

// SourcePacketLayer ...
type SourcePacketLayer struct {
	layers.BaseLayer
	Packets []*SourcePacket
}

var SourcePacketLayerType = gopacket.RegisterLayerType(SourcePacketLayerNum,
	gopacket.LayerTypeMetadata{Name: "SourcePacketLayerType", Decoder: gopacket.DecodeFunc(DecodeSourcePacketLayer)})

// LayerType returns the type of the source packet layer in the layer catalog
func (sp *SourcePacketLayer) LayerType() gopacket.LayerType {
	return SourcePacketLayerType
}

// DecodeFromBytes decodes one whole source packet segment. The walk is
// single pass: the byte length of each packet comes from its front-end
// processor header, so an unknown packet type makes every later offset
// unrecoverable.
func (sp *SourcePacketLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	log.Debug("DecodeFromBytes: decoding source packet segment of %d bytes", len(data))

	offset := 0
	for offset < len(data) {
		if len(data)-offset < DSHdrSize {
			df.SetTruncated()
			return ErrPacketTooShort{Offset: offset, Need: DSHdrSize, Have: len(data) - offset}
		}

		packet := &SourcePacket{
			ISP:       decodeMJD(data[offset : offset+MJDSize]),
			FEPHdr:    decodeFEPHdr(data[offset+MJDSize : offset+MJDSize+FEPHdrSize]),
			PacketHdr: decodePacketHdr(data[offset+32 : offset+38]),
			DataHdr:   decodeDataHdr(data[offset+38 : offset+DSHdrSize]),
		}

		// the packet occupies FEP length + 39 bytes on disk
		total := int(packet.FEPHdr.Length) + DSHdrSize - 11
		if offset+total > len(data) {
			df.SetTruncated()
			return ErrPacketTooShort{Offset: offset, Need: total, Have: len(data) - offset}
		}
		payload := data[offset+DSHdrSize : offset+total]

		switch packet.DataHdr.Type() {
		case PacketDetector:
			det, err := decodeDetector(payload)
			if err != nil {
				log.Warning("fail-safe detector read at offset %d: %s", offset, err)
				det = decodeDetectorSafe(payload, &packet.FEPHdr.Quality)
			}
			packet.Det = det
		case PacketAuxiliary:
			aux, err := decodeAux(payload)
			if err != nil {
				df.SetTruncated()
				return err
			}
			packet.Aux = aux
		case PacketPMD:
			pmd, err := decodePMD(payload)
			if err != nil {
				df.SetTruncated()
				return err
			}
			packet.PMD = pmd
		default:
			return ErrUnknownPacketType{Offset: offset, Type: uint8(packet.DataHdr.Type())}
		}

		sp.Packets = append(sp.Packets, packet)
		offset += total
	}

	sp.BaseLayer = layers.BaseLayer{Contents: data}
	log.Debug("DecodeFromBytes: decoded %d source packets", len(sp.Packets))
	return nil
}

// SerializeTo serializes the source packet layer into bytes and writes
// the bytes to the SerializeBuffer
func (sp *SourcePacketLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	for _, packet := range sp.Packets {
		payloadSize := packet.PayloadSize()
		packet.FEPHdr.Length = uint16(payloadSize + 11)

		headerBytes, err := b.AppendBytes(DSHdrSize)
		if err != nil {
			return err
		}
		if err := packet.ISP.Serialize(headerBytes[0:MJDSize]); err != nil {
			return err
		}
		if err := packet.FEPHdr.Serialize(headerBytes[MJDSize : MJDSize+FEPHdrSize]); err != nil {
			return err
		}
		if err := packet.PacketHdr.Serialize(headerBytes[32:38]); err != nil {
			return err
		}
		if err := packet.DataHdr.Serialize(headerBytes[38:DSHdrSize]); err != nil {
			return err
		}

		payloadBytes, err := b.AppendBytes(payloadSize)
		if err != nil {
			return err
		}
		switch {
		case packet.Det != nil:
			err = packet.Det.Serialize(payloadBytes)
		case packet.Aux != nil:
			err = packet.Aux.Serialize(payloadBytes)
		case packet.PMD != nil:
			err = packet.PMD.Serialize(payloadBytes)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeSourcePacketLayer decodes a source packet segment and adds the
// layer to the packet being built
func DecodeSourcePacketLayer(data []byte, p gopacket.PacketBuilder) error {
	sp := &SourcePacketLayer{}
	if err := sp.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(sp)
	return nil
}

// DecodeSourcePackets decodes all packets of a source packet segment.
func DecodeSourcePackets(data []byte) ([]*SourcePacket, error) {
	packet := gopacket.NewPacket(data, SourcePacketLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}
	sp, ok := packet.Layer(SourcePacketLayerType).(*SourcePacketLayer)
	if !ok {
		return nil, ErrPacketTooShort{Need: DSHdrSize}
	}
	return sp.Packets, nil
}
