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

// Package lv0 reads level 0 products: the envelope, the source packet
// segment and per-state views of the decoded telemetry.
package lv0

import (
	"io"
	"os"
	"strings"

	"sron.nl/atmos/go-scia/pkg/envelope"
	"sron.nl/atmos/go-scia/pkg/layers"
	"sron.nl/atmos/go-scia/pkg/log"
)

const (
	// SourcePacketsDSName is the data segment holding the telemetry
	SourcePacketsDSName = "SCIAMACHY_SOURCE_PACKETS"

	// SPHDescriptorPrefix identifies level 0 products
	SPHDescriptorPrefix = "SCI_NL__0P SPECIFIC"
)

// File is one opened level 0 product, fully decoded.
type File struct {
	Filename string
	Envelope *envelope.Envelope
	Packets  []*layers.SourcePacket
}

// Open reads a whole level 0 product: ASCII envelope and all source
// packets.
func Open(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	stat, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	env, err := envelope.Read(fp, stat.Size(), path)
	if err != nil {
		return nil, err
	}
	descr, _ := env.SPH.Str(envelope.KeySPHDescriptor)
	if !strings.HasPrefix(descr, SPHDescriptorPrefix) {
		return nil, ErrWrongProduct{File: path, Descriptor: descr}
	}

	seg, ok := env.SegmentByName(SourcePacketsDSName)
	if !ok {
		return nil, ErrMissingSegment{Name: SourcePacketsDSName}
	}
	if _, err := fp.Seek(seg.Offset, io.SeekStart); err != nil {
		return nil, err
	}
	data := make([]byte, seg.Size)
	if _, err := io.ReadFull(fp, data); err != nil {
		return nil, err
	}

	packets, err := layers.DecodeSourcePackets(data)
	if err != nil {
		return nil, err
	}
	if len(packets) != seg.NumRecords {
		log.Warning("%s: decoded %d packets, envelope declares %d",
			path, len(packets), seg.NumRecords)
	}

	return &File{Filename: path, Envelope: env, Packets: packets}, nil
}

// filter returns the packets of one kind, optionally restricted to a
// set of state ids.
func (f *File) filter(pt layers.PacketType, stateIDs ...uint8) []*layers.SourcePacket {
	var packets []*layers.SourcePacket
	for _, packet := range f.Packets {
		if packet.DataHdr.Type() != pt {
			continue
		}
		if len(stateIDs) > 0 && !containsID(stateIDs, packet.DataHdr.StateID) {
			continue
		}
		packets = append(packets, packet)
	}
	return packets
}

func containsID(ids []uint8, id uint8) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// DetPackets returns the detector packets, optionally of given states.
func (f *File) DetPackets(stateIDs ...uint8) []*layers.SourcePacket {
	return f.filter(layers.PacketDetector, stateIDs...)
}

// AuxPackets returns the auxiliary packets, optionally of given states.
func (f *File) AuxPackets(stateIDs ...uint8) []*layers.SourcePacket {
	return f.filter(layers.PacketAuxiliary, stateIDs...)
}

// PMDPackets returns the PMD packets, optionally of given states.
func (f *File) PMDPackets(stateIDs ...uint8) []*layers.SourcePacket {
	return f.filter(layers.PacketPMD, stateIDs...)
}

// StateRun is one contiguous state execution within a product.
type StateRun struct {
	StateID uint8
	ICUTime uint32
	Packets []*layers.SourcePacket
}

// DetStateRuns groups the detector packets into contiguous state
// executions on their ICU time.
func (f *File) DetStateRuns() []StateRun {
	var runs []StateRun
	for _, packet := range f.DetPackets() {
		n := len(runs)
		if n > 0 && runs[n-1].ICUTime == packet.DataHdr.ICUTime {
			runs[n-1].Packets = append(runs[n-1].Packets, packet)
			continue
		}
		runs = append(runs, StateRun{
			StateID: packet.DataHdr.StateID,
			ICUTime: packet.DataHdr.ICUTime,
			Packets: []*layers.SourcePacket{packet},
		})
	}
	return runs
}
