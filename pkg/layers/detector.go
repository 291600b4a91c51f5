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

	"sron.nl/atmos/go-scia/pkg/log"
)

// DetPMTCHdr is the detector measurement timing and control header.
type DetPMTCHdr struct {
	BCPS        uint16
	PMTC1       uint16
	ScannerMode uint16
	AzParam     uint32
	ElevParam   uint32
	Factors     [6]uint8
	OrbitVector [8]int32
	NumChan     uint16
}

func decodeDetPMTCHdr(buf []byte) DetPMTCHdr {
	hdr := DetPMTCHdr{
		BCPS:        binary.BigEndian.Uint16(buf[0:2]),
		PMTC1:       binary.BigEndian.Uint16(buf[2:4]),
		ScannerMode: binary.BigEndian.Uint16(buf[4:6]),
		AzParam:     binary.BigEndian.Uint32(buf[6:10]),
		ElevParam:   binary.BigEndian.Uint32(buf[10:14]),
	}
	copy(hdr.Factors[:], buf[14:20])
	for ni := 0; ni < 8; ni++ {
		hdr.OrbitVector[ni] = int32(binary.BigEndian.Uint32(buf[20+4*ni : 24+4*ni]))
	}
	// the channel count shares its word with flag bits
	hdr.NumChan = binary.BigEndian.Uint16(buf[52:54]) & 0xF
	return hdr
}

// Serialize DetPMTCHdr ...
func (h *DetPMTCHdr) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], h.BCPS)
	binary.BigEndian.PutUint16(buf[2:4], h.PMTC1)
	binary.BigEndian.PutUint16(buf[4:6], h.ScannerMode)
	binary.BigEndian.PutUint32(buf[6:10], h.AzParam)
	binary.BigEndian.PutUint32(buf[10:14], h.ElevParam)
	copy(buf[14:20], h.Factors[:])
	for ni := 0; ni < 8; ni++ {
		binary.BigEndian.PutUint32(buf[20+4*ni:24+4*ni], uint32(h.OrbitVector[ni]))
	}
	binary.BigEndian.PutUint16(buf[52:54], h.NumChan)
	return nil
}

// ClusterBlock is one pixel cluster readout: header plus the raw
// sample bytes. Data aliases the packet buffer, 2*Length bytes when
// Coaddf is one and 3*Length bytes otherwise (excluding the pad byte
// after an odd-length coadded payload).
type ClusterBlock struct {
	Sync   uint16
	Block  uint16
	ID     uint8
	Coaddf uint8
	Start  uint16
	Length uint16
	Data   []byte
}

func decodeClusHdr(buf []byte) ClusterBlock {
	return ClusterBlock{
		Sync:   binary.BigEndian.Uint16(buf[0:2]),
		Block:  binary.BigEndian.Uint16(buf[2:4]),
		ID:     buf[4],
		Coaddf: buf[5],
		Start:  binary.BigEndian.Uint16(buf[6:8]),
		Length: binary.BigEndian.Uint16(buf[8:10]),
	}
}

// Serialize ClusterBlock header ...
func (cb *ClusterBlock) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], cb.Sync)
	binary.BigEndian.PutUint16(buf[2:4], cb.Block)
	buf[4] = cb.ID
	buf[5] = cb.Coaddf
	binary.BigEndian.PutUint16(buf[6:8], cb.Start)
	binary.BigEndian.PutUint16(buf[8:10], cb.Length)
	return nil
}

// DataSize returns the payload byte count of the cluster including the
// pad byte after an odd-length coadded payload.
func (cb *ClusterBlock) DataSize() int {
	if cb.Coaddf == 1 {
		return 2 * int(cb.Length)
	}
	nbytes := 3 * int(cb.Length)
	return nbytes + nbytes%2
}

// ChannelBlock is one science channel readout inside a detector packet.
type ChannelBlock struct {
	Sync     uint16
	IDIsLu   uint8
	Clusters uint8
	BCPS     uint16
	Command  uint32
	Ratio    uint8
	Frame    uint8
	Bias     uint16
	Temp     uint16
	Clus     []ClusterBlock
}

// ID extracts the channel id from the packed id/is/lu byte.
func (cb *ChannelBlock) ID() uint8 {
	return cb.IDIsLu >> 4
}

func decodeChanHdr(buf []byte) ChannelBlock {
	return ChannelBlock{
		Sync:     binary.BigEndian.Uint16(buf[0:2]),
		IDIsLu:   buf[2],
		Clusters: buf[3] & 0xF,
		BCPS:     binary.BigEndian.Uint16(buf[4:6]),
		Command:  binary.BigEndian.Uint32(buf[6:10]),
		Ratio:    buf[10],
		Frame:    buf[11],
		Bias:     binary.BigEndian.Uint16(buf[12:14]),
		Temp:     binary.BigEndian.Uint16(buf[14:16]),
	}
}

// Serialize ChannelBlock header ...
func (cb *ChannelBlock) Serialize(buf []byte) error {
	binary.BigEndian.PutUint16(buf[0:2], cb.Sync)
	buf[2] = cb.IDIsLu
	buf[3] = cb.Clusters
	binary.BigEndian.PutUint16(buf[4:6], cb.BCPS)
	binary.BigEndian.PutUint32(buf[6:10], cb.Command)
	buf[10] = cb.Ratio
	buf[11] = cb.Frame
	binary.BigEndian.PutUint16(buf[12:14], cb.Bias)
	binary.BigEndian.PutUint16(buf[14:16], cb.Temp)
	return nil
}

// DetectorSource is the payload of a detector packet.
type DetectorSource struct {
	PMTCHdr  DetPMTCHdr
	Channels []ChannelBlock
}

// decodeDetector reads the nested channel/cluster structure without
// sanity checks. It fails when the declared counts run past the
// payload; the caller then retries with decodeDetectorSafe.
func decodeDetector(payload []byte) (*DetectorSource, error) {
	if len(payload) < DetPMTCHdrSize {
		return nil, ErrPacketTooShort{Need: DetPMTCHdrSize, Have: len(payload)}
	}
	det := &DetectorSource{PMTCHdr: decodeDetPMTCHdr(payload)}
	offs := DetPMTCHdrSize

	for nch := 0; nch < int(det.PMTCHdr.NumChan); nch++ {
		if offs+ChanHdrSize > len(payload) {
			return nil, ErrCorruptDetector{Channel: nch}
		}
		chanBlock := decodeChanHdr(payload[offs : offs+ChanHdrSize])
		offs += ChanHdrSize

		for ncl := 0; ncl < int(chanBlock.Clusters); ncl++ {
			if offs+ClusHdrSize > len(payload) {
				return nil, ErrCorruptDetector{Channel: nch, Cluster: ncl}
			}
			clus := decodeClusHdr(payload[offs : offs+ClusHdrSize])
			offs += ClusHdrSize

			nbytes := clus.DataSize()
			if offs+nbytes > len(payload) {
				return nil, ErrCorruptDetector{Channel: nch, Cluster: ncl}
			}
			if clus.Coaddf == 1 {
				clus.Data = payload[offs : offs+2*int(clus.Length)]
			} else {
				clus.Data = payload[offs : offs+3*int(clus.Length)]
			}
			offs += nbytes
			chanBlock.Clus = append(chanBlock.Clus, clus)
		}
		det.Channels = append(det.Channels, chanBlock)
	}
	return det, nil
}

// decodeDetectorSafe re-reads a corrupted detector payload with sync
// word and size checks, keeping everything up to the first corruption
// and flagging the packet quality.
func decodeDetectorSafe(payload []byte, quality *uint16) *DetectorSource {
	det := &DetectorSource{PMTCHdr: decodeDetPMTCHdr(payload)}
	offs := DetPMTCHdrSize

	numChan := int(det.PMTCHdr.NumChan)
	for nch := 0; nch < numChan; nch++ {
		if offs+ChanHdrSize > len(payload) {
			break
		}
		chanBlock := decodeChanHdr(payload[offs : offs+ChanHdrSize])
		offs += ChanHdrSize
		if chanBlock.Sync != ChanSync {
			log.Warning("channel-sync corruption at channel %d", nch)
			*quality |= QualityChanSync
			break
		}

		corrupt := false
		for ncl := 0; ncl < int(chanBlock.Clusters); ncl++ {
			if offs+ClusHdrSize > len(payload) {
				break
			}
			clus := decodeClusHdr(payload[offs : offs+ClusHdrSize])
			offs += ClusHdrSize
			if clus.Sync != ClusSync {
				log.Warning("cluster-sync corruption at channel %d cluster %d", nch, ncl)
				*quality |= QualityClusSync
				corrupt = true
				break
			}

			// mask bit-flips in the cluster parameters
			clus.Start &= 0x1FFF
			clus.Length &= 0x7FF

			bytesLeft := len(payload) - offs
			if clus.Coaddf != 1 && 2*int(clus.Length) == bytesLeft {
				clus.Coaddf = 1
			}
			nbytes := clus.DataSize()
			if nbytes > bytesLeft {
				log.Warning("cluster-size corruption at channel %d cluster %d", nch, ncl)
				*quality |= QualityClusSize
				corrupt = true
				break
			}
			if clus.Coaddf == 1 {
				clus.Data = payload[offs : offs+2*int(clus.Length)]
			} else {
				clus.Data = payload[offs : offs+3*int(clus.Length)]
			}
			offs += nbytes
			chanBlock.Clus = append(chanBlock.Clus, clus)
		}
		det.Channels = append(det.Channels, chanBlock)
		if corrupt {
			break
		}
	}
	det.PMTCHdr.NumChan = uint16(len(det.Channels))
	return det
}

// PayloadSize returns the serialized payload byte count.
func (d *DetectorSource) PayloadSize() int {
	size := DetPMTCHdrSize
	for _, chanBlock := range d.Channels {
		size += ChanHdrSize
		for _, clus := range chanBlock.Clus {
			size += ClusHdrSize + clus.DataSize()
		}
	}
	return size
}

// Serialize DetectorSource ...
func (d *DetectorSource) Serialize(buf []byte) error {
	if err := d.PMTCHdr.Serialize(buf[0:DetPMTCHdrSize]); err != nil {
		return err
	}
	offs := DetPMTCHdrSize
	for ni := range d.Channels {
		chanBlock := &d.Channels[ni]
		if err := chanBlock.Serialize(buf[offs : offs+ChanHdrSize]); err != nil {
			return err
		}
		offs += ChanHdrSize
		for nj := range chanBlock.Clus {
			clus := &chanBlock.Clus[nj]
			if err := clus.Serialize(buf[offs : offs+ClusHdrSize]); err != nil {
				return err
			}
			offs += ClusHdrSize
			copy(buf[offs:offs+clus.DataSize()], clus.Data)
			offs += clus.DataSize()
		}
	}
	return nil
}
