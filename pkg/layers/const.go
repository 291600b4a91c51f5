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

const (
	// SourcePacketLayerNum identifies the layer
	SourcePacketLayerNum = 2002
)

// PacketType discriminates the three telemetry packet kinds carried in
// the source packet segment.
type PacketType uint8

const (
	PacketDetector  PacketType = 1
	PacketAuxiliary PacketType = 2
	PacketPMD       PacketType = 3
)

func (pt PacketType) String() string {
	switch pt {
	case PacketDetector:
		return "detector"
	case PacketAuxiliary:
		return "auxiliary"
	case PacketPMD:
		return "pmd"
	}
	return "unknown"
}

// Record sizes in bytes, the binary body is big-endian throughout
const (
	MJDSize        = 12
	FEPHdrSize     = 20
	PacketHdrSize  = 6
	DataHdrSize    = 12
	DSHdrSize      = MJDSize + FEPHdrSize + PacketHdrSize + DataHdrSize
	DetPMTCHdrSize = 54
	ChanHdrSize    = 16
	ClusHdrSize    = 10
	AuxPMTCHdrSize = 18
	AuxBCPSize     = 20
	PMTCFrameSize  = NumAuxBCP*AuxBCPSize + 6
	PMDDataSize    = 34
)

const (
	NumAuxBCP     = 16
	NumAuxFrames  = 5
	NumPMDPackets = 200

	// ChannelPixels is the pixel count of one detector channel
	ChannelPixels = 1024

	MaxChannels = 8
	MaxClusters = 16
)

// Sync words guarding channel and cluster blocks inside detector packets
const (
	ChanSync uint16 = 0xAAAA
	ClusSync uint16 = 0xBBBB
)

// Quality flags recorded in the FEP header spare field when the
// fail-safe detector read hits corrupted data
const (
	QualityChanSync uint16 = 0x1
	QualityClusSync uint16 = 0x2
	QualityClusSize uint16 = 0x4
)
