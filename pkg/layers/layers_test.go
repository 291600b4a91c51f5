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
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serializePackets(t *testing.T, packets ...*SourcePacket) []byte {
	t.Helper()
	sp := &SourcePacketLayer{Packets: packets}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, sp.SerializeTo(buf, gopacket.SerializeOptions{}))
	return buf.Bytes()
}

func testCluster(id uint8, coaddf uint8, start, length uint16) ClusterBlock {
	clus := ClusterBlock{
		Sync:   ClusSync,
		ID:     id,
		Coaddf: coaddf,
		Start:  start,
		Length: length,
	}
	nbytes := 2 * int(length)
	if coaddf > 1 {
		nbytes = 3 * int(length)
	}
	data := make([]byte, nbytes)
	for ni := range data {
		data[ni] = byte(ni + 1)
	}
	clus.Data = data
	return clus
}

func testChannel(id uint8, command uint32, bcps uint16, clus ...ClusterBlock) ChannelBlock {
	return ChannelBlock{
		Sync:     ChanSync,
		IDIsLu:   id << 4,
		Clusters: uint8(len(clus)),
		BCPS:     bcps,
		Command:  command,
		Temp:     20000,
		Clus:     clus,
	}
}

func testDetPacket(stateID uint8, icuTime uint32, bcps uint16, channels ...ChannelBlock) *SourcePacket {
	return &SourcePacket{
		ISP: MJD{Days: 4567, Secnds: 12345, Musec: 678},
		DataHdr: DataHdr{
			StateID:    stateID,
			ICUTime:    icuTime,
			PacketType: uint8(PacketDetector) << 4,
		},
		Det: &DetectorSource{
			PMTCHdr: DetPMTCHdr{
				BCPS:    bcps,
				NumChan: uint16(len(channels)),
			},
			Channels: channels,
		},
	}
}

func TestDetectorRoundTrip(t *testing.T) {
	// the odd-length coadded cluster forces a pad byte mid-payload
	packet := testDetPacket(28, 1000, 80,
		testChannel(1, 16<<18, 80,
			testCluster(0, 1, 0, 5),
			testCluster(1, 2, 5, 3),
			testCluster(2, 1, 8, 4)),
		testChannel(6, 24<<18, 80,
			testCluster(3, 1, 0, 1024)))

	data := serializePackets(t, packet)
	decoded, err := DecodeSourcePackets(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	got := decoded[0]
	assert.Equal(t, packet.ISP, got.ISP)
	assert.Equal(t, uint8(28), got.DataHdr.StateID)
	assert.Equal(t, PacketDetector, got.DataHdr.Type())
	require.NotNil(t, got.Det)
	require.Len(t, got.Det.Channels, 2)

	chan0 := got.Det.Channels[0]
	assert.Equal(t, uint8(1), chan0.ID())
	require.Len(t, chan0.Clus, 3)
	assert.Equal(t, packet.Det.Channels[0].Clus[0].Data, chan0.Clus[0].Data)
	assert.Equal(t, uint8(2), chan0.Clus[1].Coaddf)
	assert.Len(t, chan0.Clus[1].Data, 9)
	// the cluster after the padded one still lines up
	assert.Equal(t, uint16(8), chan0.Clus[2].Start)
	assert.Equal(t, packet.Det.Channels[0].Clus[2].Data, chan0.Clus[2].Data)

	chan1 := got.Det.Channels[1]
	assert.Equal(t, uint8(6), chan1.ID())
	assert.Equal(t, uint16(1024), chan1.Clus[0].Length)

	assert.Equal(t, uint16(80), got.BCPS())
}

func TestAuxRoundTrip(t *testing.T) {
	aux := &AuxSource{PMTCHdr: AuxPMTCHdr{ScannerMode: 3}}
	aux.Frames[0].BCP[0] = AuxBCP{Sync: 0xDDDD, BCPS: 42}
	aux.Frames[4].BenchAz = 777

	packet := &SourcePacket{
		DataHdr: DataHdr{StateID: 8, PacketType: uint8(PacketAuxiliary) << 4},
		Aux:     aux,
	}
	data := serializePackets(t, packet)
	require.Len(t, data, DSHdrSize+AuxPayloadSize)

	decoded, err := DecodeSourcePackets(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].Aux)
	assert.Equal(t, *aux, *decoded[0].Aux)
	assert.Equal(t, uint16(42), decoded[0].BCPS())
}

func TestPMDRoundTrip(t *testing.T) {
	pmd := &PMDSource{Temp: 1234}
	pmd.Packets[0] = PMDData{Sync: 0xEEEE, BCPS: 7, Time: 3}
	pmd.Packets[0].Data[1][6] = 999
	pmd.Packets[199].BCPS = 100

	packet := &SourcePacket{
		DataHdr: DataHdr{StateID: 8, PacketType: uint8(PacketPMD) << 4},
		PMD:     pmd,
	}
	data := serializePackets(t, packet)
	require.Len(t, data, DSHdrSize+PMDPayloadSize)

	decoded, err := DecodeSourcePackets(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].PMD)
	assert.Equal(t, *pmd, *decoded[0].PMD)
	assert.Equal(t, uint16(7), decoded[0].BCPS())
}

func TestMultiplePackets(t *testing.T) {
	det := testDetPacket(28, 1000, 16, testChannel(1, 0, 16, testCluster(0, 1, 0, 2)))
	aux := &SourcePacket{
		DataHdr: DataHdr{StateID: 28, PacketType: uint8(PacketAuxiliary) << 4},
		Aux:     &AuxSource{},
	}
	data := serializePackets(t, det, aux)

	decoded, err := DecodeSourcePackets(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.NotNil(t, decoded[0].Det)
	assert.NotNil(t, decoded[1].Aux)
}

func TestUnknownPacketType(t *testing.T) {
	packet := testDetPacket(28, 1000, 16, testChannel(1, 0, 16, testCluster(0, 1, 0, 2)))
	data := serializePackets(t, packet)
	data[38+10] = 5 << 4 // packet type field inside the data header

	_, err := DecodeSourcePackets(data)
	require.Error(t, err)
	assert.Equal(t, ErrUnknownPacketType{Offset: 0, Type: 5}, err)
}

func TestTruncatedSegment(t *testing.T) {
	packet := testDetPacket(28, 1000, 16, testChannel(1, 0, 16, testCluster(0, 1, 0, 2)))
	data := serializePackets(t, packet)

	_, err := DecodeSourcePackets(data[:len(data)-4])
	require.Error(t, err)
	assert.IsType(t, ErrPacketTooShort{}, err)
}

func TestFailSafeDetectorRead(t *testing.T) {
	// corrupt the length of the second channel's cluster so the strict
	// read runs past the payload and the fail-safe read takes over
	packet := testDetPacket(28, 1000, 16,
		testChannel(1, 0, 16, testCluster(0, 1, 0, 2)),
		testChannel(2, 0, 16, testCluster(1, 1, 0, 4)))
	data := serializePackets(t, packet)

	// offset of the cluster length field in the second channel:
	// common header, PMTC header, first channel (header + cluster + 4
	// data bytes), second channel header, cluster header length field
	offs := DSHdrSize + DetPMTCHdrSize + (ChanHdrSize + ClusHdrSize + 4) + ChanHdrSize + 8
	binary.BigEndian.PutUint16(data[offs:offs+2], 0x0400)

	decoded, err := DecodeSourcePackets(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	got := decoded[0]
	require.NotNil(t, got.Det)
	require.Len(t, got.Det.Channels, 2)
	// the first channel survives intact, the corrupt cluster is dropped
	assert.Len(t, got.Det.Channels[0].Clus, 1)
	assert.Len(t, got.Det.Channels[1].Clus, 0)
	assert.NotZero(t, got.FEPHdr.Quality&QualityClusSize)
}

func TestMJDSeconds(t *testing.T) {
	mjd := MJD{Days: 1, Secnds: 2, Musec: 500000}
	assert.InDelta(t, 86402.5, mjd.Seconds(), 1e-9)
}
