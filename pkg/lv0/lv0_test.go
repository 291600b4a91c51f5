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

package lv0

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sron.nl/atmos/go-scia/pkg/envelope"
	"sron.nl/atmos/go-scia/pkg/layers"
)

const (
	testDSDSize  = 280
	testNumDSD   = 2
	testSPHHead  = 160
	testSPHSize  = testSPHHead + testNumDSD*testDSDSize
	testBodyOffs = envelope.MPHSize + testSPHSize
)

func pad(t *testing.T, text string, size int) []byte {
	t.Helper()
	require.LessOrEqual(t, len(text), size)
	buf := make([]byte, size)
	for ni := range buf {
		buf[ni] = ' '
	}
	copy(buf, text)
	buf[size-1] = '\n'
	return buf
}

// writeProduct lays a well-formed level 0 product on disk holding the
// given packets.
func writeProduct(t *testing.T, descriptor string, packets ...*layers.SourcePacket) string {
	t.Helper()
	sp := &layers.SourcePacketLayer{Packets: packets}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, sp.SerializeTo(buf, gopacket.SerializeOptions{}))
	body := buf.Bytes()

	total := testBodyOffs + len(body)
	mph := fmt.Sprintf("PRODUCT=\"SCI_NL__0PTEST\"\n"+
		"PROC_STAGE=N\n"+
		"TOT_SIZE=%+021d<bytes>\n"+
		"SPH_SIZE=%+011d<bytes>\n"+
		"NUM_DSD=%+011d\n"+
		"DSD_SIZE=%+011d<bytes>\n",
		total, testSPHSize, testNumDSD, testDSDSize)
	sphHead := fmt.Sprintf("SPH_DESCRIPTOR=%q\n", descriptor)
	dsd := fmt.Sprintf("DS_NAME=%q\n"+
		"DS_TYPE=M\n"+
		"FILENAME=\"\"\n"+
		"DS_OFFSET=%+021d<bytes>\n"+
		"DS_SIZE=%+021d<bytes>\n"+
		"NUM_DSR=%+011d\n"+
		"DSR_SIZE=%+011d<bytes>\n",
		SourcePacketsDSName, testBodyOffs, len(body), len(packets), 0)

	product := pad(t, mph, envelope.MPHSize)
	product = append(product, pad(t, sphHead, testSPHHead)...)
	product = append(product, pad(t, dsd, testDSDSize)...)
	product = append(product, pad(t, "", testDSDSize)...) // spare slot
	product = append(product, body...)
	require.Len(t, product, total)

	path := filepath.Join(t.TempDir(), "SCI_NL__0PTEST.N1")
	require.NoError(t, os.WriteFile(path, product, 0644))
	return path
}

func testCluster(id, coaddf uint8, start, length uint16, data []byte) layers.ClusterBlock {
	return layers.ClusterBlock{
		Sync:   layers.ClusSync,
		ID:     id,
		Coaddf: coaddf,
		Start:  start,
		Length: length,
		Data:   data,
	}
}

func testChannel(id uint8, temp uint16, clus ...layers.ClusterBlock) layers.ChannelBlock {
	return layers.ChannelBlock{
		Sync:     layers.ChanSync,
		IDIsLu:   id << 4,
		Clusters: uint8(len(clus)),
		Command:  16 << 18,
		Temp:     temp,
		Clus:     clus,
	}
}

func testDetPacket(stateID uint8, icuTime uint32, bcps uint16, channels ...layers.ChannelBlock) *layers.SourcePacket {
	return &layers.SourcePacket{
		DataHdr: layers.DataHdr{
			StateID:    stateID,
			ICUTime:    icuTime,
			PacketType: uint8(layers.PacketDetector) << 4,
		},
		Det: &layers.DetectorSource{
			PMTCHdr:  layers.DetPMTCHdr{BCPS: bcps, NumChan: uint16(len(channels))},
			Channels: channels,
		},
	}
}

func TestOpenProduct(t *testing.T) {
	det1 := testDetPacket(28, 1000, 16,
		testChannel(1, 20000, testCluster(0, 1, 0, 2, []byte{0, 1, 0, 2})))
	det2 := testDetPacket(28, 1000, 32,
		testChannel(1, 20000, testCluster(0, 1, 0, 2, []byte{0, 3, 0, 4})))
	det3 := testDetPacket(70, 2000, 16,
		testChannel(1, 20000, testCluster(0, 1, 0, 2, []byte{0, 5, 0, 6})))
	aux := &layers.SourcePacket{
		DataHdr: layers.DataHdr{StateID: 28, ICUTime: 1000,
			PacketType: uint8(layers.PacketAuxiliary) << 4},
		Aux: &layers.AuxSource{},
	}
	pmd := &layers.SourcePacket{
		DataHdr: layers.DataHdr{StateID: 28, ICUTime: 1000,
			PacketType: uint8(layers.PacketPMD) << 4},
		PMD: &layers.PMDSource{},
	}

	path := writeProduct(t, "SCI_NL__0P SPECIFIC HEADER", det1, det2, aux, det3, pmd)
	f, err := Open(path)
	require.NoError(t, err)

	assert.Len(t, f.Packets, 5)
	assert.Len(t, f.DetPackets(), 3)
	assert.Len(t, f.DetPackets(28), 2)
	assert.Len(t, f.AuxPackets(), 1)
	assert.Len(t, f.PMDPackets(), 1)

	runs := f.DetStateRuns()
	require.Len(t, runs, 2)
	assert.Equal(t, uint8(28), runs[0].StateID)
	assert.Len(t, runs[0].Packets, 2)
	assert.Equal(t, uint8(70), runs[1].StateID)
	assert.Len(t, runs[1].Packets, 1)
}

func TestGetChannelClusterBounds(t *testing.T) {
	// a decodable cluster may still claim pixels past the channel end
	packet := testDetPacket(28, 1000, 16,
		testChannel(3, 20601,
			testCluster(0, 1, 1000, 100, make([]byte, 200))))

	path := writeProduct(t, "SCI_NL__0P SPECIFIC HEADER", packet)
	f, err := Open(path)
	require.NoError(t, err)

	_, err = f.GetChannel(28, 3)
	assert.Equal(t, ErrClusterBounds{Channel: 3, Start: 1000, Length: 100}, err)
}

func TestOpenWrongProduct(t *testing.T) {
	path := writeProduct(t, "SCI_NL__1P SPECIFIC HEADER")
	_, err := Open(path)
	require.Error(t, err)
	assert.IsType(t, ErrWrongProduct{}, err)
}

func TestGetChannel(t *testing.T) {
	packet := testDetPacket(28, 1000, 16,
		testChannel(3, 20601,
			testCluster(0, 1, 10, 4, []byte{0, 1, 0, 2, 0, 3, 0, 4}),
			testCluster(1, 2, 100, 2, []byte{0, 0, 5, 0, 1, 0})))

	path := writeProduct(t, "SCI_NL__0P SPECIFIC HEADER", packet)
	f, err := Open(path)
	require.NoError(t, err)

	readouts, err := f.GetChannel(28, 3)
	require.NoError(t, err)
	require.Len(t, readouts, 1)

	out := readouts[0]
	assert.Equal(t, uint32(1000), out.ICUTime)
	assert.Equal(t, uint16(16), out.BCPS)
	assert.InDelta(t, 210, out.Temp, 1e-9)

	for ni, want := range []float64{1, 2, 3, 4} {
		assert.Equal(t, want, out.Data[10+ni])
		assert.Equal(t, uint8(1), out.Coaddf[10+ni])
	}
	assert.Equal(t, 5.0, out.Data[100])
	assert.Equal(t, 256.0, out.Data[101])
	assert.Equal(t, uint8(2), out.Coaddf[100])
	assert.True(t, math.IsNaN(out.Data[0]))
	assert.True(t, math.IsNaN(out.Data[500]))

	// the packet carries no channel 5 readout
	readouts, err = f.GetChannel(28, 5)
	require.NoError(t, err)
	assert.Len(t, readouts, 0)

	_, err = f.GetChannel(42, 3)
	assert.Equal(t, ErrNoSuchState{StateID: 42}, err)
}
