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

package clusdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sron.nl/atmos/go-scia/pkg/layers"
)

// channelsFromLayout builds the channel blocks a detector packet would
// carry for the given reference layout. Channel 2 starts are mapped
// back to the on-board (reversed) coordinates.
func channelsFromLayout(layout []RefCluster, coaddf func(chanID uint8) uint8) []layers.ChannelBlock {
	var channels []layers.ChannelBlock
	byChan := make(map[uint8][]RefCluster)
	for _, ref := range layout {
		byChan[ref.ChanID] = append(byChan[ref.ChanID], ref)
	}
	for chanID := uint8(1); chanID <= 8; chanID++ {
		refs, ok := byChan[chanID]
		if !ok {
			continue
		}
		chanBlock := layers.ChannelBlock{
			Sync:    layers.ChanSync,
			IDIsLu:  chanID << 4,
			Command: 16 << 18, // one second exposure
		}
		for _, ref := range refs {
			start := ref.Start
			if chanID == 2 {
				start = layers.ChannelPixels - ref.Start - ref.Length
			}
			chanBlock.Clus = append(chanBlock.Clus, layers.ClusterBlock{
				Sync:   layers.ClusSync,
				ID:     ref.ClusID,
				Coaddf: coaddf(chanID),
				Start:  start,
				Length: ref.Length,
			})
		}
		chanBlock.Clusters = uint8(len(chanBlock.Clus))
		channels = append(channels, chanBlock)
	}
	return channels
}

func coaddOne(uint8) uint8 { return 1 }

func detPacket(stateID uint8, icuTime uint32, bcps uint16, channels []layers.ChannelBlock) *layers.SourcePacket {
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

func TestReconstructCanonical(t *testing.T) {
	for _, size := range CanonicalSizes {
		layout := Layout(size)
		packets := []*layers.SourcePacket{
			detPacket(28, 1000, 40, channelsFromLayout(layout, coaddOne)),
			detPacket(28, 1000, 56, channelsFromLayout(layout, coaddOne)),
		}

		conf, err := Reconstruct(packets)
		require.NoError(t, err, "layout size %d", size)
		assert.Equal(t, uint8(size), conf.NClus)
		assert.Equal(t, uint8(28), conf.StateID)
		assert.Equal(t, uint16(56), conf.Duration)
		assert.Equal(t, uint16(2), conf.NumGeo)

		// the cluster set matches the reference layout
		got := make(map[RefCluster]struct{})
		for ni, clus := range conf.Clusters {
			got[RefCluster{clus.ChanID, clus.ClusID, clus.Start, clus.Length}] = struct{}{}
			assert.Equal(t, uint16(16), clus.IntG, "cluster %d", ni)
			assert.Equal(t, uint16(1), clus.NRead, "cluster %d", ni)
		}
		for _, ref := range layout {
			assert.Contains(t, got, ref, "layout size %d", size)
		}
	}
}

func TestReconstructInsufficient(t *testing.T) {
	layout := Layout(10)[:9]
	packets := []*layers.SourcePacket{
		detPacket(28, 1000, 16, channelsFromLayout(layout, coaddOne)),
	}
	_, err := Reconstruct(packets)
	assert.Equal(t, ErrInsufficientClusters{StateID: 28, Count: 9}, err)
}

func TestReconstructTrim(t *testing.T) {
	// one spurious cluster on top of the 56 cluster layout gets trimmed
	channels := channelsFromLayout(Layout(56), coaddOne)
	channels[2].Clus = append(channels[2].Clus, layers.ClusterBlock{
		Sync: layers.ClusSync, ID: 63, Coaddf: 1, Start: 500, Length: 7,
	})
	channels[2].Clusters++

	conf, err := Reconstruct([]*layers.SourcePacket{detPacket(28, 1000, 16, channels)})
	require.NoError(t, err)
	assert.Equal(t, uint8(56), conf.NClus)
	for _, clus := range conf.Clusters {
		assert.False(t, clus.ChanID == 3 && clus.Start == 500 && clus.Length == 7)
	}
}

func TestReconstructTrimFails(t *testing.T) {
	// drop one genuine cluster and add two spurious ones: 57 observed,
	// 55 left after trimming against the 56 cluster reference
	channels := channelsFromLayout(Layout(56)[:55], coaddOne)
	channels[2].Clus = append(channels[2].Clus,
		layers.ClusterBlock{Sync: layers.ClusSync, ID: 60, Coaddf: 1, Start: 500, Length: 7},
		layers.ClusterBlock{Sync: layers.ClusSync, ID: 61, Coaddf: 1, Start: 600, Length: 9})
	channels[2].Clusters += 2

	_, err := Reconstruct([]*layers.SourcePacket{detPacket(28, 1000, 16, channels)})
	assert.Equal(t, ErrClusterCountMismatch{StateID: 28, Count: 55}, err)
}

func TestChannel2Remap(t *testing.T) {
	channels := channelsFromLayout(Layout(10), coaddOne)
	// channel 2 is the second block; give its first cluster the
	// on-board coordinates start=100, length=50
	require.Equal(t, uint8(2), channels[1].ID())
	channels[1].Clus[0].Start = 100
	channels[1].Clus[0].Length = 50

	conf, err := Reconstruct([]*layers.SourcePacket{detPacket(28, 1000, 16, channels)})
	require.NoError(t, err)

	var found bool
	for _, clus := range conf.Clusters {
		if clus.ChanID == 2 && clus.Length == 50 {
			assert.Equal(t, uint16(874), clus.Start)
			found = true
		}
	}
	assert.True(t, found)
}

func TestReconstructIdempotent(t *testing.T) {
	packets := []*layers.SourcePacket{
		detPacket(28, 1000, 40, channelsFromLayout(Layout(40), coaddOne)),
		detPacket(28, 1000, 56, channelsFromLayout(Layout(40), coaddOne)),
	}
	first, err := Reconstruct(packets)
	require.NoError(t, err)
	second, err := Reconstruct(packets)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNReadTimesIntGConstant(t *testing.T) {
	// channels 3 and 4 coadd two exposures, doubling their integration
	// time and halving their readout count
	coaddf := func(chanID uint8) uint8 {
		if chanID == 3 || chanID == 4 {
			return 2
		}
		return 1
	}
	packets := []*layers.SourcePacket{
		detPacket(28, 1000, 16, channelsFromLayout(Layout(10), coaddf)),
	}
	conf, err := Reconstruct(packets)
	require.NoError(t, err)

	product := uint32(conf.Clusters[0].NRead) * uint32(conf.Clusters[0].IntG)
	for _, clus := range conf.Clusters {
		assert.Equal(t, product, uint32(clus.NRead)*uint32(clus.IntG))
		if clus.Coaddf == 2 {
			assert.Equal(t, uint16(32), clus.IntG)
			assert.Equal(t, uint16(1), clus.NRead)
		} else {
			assert.Equal(t, uint16(16), clus.IntG)
			assert.Equal(t, uint16(2), clus.NRead)
		}
	}
}

func TestNumGeoMedian(t *testing.T) {
	// three executions grouped by ICU time with sizes 1, 4 and 4: the
	// median guards against the truncated group
	var packets []*layers.SourcePacket
	channels := channelsFromLayout(Layout(10), coaddOne)
	packets = append(packets, detPacket(28, 1000, 16, channels))
	for ni := 0; ni < 4; ni++ {
		packets = append(packets, detPacket(28, 2000, 16, channels))
		packets = append(packets, detPacket(28, 3000, 16, channels))
	}

	conf, err := Reconstruct(packets)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), conf.NumGeo)
}

func TestReconstructPreconditions(t *testing.T) {
	channels := channelsFromLayout(Layout(10), coaddOne)
	mixed := []*layers.SourcePacket{
		detPacket(28, 1000, 16, channels),
		detPacket(29, 1000, 16, channels),
	}
	_, err := Reconstruct(mixed)
	assert.Equal(t, ErrMixedStateIDs{Want: 28, Got: 29}, err)

	aux := &layers.SourcePacket{
		DataHdr: layers.DataHdr{StateID: 28, PacketType: uint8(layers.PacketAuxiliary) << 4},
		Aux:     &layers.AuxSource{},
	}
	_, err = Reconstruct([]*layers.SourcePacket{detPacket(28, 1000, 16, channels), aux})
	assert.Equal(t, ErrNotDetectorPacket{Index: 1}, err)
}

func TestStateLayout(t *testing.T) {
	layout, err := StateLayout(1)
	require.NoError(t, err)
	assert.Len(t, layout, 56)

	layout, err = StateLayout(8)
	require.NoError(t, err)
	assert.Len(t, layout, 40)

	for _, stateID := range []int{0, 71} {
		_, err := StateLayout(stateID)
		assert.Equal(t, ErrInvalidStateID{StateID: stateID}, err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	packets := []*layers.SourcePacket{
		detPacket(28, 1000, 40, channelsFromLayout(Layout(40), coaddOne)),
	}
	conf, err := Reconstruct(packets)
	require.NoError(t, err)

	data, err := conf.MarshalBinary()
	require.NoError(t, err)

	var decoded StateConfig
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, *conf, decoded)

	assert.Error(t, decoded.UnmarshalBinary(data[:len(data)-3]))
	assert.Error(t, decoded.UnmarshalBinary(nil))
}
