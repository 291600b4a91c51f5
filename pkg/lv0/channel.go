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
	"math"

	"sron.nl/atmos/go-scia/pkg/hk"
	"sron.nl/atmos/go-scia/pkg/layers"
)

// ChannelData is one combined readout of a science channel: raw counts
// per pixel, cells never covered by a cluster stay NaN.
type ChannelData struct {
	ISP     layers.MJD
	ICUTime uint32
	BCPS    uint16
	Temp    float64
	Coaddf  [layers.ChannelPixels]uint8
	Data    [layers.ChannelPixels]float64
}

// GetChannel combines the readouts of one science channel for a given
// state id. Readouts that do not carry the channel are dropped.
func (f *File) GetChannel(stateID uint8, chanID uint8) ([]ChannelData, error) {
	packets := f.DetPackets(stateID)
	if len(packets) == 0 {
		return nil, ErrNoSuchState{StateID: stateID}
	}

	var readouts []ChannelData
	for _, packet := range packets {
		var out ChannelData
		for ni := range out.Data {
			out.Data[ni] = math.NaN()
		}
		out.ISP = packet.ISP
		out.ICUTime = packet.DataHdr.ICUTime
		out.BCPS = packet.Det.PMTCHdr.BCPS

		found := false
		for _, chanBlock := range packet.Det.Channels {
			if chanBlock.ID() != chanID {
				continue
			}
			found = true
			temp, err := hk.DetectorTemperature(int(chanID), chanBlock.Temp)
			if err != nil {
				return nil, err
			}
			out.Temp = temp

			for _, clus := range chanBlock.Clus {
				start := int(clus.Start) % layers.ChannelPixels
				if start+int(clus.Length) > layers.ChannelPixels {
					return nil, ErrClusterBounds{
						Channel: chanID, Start: clus.Start, Length: clus.Length}
				}
				for ni := 0; ni < int(clus.Length); ni++ {
					out.Coaddf[start+ni] = clus.Coaddf
					out.Data[start+ni] = clusterSample(&clus, ni)
				}
			}
		}
		if found {
			readouts = append(readouts, out)
		}
	}
	return readouts, nil
}

// clusterSample reads the ni-th pixel of a cluster payload: a 16-bit
// count for single exposures, a 24-bit coadded sum otherwise.
func clusterSample(clus *layers.ClusterBlock, ni int) float64 {
	if clus.Coaddf == 1 {
		return float64(uint16(clus.Data[2*ni])<<8 | uint16(clus.Data[2*ni+1]))
	}
	return float64(uint32(clus.Data[3*ni])<<16 |
		uint32(clus.Data[3*ni+1])<<8 |
		uint32(clus.Data[3*ni+2]))
}
