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
	"encoding/binary"
	"math"
)

const (
	confHdrSize  = 6
	confClusSize = 16
)

// MarshalBinary encodes the state configuration for the state store.
func (c *StateConfig) MarshalBinary() ([]byte, error) {
	buf := make([]byte, confHdrSize+confClusSize*len(c.Clusters))
	buf[0] = c.StateID
	buf[1] = uint8(len(c.Clusters))
	binary.BigEndian.PutUint16(buf[2:4], c.Duration)
	binary.BigEndian.PutUint16(buf[4:6], c.NumGeo)

	offs := confHdrSize
	for ni := range c.Clusters {
		clus := &c.Clusters[ni]
		buf[offs] = clus.ChanID
		buf[offs+1] = clus.ClusID
		buf[offs+2] = clus.Coaddf
		buf[offs+3] = clus.Type
		binary.BigEndian.PutUint16(buf[offs+4:offs+6], clus.Start)
		binary.BigEndian.PutUint16(buf[offs+6:offs+8], clus.Length)
		binary.BigEndian.PutUint16(buf[offs+8:offs+10], clus.IntG)
		binary.BigEndian.PutUint16(buf[offs+10:offs+12], clus.NRead)
		binary.BigEndian.PutUint32(buf[offs+12:offs+16], math.Float32bits(clus.PET))
		offs += confClusSize
	}
	return buf, nil
}

// UnmarshalBinary decodes a state configuration from the state store.
func (c *StateConfig) UnmarshalBinary(buf []byte) error {
	if len(buf) < confHdrSize {
		return ErrCorruptRecord{Size: len(buf)}
	}
	nclus := int(buf[1])
	if len(buf) != confHdrSize+confClusSize*nclus {
		return ErrCorruptRecord{Size: len(buf)}
	}

	c.StateID = buf[0]
	c.NClus = buf[1]
	c.Duration = binary.BigEndian.Uint16(buf[2:4])
	c.NumGeo = binary.BigEndian.Uint16(buf[4:6])
	c.Clusters = make([]Cluster, nclus)

	offs := confHdrSize
	for ni := range c.Clusters {
		c.Clusters[ni] = Cluster{
			ChanID: buf[offs],
			ClusID: buf[offs+1],
			Coaddf: buf[offs+2],
			Type:   buf[offs+3],
			Start:  binary.BigEndian.Uint16(buf[offs+4 : offs+6]),
			Length: binary.BigEndian.Uint16(buf[offs+6 : offs+8]),
			IntG:   binary.BigEndian.Uint16(buf[offs+8 : offs+10]),
			NRead:  binary.BigEndian.Uint16(buf[offs+10 : offs+12]),
			PET:    math.Float32frombits(binary.BigEndian.Uint32(buf[offs+12 : offs+16])),
		}
		offs += confClusSize
	}
	return nil
}

// MaxNRead returns the highest readout count among clusters of the
// given channel, zero when the channel has no clusters.
func (c *StateConfig) MaxNRead(chanID uint8) uint16 {
	var max uint16
	for ni := range c.Clusters {
		if c.Clusters[ni].ChanID == chanID && c.Clusters[ni].NRead > max {
			max = c.Clusters[ni].NRead
		}
	}
	return max
}

// ChannelClusters returns the clusters of the given channel in
// configuration order.
func (c *StateConfig) ChannelClusters(chanID uint8) []Cluster {
	var clusters []Cluster
	for ni := range c.Clusters {
		if c.Clusters[ni].ChanID == chanID {
			clusters = append(clusters, c.Clusters[ni])
		}
	}
	return clusters
}
