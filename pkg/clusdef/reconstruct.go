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
	"math"
	"sort"

	"sron.nl/atmos/go-scia/pkg/hk"
	"sron.nl/atmos/go-scia/pkg/layers"
	"sron.nl/atmos/go-scia/pkg/log"
)

// Cluster is one entry of a reconstructed state configuration.
type Cluster struct {
	ChanID uint8
	ClusID uint8
	Coaddf uint8
	Type   uint8
	Start  uint16
	Length uint16
	IntG   uint16
	NRead  uint16
	PET    float32
}

// StateConfig is the acquisition configuration of one state execution:
// which detector sub-ranges were read out, at what cadence, with what
// exposure time.
type StateConfig struct {
	StateID  uint8
	NClus    uint8
	Duration uint16
	NumGeo   uint16
	Clusters []Cluster
}

// clusKey identifies one distinct cluster description within a state
// execution.
type clusKey struct {
	chanID uint8
	clusID uint8
	start  uint16
	length uint16
	coaddf uint8
	pet    float64
}

// Reconstruct derives the state configuration from one contiguous run
// of detector packets sharing the same state id. Mixing state ids or
// passing non-detector packets is a caller error.
func Reconstruct(packets []*layers.SourcePacket) (*StateConfig, error) {
	if len(packets) == 0 {
		return nil, ErrInsufficientClusters{Count: 0}
	}

	stateID := packets[0].DataHdr.StateID
	var duration uint16
	icuGroups := make(map[uint32]int)
	seen := make(map[clusKey]struct{})

	for ni, packet := range packets {
		if packet.DataHdr.StateID != stateID {
			return nil, ErrMixedStateIDs{Want: stateID, Got: packet.DataHdr.StateID}
		}
		if packet.Det == nil {
			return nil, ErrNotDetectorPacket{Index: ni}
		}

		icuGroups[packet.DataHdr.ICUTime]++
		if packet.Det.PMTCHdr.BCPS > duration {
			duration = packet.Det.PMTCHdr.BCPS
		}

		for _, chanBlock := range packet.Det.Channels {
			chanID := chanBlock.ID()
			var timing hk.VisTiming
			var irPET float64
			if chanID < 6 {
				timing = hk.DecodeVisCommand(chanBlock.Command)
			} else {
				irPET = hk.DecodeIRCommand(chanBlock.Command)
			}

			for _, clus := range chanBlock.Clus {
				start := clus.Start % layers.ChannelPixels
				pet := irPET
				if chanID < 6 {
					pet = timing.PETAt(start)
				}
				// channel 2 is read out in reverse
				if chanID == 2 {
					start = layers.ChannelPixels - start - clus.Length
				}
				seen[clusKey{
					chanID: chanID,
					clusID: clus.ID,
					start:  start,
					length: clus.Length,
					coaddf: clus.Coaddf,
					pet:    pet,
				}] = struct{}{}
			}
		}
	}

	keys := make([]clusKey, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].chanID != keys[j].chanID {
			return keys[i].chanID < keys[j].chanID
		}
		return keys[i].clusID < keys[j].clusID
	})

	if len(keys) < CanonicalSizes[0] {
		return nil, ErrInsufficientClusters{StateID: stateID, Count: len(keys)}
	}
	if !canonical(len(keys)) {
		trimmed := trimToReference(keys)
		if !canonical(len(trimmed)) {
			return nil, ErrClusterCountMismatch{StateID: stateID, Count: len(trimmed)}
		}
		log.Info("state %d: trimmed %d spurious clusters", stateID, len(keys)-len(trimmed))
		keys = trimmed
	}

	conf := &StateConfig{
		StateID:  stateID,
		NClus:    uint8(len(keys)),
		Duration: duration,
		NumGeo:   medianGroupSize(icuGroups),
		Clusters: make([]Cluster, len(keys)),
	}
	var maxIntG uint16
	for ni, key := range keys {
		intg := uint16(math.Round(16 * float64(key.coaddf) * key.pet))
		if intg < 1 {
			intg = 1
		}
		if intg > maxIntG {
			maxIntG = intg
		}
		conf.Clusters[ni] = Cluster{
			ChanID: key.chanID,
			ClusID: key.clusID,
			Coaddf: key.coaddf,
			Type:   clusterType(key.coaddf),
			Start:  key.start,
			Length: key.length,
			IntG:   intg,
			PET:    float32(key.pet),
		}
	}
	for ni := range conf.Clusters {
		conf.Clusters[ni].NRead = maxIntG / conf.Clusters[ni].IntG
	}
	return conf, nil
}

func canonical(nclus int) bool {
	for _, size := range CanonicalSizes {
		if nclus == size {
			return true
		}
	}
	return false
}

func clusterType(coaddf uint8) uint8 {
	if coaddf > 1 {
		return 2
	}
	return 1
}

// trimToReference removes entries absent from the largest canonical
// layout not exceeding the observed count. Entries are matched on
// channel, start and length; cluster id numbering differs between
// layouts and observed streams.
func trimToReference(keys []clusKey) []clusKey {
	size := CanonicalSizes[0]
	for _, candidate := range CanonicalSizes {
		if candidate <= len(keys) {
			size = candidate
		}
	}
	ref := make(map[[3]uint16]struct{}, size)
	for _, clus := range Layout(size) {
		ref[[3]uint16{uint16(clus.ChanID), clus.Start, clus.Length}] = struct{}{}
	}

	kept := keys[:0]
	for _, key := range keys {
		if _, ok := ref[[3]uint16{uint16(key.chanID), key.start, key.length}]; ok {
			kept = append(kept, key)
		}
	}
	return kept
}

// medianGroupSize guards the geolocation count against a single
// truncated readout: with more than one distinct group size the median
// size wins.
func medianGroupSize(groups map[uint32]int) uint16 {
	sizes := make([]int, 0, len(groups))
	for _, size := range groups {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return uint16(sizes[len(sizes)/2])
}
