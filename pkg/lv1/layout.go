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

package lv1

import (
	"fmt"

	"sron.nl/atmos/go-scia/pkg/layers"
)

// Fixed field extents of a measurement record. Geolocation blocks
// differ per measurement category, everything else is shared.
const (
	geoNadirSize   = 108
	geoLimbSize    = 112
	geoMonitorSize = 28
	lv0HdrSize     = 72
	fracPolSize    = 256
)

// Field is one named extent within a measurement record.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// ClusterField is the extent of one cluster's sample block, together
// with the cluster definition needed to decode and place its samples.
// Elements are 4 bytes for single exposures (memory correction,
// 16-bit signal, stray-light byte) and 5 bytes for coadded ones
// (24-bit signal with a signed correction in the top byte, then the
// stray-light byte).
type ClusterField struct {
	Field
	ClusID   uint8
	Channel  uint8
	Start    uint16
	Length   uint16
	Coaddf   uint16
	NRead    uint16
	ElemSize int
}

// Layout is a closed record-layout descriptor for the measurement
// records of one state definition. It is derived from the state record
// alone and never changes once built.
type Layout struct {
	MDSType    uint8
	NumAux     int
	NumPMD     int
	NumPolv    int
	RecordSize int
	Fields     []Field
	Clusters   []ClusterField

	scaleFactorOffset int
}

func (l *Layout) addField(name string, size int) {
	l.Fields = append(l.Fields, Field{Name: name, Offset: l.RecordSize, Size: size})
	l.RecordSize += size
}

// BuildLayout derives the measurement record layout from a state
// definition. The computed record size must span the record length the
// product declares, a mismatch means the definition and the data
// segment disagree.
func BuildLayout(state *StateRecord) (*Layout, error) {
	if state.NumDSR == 0 {
		return nil, ErrEmptyState{StateID: state.StateID}
	}

	layout := &Layout{MDSType: state.MDSType}
	layout.NumAux = int(state.NumGeo) / int(state.NumDSR)
	layout.NumPMD = NumPMD * int(state.NumPMD) / int(state.NumDSR)
	layout.NumPolv = int(state.NumPolv) / int(state.NumDSR)

	geoSize := geoMonitorSize
	switch state.MDSType {
	case MDSNadir:
		geoSize = geoNadirSize
	case MDSLimb, MDSOccultation:
		geoSize = geoLimbSize
	}

	layout.addField("mjd", layers.MJDSize)
	layout.addField("dsr_length", 4)
	layout.addField("quality_flag", 1)
	layout.scaleFactorOffset = layout.RecordSize
	layout.addField("scale_factor", AllChannels)
	layout.addField("sat_flag", layout.NumAux)
	layout.addField("red_grass", layout.NumAux*int(state.NumClus))
	layout.addField("sun_glint", layout.NumAux)
	layout.addField("geo", layout.NumAux*geoSize)
	layout.addField("lv0_hdr", layout.NumAux*lv0HdrSize)
	if state.MDSType == MDSNadir || state.MDSType == MDSLimb ||
		state.MDSType == MDSOccultation {
		layout.addField("pmd", 4*layout.NumPMD)
		layout.addField("frac_pol", layout.NumPolv*fracPolSize)
	}

	for ni := 0; ni < int(state.NumClus); ni++ {
		clus := &state.Clcon[ni]
		if int(clus.Start)+int(clus.Length) > layers.ChannelPixels {
			return nil, ErrInvalidClusterDef{
				StateID: state.StateID,
				Cluster: ni,
				Start:   clus.Start,
				Length:  clus.Length,
			}
		}
		elem := 5
		if clus.Coaddf == 1 {
			elem = 4
		}
		field := ClusterField{
			Field: Field{
				Name:   fmt.Sprintf("clus_%02d", ni),
				Offset: layout.RecordSize,
				Size:   int(clus.NRead) * int(clus.Length) * elem,
			},
			ClusID:   clus.ID,
			Channel:  clus.Channel,
			Start:    clus.Start,
			Length:   clus.Length,
			Coaddf:   clus.Coaddf,
			NRead:    clus.NRead,
			ElemSize: elem,
		}
		layout.Clusters = append(layout.Clusters, field)
		layout.RecordSize += field.Size
	}

	if layout.RecordSize != int(state.LengthDSR) {
		return nil, ErrRecordSizeMismatch{
			StateID:  state.StateID,
			Computed: layout.RecordSize,
			Declared: int(state.LengthDSR),
		}
	}
	return layout, nil
}

// ChannelClusters returns the cluster fields belonging to one science
// channel.
func (l *Layout) ChannelClusters(chanID uint8) []ClusterField {
	var fields []ClusterField
	for _, field := range l.Clusters {
		if field.Channel == chanID {
			fields = append(fields, field)
		}
	}
	return fields
}

// MaxNRead returns the highest readout count among the clusters of one
// science channel, zero when the channel has no clusters.
func (l *Layout) MaxNRead(chanID uint8) int {
	max := 0
	for _, field := range l.Clusters {
		if field.Channel == chanID && int(field.NRead) > max {
			max = int(field.NRead)
		}
	}
	return max
}
