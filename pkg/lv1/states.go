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
	"encoding/binary"
	"math"

	"sron.nl/atmos/go-scia/pkg/layers"
)

const (
	// MaxClusters is the cluster slot count of a state definition
	MaxClusters = 64

	// AllChannels counts the UV/VIS and the SWIR science channels
	AllChannels = 8

	// NumPMD is the number of polarisation measurement devices
	NumPMD = 7

	// NumFracPolv is the number of fractional polarisation values
	NumFracPolv = 12

	// clusterDefSize is the byte length of one cluster definition
	clusterDefSize = 17

	// StateRecordSize is the byte length of one state definition record
	StateRecordSize = 43 + MaxClusters*(clusterDefSize+4)
)

// Measurement categories of a state record.
const (
	MDSNadir       = 1
	MDSLimb        = 2
	MDSOccultation = 3
	MDSMonitoring  = 4
)

// ClusterDef is one cluster slot of a state definition: position and
// timing of a pixel range within its science channel.
type ClusterDef struct {
	ID      uint8
	Channel uint8
	Start   uint16
	Length  uint16
	PET     float32
	IntG    uint16
	Coaddf  uint16
	NRead   uint16
	Type    uint8
}

// StateRecord is one state definition from the states data segment.
// Records flagged as attached describe executions without measurement
// data and are skipped by the readers.
type StateRecord struct {
	MJD          layers.MJD
	FlagAttached int8
	FlagReason   int8
	OrbitPhase   float32
	Category     uint16
	StateID      uint16
	Duration     uint16
	IntgMax      uint16
	NumClus      uint16
	Clcon        [MaxClusters]ClusterDef
	MDSType      uint8
	NumGeo       uint16
	NumPMD       uint16
	NumIntg      uint16
	Intg         [MaxClusters]uint16
	Polv         [MaxClusters]uint16
	NumPolv      uint16
	NumDSR       uint16
	LengthDSR    uint32
}

// decodeStateRecord reads one state definition from a
// StateRecordSize-byte slice.
func decodeStateRecord(buf []byte) StateRecord {
	var st StateRecord
	st.MJD = layers.MJD{
		Days:   int32(binary.BigEndian.Uint32(buf[0:4])),
		Secnds: binary.BigEndian.Uint32(buf[4:8]),
		Musec:  binary.BigEndian.Uint32(buf[8:12]),
	}
	st.FlagAttached = int8(buf[12])
	st.FlagReason = int8(buf[13])
	st.OrbitPhase = math.Float32frombits(binary.BigEndian.Uint32(buf[14:18]))
	st.Category = binary.BigEndian.Uint16(buf[18:20])
	st.StateID = binary.BigEndian.Uint16(buf[20:22])
	st.Duration = binary.BigEndian.Uint16(buf[22:24])
	st.IntgMax = binary.BigEndian.Uint16(buf[24:26])
	st.NumClus = binary.BigEndian.Uint16(buf[26:28])

	offs := 28
	for ni := range st.Clcon {
		clus := &st.Clcon[ni]
		clus.ID = buf[offs]
		clus.Channel = buf[offs+1]
		clus.Start = binary.BigEndian.Uint16(buf[offs+2 : offs+4])
		clus.Length = binary.BigEndian.Uint16(buf[offs+4 : offs+6])
		clus.PET = math.Float32frombits(binary.BigEndian.Uint32(buf[offs+6 : offs+10]))
		clus.IntG = binary.BigEndian.Uint16(buf[offs+10 : offs+12])
		clus.Coaddf = binary.BigEndian.Uint16(buf[offs+12 : offs+14])
		clus.NRead = binary.BigEndian.Uint16(buf[offs+14 : offs+16])
		clus.Type = buf[offs+16]
		offs += clusterDefSize
	}

	st.MDSType = buf[offs]
	st.NumGeo = binary.BigEndian.Uint16(buf[offs+1 : offs+3])
	st.NumPMD = binary.BigEndian.Uint16(buf[offs+3 : offs+5])
	st.NumIntg = binary.BigEndian.Uint16(buf[offs+5 : offs+7])
	offs += 7
	for ni := range st.Intg {
		st.Intg[ni] = binary.BigEndian.Uint16(buf[offs : offs+2])
		offs += 2
	}
	for ni := range st.Polv {
		st.Polv[ni] = binary.BigEndian.Uint16(buf[offs : offs+2])
		offs += 2
	}
	st.NumPolv = binary.BigEndian.Uint16(buf[offs : offs+2])
	st.NumDSR = binary.BigEndian.Uint16(buf[offs+2 : offs+4])
	st.LengthDSR = binary.BigEndian.Uint32(buf[offs+4 : offs+8])
	return st
}

// Serialize writes the state definition back in its on-disk form.
func (st *StateRecord) Serialize(buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(st.MJD.Days))
	binary.BigEndian.PutUint32(buf[4:8], st.MJD.Secnds)
	binary.BigEndian.PutUint32(buf[8:12], st.MJD.Musec)
	buf[12] = uint8(st.FlagAttached)
	buf[13] = uint8(st.FlagReason)
	binary.BigEndian.PutUint32(buf[14:18], math.Float32bits(st.OrbitPhase))
	binary.BigEndian.PutUint16(buf[18:20], st.Category)
	binary.BigEndian.PutUint16(buf[20:22], st.StateID)
	binary.BigEndian.PutUint16(buf[22:24], st.Duration)
	binary.BigEndian.PutUint16(buf[24:26], st.IntgMax)
	binary.BigEndian.PutUint16(buf[26:28], st.NumClus)

	offs := 28
	for ni := range st.Clcon {
		clus := &st.Clcon[ni]
		buf[offs] = clus.ID
		buf[offs+1] = clus.Channel
		binary.BigEndian.PutUint16(buf[offs+2:offs+4], clus.Start)
		binary.BigEndian.PutUint16(buf[offs+4:offs+6], clus.Length)
		binary.BigEndian.PutUint32(buf[offs+6:offs+10], math.Float32bits(clus.PET))
		binary.BigEndian.PutUint16(buf[offs+10:offs+12], clus.IntG)
		binary.BigEndian.PutUint16(buf[offs+12:offs+14], clus.Coaddf)
		binary.BigEndian.PutUint16(buf[offs+14:offs+16], clus.NRead)
		buf[offs+16] = clus.Type
		offs += clusterDefSize
	}

	buf[offs] = st.MDSType
	binary.BigEndian.PutUint16(buf[offs+1:offs+3], st.NumGeo)
	binary.BigEndian.PutUint16(buf[offs+3:offs+5], st.NumPMD)
	binary.BigEndian.PutUint16(buf[offs+5:offs+7], st.NumIntg)
	offs += 7
	for ni := range st.Intg {
		binary.BigEndian.PutUint16(buf[offs:offs+2], st.Intg[ni])
		offs += 2
	}
	for ni := range st.Polv {
		binary.BigEndian.PutUint16(buf[offs:offs+2], st.Polv[ni])
		offs += 2
	}
	binary.BigEndian.PutUint16(buf[offs:offs+2], st.NumPolv)
	binary.BigEndian.PutUint16(buf[offs+2:offs+4], st.NumDSR)
	binary.BigEndian.PutUint32(buf[offs+4:offs+8], st.LengthDSR)
}
