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

// Package lv1 reads level 1b products. Measurement records have no
// fixed shape: their layout is built at read time from the product's
// state definitions, then used to decode the per-state data segments.
package lv1

import (
	"encoding/binary"
	"io"
	"os"
	"strings"

	"sron.nl/atmos/go-scia/pkg/envelope"
	"sron.nl/atmos/go-scia/pkg/layers"
	"sron.nl/atmos/go-scia/pkg/log"
)

// Data segment names of a level 1b product.
const (
	StatesDSName      = "STATES"
	NadirDSName       = "NADIR"
	LimbDSName        = "LIMB"
	OccultationDSName = "OCCULTATION"
	MonitoringDSName  = "MONITORING"

	// SPHDescriptorPrefix identifies level 1b products
	SPHDescriptorPrefix = "SCI_NL__1P SPECIFIC"
)

// File is one opened level 1b product. The underlying file stays open
// for measurement reads until Close.
type File struct {
	Filename string
	Envelope *envelope.Envelope
	States   []StateRecord

	fp *os.File
}

// Open reads the envelope and the state definitions of a level 1b
// product. Measurement records are read on demand.
func Open(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	env, err := envelope.Read(fp, stat.Size(), path)
	if err != nil {
		fp.Close()
		return nil, err
	}
	descr, _ := env.SPH.Str(envelope.KeySPHDescriptor)
	if !strings.HasPrefix(descr, SPHDescriptorPrefix) {
		fp.Close()
		return nil, ErrWrongProduct{File: path, Descriptor: descr}
	}

	f := &File{Filename: path, Envelope: env, fp: fp}
	if err := f.readStates(); err != nil {
		fp.Close()
		return nil, err
	}
	return f, nil
}

// Close releases the underlying product file.
func (f *File) Close() error {
	return f.fp.Close()
}

func (f *File) readStates() error {
	seg, ok := f.Envelope.SegmentByName(StatesDSName)
	if !ok {
		return ErrMissingSegment{Name: StatesDSName}
	}
	if seg.RecordSize != StateRecordSize {
		log.Warning("%s: state records of %d bytes, expected %d",
			f.Filename, seg.RecordSize, StateRecordSize)
	}
	if _, err := f.fp.Seek(seg.Offset, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, StateRecordSize)
	for ni := 0; ni < seg.NumRecords; ni++ {
		if _, err := io.ReadFull(f.fp, buf); err != nil {
			return err
		}
		f.States = append(f.States, decodeStateRecord(buf))
	}
	return nil
}

// StatesOf returns the state definitions of one state id that carry
// measurement data.
func (f *File) StatesOf(stateID uint8) []*StateRecord {
	var states []*StateRecord
	for ni := range f.States {
		st := &f.States[ni]
		if st.FlagAttached == 0 && st.StateID == uint16(stateID) {
			states = append(states, st)
		}
	}
	return states
}

// MDSRecord is one undecoded measurement record together with the
// layout that gives its bytes meaning.
type MDSRecord struct {
	Layout *Layout
	Raw    []byte
}

// MJD returns the record's start time fields.
func (r *MDSRecord) MJD() layers.MJD {
	return layers.MJD{
		Days:   int32(binary.BigEndian.Uint32(r.Raw[0:4])),
		Secnds: binary.BigEndian.Uint32(r.Raw[4:8]),
		Musec:  binary.BigEndian.Uint32(r.Raw[8:12]),
	}
}

// ScaleFactor returns the stray-light scale factor of one channel.
func (r *MDSRecord) ScaleFactor(chanID uint8) uint8 {
	return r.Raw[r.Layout.scaleFactorOffset+int(chanID)-1]
}

// Sample is one decoded cluster element: the coadded detector signal,
// its memory or non-linearity readout and the stray-light byte.
type Sample struct {
	Signal float64
	Mem    float64
	Stray  float64
}

// Sample decodes the element at (read, pixel) of a cluster field.
func (r *MDSRecord) Sample(field *ClusterField, read, pixel int) Sample {
	offs := field.Offset + (read*int(field.Length)+pixel)*field.ElemSize
	if field.Coaddf == 1 {
		return Sample{
			Mem:    float64(int8(r.Raw[offs])),
			Signal: float64(binary.BigEndian.Uint16(r.Raw[offs+1 : offs+3])),
			Stray:  float64(r.Raw[offs+3]),
		}
	}
	word := binary.BigEndian.Uint32(r.Raw[offs : offs+4])
	return Sample{
		Mem:    float64(int8(word >> 24)),
		Signal: float64(word & 0xffffff),
		Stray:  float64(r.Raw[offs+4]),
	}
}

// StateExecution is the decoded measurement data of one state
// definition: its record layout and the raw records.
type StateExecution struct {
	State   *StateRecord
	Layout  *Layout
	Records []MDSRecord
}

func mdsSegmentName(mdsType uint8) string {
	switch mdsType {
	case MDSNadir:
		return NadirDSName
	case MDSLimb:
		return LimbDSName
	case MDSOccultation:
		return OccultationDSName
	}
	return MonitoringDSName
}

// GetMDS reads the measurement records of every execution of one state
// id. Record offsets within a data segment are implicit: each segment
// is the concatenation of its states' records in state-definition
// order, so skipped states still advance the running offset.
func (f *File) GetMDS(stateID uint8) ([]StateExecution, error) {
	offsets := make(map[string]int64)

	var execs []StateExecution
	for ni := range f.States {
		st := &f.States[ni]
		name := mdsSegmentName(st.MDSType)
		offs, seen := offsets[name]
		if !seen {
			seg, ok := f.Envelope.SegmentByName(name)
			if !ok {
				offs = -1
			} else {
				offs = seg.Offset
			}
			offsets[name] = offs
		}
		size := int64(st.NumDSR) * int64(st.LengthDSR)
		if offs >= 0 {
			offsets[name] = offs + size
		}

		if st.FlagAttached != 0 || st.StateID != uint16(stateID) {
			continue
		}
		if offs < 0 {
			return nil, ErrMissingSegment{Name: name}
		}

		layout, err := BuildLayout(st)
		if err != nil {
			return nil, err
		}
		if _, err := f.fp.Seek(offs, io.SeekStart); err != nil {
			return nil, err
		}
		exec := StateExecution{State: st, Layout: layout}
		for nj := 0; nj < int(st.NumDSR); nj++ {
			raw := make([]byte, st.LengthDSR)
			if _, err := io.ReadFull(f.fp, raw); err != nil {
				return nil, err
			}
			exec.Records = append(exec.Records, MDSRecord{Layout: layout, Raw: raw})
		}
		execs = append(execs, exec)
	}
	return execs, nil
}
