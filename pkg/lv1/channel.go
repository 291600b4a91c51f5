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
	"math"
	"time"

	"sron.nl/atmos/go-scia/pkg/clusdef"
	"sron.nl/atmos/go-scia/pkg/hk"
	"sron.nl/atmos/go-scia/pkg/layers"
)

// ScaleMemNlin scales a raw memory (channels 1-5) or non-linearity
// (channels 6-8) readout to signal units. The affine coefficients are
// fixed per channel.
func ScaleMemNlin(chanID uint8, raw float64) float64 {
	switch {
	case chanID < 6:
		return 1.25 * (raw + 37)
	case chanID == 6:
		return 1.25 * (raw + 102)
	case chanID == 7:
		return 1.5 * (raw + 102)
	}
	return 1.25 * (raw + 126)
}

// ChannelOptions select the optional sample corrections.
type ChannelOptions struct {
	MemCorr   bool
	StrayCorr bool
}

// ChannelGrid is the combined readout of one science channel during
// one state execution: a (readout, sub-readout, pixel) value grid with
// a timestamp per sub-readout. Cells never covered by a cluster stay
// NaN. Both arrays are flat, indexed through At and TimeAt.
type ChannelGrid struct {
	ChanID      uint8
	NumReadouts int
	MaxNRead    int
	Time        []time.Time
	Data        []float64
}

func newChannelGrid(chanID uint8, numReadouts, maxNRead int) *ChannelGrid {
	grid := &ChannelGrid{
		ChanID:      chanID,
		NumReadouts: numReadouts,
		MaxNRead:    maxNRead,
		Time:        make([]time.Time, numReadouts*maxNRead),
		Data:        make([]float64, numReadouts*maxNRead*layers.ChannelPixels),
	}
	for ni := range grid.Data {
		grid.Data[ni] = math.NaN()
	}
	return grid
}

// At returns the sample at (readout, sub-readout, pixel).
func (g *ChannelGrid) At(readout, sub, pixel int) float64 {
	return g.Data[(readout*g.MaxNRead+sub)*layers.ChannelPixels+pixel]
}

func (g *ChannelGrid) set(readout, sub, pixel int, val float64) {
	g.Data[(readout*g.MaxNRead+sub)*layers.ChannelPixels+pixel] = val
}

// TimeAt returns the clock time of one sub-readout.
func (g *ChannelGrid) TimeAt(readout, sub int) time.Time {
	return g.Time[readout*g.MaxNRead+sub]
}

var mjdEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func mjdTime(m layers.MJD) time.Time {
	return mjdEpoch.Add(time.Duration(m.Days)*24*time.Hour +
		time.Duration(m.Secnds)*time.Second +
		time.Duration(m.Musec)*time.Microsecond)
}

// GetChannel combines the readouts of one science channel across the
// executions of one state id, one grid per execution. Executions whose
// definition carries no cluster of the channel are dropped. Slower
// clusters land at the tail of their sub-readout stride, faster ones
// fill every slot.
func (f *File) GetChannel(stateID, chanID uint8, opts ChannelOptions) ([]*ChannelGrid, error) {
	return f.getChannel(stateID, chanID, opts)
}

// GetChannelWithConfig combines the readouts of one science channel
// using a reconstructed state configuration. The configuration must
// agree with the product's own state definitions, cluster for cluster.
func (f *File) GetChannelWithConfig(conf *clusdef.StateConfig, chanID uint8, opts ChannelOptions) ([]*ChannelGrid, error) {
	for _, st := range f.StatesOf(conf.StateID) {
		if err := checkConfig(conf, st); err != nil {
			return nil, err
		}
	}
	return f.getChannel(conf.StateID, chanID, opts)
}

// checkConfig compares a reconstructed configuration against one state
// definition of the product.
func checkConfig(conf *clusdef.StateConfig, st *StateRecord) error {
	if int(st.NumClus) != int(conf.NClus) {
		return ErrConfigMismatch{
			StateID: conf.StateID,
			Detail: fmt.Sprintf("configuration has %d clusters, product declares %d",
				conf.NClus, st.NumClus),
		}
	}
	for ni := 0; ni < int(conf.NClus); ni++ {
		clus := &conf.Clusters[ni]
		def := &st.Clcon[ni]
		if clus.ChanID != def.Channel || clus.Start != def.Start ||
			clus.Length != def.Length ||
			uint16(clus.Coaddf) != def.Coaddf || clus.NRead != def.NRead {
			return ErrConfigMismatch{
				StateID: conf.StateID,
				Detail:  fmt.Sprintf("cluster %d differs", ni),
			}
		}
	}
	return nil
}

func (f *File) getChannel(stateID, chanID uint8, opts ChannelOptions) ([]*ChannelGrid, error) {
	if chanID < 1 || chanID > AllChannels {
		return nil, ErrInvalidChannel{Channel: chanID}
	}
	delay, err := hk.ReadoutDelay(int(stateID))
	if err != nil {
		return nil, err
	}
	execs, err := f.GetMDS(stateID)
	if err != nil {
		return nil, err
	}
	if len(execs) == 0 {
		return nil, ErrNoSuchState{StateID: stateID}
	}

	var grids []*ChannelGrid
	for _, exec := range execs {
		maxNRead := exec.Layout.MaxNRead(chanID)
		if maxNRead == 0 {
			continue
		}
		clusters := exec.Layout.ChannelClusters(chanID)
		period := float64(exec.State.IntgMax) / 16
		subStep := time.Duration(period / float64(maxNRead) * float64(time.Second))

		grid := newChannelGrid(chanID, len(exec.Records), maxNRead)
		for nj := range exec.Records {
			rec := &exec.Records[nj]
			base := mjdTime(rec.MJD()).Add(
				time.Duration(delay * float64(time.Second)))
			for k := 0; k < maxNRead; k++ {
				grid.Time[nj*maxNRead+k] = base.Add(time.Duration(k) * subStep)
			}

			for ci := range clusters {
				field := &clusters[ci]
				step := maxNRead / int(field.NRead)
				var scale float64
				if opts.StrayCorr {
					scale = float64(rec.ScaleFactor(chanID)) / 10
				}
				for read := 0; read < int(field.NRead); read++ {
					sub := (read+1)*step - 1
					for p := 0; p < int(field.Length); p++ {
						sample := rec.Sample(field, read, p)
						val := sample.Signal
						if opts.MemCorr {
							val -= float64(field.Coaddf) * ScaleMemNlin(chanID, sample.Mem)
						}
						if opts.StrayCorr {
							val -= sample.Stray / scale
						}
						grid.set(nj, sub, int(field.Start)+p, val)
					}
				}
			}
		}
		grids = append(grids, grid)
	}
	return grids, nil
}
