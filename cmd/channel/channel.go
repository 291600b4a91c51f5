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

package channel

import (
	"math"
	"time"

	"github.com/spf13/cobra"

	"sron.nl/atmos/go-scia/pkg/config"
	"sron.nl/atmos/go-scia/pkg/lv1"
	"sron.nl/atmos/go-scia/pkg/statedb"
)

const (
	StateOptionName     = "state"
	ChannelOptionName   = "chan"
	MemCorrOptionName   = "mem-corr"
	StrayCorrOptionName = "stray-corr"
	OrbitOptionName     = "orbit"
	StateDBOptionName   = "statedb"
)

// NewCommand creates a cobra command object for combining the readouts
// of one science channel from a level 1b product
func NewCommand() *cobra.Command {
	var stateID, chanID uint8
	var memCorr, strayCorr bool
	var orbit uint32
	var dbPath string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "channel PRODUCT",
		Short: "Combine science channel readouts from a level 1b product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := lv1.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts := lv1.ChannelOptions{MemCorr: memCorr, StrayCorr: strayCorr}
			var grids []*lv1.ChannelGrid
			if orbit != 0 {
				// cross-check against the collected configuration
				if dbPath == "" {
					dbPath = cfg.StateDBPath
				}
				db, err := statedb.Open(dbPath)
				if err != nil {
					return err
				}
				conf, err := db.Get(stateID, orbit)
				db.Close()
				if err != nil {
					return err
				}
				grids, err = f.GetChannelWithConfig(conf, chanID, opts)
				if err != nil {
					return err
				}
			} else if grids, err = f.GetChannel(stateID, chanID, opts); err != nil {
				return err
			}

			for ni, grid := range grids {
				cmd.Printf("execution %d: %d readouts x %d sub-readouts\n",
					ni, grid.NumReadouts, grid.MaxNRead)
				for nj := 0; nj < grid.NumReadouts; nj++ {
					for k := 0; k < grid.MaxNRead; k++ {
						count, mean := rowStats(grid, nj, k)
						cmd.Printf("  %s  pixels %4d  mean %12.2f\n",
							grid.TimeAt(nj, k).Format(time.RFC3339Nano), count, mean)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint8Var(&stateID, StateOptionName, 0, "State id to combine. E.g. 28")
	cmd.Flags().Uint8Var(&chanID, ChannelOptionName, 0, "Science channel id. One of: 1..8")
	cmd.Flags().BoolVar(&memCorr, MemCorrOptionName, false, "Apply the memory/non-linearity correction")
	cmd.Flags().BoolVar(&strayCorr, StrayCorrOptionName, false, "Apply the stray-light correction")
	cmd.Flags().Uint32Var(&orbit, OrbitOptionName, 0, "Validate against the configuration collected for this orbit")
	cmd.Flags().StringVar(&dbPath, StateDBOptionName, "", "State configuration database path")
	return cmd
}

// rowStats counts the covered pixels of one sub-readout and averages
// their values.
func rowStats(grid *lv1.ChannelGrid, readout, sub int) (int, float64) {
	count := 0
	sum := 0.0
	for pixel := 0; pixel < 1024; pixel++ {
		val := grid.At(readout, sub, pixel)
		if math.IsNaN(val) {
			continue
		}
		count++
		sum += val
	}
	if count == 0 {
		return 0, math.NaN()
	}
	return count, sum / float64(count)
}
