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

package collect

import (
	"github.com/spf13/cobra"

	"sron.nl/atmos/go-scia/pkg/clusdef"
	"sron.nl/atmos/go-scia/pkg/config"
	"sron.nl/atmos/go-scia/pkg/log"
	"sron.nl/atmos/go-scia/pkg/lv0"
	"sron.nl/atmos/go-scia/pkg/statedb"
)

const (
	StateDBOptionName = "statedb"
	OrbitOptionName   = "orbit"

	AbsOrbitKey = "ABS_ORBIT"
)

// NewCommand creates a cobra command object for collecting state
// configurations out of level 0 products
func NewCommand() *cobra.Command {
	var dbPath string
	var orbit uint32
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "collect PRODUCT",
		Short: "Reconstruct state cluster configurations from a level 0 product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.StateDBPath
			}

			f, err := lv0.Open(args[0])
			if err != nil {
				return err
			}
			if orbit == 0 {
				absOrbit, ok := f.Envelope.MPH.Int(AbsOrbitKey)
				if !ok {
					log.Warning("%s: no %s key, storing under orbit 0", args[0], AbsOrbitKey)
				}
				orbit = uint32(absOrbit)
			}

			db, err := statedb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			stored := 0
			for _, run := range f.DetStateRuns() {
				conf, err := clusdef.Reconstruct(run.Packets)
				if err != nil {
					// a rejected state must not block the others
					log.Warning("orbit %d state %d: %v", orbit, run.StateID, err)
					continue
				}
				if err := db.Put(orbit, conf); err != nil {
					return err
				}
				stored++
			}
			log.Info("orbit %d: stored %d state configurations", orbit, stored)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, StateDBOptionName, "", "State configuration database path")
	cmd.Flags().Uint32Var(&orbit, OrbitOptionName, 0, "Absolute orbit number, overrides the product header")
	return cmd
}
