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

package inquire

import (
	"github.com/spf13/cobra"

	"sron.nl/atmos/go-scia/pkg/config"
	"sron.nl/atmos/go-scia/pkg/db"
)

const (
	CatalogOptionName   = "catalog"
	LevelOptionName     = "level"
	OrbitOptionName     = "orbit"
	ProcStageOptionName = "proc-stage"
)

// NewCommand creates a cobra command object for product catalog queries
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquire",
		Short: "Query the product catalog",
	}
	cmd.AddCommand(NewNameCommand())
	cmd.AddCommand(NewTypeCommand())
	return cmd
}

func openCatalog(catalog string) (*db.Catalog, error) {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	if catalog == "" {
		catalog = cfg.CatalogPath
	}
	return db.Open(catalog)
}

func NewNameCommand() *cobra.Command {
	var catalog string
	cmd := &cobra.Command{
		Use:   "name PRODUCT",
		Short: "Look a product up by name, print its archive path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(catalog)
			if err != nil {
				return err
			}
			defer cat.Close()
			product, err := cat.GetProductByName(args[0])
			if err != nil {
				return err
			}
			cmd.Println(product.FullPath())
			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, CatalogOptionName, "", "Catalog database path")
	return cmd
}

func NewTypeCommand() *cobra.Command {
	var catalog, stages string
	var level int
	var orbitArgs []uint
	cmd := &cobra.Command{
		Use:   "type",
		Short: "List products of one processing level",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(catalog)
			if err != nil {
				return err
			}
			defer cat.Close()
			orbits := make([]uint32, len(orbitArgs))
			for ni, orbit := range orbitArgs {
				orbits[ni] = uint32(orbit)
			}
			products, err := cat.GetProductByType(level, stages, orbits...)
			if err != nil {
				return err
			}
			for ni := range products {
				cmd.Println(products[ni].FullPath())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, CatalogOptionName, "", "Catalog database path")
	cmd.Flags().IntVar(&level, LevelOptionName, 0, "Processing level. One of: 0, 1")
	cmd.Flags().StringVar(&stages, ProcStageOptionName, "", "Processing stage characters. E.g. NY")
	cmd.Flags().UintSliceVar(&orbitArgs, OrbitOptionName, nil, "Absolute orbit number or inclusive range. E.g. 2453 or 2453,2500")
	return cmd
}
