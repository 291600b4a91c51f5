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

// Package db keeps the product catalog: an SQLite file mapping product
// names to their location in the local archive, one table per
// processing level. The rest of the module treats catalog results as
// opaque paths.
package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Name prefixes of the catalogued product families.
const (
	Level0Prefix = "SCI_NL__0P"
	Level1Prefix = "SCI_NL__1P"
)

var schema = `
CREATE TABLE IF NOT EXISTS meta__0P (
	name        TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	compression INTEGER NOT NULL DEFAULT 0,
	absOrbit    INTEGER NOT NULL,
	procStage   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta__1P (
	name        TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	compression INTEGER NOT NULL DEFAULT 0,
	absOrbit    INTEGER NOT NULL,
	procStage   TEXT NOT NULL
);
`

// Product is one catalog entry. Path holds the archive directory, the
// on-disk name gains a .gz suffix when the product is stored
// compressed.
type Product struct {
	Name        string `db:"name"`
	Path        string `db:"path"`
	Compression int    `db:"compression"`
	AbsOrbit    int    `db:"absOrbit"`
	ProcStage   string `db:"procStage"`
}

// FullPath returns the location of the product file in the archive.
func (p *Product) FullPath() string {
	path := filepath.Join(p.Path, p.Name)
	if p.Compression != 0 {
		path += ".gz"
	}
	return path
}

// Catalog is an open product catalog.
type Catalog struct {
	DB *sqlx.DB
}

// Open opens a catalog file, creating the level tables when absent.
func Open(path string) (*Catalog, error) {
	conn, err := sqlx.Connect(driverName, path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}
	return &Catalog{DB: conn}, nil
}

// Close releases the underlying database.
func (c *Catalog) Close() error {
	return c.DB.Close()
}

func tableForLevel(level int) (string, error) {
	switch level {
	case 0, 1:
		return fmt.Sprintf("meta__%dP", level), nil
	}
	return "", ErrUnknownLevel{Level: level}
}

func tableForName(name string) (string, error) {
	switch {
	case strings.HasPrefix(name, Level0Prefix):
		return "meta__0P", nil
	case strings.HasPrefix(name, Level1Prefix):
		return "meta__1P", nil
	}
	return "", ErrUnknownProduct{Name: name}
}

// Add stores or replaces one catalog entry, the level table follows
// from the product name.
func (c *Catalog) Add(p *Product) error {
	table, err := tableForName(p.Name)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("REPLACE INTO %s (name, path, compression, absOrbit, procStage) "+
		"VALUES (:name, :path, :compression, :absOrbit, :procStage)", table)
	_, err = c.DB.NamedExec(query, p)
	return err
}

// GetProductByName looks one product up by its exact name.
func (c *Catalog) GetProductByName(name string) (*Product, error) {
	table, err := tableForName(name)
	if err != nil {
		return nil, err
	}
	var p Product
	query := fmt.Sprintf("SELECT * FROM %s WHERE name=?", table)
	if err := c.DB.Get(&p, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound{Name: name}
		}
		return nil, err
	}
	return &p, nil
}

// GetProductByType lists the products of one processing level,
// optionally narrowed to a set of stage characters and an orbit or
// inclusive orbit range. Results come in orbit order, highest stage
// first within an orbit.
func (c *Catalog) GetProductByType(level int, stages string, orbits ...uint32) ([]Product, error) {
	table, err := tableForLevel(level)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	var clauses []string
	var args []interface{}
	switch {
	case len(orbits) == 1:
		clauses = append(clauses, "absOrbit=?")
		args = append(args, orbits[0])
	case len(orbits) > 1:
		clauses = append(clauses, "absOrbit BETWEEN ? AND ?")
		args = append(args, orbits[0], orbits[1])
	}
	if stages != "" {
		marks := strings.Repeat("?,", len(stages))
		clauses = append(clauses, fmt.Sprintf("procStage IN (%s)", marks[:len(marks)-1]))
		for _, stage := range stages {
			args = append(args, string(stage))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY absOrbit ASC, procStage DESC"

	var products []Product
	if err := c.DB.Select(&products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}
