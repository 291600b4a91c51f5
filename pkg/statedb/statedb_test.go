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

package statedb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sron.nl/atmos/go-scia/pkg/clusdef"
)

func testConfig(stateID uint8) *clusdef.StateConfig {
	return &clusdef.StateConfig{
		StateID:  stateID,
		NClus:    10,
		Duration: 80,
		NumGeo:   4,
		Clusters: []clusdef.Cluster{
			{ChanID: 1, ClusID: 0, Coaddf: 1, Type: 1, Start: 0, Length: 552,
				IntG: 16, NRead: 1, PET: 1.0},
		},
	}
}

func TestPutGet(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	conf := testConfig(28)
	require.NoError(t, db.Put(12345, conf))

	got, err := db.Get(28, 12345)
	require.NoError(t, err)
	assert.Equal(t, conf, got)

	// configurations are keyed per orbit
	_, err = db.Get(28, 12346)
	assert.Equal(t, ErrNotFound{StateID: 28, Orbit: 12346}, err)

	// and per state
	_, err = db.Get(29, 12345)
	assert.Equal(t, ErrNotFound{StateID: 29, Orbit: 12345}, err)
}

func TestOrbits(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	conf := testConfig(8)
	require.NoError(t, db.Put(300, conf))
	require.NoError(t, db.Put(100, conf))
	require.NoError(t, db.Put(200, conf))

	orbits, err := db.Orbits(8)
	require.NoError(t, err)
	// bbolt iterates keys in byte order, big-endian keys sort by orbit
	assert.Equal(t, []uint32{100, 200, 300}, orbits)
}
