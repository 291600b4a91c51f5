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

// Package statedb persists reconstructed state configurations keyed by
// (state id, absolute orbit): one bucket per state, orbit as key.
package statedb

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"sron.nl/atmos/go-scia/pkg/clusdef"
	"sron.nl/atmos/go-scia/pkg/log"
)

const (
	BucketNamePrefix = "State_"
)

// StateDB is the on-disk store of state configurations.
type StateDB struct {
	DB *bbolt.DB
}

// Open opens or creates the state configuration database with buckets
// for all 70 state ids.
func Open(path string) (*StateDB, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for stateID := 1; stateID <= 70; stateID++ {
			_, err = tx.CreateBucketIfNotExists([]byte(bucketName(uint8(stateID))))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &StateDB{DB: db}, nil
}

func bucketName(stateID uint8) string {
	return fmt.Sprintf("%s%02d", BucketNamePrefix, stateID)
}

func orbitToByte(orbit uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, orbit)
	return b
}

// Close ...
func (s *StateDB) Close() {
	s.DB.Close()
}

// Put stores the configuration of one state execution.
func (s *StateDB) Put(orbit uint32, conf *clusdef.StateConfig) error {
	log.Debug("Storing state configuration: state %d orbit %d", conf.StateID, orbit)
	data, err := conf.MarshalBinary()
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(conf.StateID)))
		if b == nil {
			return ErrBucketNotFound{StateID: conf.StateID}
		}
		return b.Put(orbitToByte(orbit), data)
	})
}

// Get retrieves the configuration of one state execution.
func (s *StateDB) Get(stateID uint8, orbit uint32) (*clusdef.StateConfig, error) {
	log.Debug("Getting state configuration: state %d orbit %d", stateID, orbit)
	conf := &clusdef.StateConfig{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(stateID)))
		if b == nil {
			return ErrBucketNotFound{StateID: stateID}
		}
		data := b.Get(orbitToByte(orbit))
		if data == nil {
			return ErrNotFound{StateID: stateID, Orbit: orbit}
		}
		return conf.UnmarshalBinary(data)
	}); err != nil {
		return nil, err
	}
	return conf, nil
}

// Orbits lists the orbits for which a state has stored configurations.
func (s *StateDB) Orbits(stateID uint8) ([]uint32, error) {
	var orbits []uint32
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(stateID)))
		if b == nil {
			return ErrBucketNotFound{StateID: stateID}
		}
		return b.ForEach(func(k, v []byte) error {
			orbits = append(orbits, binary.BigEndian.Uint32(k))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return orbits, nil
}
