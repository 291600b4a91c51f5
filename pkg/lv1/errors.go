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
)

// ErrWrongProduct returned when the specific header descriptor does
// not identify a level 1b product
type ErrWrongProduct struct {
	File       string
	Descriptor string
}

func (e ErrWrongProduct) Error() string {
	return fmt.Sprintf("file %s is not a level 1b product: %q", e.File, e.Descriptor)
}

// ErrMissingSegment returned when a required data segment is absent
// from the product envelope
type ErrMissingSegment struct {
	Name string
}

func (e ErrMissingSegment) Error() string {
	return fmt.Sprintf("product has no %s segment", e.Name)
}

// ErrNoSuchState returned when a product holds no attached executions
// of the requested state id
type ErrNoSuchState struct {
	StateID uint8
}

func (e ErrNoSuchState) Error() string {
	return fmt.Sprintf("product has no executions of state %d", e.StateID)
}

// ErrInvalidChannel returned for channel ids outside [1, 8]
type ErrInvalidChannel struct {
	Channel uint8
}

func (e ErrInvalidChannel) Error() string {
	return fmt.Sprintf("invalid science channel id %d", e.Channel)
}

// ErrRecordSizeMismatch returned when the record layout built from a
// state definition does not span the declared record length
type ErrRecordSizeMismatch struct {
	StateID  uint16
	Computed int
	Declared int
}

func (e ErrRecordSizeMismatch) Error() string {
	return fmt.Sprintf("state %d: computed record size %d, product declares %d",
		e.StateID, e.Computed, e.Declared)
}

// ErrConfigMismatch returned when a persisted state configuration
// disagrees with the product's own state definition
type ErrConfigMismatch struct {
	StateID uint8
	Detail  string
}

func (e ErrConfigMismatch) Error() string {
	return fmt.Sprintf("state %d: stored configuration does not match the product: %s",
		e.StateID, e.Detail)
}

// ErrInvalidClusterDef returned when a state definition's cluster
// claims pixels past the end of its channel
type ErrInvalidClusterDef struct {
	StateID uint16
	Cluster int
	Start   uint16
	Length  uint16
}

func (e ErrInvalidClusterDef) Error() string {
	return fmt.Sprintf("state %d: cluster %d at pixel %d length %d runs past the channel end",
		e.StateID, e.Cluster, e.Start, e.Length)
}

// ErrEmptyState returned when a state definition declares zero records
type ErrEmptyState struct {
	StateID uint16
}

func (e ErrEmptyState) Error() string {
	return fmt.Sprintf("state %d declares no records", e.StateID)
}
