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

package lv0

import (
	"fmt"
)

// ErrWrongProduct returned when the specific header descriptor does
// not identify a level 0 product
type ErrWrongProduct struct {
	File       string
	Descriptor string
}

func (e ErrWrongProduct) Error() string {
	return fmt.Sprintf("file %s is not a level 0 product: %q", e.File, e.Descriptor)
}

// ErrMissingSegment returned when a required data segment is absent
// from the product envelope
type ErrMissingSegment struct {
	Name string
}

func (e ErrMissingSegment) Error() string {
	return fmt.Sprintf("product has no %s segment", e.Name)
}

// ErrClusterBounds returned when a cluster's pixel range runs past the
// end of its channel
type ErrClusterBounds struct {
	Channel uint8
	Start   uint16
	Length  uint16
}

func (e ErrClusterBounds) Error() string {
	return fmt.Sprintf("channel %d: cluster at pixel %d length %d runs past the channel end",
		e.Channel, e.Start, e.Length)
}

// ErrNoSuchState returned when a product holds no detector packets of
// the requested state id
type ErrNoSuchState struct {
	StateID uint8
}

func (e ErrNoSuchState) Error() string {
	return fmt.Sprintf("product has no detector packets of state %d", e.StateID)
}
