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

package clusdef

import (
	"fmt"
)

// ErrInsufficientClusters returned when a state execution yields fewer
// distinct clusters than the smallest canonical configuration
type ErrInsufficientClusters struct {
	StateID uint8
	Count   int
}

func (e ErrInsufficientClusters) Error() string {
	return fmt.Sprintf("state %d: %d distinct clusters, need at least 10",
		e.StateID, e.Count)
}

// ErrClusterCountMismatch returned when the cluster count stays
// non-canonical after trimming against the reference layout
type ErrClusterCountMismatch struct {
	StateID uint8
	Count   int
}

func (e ErrClusterCountMismatch) Error() string {
	return fmt.Sprintf("state %d: %d clusters do not match any canonical configuration",
		e.StateID, e.Count)
}

// ErrMixedStateIDs returned when the input packets do not all belong
// to the same state execution, a caller error
type ErrMixedStateIDs struct {
	Want uint8
	Got  uint8
}

func (e ErrMixedStateIDs) Error() string {
	return fmt.Sprintf("packets mix state ids %d and %d", e.Want, e.Got)
}

// ErrNotDetectorPacket returned when a non-detector packet is passed
// to the reconstructor, a caller error
type ErrNotDetectorPacket struct {
	Index int
}

func (e ErrNotDetectorPacket) Error() string {
	return fmt.Sprintf("packet %d is not a detector packet", e.Index)
}

// ErrInvalidStateID returned for a state identifier outside [1,70]
type ErrInvalidStateID struct {
	StateID int
}

func (e ErrInvalidStateID) Error() string {
	return fmt.Sprintf("state id must be between 1 and 70, got %d", e.StateID)
}

// ErrCorruptRecord returned when a persisted state configuration can
// not be decoded
type ErrCorruptRecord struct {
	Size int
}

func (e ErrCorruptRecord) Error() string {
	return fmt.Sprintf("corrupt state configuration record of %d bytes", e.Size)
}
