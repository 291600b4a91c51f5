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

package layers

import (
	"fmt"
)

// ErrUnknownPacketType returned when the packet type field is outside
// the three known kinds. The stream position past the offending packet
// is unrecoverable.
type ErrUnknownPacketType struct {
	Offset int
	Type   uint8
}

func (e ErrUnknownPacketType) Error() string {
	return fmt.Sprintf("unknown packet type %d at offset %d", e.Type, e.Offset)
}

// ErrPacketTooShort returned when the remaining bytes can not hold the
// declared packet
type ErrPacketTooShort struct {
	Offset int
	Need   int
	Have   int
}

func (e ErrPacketTooShort) Error() string {
	return fmt.Sprintf("packet at offset %d too short: need %d bytes, have %d",
		e.Offset, e.Need, e.Have)
}

// ErrCorruptDetector returned by the strict detector read when the
// nested channel/cluster structure runs past the packet payload
type ErrCorruptDetector struct {
	Channel int
	Cluster int
}

func (e ErrCorruptDetector) Error() string {
	return fmt.Sprintf("detector payload exhausted at channel %d cluster %d",
		e.Channel, e.Cluster)
}
