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

package hk

import (
	"fmt"
)

// ErrInvalidChannel returned for a detector channel id outside [1,8]
type ErrInvalidChannel struct {
	Channel int
}

func (e ErrInvalidChannel) Error() string {
	return fmt.Sprintf("channel must be between 1 and 8, got %d", e.Channel)
}

// ErrInvalidStateID returned for a state identifier outside [1,70]
type ErrInvalidStateID struct {
	StateID int
}

func (e ErrInvalidStateID) Error() string {
	return fmt.Sprintf("state id must be between 1 and 70, got %d", e.StateID)
}
