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
	"fmt"
)

// ErrBucketNotFound returned when the bucket of a state id is missing
type ErrBucketNotFound struct {
	StateID uint8
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", bucketName(e.StateID))
}

// ErrNotFound returned when no configuration is stored for the given
// state id and orbit
type ErrNotFound struct {
	StateID uint8
	Orbit   uint32
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("no configuration for state %d orbit %d", e.StateID, e.Orbit)
}
