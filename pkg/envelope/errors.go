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

package envelope

import (
	"fmt"
)

// ErrCompressed returned when the input starts with a known compression magic
type ErrCompressed struct {
	Format string
}

func (e ErrCompressed) Error() string {
	return fmt.Sprintf("can not read %s compressed product", e.Format)
}

// ErrEnvelope returned when a required header key is absent or out of order
type ErrEnvelope struct {
	Key    string
	Reason string
}

func (e ErrEnvelope) Error() string {
	return fmt.Sprintf("invalid product envelope: key %s: %s", e.Key, e.Reason)
}

// ErrTruncatedFile returned when the declared total size does not match the file size
type ErrTruncatedFile struct {
	File     string
	Declared int64
	Actual   int64
}

func (e ErrTruncatedFile) Error() string {
	return fmt.Sprintf("file %s incomplete: declared %d bytes, actual %d bytes",
		e.File, e.Declared, e.Actual)
}

// ErrSegmentBounds returned when a segment descriptor points outside the file
type ErrSegmentBounds struct {
	Name     string
	Offset   int64
	Size     int64
	FileSize int64
}

func (e ErrSegmentBounds) Error() string {
	return fmt.Sprintf("segment %s exceeds file bounds: offset %d size %d file %d",
		e.Name, e.Offset, e.Size, e.FileSize)
}
