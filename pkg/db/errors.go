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

package db

import (
	"fmt"
)

// ErrProductNotFound returned when a catalog lookup matches nothing
type ErrProductNotFound struct {
	Name string
}

func (e ErrProductNotFound) Error() string {
	return fmt.Sprintf("catalog has no product %s", e.Name)
}

// ErrUnknownProduct returned for product names outside the catalogued
// name families
type ErrUnknownProduct struct {
	Name string
}

func (e ErrUnknownProduct) Error() string {
	return fmt.Sprintf("product name %s matches no catalogued level", e.Name)
}

// ErrUnknownLevel returned for processing levels without a catalog
// table
type ErrUnknownLevel struct {
	Level int
}

func (e ErrUnknownLevel) Error() string {
	return fmt.Sprintf("no catalog table for processing level %d", e.Level)
}
