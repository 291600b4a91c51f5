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

// hwDelay is the broadcast pulse hardware delay in seconds
const hwDelay = 0.092765

// riDelay holds the readout-interface enable delay per instrument
// state in 1/256 s units, indexed by state id.
var riDelay = [71]uint16{0,
	86, 86, 86, 86, 86, 86, 86, 86, 86, 86,
	86, 86, 86, 86, 86, 86, 86, 86, 86, 86,
	86, 86, 86, 86, 86, 86, 86, 86, 86, 86,
	86, 86, 86, 86, 86, 86, 86, 86, 86, 86,
	86, 86, 86, 86, 86, 86, 86, 86, 86, 86,
	86, 86, 86, 86, 86, 86, 86, 86, 111, 86,
	303, 86, 86, 86, 86, 86, 86, 86, 111, 303,
}

// ReadoutDelay returns the fixed offset in seconds between the start
// of a state execution and the first detector readout.
func ReadoutDelay(stateID int) (float64, error) {
	if stateID < 1 || stateID > 70 {
		return 0, ErrInvalidStateID{StateID: stateID}
	}
	return hwDelay + float64(riDelay[stateID])/256, nil
}

// ReadoutTime returns the offset in seconds of a readout within its
// state execution: the broadcast pulse counter in 1/16 s units plus
// the state's readout delay.
func ReadoutTime(stateID int, bcps uint16) (float64, error) {
	delay, err := ReadoutDelay(stateID)
	if err != nil {
		return 0, err
	}
	return float64(bcps)/16 + delay, nil
}
