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

// Per-channel calibration of the detector temperature sensors: raw
// counts at the sample points of tempKelvin, linearly interpolated
// in between.
var tempCounts = [8][16]float64{
	{0, 17876, 18312, 18741, 19161, 19574, 19980, 20379,
		20771, 21157, 21908, 22636, 24684, 26550, 28259, 65535},
	{0, 18018, 18456, 18886, 19309, 19724, 20131, 20532,
		20926, 21313, 22068, 22798, 24852, 26724, 28436, 65535},
	{0, 20601, 20996, 21384, 21765, 22140, 22509, 22872,
		23229, 23581, 23927, 24932, 26201, 27396, 28523, 65535},
	{0, 20333, 20725, 21110, 21490, 21863, 22230, 22591,
		22946, 23295, 23640, 24640, 25905, 27097, 28222, 65535},
	{0, 20548, 20942, 21330, 21711, 22086, 22454, 22817,
		23174, 23525, 23871, 24875, 26144, 27339, 28466, 65535},
	{0, 17893, 18329, 18758, 19179, 19593, 20000, 20399,
		20792, 21178, 21931, 22659, 24709, 26578, 28289, 65535},
	{0, 12994, 13526, 14046, 14555, 15054, 15543, 16022,
		16492, 17850, 20352, 22609, 24656, 26523, 28232, 65535},
	{0, 13129, 13664, 14188, 14702, 15204, 15697, 16180,
		16653, 18019, 20536, 22804, 24860, 26733, 28447, 65535},
}

var tempKelvin = [8][16]float64{
	{179, 180, 185, 190, 195, 200, 205, 210,
		215, 220, 230, 240, 270, 300, 330, 331},
	{179, 180, 185, 190, 195, 200, 205, 210,
		215, 220, 230, 240, 270, 300, 330, 331},
	{209, 210, 215, 220, 225, 230, 235, 240,
		245, 250, 255, 270, 290, 310, 330, 331},
	{209, 210, 215, 220, 225, 230, 235, 240,
		245, 250, 255, 270, 290, 310, 330, 331},
	{209, 210, 215, 220, 225, 230, 235, 240,
		245, 250, 255, 270, 290, 310, 330, 331},
	{179, 180, 185, 190, 195, 200, 205, 210,
		215, 220, 230, 240, 270, 300, 330, 331},
	{129, 130, 135, 140, 145, 150, 155, 160,
		165, 180, 210, 240, 270, 300, 330, 331},
	{129, 130, 135, 140, 145, 150, 155, 160,
		165, 180, 210, 240, 270, 300, 330, 331},
}

// DetectorTemperature converts a raw temperature count of the given
// detector channel to Kelvin by linear interpolation of the channel's
// calibration table.
func DetectorTemperature(channel int, raw uint16) (float64, error) {
	if channel < 1 || channel > 8 {
		return 0, ErrInvalidChannel{Channel: channel}
	}
	counts := tempCounts[channel-1]
	kelvin := tempKelvin[channel-1]

	value := float64(raw)
	for ni := 1; ni < len(counts); ni++ {
		if value > counts[ni] {
			continue
		}
		frac := (value - counts[ni-1]) / (counts[ni] - counts[ni-1])
		return kelvin[ni-1] + frac*(kelvin[ni]-kelvin[ni-1]), nil
	}
	return kelvin[len(kelvin)-1], nil
}
