/*
Copyright © 2021 the GHGFire authors.
This file is part of GHGFire.

GHGFire is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GHGFire is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GHGFire.  If not, see <http://www.gnu.org/licenses/>.
*/

package ghgfire

import (
	"gonum.org/v1/gonum/floats"
)

// TotalBurntArea sums the burnt area of each forest type over events,
// converting each event's 0 to 100 percentage to hectares of the event's total
// area. It returns a map from forest type to total hectares. An empty event
// slice is a NoMatchingDataError: zero events must surface as a failed
// selection, not as zero hectares. An event lacking a percentage for one of
// forestTypes is a MissingColumnError.
func TotalBurntArea(events []FireEvent, forestTypes []string) (map[string]float64, error) {
	if len(events) == 0 {
		return nil, &NoMatchingDataError{Stage: "burnt area aggregation", Key: "fire events"}
	}

	total := make(map[string]float64, len(forestTypes))
	areas := make([]float64, len(events))
	for _, t := range forestTypes {
		for i := range events {
			percent, ok := events[i].ForestPercent[t]
			if !ok {
				return nil, &MissingColumnError{Table: "fire events", Column: t}
			}
			areas[i] = percent / 100 * events[i].AreaHa
		}
		total[t] = floats.Sum(areas)
	}
	return total, nil
}
