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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Column names shared by the crosswalk and fire-damage tables. The source
// classification follows Bovio et al. (2007), whose vegetation classes the
// damage table is keyed by.
const (
	sourceClassColumn = "BOVIO_CLASS"
	forestTypeColumn  = "EFFIS_CLASS"
)

// A CrosswalkRow maps one source vegetation class to an EFFIS forest type.
// A class may map to several types and several classes may map to the same
// type; descriptive columns of the crosswalk table (such as BOVIO_NAME) are
// used only by humans and are not retained.
type CrosswalkRow struct {
	SourceClass string
	ForestType  string
}

// ReadCrosswalk reads a CSV vegetation crosswalk from r. The table must
// have BOVIO_CLASS and EFFIS_CLASS columns; name labels the table in errors.
func ReadCrosswalk(r io.Reader, name string) ([]CrosswalkRow, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ghgfire: reading crosswalk table %s: %w", name, err)
	}
	if len(lines) == 0 {
		return nil, &MissingColumnError{Table: name, Column: sourceClassColumn}
	}

	classIndex, typeIndex := -1, -1
	for i, col := range lines[0] {
		switch strings.TrimSpace(col) {
		case sourceClassColumn:
			classIndex = i
		case forestTypeColumn:
			typeIndex = i
		}
	}
	if classIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: sourceClassColumn}
	}
	if typeIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: forestTypeColumn}
	}

	rows := make([]CrosswalkRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, CrosswalkRow{
			SourceClass: strings.TrimSpace(line[classIndex]),
			ForestType:  strings.TrimSpace(line[typeIndex]),
		})
	}
	return rows, nil
}

// ReadCrosswalkFile is ReadCrosswalk reading from the named file.
func ReadCrosswalkFile(filename string) ([]CrosswalkRow, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening crosswalk table: %w", err)
	}
	defer f.Close()
	return ReadCrosswalk(f, filename)
}

// A DamageRow holds the combustion factors of one source vegetation class,
// one per scorch-height band, ordered as ScorchBands.
type DamageRow struct {
	SourceClass string
	Bands       [len(ScorchBands)]float64
}

// ReadDamageTable reads a CSV fire-damage table from r. The table must have
// a BOVIO_CLASS column and the five scorch-height band columns named by
// ScorchBands; name labels the table in errors.
func ReadDamageTable(r io.Reader, name string) ([]DamageRow, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ghgfire: reading fire-damage table %s: %w", name, err)
	}
	if len(lines) == 0 {
		return nil, &MissingColumnError{Table: name, Column: sourceClassColumn}
	}

	classIndex := -1
	bandIndex := [len(ScorchBands)]int{}
	for i := range bandIndex {
		bandIndex[i] = -1
	}
	for i, col := range lines[0] {
		col = strings.TrimSpace(col)
		if col == sourceClassColumn {
			classIndex = i
			continue
		}
		for b, band := range ScorchBands {
			if col == band {
				bandIndex[b] = i
			}
		}
	}
	if classIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: sourceClassColumn}
	}
	for b, i := range bandIndex {
		if i < 0 {
			return nil, &MissingColumnError{Table: name, Column: ScorchBands[b]}
		}
	}

	rows := make([]DamageRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := DamageRow{SourceClass: strings.TrimSpace(line[classIndex])}
		for b, i := range bandIndex {
			value := strings.TrimSpace(line[i])
			row.Bands[b], err = strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &DataTypeError{Column: ScorchBands[b], Value: value, Err: err}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadDamageTableFile is ReadDamageTable reading from the named file.
func ReadDamageTableFile(filename string) ([]DamageRow, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening fire-damage table: %w", err)
	}
	defer f.Close()
	return ReadDamageTable(f, filename)
}

// CombustionFactors joins the vegetation crosswalk to the fire-damage table
// on the source class and reduces the result to one combustion factor in
// [0,1] per EFFIS forest type. Identical joined rows are dropped, and when
// several source classes map to the same forest type their band values are
// averaged. scorchHeight [m] selects the band; pass math.NaN() when the
// height is unknown, in which case the mean of the two highest bands is
// used. A join with no overlapping source classes is a NoMatchingDataError.
func CombustionFactors(crosswalk []CrosswalkRow, damage []DamageRow, scorchHeight float64) (map[string]float64, error) {
	byClass := make(map[string][][len(ScorchBands)]float64)
	for _, d := range damage {
		byClass[d.SourceClass] = append(byClass[d.SourceClass], d.Bands)
	}

	type joined struct {
		forestType string
		bands      [len(ScorchBands)]float64
	}
	seen := make(map[joined]bool)
	groups := make(map[string][][len(ScorchBands)]float64)
	for _, cw := range crosswalk {
		for _, bands := range byClass[cw.SourceClass] {
			j := joined{cw.ForestType, bands}
			if seen[j] {
				continue
			}
			seen[j] = true
			groups[j.forestType] = append(groups[j.forestType], bands)
		}
	}
	if len(groups) == 0 {
		return nil, &NoMatchingDataError{Stage: "combustion factor join", Key: sourceClassColumn}
	}

	factors := make(map[string]float64, len(groups))
	var column []float64
	for t, rows := range groups {
		var mean [len(ScorchBands)]float64
		for b := range mean {
			column = column[:0]
			for _, bands := range rows {
				column = append(column, bands[b])
			}
			mean[b] = floats.Sum(column) / float64(len(column))
		}
		if math.IsNaN(scorchHeight) {
			factors[t] = (mean[3] + mean[4]) / 2
		} else {
			factors[t] = mean[bandForHeight(scorchHeight)]
		}
	}
	return factors, nil
}

// bandForHeight returns the index in ScorchBands of the class containing
// scorch height h [m]. The intervals are evaluated in ascending order with
// inclusive lower bounds, so every height falls in exactly one band and each
// boundary belongs to the band it opens.
func bandForHeight(h float64) int {
	switch {
	case h < 1:
		return 0
	case h < 2.5:
		return 1
	case h < 3.5:
		return 2
	case h < 4.5:
		return 3
	default:
		return 4
	}
}
