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
	"os"
	"strconv"
	"strings"
)

// regionColumn is the key column of a biomass table.
const regionColumn = "Region"

// A BiomassTable holds pre-disturbance above-ground biomass densities
// [Mg/ha] per forest type, one row per administrative region plus a
// designated whole-country row used when no region is requested.
type BiomassTable struct {
	name          string
	defaultRegion string
	rows          map[string]map[string]float64
}

// ReadBiomassTable reads a CSV biomass table from r. The table must have a
// "Region" column; every other column is a forest type. name labels the
// table in errors, and defaultRegion names the row returned when a lookup
// requests no region. Duplicate region rows are rejected: a lookup must
// select exactly one row, so an ambiguous table is an error at load time.
func ReadBiomassTable(r io.Reader, name, defaultRegion string) (*BiomassTable, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ghgfire: reading biomass table %s: %w", name, err)
	}
	if len(lines) == 0 {
		return nil, &MissingColumnError{Table: name, Column: regionColumn}
	}

	header := lines[0]
	regionIndex := -1
	for i, col := range header {
		if strings.TrimSpace(col) == regionColumn {
			regionIndex = i
		}
	}
	if regionIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: regionColumn}
	}

	t := &BiomassTable{
		name:          name,
		defaultRegion: defaultRegion,
		rows:          make(map[string]map[string]float64),
	}
	for _, line := range lines[1:] {
		region := strings.TrimSpace(line[regionIndex])
		if _, ok := t.rows[region]; ok {
			return nil, fmt.Errorf("ghgfire: biomass table %s: duplicate row for region %q", name, region)
		}
		row := make(map[string]float64, len(header)-1)
		for i, col := range header {
			if i == regionIndex {
				continue
			}
			value := strings.TrimSpace(line[i])
			row[strings.TrimSpace(col)], err = strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &DataTypeError{Column: strings.TrimSpace(col), Value: value, Err: err}
			}
		}
		t.rows[region] = row
	}
	return t, nil
}

// ReadBiomassTableFile is ReadBiomassTable reading from the named file.
func ReadBiomassTableFile(filename, defaultRegion string) (*BiomassTable, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening biomass table: %w", err)
	}
	defer f.Close()
	return ReadBiomassTable(f, filename, defaultRegion)
}

// Region returns the biomass densities [Mg/ha] per forest type for the
// named region, or for the table's default region when region is empty.
// A named region with no row is a RegionNotFoundError; the caller asking
// for a region that does not exist is distinct from the caller choosing no
// region, so there is no fallback from one to the other.
func (t *BiomassTable) Region(region string) (map[string]float64, error) {
	if region == "" {
		region = t.defaultRegion
	}
	row, ok := t.rows[region]
	if !ok {
		return nil, &RegionNotFoundError{Region: region, Table: t.name}
	}
	return row, nil
}

// DefaultRegion returns the name of the whole-country row.
func (t *BiomassTable) DefaultRegion() string { return t.defaultRegion }

// Regions returns the number of region rows in the table.
func (t *BiomassTable) Regions() int { return len(t.rows) }
