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

	"github.com/ctessum/unit"
	"gonum.org/v1/gonum/floats"
)

// forestTypeKeyColumn marks an emission-factor table whose rows are keyed
// by forest type rather than holding one fixed factor per gas.
const forestTypeKeyColumn = "FOREST_TYPE"

const squareMetersPerHectare = 1.e4

// An EmissionFactorTable holds per-gas emission factors, either one fixed
// factor per gas or one per (gas, forest type) pair. Gas columns beyond
// CO2, CH4, and N2O (precursors such as CO or NOx) are carried through the
// emissions matrix but excluded from CO2-equivalent totals.
type EmissionFactorTable struct {
	name   string
	gases  []string
	fixed  map[string]float64            // single-row table: gas → factor
	byType map[string]map[string]float64 // keyed table: forest type → gas → factor
}

// ReadEmissionFactors reads a CSV emission-factor table from r. Every
// column is a gas, except an optional leading FOREST_TYPE column that keys
// one row per forest type; without it the table must consist of a single
// row of fixed factors. The CO2, CH4, and N2O columns are required. name
// labels the table in errors.
func ReadEmissionFactors(r io.Reader, name string) (*EmissionFactorTable, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ghgfire: reading emission-factor table %s: %w", name, err)
	}
	if len(lines) == 0 {
		return nil, &MissingColumnError{Table: name, Column: CO2}
	}

	header := make([]string, len(lines[0]))
	for i, col := range lines[0] {
		header[i] = strings.TrimSpace(col)
	}
	keyIndex := -1
	t := &EmissionFactorTable{name: name}
	for i, col := range header {
		if col == forestTypeKeyColumn {
			keyIndex = i
			continue
		}
		t.gases = append(t.gases, col)
	}
	for _, gas := range CO2eqGases() {
		found := false
		for _, g := range t.gases {
			if g == gas {
				found = true
			}
		}
		if !found {
			return nil, &MissingColumnError{Table: name, Column: gas}
		}
	}

	parseRow := func(line []string) (map[string]float64, error) {
		row := make(map[string]float64, len(t.gases))
		for i, col := range header {
			if i == keyIndex {
				continue
			}
			value := strings.TrimSpace(line[i])
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &DataTypeError{Column: col, Value: value, Err: err}
			}
			row[col] = v
		}
		return row, nil
	}

	if keyIndex < 0 {
		if len(lines) != 2 {
			return nil, fmt.Errorf("ghgfire: emission-factor table %s: want one row of fixed factors, have %d rows", name, len(lines)-1)
		}
		if t.fixed, err = parseRow(lines[1]); err != nil {
			return nil, err
		}
		return t, nil
	}

	t.byType = make(map[string]map[string]float64, len(lines)-1)
	for _, line := range lines[1:] {
		forestType := strings.TrimSpace(line[keyIndex])
		if t.byType[forestType], err = parseRow(line); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ReadEmissionFactorsFile is ReadEmissionFactors reading from the named file.
func ReadEmissionFactorsFile(filename string) (*EmissionFactorTable, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening emission-factor table: %w", err)
	}
	defer f.Close()
	return ReadEmissionFactors(f, filename)
}

// Gases returns the gas columns of the table in file order.
func (t *EmissionFactorTable) Gases() []string {
	gases := make([]string, len(t.gases))
	copy(gases, t.gases)
	return gases
}

// Factor returns the emission factor of gas for forestType. For a
// fixed-factor table the forest type is ignored; for a keyed table a forest
// type with no row is a NoMatchingDataError.
func (t *EmissionFactorTable) Factor(gas, forestType string) (float64, error) {
	if t.byType == nil {
		return t.fixed[gas], nil
	}
	row, ok := t.byType[forestType]
	if !ok {
		return 0, &NoMatchingDataError{Stage: "emission factor lookup", Key: forestTypeKeyColumn, Value: forestType}
	}
	return row[gas], nil
}

// An EmissionsResult is the outcome of one run. It is fully derived from
// its inputs and recomputed from scratch every run.
type EmissionsResult struct {
	// TotalCO2e is the total emission over all forest types [kt CO2-eq].
	TotalCO2e float64

	// ByForestType is the CO2-equivalent emission per forest type [kt],
	// summed over CO2, CH4, and N2O.
	ByForestType map[string]float64

	// ByGas is the full gas × forest type emissions matrix [kt]. The CH4
	// and N2O entries are CO2 equivalents; entries for any other gas are
	// kilotons of the gas itself.
	ByGas map[string]map[string]float64
}

// TotalEmissions combines the burnt area [ha], biomass density [Mg/ha], and
// combustion factor of each forest type with the emission-factor table into
// the total CO2-equivalent emission and its breakdowns.
//
// For each forest type the combusted fuel mass [kg] is
// area × biomass × 1000 × combustion factor, assembled as dimensioned
// quantities so that a mismatch cannot pass silently. Each (gas, type) cell
// of the result is then factor × combusted mass, scaled by 1e-6 to kilotons,
// with the CH4 and N2O rows converted to CO2 equivalents by their 100-year
// GWPs. The total sums the CO2, CH4, and N2O rows over forestTypes;
// precursor gases stay out of the total.
func TotalEmissions(area, biomass, combustion map[string]float64, factors *EmissionFactorTable, forestTypes []string) (*EmissionsResult, error) {
	combusted := make(map[string]float64, len(forestTypes))
	for _, t := range forestTypes {
		a, ok := area[t]
		if !ok {
			return nil, &MissingColumnError{Table: "burnt area", Column: t}
		}
		b, ok := biomass[t]
		if !ok {
			return nil, &MissingColumnError{Table: "biomass", Column: t}
		}
		c, ok := combustion[t]
		if !ok {
			return nil, &NoMatchingDataError{Stage: "emissions aggregation", Key: forestTypeColumn, Value: t}
		}

		fuel := unit.Mul(
			unit.New(a*squareMetersPerHectare, unit.Meter2),
			unit.New(b*kilogramsPerMegagram/squareMetersPerHectare, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2}),
		)
		mass := unit.Mul(fuel, unit.New(c, unit.Dimless))
		if err := mass.Check(unit.Kilogram); err != nil {
			return nil, fmt.Errorf("ghgfire: combusted mass for %s: %w", t, err)
		}
		combusted[t] = mass.Value()
	}

	result := &EmissionsResult{
		ByForestType: make(map[string]float64, len(forestTypes)),
		ByGas:        make(map[string]map[string]float64, len(factors.gases)),
	}
	for _, gas := range factors.gases {
		row := make(map[string]float64, len(forestTypes))
		for _, t := range forestTypes {
			factor, err := factors.Factor(gas, t)
			if err != nil {
				return nil, err
			}
			cell := factor * combusted[t] * kilotonsPerKilogram
			switch gas {
			case CH4:
				cell *= GWPCH4
			case N2O:
				cell *= GWPN2O
			}
			row[t] = cell
		}
		result.ByGas[gas] = row
	}

	perType := make([]float64, 0, len(forestTypes))
	gasCells := make([]float64, 0, len(CO2eqGases()))
	for _, t := range forestTypes {
		gasCells = gasCells[:0]
		for _, gas := range CO2eqGases() {
			gasCells = append(gasCells, result.ByGas[gas][t])
		}
		result.ByForestType[t] = floats.Sum(gasCells)
		perType = append(perType, result.ByForestType[t])
	}
	result.TotalCO2e = floats.Sum(perType)
	return result, nil
}
