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
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestReadEmissionFactors(t *testing.T) {
	table, err := ReadEmissionFactorsFile("testdata/emission_factors.csv")
	if err != nil {
		t.Fatal(err)
	}
	wantGases := []string{"CO2", "CO", "CH4", "NMVOC", "N2O", "NOX"}
	if !reflect.DeepEqual(table.Gases(), wantGases) {
		t.Errorf("gases: want %v, have %v", wantGases, table.Gases())
	}

	// A fixed-factor table ignores the forest type.
	for _, typ := range []string{"BROADLEA", "CONIFER", ""} {
		factor, err := table.Factor("CO2", typ)
		if err != nil {
			t.Fatal(err)
		}
		if factor != 1569 {
			t.Errorf("CO2 factor for %q: want 1569, have %g", typ, factor)
		}
	}
}

func TestReadEmissionFactorsKeyed(t *testing.T) {
	in := "FOREST_TYPE,CO2,CH4,N2O\nBROADLEA,1569,4.7,0.26\nCONIFER,1480,4.9,0.25\n"
	table, err := ReadEmissionFactors(strings.NewReader(in), "inline")
	if err != nil {
		t.Fatal(err)
	}
	factor, err := table.Factor("CO2", "CONIFER")
	if err != nil {
		t.Fatal(err)
	}
	if factor != 1480 {
		t.Errorf("CONIFER CO2 factor: want 1480, have %g", factor)
	}

	_, err = table.Factor("CO2", "MIXED")
	var noMatch *NoMatchingDataError
	if !errors.As(err, &noMatch) {
		t.Fatalf("want NoMatchingDataError, have %v", err)
	}
	if noMatch.Value != "MIXED" {
		t.Errorf("value: want MIXED, have %s", noMatch.Value)
	}
}

func TestReadEmissionFactorsErrors(t *testing.T) {
	var missing *MissingColumnError
	_, err := ReadEmissionFactors(strings.NewReader("CO2,CH4\n1569,4.7\n"), "inline")
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnError, have %v", err)
	}
	if missing.Column != N2O {
		t.Errorf("column: want %s, have %s", N2O, missing.Column)
	}

	// A table without a forest-type key must hold exactly one row.
	_, err = ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\n1569,4.7,0.26\n1480,4.9,0.25\n"), "inline")
	if err == nil {
		t.Error("want error for two fixed rows, have nil")
	}

	var badType *DataTypeError
	_, err = ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\nhigh,4.7,0.26\n"), "inline")
	if !errors.As(err, &badType) {
		t.Fatalf("want DataTypeError, have %v", err)
	}
}

// TestTotalEmissions follows one forest type through the whole chain:
// 10 ha burnt at 50% with 100 Mg/ha of biomass and a combustion factor of
// 0.8 combusts 5 × 100 × 1000 × 0.8 = 400,000 kg of fuel.
func TestTotalEmissions(t *testing.T) {
	forestTypes := []string{"BROADLEAF"}
	events := []FireEvent{{AreaHa: 10, ForestPercent: map[string]float64{"BROADLEAF": 50}}}
	area, err := TotalBurntArea(events, forestTypes)
	if err != nil {
		t.Fatal(err)
	}

	factors, err := ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\n1500,5,0.5\n"), "inline")
	if err != nil {
		t.Fatal(err)
	}
	result, err := TotalEmissions(area,
		map[string]float64{"BROADLEAF": 100},
		map[string]float64{"BROADLEAF": 0.8},
		factors, forestTypes)
	if err != nil {
		t.Fatal(err)
	}

	const tolerance = 1.e-10
	if different(result.ByGas["CO2"]["BROADLEAF"], 400000*1500*1.e-6, tolerance) {
		t.Errorf("CO2: want 600, have %g", result.ByGas["CO2"]["BROADLEAF"])
	}
	if different(result.ByGas["CH4"]["BROADLEAF"], 400000*5*1.e-6*GWPCH4, tolerance) {
		t.Errorf("CH4: want 56, have %g", result.ByGas["CH4"]["BROADLEAF"])
	}
	if different(result.ByGas["N2O"]["BROADLEAF"], 400000*0.5*1.e-6*GWPN2O, tolerance) {
		t.Errorf("N2O: want 54.6, have %g", result.ByGas["N2O"]["BROADLEAF"])
	}
	if different(result.TotalCO2e, 600+56+54.6, tolerance) {
		t.Errorf("total: want 710.6, have %g", result.TotalCO2e)
	}
	if different(result.ByForestType["BROADLEAF"], result.TotalCO2e, tolerance) {
		t.Errorf("single-type breakdown: want %g, have %g", result.TotalCO2e, result.ByForestType["BROADLEAF"])
	}
}

// TestTotalEmissionsBreakdown checks that precursor gases are carried in the
// matrix but kept out of the CO2-equivalent sums.
func TestTotalEmissionsBreakdown(t *testing.T) {
	factors, err := ReadEmissionFactorsFile("testdata/emission_factors.csv")
	if err != nil {
		t.Fatal(err)
	}
	forestTypes := []string{"BROADLEA", "CONIFER"}
	area := map[string]float64{"BROADLEA": 5, "CONIFER": 2}
	biomass := map[string]float64{"BROADLEA": 110.7, "CONIFER": 121.8}
	combustion := map[string]float64{"BROADLEA": 0.15, "CONIFER": 0.3}
	result, err := TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if err != nil {
		t.Fatal(err)
	}

	const tolerance = 1.e-10
	for _, gas := range factors.Gases() {
		if _, ok := result.ByGas[gas]; !ok {
			t.Errorf("gas %s missing from matrix", gas)
		}
	}
	for _, typ := range forestTypes {
		combusted := area[typ] * biomass[typ] * kilogramsPerMegagram * combustion[typ]
		want := (1569 + 4.7*GWPCH4 + 0.26*GWPN2O) * combusted * kilotonsPerKilogram
		if different(result.ByForestType[typ], want, tolerance) {
			t.Errorf("%s: want %g, have %g", typ, want, result.ByForestType[typ])
		}
	}
	if different(result.TotalCO2e, result.ByForestType["BROADLEA"]+result.ByForestType["CONIFER"], tolerance) {
		t.Errorf("total %g does not sum the per-type emissions", result.TotalCO2e)
	}
}

func TestTotalEmissionsGWPScaling(t *testing.T) {
	area := map[string]float64{"BROADLEA": 5}
	biomass := map[string]float64{"BROADLEA": 110.7}
	combustion := map[string]float64{"BROADLEA": 0.15}
	forestTypes := []string{"BROADLEA"}

	base, err := ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\n1500,5,0.5\n"), "inline")
	if err != nil {
		t.Fatal(err)
	}
	scaled, err := ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\n3000,10,1\n"), "inline")
	if err != nil {
		t.Fatal(err)
	}
	r1, err := TotalEmissions(area, biomass, combustion, base, forestTypes)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := TotalEmissions(area, biomass, combustion, scaled, forestTypes)
	if err != nil {
		t.Fatal(err)
	}
	if different(r2.TotalCO2e, 2*r1.TotalCO2e, 1.e-10) {
		t.Errorf("doubled factors: want %g, have %g", 2*r1.TotalCO2e, r2.TotalCO2e)
	}
}

// TestTotalEmissionsRepeatable runs the aggregation twice on the same inputs;
// nothing may be carried over between runs.
func TestTotalEmissionsRepeatable(t *testing.T) {
	factors, err := ReadEmissionFactorsFile("testdata/emission_factors.csv")
	if err != nil {
		t.Fatal(err)
	}
	area := map[string]float64{"BROADLEA": 5, "CONIFER": 2}
	biomass := map[string]float64{"BROADLEA": 110.7, "CONIFER": 121.8}
	combustion := map[string]float64{"BROADLEA": 0.15, "CONIFER": 0.3}
	forestTypes := []string{"BROADLEA", "CONIFER"}

	r1, err := TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("repeated run: want %v, have %v", r1, r2)
	}
}

func TestTotalEmissionsMissingInput(t *testing.T) {
	factors, err := ReadEmissionFactors(strings.NewReader("CO2,CH4,N2O\n1500,5,0.5\n"), "inline")
	if err != nil {
		t.Fatal(err)
	}
	area := map[string]float64{"BROADLEA": 5}
	biomass := map[string]float64{"BROADLEA": 110.7}
	combustion := map[string]float64{"BROADLEA": 0.15}
	forestTypes := []string{"BROADLEA", "CONIFER"}

	var missing *MissingColumnError
	_, err = TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnError for missing area, have %v", err)
	}

	area["CONIFER"] = 2
	_, err = TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if !errors.As(err, &missing) || missing.Table != "biomass" {
		t.Fatalf("want MissingColumnError for missing biomass, have %v", err)
	}

	biomass["CONIFER"] = 121.8
	var noMatch *NoMatchingDataError
	_, err = TotalEmissions(area, biomass, combustion, factors, forestTypes)
	if !errors.As(err, &noMatch) {
		t.Fatalf("want NoMatchingDataError for missing combustion factor, have %v", err)
	}
}
