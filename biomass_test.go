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
	"reflect"
	"strings"
	"testing"
)

func TestBiomassTableRegion(t *testing.T) {
	table, err := ReadBiomassTableFile("testdata/biomass.csv", "Italia")
	if err != nil {
		t.Fatal(err)
	}
	if table.Regions() != 6 {
		t.Errorf("regions: want 6, have %d", table.Regions())
	}

	row, err := table.Region("Sardegna")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"BROADLEA": 45.2, "CONIFER": 88.6, "MIXED": 66.9, "SCLEROPH": 38.7, "TRANSIT": 51.3}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("Sardegna row: want %v, have %v", want, row)
	}
}

func TestBiomassTableDefaultRegion(t *testing.T) {
	table, err := ReadBiomassTableFile("testdata/biomass.csv", "Italia")
	if err != nil {
		t.Fatal(err)
	}
	row, err := table.Region("")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"BROADLEA": 110.7, "CONIFER": 121.8, "MIXED": 116.2, "SCLEROPH": 44.5, "TRANSIT": 74.9}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("default row: want %v, have %v", want, row)
	}
}

func TestBiomassTableRegionNotFound(t *testing.T) {
	table, err := ReadBiomassTableFile("testdata/biomass.csv", "Italia")
	if err != nil {
		t.Fatal(err)
	}
	_, err = table.Region("Atlantis")
	var notFound *RegionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want RegionNotFoundError, have %v", err)
	}
	if notFound.Region != "Atlantis" {
		t.Errorf("region: want Atlantis, have %s", notFound.Region)
	}

	// The default row is subject to the same check: a table without it
	// cannot serve lookups that specify no region.
	missingDefault, err := ReadBiomassTable(strings.NewReader("Region,BROADLEA\nSardegna,45.2\n"), "inline", "Italia")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := missingDefault.Region(""); !errors.As(err, &notFound) {
		t.Fatalf("want RegionNotFoundError for missing default row, have %v", err)
	}
}

func TestBiomassTableDuplicateRegion(t *testing.T) {
	in := "Region,BROADLEA\nSardegna,45.2\nSardegna,46.0\n"
	if _, err := ReadBiomassTable(strings.NewReader(in), "inline", "Italia"); err == nil {
		t.Error("want error for duplicate region rows, have nil")
	}
}

func TestBiomassTableErrors(t *testing.T) {
	var missing *MissingColumnError
	_, err := ReadBiomassTable(strings.NewReader("Area,BROADLEA\nItalia,110.7\n"), "inline", "Italia")
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnError without Region column, have %v", err)
	}

	var badType *DataTypeError
	_, err = ReadBiomassTable(strings.NewReader("Region,BROADLEA\nItalia,n/a\n"), "inline", "Italia")
	if !errors.As(err, &badType) {
		t.Fatalf("want DataTypeError, have %v", err)
	}
	if badType.Column != "BROADLEA" || badType.Value != "n/a" {
		t.Errorf("data type error: want BROADLEA/n/a, have %s/%s", badType.Column, badType.Value)
	}
}
