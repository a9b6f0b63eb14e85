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
	"fmt"
	"strconv"
	"strings"
	"time"

	goshp "github.com/jonas-p/go-shp"
)

// FireEvent is one burnt-area polygon from a fire-perimeter dataset.
// Events are immutable once loaded: filtering produces new slices and never
// modifies the records themselves.
type FireEvent struct {
	ID       string
	Date     time.Time
	Year     int // derived from Date
	Country  string
	Region   string
	Province string
	Commune  string

	// AreaHa is the total burnt area of the polygon [ha].
	AreaHa float64

	// ForestPercent maps each forest type to the percentage of AreaHa
	// classified under it, on a 0 to 100 scale. The percentages need not
	// sum to 100; unclassified land is simply not represented.
	ForestPercent map[string]float64
}

// ReadFireEvents reads all fire events from the shapefile at filename,
// resolving attributes through the dataset schema d. The date, area, and
// per-forest-type percentage attributes are required and their absence is a
// MissingColumnError; the identifier and administrative attributes are
// optional and left empty when the file lacks them. Values that cannot be
// coerced to their expected type cause a DataTypeError; a malformed area
// or percentage is never read as zero.
func ReadFireEvents(filename string, d *Dataset) ([]FireEvent, error) {
	r, err := goshp.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening fire perimeters %s: %w", filename, err)
	}
	defer r.Close()

	index := make(map[string]int)
	for i, f := range r.Fields() {
		index[d.canonical(f.String())] = i
	}
	for _, required := range append([]string{d.DateField, d.AreaField}, d.ForestTypes...) {
		if _, ok := index[required]; !ok {
			return nil, &MissingColumnError{Table: filename, Column: required}
		}
	}

	attr := func(row int, field string) (string, bool) {
		i, ok := index[field]
		if !ok {
			return "", false
		}
		// DBF values are padded with spaces or NULs depending on the writer.
		return strings.Trim(r.ReadAttribute(row, i), "\x00 "), true
	}

	var events []FireEvent
	for r.Next() {
		row, _ := r.Shape()

		var ev FireEvent
		ev.ID, _ = attr(row, d.IDField)
		ev.Country, _ = attr(row, d.CountryField)
		ev.Region, _ = attr(row, d.RegionField)
		ev.Province, _ = attr(row, d.ProvinceField)
		ev.Commune, _ = attr(row, d.CommuneField)

		date, _ := attr(row, d.DateField)
		ev.Date, err = parseDate(date, d.DateLayouts)
		if err != nil {
			return nil, &DataTypeError{Column: d.DateField, Value: date, Err: err}
		}
		ev.Year = ev.Date.Year()

		area, _ := attr(row, d.AreaField)
		ev.AreaHa, err = strconv.ParseFloat(area, 64)
		if err != nil {
			return nil, &DataTypeError{Column: d.AreaField, Value: area, Err: err}
		}

		ev.ForestPercent = make(map[string]float64, len(d.ForestTypes))
		for _, t := range d.ForestTypes {
			percent, _ := attr(row, t)
			ev.ForestPercent[t], err = strconv.ParseFloat(percent, 64)
			if err != nil {
				return nil, &DataTypeError{Column: t, Value: percent, Err: err}
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// parseDate tries each reference layout in order.
func parseDate(value string, layouts []string) (time.Time, error) {
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q matches none of the layouts %v", value, layouts)
}

// An EventFilter selects fire events by exact match on the enumerated
// fields. Zero values (empty strings, year 0) leave the corresponding field
// unconstrained; set fields are combined as a conjunction.
type EventFilter struct {
	ID       string
	Year     int
	Country  string
	Region   string
	Province string
	Commune  string
}

// FilterEvents returns the events matching every set field of filter. The
// filter is validated against the dataset schema first: constraining a field
// the schema declares no attribute for is a MissingColumnError. Predicates
// are applied one at a time, and a predicate that leaves no events is a
// NoMatchingDataError naming the offending attribute and value; an empty
// selection never reaches the later stages. A nil filter selects all
// events.
func FilterEvents(events []FireEvent, filter *EventFilter, d *Dataset) ([]FireEvent, error) {
	if filter == nil {
		return events, nil
	}

	predicates := []struct {
		name   string // logical filter field
		column string // attribute name for diagnostics
		value  string // requested value; empty means unconstrained
		match  func(*FireEvent) bool
	}{
		{"id", d.IDField, filter.ID, func(ev *FireEvent) bool { return ev.ID == filter.ID }},
		{"year", "YEAR", yearString(filter.Year), func(ev *FireEvent) bool { return ev.Year == filter.Year }},
		{"country", d.CountryField, filter.Country, func(ev *FireEvent) bool { return ev.Country == filter.Country }},
		{"region", d.RegionField, filter.Region, func(ev *FireEvent) bool { return ev.Region == filter.Region }},
		{"province", d.ProvinceField, filter.Province, func(ev *FireEvent) bool { return ev.Province == filter.Province }},
		{"commune", d.CommuneField, filter.Commune, func(ev *FireEvent) bool { return ev.Commune == filter.Commune }},
	}

	selected := events
	for _, p := range predicates {
		if p.value == "" {
			continue
		}
		if p.column == "" {
			return nil, &MissingColumnError{Table: d.Name, Column: p.name}
		}
		var kept []FireEvent
		for i := range selected {
			if p.match(&selected[i]) {
				kept = append(kept, selected[i])
			}
		}
		if len(kept) == 0 {
			return nil, &NoMatchingDataError{Stage: "event selection", Key: p.column, Value: p.value}
		}
		selected = kept
	}
	return selected, nil
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
