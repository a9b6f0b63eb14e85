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

import "fmt"

// NoMatchingDataError reports that a filter, join, or selection step
// produced an empty result where data was expected. It is a terminal error:
// the pipeline never substitutes a zero or partial result for missing data.
type NoMatchingDataError struct {
	Stage string // the pipeline stage that detected the empty result
	Key   string // the field or join key involved
	Value string // the unmatched value, if there is one
}

func (e *NoMatchingDataError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("ghgfire: %s: no data found where %q is %q", e.Stage, e.Key, e.Value)
	}
	return fmt.Sprintf("ghgfire: %s: no matching data for %q", e.Stage, e.Key)
}

// RegionNotFoundError reports that a biomass lookup requested a region that
// has no row in the table. Requesting a missing region is a caller error and
// never falls back to the national default row.
type RegionNotFoundError struct {
	Region string // the requested region
	Table  string // path or name of the table searched
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("ghgfire: biomass table %s has no row for region %q", e.Table, e.Region)
}

// DataTypeError reports a field that was expected to be numeric (or a date)
// but could not be coerced. Malformed values abort the run rather than being
// treated as zero.
type DataTypeError struct {
	Column string // the column holding the bad value
	Value  string // the raw value that failed to parse
	Err    error  // the underlying parse error
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("ghgfire: cannot coerce %q value %q: %v", e.Column, e.Value, e.Err)
}

func (e *DataTypeError) Unwrap() error { return e.Err }

// MissingColumnError reports that an expected column (a forest-type label, a
// classification key, or a scorch-height band) is absent from an input table.
type MissingColumnError struct {
	Table  string // path or name of the table
	Column string // the missing column
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("ghgfire: table %s is missing column %q", e.Table, e.Column)
}
