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
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Dataset describes the attribute schema of a fire-perimeter dataset. The
// zero value is not usable; start from EFFISDataset and override fields, or
// decode a TOML description with LoadDataset.
type Dataset struct {
	// Name identifies the data provider, for example "EFFIS" or "SERCO".
	Name string

	// IDField is the attribute holding the fire identifier.
	IDField string

	// DateField is the attribute holding the fire date. The year used for
	// filtering is derived from this attribute.
	DateField string

	// AreaField is the attribute holding the total burnt area [ha].
	AreaField string

	// CountryField, RegionField, ProvinceField, and CommuneField are the
	// attributes holding the administrative location of the fire. They are
	// optional: events read from a file lacking one of these attributes
	// carry an empty value for it.
	CountryField  string
	RegionField   string
	ProvinceField string
	CommuneField  string

	// ForestTypes are the attributes holding the percentage of the burnt
	// area classified under each forest type, on a 0 to 100 scale. The forest
	// types named here are the keys of every downstream lookup table.
	ForestTypes []string

	// DateLayouts are the reference layouts (in time.Parse form) tried in
	// order when parsing DateField. Provider archives mix layouts across
	// vintages, so several may be needed for one file.
	DateLayouts []string

	// FieldAliases maps attribute names as they appear in the file to the
	// canonical names used above, for providers that rename attributes
	// (for example SERCO burnt-area deliveries). Aliases are applied before
	// any attribute is resolved.
	FieldAliases map[string]string
}

// EFFISDataset returns the attribute schema of the European Forest Fire
// Information System burnt-area product.
func EFFISDataset() *Dataset {
	return &Dataset{
		Name:          "EFFIS",
		IDField:       "id",
		DateField:     "FIREDATE",
		AreaField:     "AREA_HA",
		CountryField:  "COUNTRY",
		RegionField:   "REGION",
		ProvinceField: "PROVINCE",
		CommuneField:  "COMMUNE",
		ForestTypes:   []string{"BROADLEA", "CONIFER", "MIXED", "SCLEROPH", "TRANSIT"},
		DateLayouts: []string{
			"2006/1/2",
			"2006-01-02",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"02/01/2006",
		},
	}
}

// LoadDataset decodes a TOML dataset schema, with EFFISDataset supplying
// defaults for any field the description omits.
func LoadDataset(r io.Reader) (*Dataset, error) {
	d := EFFISDataset()
	if _, err := toml.DecodeReader(r, d); err != nil {
		return nil, fmt.Errorf("ghgfire: decoding dataset schema: %w", err)
	}
	return d, nil
}

// LoadDatasetFile is LoadDataset reading from the named file.
func LoadDatasetFile(filename string) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening dataset schema: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

// canonical maps an attribute name as read from a file to the canonical
// name the schema refers to, applying FieldAliases.
func (d *Dataset) canonical(field string) string {
	if alias, ok := d.FieldAliases[field]; ok {
		return alias
	}
	return field
}
