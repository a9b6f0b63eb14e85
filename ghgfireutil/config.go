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

package ghgfireutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/chiaquino/ghgfire"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// checkOutputFile expands any environment variables in the output file path
// and ensures that its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="emissions.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("ghgfire: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkFireData ensures that at least one fire-perimeter shapefile was
// specified.
func checkFireData(files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf(`you need to specify at least one fire-perimeter shapefile (for example: FireData=["fires.shp"])`)
	}
	return files, nil
}

// expandStringSlice expands the environment variables in each element of s.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// scorchHeight translates the ScorchHeight option into the value the
// estimation functions expect. Physical heights are non-negative, so a
// negative option value means the height is unknown.
func scorchHeight(h float64) float64 {
	if h < 0 {
		return math.NaN()
	}
	return h
}

// datasetFromConfig assembles the fire-perimeter attribute schema: the TOML
// description named by DatasetFile when one is given, the EFFIS schema
// otherwise, with any FieldAliases entries merged in.
func datasetFromConfig(cfg *viper.Viper) (*ghgfire.Dataset, error) {
	d := ghgfire.EFFISDataset()
	if file := os.ExpandEnv(cfg.GetString("DatasetFile")); file != "" {
		var err error
		if d, err = ghgfire.LoadDatasetFile(file); err != nil {
			return nil, err
		}
	}
	for field, name := range GetStringMapString("FieldAliases", cfg) {
		if d.FieldAliases == nil {
			d.FieldAliases = make(map[string]string)
		}
		d.FieldAliases[field] = name
	}
	return d, nil
}

// filterFromConfig assembles the event filter from the Filter options.
func filterFromConfig(cfg *viper.Viper) *ghgfire.EventFilter {
	return &ghgfire.EventFilter{
		ID:       cfg.GetString("Filter.ID"),
		Year:     cfg.GetInt("Filter.Year"),
		Country:  cfg.GetString("Filter.Country"),
		Region:   cfg.GetString("Filter.Region"),
		Province: cfg.GetString("Filter.Province"),
		Commune:  cfg.GetString("Filter.Commune"),
	}
}

// GetStringMapString returns a map of strings from the configuration
// variable varName, which may either hold a map directly or hold it
// JSON-encoded in a string, as happens when it is set from the command line.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
