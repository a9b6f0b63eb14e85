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

// Package ghgfireutil holds the configuration and command-line interface of
// the ghgfire command.
package ghgfireutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chiaquino/ghgfire"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GHGFire.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "quiet",
			usage: `
              quiet suppresses progress messages; only warnings and errors
              are printed.`,
			shorthand:  "q",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FireData",
			usage: `
              FireData is a list of paths to shapefiles holding the burnt-area
              perimeters, for example an EFFIS yearly extract. Events from all
              files are pooled before filtering.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DatasetFile",
			usage: `
              DatasetFile is the location of a TOML description of the
              fire-perimeter attribute schema. When empty, the EFFIS schema
              is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FieldAliases",
			usage: `
              FieldAliases maps attribute names as they appear in the
              fire-perimeter files to the names the schema expects, for
              providers that rename attributes.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.ID",
			usage: `
              Filter.ID restricts the estimate to the fire event with this
              identifier.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Year",
			usage: `
              Filter.Year restricts the estimate to fire events of this year.
              Zero means no restriction.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Country",
			usage: `
              Filter.Country restricts the estimate to fire events in this
              country code, for example "IT".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Region",
			usage: `
              Filter.Region restricts the estimate to fire events in this
              administrative region. The region also selects the biomass
              table row; without it the national row is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Province",
			usage: `
              Filter.Province restricts the estimate to fire events in this
              province.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Filter.Commune",
			usage: `
              Filter.Commune restricts the estimate to fire events in this
              commune.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "BiomassData",
			usage: `
              BiomassData is the location of the CSV table of above-ground
              biomass densities [Mg/ha] per forest type, one row per region.`,
			defaultVal: "${GOPATH}/src/github.com/chiaquino/ghgfire/testdata/biomass.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CrosswalkData",
			usage: `
              CrosswalkData is the location of the CSV crosswalk between the
              fire-damage vegetation classes and the forest types of the
              burnt-area data.`,
			defaultVal: "${GOPATH}/src/github.com/chiaquino/ghgfire/testdata/crosswalk.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DamageData",
			usage: `
              DamageData is the location of the CSV fire-damage table holding
              the combustion factors per vegetation class and scorch-height
              band.`,
			defaultVal: "${GOPATH}/src/github.com/chiaquino/ghgfire/testdata/damage.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EmissionFactorData",
			usage: `
              EmissionFactorData is the location of the CSV table of emission
              factors [g/kg] per gas, either one fixed row or one row per
              forest type.`,
			defaultVal: "${GOPATH}/src/github.com/chiaquino/ghgfire/testdata/emission_factors.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LegendData",
			usage: `
              LegendData is the location of the CSV land-cover legend used to
              label forest types in reports. When empty, reports use the raw
              forest-type codes.`,
			defaultVal: "${GOPATH}/src/github.com/chiaquino/ghgfire/testdata/legend.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), legendCmd.Flags()},
		},
		{
			name: "Language",
			usage: `
              Language selects the legend label language, for example
              "ENGLISH" or "ITALIAN".`,
			defaultVal: "ENGLISH",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), legendCmd.Flags()},
		},
		{
			name: "ScorchHeight",
			usage: `
              ScorchHeight is the average scorch height [m] of the selected
              fires, which selects the fire-damage band. A negative value
              means the height is unknown, in which case the mean of the two
              highest bands is used.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "DefaultRegion",
			usage: `
              DefaultRegion names the biomass table row used when no region
              filter is set, normally the national row.`,
			defaultVal: "Italia",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the location of the emissions report to be
              written, as a spreadsheet when the name ends in .xlsx and as
              CSV otherwise.`,
			defaultVal: "emissions.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GHGFIRE")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(legendCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ghgfire: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ghgfire",
	Short: "Estimate greenhouse-gas emissions from forest fires.",
	Long: `GHGFire estimates the greenhouse-gas emissions released by forest fires,
combining burnt-area perimeters with per-forest-type biomass, combustion, and
emission-factor tables into a total in kilotons of CO2 equivalent.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'GHGFIRE_var'
where 'var' is the name of the variable to be set. Many configuration
variables are additionally allowed to contain environment variables within
them. Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GHGFire.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GHGFire v%s\n", ghgfire.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is the command that runs the estimation pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Estimate emissions for the selected fire events.",
	Long: `run reads the burnt-area perimeters, keeps the fire events matching the
configured filter, and writes the total greenhouse-gas emissions and their
per-forest-type breakdown to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		fireFiles, err := checkFireData(expandStringSlice(Cfg.GetStringSlice("FireData")))
		if err != nil {
			return err
		}
		dataset, err := datasetFromConfig(Cfg)
		if err != nil {
			return err
		}

		_, err = Run(
			NewLogger(Cfg.GetBool("quiet")),
			fireFiles,
			dataset,
			filterFromConfig(Cfg),
			os.ExpandEnv(Cfg.GetString("BiomassData")),
			os.ExpandEnv(Cfg.GetString("CrosswalkData")),
			os.ExpandEnv(Cfg.GetString("DamageData")),
			os.ExpandEnv(Cfg.GetString("EmissionFactorData")),
			os.ExpandEnv(Cfg.GetString("LegendData")),
			Cfg.GetString("Language"),
			Cfg.GetString("DefaultRegion"),
			scorchHeight(Cfg.GetFloat64("ScorchHeight")),
			outputFile)
		return err
	},
	DisableAutoGenTag: true,
}

// legendCmd prints the forest-type legend.
var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the forest-type legend.",
	Long: `legend prints the forest-type classes of the legend table with their
labels in the configured language.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := os.ExpandEnv(Cfg.GetString("LegendData"))
		if file == "" {
			return fmt.Errorf(`you need to specify a legend table (for example: LegendData="legend.csv")`)
		}
		legend, err := ghgfire.ReadLegendFile(file, Cfg.GetString("Language"))
		if err != nil {
			return err
		}
		for _, class := range legend.Classes() {
			cmd.Printf("%s\t%s\n", class, legend.Label(class))
		}
		return nil
	},
	DisableAutoGenTag: true,
}
