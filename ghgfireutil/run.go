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
	"time"

	"github.com/chiaquino/ghgfire"
	"github.com/sirupsen/logrus"
)

// NewLogger returns the logger used by the command-line interface. quiet
// raises the level so that only warnings and errors are printed.
func NewLogger(quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	if quiet {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// Run estimates the greenhouse-gas emissions of the fire events in fireFiles
// that match filter, and writes the report to outputFile.
//
// The burnt area of each forest type named by the dataset schema d is summed
// over the selected events; biomassFile supplies the biomass densities of
// the filtered region (or of defaultRegion when the filter names none);
// crosswalkFile and damageFile are joined into one combustion factor per
// forest type at scorchHeight; and factorsFile supplies the per-gas emission
// factors. legendFile labels the forest types in the report using language,
// and may be empty.
func Run(log logrus.FieldLogger, fireFiles []string, d *ghgfire.Dataset,
	filter *ghgfire.EventFilter, biomassFile, crosswalkFile, damageFile,
	factorsFile, legendFile, language, defaultRegion string,
	scorchHeight float64, outputFile string) (*ghgfire.EmissionsResult, error) {

	var events []ghgfire.FireEvent
	for _, file := range fireFiles {
		ev, err := ghgfire.ReadFireEvents(file, d)
		if err != nil {
			return nil, err
		}
		events = append(events, ev...)
	}
	log.WithFields(logrus.Fields{
		"dataset": d.Name,
		"files":   len(fireFiles),
		"events":  len(events),
	}).Info("loaded fire perimeters")

	selected, err := ghgfire.FilterEvents(events, filter, d)
	if err != nil {
		return nil, err
	}
	area, err := ghgfire.TotalBurntArea(selected, d.ForestTypes)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"selected": len(selected),
	}).Info("aggregated burnt area")

	biomassTable, err := ghgfire.ReadBiomassTableFile(biomassFile, defaultRegion)
	if err != nil {
		return nil, err
	}
	var region string
	if filter != nil {
		region = filter.Region
	}
	biomass, err := biomassTable.Region(region)
	if err != nil {
		return nil, err
	}

	crosswalk, err := ghgfire.ReadCrosswalkFile(crosswalkFile)
	if err != nil {
		return nil, err
	}
	damage, err := ghgfire.ReadDamageTableFile(damageFile)
	if err != nil {
		return nil, err
	}
	combustion, err := ghgfire.CombustionFactors(crosswalk, damage, scorchHeight)
	if err != nil {
		return nil, err
	}

	factors, err := ghgfire.ReadEmissionFactorsFile(factorsFile)
	if err != nil {
		return nil, err
	}
	result, err := ghgfire.TotalEmissions(area, biomass, combustion, factors, d.ForestTypes)
	if err != nil {
		return nil, err
	}

	var legend *ghgfire.Legend
	if legendFile != "" {
		if legend, err = ghgfire.ReadLegendFile(legendFile, language); err != nil {
			return nil, err
		}
	}
	if err := ghgfire.WriteReportFile(outputFile, result, legend, d.ForestTypes); err != nil {
		return nil, err
	}

	if filter != nil && filter.Year != 0 {
		log.WithFields(logrus.Fields{
			"output": outputFile,
		}).Infof("total GHG emissions for the year %d: %.2f Kton CO2eq", filter.Year, result.TotalCO2e)
	} else {
		log.WithFields(logrus.Fields{
			"output": outputFile,
		}).Infof("total GHG emissions: %.2f Kton CO2eq", result.TotalCO2e)
	}
	return result, nil
}
