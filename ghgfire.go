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

// Package ghgfire estimates greenhouse-gas emissions released by wildfires
// over forested land, following the methodology of Chiriacò et al. (2013).
//
// The estimate is the product of four factors, each resolved per forest
// type: burnt area [ha] (from a fire-perimeter dataset such as EFFIS),
// above-ground biomass density [Mg/ha] (from national forest-inventory
// averages), a combustion factor selected by flame scorch height (from
// Bovio et al. (2007) damage classes), and gas-specific emission factors.
// Methane and nitrous oxide are converted to CO2 equivalents using 100-year
// global warming potentials from IPCC AR5, and the result is reported in
// kilotons CO2-eq for the selected fire events.
//
// The computation is a one-shot batch transform: every input table is
// loaded fresh for each run, nothing is mutated after loading, and a failed
// lookup or join aborts the run with a descriptive error.
package ghgfire

// Version gives the version number.
const Version = "0.3.1"

// Names of the greenhouse gases that enter the CO2-equivalent total.
// Emission-factor tables may carry additional precursor gases (CO, NOx,
// NMVOC); those are computed but excluded from the total.
const (
	CO2 = "CO2"
	CH4 = "CH4"
	N2O = "N2O"
)

// 100-year global warming potentials from IPCC AR5, used to express CH4 and
// N2O emissions in CO2 equivalents. CO2 is the reference gas.
const (
	GWPCH4 = 28.
	GWPN2O = 273.
)

// kilotonsPerKilogram converts a mass in kilograms to kilotons.
const kilotonsPerKilogram = 1.e-6

// kilogramsPerMegagram converts biomass densities reported in Mg to kg.
const kilogramsPerMegagram = 1000.

// ScorchBands are the column labels of the five scorch-height classes in a
// fire-damage table, ordered by ascending height [m]. Band boundaries are
// half-open: each boundary height belongs to the band where it is the lower
// bound.
var ScorchBands = [5]string{"<1", "1-2.5", "2.5-3.5", "3.5-4.5", ">4.5"}

// CO2eqGases returns the gases that participate in the CO2-equivalent sum.
func CO2eqGases() []string { return []string{CO2, CH4, N2O} }
