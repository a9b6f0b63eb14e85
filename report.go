/*
Copyright © 2022 the GHGFire authors.
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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// reportHeader is the column layout of a breakdown report. CH4 and N2O are
// reported as CO2 equivalents, matching EmissionsResult.
var reportHeader = []string{
	"FOREST_TYPE", "LABEL", "CO2 [kt]", "CH4 [kt CO2eq]", "N2O [kt CO2eq]", "TOTAL [kt CO2eq]",
}

type reportRow struct {
	forestType string
	label      string
	values     [4]float64 // CO2, CH4, N2O, total
}

// reportBody flattens a result into one row per forest type plus a trailing
// TOTAL row. Rows follow the order of forestTypes; legend may be nil, in
// which case each label is the forest type itself.
func reportBody(result *EmissionsResult, legend *Legend, forestTypes []string) []reportRow {
	var rows []reportRow
	var total reportRow
	total.forestType = "TOTAL"
	for _, t := range forestTypes {
		row := reportRow{
			forestType: t,
			label:      legend.Label(t),
			values: [4]float64{
				result.ByGas[CO2][t],
				result.ByGas[CH4][t],
				result.ByGas[N2O][t],
				result.ByForestType[t],
			},
		}
		for i, v := range row.values {
			total.values[i] += v
		}
		rows = append(rows, row)
	}
	return append(rows, total)
}

// WriteReport writes the per-forest-type emissions breakdown of result to w
// in CSV form.
func WriteReport(w io.Writer, result *EmissionsResult, legend *Legend, forestTypes []string) error {
	records := [][]string{reportHeader}
	for _, row := range reportBody(result, legend, forestTypes) {
		record := []string{row.forestType, row.label}
		for _, v := range row.values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		records = append(records, record)
	}
	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("ghgfire: writing report: %w", err)
	}
	return nil
}

// WriteReportFile writes the breakdown of result to the named file, as a
// spreadsheet when the file name ends in .xlsx and as CSV otherwise.
func WriteReportFile(filename string, result *EmissionsResult, legend *Legend, forestTypes []string) error {
	if strings.ToLower(filepath.Ext(filename)) == ".xlsx" {
		return writeReportXLSX(filename, result, legend, forestTypes)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("ghgfire: creating report file: %w", err)
	}
	if err := WriteReport(f, result, legend, forestTypes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeReportXLSX(filename string, result *EmissionsResult, legend *Legend, forestTypes []string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("emissions")
	if err != nil {
		return fmt.Errorf("ghgfire: writing report: %w", err)
	}
	header := sheet.AddRow()
	for _, col := range reportHeader {
		header.AddCell().SetString(col)
	}
	for _, row := range reportBody(result, legend, forestTypes) {
		r := sheet.AddRow()
		r.AddCell().SetString(row.forestType)
		r.AddCell().SetString(row.label)
		for _, v := range row.values {
			r.AddCell().SetFloat(v)
		}
	}
	if err := f.Save(filename); err != nil {
		return fmt.Errorf("ghgfire: writing report: %w", err)
	}
	return nil
}
