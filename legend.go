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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// legendClassColumn is the key column of a land-cover legend table.
const legendClassColumn = "CLASS"

// A Legend maps forest-type classes to display labels in one language.
// Legends are presentation data only; they never affect the computation.
type Legend struct {
	name     string
	language string
	labels   map[string]string
	classes  []string
}

// ReadLegend reads a CSV land-cover legend from r, keeping the labels of
// the column named language (for example "ENGLISH" or "ITALIAN"). The table
// must have a CLASS column and the requested language column; other columns
// are ignored. name labels the table in errors.
func ReadLegend(r io.Reader, name, language string) (*Legend, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ghgfire: reading legend table %s: %w", name, err)
	}
	if len(lines) == 0 {
		return nil, &MissingColumnError{Table: name, Column: legendClassColumn}
	}

	classIndex, labelIndex := -1, -1
	for i, col := range lines[0] {
		switch strings.TrimSpace(col) {
		case legendClassColumn:
			classIndex = i
		case language:
			labelIndex = i
		}
	}
	if classIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: legendClassColumn}
	}
	if labelIndex < 0 {
		return nil, &MissingColumnError{Table: name, Column: language}
	}

	l := &Legend{
		name:     name,
		language: language,
		labels:   make(map[string]string, len(lines)-1),
	}
	for _, line := range lines[1:] {
		class := strings.TrimSpace(line[classIndex])
		l.labels[class] = strings.TrimSpace(line[labelIndex])
		l.classes = append(l.classes, class)
	}
	return l, nil
}

// ReadLegendFile is ReadLegend reading from the named file.
func ReadLegendFile(filename, language string) (*Legend, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ghgfire: opening legend table: %w", err)
	}
	defer f.Close()
	return ReadLegend(f, filename, language)
}

// Label returns the display label for class, or class itself when the
// legend has no entry for it.
func (l *Legend) Label(class string) string {
	if l == nil {
		return class
	}
	if label, ok := l.labels[class]; ok && label != "" {
		return label
	}
	return class
}

// Classes returns the classes in table order.
func (l *Legend) Classes() []string {
	classes := make([]string, len(l.classes))
	copy(classes, l.classes)
	return classes
}

// Language returns the language the legend was read for.
func (l *Legend) Language() string { return l.language }
