// Copyright 2026 The foldsub Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package csvutil provides a named-column CSV table abstraction
package csvutil

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

// Table is an in-memory CSV with named columns. Row cells are keyed by
// column name, missing cells read as the empty string.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// ReadTable loads a CSV file, its first record being the column names
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %q", path)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read CSV file %q", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("CSV file %q is empty", path)
	}
	t := &Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write saves the table as a CSV file, cells of columns absent from a row
// are written empty
func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create CSV file %q", path)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return errors.Wrapf(err, "failed to write CSV file %q", path)
	}
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write CSV file %q", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "failed to write CSV file %q", path)
}

// AddColumn appends a column, existing rows get values in order
func (t *Table) AddColumn(name string, values []string) {
	t.Columns = append(t.Columns, name)
	for i, row := range t.Rows {
		if i < len(values) {
			row[name] = values[i]
		}
	}
}

// HasColumn returns true if the table carries the given column
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}
