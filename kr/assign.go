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

// Package kr classifies ketoreductase (KR) domains from free-text
// annotations of polyketide synthase modules
package kr

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/krlab/foldsub/helper/csvutil"
	"github.com/krlab/foldsub/log"
)

// Undetermined is the type assigned when no explicit KR type appears in
// the annotation
const Undetermined = "Undetermined"

// Specific subtypes are matched before the general types so the most
// precise classification wins.
var (
	specificSubtypes = []string{
		"A0KR", "A1KR", "A2KR", "B0KR", "B1KR", "B2KR",
		"C0KR", "C1KR", "C2KR",
	}
	generalTypes = []string{"AKR", "BKR", "CKR"}
)

// AssignType determines the core KR type explicitly stated in an annotation
// string, along with a rationale for the assignment. No inference is made
// from downstream domains (DH, ER): their activity modifies the substrate
// and obscures the original KR product, so an annotation without an explicit
// type maps to Undetermined.
func AssignType(annotation string) (string, string) {
	for _, id := range specificSubtypes {
		if strings.Contains(annotation, id) {
			return id, "Directly identified specific subtype '" + id + "' in annotation string."
		}
	}
	for _, id := range generalTypes {
		if strings.Contains(annotation, id) {
			return id, "Directly identified general type '" + id + "' in annotation string."
		}
	}
	if annotation == "" || strings.EqualFold(annotation, "nan") {
		return Undetermined, "Annotation string is empty or NaN."
	}
	return Undetermined, "No explicit KR type found in the annotation string. Type cannot be inferred due to potential downstream modifications."
}

// AssignTypes reads a CSV with an Annotation column, classifies each row
// and writes a copy with core_kr_type and assignment_rationale columns
func AssignTypes(inputCSV, outputCSV string) error {
	t, err := csvutil.ReadTable(inputCSV)
	if err != nil {
		return err
	}
	if !t.HasColumn("Annotation") {
		return errors.Errorf("CSV file %q must contain an 'Annotation' column", inputCSV)
	}

	types := make([]string, len(t.Rows))
	rationales := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		types[i], rationales[i] = AssignType(row["Annotation"])
	}
	t.AddColumn("core_kr_type", types)
	t.AddColumn("assignment_rationale", rationales)

	if err := t.Write(outputCSV); err != nil {
		return err
	}
	log.Printf("Processed %d annotations. Output saved to %q", len(t.Rows), outputCSV)
	return nil
}
