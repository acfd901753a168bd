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

package boltz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	yaml "gopkg.in/yaml.v2"

	"github.com/krlab/foldsub/helper/csvutil"
	"github.com/krlab/foldsub/log"
)

var entityTypePattern = regexp.MustCompile(`^entity_(\d+)_type$`)

// constraint columns hold JSON lists, each item is wrapped under the
// singular key in the YAML document ("bonds" -> "bond")
var constraintColumns = []string{"bonds", "pockets", "contacts"}

// WriteInputs reads a CSV of complex definitions, writes one Boltz YAML
// input file per row into yamlOutDir and writes a copy of the CSV with an
// additional yaml_file column to csvOut. It returns the generated YAML file
// names.
func WriteInputs(inputCSV, yamlOutDir, csvOut string) ([]string, error) {
	t, err := csvutil.ReadTable(inputCSV)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(yamlOutDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create YAML output directory %q", yamlOutDir)
	}

	yamlFiles := make([]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		doc, entityIDs := buildComplex(row)

		base := strings.TrimSpace(row["foldname"])
		if base == "" {
			// fall back to a name built from the entity chain IDs
			base = strings.Join(entityIDs, "_")
		}
		name := base + ".yaml"
		yamlFiles = append(yamlFiles, name)

		content, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal YAML for row %d of %q", i, inputCSV)
		}
		path := filepath.Join(yamlOutDir, name)
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to write YAML file %q", path)
		}
	}

	t.AddColumn("yaml_file", yamlFiles)
	if err := t.Write(csvOut); err != nil {
		return nil, err
	}
	return yamlFiles, nil
}

// buildComplex converts one CSV row into a Boltz YAML document. It returns
// the document and the raw chain IDs of the entities, in entity order.
func buildComplex(row map[string]string) (yaml.MapSlice, []string) {
	var doc yaml.MapSlice

	var indexes []int
	for col, val := range row {
		if m := entityTypePattern.FindStringSubmatch(col); m != nil && strings.TrimSpace(val) != "" {
			idx, _ := strconv.Atoi(m[1])
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)

	var sequences []interface{}
	var entityIDs []string
	for _, idx := range indexes {
		prefix := fmt.Sprintf("entity_%d_", idx)
		entityType := strings.TrimSpace(row[prefix+"type"])

		var entity yaml.MapSlice
		rawID := row[prefix+"id"]
		entityIDs = append(entityIDs, rawID)
		chains := strings.Split(rawID, ",")
		if len(chains) > 1 {
			entity = append(entity, yaml.MapItem{Key: "id", Value: chains})
		} else {
			entity = append(entity, yaml.MapItem{Key: "id", Value: chains[0]})
		}
		if v := row[prefix+"sequence"]; strings.TrimSpace(v) != "" {
			entity = append(entity, yaml.MapItem{Key: "sequence", Value: v})
		}
		if v := row[prefix+"smiles"]; strings.TrimSpace(v) != "" {
			entity = append(entity, yaml.MapItem{Key: "smiles", Value: v})
		}
		if v := row[prefix+"ccd"]; strings.TrimSpace(v) != "" {
			entity = append(entity, yaml.MapItem{Key: "ccd", Value: v})
		}
		if v := row[prefix+"msa"]; strings.TrimSpace(v) != "" {
			entity = append(entity, yaml.MapItem{Key: "msa", Value: v})
		}
		if v := row[prefix+"cyclic"]; strings.TrimSpace(v) != "" && cast.ToBool(v) {
			entity = append(entity, yaml.MapItem{Key: "cyclic", Value: true})
		}
		if v := row[prefix+"modifications"]; strings.TrimSpace(v) != "" {
			var mods interface{}
			if err := json.Unmarshal([]byte(v), &mods); err != nil {
				log.Printf("Warning: can't parse JSON in column %q: %v. Skipping modifications for this entity.", prefix+"modifications", err)
			} else {
				entity = append(entity, yaml.MapItem{Key: "modifications", Value: mods})
			}
		}

		sequences = append(sequences, yaml.MapSlice{{Key: entityType, Value: entity}})
	}
	if len(sequences) > 0 {
		doc = append(doc, yaml.MapItem{Key: "sequences", Value: sequences})
	}

	var constraints []interface{}
	for _, col := range constraintColumns {
		v := row[col]
		if strings.TrimSpace(v) == "" {
			continue
		}
		var items []interface{}
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			log.Printf("Warning: can't parse JSON in constraint column %q: %v. Skipping.", col, err)
			continue
		}
		for _, item := range items {
			constraints = append(constraints, yaml.MapSlice{{Key: strings.TrimSuffix(col, "s"), Value: item}})
		}
	}
	if len(constraints) > 0 {
		doc = append(doc, yaml.MapItem{Key: "constraints", Value: constraints})
	}

	if v := row["affinity_binder"]; strings.TrimSpace(v) != "" {
		properties := []interface{}{
			yaml.MapSlice{{Key: "affinity", Value: yaml.MapSlice{{Key: "binder", Value: v}}}},
		}
		doc = append(doc, yaml.MapItem{Key: "properties", Value: properties})
	}

	return doc, entityIDs
}

// WriteTemplate writes a template CSV with every supported column and one
// example protein/ligand complex.
func WriteTemplate(path string) error {
	t := &csvutil.Table{Columns: []string{
		"foldname",
		"entity_1_type", "entity_1_id", "entity_1_sequence", "entity_1_smiles", "entity_1_ccd", "entity_1_msa", "entity_1_cyclic", "entity_1_modifications",
		"entity_2_type", "entity_2_id", "entity_2_sequence", "entity_2_smiles", "entity_2_ccd", "entity_2_msa", "entity_2_cyclic", "entity_2_modifications",
		"bonds", "pockets", "contacts",
		"affinity_binder",
	}}
	t.Rows = append(t.Rows, map[string]string{
		"foldname":               "protein_and_ligand_example",
		"entity_1_type":          "protein",
		"entity_1_id":            "A",
		"entity_1_sequence":      "PIAQIHILEGRSDEQKETLIREVSEAISRSLDAPLTSVRVIITEMAKGHFGIGGELASK",
		"entity_1_msa":           "path/to/proteinA.msa",
		"entity_1_cyclic":        "False",
		"entity_1_modifications": `[{"position": 10, "ccd": "SEP"}]`,
		"entity_2_type":          "ligand",
		"entity_2_id":            "B",
		"entity_2_smiles":        "CC(=O)O",
		"bonds":                  `[{"atom1": ["A", 10, "OG"], "atom2": ["B", 2, "O1"]}]`,
		"pockets":                `[{"binder": "B", "contacts": [["A", 25, "CA"], ["A", 30]], "max_distance": 12.0}]`,
		"affinity_binder":        "B",
	})
	return t.Write(path)
}
