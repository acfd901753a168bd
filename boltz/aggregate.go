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
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/krlab/foldsub/helper/csvutil"
	"github.com/krlab/foldsub/log"
)

var (
	repFilePattern    = regexp.MustCompile(`^(.*)_rep\d+\.yaml$`)
	modelIdxPattern   = regexp.MustCompile(`_model_(\d+)\.json$`)
	confidenceTopKeys = []string{
		"confidence_score", "ptm", "iptm", "ligand_iptm", "protein_iptm",
		"complex_plddt", "complex_iplddt", "complex_pde", "complex_ipde",
	}
)

// artifact glob patterns per final output subdirectory. The <job> marker is
// replaced by the job identifier.
var artifactDirs = []struct {
	dir     string
	pattern string
}{
	{"final_pdbs", "<job>_model_*.pdb"},
	{"final_pae", "pae_<job>_model_*.npz"},
	{"final_plddt", "plddt_<job>_model_*.npz"},
	{"final_confidence_json", "confidence_<job>_model_*.json"},
	{"final_affinity_json", "affinity_<job>.json"},
	{"final_pre_affinity", "pre_affinity_<job>.npz"},
	{"final_pde", "pde_<job>_model_*.npz"},
}

// AggregateOptions control the merge of replicate run records with the
// complex definitions CSV and the collection of prediction artifacts
type AggregateOptions struct {
	// YAMLCSV is the complex definitions CSV carrying a yaml_file column
	YAMLCSV string
	// BoltzCSV is the replicate records CSV written by the replicate runner
	BoltzCSV string
	// PredictionsDir is the parent directory of the boltz_results_* folders
	PredictionsDir string
	// OutputDir receives the summary CSV and the final_* subdirectories
	OutputDir      string
	SummaryCSVName string
}

// Aggregate merges the replicate records with the complex definitions,
// flattens the confidence and affinity metrics of every predicted model into
// the merged rows, copies the prediction artifacts into final_* directories
// and writes the summary CSV.
func Aggregate(opts AggregateOptions) error {
	yamlTable, err := csvutil.ReadTable(opts.YAMLCSV)
	if err != nil {
		return err
	}
	if !yamlTable.HasColumn("yaml_file") {
		return errors.Errorf("CSV file %q must have a yaml_file column to merge on", opts.YAMLCSV)
	}
	boltzTable, err := csvutil.ReadTable(opts.BoltzCSV)
	if err != nil {
		return err
	}

	// index definition rows by dock base name
	yamlByBase := make(map[string]map[string]string, len(yamlTable.Rows))
	for _, row := range yamlTable.Rows {
		yamlByBase[strings.TrimSuffix(row["yaml_file"], ".yaml")] = row
	}

	columns := append([]string{}, boltzTable.Columns...)
	columns = append(columns, "base_name")
	for _, col := range yamlTable.Columns {
		columns = append(columns, col)
	}

	summary := &csvutil.Table{Columns: columns}
	var metricColumns []string
	seenMetric := make(map[string]bool)
	jobIDs := make([]string, 0, len(boltzTable.Rows))

	for _, rec := range boltzTable.Rows {
		filename := rec["filename"]
		if filename == "" {
			log.Printf("Warning: skipping a record with no filename in %q", opts.BoltzCSV)
			continue
		}
		row := make(map[string]string, len(columns))
		for k, v := range rec {
			row[k] = v
		}
		base := extractBaseName(filename)
		row["base_name"] = base
		if def, ok := yamlByBase[base]; ok {
			for k, v := range def {
				row[k] = v
			}
		}

		jobID := strings.TrimSuffix(filename, ".yaml")
		jobIDs = append(jobIDs, jobID)
		predFolder := predictionsFolder(opts.PredictionsDir, jobID)
		if info, err := os.Stat(predFolder); err != nil || !info.IsDir() {
			log.Printf("Warning: predictions folder %q not found for dock %s. Skipping file search.", predFolder, jobID)
			summary.Rows = append(summary.Rows, row)
			continue
		}

		confFiles, _ := filepath.Glob(filepath.Join(predFolder, "confidence_"+jobID+"_model_*.json"))
		sort.Strings(confFiles)
		for _, confFile := range confFiles {
			modelIdx := "?"
			if m := modelIdxPattern.FindStringSubmatch(filepath.Base(confFile)); m != nil {
				modelIdx = m[1]
			}
			confMetrics, err := ParseConfidenceJSON(confFile)
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			for _, key := range sortedKeys(confMetrics) {
				col := key + "_model_" + modelIdx
				row[col] = confMetrics[key]
				if !seenMetric[col] {
					seenMetric[col] = true
					metricColumns = append(metricColumns, col)
				}
			}
		}

		affinityPath := filepath.Join(predFolder, "affinity_"+jobID+".json")
		if _, err := os.Stat(affinityPath); err == nil {
			affinityMetrics, err := ParseAffinityJSON(affinityPath)
			if err != nil {
				log.Printf("Warning: %v", err)
			}
			for _, key := range sortedKeys(affinityMetrics) {
				row[key] = affinityMetrics[key]
				if !seenMetric[key] {
					seenMetric[key] = true
					metricColumns = append(metricColumns, key)
				}
			}
		}

		summary.Rows = append(summary.Rows, row)
	}
	summary.Columns = append(summary.Columns, metricColumns...)

	if err := copyArtifacts(opts.PredictionsDir, opts.OutputDir, jobIDs); err != nil {
		return err
	}

	name := opts.SummaryCSVName
	if name == "" {
		name = DefaultSummaryCSVName
	}
	summaryPath := filepath.Join(opts.OutputDir, name)
	if err := summary.Write(summaryPath); err != nil {
		return err
	}
	log.Printf("Final summary CSV written to: %s", summaryPath)
	return nil
}

// ParseConfidenceJSON flattens the metrics of a confidence JSON file.
// Nested chains_ptm and pair_chains_iptm maps are flattened with
// underscore-joined keys.
func ParseConfidenceJSON(path string) (map[string]string, error) {
	data, err := readJSONObject(path)
	if err != nil {
		return nil, err
	}
	metrics := make(map[string]string)
	for _, key := range confidenceTopKeys {
		if v, ok := data[key]; ok {
			metrics[key] = formatJSONValue(v)
		}
	}
	if chains, ok := data["chains_ptm"].(map[string]interface{}); ok {
		for chain, v := range chains {
			metrics["chains_ptm_"+chain] = formatJSONValue(v)
		}
	}
	if pairs, ok := data["pair_chains_iptm"].(map[string]interface{}); ok {
		for chainI, sub := range pairs {
			if subMap, ok := sub.(map[string]interface{}); ok {
				for chainJ, v := range subMap {
					metrics["pair_chains_iptm_"+chainI+"_"+chainJ] = formatJSONValue(v)
				}
			}
		}
	}
	return metrics, nil
}

// ParseAffinityJSON returns the top-level values of an affinity JSON file
func ParseAffinityJSON(path string) (map[string]string, error) {
	data, err := readJSONObject(path)
	if err != nil {
		return nil, err
	}
	metrics := make(map[string]string, len(data))
	for key, v := range data {
		metrics[key] = formatJSONValue(v)
	}
	return metrics, nil
}

// copyArtifacts copies the prediction artifacts of each job into the
// final_* subdirectories of outputDir, one goroutine per job
func copyArtifacts(predictionsDir, outputDir string, jobIDs []string) error {
	for _, spec := range artifactDirs {
		if err := os.MkdirAll(filepath.Join(outputDir, spec.dir), 0755); err != nil {
			return errors.Wrapf(err, "failed to create output directory %q", spec.dir)
		}
	}

	seen := make(map[string]bool, len(jobIDs))
	var g errgroup.Group
	for _, jobID := range jobIDs {
		if seen[jobID] {
			continue
		}
		seen[jobID] = true
		jobID := jobID
		g.Go(func() error {
			predFolder := predictionsFolder(predictionsDir, jobID)
			if info, err := os.Stat(predFolder); err != nil || !info.IsDir() {
				return nil
			}
			for _, spec := range artifactDirs {
				pattern := strings.Replace(spec.pattern, "<job>", jobID, 1)
				matches, _ := filepath.Glob(filepath.Join(predFolder, pattern))
				for _, match := range matches {
					target := filepath.Join(outputDir, spec.dir, filepath.Base(match))
					if err := copyFile(match, target); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func predictionsFolder(predictionsDir, jobID string) string {
	return filepath.Join(predictionsDir, "boltz_results_"+jobID, "predictions", jobID)
}

func extractBaseName(filename string) string {
	if m := repFilePattern.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[:idx]
	}
	return filename
}

func readJSONObject(path string) (map[string]interface{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read JSON file %q", path)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to parse JSON file %q", path)
	}
	return data, nil
}

func formatJSONValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		content, _ := json.Marshal(val)
		return string(content)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyFile(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return errors.Wrapf(err, "failed to open artifact %q", source)
	}
	defer in.Close()
	out, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "failed to create artifact copy %q", target)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "failed to copy artifact %q", source)
	}
	return errors.Wrapf(out.Close(), "failed to copy artifact %q", source)
}
