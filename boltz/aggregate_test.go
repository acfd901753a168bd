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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlab/foldsub/helper/csvutil"
)

const confidenceJSON = `{
	"confidence_score": 0.91,
	"ptm": 0.88,
	"iptm": 0.75,
	"complex_plddt": 0.9,
	"chains_ptm": {"0": 0.87, "1": 0.72},
	"pair_chains_iptm": {"0": {"0": 0.87, "1": 0.74}, "1": {"0": 0.74, "1": 0.72}}
}`

const affinityJSON = `{"affinity_pred_value": 1.52, "affinity_probability_binary": 0.67}`

// buildPredictions lays out a fake prediction output tree for one job
func buildPredictions(t *testing.T, predictionsDir, jobID string) {
	folder := filepath.Join(predictionsDir, "boltz_results_"+jobID, "predictions", jobID)
	require.NoError(t, os.MkdirAll(folder, 0755))
	files := map[string]string{
		"confidence_" + jobID + "_model_0.json": confidenceJSON,
		"affinity_" + jobID + ".json":           affinityJSON,
		jobID + "_model_0.pdb":                  "ATOM",
		"pae_" + jobID + "_model_0.npz":         "npz",
		"plddt_" + jobID + "_model_0.npz":       "npz",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(content), 0644))
	}
}

func aggregateFixture(t *testing.T) AggregateOptions {
	dir := t.TempDir()
	yamlCSV := filepath.Join(dir, "yaml_output.csv")
	boltzCSV := filepath.Join(dir, "boltz_dock_records.csv")
	predictionsDir := filepath.Join(dir, "boltz_raw_out")
	require.NoError(t, os.WriteFile(yamlCSV, []byte(
		"foldname,entity_1_type,yaml_file\ncomplex1,protein,complex1.yaml\n"), 0644))
	require.NoError(t, os.WriteFile(boltzCSV, []byte(
		"filename,replicate,processing_time_sec\ncomplex1_rep1.yaml,1,12.00\ncomplex1_rep2.yaml,2,13.50\n"), 0644))
	buildPredictions(t, predictionsDir, "complex1_rep1")
	buildPredictions(t, predictionsDir, "complex1_rep2")
	return AggregateOptions{
		YAMLCSV:        yamlCSV,
		BoltzCSV:       boltzCSV,
		PredictionsDir: predictionsDir,
		OutputDir:      filepath.Join(dir, "final_out"),
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()
	opts := aggregateFixture(t)
	require.NoError(t, Aggregate(opts))

	summary, err := csvutil.ReadTable(filepath.Join(opts.OutputDir, DefaultSummaryCSVName))
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	row := summary.Rows[0]
	assert.Equal(t, "complex1_rep1.yaml", row["filename"])
	assert.Equal(t, "complex1", row["base_name"])
	// definition columns merged in from the YAML CSV
	assert.Equal(t, "protein", row["entity_1_type"])
	assert.Equal(t, "complex1.yaml", row["yaml_file"])
	// flattened confidence metrics, suffixed with the model index
	assert.Equal(t, "0.91", row["confidence_score_model_0"])
	assert.Equal(t, "0.87", row["chains_ptm_0_model_0"])
	assert.Equal(t, "0.74", row["pair_chains_iptm_0_1_model_0"])
	// affinity metrics keep their original keys
	assert.Equal(t, "1.52", row["affinity_pred_value"])
	assert.Equal(t, "0.67", row["affinity_probability_binary"])
}

func TestAggregateCopiesArtifacts(t *testing.T) {
	t.Parallel()
	opts := aggregateFixture(t)
	require.NoError(t, Aggregate(opts))

	for _, rep := range []string{"rep1", "rep2"} {
		assert.FileExists(t, filepath.Join(opts.OutputDir, "final_pdbs", "complex1_"+rep+"_model_0.pdb"))
		assert.FileExists(t, filepath.Join(opts.OutputDir, "final_pae", "pae_complex1_"+rep+"_model_0.npz"))
		assert.FileExists(t, filepath.Join(opts.OutputDir, "final_plddt", "plddt_complex1_"+rep+"_model_0.npz"))
		assert.FileExists(t, filepath.Join(opts.OutputDir, "final_confidence_json", "confidence_complex1_"+rep+"_model_0.json"))
		assert.FileExists(t, filepath.Join(opts.OutputDir, "final_affinity_json", "affinity_complex1_"+rep+".json"))
	}
}

func TestAggregateMissingPredictions(t *testing.T) {
	t.Parallel()
	opts := aggregateFixture(t)
	require.NoError(t, os.RemoveAll(opts.PredictionsDir))

	// rows are still written, without metrics
	require.NoError(t, Aggregate(opts))
	summary, err := csvutil.ReadTable(filepath.Join(opts.OutputDir, DefaultSummaryCSVName))
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)
	assert.False(t, summary.HasColumn("confidence_score_model_0"))
	assert.Equal(t, "complex1", summary.Rows[0]["base_name"])
}

func TestAggregateMissingYAMLFileColumn(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlCSV := filepath.Join(dir, "yaml_output.csv")
	require.NoError(t, os.WriteFile(yamlCSV, []byte("foldname\ncomplex1\n"), 0644))
	err := Aggregate(AggregateOptions{YAMLCSV: yamlCSV})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml_file")
}

func TestExtractBaseName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "complex1", extractBaseName("complex1_rep1.yaml"))
	assert.Equal(t, "a_b", extractBaseName("a_b_rep12.yaml"))
	assert.Equal(t, "complex1", extractBaseName("complex1.yaml"))
}
