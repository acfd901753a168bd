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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlab/foldsub/config"
)

func TestNewPredictParamsDefaults(t *testing.T) {
	t.Parallel()
	p := NewPredictParams(config.Configuration{})
	assert.Equal(t, 1, p.Devices)
	assert.Equal(t, "gpu", p.Accelerator)
	assert.Equal(t, 3, p.RecyclingSteps)
	assert.Equal(t, 200, p.SamplingSteps)
	assert.Equal(t, 1, p.DiffusionSamples)
	assert.Equal(t, "pdb", p.OutputFormat)
	assert.Equal(t, 2, p.NumWorkers)
	assert.True(t, p.WriteFullPAE)
	assert.False(t, p.WriteFullPDE)
}

func TestPredictParamsArgs(t *testing.T) {
	t.Parallel()
	p := NewPredictParams(config.Configuration{Tools: map[string]config.ToolConfig{
		"boltz": {"cache": "/scratch/boltz_cache", "use_msa_server": true},
	}})
	p.OutDir = "/scratch/out"
	args := p.Args("/scratch/yaml_out/replicates/complex_rep1.yaml")
	assert.Equal(t, []string{
		"predict", "--out_dir", "/scratch/out",
		"--cache", "/scratch/boltz_cache",
		"--devices", "1",
		"--accelerator", "gpu",
		"--recycling_steps", "3",
		"--sampling_steps", "200",
		"--diffusion_samples", "1",
		"--write_full_pae",
		"--output_format", "pdb",
		"--num_workers", "2",
		"--use_msa_server",
		"/scratch/yaml_out/replicates/complex_rep1.yaml",
	}, args)
}

func TestWrapperParamsCommandLine(t *testing.T) {
	t.Parallel()
	p := NewWrapperParams(config.Configuration{})
	p.InputCSV = "/data/complexes.csv"
	p.OutputDir = "/data/boltz_out"
	p.MaxTime = 120
	p.NumReplicates = 3
	cmd, err := p.CommandLine()
	require.NoError(t, err)
	assert.Equal(t,
		"python boltz_wrapper.py --input_csv /data/complexes.csv --output_dir /data/boltz_out --max_time 120 --num_replicates 3 --summary_csv_name final_summary.csv --run_boltz_extra --accelerator gpu --use_msa_server --output_format pdb",
		cmd)
}

func TestWrapperParamsMSAServerDisabled(t *testing.T) {
	t.Parallel()
	p := NewWrapperParams(config.Configuration{Tools: map[string]config.ToolConfig{
		"boltz": {"use_msa_server": false},
	}})
	assert.NotContains(t, p.RunBoltzExtra, "--use_msa_server")
}

func TestWrapperParamsMissingParams(t *testing.T) {
	t.Parallel()
	p := NewWrapperParams(config.Configuration{})
	_, err := p.CommandLine()
	require.Error(t, err)
	p.InputCSV = "in.csv"
	_, err = p.CommandLine()
	require.Error(t, err)
}
