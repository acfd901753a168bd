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

package esmfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlab/foldsub/config"
)

func TestNewParamsDefaults(t *testing.T) {
	t.Parallel()
	p := NewParams(config.Configuration{})
	assert.Equal(t, DefaultScript, p.Script)
	assert.Equal(t, DefaultModelName, p.ModelName)
	assert.Equal(t, DefaultChunkSize, p.ChunkSize)
	assert.True(t, p.UseFP16)
	assert.True(t, p.AllowTF32)
}

func TestNewParamsFromToolConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Configuration{Tools: map[string]config.ToolConfig{
		"esmfold": {
			"model_name":      "facebook/esmfold_v0",
			"chunk_size":      128,
			"sequence_column": "aa_seq",
			"gene_column":     "name",
		},
	}}
	p := NewParams(cfg)
	assert.Equal(t, "facebook/esmfold_v0", p.ModelName)
	assert.Equal(t, 128, p.ChunkSize)
	assert.Equal(t, "aa_seq", p.SequenceColumn)
	assert.Equal(t, "name", p.GeneColumn)
}

func TestCommandLine(t *testing.T) {
	t.Parallel()
	p := NewParams(config.Configuration{})
	p.InputCSV = "/data/proteins.csv"
	p.OutputDirectory = "/data/esm_out"
	cmd, err := p.CommandLine()
	require.NoError(t, err)
	assert.Equal(t,
		"python esm_generate_structures.py --input_csv /data/proteins.csv --output_directory /data/esm_out --model_name facebook/esmfold_v1 --chunk_size 256 --use_fp16 --allow_tf32",
		cmd)
}

func TestCommandLineMissingParams(t *testing.T) {
	t.Parallel()
	p := NewParams(config.Configuration{})
	_, err := p.CommandLine()
	require.Error(t, err, "input_csv is required")
	p.InputCSV = "in.csv"
	_, err = p.CommandLine()
	require.Error(t, err, "output_directory is required")
}
