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

// Package esmfold builds the invocation of the external ESMFold structure
// generation tool
package esmfold

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/krlab/foldsub/config"
)

// DefaultModelName is the Hugging Face model used when none is configured
const DefaultModelName = "facebook/esmfold_v1"

// DefaultChunkSize is the default trunk chunk size (suited to an A40 class GPU)
const DefaultChunkSize = 256

// DefaultScript is the external tool invoked by the batch job
const DefaultScript = "esm_generate_structures.py"

// Params are the parameters forwarded to the ESMFold generation tool
type Params struct {
	Script          string
	InputCSV        string
	OutputDirectory string
	ModelName       string
	ChunkSize       int
	UseFP16         bool
	AllowTF32       bool
	SequenceColumn  string
	GeneColumn      string
	LowCPUMemUsage  bool
}

// NewParams returns Params with the defaults of the esmfold tool
// configuration applied
func NewParams(cfg config.Configuration) Params {
	tc := cfg.Tool("esmfold")
	return Params{
		Script:         tc.GetStringOrDefault("script", DefaultScript),
		ModelName:      tc.GetStringOrDefault("model_name", DefaultModelName),
		ChunkSize:      tc.GetIntOrDefault("chunk_size", DefaultChunkSize),
		UseFP16:        true,
		AllowTF32:      true,
		SequenceColumn: tc.GetString("sequence_column"),
		GeneColumn:     tc.GetString("gene_column"),
		LowCPUMemUsage: tc.GetBool("low_cpu_mem_usage"),
	}
}

func (p Params) validate() error {
	if p.InputCSV == "" {
		return errors.New("esmfold: input_csv is required")
	}
	if p.OutputDirectory == "" {
		return errors.New("esmfold: output_directory is required")
	}
	return nil
}

// Args returns the argument list forwarded to the tool
func (p Params) Args() []string {
	args := []string{
		"--input_csv", p.InputCSV,
		"--output_directory", p.OutputDirectory,
		"--model_name", p.ModelName,
		"--chunk_size", strconv.Itoa(p.ChunkSize),
	}
	if p.UseFP16 {
		args = append(args, "--use_fp16")
	}
	if p.AllowTF32 {
		args = append(args, "--allow_tf32")
	}
	if p.SequenceColumn != "" {
		args = append(args, "--sequence_column", p.SequenceColumn)
	}
	if p.GeneColumn != "" {
		args = append(args, "--gene_column", p.GeneColumn)
	}
	if p.LowCPUMemUsage {
		args = append(args, "--low_cpu_mem_usage")
	}
	return args
}

// CommandLine returns the payload command line run by the batch script
func (p Params) CommandLine() (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("python %s %s", p.Script, strings.Join(p.Args(), " ")), nil
}
