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

// Package boltz drives the Boltz structure prediction pipeline: YAML input
// generation from a CSV of complexes, replicated predict runs and result
// aggregation
package boltz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/krlab/foldsub/config"
)

// DefaultWrapperScript is the external pipeline tool invoked by the batch job
const DefaultWrapperScript = "boltz_wrapper.py"

// DefaultSummaryCSVName is the name of the final summary CSV
const DefaultSummaryCSVName = "final_summary.csv"

// RecordsFileName is the name of the per-replicate records CSV written by
// the replicate runner
const RecordsFileName = "boltz_dock_records.csv"

// PredictParams are the options of a single "boltz predict" invocation
type PredictParams struct {
	OutDir             string
	Cache              string
	Checkpoint         string
	Devices            int
	Accelerator        string
	RecyclingSteps     int
	SamplingSteps      int
	DiffusionSamples   int
	StepScale          float64
	WriteFullPAE       bool
	WriteFullPDE       bool
	OutputFormat       string
	NumWorkers         int
	Override           bool
	Seed               *int
	UseMSAServer       bool
	MSAServerURL       string
	MSAPairingStrategy string
}

// NewPredictParams returns PredictParams with the defaults of the boltz tool
// configuration applied
func NewPredictParams(cfg config.Configuration) PredictParams {
	tc := cfg.Tool("boltz")
	return PredictParams{
		Cache:              tc.GetString("cache"),
		Checkpoint:         tc.GetString("checkpoint"),
		Devices:            tc.GetIntOrDefault("devices", 1),
		Accelerator:        tc.GetStringOrDefault("accelerator", "gpu"),
		RecyclingSteps:     tc.GetIntOrDefault("recycling_steps", 3),
		SamplingSteps:      tc.GetIntOrDefault("sampling_steps", 200),
		DiffusionSamples:   tc.GetIntOrDefault("diffusion_samples", 1),
		WriteFullPAE:       true,
		OutputFormat:       tc.GetStringOrDefault("output_format", "pdb"),
		NumWorkers:         tc.GetIntOrDefault("num_workers", 2),
		UseMSAServer:       tc.GetBool("use_msa_server"),
		MSAServerURL:       tc.GetString("msa_server_url"),
		MSAPairingStrategy: tc.GetString("msa_pairing_strategy"),
	}
}

// Args returns the "boltz predict" argument list for the given YAML input
// file
func (p PredictParams) Args(yamlPath string) []string {
	args := []string{"predict", "--out_dir", p.OutDir}
	if p.Cache != "" {
		args = append(args, "--cache", p.Cache)
	}
	if p.Checkpoint != "" {
		args = append(args, "--checkpoint", p.Checkpoint)
	}
	if p.Devices != 0 {
		args = append(args, "--devices", strconv.Itoa(p.Devices))
	}
	if p.Accelerator != "" {
		args = append(args, "--accelerator", p.Accelerator)
	}
	if p.RecyclingSteps != 0 {
		args = append(args, "--recycling_steps", strconv.Itoa(p.RecyclingSteps))
	}
	if p.SamplingSteps != 0 {
		args = append(args, "--sampling_steps", strconv.Itoa(p.SamplingSteps))
	}
	if p.DiffusionSamples != 0 {
		args = append(args, "--diffusion_samples", strconv.Itoa(p.DiffusionSamples))
	}
	if p.StepScale != 0 {
		args = append(args, "--step_scale", strconv.FormatFloat(p.StepScale, 'g', -1, 64))
	}
	if p.WriteFullPAE {
		args = append(args, "--write_full_pae")
	}
	if p.WriteFullPDE {
		args = append(args, "--write_full_pde")
	}
	if p.OutputFormat != "" {
		args = append(args, "--output_format", p.OutputFormat)
	}
	if p.NumWorkers != 0 {
		args = append(args, "--num_workers", strconv.Itoa(p.NumWorkers))
	}
	if p.Override {
		args = append(args, "--override")
	}
	if p.Seed != nil {
		args = append(args, "--seed", strconv.Itoa(*p.Seed))
	}
	if p.UseMSAServer {
		args = append(args, "--use_msa_server")
	}
	if p.MSAServerURL != "" {
		args = append(args, "--msa_server_url", p.MSAServerURL)
	}
	if p.MSAPairingStrategy != "" {
		args = append(args, "--msa_pairing_strategy", p.MSAPairingStrategy)
	}
	return append(args, yamlPath)
}

// WrapperParams are the parameters forwarded to the external Boltz pipeline
// wrapper tool by a submitted batch job
type WrapperParams struct {
	Script         string
	InputCSV       string
	OutputDir      string
	MaxTime        int
	NumReplicates  int
	SummaryCSVName string
	// RunBoltzExtra arguments are forwarded verbatim to the replicate runner
	RunBoltzExtra []string
}

// NewWrapperParams returns WrapperParams with the defaults of the boltz tool
// configuration applied
func NewWrapperParams(cfg config.Configuration) WrapperParams {
	tc := cfg.Tool("boltz")
	p := WrapperParams{
		Script:         tc.GetStringOrDefault("script", DefaultWrapperScript),
		MaxTime:        tc.GetIntOrDefault("max_time", 60),
		NumReplicates:  tc.GetIntOrDefault("num_replicates", 1),
		SummaryCSVName: tc.GetStringOrDefault("summary_csv_name", DefaultSummaryCSVName),
		RunBoltzExtra: []string{
			"--accelerator", tc.GetStringOrDefault("accelerator", "gpu"),
		},
	}
	// on unless explicitly disabled, precomputed MSAs are the exception
	if tc.Get("use_msa_server") == nil || tc.GetBool("use_msa_server") {
		p.RunBoltzExtra = append(p.RunBoltzExtra, "--use_msa_server")
	}
	p.RunBoltzExtra = append(p.RunBoltzExtra, "--output_format", tc.GetStringOrDefault("output_format", "pdb"))
	return p
}

func (p WrapperParams) validate() error {
	if p.InputCSV == "" {
		return errors.New("boltz: input_csv is required")
	}
	if p.OutputDir == "" {
		return errors.New("boltz: output_dir is required")
	}
	return nil
}

// Args returns the argument list forwarded to the wrapper tool
func (p WrapperParams) Args() []string {
	args := []string{
		"--input_csv", p.InputCSV,
		"--output_dir", p.OutputDir,
		"--max_time", strconv.Itoa(p.MaxTime),
		"--num_replicates", strconv.Itoa(p.NumReplicates),
		"--summary_csv_name", p.SummaryCSVName,
	}
	if len(p.RunBoltzExtra) > 0 {
		// remainder-style flag, everything after it goes to the runner
		args = append(args, "--run_boltz_extra")
		args = append(args, p.RunBoltzExtra...)
	}
	return args
}

// CommandLine returns the payload command line run by the batch script
func (p WrapperParams) CommandLine() (string, error) {
	if err := p.validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("python %s %s", p.Script, strings.Join(p.Args(), " ")), nil
}
