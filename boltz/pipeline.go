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
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/krlab/foldsub/log"
)

// PipelineOptions control a full local run: YAML generation, replicated
// predictions and aggregation, all rooted at OutputDir
type PipelineOptions struct {
	InputCSV  string
	OutputDir string
	// MaxTime bounds a single prediction, zero means no limit
	MaxTime        time.Duration
	NumReplicates  int
	SummaryCSVName string
	// Executable is the prediction command, "boltz" when empty
	Executable string
	Predict    PredictParams
	// Out receives the prediction process output, discarded when nil
	Out io.Writer
}

// RunPipeline runs the three pipeline stages in sequence. OutputDir ends up
// containing yaml_out/ and yaml_output.csv (generated inputs), boltz_raw_out/
// (raw predictions and the replicate records CSV) and final_out/ (summary CSV
// and final_* artifact directories).
func RunPipeline(ctx context.Context, opts PipelineOptions) error {
	if opts.InputCSV == "" {
		return errors.New("boltz: input_csv is required")
	}
	if opts.OutputDir == "" {
		return errors.New("boltz: output_dir is required")
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %q", opts.OutputDir)
	}

	yamlOutDir := filepath.Join(opts.OutputDir, "yaml_out")
	yamlCSVOut := filepath.Join(opts.OutputDir, "yaml_output.csv")
	rawOutDir := filepath.Join(opts.OutputDir, "boltz_raw_out")
	finalOutDir := filepath.Join(opts.OutputDir, "final_out")

	log.Print("Generating YAML input files ...")
	if _, err := WriteInputs(opts.InputCSV, yamlOutDir, yamlCSVOut); err != nil {
		return err
	}

	if err := os.MkdirAll(rawOutDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %q", rawOutDir)
	}
	log.Print("Running predictions ...")
	predict := opts.Predict
	predict.OutDir = rawOutDir
	if _, err := RunReplicates(ctx, RunOptions{
		InputDir:      yamlOutDir,
		MaxTime:       opts.MaxTime,
		NumReplicates: opts.NumReplicates,
		Executable:    opts.Executable,
		Predict:       predict,
		Out:           opts.Out,
	}); err != nil {
		return err
	}

	log.Print("Aggregating results ...")
	if err := Aggregate(AggregateOptions{
		YAMLCSV:        yamlCSVOut,
		BoltzCSV:       filepath.Join(rawOutDir, RecordsFileName),
		PredictionsDir: rawOutDir,
		OutputDir:      finalOutDir,
		SummaryCSVName: opts.SummaryCSVName,
	}); err != nil {
		return err
	}

	log.Printf("All steps completed. Final outputs are in: %s", finalOutDir)
	return nil
}
