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

package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/boltz"
)

func init() {
	boltzCmd.AddCommand(boltzPipelineCmd)
	f := boltzPipelineCmd.Flags()
	f.String("input_csv", "", "Input CSV file containing complex definitions")
	f.String("output_dir", "", "Base output directory for all pipeline stages")
	f.Int("max_time", 0, "Max time in minutes for a single prediction")
	f.Int("num_replicates", 1, "Number of replicates per complex")
	f.String("summary_csv_name", boltz.DefaultSummaryCSVName, "Name of the final summary CSV")
	boltzPipelineCmd.MarkFlagRequired("input_csv")
	boltzPipelineCmd.MarkFlagRequired("output_dir")
}

var boltzPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full Boltz pipeline",
	Long: `Run YAML input generation, replicated predictions and aggregation in
sequence under one base output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		f := cmd.Flags()
		opts := boltz.PipelineOptions{
			Predict: boltz.NewPredictParams(cfg),
			Out:     os.Stdout,
		}
		opts.InputCSV, _ = f.GetString("input_csv")
		opts.OutputDir, _ = f.GetString("output_dir")
		maxTime, _ := f.GetInt("max_time")
		opts.MaxTime = time.Duration(maxTime) * time.Minute
		opts.NumReplicates, _ = f.GetInt("num_replicates")
		opts.SummaryCSVName, _ = f.GetString("summary_csv_name")

		ctx, cancel := interruptibleContext()
		defer cancel()
		if err := boltz.RunPipeline(ctx, opts); err != nil {
			errExit(err)
		}
		return nil
	},
}
