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
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/boltz"
)

func init() {
	submitCmd.AddCommand(submitBoltzCmd)
	f := submitBoltzCmd.Flags()
	f.String("input_csv", "", "CSV file of complex definitions, as a path on the cluster filesystem")
	f.String("output_dir", "", "Base output directory on the cluster filesystem")
	f.Int("max_time", 0, "Max time in minutes for a single prediction")
	f.Int("num_replicates", 0, "Number of replicates per complex")
	f.String("summary_csv_name", "", "Name of the final summary CSV")
	f.String("cache", "", "Boltz model cache directory, exported as BOLTZ_CACHE in the job")
	f.StringSlice("run_boltz_extra", nil, "Extra arguments forwarded to the replicate runner")
	submitBoltzCmd.MarkFlagRequired("input_csv")
	submitBoltzCmd.MarkFlagRequired("output_dir")
}

var submitBoltzCmd = &cobra.Command{
	Use:   "boltz",
	Short: "Submit a Boltz pipeline job",
	Long: `Submit a batch job running the full Boltz pipeline (YAML input generation,
replicated predictions and aggregation) over a CSV of complex definitions.
Resources and environment activation come from the configuration, tool
parameters can be overridden by flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		params := boltz.NewWrapperParams(cfg)

		f := cmd.Flags()
		params.InputCSV, _ = f.GetString("input_csv")
		params.OutputDir, _ = f.GetString("output_dir")
		if v, _ := f.GetInt("max_time"); v != 0 {
			params.MaxTime = v
		}
		if v, _ := f.GetInt("num_replicates"); v != 0 {
			params.NumReplicates = v
		}
		if v, _ := f.GetString("summary_csv_name"); v != "" {
			params.SummaryCSVName = v
		}
		if extra, _ := f.GetStringSlice("run_boltz_extra"); len(extra) > 0 {
			params.RunBoltzExtra = append(params.RunBoltzExtra, extra...)
		}

		command, err := params.CommandLine()
		if err != nil {
			errExit(err)
		}

		// the predict subprocesses pick the model cache up from the environment
		var envVars map[string]string
		cache, _ := f.GetString("cache")
		if cache == "" {
			cache = cfg.Tool("boltz").GetString("cache")
		}
		if cache != "" {
			envVars = map[string]string{"BOLTZ_CACHE": cache}
		}

		name := jobName
		if name == "" {
			name = "boltz"
		}
		if err := submitJob(cfg, name, command, envVars); err != nil {
			errExit(err)
		}
		return nil
	},
}
