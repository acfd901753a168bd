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
	boltzCmd.AddCommand(boltzAggregateCmd)
	f := boltzAggregateCmd.Flags()
	f.String("yaml_csv", "", "Complex definitions CSV carrying a yaml_file column")
	f.String("boltz_csv", "", "Replicate records CSV written by the run stage")
	f.String("predictions_dir", "", "Parent directory of the boltz_results_* folders")
	f.String("output_dir", "", "Directory receiving the summary CSV and the final_* subfolders")
	f.String("summary_csv_name", boltz.DefaultSummaryCSVName, "Name of the final summary CSV")
	boltzAggregateCmd.MarkFlagRequired("yaml_csv")
	boltzAggregateCmd.MarkFlagRequired("boltz_csv")
	boltzAggregateCmd.MarkFlagRequired("predictions_dir")
	boltzAggregateCmd.MarkFlagRequired("output_dir")
}

var boltzAggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate Boltz prediction results",
	Long: `Merge the complex definitions CSV with the replicate records CSV, flatten
the confidence and affinity metrics of every predicted model, copy the
prediction artifacts into final_* folders and write the summary CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		opts := boltz.AggregateOptions{}
		opts.YAMLCSV, _ = f.GetString("yaml_csv")
		opts.BoltzCSV, _ = f.GetString("boltz_csv")
		opts.PredictionsDir, _ = f.GetString("predictions_dir")
		opts.OutputDir, _ = f.GetString("output_dir")
		opts.SummaryCSVName, _ = f.GetString("summary_csv_name")
		if err := boltz.Aggregate(opts); err != nil {
			errExit(err)
		}
		return nil
	},
}
