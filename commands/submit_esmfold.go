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

	"github.com/krlab/foldsub/esmfold"
)

func init() {
	submitCmd.AddCommand(submitESMFoldCmd)
	f := submitESMFoldCmd.Flags()
	f.String("input_csv", "", "CSV file of sequences to fold, as a path on the cluster filesystem")
	f.String("output_directory", "", "Directory on the cluster filesystem receiving the predicted structures")
	f.String("model_name", "", "Hugging Face model name")
	f.Int("chunk_size", 0, "Trunk chunk size, lower values reduce GPU memory usage")
	f.String("sequence_column", "", "Name of the CSV column holding the amino-acid sequences")
	f.String("gene_column", "", "Name of the CSV column holding the output file base names")
	f.Bool("no_fp16", false, "Keep the model in full precision")
	f.Bool("no_tf32", false, "Disable TensorFloat-32 matrix multiplications")
	f.Bool("low_cpu_mem_usage", false, "Load the model with reduced CPU memory usage")
	submitESMFoldCmd.MarkFlagRequired("input_csv")
	submitESMFoldCmd.MarkFlagRequired("output_directory")
}

var submitESMFoldCmd = &cobra.Command{
	Use:   "esmfold",
	Short: "Submit an ESMFold structure generation job",
	Long: `Submit a batch job running the ESMFold structure generation tool over a
CSV of protein sequences. Resources and environment activation come from the
configuration, tool parameters can be overridden by flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		params := esmfold.NewParams(cfg)

		f := cmd.Flags()
		params.InputCSV, _ = f.GetString("input_csv")
		params.OutputDirectory, _ = f.GetString("output_directory")
		if v, _ := f.GetString("model_name"); v != "" {
			params.ModelName = v
		}
		if v, _ := f.GetInt("chunk_size"); v != 0 {
			params.ChunkSize = v
		}
		if v, _ := f.GetString("sequence_column"); v != "" {
			params.SequenceColumn = v
		}
		if v, _ := f.GetString("gene_column"); v != "" {
			params.GeneColumn = v
		}
		if v, _ := f.GetBool("no_fp16"); v {
			params.UseFP16 = false
		}
		if v, _ := f.GetBool("no_tf32"); v {
			params.AllowTF32 = false
		}
		if v, _ := f.GetBool("low_cpu_mem_usage"); v {
			params.LowCPUMemUsage = v
		}

		command, err := params.CommandLine()
		if err != nil {
			errExit(err)
		}
		name := jobName
		if name == "" {
			name = "esmfold"
		}
		if err := submitJob(cfg, name, command, nil); err != nil {
			errExit(err)
		}
		return nil
	},
}
