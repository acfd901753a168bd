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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/boltz"
)

func init() {
	boltzCmd.AddCommand(boltzRunCmd)
	f := boltzRunCmd.Flags()
	f.String("out_dir", "", "Directory receiving the raw predictions and the records CSV")
	f.Int("max_time", 0, "Max time in minutes for a single prediction before moving to the next file")
	f.Int("num_replicates", 1, "Number of times to run the same prediction")
	boltzRunCmd.MarkFlagRequired("out_dir")
}

var boltzRunCmd = &cobra.Command{
	Use:   "run <InputDir>",
	Short: "Run replicated Boltz predictions",
	Long: `Duplicate the YAML input files of a directory into replicates and run one
"boltz predict" per replicate. A failed or timed out prediction is logged and
the run moves on to the next file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Expecting a directory containing YAML input files (got 0 parameters)")
		}
		cfg := getConfig()
		f := cmd.Flags()
		maxTime, _ := f.GetInt("max_time")
		numReplicates, _ := f.GetInt("num_replicates")
		outDir, _ := f.GetString("out_dir")

		if err := os.MkdirAll(outDir, 0755); err != nil {
			errExit(err)
		}
		predict := boltz.NewPredictParams(cfg)
		predict.OutDir = outDir

		ctx, cancel := interruptibleContext()
		defer cancel()
		if _, err := boltz.RunReplicates(ctx, boltz.RunOptions{
			InputDir:      args[0],
			MaxTime:       time.Duration(maxTime) * time.Minute,
			NumReplicates: numReplicates,
			Predict:       predict,
			Out:           os.Stdout,
		}); err != nil {
			errExit(err)
		}
		return nil
	},
}
