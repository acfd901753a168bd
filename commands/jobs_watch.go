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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/slurm"
)

func init() {
	jobsCmd.AddCommand(jobsWatchCmd)
}

var jobsWatchCmd = &cobra.Command{
	Use:   "watch <JobId>",
	Short: "Follow a job until completion",
	Long: `Poll a job on the configured monitoring interval, streaming its output
files, until it reaches a terminal state. A non-COMPLETED terminal state is
reported as an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Expecting a job id (got 0 parameters)")
		}
		cfg := getConfig()
		if err := slurm.SetupTelemetry(cfg); err != nil {
			errExit(err)
		}
		client, err := slurm.GetClient(cfg)
		if err != nil {
			errExit(err)
		}
		ctx, cancel := interruptibleContext()
		defer cancel()
		if err := slurm.NewMonitor(cfg, client, os.Stdout).WaitJobCompletion(ctx, args[0]); err != nil {
			errExit(err)
		}
		return nil
	},
}
