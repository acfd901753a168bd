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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/slurm"
)

func init() {
	jobsCmd.AddCommand(jobsCancelCmd)
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <JobId>",
	Short: "Cancel a job",
	Long:  `Cancel a job with the given id, using scancel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Expecting a job id (got 0 parameters)")
		}
		cfg := getConfig()
		client, err := slurm.GetClient(cfg)
		if err != nil {
			errExit(err)
		}
		if err := slurm.CancelJob(client, args[0]); err != nil {
			errExit(err)
		}
		fmt.Printf("Cancellation requested for job %s\n", args[0])
		return nil
	},
}
