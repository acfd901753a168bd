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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/helper/tabutil"
	"github.com/krlab/foldsub/slurm"
)

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsListCmd.Flags().String("user", "", "Only list jobs of the given user")
	jobsListCmd.Flags().Bool("mine", false, "Only list jobs of the configured cluster user")
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduler jobs",
	Long:  `List jobs known to the scheduler, giving their ids, names and states.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		colorize := !noColor
		client, err := slurm.GetClient(cfg)
		if err != nil {
			errExit(err)
		}

		user, _ := cmd.Flags().GetString("user")
		if mine, _ := cmd.Flags().GetBool("mine"); mine {
			user = cfg.UserName
		}
		jobs, err := slurm.ListJobs(client, user)
		if err != nil {
			errExit(err)
		}

		jobsTable := tabutil.NewTable()
		jobsTable.AddHeaders("Id", "Name", "User", "State", "RunTime", "Partition", "Reason")
		for _, job := range jobs {
			jobsTable.AddRow(job.ID, job.Name, job.User,
				getColoredJobState(colorize, job.State),
				job.RunTime, job.Partition, job.Reason)
		}
		if colorize {
			defer color.Unset()
		}
		fmt.Println("Jobs:")
		fmt.Println(jobsTable.Render())
		return nil
	},
}
