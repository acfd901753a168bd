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
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/helper/collections"
	"github.com/krlab/foldsub/helper/tabutil"
	"github.com/krlab/foldsub/slurm"
)

// timestamped scontrol attributes shown with a relative time
var timeAttributes = []string{"SubmitTime", "StartTime", "EndTime", "EligibleTime"}

func init() {
	jobsCmd.AddCommand(jobsInfoCmd)
}

var jobsInfoCmd = &cobra.Command{
	Use:   "info <JobId>",
	Short: "Show job attributes",
	Long:  `Show the scheduler attributes of a given job, as reported by scontrol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Expecting a job id (got 0 parameters)")
		}
		cfg := getConfig()
		colorize := !noColor
		client, err := slurm.GetClient(cfg)
		if err != nil {
			errExit(err)
		}
		info, err := slurm.GetJobInfo(client, args[0])
		if err != nil {
			errExit(err)
		}

		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		infoTable := tabutil.NewTable()
		infoTable.AddHeaders("Attribute", "Value")
		for _, k := range keys {
			v := info[k]
			if k == "JobState" {
				v = getColoredJobState(colorize, v)
			} else if collections.ContainsString(timeAttributes, k) {
				if ts, err := time.ParseInLocation("2006-01-02T15:04:05", v, time.Local); err == nil {
					v = fmt.Sprintf("%s (%s)", v, humanize.Time(ts))
				}
			}
			infoTable.AddRow(k, v)
		}
		if colorize {
			defer color.Unset()
		}
		fmt.Println(infoTable.Render())
		return nil
	},
}
