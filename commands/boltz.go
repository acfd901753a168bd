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
)

func init() {
	RootCmd.AddCommand(boltzCmd)
}

// boltzCmd groups the local pipeline stages. They run on the current host,
// typically from within an allocated compute node, while "submit boltz"
// wraps them in a batch job.
var boltzCmd = &cobra.Command{
	Use:           "boltz",
	Short:         "Run Boltz pipeline stages locally",
	Long:          `Run the Boltz pipeline stages (inputs, run, aggregate or the whole pipeline) on the current host`,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}
