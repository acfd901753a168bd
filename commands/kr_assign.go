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

	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/kr"
)

func init() {
	krCmd.AddCommand(krAssignCmd)
	f := krAssignCmd.Flags()
	f.String("input_csv", "", "Input CSV file containing an Annotation column")
	f.String("output_csv", "", "Output CSV file path with core_kr_type and assignment_rationale columns added")
	krAssignCmd.MarkFlagRequired("input_csv")
	krAssignCmd.MarkFlagRequired("output_csv")
}

var krAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign core KR types from annotation strings",
	Long: `Assign a core KR type to each row of a CSV from the explicit type
identifier in its Annotation column. Only directly stated types are used,
nothing is inferred from downstream domains.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		inputCSV, _ := f.GetString("input_csv")
		outputCSV, _ := f.GetString("output_csv")
		if err := kr.AssignTypes(inputCSV, outputCSV); err != nil {
			errExit(err)
		}
		fmt.Printf("Processing complete. Output saved to %q.\n", outputCSV)
		return nil
	},
}
