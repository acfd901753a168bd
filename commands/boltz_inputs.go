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

	"github.com/krlab/foldsub/boltz"
)

func init() {
	boltzCmd.AddCommand(boltzInputsCmd)
	f := boltzInputsCmd.Flags()
	f.String("input_csv", "", "Input CSV file containing complex definitions")
	f.String("yaml_out_dir", "", "Output directory where YAML files will be written")
	f.String("csv_out", "", "Output CSV file path that includes the generated YAML filenames")
	f.String("generate_template", "", "Generate a template CSV file at the given path and exit")
	f.Lookup("generate_template").NoOptDefVal = "boltz_template.csv"
}

var boltzInputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "Generate Boltz YAML input files from a CSV",
	Long: `Generate one Boltz YAML input file per row of a CSV of complex
definitions, and write a copy of the CSV with a yaml_file column.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if template, _ := f.GetString("generate_template"); template != "" {
			if err := boltz.WriteTemplate(template); err != nil {
				errExit(err)
			}
			fmt.Printf("Template CSV file saved to: %s\n", template)
			fmt.Println("Please edit this file to define your own protein-ligand complexes.")
			return nil
		}

		inputCSV, _ := f.GetString("input_csv")
		yamlOutDir, _ := f.GetString("yaml_out_dir")
		csvOut, _ := f.GetString("csv_out")
		if inputCSV == "" || yamlOutDir == "" || csvOut == "" {
			return errors.New("input_csv, yaml_out_dir and csv_out are required unless using generate_template")
		}
		if _, err := boltz.WriteInputs(inputCSV, yamlOutDir, csvOut); err != nil {
			errExit(err)
		}
		fmt.Printf("YAML generation complete. Files are in %q.\n", yamlOutDir)
		fmt.Printf("Updated CSV with filenames saved to %q.\n", csvOut)
		return nil
	},
}
