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

package slurm

import (
	"fmt"
	"path"
	"sort"
	"strings"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/krlab/foldsub/log"
)

// GenerateBatchScript renders the sbatch script for the given job spec.
//
// The script declares the resource requests as SBATCH directives, then runs
// the environment setup lines and exports, and finally the payload command
// bracketed by echo statements.
func GenerateBatchScript(spec JobSpec) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	directive := func(format string, args ...interface{}) {
		b.WriteString("#SBATCH ")
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}
	directive("--job-name=%s", spec.Name)
	directive("--partition=%s", spec.Partition)
	if spec.Account != "" {
		directive("--account=%s", spec.Account)
	}
	if spec.QOS != "" {
		directive("--qos=%s", spec.QOS)
	}
	directive("--nodes=%d", spec.Nodes)
	if spec.Tasks > 1 {
		directive("--ntasks=%d", spec.Tasks)
	}
	directive("--cpus-per-task=%d", spec.CpusPerTask)
	if spec.MemPerNode != 0 {
		directive("--mem=%dG", spec.MemPerNode)
	}
	if spec.Gres != "" {
		directive("--gres=%s", spec.Gres)
	}
	if spec.Time != "" {
		directive("--time=%s", spec.Time)
	}
	if spec.Output != "" {
		directive("--output=%s", spec.Output)
	}
	if spec.Error != "" {
		directive("--error=%s", spec.Error)
	}
	for _, opt := range spec.ExtraOpts {
		directive("--%s", opt)
	}
	b.WriteString("\n")

	// Exported variables are sorted so that the rendered script is stable
	envKeys := make([]string, 0, len(spec.EnvVars))
	for k := range spec.EnvVars {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		fmt.Fprintf(&b, "export %s=%s\n", k, spec.EnvVars[k])
	}
	if len(envKeys) > 0 {
		b.WriteString("\n")
	}

	for _, line := range spec.EnvSetup {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(spec.EnvSetup) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "echo \"Starting %s\"\n", spec.Name)
	b.WriteString(spec.Command)
	b.WriteString("\n")
	fmt.Fprintf(&b, "echo \"%s completed\"\n", spec.Name)
	return b.String()
}

// SubmitJob stages the batch script of the given spec into its working
// directory, submits it with sbatch and returns the scheduler job ID
func SubmitJob(client Client, spec JobSpec) (string, error) {
	script := GenerateBatchScript(spec)
	scriptName := spec.Name + ".sbatch"
	scriptPath := path.Join(spec.WorkingDir, scriptName)
	if err := client.CopyFile(strings.NewReader(script), scriptPath, "0755"); err != nil {
		return "", errors.Wrapf(err, "failed to stage batch script to %q", scriptPath)
	}

	cmd := fmt.Sprintf("cd %s;sbatch %s", spec.WorkingDir, scriptName)
	log.Debugf("Run the command: %q", cmd)
	output, err := client.RunCommand(cmd)
	if err != nil {
		log.Debugf("stderr:%q", output)
		return "", errors.Wrap(err, strings.TrimSpace(output))
	}
	jobID, err := parseJobIDFromBatchOutput(strings.Trim(output, "\n"))
	if err != nil {
		return "", err
	}
	metrics.IncrCounter([]string{"slurm", "submissions"}, 1)
	log.Debugf("JobID:%q", jobID)
	return jobID, nil
}

// parseJobIDFromBatchOutput retrieves the job ID from the sbatch command
// output ("Submitted batch job <ID>")
func parseJobIDFromBatchOutput(output string) (string, error) {
	if !strings.HasPrefix(output, "Submitted batch job") {
		return "", errors.Errorf("Unexpected sbatch output:%q", output)
	}
	fields := strings.Fields(output)
	if len(fields) != 4 {
		return "", errors.Errorf("Unexpected sbatch output:%q", output)
	}
	return fields[3], nil
}
