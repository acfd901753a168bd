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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/helper/stringutil"
	"github.com/krlab/foldsub/log"
	"github.com/krlab/foldsub/slurm"
)

func init() {
	RootCmd.AddCommand(submitCmd)
	submitCmd.PersistentFlags().StringVar(&jobName, "job_name", "", "Name of the batch job (defaults to the tool name)")
	submitCmd.PersistentFlags().BoolVarP(&followJob, "follow", "f", false, "Wait for the job to complete, streaming its output")
}

var jobName string
var followJob bool

var submitCmd = &cobra.Command{
	Use:           "submit",
	Short:         "Submit a structure prediction job",
	Long:          `Render a batch script for a structure prediction tool and submit it with sbatch`,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// submitJob stages and submits a batch job running the given payload
// command, then optionally follows it until completion
func submitJob(cfg config.Configuration, name, command string, envVars map[string]string) error {
	if err := slurm.SetupTelemetry(cfg); err != nil {
		return err
	}
	client, err := slurm.GetClient(cfg)
	if err != nil {
		return err
	}

	spec := slurm.NewJobSpec(cfg, stringutil.Sanitize(name))
	spec.WorkingDir = cfg.WorkingDirectory
	if spec.WorkingDir == "" {
		// keep runs isolated when no working directory is configured
		spec.WorkingDir = stringutil.UniqueTimestampedName(".foldsub_"+spec.Name+"_", "")
	}
	spec.Output = spec.Name + ".out"
	spec.Command = command
	for k, v := range envVars {
		spec.EnvVars[k] = v
	}

	if _, err := client.RunCommand(fmt.Sprintf("mkdir -p %s", spec.WorkingDir)); err != nil {
		return err
	}
	jobID, err := slurm.SubmitJob(client, spec)
	if err != nil {
		return err
	}
	fmt.Printf("Job %q submitted with ID: %s\n", spec.Name, jobID)

	if !followJob {
		return nil
	}
	ctx, cancel := interruptibleContext()
	defer cancel()
	err = slurm.NewMonitor(cfg, client, os.Stdout).WaitJobCompletion(ctx, jobID)
	if !cfg.KeepJobRemoteArtifacts {
		log.Debugf("Removing staged artifacts from %s", spec.WorkingDir)
		slurm.RemoveArtifacts(client, spec.WorkingDir, []string{spec.Name + ".sbatch"})
	}
	return err
}

// interruptibleContext returns a context cancelled on SIGINT or SIGTERM
func interruptibleContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-signalCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signalCh)
	}()
	return ctx, cancel
}
