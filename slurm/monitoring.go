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
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/log"
)

const bashLogger = `
if [ -f %s ]; then
    tail -n +%d %s
fi

`

// Monitor polls a job until it reaches a terminal state, streaming the
// incremental content of its stdout/stderr files along the way
type Monitor struct {
	client      Client
	interval    time.Duration
	out         io.Writer
	lastIndexes map[string]int
}

// NewMonitor creates a Monitor writing the job output files content to out
func NewMonitor(cfg config.Configuration, client Client, out io.Writer) *Monitor {
	interval := cfg.JobMonitoringTimeInterval
	if interval <= 0 {
		interval = config.DefaultJobMonitoringTimeInterval
	}
	return &Monitor{
		client:      client,
		interval:    interval,
		out:         out,
		lastIndexes: make(map[string]int),
	}
}

// WaitJobCompletion polls the given job until it reaches a terminal state.
//
// It returns nil if the job completed successfully, an error carrying the
// job state otherwise. A job purged from the scheduler database before
// being seen in a terminal state is reported as UNKNOWN.
func (m *Monitor) WaitJobCompletion(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debugf("Monitoring of job %q has been cancelled", jobID)
			return ctx.Err()
		case <-ticker.C:
			done, err := m.pollJob(ctx, jobID)
			if done {
				return err
			}
			if err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) pollJob(ctx context.Context, jobID string) (bool, error) {
	metrics.IncrCounter([]string{"slurm", "monitor", "polls"}, 1)
	info, err := GetJobInfo(m.client, jobID)
	if err != nil {
		if IsNoJobFoundError(err) {
			// the job is not found in slurm database (should have been purged):
			// its status can't be determined anymore
			fmt.Fprintf(m.out, "Job ID:%s, State:UNKNOWN\n", jobID)
		}
		return true, errors.Wrapf(err, "failed to get job info with jobID:%q", jobID)
	}

	if info["Reason"] != "None" && info["Reason"] != "" {
		fmt.Fprintf(m.out, "Job Name:%s, ID:%s, State:%s, Reason:%s, Execution Time:%s\n",
			info["JobName"], info["JobId"], info["JobState"], info["Reason"], info["RunTime"])
	} else {
		fmt.Fprintf(m.out, "Job Name:%s, ID:%s, State:%s, Execution Time:%s\n",
			info["JobName"], info["JobId"], info["JobState"], info["RunTime"])
	}

	m.logOutputFiles(info, jobID)

	state := info["JobState"]
	if IsTransitionalState(state) {
		return false, nil
	}
	if !IsSuccessState(state) {
		fmt.Fprintf(m.out, "job info:%+v\n", info)
		return true, errors.Errorf("job with ID:%q finished unsuccessfully with state:%q", jobID, state)
	}
	return true, nil
}

func (m *Monitor) logOutputFiles(info map[string]string, jobID string) {
	stdOut, existStdOut := info["StdOut"]
	stdErr, existStdErr := info["StdErr"]
	if existStdOut && existStdErr && stdOut == stdErr {
		m.logFile(stdOut, "StdOut/StdErr")
		return
	}
	if existStdOut {
		m.logFile(stdOut, "StdOut")
	}
	if existStdErr {
		m.logFile(stdErr, "StdErr")
	}
	// See default output if nothing is specified here
	if !existStdOut && !existStdErr {
		m.logFile(fmt.Sprintf("slurm-%s.out", jobID), "StdOut/StdErr")
	}
}

// logFile writes the yet unseen lines of the given remote file to the
// monitor output, keeping a per-file index of the last line read
func (m *Monitor) logFile(filePath, fileType string) {
	lastInd := m.lastIndexes[filePath]
	cmd := fmt.Sprintf(bashLogger, filePath, lastInd+1, filePath)
	output, err := m.client.RunCommand(cmd)
	if err != nil {
		log.Debugf("fail to log file (%s) due to error:%+v:", filePath, err)
		return
	}
	if strings.TrimSpace(output) != "" {
		fmt.Fprintf(m.out, "%s %s:\n", fileType, filePath)
		fmt.Fprint(m.out, output)
		if !strings.HasSuffix(output, "\n") {
			fmt.Fprintln(m.out)
		}
	}
	m.lastIndexes[filePath] = lastInd + strings.Count(output, "\n")
}

// RemoveArtifacts removes the given artifacts from the job working directory
func RemoveArtifacts(client Client, workingDir string, artifacts []string) {
	for _, art := range artifacts {
		if art != "" {
			p := path.Join(workingDir, art)
			log.Debugf("Remove artifact %q", p)
			cmd := fmt.Sprintf("rm -rf %s", p)
			_, err := client.RunCommand(cmd)
			if err != nil {
				log.Printf("an error:%+v occurred during removing artifact %q", err, p)
			}
		}
	}
}
