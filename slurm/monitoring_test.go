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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlab/foldsub/config"
)

func monitoringConfig() config.Configuration {
	return config.Configuration{JobMonitoringTimeInterval: time.Millisecond}
}

func scontrolFor(state, reason string) string {
	return "JobId=1234 JobName=boltz_batch JobState=" + state + " Reason=" + reason + " RunTime=00:01:00 StdOut=/scratch/out.log StdErr=/scratch/out.log"
}

func TestWaitJobCompletionSuccess(t *testing.T) {
	t.Parallel()
	var polls int
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			if strings.HasPrefix(cmd, "scontrol") {
				polls++
				if polls < 3 {
					return scontrolFor("RUNNING", "None"), nil
				}
				return scontrolFor("COMPLETED", "None"), nil
			}
			// log tailing command
			return "", nil
		},
	}
	var out bytes.Buffer
	m := NewMonitor(monitoringConfig(), client, &out)
	err := m.WaitJobCompletion(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, 3, polls)
	assert.Contains(t, out.String(), "State:RUNNING")
	assert.Contains(t, out.String(), "State:COMPLETED")
}

func TestWaitJobCompletionFailedState(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			if strings.HasPrefix(cmd, "scontrol") {
				return scontrolFor("TIMEOUT", "TimeLimit"), nil
			}
			return "", nil
		},
	}
	var out bytes.Buffer
	m := NewMonitor(monitoringConfig(), client, &out)
	err := m.WaitJobCompletion(context.Background(), "1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEOUT")
	assert.Contains(t, out.String(), "Reason:TimeLimit")
}

func TestWaitJobCompletionJobPurged(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "slurm_load_jobs error: Invalid job id specified", nil
		},
	}
	var out bytes.Buffer
	m := NewMonitor(monitoringConfig(), client, &out)
	err := m.WaitJobCompletion(context.Background(), "1234")
	require.Error(t, err)
	require.True(t, IsNoJobFoundError(err))
	assert.Contains(t, out.String(), "State:UNKNOWN")
}

func TestWaitJobCompletionCancellation(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			if strings.HasPrefix(cmd, "scontrol") {
				return scontrolFor("RUNNING", "None"), nil
			}
			return "", nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	m := NewMonitor(monitoringConfig(), client, &out)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := m.WaitJobCompletion(ctx, "1234")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLogFileTailsIncrementally(t *testing.T) {
	t.Parallel()
	var tailCmds []string
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			tailCmds = append(tailCmds, cmd)
			if len(tailCmds) == 1 {
				return "line1\nline2\n", nil
			}
			return "line3\n", nil
		},
	}
	var out bytes.Buffer
	m := NewMonitor(monitoringConfig(), client, &out)
	m.logFile("/scratch/out.log", "StdOut")
	m.logFile("/scratch/out.log", "StdOut")

	require.Len(t, tailCmds, 2)
	assert.Contains(t, tailCmds[0], "tail -n +1 /scratch/out.log")
	assert.Contains(t, tailCmds[1], "tail -n +3 /scratch/out.log")
	assert.Contains(t, out.String(), "line1\nline2\n")
	assert.Contains(t, out.String(), "line3\n")
}

func TestRemoveArtifacts(t *testing.T) {
	t.Parallel()
	var cmds []string
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			cmds = append(cmds, cmd)
			return "", nil
		},
	}
	RemoveArtifacts(client, "/scratch/foldsub", []string{"job.sbatch", "", "in.csv"})
	require.Len(t, cmds, 2)
	assert.Equal(t, "rm -rf /scratch/foldsub/job.sbatch", cmds[0])
	assert.Equal(t, "rm -rf /scratch/foldsub/in.csv", cmds[1])
}
