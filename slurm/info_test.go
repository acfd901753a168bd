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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scontrolOutput = `JobId=1234 JobName=esmfold_batch
   UserId=jdoe(1000) GroupId=lab(1000) MCS_label=N/A
   Priority=4294 Nice=0 Account=lab QOS=normal
   JobState=RUNNING Reason=None Dependency=(null)
   RunTime=00:12:42 TimeLimit=10:00:00
   Partition=a100 AllocNode:Sid=login1:4321
   StdErr=/scratch/foldsub/slurm-1234.out
   StdOut=/scratch/foldsub/slurm-1234.out
`

func TestGetJobInfo(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			assert.Equal(t, "scontrol show job 1234", cmd)
			return scontrolOutput, nil
		},
	}
	info, err := GetJobInfo(client, "1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", info["JobId"])
	assert.Equal(t, "esmfold_batch", info["JobName"])
	assert.Equal(t, "RUNNING", info["JobState"])
	assert.Equal(t, "None", info["Reason"])
	assert.Equal(t, "00:12:42", info["RunTime"])
	assert.Equal(t, "/scratch/foldsub/slurm-1234.out", info["StdOut"])
}

func TestGetJobInfoNoJobFound(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "slurm_load_jobs error: Invalid job id specified", errors.New("exit status 1")
		},
	}
	_, err := GetJobInfo(client, "42")
	require.Error(t, err)
	require.True(t, IsNoJobFoundError(err))
	require.True(t, IsNoJobFoundError(errors.Wrap(err, "wrapped")))
}

func TestGetJobInfoFailure(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "", errors.New("expected failure")
		},
	}
	_, err := GetJobInfo(client, "42")
	require.Error(t, err)
	require.False(t, IsNoJobFoundError(err))
}

func TestCancelJob(t *testing.T) {
	t.Parallel()
	var runCmd string
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			runCmd = cmd
			return "", nil
		},
	}
	require.NoError(t, CancelJob(client, "1234"))
	assert.Equal(t, "scancel 1234", runCmd)
}

func TestListJobs(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			assert.Contains(t, cmd, "squeue --noheader")
			assert.Contains(t, cmd, "-u jdoe")
			return "1234,esmfold_batch,jdoe,RUNNING,12:42,a100,None\n1235,boltz_batch,jdoe,PENDING,0:00,a100,Priority\n", nil
		},
	}
	jobs, err := ListJobs(client, "jdoe")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, JobSummary{ID: "1234", Name: "esmfold_batch", User: "jdoe", State: "RUNNING", RunTime: "12:42", Partition: "a100", Reason: "None"}, jobs[0])
	assert.Equal(t, "PENDING", jobs[1].State)
}

func TestListJobsMalformedOutput(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "garbage\n", nil
		},
	}
	_, err := ListJobs(client, "")
	require.Error(t, err, "expected unexpected squeue output error")
}
