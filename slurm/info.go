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
	"strings"

	"github.com/pkg/errors"
)

const invalidJobID = "Invalid job id specified"

type noJobFound struct {
	msg string
}

func (jid *noJobFound) Error() string {
	return jid.msg
}

// IsNoJobFoundError checks if the given error means that the job is not
// known by the scheduler anymore (terminated and purged, or never existed)
func IsNoJobFoundError(err error) bool {
	_, ok := errors.Cause(err).(*noJobFound)
	return ok
}

// GetJobInfo returns the attributes of the given job as reported by
// "scontrol show job" (JobId, JobName, JobState, Reason, RunTime, StdOut,
// StdErr, ...)
func GetJobInfo(client Client, jobID string) (map[string]string, error) {
	cmd := fmt.Sprintf("scontrol show job %s", jobID)
	output, err := client.RunCommand(cmd)
	if strings.Contains(output, invalidJobID) {
		return nil, &noJobFound{msg: fmt.Sprintf("no job found with id:%q", jobID)}
	}
	if err != nil {
		return nil, errors.Wrap(err, strings.TrimSpace(output))
	}
	info := parseJobInfo(output)
	if len(info) == 0 {
		return nil, &noJobFound{msg: fmt.Sprintf("no job found with id:%q", jobID)}
	}
	return info, nil
}

// parseJobInfo parses the "Property=Value" tokens of a scontrol output
func parseJobInfo(output string) map[string]string {
	info := make(map[string]string)
	for _, token := range strings.Fields(output) {
		if propVal := strings.SplitN(token, "=", 2); len(propVal) == 2 {
			info[propVal[0]] = propVal[1]
		}
	}
	return info
}

// CancelJob cancels the given job with scancel
func CancelJob(client Client, jobID string) error {
	output, err := client.RunCommand(fmt.Sprintf("scancel %s", jobID))
	return errors.Wrapf(err, "Failed to cancel job with id:%q, output:%q", jobID, output)
}

// ListJobs returns the jobs currently known by the scheduler, optionally
// restricted to the given user
func ListJobs(client Client, user string) ([]JobSummary, error) {
	cmd := `squeue --noheader -o "%i,%j,%u,%T,%M,%P,%r"`
	if user != "" {
		cmd += fmt.Sprintf(" -u %s", user)
	}
	output, err := client.RunCommand(cmd)
	if err != nil {
		return nil, errors.Wrap(err, strings.TrimSpace(output))
	}

	var jobs []JobSummary
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 7)
		if len(fields) != 7 {
			return nil, errors.Errorf("Unexpected squeue output:%q", line)
		}
		jobs = append(jobs, JobSummary{
			ID:        fields[0],
			Name:      fields[1],
			User:      fields[2],
			State:     fields[3],
			RunTime:   fields[4],
			Partition: fields[5],
			Reason:    fields[6],
		})
	}
	return jobs, nil
}
