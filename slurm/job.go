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
	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/helper/collections"
)

// JobSpec gathers everything needed to render and submit a batch job
type JobSpec struct {
	Name        string
	Partition   string
	Account     string
	QOS         string
	Nodes       int
	Tasks       int
	CpusPerTask int
	// MemPerNode is expressed in GB, 0 means scheduler default
	MemPerNode int
	Gres       string
	// Time is the wall-clock limit in SLURM time format (e.g. "10:00:00")
	Time       string
	Output     string
	Error      string
	WorkingDir string
	// EnvSetup lines are emitted verbatim before the payload command
	// (module load, source activate, ...)
	EnvSetup []string
	// EnvVars are exported in the batch script before the payload command
	EnvVars map[string]string
	// ExtraOpts are additional raw SBATCH options without the leading "--"
	ExtraOpts []string
	// Command is the payload command line run by the batch script
	Command string
}

// NewJobSpec returns a JobSpec pre-filled with the resource defaults of the
// given configuration
func NewJobSpec(cfg config.Configuration, name string) JobSpec {
	spec := JobSpec{
		Name:        name,
		Partition:   cfg.Partition,
		Account:     cfg.Account,
		QOS:         cfg.QOS,
		Nodes:       cfg.Nodes,
		Tasks:       cfg.Tasks,
		CpusPerTask: cfg.CpusPerTask,
		MemPerNode:  cfg.MemPerNode,
		Gres:        cfg.Gres,
		Time:        cfg.Time,
		EnvSetup:    cfg.EnvSetup,
		EnvVars:     make(map[string]string),
	}
	if spec.Partition == "" {
		spec.Partition = config.DefaultPartition
	}
	if spec.Gres == "" {
		spec.Gres = config.DefaultGres
	}
	if spec.CpusPerTask == 0 {
		spec.CpusPerTask = config.DefaultCpusPerTask
	}
	if spec.Time == "" {
		spec.Time = config.DefaultTime
	}
	if spec.Nodes == 0 {
		spec.Nodes = 1
	}
	return spec
}

// JobSummary is one line of a squeue listing
type JobSummary struct {
	ID        string
	Name      string
	User      string
	State     string
	RunTime   string
	Partition string
	Reason    string
}

// jobStateCompleted is the only successful terminal job state
const jobStateCompleted = "COMPLETED"

// transitionalStates are states for which monitoring keeps polling, either
// because the job is still running or because its state is about to be set
// definitively
var transitionalStates = []string{"RUNNING", "PENDING", "COMPLETING", "CONFIGURING", "SIGNALING", "RESIZING"}

// IsTransitionalState returns true if monitoring should keep polling for the
// given job state
func IsTransitionalState(state string) bool {
	return collections.ContainsString(transitionalStates, state)
}

// IsTerminalState returns true if the given job state is final
func IsTerminalState(state string) bool {
	return !IsTransitionalState(state)
}

// IsSuccessState returns true if the given terminal state denotes a
// successful job
func IsSuccessState(state string) bool {
	return state == jobStateCompleted
}
