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

	"github.com/stretchr/testify/assert"

	"github.com/krlab/foldsub/config"
)

func TestJobStates(t *testing.T) {
	t.Parallel()
	for _, state := range []string{"RUNNING", "PENDING", "COMPLETING", "CONFIGURING", "SIGNALING", "RESIZING"} {
		assert.True(t, IsTransitionalState(state), "state %s should be transitional", state)
		assert.False(t, IsTerminalState(state), "state %s should not be terminal", state)
	}
	for _, state := range []string{"COMPLETED", "FAILED", "CANCELLED", "TIMEOUT", "SUSPENDED", "OUT_OF_MEMORY"} {
		assert.True(t, IsTerminalState(state), "state %s should be terminal", state)
	}
	assert.True(t, IsSuccessState("COMPLETED"))
	assert.False(t, IsSuccessState("FAILED"))
}

func TestNewJobSpecDefaults(t *testing.T) {
	t.Parallel()
	spec := NewJobSpec(config.Configuration{}, "myjob")
	assert.Equal(t, "myjob", spec.Name)
	assert.Equal(t, config.DefaultPartition, spec.Partition)
	assert.Equal(t, config.DefaultGres, spec.Gres)
	assert.Equal(t, config.DefaultCpusPerTask, spec.CpusPerTask)
	assert.Equal(t, config.DefaultTime, spec.Time)
	assert.Equal(t, 1, spec.Nodes)
	assert.NotNil(t, spec.EnvVars)
}

func TestNewJobSpecFromConfiguration(t *testing.T) {
	t.Parallel()
	cfg := config.Configuration{
		Partition:   "h100",
		Account:     "lab",
		QOS:         "high",
		Nodes:       2,
		Tasks:       4,
		CpusPerTask: 32,
		MemPerNode:  128,
		Gres:        "gpu:h100:4",
		Time:        "24:00:00",
		EnvSetup:    []string{"module load cuda"},
	}
	spec := NewJobSpec(cfg, "big")
	assert.Equal(t, "h100", spec.Partition)
	assert.Equal(t, "lab", spec.Account)
	assert.Equal(t, "high", spec.QOS)
	assert.Equal(t, 2, spec.Nodes)
	assert.Equal(t, 4, spec.Tasks)
	assert.Equal(t, 32, spec.CpusPerTask)
	assert.Equal(t, 128, spec.MemPerNode)
	assert.Equal(t, "gpu:h100:4", spec.Gres)
	assert.Equal(t, "24:00:00", spec.Time)
	assert.Equal(t, []string{"module load cuda"}, spec.EnvSetup)
}
