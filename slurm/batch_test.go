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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlab/foldsub/config"
)

// MockClient allows to mock the commands ran against the cluster
type MockClient struct {
	MockRunCommand func(string) (string, error)
	MockCopyFile   func(io.Reader, string, string) error
}

// RunCommand to mock a command ran via SSH
func (c *MockClient) RunCommand(cmd string) (string, error) {
	if c.MockRunCommand != nil {
		return c.MockRunCommand(cmd)
	}
	return "", nil
}

// CopyFile to mock a file staged on the cluster
func (c *MockClient) CopyFile(source io.Reader, remotePath, permissions string) error {
	if c.MockCopyFile != nil {
		return c.MockCopyFile(source, remotePath, permissions)
	}
	return nil
}

func testJobSpec() JobSpec {
	cfg := config.Configuration{
		Partition:   "a100",
		Account:     "lab",
		QOS:         "normal",
		CpusPerTask: 16,
		Gres:        "gpu:a100:1",
		Time:        "10:00:00",
		EnvSetup:    []string{"module load cuda/12.1", "source activate foldenv"},
	}
	spec := NewJobSpec(cfg, "esmfold_batch")
	spec.WorkingDir = "/scratch/foldsub"
	spec.Command = "python esm_generate_structures.py --input_csv in.csv"
	return spec
}

func TestGenerateBatchScript(t *testing.T) {
	t.Parallel()
	spec := testJobSpec()
	spec.MemPerNode = 64
	spec.EnvVars = map[string]string{"BOLTZ_CACHE": "/scratch/boltz_cache"}
	spec.ExtraOpts = []string{"exclusive"}

	script := GenerateBatchScript(spec)
	require.True(t, strings.HasPrefix(script, "#!/bin/bash\n"))
	for _, directive := range []string{
		"#SBATCH --job-name=esmfold_batch",
		"#SBATCH --partition=a100",
		"#SBATCH --account=lab",
		"#SBATCH --qos=normal",
		"#SBATCH --nodes=1",
		"#SBATCH --cpus-per-task=16",
		"#SBATCH --mem=64G",
		"#SBATCH --gres=gpu:a100:1",
		"#SBATCH --time=10:00:00",
		"#SBATCH --exclusive",
	} {
		assert.Contains(t, script, directive+"\n")
	}
	assert.Contains(t, script, "export BOLTZ_CACHE=/scratch/boltz_cache\n")
	assert.Contains(t, script, "module load cuda/12.1\n")
	assert.Contains(t, script, "source activate foldenv\n")
	assert.Contains(t, script, "echo \"Starting esmfold_batch\"\npython esm_generate_structures.py --input_csv in.csv\necho \"esmfold_batch completed\"\n")
	// no ntasks directive for a single task
	assert.NotContains(t, script, "--ntasks")
}

func TestGenerateBatchScriptOmitsEmptyDirectives(t *testing.T) {
	t.Parallel()
	spec := NewJobSpec(config.Configuration{}, "j")
	spec.Command = "true"
	script := GenerateBatchScript(spec)
	assert.NotContains(t, script, "--account")
	assert.NotContains(t, script, "--qos")
	assert.NotContains(t, script, "--mem=")
	assert.Contains(t, script, "#SBATCH --partition=gpu\n")
	assert.Contains(t, script, "#SBATCH --gres=gpu:1\n")
	assert.Contains(t, script, "#SBATCH --time=10:00:00\n")
}

func TestSubmitJob(t *testing.T) {
	t.Parallel()
	var stagedPath, runCmd string
	var staged bytes.Buffer
	client := &MockClient{
		MockCopyFile: func(source io.Reader, remotePath, permissions string) error {
			stagedPath = remotePath
			_, err := io.Copy(&staged, source)
			require.Equal(t, "0755", permissions)
			return err
		},
		MockRunCommand: func(cmd string) (string, error) {
			runCmd = cmd
			return "Submitted batch job 1234\n", nil
		},
	}

	jobID, err := SubmitJob(client, testJobSpec())
	require.NoError(t, err)
	assert.Equal(t, "1234", jobID)
	assert.Equal(t, "/scratch/foldsub/esmfold_batch.sbatch", stagedPath)
	assert.Equal(t, "cd /scratch/foldsub;sbatch esmfold_batch.sbatch", runCmd)
	assert.Contains(t, staged.String(), "#SBATCH --job-name=esmfold_batch")
}

func TestSubmitJobMalformedOutput(t *testing.T) {
	t.Parallel()
	client := &MockClient{
		MockRunCommand: func(cmd string) (string, error) {
			return "sbatch: error: invalid partition specified\n", nil
		},
	}
	_, err := SubmitJob(client, testJobSpec())
	require.Error(t, err, "expected unexpected sbatch output error")
}

func TestParseJobIDFromBatchOutput(t *testing.T) {
	t.Parallel()
	id, err := parseJobIDFromBatchOutput("Submitted batch job 4567")
	require.NoError(t, err)
	assert.Equal(t, "4567", id)

	_, err = parseJobIDFromBatchOutput("Submitted batch job")
	require.Error(t, err)
	_, err = parseJobIDFromBatchOutput("")
	require.Error(t, err)
}
