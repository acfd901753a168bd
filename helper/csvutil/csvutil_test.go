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

package csvutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3\n"), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2", table.Rows[0]["b"])
	// short records read as empty cells
	assert.Equal(t, "", table.Rows[1]["b"])
}

func TestReadTableEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.csv")
	table := &Table{Columns: []string{"a", "b"}}
	table.Rows = append(table.Rows, map[string]string{"a": "1", "b": "with,comma"})
	table.AddColumn("c", []string{"3"})
	require.NoError(t, table.Write(path))

	read, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, read.Columns)
	require.Len(t, read.Rows, 1)
	assert.Equal(t, "with,comma", read.Rows[0]["b"])
	assert.Equal(t, "3", read.Rows[0]["c"])
	assert.True(t, read.HasColumn("c"))
	assert.False(t, read.HasColumn("d"))
}
