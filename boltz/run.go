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

package boltz

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/krlab/foldsub/helper/csvutil"
	"github.com/krlab/foldsub/helper/executil"
	"github.com/krlab/foldsub/log"
)

var replicatePattern = regexp.MustCompile(`_rep(\d+)`)

// Record tracks one replicate prediction run
type Record struct {
	Filename          string
	Replicate         int
	ProcessingTimeSec float64
}

// RunOptions control a batch of replicated predictions over a directory of
// YAML input files
type RunOptions struct {
	// InputDir contains the YAML input files, one per complex
	InputDir string
	// MaxTime bounds a single prediction, zero means no limit
	MaxTime       time.Duration
	NumReplicates int
	// Executable is the prediction command, "boltz" when empty
	Executable string
	Predict    PredictParams
	// Out receives the prediction process output, discarded when nil
	Out io.Writer
}

// DuplicateYAMLs copies every YAML file of inputDir num times into a
// "replicates" subdirectory, appending _repN to each copy. It returns the
// path of the replicates directory.
func DuplicateYAMLs(inputDir string, num int) (string, error) {
	replicatesDir := filepath.Join(inputDir, "replicates")
	if err := os.MkdirAll(replicatesDir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create replicates directory %q", replicatesDir)
	}
	files, err := listYAMLFiles(inputDir)
	if err != nil {
		return "", err
	}
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(inputDir, file))
		if err != nil {
			return "", errors.Wrapf(err, "failed to read YAML file %q", file)
		}
		ext := filepath.Ext(file)
		base := strings.TrimSuffix(file, ext)
		for rep := 1; rep <= num; rep++ {
			target := filepath.Join(replicatesDir, base+"_rep"+strconv.Itoa(rep)+ext)
			if err := os.WriteFile(target, content, 0644); err != nil {
				return "", errors.Wrapf(err, "failed to write replicate file %q", target)
			}
		}
	}
	return replicatesDir, nil
}

// ExtractReplicateNumber returns the replicate number encoded in a file name
// as _repN, or 1 if there is none
func ExtractReplicateNumber(filename string) int {
	if m := replicatePattern.FindStringSubmatch(filename); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 1
}

// RunReplicates duplicates the YAML inputs and runs one prediction per
// replicate file. A failed or timed out prediction is logged and the batch
// moves on to the next file. The per-replicate records are written to
// boltz_dock_records.csv in the predictions output directory.
func RunReplicates(ctx context.Context, opts RunOptions) ([]Record, error) {
	num := opts.NumReplicates
	if num < 1 {
		num = 1
	}
	jobsDir, err := DuplicateYAMLs(opts.InputDir, num)
	if err != nil {
		return nil, err
	}
	log.Printf("Replicate files created in: %s", jobsDir)

	files, err := listYAMLFiles(jobsDir)
	if err != nil {
		return nil, err
	}

	executable := opts.Executable
	if executable == "" {
		executable = "boltz"
	}

	records := make([]Record, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		yamlPath := filepath.Join(jobsDir, file)
		args := opts.Predict.Args(yamlPath)
		log.Printf("Running command: %s %s", executable, strings.Join(args, " "))

		runCtx := ctx
		var cancel context.CancelFunc
		if opts.MaxTime > 0 {
			runCtx, cancel = context.WithTimeout(ctx, opts.MaxTime)
		}
		start := time.Now()
		cmd := executil.Command(runCtx, executable, args...)
		cmd.Stdout = opts.Out
		cmd.Stderr = opts.Out
		err := cmd.Run()
		elapsed := time.Since(start)
		if cancel != nil {
			cancel()
		}
		switch {
		case err != nil && runCtx.Err() == context.DeadlineExceeded:
			elapsed = opts.MaxTime
			log.Printf("Job %s exceeded the time limit. Moving to next file.", file)
			metrics.IncrCounter([]string{"boltz", "timeouts"}, 1)
		case err != nil:
			log.Printf("Job %s failed with error: %v. Moving to next file.", file, err)
			metrics.IncrCounter([]string{"boltz", "failures"}, 1)
		}
		metrics.MeasureSince([]string{"boltz", "prediction"}, start)

		records = append(records, Record{
			Filename:          file,
			Replicate:         ExtractReplicateNumber(file),
			ProcessingTimeSec: roundSeconds(elapsed),
		})
	}

	recordsPath := filepath.Join(opts.Predict.OutDir, RecordsFileName)
	if err := WriteRecords(recordsPath, records); err != nil {
		return records, err
	}
	log.Printf("CSV record file saved at %s", recordsPath)
	return records, nil
}

// WriteRecords saves replicate run records as a CSV file
func WriteRecords(path string, records []Record) error {
	t := &csvutil.Table{Columns: []string{"filename", "replicate", "processing_time_sec"}}
	for _, rec := range records {
		t.Rows = append(t.Rows, map[string]string{
			"filename":            rec.Filename,
			"replicate":           strconv.Itoa(rec.Replicate),
			"processing_time_sec": strconv.FormatFloat(rec.ProcessingTimeSec, 'f', 2, 64),
		})
	}
	return t.Write(path)
}

func listYAMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list directory %q", dir)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Round(10*time.Millisecond)) / float64(time.Second)
}
