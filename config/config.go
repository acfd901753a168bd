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

// Package config defines configuration structures
package config

import (
	"time"

	"github.com/spf13/cast"
)

// DefaultSSHPort is the default port used to connect to the cluster login node
const DefaultSSHPort int = 22

// DefaultJobMonitoringTimeInterval is the default polling interval of the job monitoring
const DefaultJobMonitoringTimeInterval = 5 * time.Second

// DefaultPartition is the default SLURM partition jobs are submitted to
const DefaultPartition = "gpu"

// DefaultGres is the default generic resource request (one GPU)
const DefaultGres = "gpu:1"

// DefaultCpusPerTask is the default number of CPUs allocated per task
const DefaultCpusPerTask = 8

// DefaultTime is the default wall-clock limit of a submitted job
const DefaultTime = "10:00:00"

// Configuration holds config information filled by Cobra and Viper (see commands package for more information)
type Configuration struct {
	WorkingDirectory          string
	UserName                  string
	Password                  string
	PrivateKey                string
	URL                       string
	Port                      int
	Local                     bool
	Partition                 string
	Account                   string
	QOS                       string
	Gres                      string
	Nodes                     int
	Tasks                     int
	CpusPerTask               int
	MemPerNode                int
	Time                      string
	EnvSetup                  []string
	JobMonitoringTimeInterval time.Duration
	KeepJobRemoteArtifacts    bool
	NoColor                   bool
	Telemetry                 Telemetry
	Tools                     map[string]ToolConfig
}

// Telemetry holds the configuration for the telemetry service
type Telemetry struct {
	StatsdAddress           string
	StatsiteAddress         string
	ServiceName             string
	DisableHostName         bool
	DisableGoRuntimeMetrics bool
}

// ToolConfig parameters for a given prediction tool.
//
// It has methods to automatically cast data to the desired type.
type ToolConfig map[string]interface{}

// Get returns the raw value for a given configuration key
func (t ToolConfig) Get(name string) interface{} {
	return t[name]
}

// GetString returns the value of the given key casted into a string
func (t ToolConfig) GetString(name string) string {
	return cast.ToString(t[name])
}

// GetStringOrDefault returns the value of the given key casted into a string.
// The given default value is returned if not found or if the retrieved value is empty
func (t ToolConfig) GetStringOrDefault(name, defaultValue string) string {
	if res, ok := t[name]; ok && cast.ToString(res) != "" {
		return cast.ToString(res)
	}
	return defaultValue
}

// GetBool returns the value of the given key casted into a boolean
func (t ToolConfig) GetBool(name string) bool {
	return cast.ToBool(t[name])
}

// GetInt returns the value of the given key casted into an int
func (t ToolConfig) GetInt(name string) int {
	return cast.ToInt(t[name])
}

// GetIntOrDefault returns the value of the given key casted into an int.
// The given default value is returned if not found or if the retrieved value is zero
func (t ToolConfig) GetIntOrDefault(name string, defaultValue int) int {
	if res, ok := t[name]; ok && cast.ToInt(res) != 0 {
		return cast.ToInt(res)
	}
	return defaultValue
}

// GetDuration returns the value of the given key casted into a Duration
func (t ToolConfig) GetDuration(name string) time.Duration {
	return cast.ToDuration(t[name])
}

// GetStringSlice returns the value of the given key casted into a slice of strings
func (t ToolConfig) GetStringSlice(name string) []string {
	return cast.ToStringSlice(t[name])
}

// Tool returns the ToolConfig registered under the given name, possibly nil.
//
// A nil ToolConfig is usable, all accessors return zero values.
func (c Configuration) Tool(name string) ToolConfig {
	return c.Tools[name]
}
