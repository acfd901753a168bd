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
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/log"
)

// SetupTelemetry configures the go-metrics sinks from the telemetry
// configuration. Submission and monitoring counters are published there.
func SetupTelemetry(cfg config.Configuration) error {
	memSink := metrics.NewInmemSink(10*time.Second, time.Minute)
	metrics.DefaultInmemSignal(memSink)
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = "foldsub"
	}
	metricsConf := metrics.DefaultConfig(serviceName)
	metricsConf.EnableHostname = !cfg.Telemetry.DisableHostName
	metricsConf.EnableRuntimeMetrics = !cfg.Telemetry.DisableGoRuntimeMetrics
	var sinks metrics.FanoutSink

	if cfg.Telemetry.StatsdAddress != "" {
		log.Debugf("Setting up a statsd telemetry service on %q", cfg.Telemetry.StatsdAddress)
		statsdSink, err := metrics.NewStatsdSink(cfg.Telemetry.StatsdAddress)
		if err != nil {
			return errors.Wrap(err, "Failed to create Statsd telemetry service")
		}
		sinks = append(sinks, statsdSink)
	}

	if cfg.Telemetry.StatsiteAddress != "" {
		log.Debugf("Setting up a statsite telemetry service on %q", cfg.Telemetry.StatsiteAddress)
		statsiteSink, err := metrics.NewStatsiteSink(cfg.Telemetry.StatsiteAddress)
		if err != nil {
			return errors.Wrap(err, "Failed to create Statsite telemetry service")
		}
		sinks = append(sinks, statsiteSink)
	}

	if len(sinks) > 0 {
		sinks = append(sinks, memSink)
		_, err := metrics.NewGlobal(metricsConf, sinks)
		return err
	}
	log.Debugln("Using InMemory only telemetry")
	_, err := metrics.NewGlobal(metricsConf, memSink)
	return err
}
