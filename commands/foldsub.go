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

// Package commands implements the foldsub command line interface
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/log"
)

// RootCmd is the root of foldsub commands tree
var RootCmd = &cobra.Command{
	Use:   "foldsub",
	Short: "A SLURM submission tool for structure prediction pipelines",
	Long: `foldsub submits ESMFold and Boltz structure prediction jobs to a SLURM
cluster, monitors them, and runs the Boltz input/aggregation pipeline.
`,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

var cfgFile string
var noColor bool

func init() {
	setConfig()
	cobra.OnInitialize(initConfig)
}

// Execute runs the root command and exits on error
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugln("Using config file:", viper.ConfigFileUsed())
	} else {
		log.Debugln("Config not found... ")
	}
	if viper.GetBool("debug") {
		log.SetDebug(true)
	}
}

func setConfig() {
	pf := RootCmd.PersistentFlags()

	// Flags definition for the cluster connection
	pf.StringP("url", "", "", "Hostname or IP of the cluster login node")
	pf.IntP("port", "", config.DefaultSSHPort, "SSH port of the cluster login node")
	pf.StringP("user_name", "u", "", "The username to authenticate on the cluster")
	pf.StringP("password", "p", "", "The password to authenticate on the cluster")
	pf.StringP("private_key", "k", "", "Path to the private key used to authenticate on the cluster")
	pf.Bool("local", false, "Run scheduler commands locally instead of over SSH")
	pf.String("working_directory", "", "Remote directory where job scripts and inputs are staged")

	// Flags definition for scheduler resources
	pf.String("partition", config.DefaultPartition, "SLURM partition jobs are submitted to")
	pf.String("account", "", "SLURM account jobs are charged to")
	pf.String("qos", "", "SLURM quality of service")
	pf.String("gres", config.DefaultGres, "Generic resources requested per node (e.g. gpu:a40:1)")
	pf.Int("nodes", 1, "Number of nodes requested")
	pf.Int("tasks", 0, "Number of tasks requested")
	pf.Int("cpus_per_task", config.DefaultCpusPerTask, "Number of CPUs allocated per task")
	pf.Int("mem_per_node", 0, "Memory per node in GB (0 means scheduler default)")
	pf.String("time", config.DefaultTime, "Wall-clock limit in SLURM time format")
	pf.StringSlice("env_setup", nil, "Environment setup lines run before the payload command (module load, source activate, ...)")

	pf.Duration("job_monitoring_time_interval", config.DefaultJobMonitoringTimeInterval, "Polling interval of the job monitoring")
	pf.Bool("keep_job_remote_artifacts", false, "Keep staged scripts and inputs on the cluster once the job is done")
	pf.Bool("debug", false, "Enable debug logging")
	pf.BoolVar(&noColor, "no_color", false, "Disable coloring output")

	viper.BindPFlag("url", pf.Lookup("url"))
	viper.BindPFlag("port", pf.Lookup("port"))
	viper.BindPFlag("user_name", pf.Lookup("user_name"))
	viper.BindPFlag("password", pf.Lookup("password"))
	viper.BindPFlag("private_key", pf.Lookup("private_key"))
	viper.BindPFlag("local", pf.Lookup("local"))
	viper.BindPFlag("working_directory", pf.Lookup("working_directory"))
	viper.BindPFlag("partition", pf.Lookup("partition"))
	viper.BindPFlag("account", pf.Lookup("account"))
	viper.BindPFlag("qos", pf.Lookup("qos"))
	viper.BindPFlag("gres", pf.Lookup("gres"))
	viper.BindPFlag("nodes", pf.Lookup("nodes"))
	viper.BindPFlag("tasks", pf.Lookup("tasks"))
	viper.BindPFlag("cpus_per_task", pf.Lookup("cpus_per_task"))
	viper.BindPFlag("mem_per_node", pf.Lookup("mem_per_node"))
	viper.BindPFlag("time", pf.Lookup("time"))
	viper.BindPFlag("env_setup", pf.Lookup("env_setup"))
	viper.BindPFlag("job_monitoring_time_interval", pf.Lookup("job_monitoring_time_interval"))
	viper.BindPFlag("keep_job_remote_artifacts", pf.Lookup("keep_job_remote_artifacts"))
	viper.BindPFlag("debug", pf.Lookup("debug"))

	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is /etc/foldsub/config.foldsub.json)")

	// Environment Variables
	viper.SetEnvPrefix("foldsub") // will be uppercased automatically - Become "FOLDSUB_"
	viper.AutomaticEnv()          // read in environment variables that match
	viper.BindEnv("url")
	viper.BindEnv("port")
	viper.BindEnv("user_name")
	viper.BindEnv("password")
	viper.BindEnv("private_key")
	viper.BindEnv("working_directory")
	viper.BindEnv("partition")
	viper.BindEnv("account")
	viper.BindEnv("debug")

	// Setting Defaults
	viper.SetDefault("port", config.DefaultSSHPort)
	viper.SetDefault("partition", config.DefaultPartition)
	viper.SetDefault("gres", config.DefaultGres)
	viper.SetDefault("cpus_per_task", config.DefaultCpusPerTask)
	viper.SetDefault("time", config.DefaultTime)
	viper.SetDefault("nodes", 1)
	viper.SetDefault("job_monitoring_time_interval", config.DefaultJobMonitoringTimeInterval)
	viper.SetDefault("telemetry.service_name", "foldsub")

	// Configuration file directories
	viper.SetConfigName("config.foldsub") // name of config file (without extension)
	viper.AddConfigPath("/etc/foldsub/")
	viper.AddConfigPath(".")
}

func getConfig() config.Configuration {
	configuration := config.Configuration{}
	configuration.WorkingDirectory = viper.GetString("working_directory")
	configuration.UserName = viper.GetString("user_name")
	configuration.Password = viper.GetString("password")
	configuration.PrivateKey = viper.GetString("private_key")
	configuration.URL = viper.GetString("url")
	configuration.Port = viper.GetInt("port")
	configuration.Local = viper.GetBool("local")
	configuration.Partition = viper.GetString("partition")
	configuration.Account = viper.GetString("account")
	configuration.QOS = viper.GetString("qos")
	configuration.Gres = viper.GetString("gres")
	configuration.Nodes = viper.GetInt("nodes")
	configuration.Tasks = viper.GetInt("tasks")
	configuration.CpusPerTask = viper.GetInt("cpus_per_task")
	configuration.MemPerNode = viper.GetInt("mem_per_node")
	configuration.Time = viper.GetString("time")
	configuration.EnvSetup = viper.GetStringSlice("env_setup")
	configuration.JobMonitoringTimeInterval = viper.GetDuration("job_monitoring_time_interval")
	if configuration.JobMonitoringTimeInterval <= 0 {
		configuration.JobMonitoringTimeInterval = config.DefaultJobMonitoringTimeInterval
	}
	configuration.KeepJobRemoteArtifacts = viper.GetBool("keep_job_remote_artifacts")
	configuration.NoColor = noColor
	configuration.Telemetry.StatsdAddress = viper.GetString("telemetry.statsd_address")
	configuration.Telemetry.StatsiteAddress = viper.GetString("telemetry.statsite_address")
	configuration.Telemetry.ServiceName = viper.GetString("telemetry.service_name")
	configuration.Telemetry.DisableHostName = viper.GetBool("telemetry.disable_hostname")
	configuration.Telemetry.DisableGoRuntimeMetrics = viper.GetBool("telemetry.disable_go_runtime_metrics")
	configuration.Tools = getToolsConfig()
	return configuration
}

// getToolsConfig reads the per-tool parameter maps of the "tools" section of
// the configuration file (tools.esmfold, tools.boltz, ...)
func getToolsConfig() map[string]config.ToolConfig {
	raw := viper.GetStringMap("tools")
	if len(raw) == 0 {
		return nil
	}
	tools := make(map[string]config.ToolConfig, len(raw))
	for name, params := range raw {
		tools[name] = config.ToolConfig(cast.ToStringMap(params))
	}
	return tools
}

func errExit(msg interface{}) {
	fmt.Println("Error:", msg)
	os.Exit(1)
}
