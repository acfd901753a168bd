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
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/krlab/foldsub/config"
	"github.com/krlab/foldsub/helper/executil"
	"github.com/krlab/foldsub/helper/sshutil"
	"github.com/krlab/foldsub/log"
)

// Client is the interface used to run SLURM commands and to stage files on
// the cluster. It is implemented by an SSH client targeting the login node
// and by a local client for use directly on a submission host.
type Client interface {
	RunCommand(cmd string) (string, error)
	CopyFile(source io.Reader, remotePath, permissions string) error
}

// GetClient returns a Client built from the given configuration.
//
// When cfg.Local is set commands are executed on the current host, otherwise
// an SSH client to the configured login node is returned.
func GetClient(cfg config.Configuration) (Client, error) {
	if cfg.Local {
		return &localClient{}, nil
	}
	return getSSHClient(cfg)
}

// getSSHClient returns an SSH client to the cluster login node with the
// authentication material from the configuration
func getSSHClient(cfg config.Configuration) (*sshutil.SSHClient, error) {
	// Check SLURM configuration
	if err := checkInfraConfig(cfg); err != nil {
		log.Print("Unable to provide SSH client due to:", err)
		return nil, err
	}

	// Get SSH client
	SSHConfig := &ssh.ClientConfig{
		User:            cfg.UserName,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	// Use a private key if provided, password authentication otherwise
	if cfg.PrivateKey != "" {
		keyAuth, err := sshutil.ReadPrivateKey(cfg.PrivateKey)
		if err != nil {
			log.Print("Unable to provide SSH client due to:", err)
			return nil, err
		}
		SSHConfig.Auth = append(SSHConfig.Auth, keyAuth)
	} else {
		SSHConfig.Auth = append(SSHConfig.Auth, ssh.Password(cfg.Password))
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}

	return &sshutil.SSHClient{
		Config: SSHConfig,
		Host:   cfg.URL,
		Port:   port,
	}, nil
}

// checkInfraConfig checks the mandatory SLURM connection parameters
func checkInfraConfig(cfg config.Configuration) error {
	if cfg.URL == "" || cfg.UserName == "" {
		return errors.New("slurm configuration is missing mandatory parameters user_name and url")
	}
	if cfg.PrivateKey == "" && cfg.Password == "" {
		return errors.New("slurm configuration must provide at least one of private_key or password")
	}
	return nil
}

// localClient runs commands on the current host. It is used when foldsub runs
// directly on a submission host where the SLURM client commands are available.
type localClient struct {
}

func (c *localClient) RunCommand(cmd string) (string, error) {
	log.Debugf("[local] %q", cmd)
	var b bytes.Buffer
	execCmd := executil.Command(context.Background(), "bash", "-c", cmd)
	execCmd.Stdout = &b
	execCmd.Stderr = &b
	err := execCmd.Run()
	return b.String(), err
}

func (c *localClient) CopyFile(source io.Reader, remotePath, permissions string) error {
	if err := os.MkdirAll(filepath.Dir(remotePath), 0755); err != nil {
		return errors.Wrapf(err, "Couldn't create the directory:%q", filepath.Dir(remotePath))
	}
	perm, err := strconv.ParseUint(permissions, 8, 32)
	if err != nil {
		return errors.Wrapf(err, "Invalid permissions %q", permissions)
	}
	f, err := os.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(perm))
	if err != nil {
		return errors.Wrapf(err, "Couldn't create file:%q", remotePath)
	}
	defer f.Close()
	_, err = io.Copy(f, source)
	return errors.Wrapf(err, "Couldn't write file:%q", remotePath)
}
