// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/server"
)

// Duration is a time.Duration that decodes from YAML duration strings
// like "45s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the YAML deployment configuration. Zero values fall back
// to the manager defaults.
type Config struct {
	Host            string            `yaml:"host"`
	Port            int               `yaml:"port"`
	Mode            string            `yaml:"mode"`
	EndpointPath    string            `yaml:"endpoint_path"`
	ResponseType    string            `yaml:"response_type"`
	ServiceName     string            `yaml:"service_name"`
	DeployTimeout   Duration          `yaml:"deploy_timeout"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"`
	HealthCheck     bool              `yaml:"health_check"`
	Environment     map[string]string `yaml:"environment"`
	Command         []string          `yaml:"command"`

	// Packaging inputs, passed through to the packaging collaborator
	// untouched.
	Requirements  []string `yaml:"requirements"`
	ExtraPackages []string `yaml:"extra_packages"`
}

// LoadConfig reads a YAML deployment configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deploy: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("deploy: parse config %s: %w", path, err)
	}
	if cfg.Mode != "" && !agentrun.DeployMode(cfg.Mode).Valid() {
		return nil, fmt.Errorf("deploy: config %s: unknown mode %q", path, cfg.Mode)
	}
	return &cfg, nil
}

// Options converts the configuration into manager options.
func (c *Config) Options() []LocalOption {
	opts := []LocalOption{
		WithHost(c.Host),
		WithPort(c.Port),
		WithEndpointPath(c.EndpointPath),
		WithServiceName(c.ServiceName),
		WithDeployTimeout(time.Duration(c.DeployTimeout)),
		WithShutdownTimeout(time.Duration(c.ShutdownTimeout)),
		WithHealthCheck(c.HealthCheck),
	}
	if c.Mode != "" {
		opts = append(opts, WithMode(agentrun.DeployMode(c.Mode)))
	}
	if c.ResponseType != "" {
		opts = append(opts, WithResponseType(server.ResponseType(c.ResponseType)))
	}
	if len(c.Environment) > 0 {
		opts = append(opts, WithEnvironment(c.Environment))
	}
	if len(c.Command) > 0 {
		opts = append(opts, WithCommand(c.Command...))
	}
	return opts
}
