// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/server"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "deploy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
host: 0.0.0.0
port: 9000
mode: detached_process
endpoint_path: /run
response_type: json
service_name: my-agent
deploy_timeout: 45s
shutdown_timeout: 5s
health_check: true
environment:
  LOG_LEVEL: debug
command: ["./agent", "serve"]
requirements:
  - pyyaml
extra_packages:
  - ./wheels/extra.whl
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := &Config{
		Host:            "0.0.0.0",
		Port:            9000,
		Mode:            "detached_process",
		EndpointPath:    "/run",
		ResponseType:    "json",
		ServiceName:     "my-agent",
		DeployTimeout:   Duration(45 * time.Second),
		ShutdownTimeout: Duration(5 * time.Second),
		HealthCheck:     true,
		Environment:     map[string]string{"LOG_LEVEL": "debug"},
		Command:         []string{"./agent", "serve"},
		Requirements:    []string{"pyyaml"},
		ExtraPackages:   []string{"./wheels/extra.whl"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
	}{
		"unknown mode": {content: "mode: sidecar\n"},
		"not yaml":     {content: "{{"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfig() error = nil, want error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on missing file error = nil, want error")
	}
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Host:         "0.0.0.0",
		Port:         9000,
		Mode:         string(agentrun.ModeStandalone),
		EndpointPath: "/run",
		ResponseType: string(server.ResponseTypeJSON),
	}

	m := NewLocal(cfg.Options()...)
	if m.host != "0.0.0.0" || m.port != 9000 {
		t.Errorf("manager address = %s:%d, want 0.0.0.0:9000", m.host, m.port)
	}
	if m.mode != agentrun.ModeStandalone {
		t.Errorf("mode = %q, want %q", m.mode, agentrun.ModeStandalone)
	}
	if m.endpointPath != "/run" {
		t.Errorf("endpointPath = %q, want /run", m.endpointPath)
	}
	if m.responseType != server.ResponseTypeJSON {
		t.Errorf("responseType = %q, want %q", m.responseType, server.ResponseTypeJSON)
	}

	// Zero values keep the defaults.
	d := NewLocal((&Config{}).Options()...)
	if d.host != DefaultHost || d.port != DefaultPort {
		t.Errorf("default manager address = %s:%d, want %s:%d", d.host, d.port, DefaultHost, DefaultPort)
	}
	if d.deployTimeout != DefaultDeployTimeout {
		t.Errorf("deployTimeout = %s, want %s", d.deployTimeout, DefaultDeployTimeout)
	}
}
