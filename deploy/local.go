// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/client"
	"github.com/go-agentrun/agentrun/runner"
	"github.com/go-agentrun/agentrun/server"
)

// Defaults for LocalManager.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 8090
	DefaultDeployTimeout   = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultProbeInterval   = 100 * time.Millisecond
)

// LocalManager deploys a runner as a service on the local machine. It
// supports three modes: a daemon server inside the current process, a
// detached child process that outlives the caller, and a standalone
// server that blocks the calling goroutine.
//
// One manager owns at most one deployment at a time. Methods are safe
// for concurrent use.
type LocalManager struct {
	host            string
	port            int
	mode            agentrun.DeployMode
	endpointPath    string
	responseType    server.ResponseType
	serviceName     string
	deployTimeout   time.Duration
	shutdownTimeout time.Duration
	probeInterval   time.Duration
	healthCheck     bool
	environment     map[string]string
	command         []string
	pidDir          string
	logger          *slog.Logger
	serverOpts      []server.Option

	mu        sync.Mutex
	state     ServiceState
	record    *agentrun.DeploymentRecord
	srv       *http.Server
	serveDone chan error
	childPID  int
	pidFile   string
}

var _ Manager = (*LocalManager)(nil)

// NewLocal creates a local deployment manager.
func NewLocal(opts ...LocalOption) *LocalManager {
	m := &LocalManager{
		host:            DefaultHost,
		port:            DefaultPort,
		mode:            agentrun.ModeDaemon,
		endpointPath:    server.DefaultEndpointPath,
		responseType:    server.ResponseTypeSSE,
		serviceName:     agentrun.ServiceName,
		deployTimeout:   DefaultDeployTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		probeInterval:   DefaultProbeInterval,
		logger:          slog.Default(),
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Deploy starts the service and blocks until it is ready to accept
// traffic. In standalone mode it instead blocks until the service
// stops. A second Deploy while one is active returns
// ErrAlreadyRunning; after a failed Deploy the manager is idle again
// and may be retried.
func (m *LocalManager) Deploy(ctx context.Context, r *runner.Runner) (*agentrun.DeploymentRecord, error) {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	m.state = StateStarting
	m.mu.Unlock()

	var (
		record *agentrun.DeploymentRecord
		err    error
	)
	switch m.mode {
	case agentrun.ModeDaemon:
		record, err = m.deployDaemon(ctx, r)
	case agentrun.ModeDetached:
		record, err = m.deployDetached(ctx)
	case agentrun.ModeStandalone:
		return m.deployStandalone(ctx, r)
	default:
		err = fmt.Errorf("deploy: unknown mode %q", m.mode)
	}
	if err != nil {
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	m.state = StateRunning
	m.record = record
	m.mu.Unlock()

	m.logger.Info("service deployed",
		"deploy_id", record.DeployID,
		"mode", record.Mode,
		"url", record.URL,
	)
	return record, nil
}

func (m *LocalManager) deployDaemon(ctx context.Context, r *runner.Runner) (*agentrun.DeploymentRecord, error) {
	app := server.New(r, m.serverOptions()...)

	srv := &http.Server{
		Addr:    net.JoinHostPort(m.host, strconv.Itoa(m.port)),
		Handler: app,
	}
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.ListenAndServe()
	}()

	if err := m.waitReady(ctx, serveDone, ErrDeploymentTimeout); err != nil {
		// The server may have partially started; tear it down before
		// reporting the failure.
		shutCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
		_ = srv.Shutdown(shutCtx)
		cancel()
		return nil, err
	}

	m.mu.Lock()
	m.srv = srv
	m.serveDone = serveDone
	m.mu.Unlock()

	record := &agentrun.DeploymentRecord{
		DeployID: agentrun.NewDeployID(m.mode, m.host, m.port),
		Mode:     m.mode,
		Host:     m.host,
		Port:     m.port,
		PID:      os.Getpid(),
		URL:      m.baseURL(),
	}
	return record, nil
}

func (m *LocalManager) deployDetached(ctx context.Context) (*agentrun.DeploymentRecord, error) {
	if len(m.command) == 0 {
		return nil, errors.New("deploy: detached mode requires a command")
	}

	cmd := exec.Command(m.command[0], m.command[1:]...)
	cmd.Env = os.Environ()
	for k, v := range m.environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	// The child gets its own session so it survives the parent and does
	// not receive the parent's terminal signals.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("deploy: start detached process: %w", err)
	}
	pid := cmd.Process.Pid

	deployID := agentrun.NewProcessDeployID(pid)
	pidFile := pidFilePath(m.pidDir, deployID)
	if err := writePIDFile(pidFile, pid); err != nil {
		m.logger.Warn("pid file write failed", "error", err)
		pidFile = ""
	}

	// An early exit aborts the readiness wait instead of burning the
	// whole deploy timeout.
	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	if err := m.waitReady(ctx, exited, ErrProcessNotResponding); err != nil {
		if !errors.Is(err, ErrProcessNotResponding) {
			_ = cmd.Process.Signal(syscall.SIGKILL)
		}
		if pidFile != "" {
			_ = removePIDFile(pidFile)
		}
		return nil, err
	}

	m.mu.Lock()
	m.childPID = pid
	m.pidFile = pidFile
	m.mu.Unlock()

	record := &agentrun.DeploymentRecord{
		DeployID: deployID,
		Mode:     m.mode,
		Host:     m.host,
		Port:     m.port,
		PID:      pid,
		URL:      m.baseURL(),
	}
	return record, nil
}

// deployStandalone runs the server on the calling goroutine. The record
// is published before serving starts so that IsRunning and ServiceURL
// observe the deployment from other goroutines; Deploy itself only
// returns once the server stops.
func (m *LocalManager) deployStandalone(ctx context.Context, r *runner.Runner) (*agentrun.DeploymentRecord, error) {
	app := server.New(r, m.serverOptions()...)

	srv := &http.Server{
		Addr:    net.JoinHostPort(m.host, strconv.Itoa(m.port)),
		Handler: app,
	}
	record := &agentrun.DeploymentRecord{
		DeployID: agentrun.NewDeployID(m.mode, m.host, m.port),
		Mode:     m.mode,
		Host:     m.host,
		Port:     m.port,
		PID:      os.Getpid(),
		URL:      m.baseURL(),
	}

	m.mu.Lock()
	m.state = StateRunning
	m.record = record
	m.srv = srv
	m.mu.Unlock()

	m.logger.Info("service starting",
		"deploy_id", record.DeployID,
		"mode", record.Mode,
		"url", record.URL,
	)

	err := srv.ListenAndServe()

	m.mu.Lock()
	m.state = StateIdle
	m.record = nil
	m.srv = nil
	m.mu.Unlock()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return nil, fmt.Errorf("deploy: serve: %w", err)
	}
	return record, nil
}

// waitReady polls the service port until it accepts connections, the
// deploy timeout elapses, the context is canceled, or abort fires
// (server exited, child process died); an abort wraps abortErr. A
// successful probe is re-checked against abort: a foreign listener on
// the port makes the probe pass while our server failed to bind.
func (m *LocalManager) waitReady(ctx context.Context, abort <-chan error, abortErr error) error {
	deadline := time.NewTimer(m.deployTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-abort:
			return fmt.Errorf("%w: service exited during startup: %v", abortErr, err)
		case <-deadline.C:
			return fmt.Errorf("%w: service did not become ready within %s", ErrDeploymentTimeout, m.deployTimeout)
		case <-ticker.C:
			if !probeTCP(m.host, m.port) {
				continue
			}
			select {
			case err := <-abort:
				return fmt.Errorf("%w: service exited during startup: %v", abortErr, err)
			default:
			}
			if m.healthCheck {
				if err := m.probeHealth(ctx); err != nil {
					m.logger.Debug("health probe failed", "error", err)
					continue
				}
			}
			return nil
		}
	}
}

// probeHealth asks the /health route once the port is open. It upgrades
// readiness from "port accepts connections" to "HTTP surface answers".
func (m *LocalManager) probeHealth(ctx context.Context) error {
	c, err := client.New(m.baseURL())
	if err != nil {
		return err
	}
	return c.Health(ctx)
}

// Stop shuts the active deployment down and returns the manager to
// idle. Stopping while idle is a no-op. Shutdown overruns are logged,
// not returned; the state is reset regardless.
func (m *LocalManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return nil
	}
	m.state = StateStopping
	srv := m.srv
	serveDone := m.serveDone
	childPID := m.childPID
	pidFile := m.pidFile
	record := m.record
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.state = StateIdle
		m.record = nil
		m.srv = nil
		m.serveDone = nil
		m.childPID = 0
		m.pidFile = ""
		m.mu.Unlock()
	}()

	if srv != nil {
		shutCtx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			m.logger.Warn("shutdown overran", "error", errors.Join(ErrShutdownTimeout, err))
		}
		if serveDone != nil {
			select {
			case <-serveDone:
			case <-time.After(m.shutdownTimeout):
				m.logger.Warn("serve goroutine did not exit", "error", ErrShutdownTimeout)
			}
		}
	}

	if childPID != 0 {
		if err := m.stopProcess(childPID); err != nil {
			m.logger.Warn("detached process did not exit", "pid", childPID, "error", err)
		}
		if pidFile != "" {
			if err := removePIDFile(pidFile); err != nil {
				m.logger.Warn("pid file cleanup failed", "error", err)
			}
		}
	}

	if record != nil {
		m.logger.Info("service stopped", "deploy_id", record.DeployID)
	}
	return nil
}

// stopProcess terminates a detached child: SIGTERM, a bounded wait for
// it to exit, then SIGKILL.
func (m *LocalManager) stopProcess(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}

	deadline := time.After(m.shutdownTimeout)
	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-deadline:
			_ = proc.Signal(syscall.SIGKILL)
			return ErrShutdownTimeout
		case <-ticker.C:
			if err := proc.Signal(syscall.Signal(0)); err != nil {
				return nil
			}
		}
	}
}

// IsRunning reports whether a deployment is active.
func (m *LocalManager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateRunning
}

// State returns the current lifecycle state.
func (m *LocalManager) State() ServiceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ServiceURL returns the base URL of the running service, or "" when
// not running.
func (m *LocalManager) ServiceURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning || m.record == nil {
		return ""
	}
	return m.record.URL
}

// DeployID returns the identifier of the active deployment, or "" when
// not running.
func (m *LocalManager) DeployID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return ""
	}
	return m.record.DeployID
}

func (m *LocalManager) baseURL() string {
	return "http://" + net.JoinHostPort(m.host, strconv.Itoa(m.port))
}

func (m *LocalManager) serverOptions() []server.Option {
	opts := []server.Option{
		server.WithEndpointPath(m.endpointPath),
		server.WithResponseType(m.responseType),
		server.WithMode(m.mode),
		server.WithServiceName(m.serviceName),
		server.WithLogger(m.logger),
	}
	return append(opts, m.serverOpts...)
}
