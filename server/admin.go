// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// shutdownDelay gives the shutdown response time to reach the client
// before the process terminates itself.
const shutdownDelay = 1 * time.Second

// handleAdminShutdown schedules process termination after responding.
// Only registered in detached mode, where the process exists solely to
// host this service.
func (a *App) handleAdminShutdown(w http.ResponseWriter, r *http.Request) {
	go func() {
		time.Sleep(shutdownDelay)
		a.logger.Info("admin shutdown, terminating process", "pid", os.Getpid())
		p, err := os.FindProcess(os.Getpid())
		if err == nil {
			_ = p.Signal(syscall.SIGTERM)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Shutdown initiated",
	})
}

// handleAdminStatus reports OS-level process information.
func (a *App) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	pid := os.Getpid()
	status := map[string]any{
		"pid": pid,
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		a.logger.Warn("process status unavailable", "error", err)
		writeJSON(w, http.StatusOK, status)
		return
	}

	if states, err := proc.Status(); err == nil {
		status["status"] = strings.Join(states, ",")
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		status["memory_usage"] = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		status["cpu_percent"] = cpu
	}
	if created, err := proc.CreateTime(); err == nil {
		status["uptime"] = time.Since(time.UnixMilli(created)).Seconds()
	}

	writeJSON(w, http.StatusOK, status)
}
