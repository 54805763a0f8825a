// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"net"
	"strconv"
	"time"
)

// probeConnectTimeout bounds one TCP connect attempt. The probe treats
// "accepting connections" as the readiness signal; it does not prove
// the HTTP surface is semantically healthy.
const probeConnectTimeout = 100 * time.Millisecond

// probeTCP reports whether something is accepting connections on the
// address.
func probeTCP(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), probeConnectTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
