package main

import (
	"net"
	"strings"
	"time"
)

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// portOf returns the port of a host:port address, or the address itself.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return strings.TrimPrefix(addr, ":")
}
