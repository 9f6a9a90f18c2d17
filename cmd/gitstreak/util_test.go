package main

import "testing"

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23235":         "23235",
		"0.0.0.0:2222":   "2222",
		"[::1]:8080":     "8080",
		"localhost-only": "localhost-only",
	}
	for addr, want := range tests {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q): expected %q, got %q", addr, want, got)
		}
	}
}
