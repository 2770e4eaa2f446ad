// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long:  "Check binary health, relay reachability, configuration, storage, and disk space.",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	baseURL := viper.GetString("base_url")

	checks := []struct {
		name string
		fn   func() string
	}{
		{"Binary", checkBinary},
		{"Platform", checkPlatform},
		{"Relay", func() string { return checkRelay(baseURL) }},
		{"Config", checkConfig},
		{"Storage", checkStorage},
		{"Disk Space", checkDiskSpace},
	}

	for _, c := range checks {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", c.name+":", c.fn()); err != nil {
			return err
		}
	}

	return nil
}

func checkBinary() string {
	return fmt.Sprintf("neobot %s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

func checkPlatform() string {
	return fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkRelay(baseURL string) string {
	probe := newRelayProbe(baseURL)
	var body struct {
		Status string `json:"status"`
	}
	if err := probe.getJSON("/health", &body); err != nil {
		if neoerr.HasCode(err, neoerr.CodeCLIRelayNotRunning) {
			return fmt.Sprintf("not running at %s (run 'neobot serve')", baseURL)
		}
		return fmt.Sprintf("error: %s", err)
	}
	return fmt.Sprintf("%s at %s", body.Status, baseURL)
}

func checkConfig() string {
	cfgFile := viper.ConfigFileUsed()
	if cfgFile != "" {
		return fmt.Sprintf("loaded from %s", cfgFile)
	}
	return "using defaults (no config file found)"
}

func checkStorage() string {
	backend := viper.GetString("server.storage.backend")
	if backend != "sqlite" {
		return backend + " (sessions are not persisted)"
	}

	path := viper.GetString("server.storage.path")
	if path == "" {
		return "sqlite without server.storage.path (serve will refuse to start)"
	}
	if info, err := os.Stat(path); err == nil {
		return fmt.Sprintf("sqlite at %s (%s)", path, formatBytes(uint64(info.Size())))
	}
	return fmt.Sprintf("sqlite at %s (will be created)", path)
}

func checkDiskSpace() string {
	path := viper.GetString("server.storage.path")
	if path == "" {
		path, _ = os.UserHomeDir()
	} else {
		path = filepath.Dir(path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path, _ = os.UserHomeDir()
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fmt.Sprintf("unable to check: %s", err)
	}

	availBytes := stat.Bavail * uint64(stat.Bsize)
	return formatBytes(availBytes) + " available"
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(b uint64) string {
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
		kb = 1024
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/gb)
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/mb)
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/kb)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
