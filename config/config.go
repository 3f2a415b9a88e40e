// Package config holds the process configuration. Every option
// defaults to the value the server ships with; running the binary with
// no flags serves the working directory on 0.0.0.0:8080.
package config

import (
	"flag"
	"runtime"
)

// Config holds all application configuration.
type Config struct {
	Addr      string // data-plane listen address
	Root      string // directory served, targets resolve beneath it
	Workers   int    // reactor threads, 0 = half the hardware concurrency
	AdminAddr string // stats endpoint, empty = disabled
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:    "0.0.0.0:8080",
		Root:    ".",
		Workers: runtime.NumCPU() / 2,
	}
}

// New loads configuration from the given command line.
func New(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("fastbeast", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "directory to serve")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker threads (0 = NumCPU/2)")
	fs.StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "admin/stats listen address (empty = disabled)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
