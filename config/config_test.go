package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Addr != "0.0.0.0:8080" {
		t.Errorf("Expected default addr 0.0.0.0:8080, got %q", cfg.Addr)
	}
	if cfg.Root != "." {
		t.Errorf("Expected default root ., got %q", cfg.Root)
	}
	if cfg.AdminAddr != "" {
		t.Errorf("Expected admin disabled by default, got %q", cfg.AdminAddr)
	}
}

func TestNewNoArgs(t *testing.T) {
	cfg, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected defaults with no args, got %+v", cfg)
	}
}

func TestNewFlags(t *testing.T) {
	cfg, err := New([]string{
		"-addr", "127.0.0.1:9000",
		"-root", "/srv/www",
		"-workers", "4",
		"-admin-addr", "127.0.0.1:9001",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("addr: got %q", cfg.Addr)
	}
	if cfg.Root != "/srv/www" {
		t.Errorf("root: got %q", cfg.Root)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.AdminAddr != "127.0.0.1:9001" {
		t.Errorf("admin-addr: got %q", cfg.AdminAddr)
	}
}

func TestNewBadFlag(t *testing.T) {
	if _, err := New([]string{"-no-such-flag"}); err == nil {
		t.Error("Expected an error for an unknown flag")
	}
}
