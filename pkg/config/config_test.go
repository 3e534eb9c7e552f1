package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathUsesEnvOnly(t *testing.T) {
	t.Setenv("ETHFREEZE_SOURCE_RPC_URL", "http://localhost:8545")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") err = %v", err)
	}
	if cfg.Source.RPCURL != "http://localhost:8545" {
		t.Fatalf("Source.RPCURL = %q, want env override applied", cfg.Source.RPCURL)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatal("Load should fail when an explicit --config path does not exist")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ethfreeze.yaml")
	contents := []byte("source:\n  rpc_url: http://example.com\noutput:\n  format: json\n")
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("WriteFile err = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err = %v", err)
	}
	if cfg.Source.RPCURL != "http://example.com" {
		t.Fatalf("Source.RPCURL = %q, want http://example.com", cfg.Source.RPCURL)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("Output.Format = %q, want json", cfg.Output.Format)
	}
}
