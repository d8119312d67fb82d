package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("THERMODEC_CONFIG")
	defer os.Setenv("THERMODEC_CONFIG", originalEnv)

	os.Setenv("THERMODEC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
source:
  mode: file
  path: capture.jsonl

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("THERMODEC_CONFIG")
	defer os.Setenv("THERMODEC_CONFIG", originalEnv)
	os.Setenv("THERMODEC_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestRun_FileDecodeOffline runs a full file decode with every optional
// backend disabled. The decoder must archive the session and exit cleanly.
func TestRun_FileDecodeOffline(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	capturePath := filepath.Join(tmpDir, "capture.jsonl")
	dbPath := filepath.Join(tmpDir, "test.db")

	capture := `{"type":"START","ss":10,"es":12}
{"type":"ADDRESS WRITE","data":72,"ss":20,"es":100}
{"type":"DATA WRITE","data":0,"ss":110,"es":190}
{"type":"START REPEAT","ss":200,"es":202}
{"type":"ADDRESS READ","data":72,"ss":210,"es":290}
{"type":"DATA READ","data":25,"ss":300,"es":380}
{"type":"DATA READ","data":0,"ss":390,"es":470}
{"type":"STOP","ss":480,"es":482}
`
	if err := os.WriteFile(capturePath, []byte(capture), 0600); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}

	configContent := `
source:
  mode: file
  path: "` + capturePath + `"

decoder:
  radix: hex
  unit: celsius

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

api:
  enabled: false

logging:
  level: error
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("THERMODEC_CONFIG")
	defer os.Setenv("THERMODEC_CONFIG", originalEnv)
	os.Setenv("THERMODEC_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("archive database was not created: %v", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("THERMODEC_CONFIG")
	defer os.Setenv("THERMODEC_CONFIG", originalEnv)

	os.Unsetenv("THERMODEC_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("THERMODEC_CONFIG")
	defer os.Setenv("THERMODEC_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("THERMODEC_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
