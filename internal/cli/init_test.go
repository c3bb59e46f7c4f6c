package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	if _, err := SetupLogger("debug"); err != nil {
		t.Fatalf("SetupLogger(debug) error = %v", err)
	}
	if _, err := SetupLogger("chatty"); err == nil {
		t.Fatal("SetupLogger should reject unknown levels")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDYSMART_TEST_KEY=from-file\nSTUDYSMART_TEST_SET=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYSMART_TEST_KEY", "")
	os.Unsetenv("STUDYSMART_TEST_KEY")
	t.Setenv("STUDYSMART_TEST_SET", "from-env")

	LoadEnvFile(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("STUDYSMART_TEST_KEY"); got != "from-file" {
		t.Errorf("STUDYSMART_TEST_KEY = %q, want from-file", got)
	}
	if got := os.Getenv("STUDYSMART_TEST_SET"); got != "from-env" {
		t.Errorf("STUDYSMART_TEST_SET = %q, existing variables must win", got)
	}
}

func TestInitBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("AMQP_URL", "")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	logger, err := SetupLogger("error")
	if err != nil {
		t.Fatal(err)
	}

	res, err := InitBackend(context.Background(), logger, cfg)
	if err != nil {
		t.Fatalf("InitBackend() error = %v", err)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestLoadAndValidateConfig_Invalid(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}
