package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "CRM_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "deals")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("CRM_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("CRM_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	n, err := LoadEnv([]string{".env.missing"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no env files, got %d", n)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Configuration {
		return &Configuration{
			Database: DatabaseOptions{PoolMaxConns: 4},
			Log:      LogOptions{Level: " INFO "},
			Outbox:   OutboxOptions{RelayBatchSize: 10, RelayMaxAttempts: 3},
			Invites:  InviteOptions{DefaultMaxUses: 1, MaxUsesLimit: 10},
		}
	}

	c := valid()
	if err := c.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Log.Level != "info" {
		t.Fatalf("expected normalized level, got %q", c.Log.Level)
	}

	c = valid()
	c.Log.Level = "verbose"
	if err := c.validate(); err == nil {
		t.Fatalf("expected LOG_LEVEL error")
	}

	c = valid()
	c.Invites.DefaultMaxUses = 11
	if err := c.validate(); err == nil {
		t.Fatalf("expected invite default error")
	}

	c = valid()
	c.Outbox.RelayBatchSize = 0
	if err := c.validate(); err == nil {
		t.Fatalf("expected outbox batch size error")
	}
}
