package root

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	return filepath.Join(dir, "missing.env")
}

func run(t *testing.T, envFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", envFile))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, envFile string, want string, args ...string) string {
	t.Helper()
	out, err := run(t, envFile, args...)
	if err != nil {
		t.Fatalf("%v: error = %v\n%s", args, err, out)
	}
	if !strings.Contains(out, want) {
		t.Fatalf("%v: output missing %q:\n%s", args, want, out)
	}
	return out
}

func TestCLI_StudyFlow(t *testing.T) {
	env := setupEnv(t)

	mustRun(t, env, "Subject saved successfully.", "subject", "add", "Math", "--goal", "10")
	mustRun(t, env, "Math", "subject", "list")
	mustRun(t, env, "Session saved successfully.", "session", "add", "--subject", "1", "--duration", "1h30m")
	mustRun(t, env, "Task saved successfully.", "task", "add", "Read chapter", "--subject", "1", "--priority", "high")

	out := mustRun(t, env, "Math", "dashboard")
	if !strings.Contains(out, "Read chapter") {
		t.Errorf("dashboard should list the upcoming task:\n%s", out)
	}
	if !strings.Contains(out, "1.50 hr") {
		t.Errorf("dashboard should show 1.50 studied hours:\n%s", out)
	}

	mustRun(t, env, "Saved in completed tasks.", "task", "done", "1")
	mustRun(t, env, "Math", "subject", "show", "1")
	mustRun(t, env, "Subject updated successfully.", "subject", "update", "1", "--name", "Maths")
	mustRun(t, env, "Maths", "session", "list")
	mustRun(t, env, "Subject deleted successfully.", "subject", "delete", "1")

	mustRun(t, env, "No study sessions recorded.", "session", "list")
	mustRun(t, env, "No tasks.", "task", "list")
}

func TestCLI_ValidationIsReported(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, env, "subject", "add", "X", "--goal", "10")
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	if !strings.Contains(out, "Subject name is too short.") {
		t.Errorf("output = %q", out)
	}

	mustRun(t, env, "Subject saved successfully.", "subject", "add", "Physics", "--goal", "5")
	out, err = run(t, env, "session", "add", "--subject", "1", "--duration", "20s")
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	if !strings.Contains(out, "Single session can not be less than 36 seconds") {
		t.Errorf("output = %q", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad id", []string{"subject", "show", "abc"}},
		{"missing subject", []string{"subject", "show", "42"}},
		{"bad colour", []string{"subject", "add", "Math", "--goal", "3", "--color", "9"}},
		{"bad priority", []string{"task", "add", "Essay", "--subject", "1", "--priority", "urgent"}},
		{"missing task", []string{"task", "done", "7"}},
		{"feed disabled", []string{"feed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, env, tt.args...); err == nil {
				t.Fatalf("%v should fail", tt.args)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, setupEnv(t), "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "studysmart v"+Version {
		t.Errorf("version output = %q", out)
	}
}
