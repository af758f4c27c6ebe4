package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// --- Test Setup ---

const lessonsFixture = `
school_year:
  id: 12
  name: "2023/2024"
  start: 2023-09-11T00:00:00Z
  end: 2024-07-26T00:00:00Z
classes:
  - id: 1
    name: "9b"
  - id: 2
    name: "9d"
  - id: 3
    name: "Lehrer"
lessons:
  "9b":
    - start: 2024-01-08T07:45:00Z
      end: 2024-01-08T08:30:00Z
      activity_type: "Unterricht"
      subjects: ["Math"]
    - start: 2024-01-09T07:45:00Z
      end: 2024-01-09T08:30:00Z
      activity_type: "Unterricht"
      code: "cancelled"
      subjects: ["Math"]
    - start: 2024-01-09T07:45:00Z
      end: 2024-01-09T08:30:00Z
      activity_type: "Veranstaltung"
      text: "Ski Trip"
    - start: 2024-01-10T07:45:00Z
      end: 2024-01-10T08:30:00Z
      activity_type: "Unterricht"
      code: "irregular"
      subjects: ["Sp"]
      student_group: "9b_m"
  "9d":
    - start: 2024-01-08T07:45:00Z
      end: 2024-01-08T08:30:00Z
      activity_type: "Unterricht"
      subjects: ["De"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func setupTests(t *testing.T) string {
	t.Helper()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	now = func() time.Time { return time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })
	return writeFile(t, "lessons.yml", lessonsFixture)
}

// executeCommand captures plain text output and the error of a command.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)

	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)

	// Reset flags to default values before each run
	configPath = filepath.Join(t.TempDir(), "config.toml")
	lessonsPath = ""
	verbose = false
	classNames = nil
	format = ""
	outputDir = ""
	parallel = 0

	err := rootCmd.Execute()
	return b.String(), err
}

// --- Test Functions ---

func TestReportCommand(t *testing.T) {
	lessons := setupTests(t)

	t.Run("prints text reports for all matching classes", func(t *testing.T) {
		output, err := executeCommand(t, "report", "--lessons", lessons, "--format", "text")
		if err != nil {
			t.Fatalf("command execution failed: %v", err)
		}

		if !strings.Contains(output, "Attendance statistics for class 9b") {
			t.Error("Report missing title for class 9b")
		}
		if !strings.Contains(output, "Attendance statistics for class 9d") {
			t.Error("Report missing title for class 9d")
		}
		if strings.Contains(output, "class Lehrer") {
			t.Error("Report contains a class not matching the class pattern")
		}
		if !strings.Contains(output, "Start of school year 2023/2024 to 2024-01-20") {
			t.Error("Report missing period")
		}
		if !strings.Contains(output, "Sp/9b_m") {
			t.Error("Report missing course with student group")
		}
		if !strings.Contains(output, "Ski Trip") {
			t.Error("Report missing alternative")
		}
		if strings.Index(output, "class 9b") > strings.Index(output, "class 9d") {
			t.Error("Reports not in class order")
		}
	})

	t.Run("restricts to the requested class", func(t *testing.T) {
		output, err := executeCommand(t, "report", "--lessons", lessons, "--format", "text", "--class", "9d")
		if err != nil {
			t.Fatalf("command execution failed: %v", err)
		}
		if strings.Contains(output, "class 9b") {
			t.Error("Report contains a class that was not requested")
		}
		if !strings.Contains(output, "class 9d") {
			t.Error("Report missing requested class 9d")
		}
	})

	t.Run("writes yaml files", func(t *testing.T) {
		dir := t.TempDir()
		output, err := executeCommand(t, "report", "--lessons", lessons, "--format", "yaml", "--output-dir", dir, "--class", "9b")
		if err != nil {
			t.Fatalf("command execution failed: %v", err)
		}

		path := filepath.Join(dir, "attendance_statistics_class_9b.yaml")
		if !strings.Contains(output, "Written "+path) {
			t.Errorf("Expected written message for %s, got:\n%s", path, output)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Report file not written: %v", err)
		}
		expected := []string{
			"class: 9b",
			"name: Math",
			"alternative: 1",
			"percent_unadjusted: 50",
			"percent_adjusted: 100",
			"name: Ski Trip",
			"hours: 1",
		}
		for _, e := range expected {
			if !strings.Contains(string(data), e) {
				t.Errorf("Report missing %q:\n%s", e, data)
			}
		}
	})

	t.Run("writes xlsx files", func(t *testing.T) {
		dir := t.TempDir()
		_, err := executeCommand(t, "report", "--lessons", lessons, "--format", "xlsx", "--output-dir", dir)
		if err != nil {
			t.Fatalf("command execution failed: %v", err)
		}
		for _, class := range []string{"9b", "9d"} {
			if _, err := os.Stat(filepath.Join(dir, "attendance_statistics_class_"+class+".xlsx")); err != nil {
				t.Errorf("Report for class %s not written: %v", class, err)
			}
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := executeCommand(t, "report", "--lessons", lessons, "--format", "pdf")
		if err == nil || !strings.Contains(err.Error(), "pdf") {
			t.Errorf("Expected unsupported format error, got %v", err)
		}
	})
}

func TestReportCommandUnknownStatus(t *testing.T) {
	setupTests(t)
	lessons := writeFile(t, "broken.yml", strings.Replace(lessonsFixture, `code: "irregular"`, `code: "unknown-code"`, 1))
	dir := t.TempDir()

	_, err := executeCommand(t, "report", "--lessons", lessons, "--format", "yaml", "--output-dir", dir)
	if err == nil {
		t.Fatal("Expected an error for an unknown status code")
	}
	if !strings.Contains(err.Error(), "unknown-code") {
		t.Errorf("Error does not name the offending code: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no report files, found %d", len(entries))
	}
}

func TestClassesCommand(t *testing.T) {
	lessons := setupTests(t)

	output, err := executeCommand(t, "classes", "--lessons", lessons)
	if err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if output != "9b\n9d\n" {
		t.Errorf("Expected output:\n%q\nGot:\n%q", "9b\n9d\n", output)
	}

	_, err = executeCommand(t, "classes", "--lessons", lessons, "--class", "7x")
	if err == nil {
		t.Error("Expected an error for an unknown class")
	}
}

func TestInitCommand(t *testing.T) {
	setupTests(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "init", "--config", path)
	if err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if !strings.Contains(output, "Wrote out an example configuration file") {
		t.Errorf("Unexpected output: %q", output)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Example configuration not written: %v", err)
	}

	if _, err := executeCommand(t, "init", "--config", path); err == nil {
		t.Error("Expected init to refuse overwriting an existing configuration")
	}
}

func TestMissingConfigWritesExample(t *testing.T) {
	setupTests(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	_, err := executeCommand(t, "report", "--config", path)
	if err == nil {
		t.Fatal("Expected an error for a missing configuration")
	}
	if !strings.Contains(err.Error(), "wrote an example") {
		t.Errorf("Unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Example configuration not written: %v", err)
	}
}

func TestOfflineConfigWithoutLessons(t *testing.T) {
	setupTests(t)
	path := writeFile(t, "config.toml", "format = \"text\"\n")

	_, err := executeCommand(t, "report", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "no server configured") {
		t.Errorf("Expected no server error, got %v", err)
	}
}
