package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension scripts need a unix shell")
	}
	tempDir := t.TempDir()
	out := filepath.Join(tempDir, "out.txt")

	// fa-hello dumps its environment and arguments.
	script := "#!/bin/sh\n" +
		"echo \"" + EnvConfigFile + "=$" + EnvConfigFile + "\" > \"" + out + "\"\n" +
		"echo \"" + EnvVerbose + "=$" + EnvVerbose + "\" >> \"" + out + "\"\n" +
		"echo \"args=$*\" >> \"" + out + "\"\n" +
		"exit 3\n"
	if err := os.WriteFile(filepath.Join(tempDir, "fa-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", tempDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv(EnvConfigFile, "/tmp/custom.yaml")
	t.Setenv(EnvVerbose, "true")

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatal("RunExtension() did not find fa-hello")
	}
	if code != 3 {
		t.Errorf("RunExtension() exit code = %d, want 3", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{EnvConfigFile + "=/tmp/custom.yaml", EnvVerbose + "=true", "args=a b"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("extension output missing %q:\n%s", want, data)
		}
	}

	if found, _ := RunExtension("does-not-exist", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}
