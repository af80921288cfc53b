package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

const (
	EnvConfigFile = "FA_CONFIG"
	EnvStore      = "FA_STORE"
	EnvVerbose    = "FA_VERBOSE"
)

// RunExtension attempts to find and execute an external fa-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// Global flags are passed to the extension as FA_* environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "fa-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+ConfigPath(),
		EnvStore+"="+storeBackend(),
		EnvVerbose+"="+strconv.FormatBool(verbose()),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
