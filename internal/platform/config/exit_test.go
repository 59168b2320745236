package config_test

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/sadari/internal/platform/config"
)

const exitHelperEnv = "SADARI_EXITF_HELPER"

// Exitf terminates the process, so the assertion runs against a re-executed
// copy of the test binary.
func TestExitfPrintsPrefixedMessageAndExits(t *testing.T) {
	if os.Getenv(exitHelperEnv) == "1" {
		log.SetPrefix("[LADDER] ")
		config.Exitf("serve ladder: %v", "listener closed")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfPrintsPrefixedMessageAndExits$")
	cmd.Env = append(os.Environ(), exitHelperEnv+"=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %T: %v", err, err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if want := "[LADDER] serve ladder: listener closed"; !strings.Contains(string(out), want) {
		t.Fatalf("output = %q, want it to contain %q", out, want)
	}
}
