package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/exitcode"
	"github.com/spf13/cobra"
)

// newTestRoot builds an isolated command tree so tests do not share
// flag state with the package-level rootCmd.
func newTestRoot() *cobra.Command {
	root := newRootCommand()
	root.AddCommand(versionCmd)
	root.AddCommand(newPropsCommand())
	return root
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config_error", fmt.Errorf("load rules: %w", rules.ErrConfig), exitcode.ConfigError},
		{"path_error", &fs.PathError{Op: "open", Path: "missing", Err: fs.ErrNotExist}, exitcode.FileSystemError},
		{"wrapped_path_error", fmt.Errorf("density pass: %w", &fs.PathError{Op: "read", Path: "x", Err: fs.ErrPermission}), exitcode.FileSystemError},
		{"generic_error", errors.New("boom"), exitcode.GeneralError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCodeFor(tc.err); got != tc.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	root := newTestRoot()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "hyperport ") {
		t.Errorf("unexpected version output: %q", buf.String())
	}
}

func TestPropsCmdRequiresFlags(t *testing.T) {
	root := newTestRoot()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"props"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected error when required flags are missing")
	}
	if !strings.Contains(err.Error(), "required flag") {
		t.Errorf("unexpected error: %v", err)
	}
}
