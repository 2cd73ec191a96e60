package rust

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// Runner executes an external command in dir and returns its standard
// output. Tests substitute a fake; production code uses [ExecRunner].
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec. On failure the returned error
// carries the last line cargo wrote to stderr.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// CargoBinary returns the cargo executable to run: the configured value,
// else $CARGO (set by cargo when it runs a subcommand), else "cargo".
func CargoBinary(configured string) string {
	if configured != "" && configured != deps.DefaultCargo {
		return configured
	}
	if env := os.Getenv("CARGO"); env != "" {
		return env
	}
	return deps.DefaultCargo
}

// invoke runs one cargo subcommand bounded by opts.Timeout. Global flags
// from opts go before the subcommand.
func invoke(ctx context.Context, run Runner, opts deps.Options, dir string, args ...string) ([]byte, error) {
	tctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	argv := append(opts.CargoFlags(), args...)
	out, err := run(tctx, dir, CargoBinary(opts.Cargo), argv...)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if stderrors.Is(tctx.Err(), context.DeadlineExceeded) {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err,
			"cargo %s did not finish within %s", args[0], opts.Timeout)
	}
	return nil, errors.Wrap(errors.ErrCodeResolution, err, "cargo %s failed", args[0])
}

// ensureLockfile generates Cargo.lock for the workspace when it is missing.
// It reports whether a new lock file was written.
func ensureLockfile(ctx context.Context, run Runner, ws *cargo.Workspace, opts deps.Options) (bool, error) {
	if ws.HasLockfile() {
		return false, nil
	}
	opts.Logger("generating %s", ws.LockfilePath())
	_, err := invoke(ctx, run, opts, ws.Root(), "generate-lockfile", "--manifest-path", ws.RootManifestPath)
	if err != nil {
		if errors.Is(err, errors.ErrCodeTimeout) || ctx.Err() != nil {
			return false, err
		}
		return false, errors.Wrap(errors.ErrCodeResolution, err, "cannot resolve dependencies: failed to generate %s", cargo.LockfileName)
	}
	return true, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
