package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/log"
)

// Local runs commands on this machine through the system shell.
type Local struct{}

// NewLocal creates a local executor.
func NewLocal() *Local {
	return &Local{}
}

// Target describes the execution target for logs and summaries.
func (l *Local) Target() string {
	return "local"
}

// shellCommand builds the platform shell invocation for a command string.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// Run executes the command with output streamed to the terminal.
func (l *Local) Run(ctx context.Context, command string) (int, error) {
	log.Debug("running local command", "command", Redact(command))

	cmd := shellCommand(ctx, command)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return waitExitCode(cmd.Run())
}

// RunInteractive is identical to Run locally; the terminal is already
// attached.
func (l *Local) RunInteractive(ctx context.Context, command string) (int, error) {
	return l.Run(ctx, command)
}

// RunCapture executes the command with stdout and stderr buffered.
func (l *Local) RunCapture(ctx context.Context, command string) (int, string, string, error) {
	log.Debug("running local command", "command", Redact(command), "capture", true)

	var stdout, stderr bytes.Buffer
	cmd := shellCommand(ctx, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := waitExitCode(cmd.Run())
	return code, stdout.String(), stderr.String(), err
}

// Upload places the file at the destination path atomically: the content is
// written to a temp file in the destination directory first, then renamed
// over the target so readers never observe a half-written file.
func (l *Local) Upload(ctx context.Context, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot read %s", localPath), err)
	}
	defer src.Close()

	dir := filepath.Dir(remotePath)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot create temp file in %s", dir), err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot write %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot close %s", tmpName), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot chmod %s", tmpName), err)
	}

	if err := os.Rename(tmpName, remotePath); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeExecUpload, fmt.Sprintf("cannot place %s", remotePath), err)
	}

	log.Debug("placed file", "path", remotePath)
	return nil
}

// TestConnection verifies the system shell is usable.
func (l *Local) TestConnection(ctx context.Context) error {
	code, stdout, _, err := l.RunCapture(ctx, connectionProbe)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExecUnavailable, "local shell unavailable", err)
	}
	if code != 0 || !strings.Contains(stdout, "ok") {
		return errors.New(errors.ErrCodeExecUnavailable,
			fmt.Sprintf("local shell probe exited with status %d", code))
	}
	return nil
}

// waitExitCode maps the result of Cmd.Run onto the (exitCode, launchError)
// contract: a non-zero exit status is data, not an error.
func waitExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, errors.Wrap(errors.ErrCodeExecUnavailable, "cannot launch command", err)
}
