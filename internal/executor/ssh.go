package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/erpstack/erpstack/internal/errors"
	"github.com/erpstack/erpstack/internal/log"
)

// SSH runs commands on a remote host through the system ssh client.
// Every command is wrapped in a single non-interactive invocation so the
// exact strings the local executor would run execute remotely unchanged.
type SSH struct {
	Host    string
	User    string
	Port    string
	KeyPath string
}

// NewSSH creates an SSH executor for the given target.
func NewSSH(host, user, port, keyPath string) *SSH {
	return &SSH{
		Host:    host,
		User:    user,
		Port:    port,
		KeyPath: keyPath,
	}
}

// Target describes the execution target for logs and summaries.
func (s *SSH) Target() string {
	return fmt.Sprintf("%s@%s:%s", s.User, s.Host, s.Port)
}

func (s *SSH) destination() string {
	return fmt.Sprintf("%s@%s", s.User, s.Host)
}

// sshArgs builds the argument list for a remote command invocation.
// Unknown hosts are accepted on first contact and pinned afterwards.
func (s *SSH) sshArgs(command string) []string {
	args := []string{"-o", "StrictHostKeyChecking=accept-new", "-p", s.Port}
	if s.KeyPath != "" {
		args = append(args, "-i", s.KeyPath)
	}
	return append(args, s.destination(), command)
}

// Run executes the command on the remote host with output streamed.
func (s *SSH) Run(ctx context.Context, command string) (int, error) {
	log.Debug("running remote command", "target", s.Target(), "command", Redact(command))

	cmd := exec.CommandContext(ctx, "ssh", s.sshArgs(command)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return waitExitCode(cmd.Run())
}

// RunInteractive executes the command with a forced TTY allocation so
// screen-oriented programs inside containers work over the hop.
func (s *SSH) RunInteractive(ctx context.Context, command string) (int, error) {
	log.Debug("running remote interactive command", "target", s.Target(), "command", Redact(command))

	args := append([]string{"-t"}, s.sshArgs(command)...)
	cmd := exec.CommandContext(ctx, "ssh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return waitExitCode(cmd.Run())
}

// RunCapture executes the command on the remote host with output buffered.
func (s *SSH) RunCapture(ctx context.Context, command string) (int, string, string, error) {
	log.Debug("running remote command", "target", s.Target(), "command", Redact(command), "capture", true)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ssh", s.sshArgs(command)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := waitExitCode(cmd.Run())
	return code, stdout.String(), stderr.String(), err
}

// Upload secure-copies the local file to the remote path.
func (s *SSH) Upload(ctx context.Context, localPath, remotePath string) error {
	args := []string{"-o", "StrictHostKeyChecking=accept-new", "-P", s.Port}
	if s.KeyPath != "" {
		args = append(args, "-i", s.KeyPath)
	}
	args = append(args, localPath, fmt.Sprintf("%s:%s", s.destination(), remotePath))

	log.Debug("uploading file", "target", s.Target(), "path", remotePath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "scp", args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return errors.Wrap(errors.ErrCodeExecUpload,
			fmt.Sprintf("cannot copy %s to %s: %s", localPath, remotePath, msg), err)
	}
	return nil
}

// TestConnection verifies the ssh client exists and the host answers.
func (s *SSH) TestConnection(ctx context.Context) error {
	if _, err := exec.LookPath("ssh"); err != nil {
		return errors.Wrap(errors.ErrCodeExecUnavailable, "ssh client not found", err).
			WithSuggestion("Install an OpenSSH client")
	}

	code, stdout, stderr, err := s.RunCapture(ctx, connectionProbe)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExecUnavailable, "cannot launch ssh", err)
	}
	if code != 0 || !strings.Contains(stdout, "ok") {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = fmt.Sprintf("probe exited with status %d", code)
		}
		return errors.NewConnectionError(s.Host, fmt.Errorf("%s", detail))
	}
	return nil
}
