// Package executor abstracts where deployment commands run. The pipeline
// drives one Executor for the whole run; the local variant spawns commands
// on this machine, the SSH variant wraps the identical command strings in
// non-interactive ssh invocations against the deployment target.
package executor

import (
	"context"
)

// Executor runs shell commands and places files on a deployment target.
type Executor interface {
	// Run executes the command with output streamed to the terminal and
	// returns its exit status. A non-zero status is not an error; the
	// returned error is reserved for launch failures (missing binary,
	// broken connection setup).
	Run(ctx context.Context, command string) (int, error)

	// RunCapture executes the command with stdout and stderr buffered.
	RunCapture(ctx context.Context, command string) (int, string, string, error)

	// Upload places the local file at the target path. The local variant
	// writes through a temp file in the destination directory and renames;
	// the SSH variant secure-copies.
	Upload(ctx context.Context, localPath, remotePath string) error

	// TestConnection verifies the target can execute commands at all,
	// by running a trivial echo and checking for its token.
	TestConnection(ctx context.Context) error

	// Target describes the execution target for logs and summaries.
	Target() string
}

// InteractiveRunner is implemented by executors that can attach the
// operator's terminal to a command. The SSH variant allocates a TTY.
type InteractiveRunner interface {
	RunInteractive(ctx context.Context, command string) (int, error)
}

const connectionProbe = "echo ok"
