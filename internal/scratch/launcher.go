package scratch

import (
	"context"
	"io"
	"os/exec"
)

// Launcher runs an external editor and blocks until it exits.
type Launcher interface {
	Launch(ctx context.Context, editor string, args []string) error
}

// ExecLauncher starts the editor as a child process attached to the given streams.
type ExecLauncher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launch runs editor with args.
func (l ExecLauncher) Launch(ctx context.Context, editor string, args []string) error {
	cmd := exec.CommandContext(ctx, editor, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	return cmd.Run()
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, editor string, args []string) error

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, editor string, args []string) error {
	return f(ctx, editor, args)
}
