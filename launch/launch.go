// Package launch starts applications as detached processes.
//
// Launching is fire-and-forget: the launcher starts the platform opener and
// returns immediately. The child is reaped in the background so no zombie is
// left behind, but its exit status is only logged.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/shlex"
)

// Error values for launch operations.
var (
	ErrInvalidPath    = errors.New("invalid launch path")
	ErrInvalidCommand = errors.New("invalid launch command")
)

// Launcher starts the application at path.
type Launcher interface {
	Launch(ctx context.Context, path string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, path string) error

// Launch implements Launcher.
func (f LauncherFunc) Launch(ctx context.Context, path string) error {
	return f(ctx, path)
}

// DefaultCommand returns the platform opener: "open" on macOS, "xdg-open"
// elsewhere.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// CommandLauncher runs Command with the app path appended as the last argument.
// Command is split with shell quoting rules, so "open -a 'Some App'" works.
type CommandLauncher struct {
	Command string
	Logger  *slog.Logger
}

// NewCommandLauncher creates a launcher for command. An empty command selects
// DefaultCommand.
func NewCommandLauncher(command string, logger *slog.Logger) *CommandLauncher {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandLauncher{Command: command, Logger: logger}
}

// Launch implements Launcher. It returns once the process has started.
func (l *CommandLauncher) Launch(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	argv, err := l.argv(path)
	if err != nil {
		return err
	}

	// Not bound to ctx: the launched app must outlive the request.
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}

	logger := l.logger()
	logger.Info("launched", "path", path, "command", argv[0], "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("launcher exited with error", "path", path, "error", err)
		}
	}()
	return nil
}

func (l *CommandLauncher) argv(path string) ([]string, error) {
	command := l.Command
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand()
	}
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if len(args) == 0 {
		return nil, ErrInvalidCommand
	}
	return append(args, path), nil
}

func (l *CommandLauncher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
