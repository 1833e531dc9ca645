// Package launcher owns everything that happens after a session descriptor
// has been fetched: persisting it to disk, finding the program the OS
// associates with it, and starting that program. The flow itself never
// touches the filesystem or spawns processes.
package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sflaunch/sflaunch/pkg/logger"
)

// DescriptorExt is the file extension the native client is registered for.
const DescriptorExt = ".ica"

// Runner abstracts process launch so tests can intercept it.
type Runner interface {
	// Start launches the program detached; it does not wait for exit.
	Start(name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// The native client outlives us; reap in the background so a quick
	// exit before ours does not leave a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Launcher writes descriptors and starts the native client for them.
type Launcher struct {
	runner Runner
	log    logger.Logger
}

// New creates a Launcher. A nil runner means real process launch; a nil
// logger means silence.
func New(runner Runner, log logger.Logger) *Launcher {
	if runner == nil {
		runner = execRunner{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Launcher{runner: runner, log: log}
}

// WriteDescriptor persists raw descriptor content to a file. When path is
// empty a temporary file with the descriptor extension is generated. The
// content is written verbatim; it is opaque to us.
func (l *Launcher) WriteDescriptor(path string, content []byte) (string, error) {
	if path == "" {
		f, err := os.CreateTemp("", "sflaunch-*"+DescriptorExt)
		if err != nil {
			return "", fmt.Errorf("create descriptor file: %w", err)
		}
		path = f.Name()
		f.Close()
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("write descriptor: %w", err)
	}
	l.log.Info("launcher: descriptor written to %s", path)
	return path, nil
}

// Launch starts the OS handler for the descriptor file at path.
func (l *Launcher) Launch(path string) error {
	name, args := handlerCommand(path)
	l.log.Info("launcher: starting %s %v", name, args)
	if err := l.runner.Start(name, args...); err != nil {
		return fmt.Errorf("launch native client: %w", err)
	}
	return nil
}
