// Package supervisor launches the estimator processes and guarantees a
// termination attempt on every one of them when the coordinator exits.
package supervisor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/quadframe/statecoord/internal/logging"
	"github.com/quadframe/statecoord/internal/registry"
)

// Command pairs an estimator with the launch command composed for it.
type Command struct {
	Estimator registry.Estimator
	Line      string
}

// LaunchError reports a single estimator process that failed to start.
type LaunchError struct {
	Estimator registry.Estimator
	Command   string
	Err       error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s (%q): %v", e.Estimator, e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ErrShutdown is returned by Launch once ShutdownAll has run; a process
// started after the teardown pass would never receive a termination attempt.
var ErrShutdown = errors.New("supervisor is shut down")

// Process is one supervised estimator process.
type Process struct {
	Estimator registry.Estimator
	Command   string

	cmd  *exec.Cmd
	done chan struct{} // closed once Wait returns
	err  error         // exit error, valid after done is closed
}

// PID returns the OS process id.
func (p *Process) PID() int { return p.cmd.Process.Pid }

// Config holds supervisor settings.
type Config struct {
	// Grace is how long ShutdownAll waits after a termination signal before
	// escalating to a kill.
	Grace time.Duration
	// ExtraEnv is appended to the inherited environment of every launched
	// process, "KEY=value" form.
	ExtraEnv []string
}

// Supervisor tracks launched estimator processes in launch order.
type Supervisor struct {
	cfg Config
	log *logging.Logger

	mu       sync.Mutex
	procs    []*Process
	shutdown bool
}

// New creates a supervisor. A zero Grace defaults to 3s.
func New(cfg Config, log *logging.Logger) *Supervisor {
	if cfg.Grace <= 0 {
		cfg.Grace = 3 * time.Second
	}
	return &Supervisor{cfg: cfg, log: log}
}

// Launch starts every command as an independent OS process, non-blocking.
// Startup is best-effort: a failed launch is recorded as a *LaunchError and
// the remaining commands are still attempted. The returned error is the join
// of all per-command failures; the returned slice holds every process that
// did start and is now tracked.
//
// Commands are split into argv directly; no shell is involved. Launch fails
// with ErrShutdown once ShutdownAll has run.
func (s *Supervisor) Launch(cmds []Command) ([]*Process, error) {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil, ErrShutdown
	}
	s.mu.Unlock()

	var started []*Process
	var errs []error

	for _, c := range cmds {
		proc, err := s.start(c)
		if err != nil {
			s.log.Error("estimator launch failed",
				zap.String("estimator", string(c.Estimator)),
				zap.String("command", c.Line),
				zap.Error(err),
			)
			errs = append(errs, &LaunchError{Estimator: c.Estimator, Command: c.Line, Err: err})
			continue
		}
		s.log.Info("estimator started",
			zap.String("estimator", string(c.Estimator)),
			zap.String("command", c.Line),
			zap.Int("pid", proc.PID()),
		)
		started = append(started, proc)
	}

	s.mu.Lock()
	if s.shutdown {
		// Teardown ran while the commands were starting; these processes
		// would otherwise escape it.
		s.mu.Unlock()
		for _, p := range started {
			s.terminate(p)
		}
		return nil, ErrShutdown
	}
	s.procs = append(s.procs, started...)
	s.mu.Unlock()

	return started, errors.Join(errs...)
}

func (s *Supervisor) start(c Command) (*Process, error) {
	argv := strings.Fields(c.Line)
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), s.cfg.ExtraEnv...)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	proc := &Process{
		Estimator: c.Estimator,
		Command:   c.Line,
		cmd:       cmd,
		done:      make(chan struct{}),
	}

	// Reap the child as soon as it exits, whatever the reason.
	go func() {
		proc.err = cmd.Wait()
		close(proc.done)
	}()

	return proc, nil
}

// Processes returns the tracked processes in launch order.
func (s *Supervisor) Processes() []*Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Process(nil), s.procs...)
}

// ShutdownAll attempts to terminate every tracked process in launch order:
// SIGTERM, a bounded wait, then SIGKILL. Per-process failures are logged and
// never stop the remaining attempts. Safe to call more than once; only the
// first call acts.
func (s *Supervisor) ShutdownAll() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return
	}
	s.shutdown = true
	procs := append([]*Process(nil), s.procs...)
	s.mu.Unlock()

	for _, p := range procs {
		s.terminate(p)
	}
	if len(procs) > 0 {
		s.log.Info("all estimator processes terminated", zap.Int("count", len(procs)))
	}
}

func (s *Supervisor) terminate(p *Process) {
	select {
	case <-p.done:
		s.log.Info("estimator already exited",
			zap.String("estimator", string(p.Estimator)))
		return
	default:
	}

	s.log.Info("terminating estimator",
		zap.String("estimator", string(p.Estimator)),
		zap.Int("pid", p.PID()),
	)
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		s.log.Warn("termination signal failed",
			zap.String("estimator", string(p.Estimator)),
			zap.Error(err),
		)
	}

	select {
	case <-p.done:
	case <-time.After(s.cfg.Grace):
		s.log.Warn("estimator did not exit in time, killing",
			zap.String("estimator", string(p.Estimator)),
			zap.Int("pid", p.PID()),
		)
		if err := p.cmd.Process.Kill(); err != nil {
			s.log.Warn("kill failed",
				zap.String("estimator", string(p.Estimator)),
				zap.Error(err),
			)
			return
		}
		<-p.done
	}
}
