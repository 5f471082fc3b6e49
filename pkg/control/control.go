// Package control changes process state: terminate, suspend, resume, and
// scheduling priority. Every operation reports success as a bool; failures are
// logged, never returned.
package control

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/srodi/proclens/pkg/types"
)

var (
	// ErrUnsupported is returned by primitives the running OS does not offer.
	ErrUnsupported = errors.New("operation not supported on this platform")
	// ErrInvalidPID guards against pids that address process groups or every process.
	ErrInvalidPID = errors.New("invalid pid")
	// ErrNoPrivilege means there is no additional privilege left to acquire.
	ErrNoPrivilege = errors.New("no additional privilege available")
)

// Primitives are the raw, single-attempt process operations.
type Primitives interface {
	Terminate(pid int32) error
	SetPriority(pid int32, class types.PriorityClass) error
	// Probe checks that the caller could act on pid without changing it.
	Probe(pid int32) error
}

// Suspender pauses and continues a process. It is separate from Primitives
// because the underlying mechanism differs per OS and may be unavailable.
type Suspender interface {
	Suspend(pid int32) error
	Resume(pid int32) error
}

// Escalator acquires extra privilege for the calling thread.
type Escalator interface {
	Escalate() error
}

// Op identifies a command for logging and metrics.
type Op string

const (
	OpTerminate   Op = "terminate"
	OpSetPriority Op = "set_priority"
	OpSuspend     Op = "suspend"
	OpResume      Op = "resume"
)

// Outcome is the result of one command.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeEscalated Outcome = "escalated"
	OutcomeFailed    Outcome = "failed"
)

// Options wires a Controller. Zero fields select the platform defaults.
type Options struct {
	Primitives Primitives
	Suspender  Suspender
	Escalator  Escalator
	Logger     *log.Logger
	// OnResult is called once per command with its final outcome.
	OnResult func(op Op, outcome Outcome)
}

// Controller runs commands with a single privilege-escalation retry.
type Controller struct {
	prims     Primitives
	suspender Suspender
	escalator Escalator
	logger    *log.Logger
	onResult  func(Op, Outcome)
}

// New builds a controller from opts.
func New(opts Options) *Controller {
	c := &Controller{
		prims:     opts.Primitives,
		suspender: opts.Suspender,
		escalator: opts.Escalator,
		logger:    opts.Logger,
		onResult:  opts.OnResult,
	}
	if c.prims == nil {
		c.prims = defaultPrimitives()
	}
	if c.suspender == nil {
		c.suspender = defaultSuspender()
	}
	if c.escalator == nil {
		c.escalator = defaultEscalator()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Terminate kills pid.
func (c *Controller) Terminate(pid int32) bool {
	return c.run(OpTerminate, pid, c.prims.Terminate)
}

// SetPriority moves pid into class.
func (c *Controller) SetPriority(pid int32, class types.PriorityClass) bool {
	return c.run(OpSetPriority, pid, func(pid int32) error {
		return c.prims.SetPriority(pid, class)
	})
}

// Suspend stops pid from being scheduled.
func (c *Controller) Suspend(pid int32) bool {
	return c.run(OpSuspend, pid, c.suspender.Suspend)
}

// Resume lets a suspended pid run again.
func (c *Controller) Resume(pid int32) bool {
	return c.run(OpResume, pid, c.suspender.Resume)
}

// CanModify reports whether pid can currently be acted on. It never escalates.
func (c *Controller) CanModify(pid int32) bool {
	if pid <= 0 {
		return false
	}
	return c.prims.Probe(pid) == nil
}

// run attempts fn, and on failure escalates once and retries once. Both attempts
// share one OS thread because privileges such as linux capabilities are
// per-thread.
func (c *Controller) run(op Op, pid int32, fn func(int32) error) bool {
	outcome, err := c.attempt(pid, fn)
	if err != nil {
		c.logger.Printf("%s pid %d failed: %v", op, pid, err)
	}
	if c.onResult != nil {
		c.onResult(op, outcome)
	}
	return outcome != OutcomeFailed
}

func (c *Controller) attempt(pid int32, fn func(int32) error) (Outcome, error) {
	if pid <= 0 {
		return OutcomeFailed, fmt.Errorf("%w %d", ErrInvalidPID, pid)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	first := fn(pid)
	if first == nil {
		return OutcomeOK, nil
	}
	if err := c.escalator.Escalate(); err != nil {
		return OutcomeFailed, errors.Join(first, fmt.Errorf("escalating: %w", err))
	}
	if err := fn(pid); err != nil {
		return OutcomeFailed, fmt.Errorf("after escalation: %w", err)
	}
	return OutcomeEscalated, nil
}
