// Package pipeline runs named steps in a fixed order and stops at the
// first failure. Completed steps are never rolled back; the report says
// exactly how far the run got.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/logger"
)

// Step is one unit of work.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
	// Skip marks a step that is reported but not executed.
	Skip bool
}

// Observer is notified around every executed step.
type Observer interface {
	StepStarted(name string)
	StepFinished(name string, d time.Duration, err error)
}

// Report summarizes a run.
type Report struct {
	Completed []string
	Skipped   []string
	// Failed is empty on success.
	Failed string
	Err    error
}

// StepError is returned when a step fails.
type StepError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Summary describes what was already done before the failure.
func (e *StepError) Summary() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("%s failed before any step completed", e.Step)
	}
	return fmt.Sprintf("%s failed after %s (not rolled back)", e.Step, strings.Join(e.Completed, ", "))
}

// Pipeline orchestrates the execution of steps in a fixed order.
type Pipeline struct {
	steps    []Step
	observer Observer
	nowFunc  func() time.Time
}

// New creates a pipeline over steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{
		steps:   steps,
		nowFunc: time.Now,
	}
}

// SetObserver registers o for step notifications.
func (p *Pipeline) SetObserver(o Observer) {
	p.observer = o
}

// SetNowFunc overrides the time source for testing.
func (p *Pipeline) SetNowFunc(fn func() time.Time) {
	p.nowFunc = fn
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return names
}

// Run executes the steps in order. On failure the returned error is a
// *StepError and the report lists the steps that completed before it.
// A canceled context fails the next step without running it.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	var rep Report
	for _, s := range p.steps {
		if s.Skip {
			logger.Debug("skipping step", logger.Step(s.Name))
			rep.Skipped = append(rep.Skipped, s.Name)
			continue
		}

		err := ctx.Err()
		if err == nil {
			err = p.runStep(ctx, s)
		}
		if err != nil {
			se := &StepError{Step: s.Name, Completed: append([]string(nil), rep.Completed...), Err: err}
			rep.Failed = s.Name
			rep.Err = se
			return rep, se
		}
		rep.Completed = append(rep.Completed, s.Name)
	}
	return rep, nil
}

func (p *Pipeline) runStep(ctx context.Context, s Step) error {
	if p.observer != nil {
		p.observer.StepStarted(s.Name)
	}
	logger.Debug("running step", logger.Step(s.Name))

	start := p.nowFunc()
	err := s.Run(ctx)
	d := p.nowFunc().Sub(start)

	if err != nil {
		logger.Debug("step failed", logger.Step(s.Name), logger.Err(err))
	} else {
		logger.Debug("step done", logger.Step(s.Name), "duration", d)
	}
	if p.observer != nil {
		p.observer.StepFinished(s.Name, d, err)
	}
	return err
}

// ExitCode returns the exit code for err: the code of a failed external
// command when there is one, 1 for any other failure, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return exec.ExitCode(err, 1)
}
