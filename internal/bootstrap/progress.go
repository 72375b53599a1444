package bootstrap

import (
	"io"
	"time"

	"github.com/fatih/color"
)

// progress prints one colored line per step.
type progress struct {
	w    io.Writer
	run  *color.Color
	ok   *color.Color
	fail *color.Color
}

func newProgress(w io.Writer) *progress {
	return &progress{
		w:    w,
		run:  color.New(color.FgCyan),
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
	}
}

func (p *progress) StepStarted(name string) {
	p.run.Fprintf(p.w, "==> %s\n", name)
}

func (p *progress) StepFinished(name string, d time.Duration, err error) {
	if err != nil {
		p.fail.Fprintf(p.w, "FAIL %s: %v\n", name, err)
		return
	}
	p.ok.Fprintf(p.w, "ok   %s (%s)\n", name, d.Round(time.Millisecond))
}
