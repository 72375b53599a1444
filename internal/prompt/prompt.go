// Package prompt asks the user for the values the provisioning run needs.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

var (
	// ErrRequired is returned when a required value stays empty.
	ErrRequired = errors.New("value required")
	// ErrInterrupted is returned when the user cancels a prompt.
	ErrInterrupted = errors.New("prompt interrupted")
	// ErrNoInput is returned when input ends before an answer was given.
	ErrNoInput = errors.New("no input")
)

// Prompter reads answers from the user.
type Prompter interface {
	Input(label, def string, required bool) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// New returns a SurveyPrompter when in and out are terminals and a
// LinePrompter otherwise.
func New(in *os.File, out *os.File) Prompter {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return &SurveyPrompter{in: in, out: out}
	}
	return NewLinePrompter(in, out)
}

// SurveyPrompter renders interactive prompts.
type SurveyPrompter struct {
	in  *os.File
	out *os.File
}

func (p *SurveyPrompter) Input(label, def string, required bool) (string, error) {
	var answer string
	opts := []survey.AskOpt{survey.WithStdio(p.in, p.out, p.out)}
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	err := survey.AskOne(&survey.Input{Message: label, Default: def}, &answer, opts...)
	if err != nil {
		return "", surveyErr(err)
	}
	return strings.TrimSpace(answer), nil
}

func (p *SurveyPrompter) Confirm(label string, def bool) (bool, error) {
	var answer bool
	err := survey.AskOne(&survey.Confirm{Message: label, Default: def}, &answer, survey.WithStdio(p.in, p.out, p.out))
	if err != nil {
		return false, surveyErr(err)
	}
	return answer, nil
}

func surveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}

// LinePrompter reads one line per answer. Used when stdin is not a
// terminal and in tests.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

func (p *LinePrompter) Input(label, def string, required bool) (string, error) {
	if def != "" {
		fmt.Fprintf(p.w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.w, "%s: ", label)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		line = def
	}
	if required && line == "" {
		return "", fmt.Errorf("%w: %s", ErrRequired, label)
	}
	return line, nil
}

func (p *LinePrompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.w, "%s [%s]: ", label, hint)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine returns the next trimmed line. A final line without newline
// still counts; EOF with nothing read is ErrNoInput, so a closed stdin
// never accepts a default.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", ErrNoInput
		}
	}
	return strings.TrimSpace(line), nil
}

// Static answers values without asking; used for --yes runs.
type Static struct{}

func (Static) Input(label, def string, required bool) (string, error) {
	if required && def == "" {
		return "", fmt.Errorf("%w: %s", ErrRequired, label)
	}
	return def, nil
}

func (Static) Confirm(string, bool) (bool, error) {
	return true, nil
}
