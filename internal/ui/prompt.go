package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// Confirmer asks the user a yes/no question. The default answer is no.
type Confirmer interface {
	Confirm(message string) (bool, error)
}

// NewConfirmer returns an interactive prompt when in is a terminal and a
// plain line reader otherwise
func NewConfirmer(in *os.File, out io.Writer) Confirmer {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return SurveyConfirmer{}
	}
	return NewLineConfirmer(in, out)
}

// SurveyConfirmer prompts with survey
type SurveyConfirmer struct{}

// Confirm implements Confirmer
func (SurveyConfirmer) Confirm(message string) (bool, error) {
	answer := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// LineConfirmer reads one answer line; only "y" or "yes" confirm
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer creates a LineConfirmer
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer. End of input counts as no.
func (c *LineConfirmer) Confirm(message string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
