// Package confirm implements the operator confirmation capability used at the
// bootstrap pause points: interactive stdin prompting for a human at a
// terminal, fixed policies for automation, and an HTTP endpoint for headless
// hosts where approval comes from a remote operator.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brevis-network/pico-proving-service/interfaces"
)

// Stdin prompts on stdout and reads the answer from stdin. The default
// answer is no: an empty line declines.
type Stdin struct {
	// In and Out default to os.Stdin and os.Stdout when nil.
	In  io.Reader
	Out io.Writer
}

// Confirm prints prompt with a [y/N] suffix and interprets the reply.
func (c *Stdin) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("could not read confirmation: %w", err)
	}

	return parseAnswer(line), nil
}

// Policy is a fixed confirmation policy for non-interactive runs.
type Policy int

const (
	// AlwaysYes accepts every prompt without asking.
	AlwaysYes Policy = iota

	// AlwaysNo declines every prompt without asking.
	AlwaysNo

	// FailIfAsked fails the run if any stage needs a confirmation. Useful in
	// CI where a pause indicates the host was not pre-provisioned as expected.
	FailIfAsked
)

// Confirm answers according to the policy.
func (p Policy) Confirm(prompt string) (bool, error) {
	switch p {
	case AlwaysYes:
		return true, nil
	case AlwaysNo:
		return false, nil
	default:
		return false, fmt.Errorf("confirmation required but the run is non-interactive: %q", prompt)
	}
}

func parseAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true":
		return true
	default:
		return false
	}
}

var _ interfaces.Confirmer = (*Stdin)(nil)
var _ interfaces.Confirmer = Policy(0)
