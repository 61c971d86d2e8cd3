package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valter-silva-au/phaseline/internal/core"
)

// stdinDecider implements core.Decider with a numbered menu on the
// terminal. It blocks until a listed option is chosen; 'q' aborts the
// decision with an error.
type stdinDecider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinDecider creates a Decider reading selections from in and writing
// menus to out.
func NewStdinDecider(in io.Reader, out io.Writer) core.Decider {
	return &stdinDecider{in: bufio.NewReader(in), out: out}
}

// Decide prints the prompt and choices and reads a selection. Invalid
// input re-prompts; there is no timeout.
func (d *stdinDecider) Decide(prompt string, choices []core.Choice) (core.Choice, error) {
	fmt.Fprintf(d.out, "\n%s\n\n", prompt)
	for i, c := range choices {
		fmt.Fprintf(d.out, "  %d. %s\n", i+1, c.Label)
	}
	fmt.Fprintln(d.out)

	for {
		fmt.Fprintf(d.out, "Select option [1-%d] (or 'q' to abort): ", len(choices))
		input, err := d.in.ReadString('\n')
		if err != nil {
			return core.Choice{}, fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			return core.Choice{}, fmt.Errorf("aborted")
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(choices) {
			fmt.Fprintf(d.out, "  Invalid selection. Enter a number between 1 and %d.\n", len(choices))
			continue
		}

		return choices[num-1], nil
	}
}
