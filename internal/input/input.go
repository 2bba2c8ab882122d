// Package input contains readers that get player commands from a terminal or
// any other stream of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
)

// DirectCommandReader implements command.Reader and reads commands from any
// generic input stream directly. It does not sanitize the input of control and
// escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r *bufio.Reader
}

// InteractiveCommandReader implements command.Reader and reads commands from
// stdin using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// command history and tab-completion of the world's vocabulary. This should in
// general only be used when directly connected to a TTY.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a new DirectCommandReader on a buffered reader of r.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader and initializes
// readline. Every word in words is offered for tab-completion as the first word
// of a line and after it. The returned InteractiveCommandReader must have
// Close() called on it before disposal to properly teardown readline resources.
func NewInteractiveReader(words []string) (*InteractiveCommandReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    Completer(words),
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl: rl,
	}, nil
}

// Completer builds a readline completer that completes any of words as the
// first word of a line and any of them again as the second. Multi-word
// entries are offered as they are.
func Completer(words []string) *readline.PrefixCompleter {
	sorted := make([]string, 0, len(words))
	seen := map[string]bool{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	var second []readline.PrefixCompleterInterface
	for _, w := range sorted {
		second = append(second, readline.PcItem(w))
	}

	var first []readline.PrefixCompleterInterface
	for _, w := range sorted {
		first = append(first, readline.PcItem(w, second...))
	}

	return readline.NewPrefixCompleter(first...)
}

// Close cleans up resources associated with the DirectCommandReader. It
// currently does nothing, but callers should treat it as though it must be
// called.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next line of input. Blank lines are returned as-is so
// the caller can decide what to do with them.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If EOF is hit after some input, that input is returned with a nil
// error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	line, err := dcr.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ReadCommand reads the next line from the terminal. An interrupt (Ctrl-C) on
// an empty line is treated as end of input.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	line, err := icr.rl.Readline()
	if err == readline.ErrInterrupt {
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return line, nil
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.rl.SetPrompt(p)
}
