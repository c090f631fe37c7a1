// Package prompt asks the user to confirm an update.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when the input ends before an answer was given.
var ErrNoInput = errors.New("input not available")

// Prompter confirms a pending update.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// Reader prompts on a writer and reads the answer from a buffered reader.
//
// The default answer is yes: only "n" or "no" (any case) declines.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReader creates a Reader prompter.
func NewReader(in io.Reader, out io.Writer) *Reader {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Reader{in: br, out: out}
}

// Confirm writes "{question} [Y/n] " and reads one line.
//
// Returns:
//   - bool: false for "n"/"no", true for anything else including an empty line
//   - error: ErrNoInput when the input is closed before any answer
func (r *Reader) Confirm(question string) (bool, error) {
	if _, err := fmt.Fprintf(r.out, "%s [Y/n] ", question); err != nil {
		return false, err
	}

	response, err := r.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || response == "") {
		if errors.Is(err, io.EOF) {
			return false, ErrNoInput
		}
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "n", "no":
		return false, nil
	default:
		return true, nil
	}
}

// AutoAccept answers yes without asking.
type AutoAccept struct{}

// Confirm always returns true.
func (AutoAccept) Confirm(string) (bool, error) {
	return true, nil
}
