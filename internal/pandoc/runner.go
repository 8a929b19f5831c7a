// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc runs the external pandoc binary. Documents cross the process
// boundary as interchange JSON on stdin and stdout; binary formats are read
// from and written to files because pandoc cannot stream them.
package pandoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultBinary is the binary looked up when no path is configured.
const DefaultBinary = "pandoc"

// formatJSON is pandoc's name for its interchange format.
const formatJSON = "json"

// ErrNotAvailable is returned by Detect when the binary is missing or does
// not answer a version probe.
var ErrNotAvailable = errors.New("pandoc not available")

// ExecError reports a failed pandoc invocation with its captured stderr.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("pandoc %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// Runner invokes one pandoc binary.
type Runner struct {
	bin  string
	exec executor
}

// New returns a runner for bin, or for DefaultBinary when bin is empty. It
// does not check that the binary exists; see Detect.
func New(bin string) *Runner {
	return newRunner(bin, defaultExec)
}

func newRunner(bin string, exec executor) *Runner {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Runner{bin: bin, exec: exec}
}

// Detect returns a runner for bin after checking that it is on PATH and
// answers --version.
func Detect(bin string) (*Runner, error) {
	return detect(bin, defaultExec)
}

func detect(bin string, exec executor) (*Runner, error) {
	r := newRunner(bin, exec)
	if !r.Available() {
		return nil, fmt.Errorf("%w: %s not found or not operational", ErrNotAvailable, r.bin)
	}
	return r, nil
}

// Binary returns the binary name or path the runner invokes.
func (r *Runner) Binary() string { return r.bin }

// Available reports whether the binary exists and answers a version probe.
func (r *Runner) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	_, err := r.Version()
	return err == nil
}

// Version returns the first line of `pandoc --version`, e.g. "pandoc 3.1.11".
func (r *Runner) Version() (string, error) {
	out, err := r.run([]string{"--version"}, nil)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// ToJSON converts input written in format from into interchange JSON.
func (r *Runner) ToJSON(from string, input []byte) ([]byte, error) {
	return r.run([]string{"-f", from, "-t", formatJSON}, input)
}

// FileToJSON converts the file at path, written in format from, into
// interchange JSON. Use it for binary formats such as docx.
func (r *Runner) FileToJSON(from, path string) ([]byte, error) {
	return r.run([]string{"-f", from, "-t", formatJSON, path}, nil)
}

// FromJSON converts interchange JSON into format to.
func (r *Runner) FromJSON(to string, input []byte) ([]byte, error) {
	return r.run([]string{"-f", formatJSON, "-t", to}, input)
}

// FromJSONToFile converts interchange JSON into format to, letting pandoc
// write output itself. Use it for binary formats.
func (r *Runner) FromJSONToFile(to string, input []byte, output string) error {
	_, err := r.run([]string{"-f", formatJSON, "-t", to, "-o", output}, input)
	return err
}

func (r *Runner) run(args []string, input []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	if err := r.exec.RunPiped(r.bin, args, bytes.NewReader(input), &stdout, &stderr); err != nil {
		return nil, &ExecError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}
