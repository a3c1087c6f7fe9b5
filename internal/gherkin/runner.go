package gherkin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"

	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

// DefaultCommand is the external parser executable invoked per build pass.
const DefaultCommand = "gherkin"

// DefaultArgs restrict parser output to document envelopes.
var DefaultArgs = []string{"--no-source", "--no-pickles"}

// ErrParserFailed marks a non-zero exit from the parser command. Features
// decoded before the failure have already been routed to the sink.
var ErrParserFailed = errors.New("gherkin: parser command failed")

// Runner invokes the external Gherkin parser and streams each parsed feature
// into a caller-supplied sink.
type Runner struct {
	command string
	args    []string
	logger  interfaces.Logger
}

// NewRunner builds a runner for the given parser invocation. Empty command
// and nil args select the defaults.
func NewRunner(command string, args []string, logger interfaces.Logger) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	if args == nil {
		args = DefaultArgs
	}
	return &Runner{command: command, args: slices.Clone(args), logger: logger}
}

// Run executes the parser over the given feature files, relative to dir, and
// calls sink once per successfully parsed feature in output order. A sink
// error aborts the run and is returned as-is. A non-zero parser exit is
// reported as ErrParserFailed after all decodable output has been consumed.
func (r *Runner) Run(ctx context.Context, dir string, paths []string, sink func(*Feature) error) error {
	if len(paths) == 0 {
		return nil
	}

	args := append(slices.Clone(r.args), paths...)
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("gherkin: open parser stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParserFailed, r.command, err)
	}

	sinkErr := r.consume(stdout, sink)
	waitErr := cmd.Wait()

	if sinkErr != nil {
		return sinkErr
	}
	if waitErr != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%w: %v: %s", ErrParserFailed, waitErr, msg)
		}
		return fmt.Errorf("%w: %v", ErrParserFailed, waitErr)
	}
	return nil
}

// consume decodes envelopes until EOF. Malformed lines and parse errors are
// logged and skipped so one broken feature file cannot hide the rest.
func (r *Runner) consume(stdout io.Reader, sink func(*Feature) error) error {
	decoder := json.NewDecoder(stdout)
	for {
		var env envelope
		if err := decoder.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			r.warn("skipping undecodable parser output", "error", err)
			return nil
		}

		if env.ParseError != nil {
			r.warn("feature file failed to parse",
				"path", env.ParseError.Source.URI,
				"message", env.ParseError.Message,
			)
			continue
		}

		feature := env.GherkinDocument.toFeature()
		if feature == nil {
			continue
		}
		if err := sink(feature); err != nil {
			return err
		}
	}
}

func (r *Runner) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
