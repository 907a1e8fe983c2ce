// Package cli runs one llmstep invocation: arguments in, marker-delimited suggestions out.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/llmstep/internal/logger"
	"github.com/bastiangx/llmstep/pkg/config"
	"github.com/bastiangx/llmstep/pkg/protocol"
	"github.com/bastiangx/llmstep/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Usage is printed to stderr when arguments are missing.
const Usage = "usage: llmstep <tactic_state> <prefix> <context>"

// Exit codes.
const (
	ExitOK    = 0
	ExitUsage = 2
)

// SuggesterFactory builds the suggester for a resolved config.
type SuggesterFactory func(cfg *config.Config) (suggest.ISuggester, error)

// Runner ties config, client and output together.
// Stdout only ever receives the marker protocol; diagnostics go to stderr.
type Runner struct {
	cfg          *config.Config
	stdout       io.Writer
	stderr       io.Writer
	newSuggester SuggesterFactory
	log          *log.Logger
}

// NewRunner handles initialization of the Runner with an HTTP suggester.
// The client logs to the same stderr writer as the runner.
func NewRunner(cfg *config.Config, stdout, stderr io.Writer) *Runner {
	r := &Runner{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		log:    logger.NewWithConfig(stderr, "llmstep", log.GetLevel(), false, cfg.Client.Debug, log.TextFormatter),
	}
	r.newSuggester = func(cfg *config.Config) (suggest.ISuggester, error) {
		client, err := suggest.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return client.WithLogger(r.log.WithPrefix("suggest")), nil
	}
	return r
}

// WithSuggesterFactory replaces how the suggester is built.
func (r *Runner) WithSuggesterFactory(f SuggesterFactory) *Runner {
	r.newSuggester = f
	return r
}

// ParseArgs maps positional arguments onto a request.
// Anything past the third argument is ignored.
func ParseArgs(args []string) (protocol.Request, error) {
	if len(args) < 3 {
		return protocol.Request{}, &suggest.Error{
			Kind: suggest.MissingArgument,
			Msg:  fmt.Sprintf("expected 3 arguments (tactic_state, prefix, context), got %d", len(args)),
		}
	}
	return protocol.Request{
		TacticState: args[0],
		Prefix:      args[1],
		Context:     args[2],
	}, nil
}

// Run performs one request and returns the process exit code.
// Request failures are reported on stdout as [ERROR] and still exit 0;
// editors rely on that. Missing arguments exit 2 unless compat is set.
func (r *Runner) Run(ctx context.Context, args []string) int {
	req, err := ParseArgs(args)
	if err != nil {
		if r.cfg.Client.Compat {
			r.writeMarker()
			r.writeError(err)
			return ExitOK
		}
		r.log.Error(err.Error())
		fmt.Fprintln(r.stderr, Usage)
		return ExitUsage
	}

	r.writeMarker()

	suggester, err := r.newSuggester(r.cfg)
	if err != nil {
		r.log.Error("Failed to create client", "err", err)
		r.writeError(err)
		return ExitOK
	}

	r.log.Debug("Processing request for",
		"prefix", req.Prefix,
		"stateLen", len(req.TacticState),
		"contextLen", len(req.Context))

	suggestions, err := suggester.Suggest(ctx, req)
	if err != nil {
		var se *suggest.Error
		if errors.As(err, &se) {
			r.log.Debug("request failed", "kind", se.Kind, "err", err)
		}
		r.writeError(err)
		return ExitOK
	}

	r.log.Debugf("Found %d suggestions", len(suggestions))
	if err := suggest.WriteSuggestions(r.stdout, suggestions); err != nil {
		r.log.Error("Writing suggestions", "err", err)
	}
	return ExitOK
}

func (r *Runner) writeMarker() {
	if err := suggest.WriteMarker(r.stdout); err != nil {
		r.log.Error("Writing marker", "err", err)
	}
}

func (r *Runner) writeError(err error) {
	if werr := suggest.WriteError(r.stdout, err); werr != nil {
		r.log.Error("Writing error", "err", werr)
	}
}
