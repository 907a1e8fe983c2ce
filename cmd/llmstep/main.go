// Copyright 2025 The llmstep Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements llmstep, the editor-side client for an llmstep suggestion server.

An editor shells out to it with the current proof state and scrapes stdout:

	llmstep "<tactic_state>" "<prefix>" "<context>"

The first output line is always the [SUGGESTION] marker. The second is either
every suggestion joined by that same marker:

	[SUGGESTION]
	trivial[SUGGESTION]exact True.I

or an error line when the server could not be reached or answered badly:

	[SUGGESTION]
	[ERROR] Post "http://localhost:6000": dial tcp [::1]:6000: connect: connection refused

Request failures still exit 0. Fewer than three arguments is a usage error
(exit 2) unless LLMSTEP_COMPAT is set, in which case it is reported on stdout
like any other error.

# Configuration

	LLMSTEP_HOST     hostname, or the full URL in COLAB mode (default localhost)
	LLMSTEP_PORT     port outside COLAB mode (default 6000)
	LLMSTEP_SERVER   COLAB posts to LLMSTEP_HOST verbatim (default DEFAULT)
	LLMSTEP_CODEC    json or msgpack (default json)
	LLMSTEP_TIMEOUT  request timeout, e.g. 30s; 0 waits forever (default 0)
	LLMSTEP_DEBUG    log request details to stderr
	LLMSTEP_COMPAT   report missing arguments on stdout and exit 0
	LLMSTEP_CONFIG   TOML file read before the variables above

Arguments are never parsed as flags, since tactic states may start with '-'.
The one exception is a lone -version / --version.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/llmstep/internal/cli"
	"github.com/bastiangx/llmstep/internal/logger"
	"github.com/bastiangx/llmstep/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "llmstep"
	gh      = "https://github.com/bastiangx/llmstep"
)

// sigContext cancels the in-flight request on interrupt so the editor job ends promptly.
func sigContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// main only manages the flow; the cli package does the work.
func main() {
	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "-version" || args[0] == "--version") {
		showVersion()
		return
	}

	// config loading may warn before we know whether debug is on
	logger.Setup(false)
	cfg, cfgPath := config.Load(os.LookupEnv)
	logger.Setup(cfg.Client.Debug)
	if cfgPath != "" {
		log.Debugf("Using config file: (%s)", cfgPath)
	}

	ctx, cancel := sigContext()
	code := cli.NewRunner(cfg, os.Stdout, os.Stderr).Run(ctx, args)
	cancel()
	os.Exit(code)
}

// showVersion prints a small banner to stderr.
func showVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ llmstep ] next-tactic suggestions for your editor")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("usage: " + AppName + " <tactic_state> <prefix> <context>")
	banner.Print("Github Repo", "gh", gh)
}
