// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/config"
	"github.com/tgtransfer/tgtransfer/pkg/humanise"
)

// Tool describes one of the command line programs.
type Tool struct {
	Name        string
	Description string
	// Help is printed after the flag list for -help.
	Help string
	// AllowStatic enables the -static flag.
	AllowStatic bool
	Run         func(ctx context.Context, a *App) error
}

// Main parses flags, loads the config and runs the tool, then exits the
// process. An interrupt is a normal exit.
func (t Tool) Main() {
	os.Exit(t.run(os.Args[1:], os.Stdin, color.Output, os.Stderr))
}

func (t Tool) run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(t.Name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", config.DefaultPath, "Path to the YAML config file")
	var static *bool
	if t.AllowStatic {
		static = flags.Bool("static", false, "Use the session named by SESSION_NAME instead of the session registry")
	}
	flags.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "%s - %s\n\nUsage of %s:\n", t.Name, t.Description, t.Name)
		flags.PrintDefaults()
		if t.Help != "" {
			_, _ = fmt.Fprintf(stderr, "\n%s", t.Help)
		}
	}
	if err := flags.Parse(args); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}
	configRequired := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configRequired = true
		}
	})

	if err := config.LoadDotEnv(config.DotEnvFiles...); err != nil {
		_, _ = fmt.Fprintln(stderr, "Failed to load .env files:", err)
		return 1
	}
	cfg, err := config.Load(*configPath, configRequired)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Failed to load config:", err)
		return 1
	}
	logger, err := cfg.Logging.Compile()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Failed to initialize logger:", err)
		return 1
	}
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = WithRunID(logger.WithContext(ctx), t.Name)

	term := cli.NewTerminal(stdin, stdout)
	a, err := New(ctx, cfg, term)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Failed to open session registry:", err)
		return 1
	}
	if static != nil {
		a.Static = *static
	}
	err = t.Run(ctx, a)
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		term.Info("\n! Operation cancelled by user")
		zerolog.Ctx(ctx).Info().Msg("Interrupted")
		return 0
	case err == nil, errors.Is(err, ErrAborted):
		return 0
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("Tool failed")
		term.Error("X Error: %s", humanise.Error(err))
		return 1
	}
}
