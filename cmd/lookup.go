package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/matheuskafuri/caniuse/internal/browser"
	"github.com/matheuskafuri/caniuse/internal/cache"
	"github.com/matheuskafuri/caniuse/internal/caniuse"
	"github.com/matheuskafuri/caniuse/internal/config"
	"github.com/matheuskafuri/caniuse/internal/logging"
	"github.com/matheuskafuri/caniuse/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func runLookup(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	client := env.client(nil)
	res, err := client.Lookup(cmd.Context(), args[0])
	if errors.Is(err, caniuse.ErrNoResults) {
		fmt.Fprintf(cmd.ErrOrStderr(), "No results found for %q.\n", args[0])
		return err
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagNoColor {
		out = plainWriter{out}
	}
	if err := render.Report(out, res); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if flagOpen {
		openFirstMDN(env.log, res)
	}
	return nil
}

func openFirstMDN(log *logrus.Logger, res *caniuse.Result) {
	for _, f := range res.Features {
		if f.MDNURL == "" {
			continue
		}
		if err := browser.Open(f.MDNURL); err != nil {
			log.WithError(err).WithField("url", f.MDNURL).Warn("opening browser")
		}
		return
	}
	log.Warn("no MDN URL to open")
}

// plainWriter hides the terminal behind w so lipgloss falls back to plain text.
type plainWriter struct{ io.Writer }

// runEnv is the per-invocation state shared by the lookup and browse commands.
type runEnv struct {
	cfg  *config.Config
	log  *logrus.Logger
	disk *cache.Cache
}

func setup(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagTimeout != "" {
		d, err := config.ParseDuration(flagTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid --timeout value: %w", caniuse.ErrUsage, err)
		}
		if d == 0 {
			return nil, fmt.Errorf("%w: --timeout must be greater than zero", caniuse.ErrUsage)
		}
		cfg.Timeout = flagTimeout
	}

	log, err := logging.New(logging.Options{
		Debug:  cfg.Debug,
		File:   cfg.LogPath(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		// Non-fatal: keep logging to stderr.
		log.WithError(err).Warn("could not open log file")
	}

	env := &runEnv{cfg: cfg, log: log}
	if flagCache || cfg.Cache.Enabled {
		db, err := cache.Open(config.CachePath())
		if err != nil {
			log.WithError(err).Warn("response cache unavailable")
		} else {
			env.disk = db
		}
	}
	return env, nil
}

// client builds the API client; front, when set, is consulted before the disk cache.
func (e *runEnv) client(front caniuse.Store) *caniuse.Client {
	opts := caniuse.Options{
		BaseURL:   e.cfg.BaseURL,
		Timeout:   e.cfg.TimeoutDuration(),
		UserAgent: e.cfg.UserAgent,
		Logger:    e.log,
		CacheTTL:  e.cfg.CacheTTL(),
		Refresh:   flagRefresh,
	}
	switch {
	case front != nil && e.disk != nil:
		opts.Store = caniuse.Chain(front, e.disk)
	case front != nil:
		opts.Store = front
	case e.disk != nil:
		opts.Store = e.disk
	}
	return caniuse.New(opts)
}

func (e *runEnv) Close() {
	if e.disk != nil {
		e.disk.Close()
	}
}
