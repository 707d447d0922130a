package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/api"
	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/query"
	"tasklist/internal/ui"
)

type options struct {
	configPath string
	apiURL     string
	filter     string
	start      string
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "tasklist",
		Short:         "Terminal to-do list backed by a REST API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(opts)
			if err != nil {
				fmt.Fprintf(stderr, "tasklist: %v\n", err)
			}
			return err
		},
	}
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config.toml (default: $"+config.EnvConfigPath+" or the user config dir)")
	flags.StringVar(&opts.apiURL, "api-url", "", "todo API base URL (overrides api_url)")
	flags.StringVar(&opts.filter, "filter", "", "initial filter: all, active or completed")
	flags.StringVar(&opts.start, "start", "welcome", "first screen: welcome or tasks")
	return cmd
}

func run(opts *options) error {
	startOnTasks, err := parseStart(opts.start)
	if err != nil {
		return err
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	if opts.filter != "" {
		cfg.DefaultFilter = opts.filter
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	logger, closer, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closer.Close()

	timeout, _ := cfg.Timeout()
	client, err := api.New(cfg.APIURL, timeout, logger)
	if err != nil {
		return err
	}
	logger.WithField("api_url", client.BaseURL()).Info("starting")

	store := query.NewStore(client, logger)
	if err := ui.Run(store, cfg, logger, ui.Options{StartOnTasks: startOnTasks}); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func parseStart(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "welcome":
		return false, nil
	case "tasks":
		return true, nil
	default:
		return false, fmt.Errorf("unknown start screen %q", v)
	}
}
