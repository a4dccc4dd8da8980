// wgdash watches a WireGuard gateway's status API and turns it into a live
// dashboard: a terminal view, or an HTTP page with WebSocket updates.
//
// Usage:
//
//	wgdash [global flags] <command> [command flags]
//
// Commands:
//
//	watch        Redraw the dashboard in the terminal
//	serve        Serve the dashboard over HTTP
//	once         Poll once and print a single frame
//	restart      Ask the gateway to restart the VPN daemon
//	config init  Write a default config file
//	version      Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wgdash/internal/api"
	"wgdash/internal/config"
	"wgdash/internal/dashboard"
	"wgdash/internal/render"
	"wgdash/internal/stunutil"
	"wgdash/internal/viewserver"
)

var version = "dev"

type globalFlags struct {
	configPath  string
	baseURL     string
	logLevel    string
	logFilter   string
	eventFilter string
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "wgdash",
		Short: "Live dashboard for a WireGuard gateway",
		Long: `wgdash polls a WireGuard gateway's status API and shows peers,
throughput, daemon health and an event timeline.

Settings come from the config file, then WGDASH_* environment variables,
then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(g.logLevel)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "wgdash.yaml", "Path to config file")
	pf.StringVar(&g.baseURL, "base-url", "", "Gateway API base URL")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&g.logFilter, "log-filter", "", "Only show log lines containing this text")
	pf.StringVar(&g.eventFilter, "event-filter", "", "Only show timeline events containing this text")

	rootCmd.AddCommand(watchCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))
	rootCmd.AddCommand(onceCmd(&g))
	rootCmd.AddCommand(restartCmd(&g))
	rootCmd.AddCommand(configCmd(&g))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

// loadConfig resolves file, environment and flag settings.
func loadConfig(cmd *cobra.Command, g *globalFlags) (config.Config, error) {
	cfg, err := config.LoadOptional(g.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = g.baseURL
	}
	if flags.Changed("log-filter") {
		cfg.LogFilter = g.logFilter
	}
	if flags.Changed("event-filter") {
		cfg.EventFilter = g.eventFilter
	}
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app is the wiring shared by the long-running commands.
type app struct {
	cfg      config.Config
	client   *api.Client
	session  *dashboard.Session
	poller   *dashboard.Poller
	registry *prometheus.Registry
}

func newApp(cfg config.Config) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := api.NewClient(cfg.BaseURL, cfg.RequestTimeout)
	session := dashboard.NewSession(dashboard.Options{
		HistoryCapacity:  cfg.HistoryCapacity,
		TimelineCapacity: cfg.TimelineCapacity,
		StaleAfterPolls:  cfg.StaleAfterPolls,
		PublicIP:         cfg.PublicIP,
	})
	poller := dashboard.NewPoller(client, session, dashboard.PollerOptions{
		StatusInterval: cfg.StatusInterval,
		HealthInterval: cfg.HealthInterval,
		EventsInterval: cfg.EventsInterval,
		LogTail:        cfg.LogTail,
		EventsWindow:   cfg.EventsWindow,
		Filters:        dashboard.Filters{Logs: cfg.LogFilter, Events: cfg.EventFilter},
	}, log.Logger, dashboard.NewInstruments(reg))

	return &app{cfg: cfg, client: client, session: session, poller: poller, registry: reg}
}

// discoverPublicIP runs the STUN fallback in the background.
func (a *app) discoverPublicIP(ctx context.Context) {
	resolve := func(ctx context.Context) (string, string, error) {
		return stunutil.PublicHost(ctx, a.cfg.STUNServers, a.cfg.STUNTimeout)
	}
	go dashboard.ResolvePublicIP(ctx, a.session, a.client.BaseURL(), resolve, log.Logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func watchCmd(g *globalFlags) *cobra.Command {
	var noClear bool
	var logLines int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the dashboard in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			a := newApp(cfg)
			term := render.NewTerminal(os.Stdout, !noClear, logLines)
			a.poller.OnRender(term.Render)
			a.discoverPublicIP(ctx)
			return ignoreCanceled(a.poller.Run(ctx))
		},
	}
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of clearing the screen")
	cmd.Flags().IntVar(&logLines, "log-lines", 15, "Log lines shown per frame")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			ctx, cancel := signalContext()
			defer cancel()

			a := newApp(cfg)
			srv := viewserver.New(a.session, a.poller.Restart, a.registry, log.Logger)
			a.poller.OnRender(func(dashboard.View) { srv.Hub().Publish() })
			a.discoverPublicIP(ctx)

			errc := make(chan error, 2)
			go func() { errc <- ignoreCanceled(a.poller.Run(ctx)) }()
			go func() { errc <- srv.ListenAndServe(ctx, cfg.Listen) }()

			err = <-errc
			cancel()
			if err2 := <-errc; err == nil {
				err = err2
			}
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "HTTP listen address")
	return cmd
}

func onceCmd(g *globalFlags) *cobra.Command {
	var logLines int
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Poll once and print a single frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
			defer cancel()

			a := newApp(cfg)
			_ = a.poller.RunHealthOnce(ctx)
			_ = a.poller.RunEventsOnce(ctx)
			statusErr := a.poller.RunStatusOnce(ctx)

			fmt.Print(render.Frame(a.session.View(dashboard.Filters{Logs: cfg.LogFilter, Events: cfg.EventFilter}), logLines))
			return statusErr
		},
	}
	cmd.Flags().IntVar(&logLines, "log-lines", 15, "Log lines shown")
	return cmd
}

func restartCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Ask the gateway to restart the VPN daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
			defer cancel()
			if err := api.NewClient(cfg.BaseURL, cfg.RequestTimeout).Restart(ctx); err != nil {
				return fmt.Errorf("restart: %w", err)
			}
			fmt.Println("restart requested")
			return nil
		},
	}
}

func configCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(g.configPath); err == nil {
				return fmt.Errorf("%s already exists", g.configPath)
			}
			cfg := config.Default()
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = g.baseURL
			}
			if err := config.Save(g.configPath, cfg); err != nil {
				return err
			}
			log.Info().Str("path", g.configPath).Msg("config written")
			return nil
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("wgdash", version)
		},
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
