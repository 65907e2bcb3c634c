package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/internal/adapters/clock"
	"github.com/mikey-austin/dlnactl/internal/adapters/config"
	"github.com/mikey-austin/dlnactl/internal/adapters/idgen"
	"github.com/mikey-austin/dlnactl/internal/adapters/logging"
	"github.com/mikey-austin/dlnactl/internal/adapters/mqtt"
	"github.com/mikey-austin/dlnactl/internal/adapters/output"
	"github.com/mikey-austin/dlnactl/internal/adapters/upnp"
	"github.com/mikey-austin/dlnactl/internal/core"
)

type app struct {
	service  *core.Service
	printer  output.Printer
	log      *zap.Logger
	renderer string
	deadline time.Duration
	closers  []func()
}

func main() {
	root, opened := newRootCommand()
	if err := execute(root, opened); err != nil {
		fmt.Fprintln(os.Stderr, "dlnactl:", err)
		os.Exit(core.ExitCode(err))
	}
}

// execute runs root and closes the app it opened, whether or not the command
// failed. Cobra skips post-run hooks after an error.
func execute(root *cobra.Command, opened **app) error {
	err := root.ExecuteContext(context.Background())
	if *opened != nil {
		(*opened).close()
	}
	return err
}

func newRootCommand() (*cobra.Command, **app) {
	var opened *app
	root := &cobra.Command{
		Use:           "dlnactl",
		Short:         "Control DLNA/UPnP media renderers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		renderer     string
		configPath   string
		timeout      time.Duration
		wait         time.Duration
		searchTarget string
		listen       string
		jsonOut      bool
		verbose      bool
		broker       string
	)

	root.PersistentFlags().StringVarP(&renderer, "renderer", "r", "", "renderer selector (alias, UDN, index or name)")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/dlnactl/config.toml)")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "per-request timeout")
	root.PersistentFlags().DurationVarP(&wait, "wait", "w", 0, "SSDP discovery wait")
	root.PersistentFlags().StringVar(&searchTarget, "search-target", "", "SSDP search target")
	root.PersistentFlags().StringVar(&listen, "listen", "", "local address for SSDP search")
	root.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output json")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVarP(&broker, "broker", "b", "", "MQTT broker URL for command events")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return core.Errorf(core.KindInvalidArgument, cmd.Name(), "%v", err)
	})

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if timeout > 0 {
			cfg.Timeout.Duration = timeout
		}
		if wait > 0 {
			cfg.DiscoveryWait.Duration = wait
		}
		if searchTarget != "" {
			cfg.SearchTarget = searchTarget
		}
		if listen != "" {
			cfg.Listen = listen
		}
		if broker != "" {
			cfg.MQTT.Broker = broker
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			return err
		}

		a, err := newApp(cfg, log, renderer, output.New(os.Stdout, jsonOut))
		if err != nil {
			return err
		}
		opened = a
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	}

	root.AddCommand(lsCommand())
	root.AddCommand(statusCommand())
	root.AddCommand(playCommand())
	root.AddCommand(pauseCommand())
	root.AddCommand(stopCommand())
	root.AddCommand(nextCommand())
	root.AddCommand(prevCommand())
	root.AddCommand(seekCommand())
	root.AddCommand(volumeCommand())
	root.AddCommand(muteCommand())
	root.AddCommand(runCommand())
	return root, &opened
}

func newApp(cfg config.Config, log *zap.Logger, renderer string, printer output.Printer) (*app, error) {
	provider := upnp.New(log.Named("upnp"), upnp.Options{
		Timeout:      cfg.Timeout.Duration,
		Wait:         cfg.DiscoveryWait.Duration,
		SearchTarget: cfg.SearchTarget,
		ListenAddr:   cfg.Listen,
	})

	coreCfg := core.Config{
		ServiceID:       cfg.ServiceID,
		SeekTimeUnit:    cfg.SeekUnit,
		DefaultRenderer: cfg.DefaultRenderer,
		Aliases:         cfg.Aliases,
	}
	planner := core.NewPlanner(provider, log.Named("planner"))
	planner.SeekTimeUnit = coreCfg.SeekTimeUnit

	a := &app{
		printer:  printer,
		log:      log,
		renderer: renderer,
		// discovery, then at most one read and one write per command; status
		// issues three reads.
		deadline: cfg.DiscoveryWait.Duration + 4*cfg.Timeout.Duration,
	}
	a.service = &core.Service{
		Resolver: core.Resolver{Provider: provider, Config: coreCfg, Log: log.Named("resolver")},
		Planner:  planner,
		Clock:    clock.System{},
		IDGen:    idgen.Generator{},
		Log:      log.Named("service"),
	}

	if cfg.MQTT.Broker != "" {
		sink, err := mqtt.NewSink(log.Named("mqtt"), mqtt.Options{
			BrokerURL: cfg.MQTT.Broker,
			ClientID:  cfg.MQTT.ClientID,
			Username:  cfg.MQTT.User,
			Password:  cfg.MQTT.Pass,
			TLSCA:     cfg.MQTT.TLSCA,
			TLSCert:   cfg.MQTT.TLSCert,
			TLSKey:    cfg.MQTT.TLSKey,
			TopicBase: cfg.MQTT.TopicBase,
			QoS:       1,
			Timeout:   cfg.Timeout.Duration,
		})
		if err != nil {
			log.Warn("event publishing disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
		} else {
			a.service.Events = sink
			a.closers = append(a.closers, sink.Close)
		}
	}
	a.closers = append(a.closers, func() { _ = log.Sync() })
	return a, nil
}

func (a *app) close() {
	for _, fn := range a.closers {
		fn()
	}
	a.closers = nil
}

// selector prefers a positional renderer over --renderer.
func (a *app) selector(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.renderer
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return withTimeout(cmd.Context(), a.deadline)
}

type appKey struct{}

func fromContext(cmd *cobra.Command) *app {
	val := cmd.Context().Value(appKey{})
	if val == nil {
		return nil
	}
	return val.(*app)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return core.Errorf(core.KindInvalidArgument, cmd.Name(), "accepts between %d and %d arg(s), received %d (usage: %s)", lo, hi, len(args), cmd.UseLine())
		}
		return nil
	}
}
