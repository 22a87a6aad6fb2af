// Command llmsim runs the LLM API traffic simulator: an HTTP server that
// speaks the OpenAI-compatible chat-completions and responses wire formats
// without calling any real model, for load-testing and client-integration
// work.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/looplj/llmsim/internal/build"
	"github.com/looplj/llmsim/internal/config"
	"github.com/looplj/llmsim/internal/content"
	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/log"
	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/server"
	"github.com/looplj/llmsim/internal/server/api"
	"github.com/looplj/llmsim/internal/simerror"
	"github.com/looplj/llmsim/internal/stats"
	"github.com/looplj/llmsim/internal/token"
)

// fxLogger routes fx's own lifecycle events through the simulator's logger.
type fxLogger struct{}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

func main() {
	cmd := &cli.Command{
		Name:    "llmsim",
		Usage:   "a drop-in simulator for OpenAI-compatible chat and responses APIs",
		Version: build.Version,
		Commands: []*cli.Command{
			serveCommand(),
			versionCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information and exit",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Print(build.GetBuildInfo().String())
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the simulator's HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Sources: cli.EnvVars("LLMSIM_HOST"), Usage: "address to bind"},
			&cli.IntFlag{Name: "port", Sources: cli.EnvVars("LLMSIM_PORT"), Usage: "port to bind"},
			&cli.StringFlag{Name: "config", Sources: cli.EnvVars("LLMSIM_CONFIG"), Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "generator", Sources: cli.EnvVars("LLMSIM_GENERATOR"), Usage: "content generator: lorem, echo, random, sequence, fixed:<text>"},
			&cli.IntFlag{Name: "target-tokens", Sources: cli.EnvVars("LLMSIM_TARGET_TOKENS"), Usage: "approximate completion length in tokens"},
			&cli.StringFlag{Name: "latency-profile", Sources: cli.EnvVars("LLMSIM_LATENCY_PROFILE"), Usage: "named latency preset overriding per-model routing"},
		},
		Action: runServe,
	}
}

// runServe loads configuration, layers the serve flags on top, and runs the
// fx application until it's asked to stop.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyServeFlags(&cfg, cmd)

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger { return &fxLogger{} }),
		fx.Supply(cfg),
		fx.Provide(
			newServerConfig,
			newMeterProvider,
			newStats,
			newInjector,
			newProducer,
			newLatencyOverride,
			newPipeline,
			newModelsHandlers,
			server.New,
		),
		server.Module,
		fx.Invoke(registerLifecycle),
	)

	app.Run()

	return nil
}

func applyServeFlags(cfg *config.Config, cmd *cli.Command) {
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}

	if cmd.IsSet("port") {
		cfg.Server.Port = cast.ToInt(cmd.Int("port"))
	}

	if cmd.IsSet("generator") {
		cfg.Response.Generator = cmd.String("generator")
	}

	if cmd.IsSet("target-tokens") {
		cfg.Response.TargetTokens = cast.ToInt(cmd.Int("target-tokens"))
	}

	if cmd.IsSet("latency-profile") {
		cfg.Latency.Profile = cmd.String("latency-profile")
	}
}

func newServerConfig(cfg config.Config) server.Config {
	readTimeout, err := cast.ToDurationE(cfg.Server.ReadTimeout)
	if err != nil {
		log.Warn(context.Background(), "invalid server.read_timeout, defaulting to 30s",
			log.String("value", cfg.Server.ReadTimeout), log.Cause(err))

		readTimeout = 30 * time.Second
	}

	return server.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		ReadTimeout: readTimeout,
	}
}

// newMeterProvider builds a periodic stdout-exporting MeterProvider when
// LLMSIM_OTEL_STDOUT is set, and a nil provider otherwise — Stats degrades
// to its in-process atomics with no OTel mirror when metrics export isn't
// requested.
func newMeterProvider() (*sdkmetric.MeterProvider, error) {
	if os.Getenv("LLMSIM_OTEL_STDOUT") == "" {
		return nil, nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("build stdout metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second))

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), nil
}

func newStats(mp *sdkmetric.MeterProvider) *stats.Stats {
	if mp == nil {
		return stats.New(nil)
	}

	return stats.New(mp.Meter("llmsim"))
}

func newInjector(cfg config.Config) *simerror.Injector {
	errCfg := simerror.Config{
		RateLimitRate:      cfg.Errors.RateLimitRate,
		ServerErrorRate:    cfg.Errors.ServerErrorRate,
		TimeoutRate:        cfg.Errors.TimeoutRate,
		TimeoutAfterMS:     cfg.Errors.TimeoutAfterMS,
		InvalidRequestRate: cfg.Errors.InvalidRequestRate,
		AuthErrorRate:      cfg.Errors.AuthErrorRate,
	}

	return simerror.NewInjector(errCfg)
}

func newProducer(cfg config.Config) content.Producer {
	return content.New(cfg.Response.Generator, cfg.Response.TargetTokens)
}

// newLatencyOverride resolves the configured latency section, if any, into
// the Pipeline's process-wide override. A named profile and the explicit
// ttft_mean_ms/ttft_stddev_ms/tbt_mean_ms/tbt_stddev_ms fields are
// alternative ways of setting the same thing: the named profile (or the
// default preset, if no name is given) supplies the base values, and any
// explicit field overrides its own value on top. A nil return leaves
// per-model routing (latency.FromModel) in effect.
func newLatencyOverride(cfg config.Config) *latency.Profile {
	lc := cfg.Latency

	base := latency.Default()
	named := false

	if lc.Profile != "" {
		profile, ok := latency.ByName(lc.Profile)
		if !ok {
			log.Warn(context.Background(), "unknown latency profile, falling back to per-model routing", log.String("profile", lc.Profile))
		} else {
			base = profile
			named = true
		}
	}

	explicit := lc.TTFTMeanMS != 0 || lc.TTFTStddevMS != 0 || lc.TBTMeanMS != 0 || lc.TBTStddevMS != 0
	if !named && !explicit {
		return nil
	}

	override := base.WithOverrides(lc.TTFTMeanMS, lc.TTFTStddevMS, lc.TBTMeanMS, lc.TBTStddevMS)

	return &override
}

func newPipeline(s *stats.Stats, inj *simerror.Injector, producer content.Producer, override *latency.Profile) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Stats:    s,
		Injector: inj,
		Tokens:   token.Default(),
		Producer: producer,
		Profile:  override,
	}
}

func newModelsHandlers(cfg config.Config) *api.ModelsHandlers {
	return api.NewModelsHandlers(cfg.Models.Available, time.Now().Unix())
}

// registerLifecycle wires the route table and the two things that need
// explicit start/stop: the HTTP listener and the stats pruner.
func registerLifecycle(lc fx.Lifecycle, srv *server.Server, handlers server.Handlers, s *stats.Stats, mp *sdkmetric.MeterProvider) {
	server.SetupRoutes(srv, handlers)

	pruner := stats.NewPruner(s, log.Default())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return pruner.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			return pruner.Stop(ctx)
		},
	})

	if mp != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return mp.Shutdown(ctx)
			},
		})
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Run(); err != nil {
					log.Error(context.Background(), "server exited with error", log.Cause(err))
					os.Exit(1)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
