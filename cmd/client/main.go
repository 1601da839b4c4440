package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/mage-client-go/internal/assets"
	"github.com/magefree/mage-client-go/internal/client"
	"github.com/magefree/mage-client-go/internal/config"
	"github.com/magefree/mage-client-go/internal/session"
	"github.com/magefree/mage-client-go/internal/transport"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting MAGE client",
		zap.String("version", version),
		zap.String("server", cfg.Server.URL),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("client failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("MAGE client stopped")
}

// run connects and drives one session until it ends.
func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lookup assets.Lookup = assets.None{}
	if cfg.Assets.Enabled {
		cache, err := assets.NewCache(cfg.Assets, nil, logger.Named("assets"))
		if err != nil {
			logger.Warn("art cache unavailable", zap.Error(err))
		} else {
			defer cache.Close()
			lookup = cache
		}
	}

	conn, err := transport.Dial(ctx, cfg.Server, logger.Named("transport"))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	opts := client.Options{
		Observer: &logObserver{logger: logger},
		Assets:   lookup,
	}
	if cfg.Journal.Enabled {
		opts.JournalDirectory = cfg.Journal.Directory
	}
	me := session.Player{ID: cfg.Player.UserID, Name: cfg.Player.Username}
	rt := client.New(conn, me, opts, logger)

	go readCommands(os.Stdin, rt, logger, stop)

	if err := rt.Run(ctx); err != nil && !errors.Is(err, client.ErrDisconnected) {
		return fmt.Errorf("session ended with error: %w", err)
	}
	return nil
}

// readCommands maps console lines onto session actions.
func readCommands(in io.Reader, rt *client.Runtime, logger *zap.Logger, quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var err error
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "":
			continue
		case "quit":
			quit()
			return
		case "pass":
			err = doErr(rt, func(g *client.Game) error { return g.State.PassPriority() })
		case "keep":
			err = doErr(rt, func(g *client.Game) error { return g.State.KeepHand() })
		case "mulligan":
			err = doErr(rt, func(g *client.Game) error { return g.State.TakeMulligan() })
		case "cancel":
			err = doErr(rt, func(g *client.Game) error { return g.Interaction.Cancel() })
		default:
			logger.Warn("unknown command", zap.String("command", cmd))
			continue
		}
		if err != nil {
			logger.Warn("command failed", zap.String("command", cmd), zap.Error(err))
		}
	}
}

func doErr(rt *client.Runtime, fn func(*client.Game) error) error {
	var err error
	if runErr := rt.Do(func(g *client.Game) { err = fn(g) }); runErr != nil {
		return runErr
	}
	return err
}

type logObserver struct {
	logger *zap.Logger
}

func (o *logObserver) OnChange(g *client.Game) {
	s := g.State
	if !s.Joined() {
		return
	}
	fields := []zap.Field{
		zap.String("status", string(s.Status())),
		zap.String("step", string(s.CurrentStep())),
		zap.Bool("priority", s.HasPriority()),
		zap.Int("life", s.LifeTotal(s.MyIndex())),
		zap.Int("opponent_life", s.LifeTotal(s.OpponentIndex())),
	}
	if p := g.Interaction.Active(); p != nil {
		fields = append(fields, zap.String("interaction", string(p.Kind())))
	}
	o.logger.Debug("game updated", fields...)
}

func (o *logObserver) OnServerError(message string) {
	o.logger.Warn("server rejected action", zap.String("message", message))
}

func (o *logObserver) OnTeardown(err error) {
	if err != nil {
		o.logger.Warn("session ended", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
