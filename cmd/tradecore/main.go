package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidemark/tradecore/admin"
	"github.com/tidemark/tradecore/agent"
	"github.com/tidemark/tradecore/broker"
	"github.com/tidemark/tradecore/config"
	"github.com/tidemark/tradecore/execution"
	"github.com/tidemark/tradecore/gateway"
	"github.com/tidemark/tradecore/logging"
	"github.com/tidemark/tradecore/markets"
	"github.com/tidemark/tradecore/pricing"
	"github.com/tidemark/tradecore/version"
)

func main() {
	var (
		rootPath    = flag.String("root", ".", "directory containing config.toml")
		configURL   = flag.String("config-url", "", "fetch the deployment configuration from this URL instead of config.toml")
		watch       = flag.Bool("watch", true, "reload the logging level when config.toml changes")
		showVersion = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	if err := run(*rootPath, *configURL, *watch); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(rootPath, configURL string, watch bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		cfg *config.Config
		err error
	)
	if configURL != "" {
		cfg, err = config.FetchRemote(ctx, configURL)
	} else {
		cfg, err = config.Read(rootPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()
	log.Info("starting tradecore", logging.String("version", version.Get()))

	instruments := cfg.Instruments()
	if len(instruments) == 0 {
		return errors.New("no instruments configured")
	}

	sender, err := broker.NewSocketSender(log, cfg.Broker, cfg.Broker.Gateway)
	if err != nil {
		return err
	}
	defer sender.Close()

	var popts []gateway.Option
	if cfg.Broker.Mirror.Enabled {
		mirror, merr := broker.NewSocketSender(log, cfg.Broker, cfg.Broker.Mirror)
		if merr != nil {
			return merr
		}
		defer mirror.Close()
		popts = append(popts, gateway.WithMirror(mirror))
	}
	publisher := gateway.NewPublisher(log, cfg.Gateway, sender, popts...)

	engine := execution.NewEngine(
		log,
		cfg.Execution,
		markets.NewStore(log, cfg.Markets),
		pricing.NewQuoter(cfg.Pricing),
		publisher,
		instruments,
	)

	receiver, err := broker.NewSocketReceiver(log, cfg.Broker)
	if err != nil {
		return err
	}

	if watch && configURL == "" {
		watcher, werr := config.NewFromFile(ctx, log, rootPath)
		if werr != nil {
			return werr
		}
		watcher.OnConfigUpdate(func(c config.Config) {
			// everything else is owned by the running components; a restart
			// picks it up
			if c.Logging.Level == "" {
				return
			}
			if lvl, perr := logging.ParseLevel(c.Logging.Level); perr == nil {
				log.SetLevel(lvl)
				log.Info("log level updated", logging.String("level", lvl.String()))
			}
		})
	}

	errCh := make(chan error, 3)
	go func() { errCh <- receiver.Receive(ctx) }()
	go func() {
		srv := admin.NewServer(log, cfg.Admin, engine, publisher)
		errCh <- srv.Serve(ctx)
	}()
	go func() {
		a := agent.New(log, cfg.Agent, engine, publisher, receiver, instruments)
		errCh <- a.Run(ctx)
	}()

	err = <-errCh
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutting down on failure", logging.Error(err))
		return err
	}
	log.Info("shutdown complete")
	return nil
}
