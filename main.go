package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"powerchess/communication/server"
	"powerchess/engine"
	"powerchess/experiments"
	"powerchess/experiments/metrics"
	"powerchess/game"
	"powerchess/meta"
	"powerchess/player"
	"powerchess/searcher"
	"powerchess/storage"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode       string
	maxDepth   int
	timeBudget time.Duration
	addr       string
	whiteURL   string
	blackURL   string
	dbDir      string
	outDir     string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "selfplay", "selfplay, serve, experiment or throughput")
	flag.IntVar(&cfg.maxDepth, "depth", meta.DefaultMaxDepth, "Search depth before endgame extensions")
	flag.DurationVar(&cfg.timeBudget, "time", meta.DefaultTimeBudget, "Time budget per move")
	flag.StringVar(&cfg.addr, "addr", ":8080", "Listen address of the move server")
	flag.StringVar(&cfg.whiteURL, "white-url", "", "Move server playing white in selfplay")
	flag.StringVar(&cfg.blackURL, "black-url", "", "Move server playing black in selfplay")
	flag.StringVar(&cfg.dbDir, "db", "", "Directory of the game store, none if empty")
	flag.StringVar(&cfg.outDir, "out", "experiments", "Directory of experiment results")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Str("mode", cfg.mode).Msg("failed")
	}
}

func run(ctx context.Context, cfg config) error {
	var store *storage.Store
	if cfg.dbDir != "" {
		var err error
		store, err = storage.Open(cfg.dbDir)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	switch cfg.mode {
	case "selfplay":
		return selfPlay(ctx, cfg, store)
	case "serve":
		srv := server.NewServer(cfg.maxDepth, searcher.WithTimeBudget(cfg.timeBudget))
		return srv.ListenAndServe(ctx, cfg.addr)
	case "experiment":
		return experiments.RunDepthExperiment(ctx, cfg.outDir, store)
	case "throughput":
		configs := []metrics.AgentConfig{{ID: 1, MaxDepth: cfg.maxDepth, TimeBudget: cfg.timeBudget}}
		records, err := experiments.RunThroughputExperiment(ctx, configs, experiments.Positions(20, 1))
		if err != nil {
			return err
		}
		writer, err := metrics.NewWriter(cfg.outDir, "throughput")
		if err != nil {
			return err
		}
		return writer.WriteMoveRecords(records)
	}
	return fmt.Errorf("unknown mode %q", cfg.mode)
}

func selfPlay(ctx context.Context, cfg config, store *storage.Store) error {
	white, err := newPlayer(cfg, cfg.whiteURL, game.White)
	if err != nil {
		return err
	}
	black, err := newPlayer(cfg, cfg.blackURL, game.Black)
	if err != nil {
		white.Close()
		return err
	}

	e := engine.NewLocal(white, black)
	defer e.Close()

	winner, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if winner == "" {
		winner = "nobody"
	}
	log.Info().Str("winner", winner).Int("moves", gameMetric.TotalMoves).Dur("duration", gameMetric.Duration).Msg("game finished")

	if store == nil {
		return nil
	}
	return store.SaveGame(storage.GameRecord{GameMetric: gameMetric, Moves: moveMetrics})
}

func newPlayer(cfg config, url string, side game.Side) (player.Player, error) {
	if url != "" {
		return player.NewRemote(url), nil
	}
	return player.NewSearch(cfg.maxDepth, side, searcher.WithTimeBudget(cfg.timeBudget))
}
