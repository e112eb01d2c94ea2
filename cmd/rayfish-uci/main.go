package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/rayfish/internal/book"
	"github.com/hailam/rayfish/internal/engine"
	"github.com/hailam/rayfish/internal/storage"
	"github.com/hailam/rayfish/internal/uci"
)

var (
	hashMB     = flag.Int("hash", 32, "transposition table size in MB")
	moveTime   = flag.Duration("movetime", 5*time.Second, "time per move when no clock is given")
	threads    = flag.Int("threads", 1, "root search goroutines")
	useBook    = flag.Bool("book", true, "play from the built-in opening book")
	logLevel   = flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dataDir    = flag.String("datadir", "", "directory for saved options (default: platform data dir)")
	noStore    = flag.Bool("nostore", false, "do not load or save options")
)

func main() {
	flag.Parse()

	// stdout carries the protocol, logs go to stderr.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("CPU profiling enabled")
	}

	var store *storage.Storage
	opts := storage.DefaultOptions()
	if !*noStore {
		store, err = storage.Open(*dataDir)
		if err != nil {
			log.Warn().Err(err).Msg("options will not be saved")
		} else {
			defer store.Close()
			if opts, err = store.LoadOptions(); err != nil {
				log.Warn().Err(err).Msg("using default options")
			}
		}
	}
	applyFlags(opts)

	cache := engine.NewCache(opts.HashMB, nil)
	bk, err := book.Default(cache.Keys())
	if err != nil {
		log.Fatal().Err(err).Msg("could not load opening book")
	}
	log.Debug().Int("positions", bk.Size()).Msg("opening book loaded")

	eng := engine.NewEngine(cache, engine.Classical{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	protocol := uci.New(eng, bk, opts, store, os.Stdout)
	if err := protocol.Run(ctx, os.Stdin); err != nil {
		log.Error().Err(err).Msg("reading input")
	}
}

// applyFlags overrides saved options with the flags given on the command
// line.
func applyFlags(opts *storage.Options) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hash":
			opts.HashMB = *hashMB
		case "movetime":
			opts.MoveTime = *moveTime
		case "threads":
			opts.Threads = *threads
		case "book":
			opts.OwnBook = *useBook
		}
	})
}
