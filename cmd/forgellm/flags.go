package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/synapforge/forgellm/internal/logger"
)

var (
	backend    string
	device     string
	maxContext int64
	hidden     int64
	modelSeed  int64
	noCache    bool
	logLevel   string
	logFormat  string
	debug      bool
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "inference backend (toy)",
			Value:       "toy",
			Destination: &backend,
		},
		&cli.StringFlag{
			Name:        "device",
			Usage:       "execution device (auto, cpu, cuda, metal)",
			Value:       "auto",
			Destination: &device,
		},
		&cli.Int64Flag{
			Name:        "max-context",
			Aliases:     []string{"max-ctx", "ctx", "c"},
			Usage:       "max context length",
			Value:       4096,
			Destination: &maxContext,
		},
		&cli.Int64Flag{
			Name:        "hidden",
			Usage:       "hidden size for the toy backend",
			Value:       32,
			Destination: &hidden,
		},
		&cli.Int64Flag{
			Name:        "model-seed",
			Usage:       "weight initialization seed for the toy backend",
			Value:       0,
			Destination: &modelSeed,
		},
		&cli.BoolFlag{
			Name:        "no-cache",
			Usage:       "disable the incremental attention cache",
			Destination: &noCache,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Text(os.Stderr, level)
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
