package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/synapforge/forgellm/internal/api"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		modelName   string
		readTimeout time.Duration
		rateLimit   float64
		rateBurst   int64
	)

	flags := append(commonModelFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "model-name",
			Usage:       "model id advertised by the API",
			Value:       "forgellm",
			Destination: &modelName,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read header timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Float64Flag{
			Name:        "rate-limit",
			Usage:       "per-client requests per second (0 = unlimited)",
			Value:       0,
			Destination: &rateLimit,
		},
		&cli.Int64Flag{
			Name:        "rate-burst",
			Usage:       "per-client burst size",
			Value:       10,
			Destination: &rateBurst,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the OpenAI-compatible REST API",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr, &rateLimit)
			log := newLogger()

			engine, err := loadEngine(log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load engine: %v", err), 1)
			}

			provider := api.NewSingleEngineProvider(modelName, engine)
			defer func() { _ = provider.Close() }()

			server := api.NewServer(provider, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			if rateLimit > 0 {
				e.Use(api.RateLimit(rateLimit, int(rateBurst)))
			}
			server.Register(e)

			log.Info("starting server", "address", addr, "model", modelName)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
