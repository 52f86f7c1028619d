package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/synapforge/forgellm/internal/inference"
)

func benchmarkCmd() *cli.Command {
	var (
		warmupRuns int64
		benchRuns  int64
		prompt     string
		maxTokens  int64
	)

	flags := append(commonModelFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of benchmark runs",
			Value:       3,
			Destination: &benchRuns,
		},
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text for benchmarking",
			Value:       "Explain the theory of relativity in simple terms.",
			Destination: &prompt,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "number of tokens to generate per run",
			Value:       128,
			Destination: &maxTokens,
		},
	)

	return &cli.Command{
		Name:  "benchmark",
		Usage: "Run standardized generation benchmarks",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyModelConfig(cmd, LoadConfig())
			log := newLogger()

			loadStart := time.Now()
			engine, err := loadEngine(log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load engine: %v", err), 1)
			}
			defer func() { _ = engine.Close() }()
			loadDuration := time.Since(loadStart)

			fmt.Println("=== forgellm benchmark ===")
			fmt.Printf("Backend:    %s\n", backend)
			fmt.Printf("CPUs:       %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Printf("Load:       %s\n", loadDuration.Round(time.Millisecond))
			fmt.Printf("Tokens:     %d per run\n", maxTokens)
			fmt.Printf("Warmup:     %d runs\n", warmupRuns)
			fmt.Printf("Runs:       %d\n", benchRuns)
			fmt.Println()

			seed := int64(42)
			mt := int(maxTokens)
			req, err := inference.ResolveRequest(inference.RequestOptions{
				Prompt:    prompt,
				MaxTokens: &mt,
				Seed:      &seed,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			for i := 0; i < int(warmupRuns); i++ {
				log.Info("warmup run", "run", i+1)
				if _, err := engine.Generate(ctx, req, nil); err != nil {
					return cli.Exit(fmt.Sprintf("error: warmup run %d: %v", i+1, err), 1)
				}
			}

			bar := progressbar.Default(benchRuns, "benchmarking")
			tpsRuns := make([]float64, 0, benchRuns)
			for i := 0; i < int(benchRuns); i++ {
				result, err := engine.Generate(ctx, req, nil)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: run %d: %v", i+1, err), 1)
				}
				tpsRuns = append(tpsRuns, result.Stats.TPS)
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			sort.Float64s(tpsRuns)
			var sum float64
			for _, v := range tpsRuns {
				sum += v
			}
			mean := sum / float64(len(tpsRuns))
			median := tpsRuns[len(tpsRuns)/2]

			fmt.Println()
			fmt.Printf("min:    %.2f tok/s\n", tpsRuns[0])
			fmt.Printf("median: %.2f tok/s\n", median)
			fmt.Printf("mean:   %.2f tok/s\n", mean)
			fmt.Printf("max:    %.2f tok/s\n", tpsRuns[len(tpsRuns)-1])
			return nil
		},
	}
}
