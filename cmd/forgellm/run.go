package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/synapforge/forgellm/internal/inference"
	"github.com/synapforge/forgellm/internal/logger"
)

func loadEngine(log logger.Logger) (inference.Engine, error) {
	return inference.Load(inference.LoadOptions{
		Backend:       backend,
		Device:        device,
		ContextLength: int(maxContext),
		Hidden:        int(hidden),
		Seed:          modelSeed,
		NoCache:       noCache,
		Log:           log,
	})
}

func runCmd() *cli.Command {
	var (
		prompt        string
		maxTokens     int64
		temp          float64
		topK          int64
		topP          float64
		repeatPenalty float64
		repeatLastN   int64
		seed          int64
		showStats     bool
	)

	flags := append(commonModelFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "prompt",
			Aliases:     []string{"p"},
			Usage:       "prompt text; omit for an interactive session",
			Destination: &prompt,
		},
		&cli.Int64Flag{
			Name:        "max-tokens",
			Aliases:     []string{"n"},
			Usage:       "number of tokens to generate",
			Value:       256,
			Destination: &maxTokens,
		},
		&cli.Float64Flag{
			Name:        "temp",
			Aliases:     []string{"temperature", "t"},
			Usage:       "sampling temperature (0 = greedy)",
			Value:       0.8,
			Destination: &temp,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Aliases:     []string{"top_k", "topk"},
			Usage:       "top-k sampling parameter (0 = disabled)",
			Value:       0,
			Destination: &topK,
		},
		&cli.Float64Flag{
			Name:        "top-p",
			Aliases:     []string{"top_p", "topp"},
			Usage:       "top-p sampling parameter (0 = disabled)",
			Value:       0,
			Destination: &topP,
		},
		&cli.Float64Flag{
			Name:        "repeat-penalty",
			Aliases:     []string{"repeat_penalty"},
			Usage:       "repetition penalty (1.0 = disabled)",
			Value:       1.1,
			Destination: &repeatPenalty,
		},
		&cli.Int64Flag{
			Name:        "repeat-last-n",
			Aliases:     []string{"repeat_last_n"},
			Usage:       "last n tokens to penalize",
			Value:       64,
			Destination: &repeatLastN,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed",
			Value:       299792458,
			Destination: &seed,
		},
		&cli.BoolFlag{
			Name:        "stats",
			Usage:       "print throughput stats after generation",
			Destination: &showStats,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Generate text from a prompt",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyRunConfig(cmd, LoadConfig(), &temp, &topK, &topP, &repeatPenalty, &maxTokens, &seed)
			log := newLogger()

			engine, err := loadEngine(log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load engine: %v", err), 1)
			}
			defer func() { _ = engine.Close() }()

			generate := func(text string) error {
				mt := int(maxTokens)
				tk := int(topK)
				rp := float32(repeatPenalty)
				rn := int(repeatLastN)
				req, err := inference.ResolveRequest(inference.RequestOptions{
					Prompt:        text,
					MaxTokens:     &mt,
					Seed:          &seed,
					Temperature:   &temp,
					TopK:          &tk,
					TopP:          &topP,
					RepeatPenalty: &rp,
					RepeatLastN:   &rn,
				})
				if err != nil {
					return err
				}
				result, err := engine.Generate(ctx, req, func(chunk string) error {
					_, err := fmt.Print(chunk)
					return err
				})
				if err != nil {
					return err
				}
				fmt.Println()
				if showStats {
					fmt.Printf("[%d tokens, %.2f tok/s, finish: %s]\n",
						result.Stats.TokensGenerated, result.Stats.TPS, result.FinishReason)
				}
				return nil
			}

			if prompt != "" {
				return generate(prompt)
			}

			// Interactive session: one generation per line.
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}
				if err := generate(line); err != nil {
					log.Error("generation failed", "error", err)
				}
			}
		},
	}
}
