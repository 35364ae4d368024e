package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/clients"
	"github.com/mzackyaulya/sentikom/internal/export"
	"github.com/mzackyaulya/sentikom/internal/fetch"
	"github.com/mzackyaulya/sentikom/internal/sentiment"
	"github.com/mzackyaulya/sentikom/internal/summary"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:    "sentikom",
		Usage:   "Analisis sentimen komentar video TikTok",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(cfg),
		},
	}
}

func analyzeCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Fetch comments for a video URL and print sentiment counts",
		ArgsUsage: "<tiktok-url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Aliases: []string{"o"}, Usage: "Write the labeled comments to an xlsx file"},
			&cli.BoolFlag{Name: "summary", Usage: "Ask OpenAI for a short recap (needs OPENAI_API_KEY)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: sentikom analyze <tiktok-url>", 1)
			}

			resolver := canonical.NewResolver(10*time.Second, clients.BROWSER_USER_AGENT)
			url := resolver.Canonicalize(c.Context, c.Args().First())
			if !canonical.Valid(canonical.StripQuery(url)) {
				return cli.Exit("not a TikTok video URL", 1)
			}

			var fallback fetch.Source
			if tiktok, err := clients.NewTikTokClient(cfg); err == nil {
				fallback = tiktok
			}
			orch := fetch.NewOrchestrator(
				clients.NewApifyClient(cfg), fallback,
				cfg.Fetch.Target, cfg.Fetch.MinAcceptable,
			)

			comments, err := orch.Fetch(c.Context, url)
			if err != nil {
				return cli.Exit(fmt.Sprintf("fetching comments failed: %v", err), 1)
			}

			pipeline := sentiment.NewPipeline(
				sentiment.NewLexicon(cfg),
				sentiment.NewRemoteClassifier(clients.NewHuggingFaceClient(cfg), cfg),
			)
			labeled := pipeline.Classify(c.Context, comments)
			res := sentiment.BuildResult(url, labeled)

			fmt.Printf("komentar : %d\n", res.Counts.Total())
			fmt.Printf("positif  : %d\n", res.Counts.Positive)
			fmt.Printf("netral   : %d\n", res.Counts.Neutral)
			fmt.Printf("negatif  : %d\n", res.Counts.Negative)

			if c.Bool("summary") {
				if s := summary.New(cfg); s != nil {
					if text, err := s.Summarize(c.Context, res); err == nil {
						fmt.Printf("\n%s\n", text)
					}
				} else {
					fmt.Fprintln(os.Stderr, "summary skipped: OPENAI_API_KEY is not set")
				}
			}

			if path := c.String("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("creating %s failed: %v", path, err), 1)
				}
				defer f.Close()
				if err := export.Write(res, f); err != nil {
					return cli.Exit(fmt.Sprintf("writing workbook failed: %v", err), 1)
				}
				fmt.Printf("\nsaved %s\n", path)
			}
			return nil
		},
	}
}
