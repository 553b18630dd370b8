// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/poiesic/remedymatch"
	"github.com/poiesic/remedymatch/batch"
	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/corpus"
	"github.com/poiesic/remedymatch/extract"
	"github.com/poiesic/remedymatch/httpapi"
	"github.com/poiesic/remedymatch/lookup"
	"github.com/poiesic/remedymatch/lookup/openfda"
	"github.com/poiesic/remedymatch/search"
	"github.com/poiesic/remedymatch/storage/badger"
	"github.com/urfave/cli/v2"
)

const defaultCorpusPath = "expanded_natural_remedy_effects.csv"

func main() {
	_ = godotenv.Load()

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "remedymatch",
		Usage:     "Suggest natural remedies with effects similar to a medicine's indications",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"REMEDYMATCH_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the remedy lookup HTTP API",
				Action: serveCommand,
				Flags: concat(corpusFlags(), rankFlags(), lookupFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Address to listen on",
						Value:   httpapi.DefaultAddr,
						EnvVars: []string{"REMEDYMATCH_ADDR"},
					},
					&cli.StringSliceFlag{
						Name:    "allow-origin",
						Usage:   "Origin allowed to call /api routes (repeatable, * for any)",
						Value:   cli.NewStringSlice("*"),
						EnvVars: []string{"REMEDYMATCH_ALLOW_ORIGINS"},
					},
				}),
			},
			{
				Name:      "match",
				Usage:     "Look up a medicine and print matching remedies",
				ArgsUsage: "NAME",
				Action:    matchCommand,
				Flags: concat(corpusFlags(), rankFlags(), lookupFlags(), []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"},
				}),
			},
			{
				Name:      "extract",
				Usage:     "Condense label text to an effect phrase",
				ArgsUsage: "[TEXT]",
				Action:    extractCommand,
			},
			{
				Name:      "rank",
				Usage:     "Rank the remedy corpus against an effect phrase",
				ArgsUsage: "TEXT",
				Action:    rankCommand,
				Flags: concat(corpusFlags(), rankFlags(), []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"},
				}),
			},
			{
				Name:   "import",
				Usage:  "Load a corpus CSV into a snapshot database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "corpus",
						Aliases:  []string{"c"},
						Usage:    "Path to the remedy CSV (Effect and Remedy columns)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"REMEDYMATCH_DB"},
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Match every medicine name in a file, one per line",
				Action: batchCommand,
				Flags: concat(corpusFlags(), rankFlags(), lookupFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "File of medicine names, one per line (stdin if omitted)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent lookups",
						Value: 4,
					},
					&cli.BoolFlag{Name: "progress", Usage: "Report progress on stderr"},
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
				}),
			},
		},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "corpus",
			Aliases: []string{"c"},
			Usage:   "Path to the remedy CSV (Effect and Remedy columns)",
			Value:   defaultCorpusPath,
			EnvVars: []string{"REMEDYMATCH_CORPUS"},
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Load the corpus from this BadgerDB snapshot instead of the CSV",
			EnvVars: []string{"REMEDYMATCH_DB"},
		},
	}
}

func rankFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "top",
			Usage:   "Maximum number of remedies to return",
			Value:   search.DefaultTopN,
			EnvVars: []string{"REMEDYMATCH_TOP"},
		},
		&cli.Float64Flag{
			Name:    "min-score",
			Usage:   "Only return remedies scoring above this similarity",
			Value:   search.DefaultMinScore,
			EnvVars: []string{"REMEDYMATCH_MIN_SCORE"},
		},
	}
}

func lookupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "fda-url",
			Usage:   "openFDA API base URL",
			Value:   lookup.DefaultBaseURL,
			EnvVars: []string{"REMEDYMATCH_FDA_URL"},
		},
		&cli.StringFlag{
			Name:    "fda-key",
			Usage:   "openFDA API key",
			EnvVars: []string{"OPENFDA_API_KEY"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Timeout for each openFDA request",
			Value:   lookup.DefaultTimeout,
			EnvVars: []string{"REMEDYMATCH_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Usage:   "Retries for timeouts and server errors",
			Value:   0,
			EnvVars: []string{"REMEDYMATCH_MAX_RETRIES"},
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: lookup.DefaultRetryDelay,
		},
	}
}

// loadCorpus reads the snapshot at --db when set, otherwise the --corpus CSV.
// A CSV that cannot be read yields an empty corpus, as the server keeps
// answering label lookups without remedies.
func loadCorpus(c *cli.Context) (*core.Corpus, error) {
	if dbPath := c.String("db"); dbPath != "" {
		repo, err := badger.NewCorpusRepository(dbPath, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer repo.Close()
		return corpus.FromStore(c.Context, repo)
	}
	return corpus.LoadOrEmpty(c.String("corpus"), slog.Default()), nil
}

func searchConfig(c *cli.Context) (*search.Config, error) {
	cfg := search.NewConfig(
		search.WithTopN(c.Int("top")),
		search.WithMinScore(c.Float64("min-score")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking configuration: %w", err)
	}
	return cfg, nil
}

func newLabelSource(c *cli.Context) (lookup.LabelSource, error) {
	cfg := lookup.NewConfig(
		lookup.WithBaseURL(c.String("fda-url")),
		lookup.WithAPIKey(c.String("fda-key")),
		lookup.WithTimeout(c.Duration("timeout")),
		lookup.WithMaxRetries(c.Int("max-retries")),
		lookup.WithRetryDelay(c.Duration("retry-delay")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lookup configuration: %w", err)
	}
	return openfda.NewClient(cfg, openfda.WithLogger(slog.Default()))
}

func newMatcher(c *cli.Context) (*remedymatch.Matcher, error) {
	remedies, err := loadCorpus(c)
	if err != nil {
		return nil, err
	}
	searchCfg, err := searchConfig(c)
	if err != nil {
		return nil, err
	}
	source, err := newLabelSource(c)
	if err != nil {
		return nil, err
	}
	return remedymatch.NewMatcher(source, remedies,
		remedymatch.WithLogger(slog.Default()),
		remedymatch.WithSearchConfig(searchCfg))
}

func serveCommand(c *cli.Context) error {
	matcher, err := newMatcher(c)
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(matcher,
		httpapi.WithLogger(slog.Default()),
		httpapi.WithConfig(httpapi.NewConfig(
			httpapi.WithAddr(c.String("addr")),
			httpapi.WithAllowOrigins(c.StringSlice("allow-origin")...),
		)))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func matchCommand(c *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if name == "" {
		return fmt.Errorf("medicine name is required")
	}

	matcher, err := newMatcher(c)
	if err != nil {
		return err
	}

	report, err := matcher.Match(c.Context, name)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, report)
	}
	fmt.Fprintf(c.App.Writer, "Medicine: %s\n", report.Medicine)
	fmt.Fprintf(c.App.Writer, "Effect:   %s\n", report.Effect)
	printRemedies(c.App.Writer, report.Remedies)
	return nil
}

func extractCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if c.NArg() == 0 {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	fmt.Fprintln(c.App.Writer, extract.Extract(text))
	return nil
}

func rankCommand(c *cli.Context) error {
	effect := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if effect == "" {
		return fmt.Errorf("effect text is required")
	}

	remedies, err := loadCorpus(c)
	if err != nil {
		return err
	}
	cfg, err := searchConfig(c)
	if err != nil {
		return err
	}
	ranker, err := search.NewRanker(search.WithConfig(cfg), search.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	var monitor search.RankMonitor
	if slog.Default().Enabled(c.Context, slog.LevelDebug) {
		monitor = search.NewLogMonitor(slog.Default())
	}
	results := ranker.RankWithMonitor(effect, remedies, monitor)

	if c.Bool("json") {
		return writeJSON(c.App.Writer, results)
	}
	printRemedies(c.App.Writer, results)
	return nil
}

func importCommand(c *cli.Context) error {
	csvPath := c.String("corpus")
	remedies, err := corpus.LoadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	repo, err := badger.NewCorpusRepository(c.String("db"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	meta, err := repo.ReplaceCorpus(c.Context, remedies, csvPath)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d records from %s\n", meta.Count, meta.Source)
	fmt.Fprintf(c.App.Writer, "Fingerprint: %s\n", meta.Fingerprint)
	fmt.Fprintf(c.App.Writer, "Imported at: %s\n", meta.ImportedAt.Format(time.RFC3339))
	return nil
}

func batchCommand(c *cli.Context) error {
	in := c.App.Reader
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open names file: %w", err)
		}
		defer f.Close()
		in = f
	}
	names, err := readNames(in)
	if err != nil {
		return err
	}

	matcher, err := newMatcher(c)
	if err != nil {
		return err
	}

	opts := []batch.Option{
		batch.WithPoolSize(c.Int("workers")),
		batch.WithLogger(slog.Default()),
	}
	if c.Bool("progress") {
		opts = append(opts, batch.WithProgress(c.App.ErrWriter, 1))
	}
	runner, err := batch.NewRunner(matcher, opts...)
	if err != nil {
		return err
	}
	defer runner.Release()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	outcomes := runner.Run(ctx, names)

	if c.Bool("json") {
		return writeJSON(c.App.Writer, batchLines(outcomes))
	}
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(c.App.Writer, "%s\terror: %v\n", o.Medicine, o.Err)
			continue
		}
		top := "-"
		if len(o.Report.Remedies) > 0 {
			top = fmt.Sprintf("%s (%.3f)", o.Report.Remedies[0].Name, o.Report.Remedies[0].Score)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", o.Medicine, top, o.Report.Effect)
	}
	s := batch.Summarize(outcomes)
	fmt.Fprintf(c.App.ErrWriter, "%d names: %d matched, %d not found, %d failed\n",
		s.Total, s.Succeeded, s.NotFound, s.Failed)
	return nil
}

// readNames returns the non-blank, trimmed lines of r.
func readNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names: %w", err)
	}
	return names, nil
}

type batchLine struct {
	Medicine string             `json:"medicine"`
	Effect   string             `json:"effect,omitempty"`
	Remedies []core.MatchResult `json:"remedies,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func batchLines(outcomes []batch.Outcome) []batchLine {
	lines := make([]batchLine, len(outcomes))
	for i, o := range outcomes {
		lines[i].Medicine = o.Medicine
		if o.Err != nil {
			lines[i].Error = o.Err.Error()
			continue
		}
		lines[i].Effect = o.Report.Effect
		lines[i].Remedies = o.Report.Remedies
	}
	return lines
}

func printRemedies(w io.Writer, remedies []core.MatchResult) {
	if len(remedies) == 0 {
		fmt.Fprintln(w, "No matching remedies.")
		return
	}
	fmt.Fprintln(w, "Remedies:")
	for i, r := range remedies {
		fmt.Fprintf(w, "  %d. %s (%.3f) - %s\n", i+1, r.Name, r.Score, r.Effect)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

