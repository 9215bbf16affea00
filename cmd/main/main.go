package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/CTAG07/babble/pkg/babble"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// rootOptions holds the flag values of the root command.
type rootOptions struct {
	configPath string
	logLevel   string
	dbPath     string
	file       string
	doc        string
	stats      bool
	graph      bool
	count      int
	maxSteps   int
	seed       uint64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "babble",
		Short: "Generate random sentences from a book",
		Long: `babble reads a text, learns which word follows which, and prints
sentences made by randomly walking those word pairs. A sentence starts on a
capitalized word and ends on a word carrying '.', '!' or '?'.

Without --file or --doc the default corpus is used.`,
		Example: `  babble
  babble -f books/war-and-peace.txt -n 3
  babble -f book.txt --stats --graph
  babble corpus add alice alice.txt && babble -d alice`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a JSON config file (created with defaults if missing)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.dbPath, "db", "", "corpus library database (overrides corpus_database_path)")

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "path to the source text file")
	f.StringVarP(&opts.doc, "doc", "d", "", "name of a document in the corpus library")
	f.BoolVarP(&opts.stats, "stats", "s", false, "print word statistics")
	f.BoolVarP(&opts.graph, "graph", "g", false, "print the word graph with start and end words")
	f.IntVarP(&opts.count, "count", "n", 1, "number of sentences to generate")
	f.IntVar(&opts.maxSteps, "max-steps", 0, "maximum walk length, 0 for unbounded (overrides max_steps)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible output")
	cmd.MarkFlagsMutuallyExclusive("file", "doc")

	cmd.AddCommand(newCorpusCmd(opts))
	return cmd
}

// loadRunConfig loads the config file and applies the persistent flag overrides.
func loadRunConfig(cmd *cobra.Command, opts *rootOptions) (*Config, error) {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("db") {
		cfg.CorpusDatabasePath = opts.dbPath
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = opts.maxSteps
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative, got %d", cfg.MaxSteps)
	}
	if opts.count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", opts.count)
	}

	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	out := cmd.OutOrStdout()

	tokens, err := loadTokens(ctx, cfg, sourceSelection{File: opts.file, Doc: opts.doc}, logger)
	if err != nil {
		return err
	}
	model := babble.BuildModel(tokens)

	if opts.stats {
		printStats(out, babble.CountStats(tokens))
	}
	if opts.graph {
		if err = printGraph(out, model); err != nil {
			return fmt.Errorf("failed to print graph: %w", err)
		}
	}

	genOpts := []babble.GenerateOption{
		babble.WithMaxSteps(cfg.MaxSteps),
		babble.WithLogger(logger),
	}
	if cmd.Flags().Changed("seed") {
		genOpts = append(genOpts, babble.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}

	for i := 0; i < opts.count; i++ {
		sentence, err := babble.GenerateSentence(model, genOpts...)
		if err != nil {
			return fmt.Errorf("sentence generation failed: %w", err)
		}
		fmt.Fprintln(out, sentence)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
