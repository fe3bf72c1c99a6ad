package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/config"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/events"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/events/subscribers"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/report"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/trainer"
)

const maxSummaryRows = 20

var (
	leftKind   string
	rightKind  string
	games      int
	matches    int
	train      bool
	noTrain    bool
	configFile string
	seed       int64
	parallel   int
	reportPath string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blotto",
		Short: "Train and pit Colonel Blotto strategies against each other",
		Long: `Trains two populations of castle-allocation strategies against each
other, then plays exhibition matches between the best member of each side.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&leftKind, "left", "l", "genetic", "Left strategy (random|reinforced|genetic)")
	rootCmd.Flags().StringVarP(&rightKind, "right", "r", "random", "Right strategy (random|reinforced|genetic)")
	rootCmd.Flags().IntVarP(&games, "games", "g", 0, "Total training games (0 uses config)")
	rootCmd.Flags().IntVarP(&matches, "matches", "m", -1, "Exhibition matches after training (-1 uses config)")
	rootCmd.Flags().BoolVar(&train, "train", true, "Train before the exhibition")
	rootCmd.Flags().BoolVar(&noTrain, "no-train", false, "Skip training and play untrained strategies")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses config, which defaults to the clock)")
	rootCmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "Concurrent pairings per round (0 uses config)")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write per-round JSON lines to this file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.Init(configFile); err != nil {
		return err
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("BLOTTO_ENV")); err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd); err != nil {
		return err
	}
	cfg := config.Get()

	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	left, err := strategy.ParseKind(leftKind)
	if err != nil {
		return fmt.Errorf("--left: %w", err)
	}
	right, err := strategy.ParseKind(rightKind)
	if err != nil {
		return fmt.Errorf("--right: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBusWithLogger(log.Logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("cli_event_logger", log.Logger, zerolog.DebugLevel))

	var reporter *report.Writer
	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		reporter = report.NewWriter(f, log.Logger)
		bus.Subscribe(reporter)
	}

	opts := cfg.TrainerOptions()
	tr, err := trainer.New(opts, left, right, log.Logger, bus)
	if err != nil {
		return err
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)
	successColor := color.New(color.FgGreen, color.Bold)

	if !quiet {
		titleColor.Printf("\nColonel Blotto: %s vs %s\n", left, right)
		infoColor.Printf("%d castles, %d armies each, %d rounds\n\n",
			opts.Rules.NumCastles, opts.Rules.Budget, tr.Rounds())
	}

	if train && !noTrain {
		start := time.Now()
		results, err := tr.Train(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if !quiet {
			printRounds(os.Stdout, binRounds(results, maxSummaryRows))
		}
		if err != nil {
			color.Yellow("Training interrupted after %d of %d rounds", len(results), tr.Rounds())
			return nil
		}
		successColor.Printf("Trained %d rounds in %s\n", len(results), time.Since(start).Round(time.Millisecond))
	}

	if reporter != nil {
		if err := reporter.Err(); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	leftBest, err := champion(tr, trainer.Left)
	if err != nil {
		return err
	}
	rightBest, err := champion(tr, trainer.Right)
	if err != nil {
		return err
	}

	n := cfg.Training.NumMatches
	if n == 0 {
		return nil
	}
	exSeed := cfg.Training.Seed
	if exSeed == 0 {
		exSeed = time.Now().UnixNano()
	}
	summary, err := exhibition(ctx, leftBest, rightBest, opts.Rules.PointValues(), n, rand.New(rand.NewSource(exSeed+1)))
	if err != nil {
		return err
	}

	if !quiet {
		printExhibition(os.Stdout, left, right, summary)
	}
	successColor.Printf("%s (left) won %.1f%% of %d exhibition matches\n",
		left, summary.LeftWinPercent(), summary.Played)
	return nil
}

// applyFlagOverrides pushes explicitly set flags into the configuration so
// validation covers them too.
func applyFlagOverrides(cmd *cobra.Command) error {
	flags := cmd.Flags()
	overrides := map[string]interface{}{}
	if flags.Changed("games") {
		overrides["training.num_training_games"] = games
	}
	if flags.Changed("matches") && matches >= 0 {
		overrides["training.num_matches"] = matches
	}
	if flags.Changed("seed") {
		overrides["training.seed"] = seed
	}
	if flags.Changed("parallel") {
		overrides["training.parallelism"] = parallel
	}
	for key, value := range overrides {
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("flag for %s: %w", key, err)
		}
	}
	return nil
}

// champion returns a side's best member, falling back to its first member
// when training was skipped and no best has been tracked.
func champion(tr *trainer.Trainer, side trainer.Side) (strategy.Strategy, error) {
	best, err := tr.Best(side)
	if err == nil {
		return best, nil
	}
	if !errors.Is(err, trainer.ErrNoBest) {
		return nil, err
	}
	members, perr := tr.Population(side)
	if perr != nil {
		return nil, perr
	}
	log.Warn().Str("side", side.String()).Msg("No best member tracked; using the first member")
	return members[0], nil
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	if quiet && logLevel < zerolog.WarnLevel {
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
