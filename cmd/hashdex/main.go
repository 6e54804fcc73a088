package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bamsammich/hashdex/internal/config"
	"github.com/bamsammich/hashdex/internal/engine"
	"github.com/bamsammich/hashdex/internal/event"
	"github.com/bamsammich/hashdex/internal/hasher"
	"github.com/bamsammich/hashdex/internal/stats"
	"github.com/bamsammich/hashdex/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing and pipeline wiring
func run() int {
	var (
		delimiter   string
		hashList    string
		jobs        int
		outputFile  string
		logFile     string
		quiet       bool
		verbose     bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "hashdex [flags] <path> <label>",
		Short: "Bulk file fingerprinting: stream a tree through parallel hash workers",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "hashdex %s\n", version)
				return nil
			}

			root := args[0]
			label := args[1]

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &jobs, &delimiter, &hashList, &quiet)

			// Validate the hash list before anything touches the disk.
			if hashList == "" {
				hashList = hasher.Default()
			}
			algorithms, invalid := hasher.Validate(hashList)
			if len(invalid) > 0 {
				return &exitError{
					code: 2,
					msg: fmt.Sprintf("unsupported hash algorithms: %s (supported: %s)",
						strings.Join(invalid, ", "),
						strings.Join(hasher.Identifiers(), ", ")),
				}
			}

			// Configure logging.
			logLevel := slog.LevelInfo
			if quiet {
				logLevel = slog.LevelWarn
			}
			if verbose {
				logLevel = slog.LevelDebug
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			runID := uuid.New().String()[:8]
			slog.SetDefault(slog.New(logHandler).With("run", runID))

			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			// Records go to stdout unless redirected to a file.
			var out io.Writer = os.Stdout
			if outputFile != "" {
				f, fErr := os.Create(outputFile)
				if fErr != nil {
					return fmt.Errorf("open output file: %w", fErr)
				}
				defer f.Close()
				out = f
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records before forwarding to the presenter.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						attrs := []slog.Attr{
							slog.String("type", ev.Type.String()),
							slog.String("path", ev.Path),
							slog.Int64("size", ev.Size),
							slog.Int("worker", ev.WorkerID),
						}
						if ev.Error != nil {
							attrs = append(attrs, slog.String("error", ev.Error.Error()))
						}
						slog.LogAttrs(context.Background(), slog.LevelInfo, "hashdex.event", attrs...)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Stats:   collector,
				Quiet:   quiet,
				Verbose: verbose,
			})

			slog.Debug("starting run",
				"root", root,
				"label", label,
				"algorithms", algorithms,
				"jobs", jobs,
			)

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engine.Config{
				Root:       root,
				Label:      label,
				Delimiter:  delimiter,
				Algorithms: algorithms,
				Workers:    jobs,
				Out:        out,
				Events:     events,
				Stats:      collector,
			})
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			if !quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if result.Err != nil {
				slog.Error("run failed", "error", result.Err)
				return &exitError{code: 2}
			}
			if result.Stats.FilesFailed > 0 && result.Stats.FilesHashed == 0 {
				// Every discovered file failed; warnings already reported.
				return &exitError{code: 1}
			}
			return nil
		},
	}

	// Version flag handled in RunE, but also register the flag.
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().
		StringVarP(&delimiter, "delimiter", "d", ",", "field delimiter for output records")
	rootCmd.Flags().
		StringVarP(&hashList, "hash-list", "H", "", "comma-separated hash algorithms (default: "+hasher.Default()+")")
	rootCmd.Flags().
		IntVarP(&jobs, "jobs", "j", 0, "number of hash workers (default: NumCPU)")
	rootCmd.Flags().
		StringVarP(&outputFile, "output", "o", "", "write records to FILE instead of stdout")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(algorithmsCmd)
	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			if exitErr.msg != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.msg)
			}
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	jobs *int,
	delimiter *string,
	hashList *string,
	quiet *bool,
) {
	if !cmd.Flags().Changed("jobs") && defaults.Workers != nil {
		*jobs = *defaults.Workers
	}
	if !cmd.Flags().Changed("delimiter") && defaults.Delimiter != nil {
		*delimiter = *defaults.Delimiter
	}
	if !cmd.Flags().Changed("hash-list") && defaults.Algorithms != nil {
		*hashList = *defaults.Algorithms
	}
	if !cmd.Flags().Changed("quiet") && defaults.Quiet != nil {
		*quiet = *defaults.Quiet
	}
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("exit code %d", e.code)
}
