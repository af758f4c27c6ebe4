package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/untisstats/untisstats/internal/cache"
	"github.com/untisstats/untisstats/internal/config"
	"github.com/untisstats/untisstats/internal/reconcile"
	"github.com/untisstats/untisstats/internal/report"
	"github.com/untisstats/untisstats/internal/stats"
	"github.com/untisstats/untisstats/internal/timetable"
	"github.com/untisstats/untisstats/internal/untis"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	configPath  string
	lessonsPath string
	verbose     bool
	classNames  []string
	format      string
	outputDir   string
	parallel    int

	logLevel = new(slog.LevelVar)

	// now is replaced in tests.
	now = time.Now

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "untisstats",
		Short: "Attendance statistics per course from a WebUntis timetable.",
		Long: `untisstats fetches the timetable of school classes from WebUntis and reports, per course,
how many lessons took place, were cancelled, or were replaced by an alternative activity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel.Set(slog.LevelDebug)
			} else {
				logLevel.Set(slog.LevelInfo)
			}
		},
	}

	// reportCmd represents the report command
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Generate attendance reports for the configured classes.",
		Long: `Fetches all lessons from the start of the current school year until today, reconciles
cancelled lessons with alternative activities in the same timeslot and writes one report per class.
The text format is printed to standard output; xlsx and yaml reports are written to the output directory.`,
		RunE: runReportCommand,
	}

	// classesCmd represents the classes command
	classesCmd = &cobra.Command{
		Use:   "classes",
		Short: "List the classes a report would be generated for.",
		RunE:  runClassesCommand,
	}

	// initCmd represents the init command
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write an example configuration file.",
		RunE:  runInitCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the TOML configuration file.")
	rootCmd.PersistentFlags().StringVar(&lessonsPath, "lessons", "", "Read lessons from a YAML file instead of WebUntis.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringSliceVar(&classNames, "class", nil, "Class to process (repeatable); overrides the configuration.")

	// Add local flags to the 'report' command
	reportCmd.Flags().StringVar(&format, "format", "", "Report format: text, xlsx or yaml (default from configuration).")
	reportCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for report files (default from configuration).")
	reportCmd.Flags().IntVar(&parallel, "parallel", 0, "Number of classes processed at once (default from configuration).")

	// Add subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(initCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

func runReportCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if format != "" {
		cfg.Format = format
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if parallel > 0 {
		cfg.Parallel = parallel
	}
	if !config.IsValidFormat(cfg.Format) {
		return fmt.Errorf("unsupported report format %q", cfg.Format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	names, err := selectedNames(cfg)
	if err != nil {
		return err
	}

	var reports []stats.ClassReport
	err = withTimetable(ctx, cfg, func(source timetable.Source, directory timetable.Directory) error {
		runner := &stats.Runner{
			Source:    source,
			Directory: directory,
			Engine:    reconcile.NewEngine(cfg.InstructionActivity),
			Parallel:  cfg.Parallel,
			Now:       now,
		}
		reports, err = runner.Run(ctx, names)
		return err
	})
	if err != nil {
		return err
	}

	date := now()
	for _, cr := range reports {
		doc := report.Build(cr, date)
		if cfg.Format == config.FormatText {
			if err := report.Text(cmd.OutOrStdout(), doc); err != nil {
				return err
			}
			continue
		}
		path, err := writeReport(cfg.OutputDir, cfg.Format, doc)
		if err != nil {
			return err
		}
		slog.Info("report written", "class", doc.Class, "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Written %s\n", path)
	}
	return nil
}

func runClassesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	names, err := selectedNames(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withTimetable(ctx, cfg, func(_ timetable.Source, directory timetable.Directory) error {
		all, err := directory.Classes(ctx)
		if err != nil {
			return fmt.Errorf("list classes: %w", err)
		}
		selected, err := timetable.SelectClasses(all, names)
		if err != nil {
			return err
		}
		for _, class := range selected {
			fmt.Fprintln(cmd.OutOrStdout(), class.Name)
		}
		return nil
	})
}

func runInitCommand(cmd *cobra.Command, args []string) error {
	if err := config.WriteExample(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote out an example configuration file '%s'.\nPlease fill out the relevant values.\n", configPath)
	return nil
}

// --- Helper Functions ---

// loadConfig reads the configuration. A missing file is fine when lessons come
// from a file; otherwise an example is written for the user to fill out.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrConfigNotFound) {
		return nil, err
	}
	if lessonsPath != "" {
		return config.Default(), nil
	}
	if writeErr := config.WriteExample(configPath); writeErr != nil {
		slog.Warn("could not write example configuration", "path", configPath, "error", writeErr)
		return nil, err
	}
	return nil, fmt.Errorf("%w; wrote an example to '%s', please fill out the relevant values", err, configPath)
}

func selectedNames(cfg *config.Config) ([]string, error) {
	if len(classNames) > 0 {
		return classNames, nil
	}
	return cfg.ClassNames()
}

// withTimetable opens the configured lesson source for the duration of fn.
func withTimetable(ctx context.Context, cfg *config.Config, fn func(timetable.Source, timetable.Directory) error) error {
	if lessonsPath != "" {
		source, err := timetable.LoadFile(lessonsPath)
		if err != nil {
			return err
		}
		return fn(source, source)
	}
	if cfg.Offline() {
		return errors.New("no server configured; set 'server' in the configuration or use --lessons")
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	client := untis.NewClient(untis.Config{
		Server:    cfg.Server,
		School:    cfg.School,
		Username:  cfg.Username,
		Password:  cfg.Password,
		UserAgent: cfg.UserAgent,
		Location:  loc,
	})
	if err := client.Login(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Logout(context.Background()); err != nil {
			slog.Warn("logout failed", "error", err)
		}
	}()

	var source timetable.Source = client
	if cfg.CacheDir != "" {
		store, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
		source = timetable.NewCachedSource(client, store, client.School(), now)
	}
	return fn(source, client)
}

func writeReport(dir, format string, doc report.Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create output directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, report.Filename(doc.Class, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create report '%s': %w", path, err)
	}
	if err := report.Render(f, format, doc); err != nil {
		f.Close()
		return "", fmt.Errorf("could not write report '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not write report '%s': %w", path, err)
	}
	return path, nil
}
