package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/listonce/cache"
	"github.com/s0up4200/listonce/config"
	"github.com/s0up4200/listonce/filter"
	"github.com/s0up4200/listonce/listonce"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *listonce.Client
	store     cache.Store
	filters   *filter.Manager
	evaluator *filter.Evaluator
	printer   *Printer
	timeout   time.Duration
	noCache   bool
	logLevel  string
	output    string

	version   = "dev"
	buildTime = "unknown"
)

// exampleFilter is shown in the help text. num() accepts the numeric
// strings the API often sends.
const exampleFilter = `num(price) < 800000 and num(bedrooms) >= 3`

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listonce",
	Short: "Query the ListOnce real-estate listing API",
	Long: `listonce is a CLI for the ListOnce REST API. It searches listings,
inspection times and auctions, browses offices, agents and news, manages
search alerts and sends enquiries.

Results can be narrowed client side with filter expressions, e.g.
  listonce search listings -f '` + exampleFilter + `'`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build metadata injected by the linker.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format: console or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	rootCmd.AddCommand(testCmd)
}

// skipInit lists commands that run without configuration.
var skipInit = map[string]bool{
	"version":     true,
	"self-update": true,
	"help":        true,
	"completion":  true,
}

// initializeApp loads the configuration and builds the client
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipInit[cmd.Name()] || (cmd.Parent() != nil && skipInit[cmd.Parent().Name()]) {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		printer = NewPrinter(os.Stdout, "console")
		return nil
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if output != "" {
		cfg.Output.Format = output
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)
	printer = NewPrinter(os.Stdout, cfg.Output.Format)

	opts := []listonce.Option{
		listonce.WithBaseURL(cfg.ListOnce.BaseURL),
		listonce.WithTimeout(cfg.ListOnce.Timeout),
		listonce.WithMaxRetries(cfg.ListOnce.MaxRetries),
		listonce.WithRateLimit(cfg.ListOnce.RateLimit, cfg.ListOnce.Burst),
		listonce.WithUserAgent(cfg.ListOnce.UserAgent),
	}

	if !noCache {
		store, err = cache.Open(cmd.Context(), cacheOptions(cfg.Cache))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if store != nil {
			logger.Debug().Str("backend", cfg.Cache.Backend).Msg("Response cache enabled")
			opts = append(opts, listonce.WithCache(store))
		}
	}

	client, err = listonce.NewClient(cfg.ListOnce.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create ListOnce client: %w", err)
	}

	evaluator = filter.NewEvaluator()
	filters = filter.NewManager(filter.WithEvaluator(evaluator))
	if err := filters.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("invalid filter in config: %w", err)
	}

	return nil
}

func closeApp() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	if err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	return nil
}

func cacheOptions(c config.CacheConfig) cache.Options {
	return cache.Options{
		Backend:       c.Backend,
		MemoryEntries: c.MemoryEntries,
		SQLitePath:    c.SQLitePath,
		Redis: cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
	}
}

// commandContext bounds a command by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(writer).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the ListOnce API",
	Long:  `Test the API key against the ListOnce API and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	fmt.Printf("Testing connection to ListOnce at %s...\n", cfg.ListOnce.BaseURL)

	if err := client.TestConnection(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	fmt.Printf("\nSettings:\n")
	fmt.Printf("- Cache: %s\n", backendStatus(cfg.Cache.Backend))
	if cfg.ListOnce.RateLimit > 0 {
		fmt.Printf("- Rate limit: %.2f req/s (burst %d)\n", cfg.ListOnce.RateLimit, cfg.ListOnce.Burst)
	} else {
		fmt.Printf("- Rate limit: Disabled\n")
	}

	names := filters.ListFilters()
	if len(names) > 0 {
		fmt.Printf("\nConfigured filters:\n")
		for _, name := range names {
			f, _ := filters.GetFilter(name)
			fmt.Printf("  • %s: %s\n", name, f.Expression())
		}
	}

	return nil
}

func backendStatus(backend string) string {
	if noCache || backend == "" || strings.EqualFold(backend, cache.BackendNone) {
		return "Disabled"
	}
	return backend
}
