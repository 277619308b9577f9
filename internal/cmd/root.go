// Package cmd provides the command-line interface for JobCrawler.
// It handles command parsing, configuration loading, and crawl execution.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/masahif/jobcrawler/internal/config"
	"github.com/masahif/jobcrawler/internal/crawler"
	"github.com/masahif/jobcrawler/internal/filter"
	"github.com/masahif/jobcrawler/internal/logging"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jobcrawler [SEED_URL]",
	Short: "A bounded, breadth-first job listing crawler",
	Long: `JobCrawler crawls a job board starting from a seed page.

It visits pages in order of link distance from the seed, collects job
listings until the record budget is met, and prints the listings together
with a trace of every crawl decision.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCrawl,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, cancelling the crawl when ctx ends
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := config.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jobcrawler.yml)")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")

	// Crawl flags
	rootCmd.Flags().IntP("budget", "b", defaults.Budget, "Stop after N accepted job records")
	rootCmd.Flags().DurationP("delay", "r", defaults.RequestDelay, "Delay between requests to the same host")
	rootCmd.Flags().DurationP("timeout", "t", defaults.RequestTimeout, "Timeout of a single fetch")
	rootCmd.Flags().StringP("user-agent", "u", defaults.UserAgent, "HTTP User-Agent header")
	rootCmd.Flags().Bool("respect-robots", defaults.RespectRobots, "Respect robots.txt rules")
	rootCmd.Flags().Int("max-retries", defaults.MaxRetries, "Extra attempts for timeouts, connection errors and 5xx/429 responses")
	rootCmd.Flags().Duration("retry-backoff", defaults.RetryBackoff, "Wait before the first retry, doubled for each further retry")
	rootCmd.Flags().Duration("crawl-timeout", defaults.CrawlTimeout, "Overall crawl deadline (0=none)")
	rootCmd.Flags().Bool("dedupe-on-push", defaults.DedupeOnPush, "Do not queue links that are already visited or queued")

	// Extraction flags
	rootCmd.Flags().String("origin", defaults.Extract.Origin, "Origin joined with relative listing links")
	rootCmd.Flags().String("link-prefix", defaults.Extract.LinkPrefix, "Only follow hrefs starting with this prefix")
	rootCmd.Flags().String("listing-selector", defaults.Extract.ListingSelector, "CSS selector of a listing")
	rootCmd.Flags().String("title-selector", defaults.Extract.TitleSelector, "CSS selector of a listing title")
	rootCmd.Flags().String("location-selector", defaults.Extract.LocationSelector, "CSS selector of a listing location")
	rootCmd.Flags().String("company", defaults.Extract.Company, "Company recorded for every listing")

	// Output flags
	rootCmd.Flags().StringSlice("exclude-location", defaults.ExcludedLocations, "Drop listings whose location contains this name (case-insensitive)")
	rootCmd.Flags().StringP("format", "f", defaults.OutputFormat, "Output format: 'json' or 'yaml'")

	// Logging flags
	rootCmd.Flags().String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.Flags().String("log-format", defaults.LogFormat, "Log format: 'json' or 'text'")
	rootCmd.Flags().String("log-file", defaults.LogFile, "Also write logs to this file, rotated by size")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"budget", "budget"},
		{"request_delay", "delay"},
		{"request_timeout", "timeout"},
		{"user_agent", "user-agent"},
		{"respect_robots", "respect-robots"},
		{"max_retries", "max-retries"},
		{"retry_backoff", "retry-backoff"},
		{"crawl_timeout", "crawl-timeout"},
		{"dedupe_on_push", "dedupe-on-push"},
		{"extract.origin", "origin"},
		{"extract.link_prefix", "link-prefix"},
		{"extract.listing_selector", "listing-selector"},
		{"extract.title_selector", "title-selector"},
		{"extract.location_selector", "location-selector"},
		{"extract.company", "company"},
		{"excluded_locations", "exclude-location"},
		{"output_format", "format"},
		{"log_level", "log-level"},
		{"log_format", "log-format"},
		{"log_file", "log-file"},
	}

	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}

	// Keys without a flag must still be known to viper for JC_ overrides to apply
	viper.SetDefault("seed_url", defaults.SeedURL)
	viper.SetDefault("extract.salary", defaults.Extract.Salary)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("jobcrawler")
	}

	viper.SetEnvPrefix("JC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges viper values and positional arguments over the defaults
func loadConfig(args []string) (*config.CrawlConfig, error) {
	cfg := config.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(args) > 0 {
		cfg.SeedURL = args[0]
	}

	return cfg, nil
}

func showCurrentConfig(w io.Writer, cfg *config.CrawlConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Configuration validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Displaying configuration anyway...\n\n")
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Fprintf(w, "# Current JobCrawler Configuration\n")
	fmt.Fprintf(w, "# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Configuration file search paths: ./jobcrawler.yml\n")
	fmt.Fprintf(w, "# Environment variables prefix: JC_\n\n")

	_, err = w.Write(yamlData)
	return err
}

// crawlOutput is the document printed after a crawl
type crawlOutput struct {
	Jobs  []crawler.JobRecord `json:"jobs" yaml:"jobs"`
	Logs  []string            `json:"logs" yaml:"logs"`
	Stats crawler.CrawlStats  `json:"stats" yaml:"stats"`
}

func writeOutput(w io.Writer, format string, out *crawlOutput) error {
	switch strings.ToLower(format) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	showConfig, _ := cmd.Flags().GetBool("show-config")

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if showConfig {
		return showCurrentConfig(cmd.OutOrStdout(), cfg)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logCfg.FilePath = cfg.LogFile
	logCfg.Output = cmd.ErrOrStderr()

	logCloser, err := logging.SetDefault(*logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	c, err := crawler.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize crawler: %w", err)
	}
	defer func() { _ = c.Close() }()

	result := c.Crawl(cmd.Context(), cfg.SeedURL, cfg.Budget)

	jobs := filter.NewLocationFilter(cfg.ExcludedLocations).Apply(result.Results)
	if excluded := len(result.Results) - len(jobs); excluded > 0 {
		slog.Info("Excluded listings by location", "count", excluded)
	}

	return writeOutput(cmd.OutOrStdout(), cfg.OutputFormat, &crawlOutput{
		Jobs:  jobs,
		Logs:  result.Logs,
		Stats: result.Stats,
	})
}
