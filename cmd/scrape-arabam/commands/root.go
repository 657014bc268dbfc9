// Package commands implements the scrape-arabam command line.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"galeri/internal/logger"
	"galeri/internal/scraper"
)

// NewRootCmd builds the command with its own viper instance so flags, the
// GALERI_* environment and an optional config file all feed the same keys.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "scrape-arabam <gallery-url>",
		Short: "Extract car listings from an arabam.com dealer gallery",
		Long: `scrape-arabam reads a dealer gallery on arabam.com and prints the
listings in the bulk import format accepted by POST /api/v1/admin/cars/bulk.

Examples:
  # Print JSON to stdout
  scrape-arabam "https://www.arabam.com/galeri/ornek-otomotiv"

  # YAML into a file, slower and capped to 5 listing pages
  scrape-arabam "https://www.arabam.com/galeri/ornek-otomotiv" \
      --format yaml --delay 2s --max-pages 5 -o cars.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (yaml)")
	flags.String("format", "json", "output format: json, yaml")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Duration("delay", time.Second, "delay between listing page requests")
	flags.Int("max-pages", 20, "max listing pages visited when the gallery has no table")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "override the browser User-Agent")
	flags.Bool("debug", false, "enable debug logging")

	for _, name := range []string{"config", "format", "output", "delay", "max-pages", "timeout", "user-agent", "debug"} {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
	return cmd
}

func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix("GALERI")
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, url string) error {
	level := "warn"
	if v.GetBool("debug") {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	format := strings.ToLower(v.GetString("format"))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q", format)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := scraper.New(scraper.Config{
		UserAgent: v.GetString("user_agent"),
		Timeout:   v.GetDuration("timeout"),
		Delay:     v.GetDuration("delay"),
		MaxPages:  v.GetInt("max_pages"),
	}, log)

	result, err := s.Scrape(ctx, url)
	if err != nil {
		return err
	}
	log.Info("Scrape finished", zap.Int("cars", result.Count), zap.Int("skipped", len(result.Skipped)))

	out := cmd.OutOrStdout()
	if path := v.GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeResult(out, format, result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d cars found, %d skipped\n", result.Count, len(result.Skipped))
	return nil
}

// writeResult encodes result as indented JSON or YAML.
func writeResult(w io.Writer, format string, result *scraper.Result) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
