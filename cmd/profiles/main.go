// Command profiles inspects and prepares the PAN author profiling corpus.
//
// Usage:
//
//	profiles download --root ./data
//	profiles stats --lang en --plot
//	profiles inspect 0
//	profiles precompute --workers 8
//
// Settings come from an optional YAML file (--config) and are overridden by
// the command line flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Noofbiz/authorProfiling/datasets"
	"github.com/Noofbiz/authorProfiling/encoders"
	"github.com/Noofbiz/authorProfiling/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	rootFlag   string
	langFlag   string
	minLength  int
	noDownload bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Load PAN author profiling records (texts, images, gender label)",
	Long: `profiles loads the PAN author profiling corpus as fixed-shape records:
every profile becomes a zero-padded document tensor, a 10-slot image tensor
and its gender label.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Read(configPath)
		} else {
			cfg = config.Default()
		}
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}

		zc := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(string(cfg.LogLevel))
		if err != nil {
			level = zapcore.InfoLevel
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&rootFlag, "root", "", "corpus directory (overrides dataset.root)")
	pf.StringVar(&langFlag, "lang", "", "profile language (overrides dataset.lang)")
	pf.IntVar(&minLength, "min-length", 0, "padded document length (overrides dataset.min_length)")
	pf.BoolVar(&noDownload, "no-download", false, "never download the corpus")

	rootCmd.AddCommand(downloadCmd, inspectCmd, statsCmd, precomputeCmd)
}

// applyFlags copies the flags the user actually set over the configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		c.Dataset.Root = rootFlag
	}
	if flags.Changed("lang") {
		c.Dataset.Lang = langFlag
	}
	if flags.Changed("min-length") {
		c.Dataset.MinLength = minLength
	}
	if noDownload {
		c.Dataset.Download = false
	}
}

// openDataset builds the dataset described by the configuration.
func openDataset(ctx context.Context, c *config.Config) (*datasets.AuthorProfilingDataset, error) {
	text, err := textEncoder(c.Encoders)
	if err != nil {
		return nil, err
	}

	opts := datasets.DefaultOptions()
	opts.Root = c.Dataset.Root
	opts.Lang = c.Dataset.Lang
	opts.Download = c.Dataset.Download
	opts.ImageSize = c.Dataset.ImageSize
	opts.EagerLabelValidation = c.Dataset.EagerLabelValidation
	opts.TextEncoder = text
	opts.ImageEncoder = encoders.Pixels{Size: c.Encoders.PixelSize, WithAlpha: c.Encoders.PixelAlpha}
	opts.Provisioner = provisioner(c)
	opts.Logger = logger

	ds, err := datasets.NewAuthorProfilingDataset(ctx, c.Dataset.MinLength, opts)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", c.Dataset.Root, err)
	}
	return ds, nil
}

func provisioner(c *config.Config) *datasets.HTTPProvisioner {
	p := datasets.NewHTTPProvisioner(logger)
	if c.Dataset.DownloadURL != "" {
		p.URL = c.Dataset.DownloadURL
	}
	return p
}

func textEncoder(c config.EncodersConfig) (datasets.TextEncoder, error) {
	switch c.Text {
	case config.TextOneHot:
		return encoders.NewOneHot(c.Alphabet), nil
	case config.TextTokenizer:
		tok, err := encoders.NewTokenizer(c.TokenizerPath)
		if err != nil {
			return nil, err
		}
		tok.MaxTokens = c.MaxTokens
		return tok, nil
	default:
		return encoders.Runes{}, nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
