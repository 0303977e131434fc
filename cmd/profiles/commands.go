package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noofbiz/authorProfiling/datasets"
	"github.com/Noofbiz/authorProfiling/internal/config"
	"github.com/Noofbiz/authorProfiling/internal/precompute"
)

var (
	plotFlag    bool
	workersFlag int
	forceFlag   bool
	cacheFlag   string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download and extract the corpus into the root directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cfg.Dataset.Root
		if err := os.MkdirAll(root, 0755); err != nil {
			return fmt.Errorf("create %s: %w", root, err)
		}
		if err := provisioner(cfg).Provision(cmd.Context(), root); err != nil {
			return fmt.Errorf("download corpus: %w", err)
		}
		logger.Info("corpus ready", zap.String("root", root))
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [index]",
	Short: "Print the shapes and label of one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		ds, err := openDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		rec, err := ds.Get(i)
		if err != nil {
			return fmt.Errorf("read record %d: %w", i, err)
		}
		printRecord(cmd.OutOrStdout(), rec)
		return nil
	},
}

func printRecord(w io.Writer, rec datasets.Record) {
	fmt.Fprintf(w, "Profile: %s\n", rec.ID)
	fmt.Fprintf(w, "  Label: %d\n", rec.Label)
	fmt.Fprintf(w, "  Text shape: %v\n", rec.Text.Shape)
	fmt.Fprintf(w, "  Image shape: %v\n", rec.Images.Shape)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize documents, images and labels per profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		s, err := collectStats(ds)
		if err != nil {
			return err
		}
		s.print(cmd.OutOrStdout())

		if plotFlag {
			if err := plotStats(cfg.Stats.PlotDir, ds.Lang(), s); err != nil {
				return fmt.Errorf("plot stats: %w", err)
			}
			logger.Info("wrote plots", zap.String("dir", cfg.Stats.PlotDir))
		}
		return nil
	},
}

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Load every record in parallel and store them in a gob cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pc := cfg.Precompute
		if cmd.Flags().Changed("workers") {
			pc.Workers = workersFlag
		}
		if cmd.Flags().Changed("cache") {
			pc.CachePath = cacheFlag
		}
		pc.Force = pc.Force || forceFlag

		ds, err := openDataset(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		ids := ds.IDs()

		if !pc.Force {
			cached, err := precompute.Load(pc.CachePath)
			switch {
			case err == nil:
				verr := cached.Validate(ds.Lang(), ds.MinLength, cacheParams(cfg), ids)
				if verr == nil {
					logger.Info("cache is up to date", zap.String("path", pc.CachePath), zap.Int("records", len(cached.Records)))
					return nil
				}
				logger.Warn("stale cache, recomputing", zap.String("path", pc.CachePath), zap.Error(verr))
			case errors.Is(err, os.ErrNotExist):
			default:
				logger.Warn("unreadable cache, recomputing", zap.String("path", pc.CachePath), zap.Error(err))
			}
		}

		workers := pc.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		records, err := precompute.Run(cmd.Context(), ds, precompute.Options{
			Workers:          workers,
			ProgressInterval: pc.ProgressInterval,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("precompute records: %w", err)
		}
		if err := precompute.Save(pc.CachePath, precompute.NewCache(ds.Lang(), ds.MinLength, cacheParams(cfg), ids, records)); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
		logger.Info("wrote cache", zap.String("path", pc.CachePath), zap.Int("records", len(records)))
		return nil
	},
}

// cacheParams describes every setting besides lang and min length that
// changes the records.
func cacheParams(c *config.Config) string {
	text := string(c.Encoders.Text)
	switch c.Encoders.Text {
	case config.TextOneHot:
		text += fmt.Sprintf("(%q)", c.Encoders.Alphabet)
	case config.TextTokenizer:
		text += fmt.Sprintf("(%q,%d)", c.Encoders.TokenizerPath, c.Encoders.MaxTokens)
	}
	return fmt.Sprintf("image_size=%d text=%s pixel_size=%d pixel_alpha=%t",
		c.Dataset.ImageSize, text, c.Encoders.PixelSize, c.Encoders.PixelAlpha)
}

func init() {
	statsCmd.Flags().BoolVar(&plotFlag, "plot", false, "write histograms to stats.plot_dir")

	precomputeCmd.Flags().IntVar(&workersFlag, "workers", 0, "number of workers (0 = NumCPU)")
	precomputeCmd.Flags().BoolVar(&forceFlag, "force", false, "recompute even if a valid cache exists")
	precomputeCmd.Flags().StringVar(&cacheFlag, "cache", "", "cache path (overrides precompute.cache_path)")
}
