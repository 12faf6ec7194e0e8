package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"barstack/domain/dataset"
	"barstack/internal/config"
	"barstack/internal/container"
	internaldataset "barstack/internal/dataset"
	"barstack/internal/layout"
	"barstack/internal/render"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "barstack",
		Short:         "Inspect and render the stacked bar chart datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("manifest", "datasets.yaml", "dataset manifest")
	rootCmd.PersistentFlags().Float64("width", 600, "container width in pixels")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "fetch timeout per source")
	rootCmd.PersistentFlags().String("log-level", "ERROR", "log level")
	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("BARSTACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newDatasetsCmd(),
		newSummaryCmd(),
		newLayoutCmd(),
		newRenderCmd(),
		newPreviewCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// load builds a container from the flags and loads every dataset in the manifest.
func load(ctx context.Context) (*container.Container, error) {
	cfg := &config.Config{
		Data: config.DataConfig{
			ManifestPath: viper.GetString("manifest"),
			FetchTimeout: viper.GetDuration("timeout"),
		},
		Chart: config.ChartConfig{
			HeightRelativeToWidth: 0.62,
			BreakpointSmallScreen: 400,
			DefaultWidth:          viper.GetFloat64("width"),
			Palette:               config.DefaultPalette,
		},
		Log: config.LogConfig{Level: viper.GetString("log_level")},
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.LoadDatasets(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// lookup resolves an optional dataset argument, defaulting to the first dataset.
func lookup(c *container.Container, args []string) (dataset.Entry, error) {
	if len(args) == 0 {
		return c.Selector.Current()
	}
	return c.Registry.Get(args[0])
}

func computeLayout(c *container.Container, entry dataset.Entry) (layout.Layout, error) {
	width := c.Config.Chart.DefaultWidth
	if !(width > 0) || math.IsInf(width, 0) {
		return layout.Layout{}, fmt.Errorf("--width must be a positive number, got %v", width)
	}
	return layout.Compute(entry.Data, entry.Metadata, width, c.Config.Chart.LayoutProps())
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the datasets in dropdown order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			for i, key := range c.Registry.Keys() {
				entry, err := c.Registry.Get(key)
				if err != nil {
					return err
				}
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf("%s %s %s\n", marker, heading(key),
					faint(fmt.Sprintf("(%d rows, sort %s, %s)", len(entry.Data.Rows), entry.Metadata.SortName(), strings.Join(entry.Data.SubGroups, "+"))))
			}
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [dataset]",
		Short: "Print the row totals and their statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := lookup(c, args)
			if err != nil {
				return err
			}
			totals, err := internaldataset.Aggregate(entry.Data)
			if err != nil {
				return err
			}
			summary, err := internaldataset.Summarize(totals)
			if err != nil {
				return err
			}

			fmt.Println(heading(entry.Metadata.Label))
			for i, row := range entry.Data.Rows {
				fmt.Printf("  %-24s %12.2f\n", row.YVal.Label, totals[i])
			}
			fmt.Println(faint(fmt.Sprintf("  rows=%d min=%.2f max=%.2f mean=%.2f median=%.2f sum=%.2f",
				summary.Rows, summary.Min, summary.Max, summary.Mean, summary.Median, summary.Sum)))
			return nil
		},
	}
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Print the computed layout as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := lookup(c, args)
			if err != nil {
				return err
			}
			l, err := computeLayout(c, entry)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(l)
		},
	}
}

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Write the chart as a standalone HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := lookup(c, args)
			if err != nil {
				return err
			}
			l, err := computeLayout(c, entry)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := render.RenderPage(f, entry, l, render.PageOptions{}); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.GreenString("wrote"), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "chart.html", "output file")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var cols int
	cmd := &cobra.Command{
		Use:   "preview [dataset]",
		Short: "Draw the chart in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := lookup(c, args)
			if err != nil {
				return err
			}
			l, err := computeLayout(c, entry)
			if err != nil {
				return err
			}
			fmt.Println(render.Terminal(entry, l, cols))
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 60, "bar area width in characters")
	return cmd
}
