package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/analysis"
	"github.com/KaramelBytes/cropinsights/internal/chart"
	"github.com/KaramelBytes/cropinsights/internal/selection"
	"github.com/KaramelBytes/cropinsights/internal/utils"
	"github.com/spf13/cobra"
)

var chartKind string

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Render an insights chart (district, share or trend) to PNG or SVG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(chartKind)
		if err != nil {
			return err
		}
		if outPath == "" {
			return fmt.Errorf("--output is required (e.g. -o trend.png)")
		}
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
		if format != "png" && format != "svg" {
			return fmt.Errorf("unsupported chart extension %q (use .png or .svg)", filepath.Ext(outPath))
		}
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		view := analysis.InsightsView(snap, currentFilter())
		var pts []aggregate.Point
		switch kind {
		case chart.KindShare:
			pts = view.CropShare
		case chart.KindTrend:
			pts = view.Trend
		default:
			pts = view.ProductionByDistrict
		}
		c := currentConfig()
		var buf bytes.Buffer
		if err := chart.Render(&buf, kind, pts, chart.Options{
			WidthIn:  c.ChartWidthIn,
			HeightIn: c.ChartHeightIn,
			Format:   format,
		}); err != nil {
			return err
		}
		if err := utils.WriteOutput(outPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart to %s\n", kind, outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addInputFlags(chartCmd)
	addFilterFlags(chartCmd, selection.FieldState, selection.FieldDistrict, selection.FieldCrop, selection.FieldSeason)
	chartCmd.Flags().StringVar(&chartKind, "kind", "district", "chart kind: district|share|trend")
	chartCmd.Flags().StringVarP(&outPath, "output", "o", "", "output image path (.png or .svg)")
}
