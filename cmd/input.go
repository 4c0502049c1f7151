package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/cropinsights/internal/dataset"
	"github.com/KaramelBytes/cropinsights/internal/parser"
	"github.com/KaramelBytes/cropinsights/internal/selection"
	"github.com/KaramelBytes/cropinsights/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// shared input flags
var (
	inSheetName  string
	inSheetIndex int
	inDelimiter  string
)

// shared output flags
var (
	outFormat string
	outPath   string
)

// shared filter flags
var (
	fltState    string
	fltDistrict string
	fltCrop     string
	fltSeason   string
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&inSheetName, "sheet-name", "", "XLSX: sheet name to read (default first sheet)")
	c.Flags().IntVar(&inSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (overrides config default)")
	c.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',', ';' or 'tab' (default auto)")
}

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&outFormat, "format", "md", "output format: md|json")
	c.Flags().StringVarP(&outPath, "output", "o", "", "write output to a file instead of stdout")
}

func addFilterFlags(c *cobra.Command, fields ...selection.Field) {
	for _, f := range fields {
		switch f {
		case selection.FieldState:
			c.Flags().StringVar(&fltState, "state", "", "filter by state")
		case selection.FieldDistrict:
			c.Flags().StringVar(&fltDistrict, "district", "", "filter by district")
		case selection.FieldCrop:
			c.Flags().StringVar(&fltCrop, "crop", "", "filter by crop")
		case selection.FieldSeason:
			c.Flags().StringVar(&fltSeason, "season", "", "filter by season")
		}
	}
}

func currentFilter() selection.Filter {
	return selection.Filter{
		State:    strings.TrimSpace(fltState),
		District: strings.TrimSpace(fltDistrict),
		Crop:     strings.TrimSpace(fltCrop),
		Season:   strings.TrimSpace(fltSeason),
	}
}

func parseOptions() (parser.Options, error) {
	opt := parser.Options{SheetName: inSheetName, SheetIndex: inSheetIndex}
	if opt.SheetIndex == 0 {
		opt.SheetIndex = currentConfig().DefaultSheetIndex
	}
	switch inDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", inDelimiter)
	}
	return opt, nil
}

// loadTable parses a dataset file with the shared input flags.
func loadTable(path string) (*parser.Table, error) {
	opt, err := parseOptions()
	if err != nil {
		return nil, err
	}
	tbl, err := parser.ParseFile(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed dataset",
		zap.String("path", path),
		zap.Int("rows", len(tbl.Rows)),
		zap.Strings("header", tbl.Header))
	return tbl, nil
}

// loadSnapshot parses and normalizes a dataset file.
func loadSnapshot(path string) (*dataset.Snapshot, error) {
	tbl, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	return dataset.NewSnapshot(tbl.Name, tbl.Rows), nil
}

type markdowner interface {
	Markdown() string
}

// emit writes v as Markdown or JSON to --output or the command's stdout.
func emit(c *cobra.Command, v markdowner) error {
	var data []byte
	switch strings.ToLower(outFormat) {
	case "md", "markdown", "":
		data = []byte(v.Markdown())
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		data = append(b, '\n')
	default:
		return fmt.Errorf("unsupported --format: %s (use md|json)", outFormat)
	}
	if outPath == "" {
		_, err := c.OutOrStdout().Write(data)
		return err
	}
	if err := utils.WriteOutput(outPath, data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(c.OutOrStdout(), "✓ Wrote %s\n", outPath)
	return nil
}
