package cmd

import (
	"github.com/KaramelBytes/cropinsights/internal/analysis"
	"github.com/KaramelBytes/cropinsights/internal/selection"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize production metrics and series for a filtered dataset",
	Long: `Loads the dataset and prints the insights view: total production, average
yield, production by district, crop share and the yearly production trend.
Filters narrow the records first; an empty filter means all records.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		return emit(cmd, analysis.InsightsView(snap, currentFilter()))
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <file>",
	Short: "Print the filtered record table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		return emit(cmd, analysis.DashboardView(snap, currentFilter()))
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile the raw columns of a dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(args[0])
		if err != nil {
			return err
		}
		return emit(cmd, analysis.Profile(tbl.Name, tbl.Header, tbl.Rows))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addInputFlags(analyzeCmd)
	addOutputFlags(analyzeCmd)
	addFilterFlags(analyzeCmd, selection.FieldState, selection.FieldDistrict, selection.FieldCrop, selection.FieldSeason)

	rootCmd.AddCommand(dashboardCmd)
	addInputFlags(dashboardCmd)
	addOutputFlags(dashboardCmd)
	addFilterFlags(dashboardCmd, selection.FieldState, selection.FieldDistrict, selection.FieldCrop)

	rootCmd.AddCommand(profileCmd)
	addInputFlags(profileCmd)
	addOutputFlags(profileCmd)
}
