package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/cropinsights/internal/analysis"
	"github.com/KaramelBytes/cropinsights/internal/options"
	"github.com/KaramelBytes/cropinsights/internal/selection"
	"github.com/spf13/cobra"
)

var (
	assistArea float64
	optView    string
)

var assistCmd = &cobra.Command{
	Use:   "assist <file>",
	Short: "Score a (state, crop) choice and suggest alternatives",
	Long: `Runs the farmer-assistant heuristics for the selected state and crop:
suitability score, yield risk, a rotation suggestion and recommendations.
--area adds an estimated production for the planned area (ha).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if assistArea < 0 {
			return fmt.Errorf("--area must be >= 0")
		}
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		f := currentFilter()
		if f.State == "" || f.Crop == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Select both --state and --crop for a full assessment")
		}
		return emit(cmd, analysis.AssistantView(snap, f, assistArea))
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "List crops grown in every state, or one state's records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		return emit(cmd, analysis.MapView(snap, currentFilter().State))
	},
}

type namedList struct {
	Name   string
	Values []string
}

// optionLists holds a view's option sets for rendering.
type optionLists struct {
	View    selection.View `json:"view"`
	Options any            `json:"options"`

	lists []namedList
	state []options.StateCrops
}

func (o optionLists) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[OPTIONS: %s]\n", strings.ToUpper(string(o.View))))
	for _, l := range o.lists {
		b.WriteString(fmt.Sprintf("%s (%d): %s\n", l.Name, len(l.Values), strings.Join(l.Values, ", ")))
	}
	for _, sc := range o.state {
		b.WriteString(fmt.Sprintf("- %s: %s\n", sc.State, strings.Join(sc.Crops, ", ")))
	}
	return b.String()
}

var optionsCmd = &cobra.Command{
	Use:   "options <file>",
	Short: "Print the selectable values of a view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view := selection.View(strings.ToLower(strings.TrimSpace(optView)))
		if _, err := selection.RulesFor(view); err != nil {
			return err
		}
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		f := currentFilter()
		out := optionLists{View: view}
		switch view {
		case selection.ViewDashboard:
			o := options.ForDashboard(snap.Records, f.State, f.District)
			out.Options = o
			out.lists = []namedList{{"States", o.States}, {"Districts", o.Districts}, {"Crops", o.Crops}}
		case selection.ViewInsights:
			o := options.ForInsights(snap.Records, f.State)
			out.Options = o
			out.lists = []namedList{{"States", o.States}, {"Districts", o.Districts}, {"Crops", o.Crops}, {"Seasons", o.Seasons}}
		case selection.ViewAssistant:
			o := options.ForAssistant(snap.Records, f.State)
			out.Options = o
			out.lists = []namedList{{"States", o.States}, {"Crops", o.Crops}}
		case selection.ViewMap:
			o := options.ForMap(snap.Records)
			out.Options = o
			out.state = o
		}
		return emit(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
	addInputFlags(assistCmd)
	addOutputFlags(assistCmd)
	addFilterFlags(assistCmd, selection.FieldState, selection.FieldCrop)
	assistCmd.Flags().Float64Var(&assistArea, "area", 0, "planned area in hectares for a production estimate")

	rootCmd.AddCommand(mapCmd)
	addInputFlags(mapCmd)
	addOutputFlags(mapCmd)
	addFilterFlags(mapCmd, selection.FieldState)

	rootCmd.AddCommand(optionsCmd)
	addInputFlags(optionsCmd)
	addOutputFlags(optionsCmd)
	addFilterFlags(optionsCmd, selection.FieldState, selection.FieldDistrict)
	optionsCmd.Flags().StringVar(&optView, "view", "dashboard", "view: dashboard|insights|assistant|map")
}
