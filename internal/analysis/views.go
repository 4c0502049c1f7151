// Package analysis composes the per-view results served by the CLI and the
// HTTP API, and renders them as Markdown.
package analysis

import (
	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/assistant"
	"github.com/KaramelBytes/cropinsights/internal/dataset"
	"github.com/KaramelBytes/cropinsights/internal/options"
	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/KaramelBytes/cropinsights/internal/selection"
)

// Dashboard is the filtered record table with its option lists.
type Dashboard struct {
	Source  string               `json:"source"`
	Filter  selection.Filter     `json:"filter"`
	Options options.Dashboard    `json:"options"`
	Metrics aggregate.Metrics    `json:"metrics"`
	Records []records.CropRecord `json:"records"`
}

// Insights holds the charts-and-metrics view.
type Insights struct {
	Source               string            `json:"source"`
	Filter               selection.Filter  `json:"filter"`
	Options              options.Insights  `json:"options"`
	Metrics              aggregate.Metrics `json:"metrics"`
	ProductionByDistrict []aggregate.Point `json:"production_by_district"`
	CropShare            []aggregate.Point `json:"crop_share"`
	Trend                []aggregate.Point `json:"trend"`
}

// Assistant wraps the heuristic result with its option lists.
type Assistant struct {
	Source  string            `json:"source"`
	Options options.Assistant `json:"options"`
	Result  assistant.Result  `json:"result"`
}

// Map lists every state's crops and the records of one clicked state.
type Map struct {
	Source  string               `json:"source"`
	States  []options.StateCrops `json:"states"`
	State   string               `json:"state,omitempty"`
	Crops   []string             `json:"crops"`
	Records []records.CropRecord `json:"records"`
}

func recordsOf(s *dataset.Snapshot) []records.CropRecord {
	if s == nil {
		return nil
	}
	return s.Records
}

func sourceOf(s *dataset.Snapshot) string {
	if s == nil {
		return ""
	}
	return s.Source
}

// DashboardView narrows by state, district and crop. Season is not a
// dashboard control and is ignored.
func DashboardView(s *dataset.Snapshot, f selection.Filter) Dashboard {
	recs := recordsOf(s)
	f.Season = ""
	filtered := f.Apply(recs)
	return Dashboard{
		Source:  sourceOf(s),
		Filter:  f,
		Options: options.ForDashboard(recs, f.State, f.District),
		Metrics: aggregate.Summarize(filtered),
		Records: filtered,
	}
}

// InsightsView computes metrics and series over every filter field.
func InsightsView(s *dataset.Snapshot, f selection.Filter) Insights {
	recs := recordsOf(s)
	filtered := f.Apply(recs)
	return Insights{
		Source:               sourceOf(s),
		Filter:               f,
		Options:              options.ForInsights(recs, f.State),
		Metrics:              aggregate.Summarize(filtered),
		ProductionByDistrict: aggregate.ProductionByDistrict(filtered),
		CropShare:            aggregate.CropProportion(filtered),
		Trend:                aggregate.YearlyTrend(filtered),
	}
}

// AssistantView runs the heuristics for the (state, crop) of f.
func AssistantView(s *dataset.Snapshot, f selection.Filter, plannedArea float64) Assistant {
	recs := recordsOf(s)
	return Assistant{
		Source:  sourceOf(s),
		Options: options.ForAssistant(recs, f.State),
		Result:  assistant.Analyze(recs, f.State, f.Crop, assistant.Options{PlannedArea: plannedArea}),
	}
}

// MapView returns per-state crop lists plus the selected state's records.
func MapView(s *dataset.Snapshot, state string) Map {
	recs := recordsOf(s)
	m := Map{
		Source:  sourceOf(s),
		States:  options.ForMap(recs),
		State:   state,
		Crops:   []string{},
		Records: []records.CropRecord{},
	}
	if state == "" {
		return m
	}
	m.Records = selection.Filter{State: state}.Apply(recs)
	m.Crops = options.Distinct(m.Records, records.Crop, nil)
	return m
}
