package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/KaramelBytes/cropinsights/internal/selection"
)

// MaxTableRows caps record tables in Markdown output.
const MaxTableRows = 50

func writeFilters(b *strings.Builder, source string, f selection.Filter, withSeason bool) {
	b.WriteString("[FILTERS]\n")
	if source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", source))
	}
	b.WriteString(fmt.Sprintf("State: %s\n", orAll(f.State)))
	b.WriteString(fmt.Sprintf("District: %s\n", orAll(f.District)))
	b.WriteString(fmt.Sprintf("Crop: %s\n", orAll(f.Crop)))
	if withSeason {
		b.WriteString(fmt.Sprintf("Season: %s\n", orAll(f.Season)))
	}
}

func orAll(s string) string {
	if s == "" {
		return "(all)"
	}
	return s
}

func writeMetrics(b *strings.Builder, m aggregate.Metrics) {
	b.WriteString("\n[METRICS]\n")
	b.WriteString(fmt.Sprintf("Records: %d\n", m.Records))
	b.WriteString(fmt.Sprintf("Total production: %s\n", num(m.TotalProduction)))
	b.WriteString(fmt.Sprintf("Average yield: %.2f\n", m.AverageYield))
}

func writeSeries(b *strings.Builder, title string, pts []aggregate.Point, pct bool) {
	b.WriteString(fmt.Sprintf("\n[%s]\n", title))
	if len(pts) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	total := aggregate.Total(pts)
	for _, p := range pts {
		if pct && total > 0 {
			b.WriteString(fmt.Sprintf("- %s: %s (%.1f%%)\n", safeName(p.Key), num(p.Value), p.Value*100/total))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeName(p.Key), num(p.Value)))
	}
}

func writeRecords(b *strings.Builder, recs []records.CropRecord) {
	b.WriteString("\n[RECORDS]\n")
	if len(recs) == 0 {
		b.WriteString("(no records match)\n")
		return
	}
	b.WriteString("| State | District | Year | Season | Crop | Area | Production |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for i, r := range recs {
		if i == MaxTableRows {
			b.WriteString(fmt.Sprintf("\n(showing %d of %d records)\n", MaxTableRows, len(recs)))
			break
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			safeVal(r.StateName), safeVal(r.DistrictName), safeVal(r.CropYear),
			safeVal(r.Season), safeVal(r.Crop), num(r.Area), num(r.Production)))
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Markdown renders the dashboard table.
func (d Dashboard) Markdown() string {
	var b strings.Builder
	writeFilters(&b, d.Source, d.Filter, false)
	writeMetrics(&b, d.Metrics)
	writeRecords(&b, d.Records)
	return b.String()
}

// Markdown renders metrics and the three series.
func (in Insights) Markdown() string {
	var b strings.Builder
	writeFilters(&b, in.Source, in.Filter, true)
	writeMetrics(&b, in.Metrics)
	writeSeries(&b, "PRODUCTION BY DISTRICT", in.ProductionByDistrict, false)
	writeSeries(&b, "CROP SHARE", in.CropShare, true)
	writeSeries(&b, "YEARLY TREND", in.Trend, false)
	return b.String()
}

// Markdown renders the assistant result.
func (a Assistant) Markdown() string {
	var b strings.Builder
	r := a.Result
	b.WriteString("[SELECTION]\n")
	if a.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", a.Source))
	}
	b.WriteString(fmt.Sprintf("State: %s\n", orAll(r.State)))
	b.WriteString(fmt.Sprintf("Crop: %s\n", orAll(r.Crop)))
	b.WriteString(fmt.Sprintf("Matching records: %d\n", len(r.Records)))

	b.WriteString("\n[ASSESSMENT]\n")
	if r.SuitabilityScore != nil {
		b.WriteString(fmt.Sprintf("Suitability: %d/100\n", *r.SuitabilityScore))
	} else {
		b.WriteString("Suitability: n/a\n")
	}
	b.WriteString(fmt.Sprintf("Risk: %s\n", r.Risk.Display()))
	if p := r.Performance; p != nil {
		b.WriteString(fmt.Sprintf("Average yield: %.2f\n", p.AverageYield))
		b.WriteString(fmt.Sprintf("Best year: %s\n", orDash(p.BestYear)))
		b.WriteString(fmt.Sprintf("Worst year: %s\n", orDash(p.WorstYear)))
		if p.PlannedArea > 0 {
			b.WriteString(fmt.Sprintf("Estimated production for %s ha: %.2f\n", num(p.PlannedArea), p.EstimatedProduction))
		}
	}
	if rot := r.Rotation; rot != nil {
		b.WriteString("\n[ROTATION]\n")
		b.WriteString(fmt.Sprintf("Suggested crop: %s (confidence %d%%)\n", rot.SuggestedCrop, rot.ConfidencePercent))
		b.WriteString(rot.Note + "\n")
	}
	b.WriteString("\n[RECOMMENDATIONS]\n")
	for _, rec := range r.Recommendations {
		b.WriteString("- " + rec + "\n")
	}
	if len(r.Trend) > 0 {
		writeSeries(&b, "YEARLY TREND", r.Trend, false)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// Markdown renders the state list and the clicked state's records.
func (m Map) Markdown() string {
	var b strings.Builder
	b.WriteString("[STATES]\n")
	if len(m.States) == 0 {
		b.WriteString("(no data)\n")
	}
	for _, sc := range m.States {
		b.WriteString(fmt.Sprintf("- %s: %s\n", sc.State, strings.Join(sc.Crops, ", ")))
	}
	if m.State == "" {
		return b.String()
	}
	b.WriteString(fmt.Sprintf("\n[STATE DETAIL]\nState: %s\n", m.State))
	if len(m.Records) == 0 {
		b.WriteString("No data\n")
		return b.String()
	}
	for _, r := range m.Records {
		b.WriteString(fmt.Sprintf("- %s - Area: %s, Production: %s\n", safeVal(r.Crop), num(r.Area), num(r.Production)))
	}
	return b.String()
}
