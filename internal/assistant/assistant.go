// Package assistant computes the farmer-assistant heuristics for a (state,
// crop) selection: suitability, risk, rotation and recommendation text.
//
// Every function here is a pure derivation over the record slice it is given.
package assistant

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/records"
)

// RiskLevel classifies recent yield against the historical average.
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnknown RiskLevel = "Unknown"
)

// Display returns the badge text; an absent level shows as Unknown.
func (r RiskLevel) Display() string {
	if r == "" {
		return string(RiskUnknown)
	}
	return string(r)
}

// NoDataRecommendation is the only recommendation for an empty selection.
const NoDataRecommendation = "No recommendations — no data."

const (
	recStrong   = "Suitability looks strong — this crop is a good fit for the region."
	recModerate = "Moderate suitability — follow recommended practices to improve yield."
	recLow      = "Low suitability — consider alternatives or soil improvement before planting."
	recHighRisk = "High risk detected — yields have declined recently. Investigate causes (pests, weather)."
)

// Rotation suggests an alternative crop for the same state.
type Rotation struct {
	SuggestedCrop     string  `json:"suggested_crop"`
	Note              string  `json:"note"`
	ConfidencePercent int     `json:"confidence_percent"`
	AverageYield      float64 `json:"average_yield"`
}

// Performance summarizes the selected records.
type Performance struct {
	AverageYield        float64 `json:"average_yield"`
	BestYear            string  `json:"best_year"`
	WorstYear           string  `json:"worst_year"`
	PlannedArea         float64 `json:"planned_area,omitempty"`
	EstimatedProduction float64 `json:"estimated_production,omitempty"`
}

// Result is recomputed in full for every selection change.
type Result struct {
	State            string               `json:"state"`
	Crop             string               `json:"crop"`
	SuitabilityScore *int                 `json:"suitability_score"`
	Risk             RiskLevel            `json:"risk,omitempty"`
	Rotation         *Rotation            `json:"rotation,omitempty"`
	Recommendations  []string             `json:"recommendations"`
	Trend            []aggregate.Point    `json:"trend"`
	Performance      *Performance         `json:"performance,omitempty"`
	Records          []records.CropRecord `json:"records"`
}

// Options tunes optional outputs of Analyze.
type Options struct {
	// PlannedArea, when positive, adds a production estimate to Performance.
	PlannedArea float64
}

// Select returns the records matching both state and crop. It is empty
// unless both are set.
func Select(recs []records.CropRecord, state, crop string) []records.CropRecord {
	out := []records.CropRecord{}
	if state == "" || crop == "" {
		return out
	}
	for _, r := range recs {
		if r.StateName == state && r.Crop == crop {
			out = append(out, r)
		}
	}
	return out
}

// Analyze derives the full assistant result for one selection.
func Analyze(recs []records.CropRecord, state, crop string, opt Options) Result {
	selected := Select(recs, state, crop)
	res := Result{
		State:   state,
		Crop:    crop,
		Records: selected,
		Trend:   Trend(selected),
	}
	if len(selected) > 0 {
		score := Suitability(selected)
		res.SuitabilityScore = &score
		res.Risk = Risk(selected)
		perf := Summarize(selected)
		if opt.PlannedArea > 0 {
			perf.PlannedArea = opt.PlannedArea
			perf.EstimatedProduction = opt.PlannedArea * perf.AverageYield
		}
		res.Performance = &perf
	}
	if state != "" && crop != "" {
		res.Rotation = SuggestRotation(recs, state, crop)
	}
	res.Recommendations = Recommend(len(selected), res.SuitabilityScore, res.Risk, res.Rotation)
	return res
}

// Trend is the yearly production series of the selection.
func Trend(selected []records.CropRecord) []aggregate.Point {
	return aggregate.YearlyTrend(selected)
}

// Suitability blends yield, soil quality and area into a 0-100 score.
func Suitability(selected []records.CropRecord) int {
	var yieldSum, soilSum, areaSum float64
	var yieldN, soilN int
	for _, r := range selected {
		if r.Yield != 0 {
			yieldSum += r.Yield
			yieldN++
		}
		if r.SoilQuality != 0 {
			soilSum += r.SoilQuality
			soilN++
		}
		areaSum += r.Area
	}
	avgYield := 0.0
	if yieldN > 0 {
		avgYield = yieldSum / float64(yieldN)
	}
	// unknown soil scores as neutral
	avgSoil := 50.0
	if soilN > 0 {
		avgSoil = soilSum / float64(soilN)
	}
	avgArea := 0.0
	if len(selected) > 0 {
		avgArea = areaSum / float64(len(selected))
	}

	yieldScore := math.Min(100, math.Round(saturate(avgYield, 50)))
	soilScore := math.Min(100, math.Round(avgSoil))
	areaScore := 0.0
	if d := math.Log1p(avgArea + 10); d != 0 {
		areaScore = math.Min(100, math.Round(100*math.Log1p(avgArea)/d))
	}
	score := math.Round(0.5*yieldScore + 0.35*soilScore + 0.15*areaScore)
	return int(clamp(score, 0, 100))
}

// saturate maps x >= 0 onto [0,100) as 100*x/(x+k).
func saturate(x, k float64) float64 {
	if x+k == 0 {
		return 0
	}
	return 100 * x / (x + k)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Risk compares the mean of the last two yearly yield averages with the mean
// of all yearly averages.
func Risk(selected []records.CropRecord) RiskLevel {
	byYear := func(r records.CropRecord) string {
		if r.CropYear == "" {
			return "0"
		}
		return r.CropYear
	}
	yearly := aggregate.GroupAndAverage(selected, byYear, aggregate.Yield)
	if len(yearly) == 0 {
		return RiskUnknown
	}
	aggregate.SortByYear(yearly)

	overall := aggregate.Total(yearly) / float64(len(yearly))
	recent := overall
	if len(yearly) >= 2 {
		recent = aggregate.Total(yearly[len(yearly)-2:]) / 2
	}
	if overall == 0 {
		return RiskUnknown
	}
	change := 100 * (recent - overall) / overall
	switch {
	case change <= -15:
		return RiskHigh
	case change <= -5:
		return RiskMedium
	default:
		return RiskLow
	}
}

// SuggestRotation picks the crop with the best average yield across every
// record of the state, excluding the current crop. Ties keep the crop seen first.
func SuggestRotation(recs []records.CropRecord, state, crop string) *Rotation {
	inState := make([]records.CropRecord, 0, len(recs))
	for _, r := range recs {
		if r.StateName == state && r.Crop != "" {
			inState = append(inState, r)
		}
	}
	averages := aggregate.GroupAndAverage(inState, aggregate.KeyFunc(records.Crop), aggregate.Yield)

	var best *aggregate.Point
	for i := range averages {
		p := &averages[i]
		if p.Key == crop {
			continue
		}
		if best == nil || p.Value > best.Value {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return &Rotation{
		SuggestedCrop:     best.Key,
		Note:              fmt.Sprintf("Consider planting %s next season — historically it had higher average yields in %s.", best.Key, state),
		ConfidencePercent: int(math.Round(saturate(best.Value, 20))),
		AverageYield:      best.Value,
	}
}

// Recommend builds the ordered recommendation list: suitability tier, a
// high-risk warning, then the rotation note.
func Recommend(selected int, score *int, risk RiskLevel, rotation *Rotation) []string {
	if selected == 0 {
		return []string{NoDataRecommendation}
	}
	var out []string
	if score != nil {
		switch {
		case *score >= 75:
			out = append(out, recStrong)
		case *score >= 50:
			out = append(out, recModerate)
		default:
			out = append(out, recLow)
		}
	}
	if risk == RiskHigh {
		out = append(out, recHighRisk)
	}
	if rotation != nil {
		out = append(out, rotation.Note)
	}
	return out
}

// Summarize reports the average yield and the best and worst production
// years. Ties go to the record encountered first.
func Summarize(selected []records.CropRecord) Performance {
	if len(selected) == 0 {
		return Performance{}
	}
	var sum float64
	best, worst := selected[0], selected[0]
	for _, r := range selected {
		sum += r.Yield
		if r.Production > best.Production {
			best = r
		}
		if r.Production < worst.Production {
			worst = r
		}
	}
	return Performance{
		AverageYield: sum / float64(len(selected)),
		BestYear:     best.CropYear,
		WorstYear:    worst.CropYear,
	}
}
