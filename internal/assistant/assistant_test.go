package assistant

import (
	"fmt"
	"testing"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biharRice() []records.CropRecord {
	return records.Normalize([]records.RawRow{
		{"state_name": "Bihar", "crop": "Rice", "crop_year": "2020", "area": 2, "production": 10},
		{"state_name": "Bihar", "crop": "Rice", "crop_year": "2021", "area": 2, "production": 4},
	})
}

func TestAnalyze_BiharScenario(t *testing.T) {
	recs := biharRice()
	require.Equal(t, 5.0, recs[0].Yield)
	require.Equal(t, 2.0, recs[1].Yield)

	res := Analyze(recs, "Bihar", "Rice", Options{})
	assert.Equal(t, []aggregate.Point{{Key: "2020", Value: 10}, {Key: "2021", Value: 4}}, res.Trend)
	assert.Equal(t, RiskLow, res.Risk)
	require.NotNil(t, res.SuitabilityScore)
	// yield 7, soil 50 (unknown), area 43
	assert.Equal(t, 27, *res.SuitabilityScore)
	assert.Nil(t, res.Rotation)
	assert.Equal(t, []string{recLow}, res.Recommendations)
	require.NotNil(t, res.Performance)
	assert.InDelta(t, 3.5, res.Performance.AverageYield, 1e-9)
	assert.Equal(t, "2020", res.Performance.BestYear)
	assert.Equal(t, "2021", res.Performance.WorstYear)
}

func TestAnalyze_EmptySelection(t *testing.T) {
	for _, sel := range [][2]string{{"", ""}, {"Bihar", ""}, {"", "Rice"}, {"Kerala", "Rice"}} {
		res := Analyze(biharRice(), sel[0], sel[1], Options{})
		assert.Equal(t, []string{NoDataRecommendation}, res.Recommendations, "selection %v", sel)
		assert.Nil(t, res.SuitabilityScore, "selection %v", sel)
		assert.Equal(t, RiskLevel(""), res.Risk, "selection %v", sel)
		assert.Nil(t, res.Performance, "selection %v", sel)
		assert.Empty(t, res.Trend, "selection %v", sel)
		assert.Empty(t, res.Records, "selection %v", sel)
	}
	res := Analyze(nil, "Bihar", "Rice", Options{})
	assert.Equal(t, []string{NoDataRecommendation}, res.Recommendations)
}

func TestAnalyze_EmptySelectionStillSuggestsRotation(t *testing.T) {
	recs := records.Normalize([]records.RawRow{
		{"state_name": "Bihar", "crop": "Wheat", "area": 1, "production": 3},
	})
	res := Analyze(recs, "Bihar", "Rice", Options{})
	require.NotNil(t, res.Rotation)
	assert.Equal(t, "Wheat", res.Rotation.SuggestedCrop)
	// the note is not shown without selected records
	assert.Equal(t, []string{NoDataRecommendation}, res.Recommendations)
}

func TestRiskLevel_Display(t *testing.T) {
	assert.Equal(t, "Unknown", RiskLevel("").Display())
	for _, r := range []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskUnknown} {
		assert.Equal(t, string(r), r.Display())
	}
}

func yearly(yields ...float64) []records.CropRecord {
	out := make([]records.CropRecord, len(yields))
	for i, y := range yields {
		out[i] = records.CropRecord{CropYear: fmt.Sprint(2018 + i), Yield: y}
	}
	return out
}

func TestRisk_Thresholds(t *testing.T) {
	cases := []struct {
		name   string
		recs   []records.CropRecord
		expect RiskLevel
	}{
		{"steady", yearly(10, 10, 10, 10), RiskLow},
		{"mild dip", yearly(10, 10, 10, 8.5), RiskLow},
		{"medium dip", yearly(10, 10, 10, 7), RiskMedium},
		{"sharp dip", yearly(10, 10, 10, 4), RiskHigh},
		{"rising", yearly(2, 4, 8, 16), RiskLow},
		{"single year", yearly(6), RiskLow},
		{"all zero", yearly(0, 0, 0), RiskUnknown},
		{"no records", nil, RiskUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expect, Risk(tc.recs), tc.name)
	}
}

func TestRisk_UsesYearlyAveragesInYearOrder(t *testing.T) {
	// input order is scrambled; 2010 is the oldest year and must not count as recent
	recs := []records.CropRecord{
		{CropYear: "2012", Yield: 4},
		{CropYear: "2010", Yield: 10},
		{CropYear: "2011", Yield: 10},
		{CropYear: "2012", Yield: 4},
		{CropYear: "2009", Yield: 10},
	}
	// yearly: 10, 10, 10, 4 -> overall 8.5, recent 7 -> -17.6%
	assert.Equal(t, RiskHigh, Risk(recs))
}

func TestSuitability_Tiers(t *testing.T) {
	strong := []records.CropRecord{{Yield: 500, SoilQuality: 90, Area: 1000}}
	// yield 91, soil 90, area 100 -> 92
	assert.Equal(t, 92, Suitability(strong))
	assert.Equal(t, []string{recStrong}, Recommend(1, intPtr(92), RiskLow, nil))

	moderate := []records.CropRecord{{Yield: 50, SoilQuality: 60, Area: 50}}
	// yield 50, soil 60, area round(100*ln51/ln61)=96 -> 25+21+14.4=60
	assert.Equal(t, 60, Suitability(moderate))
	assert.Equal(t, []string{recModerate}, Recommend(1, intPtr(60), RiskLow, nil))
}

func TestSuitability_AlwaysWithinBounds(t *testing.T) {
	values := []float64{0, 0.001, 1, 7.5, 50, 1e3, 1e9}
	for _, y := range values {
		for _, s := range []float64{0, 10, 50, 100, 250} {
			for _, a := range values {
				got := Suitability([]records.CropRecord{{Yield: y, SoilQuality: s, Area: a}})
				if got < 0 || got > 100 {
					t.Fatalf("score %d out of range for yield=%v soil=%v area=%v", got, y, s, a)
				}
			}
		}
	}
	assert.GreaterOrEqual(t, Suitability(nil), 0)
}

func TestSuitability_IgnoresZeroYieldAndSoil(t *testing.T) {
	withZeros := []records.CropRecord{
		{Yield: 50, SoilQuality: 80, Area: 10},
		{Yield: 0, SoilQuality: 0, Area: 10},
	}
	alone := []records.CropRecord{{Yield: 50, SoilQuality: 80, Area: 10}}
	assert.Equal(t, Suitability(alone), Suitability(withZeros))
}

func TestSuggestRotation_ExcludesSelectedCrop(t *testing.T) {
	recs := records.Normalize([]records.RawRow{
		{"state_name": "Bihar", "crop": "Rice", "yield": 100},
		{"state_name": "Bihar", "crop": "Wheat", "yield": 3},
		{"state_name": "Bihar", "crop": "Maize", "yield": 8},
		{"state_name": "Bihar", "crop": "Maize", "yield": 8},
		{"state_name": "Assam", "crop": "Tea", "yield": 50},
		{"state_name": "Bihar", "crop": "", "yield": 90},
	})
	rot := SuggestRotation(recs, "Bihar", "Rice")
	require.NotNil(t, rot)
	assert.Equal(t, "Maize", rot.SuggestedCrop)
	assert.Equal(t, 29, rot.ConfidencePercent)
	assert.Equal(t, "Consider planting Maize next season — historically it had higher average yields in Bihar.", rot.Note)
}

func TestSuggestRotation_TieKeepsFirstCrop(t *testing.T) {
	recs := []records.CropRecord{
		{StateName: "Bihar", Crop: "Rice", Yield: 1},
		{StateName: "Bihar", Crop: "Wheat", Yield: 8},
		{StateName: "Bihar", Crop: "Maize", Yield: 8},
	}
	rot := SuggestRotation(recs, "Bihar", "Rice")
	require.NotNil(t, rot)
	assert.Equal(t, "Wheat", rot.SuggestedCrop)
}

func TestSuggestRotation_NoAlternative(t *testing.T) {
	assert.Nil(t, SuggestRotation(biharRice(), "Bihar", "Rice"))
	assert.Nil(t, SuggestRotation(nil, "Bihar", "Rice"))
}

func TestRecommend_Order(t *testing.T) {
	rot := &Rotation{SuggestedCrop: "Maize", Note: "rotate"}
	got := Recommend(3, intPtr(40), RiskHigh, rot)
	assert.Equal(t, []string{recLow, recHighRisk, "rotate"}, got)

	got = Recommend(3, intPtr(80), RiskMedium, nil)
	assert.Equal(t, []string{recStrong}, got)

	assert.Equal(t, []string{NoDataRecommendation}, Recommend(0, intPtr(80), RiskHigh, rot))
}

func TestSummarize_TiesResolveToFirstRecord(t *testing.T) {
	recs := []records.CropRecord{
		{CropYear: "2019", Production: 4, Yield: 1},
		{CropYear: "2020", Production: 10, Yield: 2},
		{CropYear: "2021", Production: 10, Yield: 3},
		{CropYear: "2022", Production: 4, Yield: 6},
	}
	perf := Summarize(recs)
	assert.Equal(t, "2020", perf.BestYear)
	assert.Equal(t, "2019", perf.WorstYear)
	assert.InDelta(t, 3.0, perf.AverageYield, 1e-9)
	assert.Equal(t, Performance{}, Summarize(nil))
}

func TestAnalyze_PlannedAreaEstimate(t *testing.T) {
	res := Analyze(biharRice(), "Bihar", "Rice", Options{PlannedArea: 2.5})
	require.NotNil(t, res.Performance)
	assert.Equal(t, 2.5, res.Performance.PlannedArea)
	assert.InDelta(t, 8.75, res.Performance.EstimatedProduction, 1e-9)
}

func intPtr(v int) *int { return &v }
