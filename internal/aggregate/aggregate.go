// Package aggregate groups crop records into chart series and summary metrics.
package aggregate

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/cropinsights/internal/records"
)

// Point is one entry of a chart series.
type Point struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// KeyFunc picks the group a record belongs to.
type KeyFunc func(records.CropRecord) string

// ValueFunc extracts the numeric field being accumulated.
type ValueFunc func(records.CropRecord) float64

// Common value extractors.
var (
	Production ValueFunc = func(r records.CropRecord) float64 { return r.Production }
	Area       ValueFunc = func(r records.CropRecord) float64 { return r.Area }
	Yield      ValueFunc = func(r records.CropRecord) float64 { return r.Yield }
)

// Bucket accumulates one group's values.
type Bucket struct {
	Sum   float64
	Count int
}

// Mean returns Sum/Count, or 0 for an empty bucket.
func (b Bucket) Mean() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.Sum / float64(b.Count)
}

// Group is a keyed bucket.
type Group struct {
	Key string
	Bucket
}

// GroupBy accumulates value per key. Groups come back in order of first appearance.
func GroupBy(recs []records.CropRecord, key KeyFunc, value ValueFunc) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range recs {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Sum += value(r)
		groups[i].Count++
	}
	return groups
}

// GroupAndSum returns the per-key sum of value. The total of all points equals
// the total of value over recs.
func GroupAndSum(recs []records.CropRecord, key KeyFunc, value ValueFunc) []Point {
	groups := GroupBy(recs, key, value)
	out := make([]Point, len(groups))
	for i, g := range groups {
		out[i] = Point{Key: g.Key, Value: g.Sum}
	}
	return out
}

// GroupAndAverage returns the per-key mean of value.
func GroupAndAverage(recs []records.CropRecord, key KeyFunc, value ValueFunc) []Point {
	groups := GroupBy(recs, key, value)
	out := make([]Point, len(groups))
	for i, g := range groups {
		out[i] = Point{Key: g.Key, Value: g.Mean()}
	}
	return out
}

// SortByYear orders points by key in place. Keys are compared numerically
// only when every key parses as a number; otherwise all comparisons are lexical.
func SortByYear(points []Point) {
	nums := make([]float64, len(points))
	numeric := true
	for i, p := range points {
		f, err := strconv.ParseFloat(p.Key, 64)
		if err != nil || math.IsNaN(f) {
			numeric = false
			break
		}
		nums[i] = f
	}
	if numeric {
		idx := make([]int, len(points))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })
		sorted := make([]Point, len(points))
		for i, j := range idx {
			sorted[i] = points[j]
		}
		copy(points, sorted)
		return
	}
	sort.SliceStable(points, func(a, b int) bool { return points[a].Key < points[b].Key })
}

// Total sums a series.
func Total(points []Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum
}

// ProductionByDistrict feeds the district bar chart.
func ProductionByDistrict(recs []records.CropRecord) []Point {
	return GroupAndSum(recs, KeyFunc(records.District), Production)
}

// CropProportion feeds the crop share chart.
func CropProportion(recs []records.CropRecord) []Point {
	return GroupAndSum(recs, KeyFunc(records.Crop), Production)
}

// UnknownYear labels records without a crop year in trend series.
const UnknownYear = "Unknown"

// YearlyTrend sums production per crop year, rounds each total to the nearest
// integer and sorts the series by year.
func YearlyTrend(recs []records.CropRecord) []Point {
	byYear := func(r records.CropRecord) string {
		if r.CropYear == "" {
			return UnknownYear
		}
		return r.CropYear
	}
	points := GroupAndSum(recs, byYear, Production)
	for i := range points {
		points[i].Value = math.Round(points[i].Value)
	}
	SortByYear(points)
	return points
}

// Metrics are the headline numbers of the analytics view.
type Metrics struct {
	TotalProduction float64 `json:"total_production"`
	AverageYield    float64 `json:"average_yield"`
	Records         int     `json:"records"`
}

// Summarize computes total production and production per record. The average
// is 0 for an empty set.
func Summarize(recs []records.CropRecord) Metrics {
	m := Metrics{Records: len(recs)}
	for _, r := range recs {
		m.TotalProduction += r.Production
	}
	if m.Records > 0 {
		m.AverageYield = m.TotalProduction / float64(m.Records)
	}
	return m
}
