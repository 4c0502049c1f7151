package aggregate

import (
	"math"
	"testing"

	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/google/go-cmp/cmp"
)

func recs() []records.CropRecord {
	return records.Normalize([]records.RawRow{
		{"district_name": "Patna", "crop": "Rice", "crop_year": "2021", "production": 10.4},
		{"district_name": "Gaya", "crop": "Wheat", "crop_year": "2019", "production": 5},
		{"district_name": "Patna", "crop": "Wheat", "crop_year": "2021", "production": 2.2},
		{"district_name": "Nalanda", "crop": "Rice", "crop_year": "2020", "production": 0},
		{"district_name": "Gaya", "crop": "Rice", "production": "7"},
	})
}

func TestGroupAndSum_FirstAppearanceOrder(t *testing.T) {
	got := ProductionByDistrict(recs())
	want := []Point{{"Patna", 12.6}, {"Gaya", 12}, {"Nalanda", 0}}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })); diff != "" {
		t.Fatalf("district series mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAndSum_Conservation(t *testing.T) {
	rs := recs()
	var want float64
	for _, r := range rs {
		want += r.Production
	}
	for name, series := range map[string][]Point{
		"district": ProductionByDistrict(rs),
		"crop":     CropProportion(rs),
		"season":   GroupAndSum(rs, KeyFunc(records.Season), Production),
	} {
		if got := Total(series); math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s: total %v, want %v", name, got, want)
		}
	}
}

func TestGroupAndSum_Empty(t *testing.T) {
	got := GroupAndSum(nil, KeyFunc(records.Crop), Production)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty series, got %#v", got)
	}
}

func TestYearlyTrend_RoundsAndSortsNumerically(t *testing.T) {
	rs := records.Normalize([]records.RawRow{
		{"crop_year": "2021", "production": 10.4},
		{"crop_year": "999", "production": 1},
		{"crop_year": "2019", "production": 5.5},
		{"crop_year": "2021", "production": 2.2},
	})
	got := YearlyTrend(rs)
	want := []Point{{"999", 1}, {"2019", 6}, {"2021", 13}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trend mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByYear_MixedKeysFallBackToLexical(t *testing.T) {
	points := []Point{{"2020", 1}, {"Unknown", 2}, {"999", 3}, {"2019", 4}}
	SortByYear(points)
	want := []Point{{"2019", 4}, {"2020", 1}, {"999", 3}, {"Unknown", 2}}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Fatalf("mixed sort mismatch (-want +got):\n%s", diff)
	}
}

func TestYearlyTrend_MissingYearIsUnknown(t *testing.T) {
	got := YearlyTrend(recs())
	last := got[len(got)-1]
	if last.Key != UnknownYear || last.Value != 7 {
		t.Fatalf("expected trailing Unknown bucket with 7, got %+v", last)
	}
}

func TestGroupAndAverage(t *testing.T) {
	got := GroupAndAverage(recs(), KeyFunc(records.Crop), Production)
	want := []Point{{"Rice", (10.4 + 0 + 7) / 3}, {"Wheat", (5 + 2.2) / 2}}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })); diff != "" {
		t.Fatalf("average mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	m := Summarize(recs())
	if m.Records != 5 {
		t.Fatalf("records = %d", m.Records)
	}
	if math.Abs(m.TotalProduction-24.6) > 1e-9 {
		t.Fatalf("total = %v", m.TotalProduction)
	}
	if math.Abs(m.AverageYield-24.6/5) > 1e-9 {
		t.Fatalf("average = %v", m.AverageYield)
	}
	empty := Summarize(nil)
	if empty.AverageYield != 0 || empty.TotalProduction != 0 || empty.Records != 0 {
		t.Fatalf("empty metrics should be zero, got %+v", empty)
	}
}

func TestBucketMean_EmptyIsZero(t *testing.T) {
	if (Bucket{}).Mean() != 0 {
		t.Fatalf("empty bucket mean should be 0")
	}
}
