package options

import (
	"sort"
	"testing"

	"github.com/KaramelBytes/cropinsights/internal/records"
	"github.com/google/go-cmp/cmp"
)

func sample() []records.CropRecord {
	return records.Normalize([]records.RawRow{
		{"state_name": "Bihar", "district_name": "Patna", "crop": "Rice", "season": "Kharif"},
		{"state_name": "Bihar", "district_name": "Gaya", "crop": "Wheat", "season": "Rabi"},
		{"state_name": "Bihar", "district_name": "Patna", "crop": "Maize", "season": "Kharif"},
		{"state_name": "Assam", "district_name": "Jorhat", "crop": "Tea", "season": "Whole Year"},
		{"state_name": "Assam", "district_name": "Jorhat", "crop": "Rice", "season": "Kharif"},
		{"state_name": "", "district_name": "", "crop": "Rice"},
	})
}

func TestDistinct_SortedAndUnique(t *testing.T) {
	got := Distinct(sample(), records.Crop, nil)
	want := []string{"Maize", "Rice", "Tea", "Wheat"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("crops mismatch (-want +got):\n%s", diff)
	}
	if !sort.StringsAreSorted(got) {
		t.Fatalf("expected sorted output, got %v", got)
	}
}

func TestDistinct_EmptyInputGivesEmptyList(t *testing.T) {
	got := Distinct(nil, records.State, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestForDashboard_Cascades(t *testing.T) {
	recs := sample()

	top := ForDashboard(recs, "", "")
	if diff := cmp.Diff([]string{"Gaya", "Jorhat", "Patna"}, top.Districts); diff != "" {
		t.Fatalf("top-level districts should be global (-want +got):\n%s", diff)
	}

	byState := ForDashboard(recs, "Bihar", "")
	if diff := cmp.Diff([]string{"Gaya", "Patna"}, byState.Districts); diff != "" {
		t.Fatalf("districts narrowed by state (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Maize", "Rice", "Wheat"}, byState.Crops); diff != "" {
		t.Fatalf("crops narrowed by state (-want +got):\n%s", diff)
	}

	byDistrict := ForDashboard(recs, "Bihar", "Patna")
	if diff := cmp.Diff([]string{"Maize", "Rice"}, byDistrict.Crops); diff != "" {
		t.Fatalf("crops narrowed by district (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Assam", "Bihar"}, byDistrict.States); diff != "" {
		t.Fatalf("states never narrow (-want +got):\n%s", diff)
	}
}

func TestForInsights(t *testing.T) {
	got := ForInsights(sample(), "Assam")
	want := Insights{
		States:    []string{"Assam", "Bihar"},
		Districts: []string{"Jorhat"},
		Crops:     []string{"Maize", "Rice", "Tea", "Wheat"},
		Seasons:   []string{"Kharif", "Rabi", "Whole Year"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("insights options mismatch (-want +got):\n%s", diff)
	}
}

func TestForAssistant(t *testing.T) {
	got := ForAssistant(sample(), "Assam")
	if diff := cmp.Diff([]string{"Rice", "Tea"}, got.Crops); diff != "" {
		t.Fatalf("assistant crops (-want +got):\n%s", diff)
	}
	all := ForAssistant(sample(), "")
	if diff := cmp.Diff([]string{"Maize", "Rice", "Tea", "Wheat"}, all.Crops); diff != "" {
		t.Fatalf("assistant crops without state (-want +got):\n%s", diff)
	}
}

func TestForMap(t *testing.T) {
	got := ForMap(sample())
	want := []StateCrops{
		{State: "Assam", Crops: []string{"Rice", "Tea"}},
		{State: "Bihar", Crops: []string{"Maize", "Rice", "Wheat"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("map options mismatch (-want +got):\n%s", diff)
	}
}

func TestAll_IgnoresNil(t *testing.T) {
	if All(nil, nil) != nil {
		t.Fatalf("expected nil predicate when nothing is active")
	}
	p := All(nil, Matching(records.Crop, "Rice"))
	if !p(records.CropRecord{Crop: "Rice"}) || p(records.CropRecord{Crop: "Tea"}) {
		t.Fatalf("combined predicate misbehaves")
	}
}
