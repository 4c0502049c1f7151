// Package options derives the cascading dropdown choices offered by each view.
package options

import (
	"sort"

	"github.com/KaramelBytes/cropinsights/internal/records"
)

// Predicate selects records that contribute to an option list.
type Predicate func(records.CropRecord) bool

// Distinct returns the sorted, de-duplicated non-empty values of field over
// the records accepted by pred. A nil pred accepts every record.
func Distinct(recs []records.CropRecord, field records.Field, pred Predicate) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range recs {
		if pred != nil && !pred(r) {
			continue
		}
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Matching narrows to records whose field equals want. An empty want matches
// everything, which keeps the full list visible until a parent is chosen.
func Matching(field records.Field, want string) Predicate {
	if want == "" {
		return nil
	}
	return func(r records.CropRecord) bool { return field(r) == want }
}

// All combines predicates; nil entries are ignored.
func All(preds ...Predicate) Predicate {
	var active []Predicate
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(r records.CropRecord) bool {
		for _, p := range active {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Dashboard lists the choices of the dashboard table view.
type Dashboard struct {
	States    []string `json:"states"`
	Districts []string `json:"districts"`
	Crops     []string `json:"crops"`
}

// ForDashboard narrows districts by state and crops by state and district.
func ForDashboard(recs []records.CropRecord, state, district string) Dashboard {
	byState := Matching(records.State, state)
	return Dashboard{
		States:    Distinct(recs, records.State, nil),
		Districts: Distinct(recs, records.District, byState),
		Crops:     Distinct(recs, records.Crop, All(byState, Matching(records.District, district))),
	}
}

// Insights lists the choices of the analytics view.
type Insights struct {
	States    []string `json:"states"`
	Districts []string `json:"districts"`
	Crops     []string `json:"crops"`
	Seasons   []string `json:"seasons"`
}

// ForInsights narrows districts by state; crops and seasons are always global.
func ForInsights(recs []records.CropRecord, state string) Insights {
	return Insights{
		States:    Distinct(recs, records.State, nil),
		Districts: Distinct(recs, records.District, Matching(records.State, state)),
		Crops:     Distinct(recs, records.Crop, nil),
		Seasons:   Distinct(recs, records.Season, nil),
	}
}

// Assistant lists the choices of the farmer-assistant form.
type Assistant struct {
	States []string `json:"states"`
	Crops  []string `json:"crops"`
}

// ForAssistant narrows crops by the selected state.
func ForAssistant(recs []records.CropRecord, state string) Assistant {
	return Assistant{
		States: Distinct(recs, records.State, nil),
		Crops:  Distinct(recs, records.Crop, Matching(records.State, state)),
	}
}

// StateCrops is one map region and the crops grown there.
type StateCrops struct {
	State string   `json:"state"`
	Crops []string `json:"crops"`
}

// ForMap returns every state with its sorted crop list, in state order.
func ForMap(recs []records.CropRecord) []StateCrops {
	states := Distinct(recs, records.State, nil)
	out := make([]StateCrops, 0, len(states))
	for _, s := range states {
		out = append(out, StateCrops{
			State: s,
			Crops: Distinct(recs, records.Crop, Matching(records.State, s)),
		})
	}
	return out
}
