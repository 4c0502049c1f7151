// Package selection tracks a view's hierarchical filter choices.
package selection

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/cropinsights/internal/records"
)

// Field names one filter level.
type Field string

const (
	FieldState    Field = "state"
	FieldDistrict Field = "district"
	FieldCrop     Field = "crop"
	FieldSeason   Field = "season"
)

// ParseField accepts the field names used in queries and request bodies.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldState, "state_name":
		return FieldState, nil
	case FieldDistrict, "district_name":
		return FieldDistrict, nil
	case FieldCrop:
		return FieldCrop, nil
	case FieldSeason:
		return FieldSeason, nil
	}
	return "", fmt.Errorf("unknown filter field: %q", s)
}

// View names a screen with its own independent selection.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewInsights  View = "insights"
	ViewAssistant View = "assistant"
	ViewMap       View = "map"
)

// Rules maps a changed field to the deeper fields it clears.
type Rules map[Field][]Field

// rules holds the cascading reset table of every view.
var rules = map[View]Rules{
	ViewDashboard: {
		FieldState:    {FieldDistrict, FieldCrop},
		FieldDistrict: {FieldCrop},
	},
	ViewInsights: {
		FieldState: {FieldDistrict},
	},
	ViewAssistant: {
		FieldState: {FieldCrop},
	},
	ViewMap: {
		FieldState: {FieldCrop},
	},
}

// RulesFor returns the reset table of a view.
func RulesFor(v View) (Rules, error) {
	r, ok := rules[v]
	if !ok {
		return nil, fmt.Errorf("unknown view: %q", v)
	}
	return r, nil
}

// Filter is an immutable selection; an empty field means "all".
type Filter struct {
	State    string `json:"state"`
	District string `json:"district"`
	Crop     string `json:"crop"`
	Season   string `json:"season"`
}

// Get returns the value of one field.
func (f Filter) Get(field Field) string {
	switch field {
	case FieldState:
		return f.State
	case FieldDistrict:
		return f.District
	case FieldCrop:
		return f.Crop
	case FieldSeason:
		return f.Season
	}
	return ""
}

func (f Filter) with(field Field, value string) Filter {
	switch field {
	case FieldState:
		f.State = value
	case FieldDistrict:
		f.District = value
	case FieldCrop:
		f.Crop = value
	case FieldSeason:
		f.Season = value
	}
	return f
}

// Set returns the filter after changing field to value. When the value
// actually changes, every field listed for it in rules is cleared.
func (f Filter) Set(r Rules, field Field, value string) Filter {
	value = strings.TrimSpace(value)
	if f.Get(field) == value {
		return f
	}
	next := f.with(field, value)
	for _, dep := range r[field] {
		next = next.with(dep, "")
	}
	return next
}

// Matches reports whether a record passes every non-empty field.
func (f Filter) Matches(r records.CropRecord) bool {
	return (f.State == "" || r.StateName == f.State) &&
		(f.District == "" || r.DistrictName == f.District) &&
		(f.Crop == "" || r.Crop == f.Crop) &&
		(f.Season == "" || r.Season == f.Season)
}

// Apply returns the records that match the filter, in input order.
func (f Filter) Apply(recs []records.CropRecord) []records.CropRecord {
	out := []records.CropRecord{}
	for _, r := range recs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsZero reports whether no field is selected.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
