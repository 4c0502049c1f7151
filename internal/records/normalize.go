package records

import (
	"math"
	"sort"
	"strings"
)

// columnAliases lists accepted column names per canonical field, in priority order.
var columnAliases = map[string][]string{
	"state_name":             {"state_name", "state"},
	"district_name":          {"district_name", "district"},
	"crop":                   {"crop", "crop_name"},
	"crop_year":              {"crop_year", "year"},
	"season":                 {"season"},
	"area":                   {"area_", "area"},
	"production":             {"production_", "production"},
	"yield":                  {"yield"},
	"soil_quality":           {"soil_quality"},
	"seeds":                  {"seeds"},
	"fertilizer":             {"fertilizer"},
	"water":                  {"water"},
	"recommended_fertilizer": {"recommended_fertilizer", "recommended_fert"},
}

// NormalizeColumnName folds a header to its lookup form: trimmed, lower case,
// with spaces and hyphens replaced by underscores.
func NormalizeColumnName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return '_'
		}
		return r
	}, s)
}

// CanonicalField maps a header to the record field it feeds, or "" when the
// column is not recognized.
func CanonicalField(header string) string {
	nk := NormalizeColumnName(header)
	for field, aliases := range columnAliases {
		for _, a := range aliases {
			if a == nk {
				return field
			}
		}
	}
	return ""
}

// lookup resolves RawRow keys regardless of header casing or spacing.
type lookup map[string]any

func newLookup(row RawRow) lookup {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l := make(lookup, len(row))
	for _, k := range keys {
		v := row[k]
		nk := NormalizeColumnName(k)
		// keep the first non-empty value when two headers fold together
		if prev, ok := l[nk]; ok && !isBlank(prev) {
			continue
		}
		l[nk] = v
	}
	return l
}

// get returns the first alias holding a non-blank value.
func (l lookup) get(field string) any {
	for _, alias := range columnAliases[field] {
		if v, ok := l[alias]; ok && !isBlank(v) {
			return v
		}
	}
	return nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// NormalizeRow converts one RawRow into a CropRecord. It never fails; missing
// or malformed fields fall back to zero values, "" or DefaultFertilizer.
func NormalizeRow(row RawRow) CropRecord {
	l := newLookup(row)
	rec := CropRecord{
		StateName:             toText(l.get("state_name")),
		DistrictName:          toText(l.get("district_name")),
		Crop:                  toText(l.get("crop")),
		CropYear:              toText(l.get("crop_year")),
		Season:                toText(l.get("season")),
		Area:                  nonNegative(ToNumber(l.get("area"))),
		Production:            nonNegative(ToNumber(l.get("production"))),
		SoilQuality:           ToNumber(l.get("soil_quality")),
		Seeds:                 ToNumber(l.get("seeds")),
		Fertilizer:            ToNumber(l.get("fertilizer")),
		Water:                 ToNumber(l.get("water")),
		RecommendedFertilizer: toText(l.get("recommended_fertilizer")),
	}
	if rec.RecommendedFertilizer == "" {
		rec.RecommendedFertilizer = DefaultFertilizer
	}
	rec.Yield = resolveYield(ToNumber(l.get("yield")), rec.Production, rec.Area)
	return rec
}

// resolveYield prefers an explicit yield, then production/area. A zero area,
// or a quotient that overflows, yields 0 rather than an infinity.
func resolveYield(explicit, production, area float64) float64 {
	if explicit != 0 {
		return explicit
	}
	if area == 0 {
		return 0
	}
	y := production / area
	if math.IsInf(y, 0) || math.IsNaN(y) {
		return 0
	}
	return y
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// Normalize converts rows in order; the output always has len(rows) entries.
func Normalize(rows []RawRow) []CropRecord {
	out := make([]CropRecord, len(rows))
	for i, row := range rows {
		out[i] = NormalizeRow(row)
	}
	return out
}
