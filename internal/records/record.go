package records

// RawRow is one worksheet row as produced by a parser: column name to value.
// Column names and their presence are not guaranteed.
type RawRow map[string]any

// CropRecord is the canonical, immutable shape of one uploaded row.
type CropRecord struct {
	StateName             string  `json:"state_name"`
	DistrictName          string  `json:"district_name"`
	Crop                  string  `json:"crop"`
	CropYear              string  `json:"crop_year"`
	Season                string  `json:"season"`
	Area                  float64 `json:"area"`
	Production            float64 `json:"production"`
	Yield                 float64 `json:"yield"`
	SoilQuality           float64 `json:"soil_quality"`
	Seeds                 float64 `json:"seeds"`
	Fertilizer            float64 `json:"fertilizer"`
	Water                 float64 `json:"water"`
	RecommendedFertilizer string  `json:"recommended_fertilizer"`
}

// DefaultFertilizer is used when a row names no recommended fertilizer.
const DefaultFertilizer = "N/A"

// Raw re-expresses the record as a RawRow keyed by canonical column names.
func (r CropRecord) Raw() RawRow {
	return RawRow{
		"state_name":             r.StateName,
		"district_name":          r.DistrictName,
		"crop":                   r.Crop,
		"crop_year":              r.CropYear,
		"season":                 r.Season,
		"area":                   r.Area,
		"production":             r.Production,
		"yield":                  r.Yield,
		"soil_quality":           r.SoilQuality,
		"seeds":                  r.Seeds,
		"fertilizer":             r.Fertilizer,
		"water":                  r.Water,
		"recommended_fertilizer": r.RecommendedFertilizer,
	}
}

// Field reads one string attribute of a record.
type Field func(CropRecord) string

// Accessors for the string attributes used by filters and groupings.
var (
	State    Field = func(r CropRecord) string { return r.StateName }
	District Field = func(r CropRecord) string { return r.DistrictName }
	Crop     Field = func(r CropRecord) string { return r.Crop }
	Year     Field = func(r CropRecord) string { return r.CropYear }
	Season   Field = func(r CropRecord) string { return r.Season }
)
