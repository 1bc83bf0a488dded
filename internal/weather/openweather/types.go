package openweather

// ForecastResponse is the subset of the OpenWeatherMap 5-day forecast payload
// the service consumes.
type ForecastResponse struct {
	List []ForecastEntry `json:"list"`
}

// ForecastEntry is a single 3-hour forecast slot.
type ForecastEntry struct {
	Weather []Condition `json:"weather"`
}

// Condition carries the human-readable weather description.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// FirstDescription extracts the first forecast entry's short description, or
// "" when the payload has no usable entry.
func (r *ForecastResponse) FirstDescription() string {
	if r == nil || len(r.List) == 0 || len(r.List[0].Weather) == 0 {
		return ""
	}
	return r.List[0].Weather[0].Description
}
