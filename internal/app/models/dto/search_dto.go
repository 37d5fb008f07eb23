package dto

// Search sort orders
const (
	SortByDistance = "distance" // ascending, events without a distance last
	SortByDate     = "date"     // ascending start date (default)
	SortByNewest   = "newest"   // descending creation date
)

// SearchRequest is the free-form event search payload. Radius is in
// kilometers and only applies when lat, lng and radius are all present.
type SearchRequest struct {
	Keyword  string   `json:"keyword"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Radius   *float64 `json:"radius,omitempty"`
	DateFrom string   `json:"dateFrom,omitempty"` // YYYY-MM-DD
	DateTo   string   `json:"dateTo,omitempty"`   // YYYY-MM-DD
	Sort     string   `json:"sort,omitempty" binding:"omitempty,oneof=distance date newest"`
	HidePast bool     `json:"hidePast,omitempty"`
}
